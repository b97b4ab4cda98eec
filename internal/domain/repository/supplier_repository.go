package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
// Exists es el directorio que consume el coordinador de recepciones.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByOwnerAndID(ownerID, id string) (*entity.Supplier, error)
	Exists(ownerID, id string) (bool, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(ownerID, id string) error
}
