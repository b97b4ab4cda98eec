package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	// Create persiste el cliente. Retorna domain.ErrDuplicate si ya existe
	// otro cliente del mismo tenant con ese teléfono (constraint único).
	Create(customer *entity.Customer) error
	GetByOwnerAndID(ownerID, id string) (*entity.Customer, error)
	GetByOwnerAndPhone(ownerID, phone string) (*entity.Customer, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
