package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las lecturas y escrituras van predicadas por ownerID: un tenant
// nunca observa ni muta filas de otro.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByOwnerAndID(ownerID, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción; serializa las mutaciones
	// de stock sobre el mismo producto.
	GetForUpdate(ownerID, id string) (*entity.Product, error)
	// ListByOwnerAndIDs carga en un solo batch los productos solicitados.
	// Los IDs ausentes simplemente no aparecen en el resultado.
	ListByOwnerAndIDs(ownerID string, ids []string) ([]*entity.Product, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el contador de stock. Reservado al stock ledger;
	// ningún otro componente debe llamarlo.
	UpdateStock(ownerID, id string, stock int64) error
	Delete(ownerID, id string) error
}
