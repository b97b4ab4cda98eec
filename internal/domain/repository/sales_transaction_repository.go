package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// SalesTransactionRepository define el puerto de persistencia para ventas.
// Una venta COMPLETED es inmutable: no hay Update ni Delete en este puerto.
type SalesTransactionRepository interface {
	// Create persiste la cabecera. Retorna domain.ErrConflict si el ID
	// (aportado por el caller) ya existe dentro del tenant — evita el doble
	// descuento de stock ante un doble submit. El mismo ID en otro tenant es
	// una venta independiente.
	Create(tx *entity.SalesTransaction) error
	CreateItem(item *entity.SalesTransactionItem) error
	GetByOwnerAndID(ownerID, id string) (*entity.SalesTransaction, error)
	GetItemsByTransactionID(ownerID, transactionID string) ([]*entity.SalesTransactionItem, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.SalesTransaction, error)
}
