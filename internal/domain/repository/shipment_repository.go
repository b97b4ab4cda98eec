package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// ShipmentRepository define el puerto de persistencia para recepciones
// de mercancía y sus líneas.
type ShipmentRepository interface {
	Create(shipment *entity.Shipment) error
	CreateItem(item *entity.ShipmentItem) error
	GetByOwnerAndID(ownerID, id string) (*entity.Shipment, error)
	GetItemsByShipmentID(shipmentID string) ([]*entity.ShipmentItem, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Shipment, error)
	// DeleteItemsByShipmentID y Delete se usan juntos dentro de la misma
	// transacción que revierte el stock (cascada manual).
	DeleteItemsByShipmentID(shipmentID string) error
	Delete(ownerID, id string) error
}
