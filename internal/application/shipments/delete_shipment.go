package shipments

import (
	"context"
	"fmt"

	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Delete elimina una recepción del tenant revirtiendo su efecto en stock.
// Por cada línea se descuenta lo recibido (con piso en cero); si un producto
// ya no existe la reversa lo registra como advertencia y continúa. La
// cabecera, las líneas y las reversas caen en la misma transacción.
func (uc *ReceiveShipmentUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" || id == "" {
		return domain.ErrInvalidInput
	}
	shipment, err := uc.shipmentRepo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return err
	}
	if shipment == nil {
		return domain.ErrNotFound
	}

	err = uc.txRunner.RunShipment(ctx, func(productRepo repository.ProductRepository, shipmentRepo repository.ShipmentRepository) error {
		items, err := shipmentRepo.GetItemsByShipmentID(shipment.ID)
		if err != nil {
			return fmt.Errorf("cargar líneas de recepción: %w", err)
		}
		for _, item := range items {
			if err := uc.ledger.ReverseIncrement(productRepo, ownerID, item.ProductID, item.QtyReceived); err != nil {
				return fmt.Errorf("revertir stock de %s: %w", item.ProductID, err)
			}
		}
		if err := shipmentRepo.DeleteItemsByShipmentID(shipment.ID); err != nil {
			return fmt.Errorf("eliminar líneas: %w", err)
		}
		if err := shipmentRepo.Delete(ownerID, shipment.ID); err != nil {
			return fmt.Errorf("eliminar recepción: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("shipment_id", shipment.ID).
		Str("owner_id", ownerID).
		Msg("Recepción eliminada con reversa de stock")
	return nil
}
