package shipments

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios ligados a
// ella. Si fn retorna error la transacción hace rollback completo.
type TxRunner interface {
	RunShipment(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		shipmentRepo repository.ShipmentRepository,
	) error) error
}
