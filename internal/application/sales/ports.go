package sales

import (
	"context"

	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la venta, sus líneas, el
// cliente resuelto y los decrementos de stock se confirman o descartan
// como una sola unidad.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		txRepo repository.SalesTransactionRepository,
	) error) error
}
