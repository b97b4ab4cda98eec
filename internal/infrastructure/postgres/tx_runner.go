package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/application/shipments"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

// Ensure TxRunner implements sales.TxRunner and shipments.TxRunner.
var _ sales.TxRunner = (*TxRunner)(nil)
var _ shipments.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSales inicia una transacción con los repos que necesita una venta POS
// (productos, clientes y la venta misma) y hace Commit o Rollback.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	txRepo repository.SalesTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	customerRepo := NewCustomerRepository(tx)
	txRepo := NewSalesTransactionRepository(tx)

	if err := fn(productRepo, customerRepo, txRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunShipment inicia una transacción con los repos de una recepción de
// mercancía (productos y shipments) y hace Commit o Rollback.
func (r *TxRunner) RunShipment(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	shipmentRepo := NewShipmentRepository(tx)

	if err := fn(productRepo, shipmentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
