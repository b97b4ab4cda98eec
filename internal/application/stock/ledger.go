// Package stock implementa el ledger de stock: la única autoridad para mutar
// el contador de stock de un producto. Los coordinadores de ventas y
// recepciones lo invocan con repositorios atados a su transacción; nunca
// tocan el contador directamente.
package stock

import (
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// Ledger aplica incrementos, decrementos y reversas sobre products.stock.
// Cada operación bloquea la fila (SELECT FOR UPDATE vía GetForUpdate), de modo
// que dos mutaciones concurrentes sobre el mismo producto se serializan y la
// suma de decrementos exitosos nunca deja el stock por debajo de cero.
type Ledger struct {
	log *logger.Logger
}

// NewLedger construye el ledger.
func NewLedger(log *logger.Logger) *Ledger {
	return &Ledger{log: log}
}

// Decrement resta qty al stock del producto (venta). Retorna ErrNotFound si el
// producto no existe para ese tenant y *domain.InsufficientStockError si el
// stock bloqueado es menor a qty.
func (l *Ledger) Decrement(productRepo repository.ProductRepository, ownerID, productID string, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(ownerID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.Stock < qty {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}
	return productRepo.UpdateStock(ownerID, productID, product.Stock-qty)
}

// Increment suma qty al stock del producto (recepción de mercancía).
// Sin tope superior.
func (l *Ledger) Increment(productRepo repository.ProductRepository, ownerID, productID string, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(ownerID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return productRepo.UpdateStock(ownerID, productID, product.Stock+qty)
}

// ReverseDecrement devuelve al stock las unidades de un decremento previo
// (anulación de una venta ya confirmada). Si el producto ya no existe, registra
// la inconsistencia y continúa: política explícita de tolerancia a referencias
// huérfanas, para que la reversa sea idempotente.
func (l *Ledger) ReverseDecrement(productRepo repository.ProductRepository, ownerID, productID string, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(ownerID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		l.warnMissing("reverse_decrement", ownerID, productID, qty)
		return nil
	}
	return productRepo.UpdateStock(ownerID, productID, product.Stock+qty)
}

// ReverseIncrement revierte un incremento previo (eliminación de una
// recepción). El resultado se recorta a un piso de 0 en lugar de fallar, para
// tolerar una doble reversa o un producto que se vendió después de recibido.
// Producto ausente: misma política de tolerancia que ReverseDecrement.
func (l *Ledger) ReverseIncrement(productRepo repository.ProductRepository, ownerID, productID string, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(ownerID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		l.warnMissing("reverse_increment", ownerID, productID, qty)
		return nil
	}
	newStock := product.Stock - qty
	if newStock < 0 {
		l.log.Warn().
			Str("owner_id", ownerID).
			Str("product_id", productID).
			Int64("stock", product.Stock).
			Int64("qty", qty).
			Msg("reversa de incremento recortada al piso 0")
		newStock = 0
	}
	return productRepo.UpdateStock(ownerID, productID, newStock)
}

// warnMissing registra la inconsistencia de una reversa sin producto destino.
// No es fatal para la unidad de trabajo que la contiene.
func (l *Ledger) warnMissing(op, ownerID, productID string, qty int64) {
	l.log.Warn().
		Str("op", op).
		Str("owner_id", ownerID).
		Str("product_id", productID).
		Int64("qty", qty).
		Msg("inconsistencia en reversa: producto no encontrado, se continúa")
}
