package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado terminal de una venta. El motor solo persiste ventas confirmadas:
// un fallo antes del commit no deja ningún estado intermedio observable.
const TransactionStatusCompleted = "COMPLETED"

// SalesTransaction representa la cabecera de una venta POS.
// El ID lo aporta el caller (idempotencia: un segundo intento con el mismo ID
// retorna conflicto en lugar de reprocesar).
type SalesTransaction struct {
	ID            string
	OwnerID       string
	Date          time.Time
	EmployeeID    string
	CustomerID    string // vacío = venta sin cliente registrado
	PaymentMethod string
	PaymentRefNo  string
	Subtotal      decimal.Decimal
	DiscountAmt   decimal.Decimal
	TaxAmt        decimal.Decimal
	TotalAmt      decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// SalesTransactionItem es una línea de venta. El descuento ya viene
// recortado al rango [0, cantidad × precio unitario].
type SalesTransactionItem struct {
	OwnerID       string
	TransactionID string
	ProductID     string
	Quantity      int64
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
}
