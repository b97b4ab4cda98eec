package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una recepción de mercancía.
const (
	ShipmentPaymentPaid    = "PAID"
	ShipmentPaymentCredit  = "CREDIT"
	ShipmentPaymentPartial = "PARTIAL"
)

// Shipment representa la recepción de mercancía de un proveedor.
// InvoiceAmt y TotalItemCount se derivan de las líneas al momento de crear;
// al eliminar el shipment se revierte el efecto en stock de cada línea.
type Shipment struct {
	ID             string
	OwnerID        string
	SupplierID     string
	RefNo          string
	PaymentStatus  string
	InvoiceAmt     decimal.Decimal
	TotalItemCount int64
	ReceivedAt     time.Time
	CreatedAt      time.Time
}

// ShipmentItem es una línea recibida. ProductName es un snapshot del nombre
// al momento de la recepción (el producto puede renombrarse después).
type ShipmentItem struct {
	ID          string
	ShipmentID  string
	ProductID   string
	ProductName string
	QtyReceived int64
	UnitPrice   decimal.Decimal
	MfgDate     time.Time
	ExpDate     time.Time
	BatchNo     string
}
