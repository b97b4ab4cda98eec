package dto

import "github.com/shopspring/decimal"

// ShipmentItemRequest línea recibida del proveedor. Las fechas van en
// formato 2006-01-02; vacías = se derivan con la política por defecto.
type ShipmentItemRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	QtyReceived int64           `json:"qty_received"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MfgDate     string          `json:"mfg_date"`
	ExpDate     string          `json:"exp_date"`
	BatchNo     string          `json:"batch_no"`
}

// CreateShipmentRequest request para registrar una recepción de mercancía.
type CreateShipmentRequest struct {
	SupplierID    string                `json:"supplier_id"`
	RefNo         string                `json:"ref_no"`
	PaymentStatus string                `json:"payment_status"`
	ReceivedAt    string                `json:"received_at"` // RFC3339; vacío = ahora
	Items         []ShipmentItemRequest `json:"items"`
}

// ShipmentItemResponse línea persistida con fechas resueltas.
type ShipmentItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	QtyReceived int64           `json:"qty_received"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MfgDate     string          `json:"mfg_date"`
	ExpDate     string          `json:"exp_date"`
	BatchNo     string          `json:"batch_no,omitempty"`
}

// ShipmentResponse recepción confirmada.
type ShipmentResponse struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"owner_id"`
	SupplierID     string                 `json:"supplier_id"`
	RefNo          string                 `json:"ref_no"`
	PaymentStatus  string                 `json:"payment_status"`
	InvoiceAmt     decimal.Decimal        `json:"invoice_amt"`
	TotalItemCount int64                  `json:"total_item_count"`
	ReceivedAt     string                 `json:"received_at"`
	Items          []ShipmentItemResponse `json:"items"`
}
