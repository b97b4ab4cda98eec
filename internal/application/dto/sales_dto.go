package dto

import "github.com/shopspring/decimal"

// SalesLineItemRequest línea de venta del request HTTP.
// UnitPrice ausente = usar el precio vigente del producto; un 0 explícito
// se respeta y la línea liquida en 0 (artículo de cortesía).
type SalesLineItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateSalesTransactionRequest request para registrar una venta POS.
// TransactionID lo genera el POS cliente; repetirlo produce 409 (idempotencia).
type CreateSalesTransactionRequest struct {
	TransactionID string                 `json:"transaction_id"`
	Date          string                 `json:"date"` // RFC3339; vacío = ahora
	EmployeeID    string                 `json:"employee_id"`
	CustomerName  string                 `json:"customer_name"`
	CustomerPhone string                 `json:"customer_phone"`
	PaymentMethod string                 `json:"payment_method"`
	PaymentRefNo  string                 `json:"payment_ref_no"`
	Items         []SalesLineItemRequest `json:"items"`
}

// SalesLineItemResponse línea de venta persistida (descuento ya recortado).
type SalesLineItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// SalesTransactionResponse venta confirmada con su liquidación.
type SalesTransactionResponse struct {
	ID            string                  `json:"id"`
	OwnerID       string                  `json:"owner_id"`
	Date          string                  `json:"date"`
	EmployeeID    string                  `json:"employee_id"`
	CustomerID    string                  `json:"customer_id,omitempty"`
	PaymentMethod string                  `json:"payment_method"`
	PaymentRefNo  string                  `json:"payment_ref_no,omitempty"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	DiscountAmt   decimal.Decimal         `json:"discount_amt"`
	TaxAmt        decimal.Decimal         `json:"tax_amt"`
	TotalAmt      decimal.Decimal         `json:"total_amt"`
	Status        string                  `json:"status"`
	Items         []SalesLineItemResponse `json:"items"`
}
