package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest alta manual de cliente (el POS lo hace vía upsert).
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CustomerResponse cliente de la tienda.
type CustomerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	LoyaltyPoints  int64           `json:"loyalty_points"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}
