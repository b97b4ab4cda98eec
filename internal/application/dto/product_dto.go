package dto

import "github.com/shopspring/decimal"

// CreateProductRequest alta de producto. Stock inicial solo vía recepciones.
type CreateProductRequest struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	MinStock   int64           `json:"min_stock"`
}

// UpdateProductRequest actualización de producto. Stock no es editable aquí.
type UpdateProductRequest struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	MinStock   int64           `json:"min_stock"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Stock      int64           `json:"stock"`
	MinStock   int64           `json:"min_stock"`
	LowStock   bool            `json:"low_stock"`
}
