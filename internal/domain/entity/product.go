package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de una tienda (tenant).
// Stock es un contador entero y solo se muta a través del stock ledger;
// MinStock es el punto de reorden (informativo, no bloquea ventas).
type Product struct {
	ID         string
	OwnerID    string
	Name       string
	CategoryID string // FK explícita; vacío = sin categoría
	UnitPrice  decimal.Decimal
	Stock      int64
	MinStock   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
