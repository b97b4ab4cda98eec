package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda. El teléfono es único por tenant
// y es la llave de deduplicación del upsert.
// LoyaltyPoints y TotalPurchases se actualizan fuera del motor de ventas.
type Customer struct {
	ID             string
	OwnerID        string
	Name           string
	Phone          string
	LoyaltyPoints  int64
	TotalPurchases decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
