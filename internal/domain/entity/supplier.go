package entity

import "time"

// Supplier representa un proveedor de la tienda.
type Supplier struct {
	ID          string
	OwnerID     string
	Name        string
	ContactName string
	Phone       string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
