package entity

import "time"

// Employee representa un empleado que puede registrar ventas.
type Employee struct {
	ID        string
	OwnerID   string
	Name      string
	Role      string // "cajero" | "bodeguero" | "admin"
	Status    string // "active" | "inactive"
	CreatedAt time.Time
	UpdatedAt time.Time
}
