package entity

import "time"

// Roles de usuario de la aplicación.
const (
	RoleAdmin     = "admin"
	RoleCajero    = "cajero"
	RoleBodeguero = "bodeguero"
)

// User representa una cuenta de acceso a la API. OwnerID es el tenant
// al que pertenecen todos sus datos.
type User struct {
	ID           string
	OwnerID      string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
