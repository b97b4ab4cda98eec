package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// UserRepository define el puerto de persistencia para cuentas de acceso.
// El email es la credencial de login (sin tenant en el request), así que es
// único global: una fila por email en toda la tabla.
type UserRepository interface {
	// Create retorna domain.ErrEmailAlreadyExists si el email ya está
	// registrado en cualquier tenant.
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
}
