package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para Employee.
// Exists es el directorio que consume el coordinador de ventas.
type EmployeeRepository interface {
	Create(employee *entity.Employee) error
	GetByOwnerAndID(ownerID, id string) (*entity.Employee, error)
	Exists(ownerID, id string) (bool, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Employee, error)
	Update(employee *entity.Employee) error
}
