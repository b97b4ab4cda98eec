package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

const employeeColumns = `id, owner_id, name, role, status, created_at, updated_at`

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL (usable con pool o tx).
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador de persistencia para empleados. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// Create persiste un empleado.
func (r *EmployeeRepo) Create(employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, owner_id, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		employee.ID, employee.OwnerID, employee.Name, employee.Role,
		employee.Status, employee.CreatedAt, employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByOwnerAndID obtiene un empleado del tenant.
func (r *EmployeeRepo) GetByOwnerAndID(ownerID, id string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE owner_id = $1 AND id = $2`
	var e entity.Employee
	err := r.q.QueryRow(context.Background(), query, ownerID, id).Scan(
		&e.ID, &e.OwnerID, &e.Name, &e.Role, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

// Exists verifica pertenencia al tenant sin cargar la fila completa.
func (r *EmployeeRepo) Exists(ownerID, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM employees WHERE owner_id = $1 AND id = $2)`, ownerID, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("employee exists: %w", err)
	}
	return exists, nil
}

// ListByOwner retorna los empleados del tenant paginados.
func (r *EmployeeRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE owner_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var out []*entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Role, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Update actualiza nombre, rol y estado del empleado.
func (r *EmployeeRepo) Update(employee *entity.Employee) error {
	query := `
		UPDATE employees SET name = $3, role = $4, status = $5, updated_at = $6
		WHERE owner_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		employee.OwnerID, employee.ID, employee.Name, employee.Role,
		employee.Status, employee.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}
