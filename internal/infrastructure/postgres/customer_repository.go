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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, owner_id, name, phone, loyalty_points, total_purchases, created_at, updated_at`

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente. La carrera del upsert se resuelve con
// ON CONFLICT DO NOTHING: el duplicado no lanza 23505 (que abortaría la
// transacción de la venta en curso) sino que inserta cero filas, y eso se
// reporta como ErrDuplicate para que el caller relea.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, owner_id, name, phone, loyalty_points, total_purchases, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, phone) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.OwnerID, customer.Name, customer.Phone,
		customer.LoyaltyPoints, customer.TotalPurchases, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// GetByOwnerAndID obtiene un cliente del tenant.
func (r *CustomerRepo) GetByOwnerAndID(ownerID, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, ownerID, id))
}

// GetByOwnerAndPhone obtiene un cliente por teléfono dentro del tenant.
func (r *CustomerRepo) GetByOwnerAndPhone(ownerID, phone string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = $1 AND phone = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, ownerID, phone))
}

// ListByOwner retorna los clientes del tenant paginados.
func (r *CustomerRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var out []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.LoyaltyPoints, &c.TotalPurchases, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Update actualiza nombre y contadores de lealtad.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET name = $3, loyalty_points = $4, total_purchases = $5, updated_at = $6
		WHERE owner_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		customer.OwnerID, customer.ID, customer.Name,
		customer.LoyaltyPoints, customer.TotalPurchases, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) scanOne(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.LoyaltyPoints, &c.TotalPurchases, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
