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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, owner_id, name, category_id, unit_price, stock, min_stock, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, owner_id, name, category_id, unit_price, stock, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.OwnerID, product.Name, nullIfEmpty(product.CategoryID),
		product.UnitPrice, product.Stock, product.MinStock, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByOwnerAndID obtiene un producto del tenant.
func (r *ProductRepo) GetByOwnerAndID(ownerID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, ownerID, id))
}

// GetForUpdate obtiene el producto bloqueando la fila. Las mutaciones de
// stock sobre el mismo producto se serializan en este lock.
func (r *ProductRepo) GetForUpdate(ownerID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, ownerID, id))
}

// ListByOwnerAndIDs carga en batch los productos solicitados del tenant.
func (r *ProductRepo) ListByOwnerAndIDs(ownerID string, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(context.Background(), query, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByOwner retorna el catálogo del tenant paginado.
func (r *ProductRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update actualiza nombre, categoría, precio y punto de reorden. El stock no se toca aquí.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, category_id = $4, unit_price = $5, min_stock = $6, updated_at = $7
		WHERE owner_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		product.OwnerID, product.ID, product.Name, nullIfEmpty(product.CategoryID),
		product.UnitPrice, product.MinStock, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija el contador de stock. Reservado al stock ledger.
func (r *ProductRepo) UpdateStock(ownerID, id string, stock int64) error {
	query := `UPDATE products SET stock = $3, updated_at = NOW() WHERE owner_id = $1 AND id = $2`
	cmd, err := r.q.Exec(context.Background(), query, ownerID, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto del tenant.
func (r *ProductRepo) Delete(ownerID, id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &categoryID, &p.UnitPrice, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

func (r *ProductRepo) scanAll(rows pgx.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		var categoryID *string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &categoryID, &p.UnitPrice, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if categoryID != nil {
			p.CategoryID = *categoryID
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// nullIfEmpty mapea "" a NULL para columnas FK opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
