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

var _ repository.SalesTransactionRepository = (*SalesTransactionRepo)(nil)

const salesTxColumns = `id, owner_id, date, employee_id, customer_id, payment_method, payment_ref_no, subtotal, discount_amt, tax_amt, total_amt, status, created_at`

// SalesTransactionRepo implementación del puerto SalesTransactionRepository sobre PostgreSQL (usable con pool o tx).
type SalesTransactionRepo struct {
	q Querier
}

// NewSalesTransactionRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSalesTransactionRepository(q Querier) *SalesTransactionRepo {
	return &SalesTransactionRepo{q: q}
}

// Create persiste la cabecera de la venta. La PK (owner_id, id) convierte un
// doble submit del mismo transaction_id en ErrConflict dentro del tenant:
// nunca hay doble descuento, y el ID de un tenant no bloquea a otro.
func (r *SalesTransactionRepo) Create(tx *entity.SalesTransaction) error {
	query := `
		INSERT INTO sales_transactions (id, owner_id, date, employee_id, customer_id, payment_method, payment_ref_no, subtotal, discount_amt, tax_amt, total_amt, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.OwnerID, tx.Date, tx.EmployeeID, nullIfEmpty(tx.CustomerID),
		tx.PaymentMethod, tx.PaymentRefNo, tx.Subtotal, tx.DiscountAmt, tx.TaxAmt,
		tx.TotalAmt, tx.Status, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sales transaction: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SalesTransactionRepo) CreateItem(item *entity.SalesTransactionItem) error {
	query := `
		INSERT INTO sales_transaction_items (owner_id, transaction_id, product_id, quantity, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.OwnerID, item.TransactionID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sales transaction item: %w", err)
	}
	return nil
}

// GetByOwnerAndID obtiene una venta del tenant.
func (r *SalesTransactionRepo) GetByOwnerAndID(ownerID, id string) (*entity.SalesTransaction, error) {
	query := `SELECT ` + salesTxColumns + ` FROM sales_transactions WHERE owner_id = $1 AND id = $2`
	var t entity.SalesTransaction
	var customerID *string
	err := r.q.QueryRow(context.Background(), query, ownerID, id).Scan(
		&t.ID, &t.OwnerID, &t.Date, &t.EmployeeID, &customerID, &t.PaymentMethod,
		&t.PaymentRefNo, &t.Subtotal, &t.DiscountAmt, &t.TaxAmt, &t.TotalAmt, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales transaction: %w", err)
	}
	if customerID != nil {
		t.CustomerID = *customerID
	}
	return &t, nil
}

// GetItemsByTransactionID obtiene las líneas de una venta del tenant.
func (r *SalesTransactionRepo) GetItemsByTransactionID(ownerID, transactionID string) ([]*entity.SalesTransactionItem, error) {
	query := `
		SELECT owner_id, transaction_id, product_id, quantity, unit_price, discount
		FROM sales_transaction_items WHERE owner_id = $1 AND transaction_id = $2`
	rows, err := r.q.Query(context.Background(), query, ownerID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list sales transaction items: %w", err)
	}
	defer rows.Close()
	var out []*entity.SalesTransactionItem
	for rows.Next() {
		var it entity.SalesTransactionItem
		if err := rows.Scan(&it.OwnerID, &it.TransactionID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount); err != nil {
			return nil, fmt.Errorf("scan sales transaction item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// ListByOwner retorna las ventas del tenant, más recientes primero.
func (r *SalesTransactionRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.SalesTransaction, error) {
	query := `SELECT ` + salesTxColumns + ` FROM sales_transactions WHERE owner_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.SalesTransaction
	for rows.Next() {
		var t entity.SalesTransaction
		var customerID *string
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Date, &t.EmployeeID, &customerID, &t.PaymentMethod,
			&t.PaymentRefNo, &t.Subtotal, &t.DiscountAmt, &t.TaxAmt, &t.TotalAmt, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales transaction: %w", err)
		}
		if customerID != nil {
			t.CustomerID = *customerID
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
