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

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, owner_id, supplier_id, ref_no, payment_status, invoice_amt, total_item_count, received_at, created_at`

// ShipmentRepo implementación del puerto ShipmentRepository sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador de persistencia para recepciones. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create persiste la cabecera de la recepción.
func (r *ShipmentRepo) Create(shipment *entity.Shipment) error {
	query := `
		INSERT INTO shipments (id, owner_id, supplier_id, ref_no, payment_status, invoice_amt, total_item_count, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		shipment.ID, shipment.OwnerID, shipment.SupplierID, shipment.RefNo,
		shipment.PaymentStatus, shipment.InvoiceAmt, shipment.TotalItemCount,
		shipment.ReceivedAt, shipment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// CreateItem persiste una línea recibida.
func (r *ShipmentRepo) CreateItem(item *entity.ShipmentItem) error {
	query := `
		INSERT INTO shipment_items (id, shipment_id, product_id, product_name, qty_received, unit_price, mfg_date, exp_date, batch_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ShipmentID, item.ProductID, item.ProductName,
		item.QtyReceived, item.UnitPrice, item.MfgDate, item.ExpDate, item.BatchNo,
	)
	if err != nil {
		return fmt.Errorf("insert shipment item: %w", err)
	}
	return nil
}

// GetByOwnerAndID obtiene una recepción del tenant.
func (r *ShipmentRepo) GetByOwnerAndID(ownerID, id string) (*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE owner_id = $1 AND id = $2`
	var s entity.Shipment
	err := r.q.QueryRow(context.Background(), query, ownerID, id).Scan(
		&s.ID, &s.OwnerID, &s.SupplierID, &s.RefNo, &s.PaymentStatus,
		&s.InvoiceAmt, &s.TotalItemCount, &s.ReceivedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &s, nil
}

// GetItemsByShipmentID obtiene las líneas de una recepción.
func (r *ShipmentRepo) GetItemsByShipmentID(shipmentID string) ([]*entity.ShipmentItem, error) {
	query := `
		SELECT id, shipment_id, product_id, product_name, qty_received, unit_price, mfg_date, exp_date, batch_no
		FROM shipment_items WHERE shipment_id = $1`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer rows.Close()
	var out []*entity.ShipmentItem
	for rows.Next() {
		var it entity.ShipmentItem
		if err := rows.Scan(&it.ID, &it.ShipmentID, &it.ProductID, &it.ProductName, &it.QtyReceived, &it.UnitPrice, &it.MfgDate, &it.ExpDate, &it.BatchNo); err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// ListByOwner retorna las recepciones del tenant, más recientes primero.
func (r *ShipmentRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE owner_id = $1 ORDER BY received_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	var out []*entity.Shipment
	for rows.Next() {
		var s entity.Shipment
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.SupplierID, &s.RefNo, &s.PaymentStatus, &s.InvoiceAmt, &s.TotalItemCount, &s.ReceivedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// DeleteItemsByShipmentID elimina las líneas de una recepción (cascada manual,
// dentro de la misma tx que revierte el stock).
func (r *ShipmentRepo) DeleteItemsByShipmentID(shipmentID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM shipment_items WHERE shipment_id = $1`, shipmentID)
	if err != nil {
		return fmt.Errorf("delete shipment items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de una recepción del tenant.
func (r *ShipmentRepo) Delete(ownerID, id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM shipments WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
