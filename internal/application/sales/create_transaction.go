// Package sales implementa el coordinador de ventas POS: valida, liquida,
// persiste y descuenta stock en una sola unidad de trabajo.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/application/customers"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/stock"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/internal/domain/settlement"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// Rates tasas de liquidación vigentes (vienen de configuración, ver pkg/config).
type Rates struct {
	StoreDiscountRate decimal.Decimal
	TaxRate           decimal.Decimal
}

// CreateTransactionUseCase registra una venta POS.
// Fases: validación (empleado, productos, stock de TODAS las líneas),
// liquidación (settlement.Settle) y persistencia transaccional (cabecera,
// líneas y un decremento de stock por línea). Cualquier fallo antes del
// commit deja cero efectos observables.
type CreateTransactionUseCase struct {
	txRunner       TxRunner
	productRepo    repository.ProductRepository
	employeeRepo   repository.EmployeeRepository
	salesRepo      repository.SalesTransactionRepository
	customerUpsert *customers.UpsertUseCase
	ledger         *stock.Ledger
	rates          Rates
	log            *logger.Logger
}

// NewCreateTransactionUseCase construye el coordinador.
func NewCreateTransactionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	salesRepo repository.SalesTransactionRepository,
	customerUpsert *customers.UpsertUseCase,
	ledger *stock.Ledger,
	rates Rates,
	log *logger.Logger,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		txRunner:       txRunner,
		productRepo:    productRepo,
		employeeRepo:   employeeRepo,
		salesRepo:      salesRepo,
		customerUpsert: customerUpsert,
		ledger:         ledger,
		rates:          rates,
		log:            log,
	}
}

// LineItemInput línea de venta ya adaptada desde el transporte.
// UnitPrice en nil = usar el precio vigente del producto; un 0 explícito
// se respeta (artículo de cortesía).
type LineItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice *decimal.Decimal
	Discount  decimal.Decimal
}

// CreateTransactionInput entrada del coordinador. TransactionID lo aporta el
// caller; repetirlo retorna ErrConflict en lugar de reprocesar.
type CreateTransactionInput struct {
	TransactionID string
	Date          time.Time // cero = ahora
	EmployeeID    string
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	PaymentRefNo  string
	Items         []LineItemInput
}

// Create ejecuta la venta completa. Errores posibles: ErrInvalidInput,
// ErrNotFound (empleado o producto del tenant), *InsufficientStockError
// (primera línea ofensora, antes de mutar nada) y ErrConflict (ID repetido).
func (uc *CreateTransactionUseCase) Create(ctx context.Context, ownerID string, in CreateTransactionInput) (*dto.SalesTransactionResponse, error) {
	// ── Validación ───────────────────────────────────────────────────────
	if ownerID == "" || in.TransactionID == "" || in.EmployeeID == "" || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity < 1 || (it.UnitPrice != nil && it.UnitPrice.IsNegative()) {
			return nil, domain.ErrInvalidInput
		}
		if seen[it.ProductID] {
			// Una línea por producto: el POS debe consolidar cantidades.
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}

	ok, err := uc.employeeRepo.Exists(ownerID, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("verificar empleado: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("empleado %s: %w", in.EmployeeID, domain.ErrNotFound)
	}

	// Carga en batch, escopada al tenant. Un ID ausente = NotFound inmediato.
	loaded, err := uc.productRepo.ListByOwnerAndIDs(ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	productsByID := make(map[string]*entity.Product, len(loaded))
	for _, p := range loaded {
		productsByID[p.ID] = p
	}
	for _, it := range in.Items {
		if productsByID[it.ProductID] == nil {
			return nil, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
		}
	}

	// Verificar stock de TODAS las líneas antes de mutar cualquiera:
	// una venta multi-línea jamás descuenta unos productos y falla en otro.
	// (El ledger re-verifica bajo bloqueo de fila dentro de la transacción.)
	for _, it := range in.Items {
		product := productsByID[it.ProductID]
		if product.Stock < it.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   it.Quantity,
				Available:   product.Stock,
			}
		}
	}

	// ── Liquidación ──────────────────────────────────────────────────────
	lines := make([]settlement.LineItem, 0, len(in.Items))
	persistItems := make([]*entity.SalesTransactionItem, 0, len(in.Items))
	for _, it := range in.Items {
		unitPrice := productsByID[it.ProductID].UnitPrice
		if it.UnitPrice != nil {
			unitPrice = *it.UnitPrice
		}
		clamped := settlement.Clamp(settlement.LineItem{
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
			Discount:  it.Discount,
		})
		lines = append(lines, clamped)
		persistItems = append(persistItems, &entity.SalesTransactionItem{
			OwnerID:       ownerID,
			TransactionID: in.TransactionID,
			ProductID:     it.ProductID,
			Quantity:      clamped.Quantity,
			UnitPrice:     clamped.UnitPrice,
			Discount:      clamped.Discount,
		})
	}
	sett := settlement.Settle(lines, uc.rates.StoreDiscountRate, uc.rates.TaxRate).Rounded()

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	now := time.Now()

	// ── Persistencia: todo o nada ────────────────────────────────────────
	txEntity := &entity.SalesTransaction{
		ID:            in.TransactionID,
		OwnerID:       ownerID,
		Date:          date,
		EmployeeID:    in.EmployeeID,
		PaymentMethod: in.PaymentMethod,
		PaymentRefNo:  in.PaymentRefNo,
		Subtotal:      sett.Subtotal,
		DiscountAmt:   sett.DiscountAmt,
		TaxAmt:        sett.TaxAmt,
		TotalAmt:      sett.TotalAmt,
		Status:        entity.TransactionStatusCompleted,
		CreatedAt:     now,
	}

	err = uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		txRepo repository.SalesTransactionRepository,
	) error {
		// Cliente: se resuelve dentro de la tx; si la venta hace rollback
		// el cliente creado también desaparece.
		if in.CustomerName != "" && in.CustomerPhone != "" {
			customer, err := uc.customerUpsert.UpsertTx(customerRepo, ownerID, in.CustomerName, in.CustomerPhone)
			if err != nil {
				return err
			}
			txEntity.CustomerID = customer.ID
		}

		// La cabecera va primero: un transaction_id repetido choca aquí
		// (ErrConflict) antes de tocar stock.
		if err := txRepo.Create(txEntity); err != nil {
			return err
		}
		for _, item := range persistItems {
			if err := txRepo.CreateItem(item); err != nil {
				return err
			}
		}
		// Un decremento por línea, bajo bloqueo de fila. Si alguno falla
		// (carrera con otra venta) se descarta toda la unidad.
		for _, item := range persistItems {
			if err := uc.ledger.Decrement(productRepo, ownerID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("owner_id", ownerID).
		Str("transaction_id", txEntity.ID).
		Str("total", txEntity.TotalAmt.StringFixed(2)).
		Int("lines", len(persistItems)).
		Msg("venta registrada")

	return toResponse(txEntity, persistItems), nil
}

// Get obtiene una venta confirmada con sus líneas, escopada al tenant.
func (uc *CreateTransactionUseCase) Get(ctx context.Context, ownerID, id string) (*dto.SalesTransactionResponse, error) {
	tx, err := uc.salesRepo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.salesRepo.GetItemsByTransactionID(ownerID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(tx, items), nil
}

// List retorna las ventas del tenant, más recientes primero, sin líneas.
func (uc *CreateTransactionUseCase) List(ctx context.Context, ownerID string, limit, offset int) ([]*dto.SalesTransactionResponse, error) {
	rows, err := uc.salesRepo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalesTransactionResponse, 0, len(rows))
	for _, tx := range rows {
		out = append(out, toResponse(tx, nil))
	}
	return out, nil
}

func toResponse(tx *entity.SalesTransaction, items []*entity.SalesTransactionItem) *dto.SalesTransactionResponse {
	resp := &dto.SalesTransactionResponse{
		ID:            tx.ID,
		OwnerID:       tx.OwnerID,
		Date:          tx.Date.Format(time.RFC3339),
		EmployeeID:    tx.EmployeeID,
		CustomerID:    tx.CustomerID,
		PaymentMethod: tx.PaymentMethod,
		PaymentRefNo:  tx.PaymentRefNo,
		Subtotal:      tx.Subtotal,
		DiscountAmt:   tx.DiscountAmt,
		TaxAmt:        tx.TaxAmt,
		TotalAmt:      tx.TotalAmt,
		Status:        tx.Status,
		Items:         make([]dto.SalesLineItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SalesLineItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		})
	}
	return resp
}
