// Package shipments implementa la coordinación de recepciones de mercancía:
// alta transaccional con incremento de stock y eliminación con reversa.
package shipments

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/stock"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/internal/domain/repository"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

// Ventanas para derivar fechas de lote cuando el proveedor no las reporta.
const (
	minMfgAgeDays   = 30
	maxMfgAgeDays   = 210
	minShelfDays    = 180
	maxShelfDays    = 1092
	batchDateLayout = "2006-01-02"
)

// ReceiveShipmentUseCase registra la recepción de mercancía de un proveedor.
// Valida proveedor y productos antes de tocar nada; dentro de la transacción
// crea la cabecera, las líneas y un incremento de stock por línea.
type ReceiveShipmentUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	shipmentRepo repository.ShipmentRepository
	ledger       *stock.Ledger
	log          *logger.Logger
}

// NewReceiveShipmentUseCase construye el coordinador de recepciones.
func NewReceiveShipmentUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	shipmentRepo repository.ShipmentRepository,
	ledger *stock.Ledger,
	log *logger.Logger,
) *ReceiveShipmentUseCase {
	return &ReceiveShipmentUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		shipmentRepo: shipmentRepo,
		ledger:       ledger,
		log:          log,
	}
}

// ItemInput línea recibida ya adaptada desde el transporte.
// MfgDate/ExpDate en cero = se derivan con la política de ventanas.
type ItemInput struct {
	ProductID   string
	ProductName string
	QtyReceived int64
	UnitPrice   decimal.Decimal
	MfgDate     time.Time
	ExpDate     time.Time
	BatchNo     string
}

// ReceiveInput entrada del coordinador.
type ReceiveInput struct {
	SupplierID    string
	RefNo         string
	PaymentStatus string
	ReceivedAt    time.Time // cero = ahora
	Items         []ItemInput
}

// Receive registra la recepción completa. InvoiceAmt = Σ qty×precio (2
// decimales) y TotalItemCount = Σ qty se derivan aquí, nunca del caller.
func (uc *ReceiveShipmentUseCase) Receive(ctx context.Context, ownerID string, in ReceiveInput) (*dto.ShipmentResponse, error) {
	// ── Validación ───────────────────────────────────────────────────────
	if ownerID == "" || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentStatus {
	case entity.ShipmentPaymentPaid, entity.ShipmentPaymentCredit, entity.ShipmentPaymentPartial:
	default:
		return nil, domain.ErrInvalidInput
	}
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.QtyReceived < 1 || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if !it.MfgDate.IsZero() && !it.ExpDate.IsZero() && it.ExpDate.Before(it.MfgDate) {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, it.ProductID)
	}

	ok, err := uc.supplierRepo.Exists(ownerID, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("verificar proveedor: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
	}

	products, err := uc.productRepo.ListByOwnerAndIDs(ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, it := range in.Items {
		if byID[it.ProductID] == nil {
			return nil, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
		}
	}

	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	// ── Derivación ───────────────────────────────────────────────────────
	shipment := &entity.Shipment{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		SupplierID:    in.SupplierID,
		RefNo:         in.RefNo,
		PaymentStatus: in.PaymentStatus,
		ReceivedAt:    receivedAt,
		CreatedAt:     time.Now(),
	}
	invoice := decimal.Zero
	items := make([]*entity.ShipmentItem, 0, len(in.Items))
	for _, it := range in.Items {
		mfg, exp := resolveBatchDates(it.MfgDate, it.ExpDate, receivedAt)
		name := it.ProductName
		if name == "" {
			name = byID[it.ProductID].Name
		}
		items = append(items, &entity.ShipmentItem{
			ID:          uuid.New().String(),
			ShipmentID:  shipment.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			QtyReceived: it.QtyReceived,
			UnitPrice:   it.UnitPrice,
			MfgDate:     mfg,
			ExpDate:     exp,
			BatchNo:     it.BatchNo,
		})
		invoice = invoice.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.QtyReceived)))
		shipment.TotalItemCount += it.QtyReceived
	}
	shipment.InvoiceAmt = invoice.Round(2)

	// ── Persistencia transaccional ───────────────────────────────────────
	err = uc.txRunner.RunShipment(ctx, func(productRepo repository.ProductRepository, shipmentRepo repository.ShipmentRepository) error {
		if err := shipmentRepo.Create(shipment); err != nil {
			return fmt.Errorf("crear recepción: %w", err)
		}
		for _, item := range items {
			if err := shipmentRepo.CreateItem(item); err != nil {
				return fmt.Errorf("crear línea de recepción: %w", err)
			}
			if err := uc.ledger.Increment(productRepo, ownerID, item.ProductID, item.QtyReceived); err != nil {
				return fmt.Errorf("incrementar stock de %s: %w", item.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("shipment_id", shipment.ID).
		Str("owner_id", ownerID).
		Str("supplier_id", in.SupplierID).
		Int64("total_item_count", shipment.TotalItemCount).
		Str("invoice_amt", shipment.InvoiceAmt.String()).
		Msg("Recepción de mercancía registrada")

	return toResponse(shipment, items), nil
}

// Get retorna una recepción del tenant con sus líneas.
func (uc *ReceiveShipmentUseCase) Get(ctx context.Context, ownerID, id string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.shipmentRepo.GetByOwnerAndID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.shipmentRepo.GetItemsByShipmentID(shipment.ID)
	if err != nil {
		return nil, err
	}
	return toResponse(shipment, items), nil
}

// List retorna las recepciones del tenant paginadas.
func (uc *ReceiveShipmentUseCase) List(ctx context.Context, ownerID string, limit, offset int) ([]*dto.ShipmentResponse, error) {
	rows, err := uc.shipmentRepo.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShipmentResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, toResponse(s, nil))
	}
	return out, nil
}

// resolveBatchDates completa fechas de lote faltantes: la fabricación cae
// entre 30 y 210 días antes de la recepción y la vida útil entre 180 y 1092
// días. Si solo falta una de las dos, se deriva respetando la reportada.
func resolveBatchDates(mfg, exp, receivedAt time.Time) (time.Time, time.Time) {
	if mfg.IsZero() {
		age := minMfgAgeDays + rand.Intn(maxMfgAgeDays-minMfgAgeDays+1)
		mfg = receivedAt.AddDate(0, 0, -age)
	}
	if exp.IsZero() {
		shelf := minShelfDays + rand.Intn(maxShelfDays-minShelfDays+1)
		exp = mfg.AddDate(0, 0, shelf)
	}
	return mfg, exp
}

func toResponse(s *entity.Shipment, items []*entity.ShipmentItem) *dto.ShipmentResponse {
	resp := &dto.ShipmentResponse{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		SupplierID:     s.SupplierID,
		RefNo:          s.RefNo,
		PaymentStatus:  s.PaymentStatus,
		InvoiceAmt:     s.InvoiceAmt,
		TotalItemCount: s.TotalItemCount,
		ReceivedAt:     s.ReceivedAt.Format(time.RFC3339),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.ShipmentItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			QtyReceived: it.QtyReceived,
			UnitPrice:   it.UnitPrice,
			MfgDate:     it.MfgDate.Format(batchDateLayout),
			ExpDate:     it.ExpDate.Format(batchDateLayout),
			BatchNo:     it.BatchNo,
		})
	}
	return resp
}
