package shipments_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/internal/application/apptest"
	"github.com/tu-usuario/retail-pos/internal/application/shipments"
	"github.com/tu-usuario/retail-pos/internal/application/stock"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

const (
	ownerID    = "owner-1"
	supplierID = "sup-1"
)

type fixture struct {
	store *apptest.Store
	uc    *shipments.ReceiveShipmentUseCase
	tx    *apptest.TxRunner
}

func newFixture() *fixture {
	store := apptest.NewStore()
	store.AddSupplier(entity.Supplier{ID: supplierID, OwnerID: ownerID, Name: "Distribuidora Norte"})
	store.AddProduct(entity.Product{ID: "prod-1", OwnerID: ownerID, Name: "Café 500g", UnitPrice: decimal.NewFromInt(30), Stock: 0})
	store.AddProduct(entity.Product{ID: "prod-2", OwnerID: ownerID, Name: "Azúcar 1kg", UnitPrice: decimal.NewFromInt(10), Stock: 0})

	txRunner := &apptest.TxRunner{S: store}
	uc := shipments.NewReceiveShipmentUseCase(
		txRunner,
		apptest.NewProductRepo(store),
		apptest.NewSupplierRepo(store),
		apptest.NewShipmentRepo(store),
		stock.NewLedger(logger.Nop()),
		logger.Nop(),
	)
	return &fixture{store: store, uc: uc, tx: txRunner}
}

func baseInput() shipments.ReceiveInput {
	return shipments.ReceiveInput{
		SupplierID:    supplierID,
		RefNo:         "FAC-0017",
		PaymentStatus: entity.ShipmentPaymentCredit,
		Items: []shipments.ItemInput{
			{ProductID: "prod-1", QtyReceived: 10, UnitPrice: decimal.NewFromInt(5)},
			{ProductID: "prod-2", QtyReceived: 3, UnitPrice: decimal.NewFromInt(2)},
		},
	}
}

func TestReceive_RecepcionCompleta(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Receive(context.Background(), ownerID, baseInput())
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Derivados: factura 10×5 + 3×2 = 56, conteo 13.
	assert.True(t, resp.InvoiceAmt.Equal(decimal.NewFromInt(56)), "invoice_amt %s", resp.InvoiceAmt)
	assert.Equal(t, int64(13), resp.TotalItemCount)
	require.Len(t, resp.Items, 2)

	// Stock incrementado por línea.
	assert.Equal(t, int64(10), f.store.StockOf("prod-1"))
	assert.Equal(t, int64(3), f.store.StockOf("prod-2"))

	// Snapshot del nombre del producto al momento de recibir.
	assert.Equal(t, "Café 500g", resp.Items[0].ProductName)
}

// Política de fechas: sin fechas reportadas, la fabricación cae entre 30 y
// 210 días antes de la recepción y el vencimiento entre 180 y 1092 días
// después de la fabricación.
func TestReceive_FechasDeLoteDerivadas(t *testing.T) {
	f := newFixture()
	receivedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	in := baseInput()
	in.ReceivedAt = receivedAt

	resp, err := f.uc.Receive(context.Background(), ownerID, in)
	require.NoError(t, err)

	for _, it := range resp.Items {
		mfg, err := time.Parse("2006-01-02", it.MfgDate)
		require.NoError(t, err)
		exp, err := time.Parse("2006-01-02", it.ExpDate)
		require.NoError(t, err)

		age := receivedAt.Sub(mfg).Hours() / 24
		assert.GreaterOrEqual(t, age, 30.0, "fabricación al menos 30 días antes")
		assert.LessOrEqual(t, age, 211.0, "fabricación a lo sumo 210 días antes")

		shelf := exp.Sub(mfg).Hours() / 24
		assert.GreaterOrEqual(t, shelf, 180.0, "vida útil mínima")
		assert.LessOrEqual(t, shelf, 1092.0, "vida útil máxima")
	}
}

func TestReceive_FechasReportadasSeRespetan(t *testing.T) {
	f := newFixture()
	in := baseInput()
	mfg := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	exp := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	in.Items[0].MfgDate = mfg
	in.Items[0].ExpDate = exp

	resp, err := f.uc.Receive(context.Background(), ownerID, in)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", resp.Items[0].MfgDate)
	assert.Equal(t, "2027-01-15", resp.Items[0].ExpDate)
}

func TestReceive_ProveedorInexistenteEsNotFound(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.SupplierID = "sup-fantasma"

	_, err := f.uc.Receive(context.Background(), ownerID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(0), f.store.StockOf("prod-1"))
	assert.Empty(t, f.store.Shipments)
}

func TestReceive_ProductoInexistenteEsNotFound(t *testing.T) {
	f := newFixture()
	in := baseInput()
	in.Items[1].ProductID = "prod-fantasma"

	_, err := f.uc.Receive(context.Background(), ownerID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(0), f.store.StockOf("prod-1"), "ninguna línea se aplica")
}

func TestReceive_ValidacionesDeEntrada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sinItems := baseInput()
	sinItems.Items = nil
	_, err := f.uc.Receive(ctx, ownerID, sinItems)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	cantidadCero := baseInput()
	cantidadCero.Items[0].QtyReceived = 0
	_, err = f.uc.Receive(ctx, ownerID, cantidadCero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad menor a 1")

	precioNegativo := baseInput()
	precioNegativo.Items[0].UnitPrice = decimal.NewFromInt(-1)
	_, err = f.uc.Receive(ctx, ownerID, precioNegativo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	estadoInvalido := baseInput()
	estadoInvalido.PaymentStatus = "MAÑANA"
	_, err = f.uc.Receive(ctx, ownerID, estadoInvalido)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado de pago fuera del catálogo")

	fechasInvertidas := baseInput()
	fechasInvertidas.Items[0].MfgDate = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	fechasInvertidas.Items[0].ExpDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.uc.Receive(ctx, ownerID, fechasInvertidas)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "vencimiento antes de fabricación")
}

func TestReceive_FalloEnPersistencia_RollbackTotal(t *testing.T) {
	f := newFixture()
	f.tx.FailOn = func() error { return errors.New("conexión perdida") }

	_, err := f.uc.Receive(context.Background(), ownerID, baseInput())
	require.Error(t, err)
	assert.Equal(t, int64(0), f.store.StockOf("prod-1"))
	assert.Empty(t, f.store.Shipments)
	assert.Empty(t, f.store.ShipmentItems)
}

// Ida y vuelta: recibir y luego eliminar deja el stock exactamente donde
// estaba y no queda rastro de la recepción.
func TestDelete_ReviertStockCompleto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Receive(ctx, ownerID, baseInput())
	require.NoError(t, err)
	require.Equal(t, int64(10), f.store.StockOf("prod-1"))

	require.NoError(t, f.uc.Delete(ctx, ownerID, resp.ID))

	assert.Equal(t, int64(0), f.store.StockOf("prod-1"))
	assert.Equal(t, int64(0), f.store.StockOf("prod-2"))
	assert.Empty(t, f.store.Shipments)
	assert.Empty(t, f.store.ShipmentItems)
}

// Si entre la recepción y la eliminación hubo ventas, la reversa no puede
// dejar stock negativo: se aplica piso en cero.
func TestDelete_ReversaConPisoEnCero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Receive(ctx, ownerID, baseInput())
	require.NoError(t, err)

	// Simula ventas posteriores: quedan 4 de las 10 recibidas.
	f.store.Products["prod-1"].Stock = 4

	require.NoError(t, f.uc.Delete(ctx, ownerID, resp.ID))
	assert.Equal(t, int64(0), f.store.StockOf("prod-1"), "piso en cero, nunca negativo")
}

// Un producto eliminado del catálogo no bloquea la eliminación de la
// recepción: la reversa lo omite con advertencia.
func TestDelete_ProductoEliminadoNoBloqueaLaReversa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Receive(ctx, ownerID, baseInput())
	require.NoError(t, err)

	delete(f.store.Products, "prod-1")

	require.NoError(t, f.uc.Delete(ctx, ownerID, resp.ID))
	assert.Equal(t, int64(0), f.store.StockOf("prod-2"), "la línea viva sí se revierte")
	assert.Empty(t, f.store.Shipments)
}

func TestDelete_RecepcionDeOtroTenantEsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Receive(ctx, ownerID, baseInput())
	require.NoError(t, err)

	err = f.uc.Delete(ctx, "owner-2", resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.store.Shipments, 1, "la recepción sigue intacta")
}
