package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/internal/application/apptest"
	"github.com/tu-usuario/retail-pos/internal/application/customers"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/application/stock"
	"github.com/tu-usuario/retail-pos/internal/domain"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
	"github.com/tu-usuario/retail-pos/pkg/logger"
)

const (
	ownerID    = "owner-1"
	employeeID = "emp-1"
)

// Tasas de referencia del negocio: 10% descuento de tienda, 18% de impuesto.
var testRates = sales.Rates{
	StoreDiscountRate: decimal.NewFromFloat(0.10),
	TaxRate:           decimal.NewFromFloat(0.18),
}

type fixture struct {
	store *apptest.Store
	uc    *sales.CreateTransactionUseCase
	tx    *apptest.TxRunner
}

func newFixture() *fixture {
	store := apptest.NewStore()
	store.AddEmployee(entity.Employee{ID: employeeID, OwnerID: ownerID, Name: "Cajero Uno", Status: "active"})
	store.AddProduct(entity.Product{ID: "prod-1", OwnerID: ownerID, Name: "Café 500g", UnitPrice: decimal.NewFromInt(30), Stock: 10})
	store.AddProduct(entity.Product{ID: "prod-2", OwnerID: ownerID, Name: "Azúcar 1kg", UnitPrice: decimal.NewFromInt(10), Stock: 20})

	txRunner := &apptest.TxRunner{S: store}
	customerRepo := apptest.NewCustomerRepo(store)
	uc := sales.NewCreateTransactionUseCase(
		txRunner,
		apptest.NewProductRepo(store),
		apptest.NewEmployeeRepo(store),
		apptest.NewTransactionRepo(store),
		customers.NewUpsertUseCase(customerRepo),
		stock.NewLedger(logger.Nop()),
		testRates,
		logger.Nop(),
	)
	return &fixture{store: store, uc: uc, tx: txRunner}
}

// precio construye el puntero que distingue un precio explícito (incluido 0)
// de una línea sin precio, que toma el del catálogo.
func precio(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func baseInput(txID string) sales.CreateTransactionInput {
	return sales.CreateTransactionInput{
		TransactionID: txID,
		EmployeeID:    employeeID,
		PaymentMethod: "CASH",
		Items: []sales.LineItemInput{
			{ProductID: "prod-1", Quantity: 2, UnitPrice: precio(30)},
			{ProductID: "prod-2", Quantity: 4, UnitPrice: precio(10)},
		},
	}
}

func TestCreate_VentaCompleta(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Create(context.Background(), ownerID, baseInput("tx-1"))
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Liquidación: subtotal 100, 10% descuento, 18% impuesto.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.DiscountAmt.Equal(decimal.NewFromInt(10)), "descuento %s", resp.DiscountAmt)
	assert.True(t, resp.TaxAmt.Equal(decimal.NewFromFloat(16.2)), "impuesto %s", resp.TaxAmt)
	assert.True(t, resp.TotalAmt.Equal(decimal.NewFromFloat(106.2)), "total %s", resp.TotalAmt)
	assert.Equal(t, entity.TransactionStatusCompleted, resp.Status)

	// Stock descontado exactamente una vez por línea.
	assert.Equal(t, int64(8), f.store.StockOf("prod-1"))
	assert.Equal(t, int64(16), f.store.StockOf("prod-2"))

	// Identidad del subtotal contra las líneas persistidas.
	sum := decimal.Zero
	for _, it := range resp.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Sub(it.Discount))
	}
	assert.True(t, resp.Subtotal.Equal(sum), "subtotal == Σ(precio×cantidad − descuento)")
}

// Idempotencia: repetir el transaction_id retorna Conflict y no vuelve a
// descontar stock — queda exactamente una venta persistida.
func TestCreate_TransactionIDRepetidoEsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, ownerID, baseInput("tx-dup"))
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, ownerID, baseInput("tx-dup"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, int64(8), f.store.StockOf("prod-1"), "un solo decremento pese al doble submit")
	assert.Equal(t, int64(16), f.store.StockOf("prod-2"))
	assert.Len(t, f.store.Transactions, 1, "exactamente una venta persistida")
}

// Validate-all-then-commit: si la segunda línea no tiene stock, la primera
// tampoco se descuenta y no queda ningún registro.
func TestCreate_FaltaStockEnSegundaLinea_NadaSeMuta(t *testing.T) {
	f := newFixture()
	in := baseInput("tx-2")
	in.Items[1].Quantity = 999 // prod-2 solo tiene 20

	_, err := f.uc.Create(context.Background(), ownerID, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "prod-2", insufficient.ProductID, "debe nombrar a la primera línea ofensora")

	assert.Equal(t, int64(10), f.store.StockOf("prod-1"), "cero efectos observables")
	assert.Equal(t, int64(20), f.store.StockOf("prod-2"))
	assert.Empty(t, f.store.Transactions)
}

// Un fallo de infraestructura a mitad de la persistencia descarta todo:
// ni venta, ni líneas, ni cliente, ni cambio de stock.
func TestCreate_FalloEnPersistencia_RollbackTotal(t *testing.T) {
	f := newFixture()
	f.tx.FailOn = func() error { return errors.New("conexión perdida") }

	in := baseInput("tx-3")
	in.CustomerName = "María Gómez"
	in.CustomerPhone = "3001234567"

	_, err := f.uc.Create(context.Background(), ownerID, in)
	require.Error(t, err)

	assert.Equal(t, int64(10), f.store.StockOf("prod-1"))
	assert.Empty(t, f.store.Transactions)
	assert.Empty(t, f.store.TransactionItems)
	assert.Empty(t, f.store.Customers, "el cliente del upsert también hace rollback")
}

func TestCreate_ProductoInexistenteEsNotFound(t *testing.T) {
	f := newFixture()
	in := baseInput("tx-4")
	in.Items[0].ProductID = "prod-fantasma"

	_, err := f.uc.Create(context.Background(), ownerID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.Transactions)
}

func TestCreate_ProductoDeOtroTenantEsNotFound(t *testing.T) {
	f := newFixture()
	f.store.AddProduct(entity.Product{ID: "prod-ajeno", OwnerID: "owner-2", Name: "Ajeno", UnitPrice: decimal.NewFromInt(5), Stock: 50})
	in := baseInput("tx-5")
	in.Items[0].ProductID = "prod-ajeno"

	_, err := f.uc.Create(context.Background(), ownerID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el producto de otro tenant es invisible")
	assert.Equal(t, int64(50), f.store.StockOf("prod-ajeno"))
}

func TestCreate_EmpleadoInexistenteEsNotFound(t *testing.T) {
	f := newFixture()
	in := baseInput("tx-6")
	in.EmployeeID = "emp-fantasma"

	_, err := f.uc.Create(context.Background(), ownerID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ValidacionesDeEntrada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sinItems := baseInput("tx-7")
	sinItems.Items = nil
	_, err := f.uc.Create(ctx, ownerID, sinItems)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin líneas")

	sinPago := baseInput("tx-8")
	sinPago.PaymentMethod = ""
	_, err = f.uc.Create(ctx, ownerID, sinPago)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin método de pago")

	sinID := baseInput("")
	_, err = f.uc.Create(ctx, ownerID, sinID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin transaction_id")

	duplicada := baseInput("tx-9")
	duplicada.Items[1].ProductID = "prod-1"
	_, err = f.uc.Create(ctx, ownerID, duplicada)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto repetido en dos líneas")

	negativa := baseInput("tx-neg")
	negativa.Items[0].UnitPrice = precio(-1)
	_, err = f.uc.Create(ctx, ownerID, negativa)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio explícito negativo")
}

// Un precio 0 explícito es un artículo de cortesía: la línea liquida en 0
// y el catálogo no lo sustituye. El stock sí se descuenta.
func TestCreate_PrecioCeroExplicitoLiquidaEnCero(t *testing.T) {
	f := newFixture()
	in := baseInput("tx-gratis")
	in.Items = []sales.LineItemInput{{ProductID: "prod-1", Quantity: 2, UnitPrice: precio(0)}}

	resp, err := f.uc.Create(context.Background(), ownerID, in)
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.IsZero(), "subtotal %s, el precio 0 no debe caer al catálogo", resp.Subtotal)
	assert.True(t, resp.TotalAmt.IsZero(), "total %s", resp.TotalAmt)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.IsZero())
	assert.Equal(t, int64(8), f.store.StockOf("prod-1"), "la cortesía igual descuenta stock")
}

// Una línea sin precio toma el vigente del catálogo.
func TestCreate_PrecioAusenteUsaElCatalogo(t *testing.T) {
	f := newFixture()
	in := baseInput("tx-catalogo")
	in.Items = []sales.LineItemInput{{ProductID: "prod-1", Quantity: 2}} // catálogo: 30

	resp, err := f.uc.Create(context.Background(), ownerID, in)
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(60)), "subtotal %s", resp.Subtotal)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(30)))
}

func TestCreate_ClienteSeCreaYSeReutiliza(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in1 := baseInput("tx-10")
	in1.CustomerName = "María Gómez"
	in1.CustomerPhone = "3001234567"
	resp1, err := f.uc.Create(ctx, ownerID, in1)
	require.NoError(t, err)
	require.NotEmpty(t, resp1.CustomerID)

	in2 := baseInput("tx-11")
	in2.Items = []sales.LineItemInput{{ProductID: "prod-2", Quantity: 1, UnitPrice: precio(10)}}
	in2.CustomerName = "Maria G."
	in2.CustomerPhone = "3001234567"
	resp2, err := f.uc.Create(ctx, ownerID, in2)
	require.NoError(t, err)

	assert.Equal(t, resp1.CustomerID, resp2.CustomerID, "mismo teléfono = mismo cliente")
	assert.Len(t, f.store.Customers, 1)
}

// La identidad de la venta es por tenant: el mismo transaction_id en otro
// tenant no choca (ni revela que el primero lo usó).
func TestCreate_MismoTransactionIDEnOtroTenantNoChoca(t *testing.T) {
	f := newFixture()
	f.store.AddEmployee(entity.Employee{ID: "emp-2", OwnerID: "owner-2", Name: "Cajero Dos", Status: "active"})
	f.store.AddProduct(entity.Product{ID: "prod-b", OwnerID: "owner-2", Name: "Pan", UnitPrice: decimal.NewFromInt(4), Stock: 9})
	ctx := context.Background()

	_, err := f.uc.Create(ctx, ownerID, baseInput("tx-compartido"))
	require.NoError(t, err)

	in := sales.CreateTransactionInput{
		TransactionID: "tx-compartido",
		EmployeeID:    "emp-2",
		PaymentMethod: "CASH",
		Items:         []sales.LineItemInput{{ProductID: "prod-b", Quantity: 2, UnitPrice: precio(4)}},
	}
	_, err = f.uc.Create(ctx, "owner-2", in)
	require.NoError(t, err, "el ID de un tenant no bloquea al otro")

	assert.Len(t, f.store.Transactions, 2, "dos ventas independientes")
	assert.Equal(t, int64(7), f.store.StockOf("prod-b"))

	// Cada tenant solo ve su venta y sus líneas.
	resp, err := f.uc.Get(ctx, "owner-2", "tx-compartido")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "prod-b", resp.Items[0].ProductID)
}

// Escenario de carrera: stock 5, dos ventas concurrentes de 3 unidades.
// Exactamente una gana (stock final 2) y la otra recibe stock insuficiente.
func TestCreate_DosVentasConcurrentesSobreElMismoProducto(t *testing.T) {
	f := newFixture()
	f.store.AddProduct(entity.Product{ID: "prod-hot", OwnerID: ownerID, Name: "Oferta", UnitPrice: decimal.NewFromInt(7), Stock: 5})

	run := func(txID string, errCh chan<- error) {
		in := sales.CreateTransactionInput{
			TransactionID: txID,
			EmployeeID:    employeeID,
			PaymentMethod: "CASH",
			Items:         []sales.LineItemInput{{ProductID: "prod-hot", Quantity: 3, UnitPrice: precio(7)}},
		}
		_, err := f.uc.Create(context.Background(), ownerID, in)
		errCh <- err
	}

	errCh := make(chan error, 2)
	go run("tx-a", errCh)
	go run("tx-b", errCh)
	err1, err2 := <-errCh, <-errCh

	exitos, insuficientes := 0, 0
	for _, err := range []error{err1, err2} {
		switch {
		case err == nil:
			exitos++
		case errors.Is(err, domain.ErrInsufficientStock):
			insuficientes++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, exitos, "exactamente una venta debe ganar")
	assert.Equal(t, 1, insuficientes, "la otra debe fallar por stock")
	assert.Equal(t, int64(2), f.store.StockOf("prod-hot"), "stock final 5−3=2")
}

// Propiedad general: con stock S y N ventas concurrentes de 1 unidad,
// triunfan exactamente min(N, S) y el stock final es S − min(N, S).
func TestCreate_NVentasConcurrentes_MinNS(t *testing.T) {
	const S, N = 5, 12
	f := newFixture()
	f.store.AddProduct(entity.Product{ID: "prod-n", OwnerID: ownerID, Name: "Limitado", UnitPrice: decimal.NewFromInt(3), Stock: S})

	var wg sync.WaitGroup
	errs := make([]error, N)
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := sales.CreateTransactionInput{
				TransactionID: "tx-n-" + string(rune('a'+i)),
				EmployeeID:    employeeID,
				PaymentMethod: "CASH",
				Items:         []sales.LineItemInput{{ProductID: "prod-n", Quantity: 1, UnitPrice: precio(3)}},
			}
			_, errs[i] = f.uc.Create(context.Background(), ownerID, in)
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock, "solo se admite fallo por stock")
		}
	}
	assert.Equal(t, S, exitos, "exactamente min(N,S)=S ventas exitosas")
	assert.Equal(t, int64(0), f.store.StockOf("prod-n"))
}
