package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/internal/domain/settlement"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vector de referencia: subtotal 100, descuento tienda 10%, IVA 18%.
//
//	descuento = 10, gravable = 90, impuesto = 16.2, total = 106.2
//
// Si alguien cambia el orden de las operaciones (ej. aplicar impuesto antes
// del descuento) este test falla de inmediato.
// ──────────────────────────────────────────────────────────────────────────────
func TestSettle_VectorReferencia(t *testing.T) {
	items := []settlement.LineItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(30)},
		{Quantity: 4, UnitPrice: decimal.NewFromInt(10)},
	}
	s := settlement.Settle(items, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.18))

	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal debe ser 100, fue %s", s.Subtotal)
	assert.True(t, s.DiscountAmt.Equal(decimal.NewFromInt(10)), "descuento debe ser 10, fue %s", s.DiscountAmt)
	assert.True(t, s.TaxAmt.Equal(decimal.NewFromFloat(16.2)), "impuesto debe ser 16.2, fue %s", s.TaxAmt)
	assert.True(t, s.TotalAmt.Equal(decimal.NewFromFloat(106.2)), "total debe ser 106.2, fue %s", s.TotalAmt)
}

// El subtotal debe cumplir la identidad Σ (precio×cantidad − descuentoLínea).
func TestSettle_IdentidadSubtotal(t *testing.T) {
	items := []settlement.LineItem{
		{Quantity: 3, UnitPrice: decimal.NewFromFloat(19.99), Discount: decimal.NewFromFloat(5.50)},
		{Quantity: 1, UnitPrice: decimal.NewFromFloat(7.25)},
	}
	s := settlement.Settle(items, decimal.Zero, decimal.Zero)

	want := decimal.NewFromFloat(19.99).Mul(decimal.NewFromInt(3)).
		Sub(decimal.NewFromFloat(5.50)).
		Add(decimal.NewFromFloat(7.25))
	require.True(t, s.Subtotal.Equal(want), "subtotal %s != esperado %s", s.Subtotal, want)
	assert.True(t, s.TotalAmt.Equal(want), "sin tasas, total == subtotal")
}

// Clamp: cantidad mínima 1, precio negativo a 0, descuento dentro del rango.
func TestClamp_Normalizaciones(t *testing.T) {
	cases := []struct {
		name string
		in   settlement.LineItem
		want settlement.LineItem
	}{
		{
			name: "cantidad cero sube a 1",
			in:   settlement.LineItem{Quantity: 0, UnitPrice: decimal.NewFromInt(10)},
			want: settlement.LineItem{Quantity: 1, UnitPrice: decimal.NewFromInt(10), Discount: decimal.Zero},
		},
		{
			name: "precio negativo baja a 0",
			in:   settlement.LineItem{Quantity: 2, UnitPrice: decimal.NewFromInt(-5)},
			want: settlement.LineItem{Quantity: 2, UnitPrice: decimal.Zero, Discount: decimal.Zero},
		},
		{
			name: "descuento mayor al total de línea se recorta",
			in:   settlement.LineItem{Quantity: 2, UnitPrice: decimal.NewFromInt(10), Discount: decimal.NewFromInt(50)},
			want: settlement.LineItem{Quantity: 2, UnitPrice: decimal.NewFromInt(10), Discount: decimal.NewFromInt(20)},
		},
		{
			name: "descuento negativo sube a 0",
			in:   settlement.LineItem{Quantity: 1, UnitPrice: decimal.NewFromInt(10), Discount: decimal.NewFromInt(-3)},
			want: settlement.LineItem{Quantity: 1, UnitPrice: decimal.NewFromInt(10), Discount: decimal.Zero},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := settlement.Clamp(tc.in)
			assert.Equal(t, tc.want.Quantity, got.Quantity)
			assert.True(t, got.UnitPrice.Equal(tc.want.UnitPrice), "precio %s != %s", got.UnitPrice, tc.want.UnitPrice)
			assert.True(t, got.Discount.Equal(tc.want.Discount), "descuento %s != %s", got.Discount, tc.want.Discount)
		})
	}
}

// Settle sin líneas: todos los montos en cero (una venta vacía se rechaza
// antes, en el coordinador, pero el cálculo no debe romperse).
func TestSettle_SinLineas(t *testing.T) {
	s := settlement.Settle(nil, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.18))
	assert.True(t, s.Subtotal.IsZero())
	assert.True(t, s.TotalAmt.IsZero())
}

// Rounded aplica el único redondeo del flujo (2 decimales).
func TestRounded_DosDecimales(t *testing.T) {
	items := []settlement.LineItem{{Quantity: 3, UnitPrice: decimal.NewFromFloat(3.333)}}
	s := settlement.Settle(items, decimal.NewFromFloat(0.075), decimal.NewFromFloat(0.19)).Rounded()

	assert.Equal(t, "10.00", s.Subtotal.StringFixed(2), "9.999 redondea a 10.00")
	assert.Equal(t, int32(-2), minExponent(s), "ningún monto redondeado debe tener más de 2 decimales")
}

func minExponent(s settlement.Settlement) int32 {
	min := s.Subtotal.Exponent()
	for _, d := range []decimal.Decimal{s.DiscountAmt, s.TaxAmt, s.TotalAmt} {
		if d.Exponent() < min {
			min = d.Exponent()
		}
	}
	if min < -2 {
		return min
	}
	return -2
}

// Determinismo: el mismo input produce siempre el mismo resultado
// (decimal exacto, sin deriva de punto flotante entre corridas).
func TestSettle_Determinista(t *testing.T) {
	items := []settlement.LineItem{
		{Quantity: 7, UnitPrice: decimal.NewFromFloat(13.37), Discount: decimal.NewFromFloat(1.11)},
	}
	a := settlement.Settle(items, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.18))
	b := settlement.Settle(items, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.18))
	assert.True(t, a.TotalAmt.Equal(b.TotalAmt))
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
}
