// Package settlement implementa el cálculo de liquidación de una venta
// (servicio de dominio, sin I/O): subtotal, descuento de tienda, impuesto y total.
package settlement

import "github.com/shopspring/decimal"

// LineItem es la entrada mínima del cálculo: cantidad, precio unitario y
// descuento por línea.
type LineItem struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Settlement es el resultado del cálculo. Los montos NO vienen redondeados;
// usar Rounded() para la forma de 2 decimales que se persiste.
type Settlement struct {
	Subtotal    decimal.Decimal
	DiscountAmt decimal.Decimal
	TaxAmt      decimal.Decimal
	TotalAmt    decimal.Decimal
}

// Clamp normaliza una línea: cantidad mínima 1, precio no negativo y
// descuento dentro de [0, cantidad × precio].
func Clamp(it LineItem) LineItem {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.UnitPrice.IsNegative() {
		it.UnitPrice = decimal.Zero
	}
	lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
	if it.Discount.IsNegative() {
		it.Discount = decimal.Zero
	}
	if it.Discount.GreaterThan(lineTotal) {
		it.Discount = lineTotal
	}
	return it
}

// Settle calcula la liquidación de la venta:
//
//	subtotal   = Σ (cantidad × precio − descuentoLínea)   (líneas ya normalizadas con Clamp)
//	descuento  = subtotal × tasaDescuentoTienda
//	gravable   = subtotal − descuento
//	impuesto   = gravable × tasaImpuesto
//	total      = gravable + impuesto
//
// Las tasas son configuración (por tenant o default), nunca constantes del código.
// Todo en decimal: sin redondeo intermedio.
func Settle(items []LineItem, storeDiscountRate, taxRate decimal.Decimal) Settlement {
	subtotal := decimal.Zero
	for _, it := range items {
		it = Clamp(it)
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Sub(it.Discount)
		subtotal = subtotal.Add(lineTotal)
	}
	discountAmt := subtotal.Mul(storeDiscountRate)
	taxable := subtotal.Sub(discountAmt)
	taxAmt := taxable.Mul(taxRate)
	return Settlement{
		Subtotal:    subtotal,
		DiscountAmt: discountAmt,
		TaxAmt:      taxAmt,
		TotalAmt:    taxable.Add(taxAmt),
	}
}

// Rounded devuelve la liquidación redondeada a precisión de moneda (2 decimales).
// Es el único punto de redondeo del flujo: solo los valores persistidos se redondean.
func (s Settlement) Rounded() Settlement {
	return Settlement{
		Subtotal:    s.Subtotal.Round(2),
		DiscountAmt: s.DiscountAmt.Round(2),
		TaxAmt:      s.TaxAmt.Round(2),
		TotalAmt:    s.TotalAmt.Round(2),
	}
}
