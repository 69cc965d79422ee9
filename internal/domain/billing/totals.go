// Package billing contiene la lógica pura de facturación: normalización de
// líneas, cálculo de totales con dos modos de IVA, numeración correlativa y
// la máquina de estados del ciclo de vida de la factura.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// LineInput es una línea de factura antes de normalizar.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje por línea; cero si se usa tasa global
}

// Breakdown son los importes calculados de una factura, ya redondeados a
// 2 decimales en el punto de cálculo (no solo al mostrar), para que los
// totales almacenados sean estables y reproducibles.
type Breakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// round2 redondea a 2 decimales con half-up (Round de shopspring redondea
// half away from zero, que coincide para importes no negativos).
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// NormalizeItems valida las líneas y las convierte en líneas de entidad con
// el total por línea calculado (quantity × unit_price, redondeado a 2).
// Valores negativos en cantidad, precio o tasa se rechazan antes de calcular.
func NormalizeItems(items []LineInput) ([]entity.InvoiceLineItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la factura no tiene líneas", domain.ErrInvalidInput)
	}
	normalized := make([]entity.InvoiceLineItem, 0, len(items))
	for i, in := range items {
		if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() {
			return nil, fmt.Errorf("%w: la línea %d contiene valores negativos", domain.ErrInvalidInput, i+1)
		}
		normalized = append(normalized, entity.InvoiceLineItem{
			Position:    i + 1,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
			Total:       round2(in.Quantity.Mul(in.UnitPrice)),
		})
	}
	return normalized, nil
}

// Totals calcula subtotal, impuesto y total para una tasa global y un modo
// de IVA, aplicando un descuento no negativo (≤ subtotal).
//
// Modo exclusivo: tax = subtotal×tasa/100; total = subtotal − descuento + tax.
// Modo inclusivo: el subtotal mostrado es bruto; neto = bruto/(1+tasa/100);
// tax = bruto − neto; total = bruto. El descuento no se aplica en modo
// inclusivo: un descuento distinto de cero se rechaza para que el llamante
// no pierda dinero en silencio (decisión documentada en DESIGN.md).
func Totals(items []entity.InvoiceLineItem, taxRate decimal.Decimal, taxMode string, discount decimal.Decimal) (Breakdown, error) {
	if taxRate.IsNegative() || discount.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: tasa o descuento negativo", domain.ErrInvalidInput)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	subtotal = round2(subtotal)

	switch taxMode {
	case entity.TaxModeExclusive:
		if discount.GreaterThan(subtotal) {
			return Breakdown{}, fmt.Errorf("%w: el descuento supera el subtotal", domain.ErrInvalidInput)
		}
		tax := round2(subtotal.Mul(taxRate).Div(oneHundred))
		total := round2(subtotal.Sub(discount).Add(tax))
		return Breakdown{Subtotal: subtotal, Tax: tax, Total: total}, nil

	case entity.TaxModeInclusive:
		if !discount.IsZero() {
			return Breakdown{}, fmt.Errorf("%w: el modo inclusivo no admite descuento", domain.ErrInvalidInput)
		}
		net := round2(subtotal.Div(decimal.NewFromInt(1).Add(taxRate.Div(oneHundred))))
		tax := round2(subtotal.Sub(net))
		return Breakdown{Subtotal: subtotal, Tax: tax, Total: subtotal}, nil
	}
	return Breakdown{}, fmt.Errorf("%w: modo de IVA desconocido %q", domain.ErrInvalidInput, taxMode)
}

// TotalsPerLine es la variante con tasa por línea y descuento (modo exclusivo):
// el impuesto se acumula línea a línea como line_total×tasa/100 y se redondea
// una sola vez al final.
func TotalsPerLine(items []entity.InvoiceLineItem, discount decimal.Decimal) (Breakdown, error) {
	if discount.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: el descuento no puede ser negativo", domain.ErrInvalidInput)
	}
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
		tax = tax.Add(item.Total.Mul(item.TaxRate).Div(oneHundred))
	}
	subtotal = round2(subtotal)
	tax = round2(tax)
	if discount.GreaterThan(subtotal) {
		return Breakdown{}, fmt.Errorf("%w: el descuento supera el subtotal", domain.ErrInvalidInput)
	}
	total := round2(subtotal.Sub(discount).Add(tax))
	return Breakdown{Subtotal: subtotal, Tax: tax, Total: total}, nil
}
