package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/billing"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lines(t *testing.T, in []billing.LineInput) []entity.InvoiceLineItem {
	t.Helper()
	items, err := billing.NormalizeItems(in)
	require.NoError(t, err)
	return items
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeItems_TotalPorLineaRedondeado(t *testing.T) {
	items := lines(t, []billing.LineInput{
		{Description: "Stundensatz", Quantity: dec("1.5"), UnitPrice: dec("33.33"), TaxRate: dec("7.7")},
	})
	// 1.5 × 33.33 = 49.995 → half-up → 50.00
	assertDec(t, "50.00", items[0].Total, "total de línea")
	assert.Equal(t, 1, items[0].Position)
}

func TestNormalizeItems_NegativosRechazados(t *testing.T) {
	cases := []billing.LineInput{
		{Quantity: dec("-1"), UnitPrice: dec("10"), TaxRate: dec("7.7")},
		{Quantity: dec("1"), UnitPrice: dec("-10"), TaxRate: dec("7.7")},
		{Quantity: dec("1"), UnitPrice: dec("10"), TaxRate: dec("-7.7")},
	}
	for _, in := range cases {
		_, err := billing.NormalizeItems([]billing.LineInput{in})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestNormalizeItems_SinLineasEsError(t *testing.T) {
	_, err := billing.NormalizeItems(nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Variante con tasa por línea y descuento (modo exclusivo)
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: [{2 × 100, 7.7%}, {1 × 50, 7.7%}], descuento 10.00
// → subtotal 250.00, impuesto 19.25, total 259.25.
func TestTotalsPerLine_EscenarioReferencia(t *testing.T) {
	items := lines(t, []billing.LineInput{
		{Description: "Miete", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("7.7")},
		{Description: "Extras", Quantity: dec("1"), UnitPrice: dec("50"), TaxRate: dec("7.7")},
	})

	b, err := billing.TotalsPerLine(items, dec("10.00"))
	require.NoError(t, err)
	assertDec(t, "250.00", b.Subtotal, "subtotal")
	assertDec(t, "19.25", b.Tax, "impuesto")
	assertDec(t, "259.25", b.Total, "total")
}

func TestTotalsPerLine_InvarianteTotal(t *testing.T) {
	items := lines(t, []billing.LineInput{
		{Quantity: dec("3"), UnitPrice: dec("19.95"), TaxRate: dec("8.1")},
		{Quantity: dec("0.5"), UnitPrice: dec("120"), TaxRate: dec("2.6")},
	})
	discount := dec("5.00")

	b, err := billing.TotalsPerLine(items, discount)
	require.NoError(t, err)
	// total == subtotal − descuento + impuesto, a 2 decimales
	assertDec(t, b.Subtotal.Sub(discount).Add(b.Tax).Round(2).StringFixed(2), b.Total, "invariante")
}

func TestTotalsPerLine_DescuentoInvalido(t *testing.T) {
	items := lines(t, []billing.LineInput{{Quantity: dec("1"), UnitPrice: dec("50"), TaxRate: dec("7.7")}})

	_, err := billing.TotalsPerLine(items, dec("-1"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.TotalsPerLine(items, dec("50.01"))
	require.ErrorIs(t, err, domain.ErrInvalidInput, "el descuento no puede superar el subtotal")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tasa global: modos exclusivo e inclusivo
// ──────────────────────────────────────────────────────────────────────────────

func TestTotals_Exclusivo(t *testing.T) {
	items := lines(t, []billing.LineInput{
		{Quantity: dec("2"), UnitPrice: dec("100")},
		{Quantity: dec("1"), UnitPrice: dec("50")},
	})

	b, err := billing.Totals(items, dec("7.7"), entity.TaxModeExclusive, dec("10"))
	require.NoError(t, err)
	assertDec(t, "250.00", b.Subtotal, "subtotal")
	assertDec(t, "19.25", b.Tax, "impuesto")
	assertDec(t, "259.25", b.Total, "total")
}

// En modo inclusivo el subtotal mostrado es bruto; el neto se retrocalcula.
// 107.70 bruto al 7.7% → neto 100.00, impuesto 7.70, total 107.70.
func TestTotals_Inclusivo(t *testing.T) {
	items := lines(t, []billing.LineInput{{Quantity: dec("1"), UnitPrice: dec("107.70")}})

	b, err := billing.Totals(items, dec("7.7"), entity.TaxModeInclusive, decimal.Zero)
	require.NoError(t, err)
	assertDec(t, "107.70", b.Subtotal, "subtotal bruto")
	assertDec(t, "7.70", b.Tax, "impuesto retrocalculado")
	assertDec(t, "107.70", b.Total, "total = bruto")
}

func TestTotals_InclusivoRechazaDescuento(t *testing.T) {
	items := lines(t, []billing.LineInput{{Quantity: dec("1"), UnitPrice: dec("100")}})

	_, err := billing.Totals(items, dec("7.7"), entity.TaxModeInclusive, dec("5"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTotals_EntradasInvalidas(t *testing.T) {
	items := lines(t, []billing.LineInput{{Quantity: dec("1"), UnitPrice: dec("100")}})

	_, err := billing.Totals(items, dec("-1"), entity.TaxModeExclusive, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "tasa negativa")

	_, err = billing.Totals(items, dec("7.7"), "mixed", decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "modo desconocido")

	_, err = billing.Totals(items, dec("7.7"), entity.TaxModeExclusive, dec("100.01"))
	require.ErrorIs(t, err, domain.ErrInvalidInput, "descuento mayor que el subtotal")
}

// El redondeo es half-up en el punto de cálculo, no solo al mostrar.
func TestTotals_RedondeoHalfUp(t *testing.T) {
	items := lines(t, []billing.LineInput{{Quantity: dec("1"), UnitPrice: dec("0.05")}})

	b, err := billing.Totals(items, dec("10"), entity.TaxModeExclusive, decimal.Zero)
	require.NoError(t, err)
	// 0.05 × 10% = 0.005 → 0.01
	assertDec(t, "0.01", b.Tax, "impuesto")
	assertDec(t, "0.06", b.Total, "total")
}
