package booking_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/booking"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

func mediumVan() *entity.Vehicle {
	return &entity.Vehicle{
		ID:     "v1",
		Type:   entity.VehicleTypeMedium,
		Status: entity.VehicleStatusAvailable,
	}
}

func basicOpts() booking.PackageOptions {
	return booking.PackageOptions{KmPackage: "100km", Insurance: "basic"}
}

func TestPrice_RangoBasico(t *testing.T) {
	// 3 días × 109 CHF (clase medium), sin recargos.
	win := booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 3))
	total, err := booking.Price(mediumVan(), win, basicOpts())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(327).Equal(total), "esperado 327.00, obtenido %s", total)
}

func TestPrice_RecargosPorPaquete(t *testing.T) {
	// 2 días × 139 (large) + 25 paquete 200km + 2×25 protección full
	// + extras sackkarre(10) y navi(12) = 375.
	v := &entity.Vehicle{ID: "v2", Type: entity.VehicleTypeLarge, Status: entity.VehicleStatusAvailable}
	win := booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 2))
	opts := booking.PackageOptions{
		KmPackage: "200km",
		Insurance: "full",
		Extras:    []string{"sackkarre", "navi"},
	}

	total, err := booking.Price(v, win, opts)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(375).Equal(total), "esperado 375.00, obtenido %s", total)
}

func TestPrice_TarifaPropiaDelVehiculo(t *testing.T) {
	// La tarifa diaria configurada en el vehículo manda sobre la de la clase.
	v := mediumVan()
	v.DailyRate = decimal.NewFromInt(120)
	win := booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 1))

	total, err := booking.Price(v, win, basicOpts())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(total))
}

func TestPrice_SlotMedioDia(t *testing.T) {
	v := mediumVan()
	v.DailyRate = decimal.NewFromInt(100)
	v.HalfDayRate = decimal.NewFromInt(60)

	total, err := booking.Price(v, booking.SlotWindow(day(2025, time.June, 1), entity.SlotMorning), basicOpts())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(total), "medio día usa la tarifa de medio día configurada")

	// Sin tarifa de medio día configurada: mitad de la diaria.
	v.HalfDayRate = decimal.Zero
	total, err = booking.Price(v, booking.SlotWindow(day(2025, time.June, 1), entity.SlotAfternoon), basicOpts())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(total))

	// FULLDAY es un día a tarifa diaria, no media jornada.
	total, err = booking.Price(v, booking.SlotWindow(day(2025, time.June, 1), entity.SlotFullDay), basicOpts())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(total))
}

func TestPrice_ExtraDesconocidoEsError(t *testing.T) {
	opts := basicOpts()
	opts.Extras = []string{"sackkarre", "jetpack"}

	_, err := booking.Price(mediumVan(), booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 2)), opts)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "un código desconocido nunca se ignora en silencio")
}

func TestPrice_OpcionesDesconocidasSonError(t *testing.T) {
	opts := booking.PackageOptions{KmPackage: "500km", Insurance: "basic"}
	_, err := booking.Price(mediumVan(), booking.SlotWindow(day(2025, time.June, 1), entity.SlotFullDay), opts)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	opts = booking.PackageOptions{KmPackage: "100km", Insurance: "platinum"}
	_, err = booking.Price(mediumVan(), booking.SlotWindow(day(2025, time.June, 1), entity.SlotFullDay), opts)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrice_RangoInvertidoEsError(t *testing.T) {
	_, err := booking.Price(mediumVan(), booking.RangeWindow(day(2025, time.June, 5), day(2025, time.June, 1)), basicOpts())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La cotización es determinista: mismo input, mismo importe.
func TestPrice_Determinista(t *testing.T) {
	win := booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 4))
	opts := booking.PackageOptions{KmPackage: "unlimited", Insurance: "premium", Extras: []string{"moebeldecken"}}

	a, err := booking.Price(mediumVan(), win, opts)
	require.NoError(t, err)
	b, err := booking.Price(mediumVan(), win, opts)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
