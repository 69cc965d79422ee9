package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalization1/roberts-lackwerk/internal/domain/booking"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slotRes(id, vehicleID string, date time.Time, slot, status string) entity.Reservation {
	return entity.Reservation{ID: id, VehicleID: vehicleID, Date: &date, TimeSlot: slot, Status: status}
}

func rangeRes(id, vehicleID string, pickup, ret time.Time, status string) entity.Reservation {
	return entity.Reservation{ID: id, VehicleID: vehicleID, PickupDate: &pickup, ReturnDate: &ret, Status: status}
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de conflictos entre slots del mismo día
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAvailable_MatrizDeSlots(t *testing.T) {
	d := day(2025, time.June, 10)

	cases := []struct {
		name      string
		requested string
		existing  string
		available bool
	}{
		{"fullday bloquea morning", entity.SlotMorning, entity.SlotFullDay, false},
		{"fullday bloquea afternoon", entity.SlotAfternoon, entity.SlotFullDay, false},
		{"fullday bloquea fullday", entity.SlotFullDay, entity.SlotFullDay, false},
		{"morning bloquea morning", entity.SlotMorning, entity.SlotMorning, false},
		{"afternoon bloquea afternoon", entity.SlotAfternoon, entity.SlotAfternoon, false},
		{"morning convive con afternoon", entity.SlotMorning, entity.SlotAfternoon, true},
		{"afternoon convive con morning", entity.SlotAfternoon, entity.SlotMorning, true},
		{"fullday solicitado choca con morning", entity.SlotFullDay, entity.SlotMorning, false},
		{"fullday solicitado choca con afternoon", entity.SlotFullDay, entity.SlotAfternoon, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			existing := []entity.Reservation{slotRes("r1", "v1", d, tc.existing, entity.ReservationStatusConfirmed)}
			got := booking.IsAvailable(booking.SlotWindow(d, tc.requested), "", existing)
			assert.Equal(t, tc.available, got)
		})
	}
}

// Escenario de referencia: FULLDAY existente el 2025-06-10 rechaza un
// MORNING el mismo día sobre el mismo vehículo.
func TestIsAvailable_FulldayExistenteRechazaMorning(t *testing.T) {
	d := day(2025, time.June, 10)
	existing := []entity.Reservation{slotRes("r1", "vx", d, entity.SlotFullDay, entity.ReservationStatusConfirmed)}

	assert.False(t, booking.IsAvailable(booking.SlotWindow(d, entity.SlotMorning), "", existing))
}

func TestIsAvailable_OtroDiaNoConflicta(t *testing.T) {
	existing := []entity.Reservation{slotRes("r1", "v1", day(2025, time.June, 10), entity.SlotFullDay, entity.ReservationStatusConfirmed)}

	assert.True(t, booking.IsAvailable(booking.SlotWindow(day(2025, time.June, 11), entity.SlotFullDay), "", existing))
}

// ──────────────────────────────────────────────────────────────────────────────
// Solapamiento de rangos y cruce rango/slot
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAvailable_Rangos(t *testing.T) {
	existing := []entity.Reservation{
		rangeRes("r1", "v1", day(2025, time.July, 10), day(2025, time.July, 14), entity.ReservationStatusConfirmed),
	}

	cases := []struct {
		name      string
		pickup    time.Time
		ret       time.Time
		available bool
	}{
		{"totalmente antes", day(2025, time.July, 1), day(2025, time.July, 9), true},
		{"totalmente después", day(2025, time.July, 15), day(2025, time.July, 20), true},
		{"toca el primer día", day(2025, time.July, 8), day(2025, time.July, 10), false},
		{"toca el último día", day(2025, time.July, 14), day(2025, time.July, 16), false},
		{"contenido", day(2025, time.July, 11), day(2025, time.July, 12), false},
		{"contiene al existente", day(2025, time.July, 9), day(2025, time.July, 15), false},
		{"mismo rango exacto", day(2025, time.July, 10), day(2025, time.July, 14), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := booking.IsAvailable(booking.RangeWindow(tc.pickup, tc.ret), "", existing)
			assert.Equal(t, tc.available, got)
		})
	}
}

// Un slot dentro de un rango multi-día sigue ocupando el recurso, en ambas
// direcciones de la comprobación.
func TestIsAvailable_SlotDentroDeRango(t *testing.T) {
	slotDay := day(2025, time.August, 5)
	existingSlot := []entity.Reservation{slotRes("r1", "v1", slotDay, entity.SlotMorning, entity.ReservationStatusPending)}

	assert.False(t, booking.IsAvailable(booking.RangeWindow(day(2025, time.August, 4), day(2025, time.August, 6)), "", existingSlot),
		"un rango que cubre el día del slot debe colisionar")

	existingRange := []entity.Reservation{
		rangeRes("r2", "v1", day(2025, time.August, 4), day(2025, time.August, 6), entity.ReservationStatusConfirmed),
	}
	assert.False(t, booking.IsAvailable(booking.SlotWindow(slotDay, entity.SlotAfternoon), "", existingRange),
		"un slot dentro de un rango existente debe colisionar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Exclusiones: canceladas y edición de la propia reserva
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAvailable_CanceladasNoOcupan(t *testing.T) {
	d := day(2025, time.June, 10)
	existing := []entity.Reservation{slotRes("r1", "v1", d, entity.SlotFullDay, entity.ReservationStatusCancelled)}

	assert.True(t, booking.IsAvailable(booking.SlotWindow(d, entity.SlotFullDay), "", existing))
}

func TestIsAvailable_ExcluyeLaPropiaReserva(t *testing.T) {
	d := day(2025, time.June, 10)
	existing := []entity.Reservation{slotRes("r1", "v1", d, entity.SlotFullDay, entity.ReservationStatusConfirmed)}

	assert.True(t, booking.IsAvailable(booking.SlotWindow(d, entity.SlotFullDay), "r1", existing),
		"editar una reserva no debe colisionar consigo misma")
	assert.False(t, booking.IsAvailable(booking.SlotWindow(d, entity.SlotFullDay), "otra", existing))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de ventanas
// ──────────────────────────────────────────────────────────────────────────────

func TestWindow_Validate(t *testing.T) {
	require.Error(t, booking.Window{}.Validate(), "ventana vacía")
	require.Error(t, booking.SlotWindow(day(2025, time.June, 1), "EVENING").Validate(), "slot desconocido")
	require.Error(t, booking.RangeWindow(day(2025, time.June, 5), day(2025, time.June, 1)).Validate(),
		"pickup posterior a return debe rechazarse antes de evaluar conflictos")
	require.NoError(t, booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 1)).Validate(), "mismo día es válido")
	require.NoError(t, booking.SlotWindow(day(2025, time.June, 1), entity.SlotMorning).Validate())
}

func TestWindow_Days(t *testing.T) {
	assert.Equal(t, 1, booking.SlotWindow(day(2025, time.June, 1), entity.SlotFullDay).Days())
	assert.Equal(t, 1, booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 1)).Days())
	assert.Equal(t, 3, booking.RangeWindow(day(2025, time.June, 1), day(2025, time.June, 3)).Days())
}
