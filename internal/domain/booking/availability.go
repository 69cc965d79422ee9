package booking

import (
	"time"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// slotConflicts codifica la matriz de colisión entre franjas del mismo día:
// FULLDAY ocupa ambas mitades; dos mitades distintas conviven.
var slotConflicts = map[string][]string{
	entity.SlotFullDay:   {entity.SlotMorning, entity.SlotAfternoon, entity.SlotFullDay},
	entity.SlotMorning:   {entity.SlotMorning, entity.SlotFullDay},
	entity.SlotAfternoon: {entity.SlotAfternoon, entity.SlotFullDay},
}

// IsAvailable es el predicado puro de disponibilidad: devuelve true si la
// ventana solicitada no colisiona con ninguna reserva no cancelada del
// conjunto dado. excludeID permite editar una reserva sin que colisione
// consigo misma. El llamante debe haber validado la ventana antes.
func IsAvailable(win Window, excludeID string, existing []entity.Reservation) bool {
	for i := range existing {
		res := &existing[i]
		if excludeID != "" && res.ID == excludeID {
			continue
		}
		if !res.Occupies() {
			continue
		}
		if conflictsWith(win, res) {
			return false
		}
	}
	return true
}

// conflictsWith comprueba una reserva contra la ventana solicitada,
// cruzando ambos modos de representación.
func conflictsWith(win Window, res *entity.Reservation) bool {
	switch {
	case win.IsSlot() && res.IsSlot():
		return sameDay(*win.Date, *res.Date) && slotPairConflicts(win.Slot, res.TimeSlot)
	case win.IsSlot() && res.IsRange():
		// Un slot dentro de un rango multi-día sigue ocupando el recurso.
		return dateInRange(*win.Date, *res.PickupDate, *res.ReturnDate)
	case win.IsRange() && res.IsSlot():
		return dateInRange(*res.Date, *win.Pickup, *win.Return)
	case win.IsRange() && res.IsRange():
		// Solapamiento estándar de intervalos cerrados:
		// pickupA <= returnB && pickupB <= returnA.
		return !win.Pickup.After(*res.ReturnDate) && !res.PickupDate.After(*win.Return)
	}
	return false
}

func slotPairConflicts(requested, existing string) bool {
	for _, s := range slotConflicts[requested] {
		if s == existing {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func dateInRange(d, from, to time.Time) bool {
	d = dateOnly(d)
	return !d.Before(dateOnly(from)) && !d.After(dateOnly(to))
}
