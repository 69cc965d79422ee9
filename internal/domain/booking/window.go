// Package booking contiene la lógica pura de disponibilidad y tarifas de la
// flota: ventanas de ocupación, detección de conflictos y cálculo de precios.
// No tiene efectos secundarios ni dependencias de infraestructura.
package booking

import (
	"time"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// Window es la ventana de ocupación solicitada para un recurso. Exactamente uno
// de los dos modos debe estar presente:
//
//   - Slot: Date + Slot (MORNING, AFTERNOON o FULLDAY)
//   - Rango: Pickup + Return, fechas inclusivas
type Window struct {
	Date *time.Time
	Slot string

	Pickup *time.Time
	Return *time.Time
}

// SlotWindow construye una ventana de modo slot.
func SlotWindow(date time.Time, slot string) Window {
	d := dateOnly(date)
	return Window{Date: &d, Slot: slot}
}

// RangeWindow construye una ventana de modo rango.
func RangeWindow(pickup, ret time.Time) Window {
	p, r := dateOnly(pickup), dateOnly(ret)
	return Window{Pickup: &p, Return: &r}
}

// IsSlot indica si la ventana es de modo slot.
func (w Window) IsSlot() bool { return w.Date != nil && w.Slot != "" }

// IsRange indica si la ventana es de modo rango.
func (w Window) IsRange() bool { return w.Pickup != nil && w.Return != nil }

// Validate rechaza ventanas mal formadas antes de evaluar conflictos:
// modo ausente o ambiguo, slot desconocido o rango invertido.
func (w Window) Validate() error {
	switch {
	case w.IsSlot() && w.IsRange():
		return domain.ErrInvalidInput
	case w.IsSlot():
		switch w.Slot {
		case entity.SlotMorning, entity.SlotAfternoon, entity.SlotFullDay:
			return nil
		}
		return domain.ErrInvalidInput
	case w.IsRange():
		if w.Pickup.After(*w.Return) {
			return domain.ErrInvalidInput
		}
		return nil
	}
	return domain.ErrInvalidInput
}

// Days devuelve la duración en días (mínimo 1) para el cálculo de precios.
// Un slot siempre cuenta como un día.
func (w Window) Days() int {
	if !w.IsRange() {
		return 1
	}
	days := int(w.Return.Sub(*w.Pickup).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
