package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Slots de medio día / día completo. El vocabulario es contrato externo: no cambiar.
const (
	SlotMorning   = "MORNING"
	SlotAfternoon = "AFTERNOON"
	SlotFullDay   = "FULLDAY"
)

// Estados del ciclo de vida de una reserva.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusActive    = "active"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// Métodos de pago aceptados en la reserva.
const (
	PaymentMethodCard = "CARD"
	PaymentMethodCash = "CASH"
)

// Reservation representa una reserva de vehículo. Ocupa el recurso en una de dos
// formas mutuamente excluyentes:
//
//   - Modo slot: Date + TimeSlot (MORNING, AFTERNOON o FULLDAY).
//   - Modo rango: PickupDate + ReturnDate (ambos inclusivos).
//
// AssignedVehicleID es una segunda dimensión opcional (p. ej. vehículo de cortesía
// entregado junto al transporter); su ocupación se comprueba de forma independiente.
type Reservation struct {
	ID                string
	VehicleID         string
	AssignedVehicleID string // opcional

	Date       *time.Time
	TimeSlot   string // vacío en modo rango
	PickupDate *time.Time
	ReturnDate *time.Time

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	DriverLicense   string

	KmPackage string
	Insurance string
	Extras    []string
	Notes     string

	PaymentMethod string // CARD | CASH
	TotalPrice    decimal.Decimal

	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSlot indica si la reserva ocupa un slot discreto (fecha + franja).
func (r *Reservation) IsSlot() bool {
	return r.Date != nil && r.TimeSlot != ""
}

// IsRange indica si la reserva ocupa un rango continuo pickup/return.
func (r *Reservation) IsRange() bool {
	return r.PickupDate != nil && r.ReturnDate != nil
}

// Occupies indica si la reserva cuenta para detección de conflictos.
// Las canceladas liberan el recurso.
func (r *Reservation) Occupies() bool {
	return r.Status != ReservationStatusCancelled
}
