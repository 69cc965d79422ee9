package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de vehículo de la flota (determinan la tarifa diaria por defecto).
const (
	VehicleTypeSmall  = "small"
	VehicleTypeMedium = "medium"
	VehicleTypeLarge  = "large"
)

// Estados operativos de un vehículo.
const (
	VehicleStatusAvailable    = "available"
	VehicleStatusMaintenance  = "maintenance"
	VehicleStatusOutOfService = "out_of_service"
)

// Vehicle representa un activo alquilable de la flota (transporter o vehículo de cortesía).
// DailyRate cero significa "usar la tarifa de la clase"; HalfDayRate cero significa
// "usar la mitad de la tarifa diaria" para los slots de medio día.
type Vehicle struct {
	ID            string
	Name          string
	LicensePlate  string
	Type          string // small | medium | large
	Color         string
	DailyRate     decimal.Decimal
	HalfDayRate   decimal.Decimal
	Status        string // available | maintenance | out_of_service
	AvailableFrom *time.Time
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Bookable indica si el vehículo está operativo para nuevas reservas.
func (v *Vehicle) Bookable() bool {
	return v.Status == VehicleStatusAvailable
}
