package dto

import "github.com/shopspring/decimal"

// AvailabilityRequest query para GET /api/bookings/availability.
// Ventana de medio día: date + time_slot. Ventana de rango: pickup_date +
// return_date. exclude_id permite editar una reserva sin chocar consigo misma.
type AvailabilityRequest struct {
	VehicleID  string `query:"vehicle_id"`
	Date       string `query:"date"`
	TimeSlot   string `query:"time_slot"`
	PickupDate string `query:"pickup_date"`
	ReturnDate string `query:"return_date"`
	ExcludeID  string `query:"exclude_id"`
}

// AvailabilityResponse resultado de la comprobación.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	VehicleID string `json:"vehicle_id"`
}

// QuoteRequest query para GET /api/bookings/quote. Misma ventana que
// AvailabilityRequest más el paquete contratado.
type QuoteRequest struct {
	VehicleID  string   `query:"vehicle_id"`
	Date       string   `query:"date"`
	TimeSlot   string   `query:"time_slot"`
	PickupDate string   `query:"pickup_date"`
	ReturnDate string   `query:"return_date"`
	KmPackage  string   `query:"km_package"`
	Insurance  string   `query:"insurance"`
	Extras     []string `query:"extras"`
}

// QuoteResponse precio total calculado para la ventana y el paquete.
type QuoteResponse struct {
	VehicleID  string          `json:"vehicle_id"`
	Days       int             `json:"days"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
}

// CreateReservationRequest body para POST /api/bookings.
type CreateReservationRequest struct {
	VehicleID  string `json:"vehicle_id"`
	Date       string `json:"date,omitempty"`
	TimeSlot   string `json:"time_slot,omitempty"`
	PickupDate string `json:"pickup_date,omitempty"`
	ReturnDate string `json:"return_date,omitempty"`

	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	DriverLicense string `json:"driver_license,omitempty"`

	KmPackage     string   `json:"km_package"`
	Insurance     string   `json:"insurance"`
	Extras        []string `json:"extras,omitempty"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// ReservationResponse reserva en respuestas.
type ReservationResponse struct {
	ID         string `json:"id"`
	VehicleID  string `json:"vehicle_id"`
	Date       string `json:"date,omitempty"`
	TimeSlot   string `json:"time_slot,omitempty"`
	PickupDate string `json:"pickup_date,omitempty"`
	ReturnDate string `json:"return_date,omitempty"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	KmPackage     string          `json:"km_package"`
	Insurance     string          `json:"insurance"`
	Extras        []string        `json:"extras,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

// UpdateReservationStatusRequest body para PATCH /api/bookings/:id/status.
type UpdateReservationStatusRequest struct {
	Status string `json:"status"`
}

// VehicleResponse vehículo en respuestas públicas.
type VehicleResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	LicensePlate string          `json:"license_plate,omitempty"`
	Type         string          `json:"type"`
	Color        string          `json:"color,omitempty"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	HalfDayRate  decimal.Decimal `json:"half_day_rate,omitempty"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
}
