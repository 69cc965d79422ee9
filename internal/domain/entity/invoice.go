package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. "draft" reserva el ID sin consumir numeración;
// el número definitivo se asigna al pasar a "pending".
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Modos de IVA de la factura.
const (
	TaxModeExclusive = "exclusive" // el impuesto se añade sobre el subtotal
	TaxModeInclusive = "inclusive" // los precios de línea ya contienen el impuesto
)

// Tipos de evento del historial de pagos.
const (
	EventPaid      = "paid"
	EventReminder  = "reminder"
	EventCancelled = "cancelled"
)

// MaxReminderLevel es el tope de escalado de recordatorios (Mahnstufe).
const MaxReminderLevel = 3

// PaymentEvent es una entrada inmutable del historial de una factura.
// Nunca se edita ni se elimina; es la pista de auditoría del ciclo de vida.
type PaymentEvent struct {
	Kind string    `json:"kind"`
	Note string    `json:"note"`
	At   time.Time `json:"ts"`
}

// InvoiceLineItem es una línea de factura. Inmutable una vez que la factura
// abandona el estado draft.
type InvoiceLineItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje por línea (p. ej. 7.7)
	Total       decimal.Decimal // quantity × unit_price redondeado a 2 decimales
}

// Invoice representa la cabecera de una factura de alquiler o de reparación.
type Invoice struct {
	ID            string
	Number        string // RE-<año>-<contador>, vacío mientras es draft
	CustomerID    string
	ReservationID string // opcional: reserva que originó la factura

	TaxMode  string
	TaxRate  decimal.Decimal // tasa global; cero cuando se usan tasas por línea
	Discount decimal.Decimal

	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	Status         string
	ReminderLevel  int
	IssueDate      time.Time
	DueDate        *time.Time
	PaymentDate    *time.Time
	LastRemindedAt *time.Time

	PaymentMethod string
	Notes         string

	Events []PaymentEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddEvent añade una entrada al historial. Solo se añade, nunca se reordena
// ni se trunca.
func (i *Invoice) AddEvent(kind, note string, at time.Time) {
	i.Events = append(i.Events, PaymentEvent{Kind: kind, Note: note, At: at})
}

// IsOverdue indica si la factura está vencida a la fecha dada.
func (i *Invoice) IsOverdue(today time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	if i.Status != InvoiceStatusPending && i.Status != InvoiceStatusOverdue {
		return false
	}
	return i.DueDate.Before(truncateDay(today))
}

// OverdueDays devuelve los días de retraso (0 si no está vencida).
func (i *Invoice) OverdueDays(today time.Time) int {
	if !i.IsOverdue(today) {
		return 0
	}
	return int(truncateDay(today).Sub(truncateDay(*i.DueDate)).Hours() / 24)
}

// Terminal indica si el estado actual no admite más transiciones.
func (i *Invoice) Terminal() bool {
	return i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
