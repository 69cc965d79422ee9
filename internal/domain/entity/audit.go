package entity

import "time"

// Acciones registradas en la pista de auditoría del portal de personal.
const (
	AuditInvoiceFinalized = "invoice_finalized"
	AuditInvoicePaid      = "invoice_paid"
	AuditInvoiceReminded  = "invoice_reminded"
	AuditInvoiceCancelled = "invoice_cancelled"
	AuditReservationState = "reservation_status_changed"
)

// AuditEntry registra quién hizo qué sobre qué objeto. Solo inserción.
type AuditEntry struct {
	ID        string
	Actor     string // ID del usuario de personal
	Action    string
	ObjectID  string
	Metadata  map[string]string
	CreatedAt time.Time
}
