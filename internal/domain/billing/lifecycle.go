package billing

import (
	"fmt"
	"time"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// Máquina de estados de la factura:
//
//	draft → pending → {paid, overdue, cancelled}
//	overdue → {paid, cancelled}
//
// paid y cancelled son terminales. Disciplina única para operaciones sobre
// estados terminales: las repeticiones inofensivas son no-op silenciosos
// (cancelar una pagada o cancelada, pagar una pagada); las operaciones
// semánticamente erróneas devuelven ErrInvalidTransition (pagar una
// cancelada o un draft). Toda mutación añade exactamente un evento.

// Finalize pasa una factura de draft a pending asignándole su número
// definitivo. Si no hay fecha de vencimiento se fija a emisión + 30 días.
func Finalize(inv *entity.Invoice, number string, today time.Time) error {
	if inv.Status != entity.InvoiceStatusDraft {
		return fmt.Errorf("%w: finalize requiere estado draft, no %s", domain.ErrInvalidTransition, inv.Status)
	}
	if number == "" {
		return fmt.Errorf("%w: número de factura vacío", domain.ErrInvalidInput)
	}
	inv.Number = number
	inv.Status = entity.InvoiceStatusPending
	if inv.DueDate == nil {
		due := inv.IssueDate.AddDate(0, 0, 30)
		inv.DueDate = &due
	}
	return nil
}

// MarkPaid marca la factura como pagada y sella la fecha de pago.
// No-op si ya está pagada; error si está cancelada o sigue en draft.
func MarkPaid(inv *entity.Invoice, today time.Time) error {
	switch inv.Status {
	case entity.InvoiceStatusPaid:
		return nil
	case entity.InvoiceStatusCancelled, entity.InvoiceStatusDraft:
		return fmt.Errorf("%w: no se puede pagar una factura en estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	inv.Status = entity.InvoiceStatusPaid
	inv.PaymentDate = &today
	inv.AddEvent(entity.EventPaid, "Marcada como pagada en el portal", today)
	return nil
}

// RaiseReminder es la escalada manual de personal: sube el nivel de
// recordatorio en uno (tope 3), fuerza el estado a overdue y sella la fecha.
// Distinta del barrido automático: aquí el nivel sube incondicionalmente.
func RaiseReminder(inv *entity.Invoice, today time.Time) error {
	switch inv.Status {
	case entity.InvoiceStatusPending, entity.InvoiceStatusOverdue:
	default:
		return fmt.Errorf("%w: recordatorio no permitido en estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	if inv.ReminderLevel < entity.MaxReminderLevel {
		inv.ReminderLevel++
	}
	inv.Status = entity.InvoiceStatusOverdue
	inv.LastRemindedAt = &today
	inv.AddEvent(entity.EventReminder, fmt.Sprintf("Nivel de recordatorio %d fijado manualmente", inv.ReminderLevel), today)
	return nil
}

// Cancel anula una factura pendiente o vencida. Cancelar una pagada o ya
// cancelada es un no-op silencioso; cancelar un draft es un error (los drafts
// se descartan, no se anulan).
func Cancel(inv *entity.Invoice, today time.Time) error {
	switch inv.Status {
	case entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled:
		return nil
	case entity.InvoiceStatusDraft:
		return fmt.Errorf("%w: un draft se elimina, no se cancela", domain.ErrInvalidTransition)
	}
	inv.Status = entity.InvoiceStatusCancelled
	inv.AddEvent(entity.EventCancelled, "Factura anulada", today)
	return nil
}

// targetLevel devuelve el nivel de recordatorio objetivo según los umbrales
// de 7/14/21 días de retraso.
func targetLevel(daysOverdue int) int {
	switch {
	case daysOverdue >= 21:
		return 3
	case daysOverdue >= 14:
		return 2
	case daysOverdue >= 7:
		return 1
	}
	return 0
}

// Sweep aplica a una factura el barrido periódico de recordatorios:
// pending vencida pasa a overdue y el nivel sube hasta el objetivo por
// retraso, nunca baja. Idempotente: repetir el barrido el mismo día no
// produce cambios ni eventos nuevos, y jamás toca facturas paid/cancelled
// o en draft. Devuelve true si la factura cambió.
func Sweep(inv *entity.Invoice, today time.Time) bool {
	if inv.Status != entity.InvoiceStatusPending && inv.Status != entity.InvoiceStatusOverdue {
		return false
	}
	if inv.DueDate == nil {
		return false
	}

	changed := false
	daysOverdue := inv.OverdueDays(today)

	if inv.Status == entity.InvoiceStatusPending && daysOverdue > 0 {
		inv.Status = entity.InvoiceStatusOverdue
		changed = true
	}

	if target := targetLevel(daysOverdue); target > inv.ReminderLevel {
		inv.ReminderLevel = target
		inv.LastRemindedAt = &today
		inv.AddEvent(entity.EventReminder,
			fmt.Sprintf("Nivel de recordatorio %d fijado (%d días de retraso)", target, daysOverdue), today)
		changed = true
	}
	return changed
}
