package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/billing"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pendingInvoice(due time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:        "inv-1",
		Number:    "RE-2025-0001",
		Status:    entity.InvoiceStatusPending,
		IssueDate: due.AddDate(0, 0, -30),
		DueDate:   &due,
	}
}

func eventKinds(inv *entity.Invoice) []string {
	kinds := make([]string, 0, len(inv.Events))
	for _, ev := range inv.Events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_AsignaNumeroYVencimientoPorDefecto(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft, IssueDate: date(2025, 3, 1)}

	err := billing.Finalize(inv, "RE-2025-0012", date(2025, 3, 1))
	require.NoError(t, err)

	assert.Equal(t, "RE-2025-0012", inv.Number)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, date(2025, 3, 31), *inv.DueDate, "vencimiento por defecto: emisión + 30 días")
}

func TestFinalize_RespetaVencimientoExistente(t *testing.T) {
	due := date(2025, 4, 15)
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft, IssueDate: date(2025, 3, 1), DueDate: &due}

	require.NoError(t, billing.Finalize(inv, "RE-2025-0013", date(2025, 3, 1)))
	assert.Equal(t, due, *inv.DueDate)
}

func TestFinalize_SoloDesdeDraft(t *testing.T) {
	for _, status := range []string{
		entity.InvoiceStatusPending, entity.InvoiceStatusPaid,
		entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled,
	} {
		inv := &entity.Invoice{Status: status, IssueDate: date(2025, 3, 1)}
		err := billing.Finalize(inv, "RE-2025-0014", date(2025, 3, 1))
		require.ErrorIs(t, err, domain.ErrInvalidTransition, "estado: %s", status)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkPaid / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkPaid_SellaFechaYEvento(t *testing.T) {
	inv := pendingInvoice(date(2025, 2, 1))
	today := date(2025, 1, 20)

	require.NoError(t, billing.MarkPaid(inv, today))

	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaymentDate)
	assert.Equal(t, today, *inv.PaymentDate)
	assert.Equal(t, []string{entity.EventPaid}, eventKinds(inv))
}

func TestMarkPaid_RepetidoEsNoOp(t *testing.T) {
	inv := pendingInvoice(date(2025, 2, 1))
	require.NoError(t, billing.MarkPaid(inv, date(2025, 1, 20)))

	require.NoError(t, billing.MarkPaid(inv, date(2025, 1, 25)))
	assert.Equal(t, date(2025, 1, 20), *inv.PaymentDate, "el segundo pago no resella la fecha")
	assert.Len(t, inv.Events, 1, "ningún evento adicional")
}

func TestMarkPaid_Rechazado(t *testing.T) {
	for _, status := range []string{entity.InvoiceStatusCancelled, entity.InvoiceStatusDraft} {
		inv := &entity.Invoice{Status: status}
		require.ErrorIs(t, billing.MarkPaid(inv, date(2025, 1, 20)), domain.ErrInvalidTransition, "estado: %s", status)
	}
}

func TestCancel(t *testing.T) {
	inv := pendingInvoice(date(2025, 2, 1))
	require.NoError(t, billing.Cancel(inv, date(2025, 1, 20)))
	assert.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
	assert.Equal(t, []string{entity.EventCancelled}, eventKinds(inv))
	assert.True(t, inv.Terminal())
}

func TestCancel_NoOpEnTerminales(t *testing.T) {
	for _, status := range []string{entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled} {
		inv := &entity.Invoice{Status: status}
		require.NoError(t, billing.Cancel(inv, date(2025, 1, 20)))
		assert.Equal(t, status, inv.Status, "el estado terminal no cambia")
		assert.Empty(t, inv.Events)
	}
}

func TestCancel_DraftEsError(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	require.ErrorIs(t, billing.Cancel(inv, date(2025, 1, 20)), domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// RaiseReminder (escalada manual)
// ──────────────────────────────────────────────────────────────────────────────

func TestRaiseReminder_SubeNivelYFuerzaOverdue(t *testing.T) {
	inv := pendingInvoice(date(2025, 2, 1))
	today := date(2025, 1, 20)

	require.NoError(t, billing.RaiseReminder(inv, today))

	assert.Equal(t, 1, inv.ReminderLevel)
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status, "la escalada manual fuerza overdue incluso antes del vencimiento")
	require.NotNil(t, inv.LastRemindedAt)
	assert.Equal(t, today, *inv.LastRemindedAt)
	assert.Equal(t, []string{entity.EventReminder}, eventKinds(inv))
}

func TestRaiseReminder_TopeEnNivelTres(t *testing.T) {
	inv := pendingInvoice(date(2025, 2, 1))
	for i := 0; i < 5; i++ {
		require.NoError(t, billing.RaiseReminder(inv, date(2025, 1, 20+i)))
	}
	assert.Equal(t, entity.MaxReminderLevel, inv.ReminderLevel)
	assert.Len(t, inv.Events, 5, "cada escalada deja su evento aunque el nivel ya esté al tope")
}

func TestRaiseReminder_SoloPendingUOverdue(t *testing.T) {
	for _, status := range []string{entity.InvoiceStatusDraft, entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled} {
		inv := &entity.Invoice{Status: status}
		require.ErrorIs(t, billing.RaiseReminder(inv, date(2025, 1, 20)), domain.ErrInvalidTransition, "estado: %s", status)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sweep (barrido periódico)
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: vencida el 2025-01-01, barrido el 2025-01-22
// (21 días de retraso) → overdue, nivel 3, un único evento de recordatorio.
func TestSweep_EscaladaDirectaAlNivelObjetivo(t *testing.T) {
	inv := pendingInvoice(date(2025, 1, 1))
	today := date(2025, 1, 22)

	changed := billing.Sweep(inv, today)

	assert.True(t, changed)
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, 3, inv.ReminderLevel)
	require.NotNil(t, inv.LastRemindedAt)
	assert.Equal(t, today, *inv.LastRemindedAt)
	assert.Equal(t, []string{entity.EventReminder}, eventKinds(inv), "exactamente un evento por barrido")
}

func TestSweep_UmbralesDeNivel(t *testing.T) {
	cases := []struct {
		daysLate int
		level    int
	}{
		{0, 0}, {1, 0}, {6, 0},
		{7, 1}, {13, 1},
		{14, 2}, {20, 2},
		{21, 3}, {60, 3},
	}
	due := date(2025, 1, 1)
	for _, tc := range cases {
		inv := pendingInvoice(due)
		billing.Sweep(inv, due.AddDate(0, 0, tc.daysLate))
		assert.Equal(t, tc.level, inv.ReminderLevel, "%d días de retraso", tc.daysLate)
	}
}

func TestSweep_VencidaSinUmbralSoloCambiaEstado(t *testing.T) {
	inv := pendingInvoice(date(2025, 1, 1))

	changed := billing.Sweep(inv, date(2025, 1, 4))

	assert.True(t, changed)
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, 0, inv.ReminderLevel)
	assert.Empty(t, inv.Events, "cambiar a overdue sin subir nivel no genera evento")
}

func TestSweep_Idempotente(t *testing.T) {
	inv := pendingInvoice(date(2025, 1, 1))
	today := date(2025, 1, 22)

	require.True(t, billing.Sweep(inv, today))
	assert.False(t, billing.Sweep(inv, today), "repetir el barrido el mismo día no cambia nada")
	assert.Len(t, inv.Events, 1)
}

func TestSweep_NuncaBajaNivel(t *testing.T) {
	inv := pendingInvoice(date(2025, 1, 1))
	inv.Status = entity.InvoiceStatusOverdue
	inv.ReminderLevel = 3 // escalada manual previa

	changed := billing.Sweep(inv, date(2025, 1, 10))

	assert.False(t, changed)
	assert.Equal(t, 3, inv.ReminderLevel, "el objetivo por retraso (1) nunca rebaja el nivel almacenado")
}

func TestSweep_IgnoraEstadosNoElegibles(t *testing.T) {
	due := date(2025, 1, 1)
	for _, status := range []string{entity.InvoiceStatusDraft, entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled} {
		inv := pendingInvoice(due)
		inv.Status = status
		assert.False(t, billing.Sweep(inv, date(2025, 2, 1)), "estado: %s", status)
		assert.Equal(t, 0, inv.ReminderLevel)
	}
}

func TestSweep_SinVencimientoNoHaceNada(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusPending}
	assert.False(t, billing.Sweep(inv, date(2025, 2, 1)))
}

func TestSweep_NoVencidaElMismoDia(t *testing.T) {
	inv := pendingInvoice(date(2025, 1, 1))
	assert.False(t, billing.Sweep(inv, date(2025, 1, 1)), "el día del vencimiento aún no hay retraso")
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
}
