package billing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/datalization1/roberts-lackwerk/internal/application/billing"
	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices  map[string]*entity.Invoice
	items     map[string][]entity.InvoiceLineItem
	sequences map[int]int
	nextID    int

	// updateDuplicates simula colisiones de la restricción única de número:
	// los primeros N Update de una factura con número devuelven ErrDuplicate.
	updateDuplicates int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:  map[string]*entity.Invoice{},
		items:     map[string][]entity.InvoiceLineItem{},
		sequences: map[int]int{},
	}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	f.nextID++
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) CreateLineItem(_ context.Context, item *entity.InvoiceLineItem) error {
	f.items[item.InvoiceID] = append(f.items[item.InvoiceID], *item)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	cp.Events = append([]entity.PaymentEvent(nil), inv.Events...)
	return &cp, nil
}

func (f *fakeInvoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvoiceRepo) GetLineItems(_ context.Context, invoiceID string) ([]entity.InvoiceLineItem, error) {
	return f.items[invoiceID], nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if status == "" || inv.Status == status {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListDue(_ context.Context, before time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.Status != entity.InvoiceStatusPending && inv.Status != entity.InvoiceStatusOverdue {
			continue
		}
		if inv.DueDate != nil && inv.DueDate.Before(before) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	if inv.Number != "" && f.updateDuplicates > 0 {
		f.updateDuplicates--
		return fmt.Errorf("invoices_number_key: %w", domain.ErrDuplicate)
	}
	cp := *inv
	cp.Events = append([]entity.PaymentEvent(nil), inv.Events...)
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) NextSequence(_ context.Context, year int) (int, error) {
	f.sequences[year]++
	return f.sequences[year], nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditEntry
}

func (f *fakeAuditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) ListByObject(_ context.Context, objectID string, limit, offset int) ([]*entity.AuditEntry, error) {
	return f.entries, nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	c.ID = fmt.Sprintf("cust-%d", len(f.customers)+1)
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(_ context.Context, id string) error          { return nil }

type fakeBillingTx struct {
	invoices *fakeInvoiceRepo
	audit    *fakeAuditRepo
}

func (f *fakeBillingTx) RunBilling(_ context.Context, fn func(repository.InvoiceRepository, repository.AuditRepository) error) error {
	return fn(f.invoices, f.audit)
}

type reminderRecorder struct {
	notified []string // números de factura avisados
	err      error
}

func (r *reminderRecorder) ReminderRaised(_ context.Context, inv *entity.Invoice, _ *entity.Customer) error {
	r.notified = append(r.notified, inv.Number)
	return r.err
}

type billingFixture struct {
	uc       *appbilling.InvoiceUseCase
	invoices *fakeInvoiceRepo
	audit    *fakeAuditRepo
	notifier *reminderRecorder
}

func newBillingFixture() *billingFixture {
	invoices := newFakeInvoiceRepo()
	audit := &fakeAuditRepo{}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cust-1": {ID: "cust-1", FirstName: "Lara", LastName: "Meier", Email: "lara@example.ch"},
	}}
	notifier := &reminderRecorder{}
	uc := appbilling.NewInvoiceUseCase(&fakeBillingTx{invoices: invoices, audit: audit}, invoices, customers, notifier)
	return &billingFixture{uc: uc, invoices: invoices, audit: audit, notifier: notifier}
}

func draftRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: "cust-1",
		TaxMode:    entity.TaxModeExclusive,
		Discount:   dec("10.00"),
		Items: []dto.InvoiceItemRequest{
			{Description: "Transporter Miete", Quantity: dec("2"), UnitPrice: dec("100"), TaxRate: dec("7.7")},
			{Description: "Zubehör", Quantity: dec("1"), UnitPrice: dec("50"), TaxRate: dec("7.7")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateDraft
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_CalculaTotalesYNoConsumeNumero(t *testing.T) {
	fx := newBillingFixture()

	out, err := fx.uc.CreateDraft(context.Background(), draftRequest())
	require.NoError(t, err)

	assert.Empty(t, out.Number, "el borrador no consume numeración")
	assert.Equal(t, entity.InvoiceStatusDraft, out.Status)
	assert.True(t, dec("250.00").Equal(out.Subtotal), "subtotal: %s", out.Subtotal)
	assert.True(t, dec("19.25").Equal(out.TaxAmount), "impuesto: %s", out.TaxAmount)
	assert.True(t, dec("259.25").Equal(out.Total), "total: %s", out.Total)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.Items[0].Position)
	assert.Empty(t, fx.invoices.sequences, "la secuencia no se toca en el borrador")
}

func TestCreateDraft_ClienteInexistente(t *testing.T) {
	fx := newBillingFixture()
	in := draftRequest()
	in.CustomerID = "cust-404"

	_, err := fx.uc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDraft_InclusivoConDescuentoRechazado(t *testing.T) {
	fx := newBillingFixture()
	in := dto.CreateInvoiceRequest{
		CustomerID: "cust-1",
		TaxMode:    entity.TaxModeInclusive,
		TaxRate:    dec("7.7"),
		Discount:   dec("5.00"),
		Items:      []dto.InvoiceItemRequest{{Description: "Miete", Quantity: dec("1"), UnitPrice: dec("107.70")}},
	}
	_, err := fx.uc.CreateDraft(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_AsignaNumeroSecuencial(t *testing.T) {
	fx := newBillingFixture()
	ctx := context.Background()
	year := time.Now().UTC().Year()

	first, err := fx.uc.CreateDraft(ctx, draftRequest())
	require.NoError(t, err)
	second, err := fx.uc.CreateDraft(ctx, draftRequest())
	require.NoError(t, err)

	out1, err := fx.uc.Finalize(ctx, first.ID, "staff-1")
	require.NoError(t, err)
	out2, err := fx.uc.Finalize(ctx, second.ID, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("RE-%04d-0001", year), out1.Number)
	assert.Equal(t, fmt.Sprintf("RE-%04d-0002", year), out2.Number)
	assert.Equal(t, entity.InvoiceStatusPending, out1.Status)
	assert.NotEmpty(t, out1.DueDate, "vencimiento por defecto asignado")

	require.Len(t, fx.audit.entries, 2)
	assert.Equal(t, entity.AuditInvoiceFinalized, fx.audit.entries[0].Action)
}

func TestFinalize_ReintentaTrasColisionDeNumero(t *testing.T) {
	fx := newBillingFixture()
	ctx := context.Background()
	year := time.Now().UTC().Year()

	draft, err := fx.uc.CreateDraft(ctx, draftRequest())
	require.NoError(t, err)
	fx.invoices.updateDuplicates = 1 // la primera finalización choca con la única

	out, err := fx.uc.Finalize(ctx, draft.ID, "staff-1")
	require.NoError(t, err, "la colisión se resuelve con reintento, el cliente no la ve")
	assert.Equal(t, fmt.Sprintf("RE-%04d-0002", year), out.Number, "el reintento toma el siguiente contador")
}

func TestFinalize_SoloDraft(t *testing.T) {
	fx := newBillingFixture()
	ctx := context.Background()
	draft, err := fx.uc.CreateDraft(ctx, draftRequest())
	require.NoError(t, err)
	_, err = fx.uc.Finalize(ctx, draft.ID, "staff-1")
	require.NoError(t, err)

	_, err = fx.uc.Finalize(ctx, draft.ID, "staff-1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones de personal
// ──────────────────────────────────────────────────────────────────────────────

func finalized(t *testing.T, fx *billingFixture) string {
	t.Helper()
	ctx := context.Background()
	draft, err := fx.uc.CreateDraft(ctx, draftRequest())
	require.NoError(t, err)
	out, err := fx.uc.Finalize(ctx, draft.ID, "staff-1")
	require.NoError(t, err)
	return out.ID
}

func TestMarkPaid_PersisteEventoYAuditoria(t *testing.T) {
	fx := newBillingFixture()
	id := finalized(t, fx)

	out, err := fx.uc.MarkPaid(context.Background(), id, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.NotEmpty(t, out.PaymentDate)
	require.Len(t, out.Events, 1)
	assert.Equal(t, entity.EventPaid, out.Events[0].Kind)

	stored, _ := fx.invoices.GetByID(context.Background(), id)
	assert.Len(t, stored.Events, 1, "el historial queda persistido")
	assert.Equal(t, entity.AuditInvoicePaid, fx.audit.entries[len(fx.audit.entries)-1].Action)
}

func TestMarkPaid_NoOpNoPersisteNiAudita(t *testing.T) {
	fx := newBillingFixture()
	id := finalized(t, fx)
	_, err := fx.uc.MarkPaid(context.Background(), id, "staff-1")
	require.NoError(t, err)
	audits := len(fx.audit.entries)

	out, err := fx.uc.MarkPaid(context.Background(), id, "staff-2")
	require.NoError(t, err)
	assert.Len(t, out.Events, 1, "sin evento nuevo")
	assert.Len(t, fx.audit.entries, audits, "sin auditoría nueva")
}

func TestRaiseReminder_EscalaYAvisaAlCliente(t *testing.T) {
	fx := newBillingFixture()
	id := finalized(t, fx)

	out, err := fx.uc.RaiseReminder(context.Background(), id, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusOverdue, out.Status)
	assert.Equal(t, 1, out.ReminderLevel)
	assert.NotEmpty(t, out.LastRemindedAt)
	require.Len(t, fx.notifier.notified, 1)
	assert.Equal(t, out.Number, fx.notifier.notified[0])
}

func TestRaiseReminder_FalloDeAvisoNoRompeLaEscalada(t *testing.T) {
	fx := newBillingFixture()
	id := finalized(t, fx)
	fx.notifier.err = assert.AnError

	out, err := fx.uc.RaiseReminder(context.Background(), id, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, 1, out.ReminderLevel)
}

func TestCancel_DesdePendiente(t *testing.T) {
	fx := newBillingFixture()
	id := finalized(t, fx)

	out, err := fx.uc.Cancel(context.Background(), id, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, out.Status)

	_, err = fx.uc.MarkPaid(context.Background(), id, "staff-1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition, "una cancelada no se puede pagar")
}
