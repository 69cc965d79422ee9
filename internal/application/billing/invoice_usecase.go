package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/billing"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// maxNumberRetries acota los reintentos cuando dos finalizaciones simultáneas
// obtienen el mismo número (la restricción única lo detecta).
const maxNumberRetries = 3

// InvoiceUseCase orquesta el ciclo de vida completo de la factura: borrador,
// finalización con numeración atómica, pago, recordatorios y anulación.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	notifier     ReminderNotifier
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	notifier ReminderNotifier,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
	}
}

// CreateDraft valida líneas y totales y persiste la factura en estado draft.
// El borrador no consume numeración.
func (uc *InvoiceUseCase) CreateDraft(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: cliente y al menos una línea requeridos", domain.ErrInvalidInput)
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	taxMode := in.TaxMode
	if taxMode == "" {
		taxMode = entity.TaxModeExclusive
	}

	lineInputs := make([]billing.LineInput, 0, len(in.Items))
	perLineRates := false
	for _, it := range in.Items {
		rate := it.TaxRate
		if rate.IsZero() {
			rate = in.TaxRate
		} else {
			perLineRates = true
		}
		lineInputs = append(lineInputs, billing.LineInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     rate,
		})
	}
	items, err := billing.NormalizeItems(lineInputs)
	if err != nil {
		return nil, err
	}

	discount := in.Discount
	var breakdown billing.Breakdown
	if perLineRates && taxMode == entity.TaxModeExclusive {
		breakdown, err = billing.TotalsPerLine(items, discount)
	} else {
		breakdown, err = billing.Totals(items, in.TaxRate, taxMode, discount)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		CustomerID:    customer.ID,
		ReservationID: in.ReservationID,
		TaxMode:       taxMode,
		TaxRate:       in.TaxRate,
		Discount:      discount,
		Subtotal:      breakdown.Subtotal,
		TaxAmount:     breakdown.Tax,
		Total:         breakdown.Total,
		Status:        entity.InvoiceStatusDraft,
		IssueDate:     now,
		Notes:         in.Notes,
	}
	if in.DueDate != "" {
		due, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha de vencimiento inválida %q", domain.ErrInvalidInput, in.DueDate)
		}
		inv.DueDate = &due
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.AuditRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = inv.ID
			if err := invoiceRepo.CreateLineItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Finalize asigna el número definitivo (secuencia atómica por año) y pasa la
// factura a pending. Una colisión de número entre finalizaciones simultáneas
// se reintenta con el siguiente contador; el cliente nunca la ve.
func (uc *InvoiceUseCase) Finalize(ctx context.Context, id, actor string) (*dto.InvoiceResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		inv, err := uc.finalizeOnce(ctx, id, actor)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		lastErr = err
		log.Warn().Str("invoice_id", id).Int("attempt", attempt+1).Msg("colisión de número de factura, reintentando")
	}
	return nil, fmt.Errorf("numeración de factura agotó reintentos: %w", lastErr)
}

func (uc *InvoiceUseCase) finalizeOnce(ctx context.Context, id, actor string) (*dto.InvoiceResponse, error) {
	var (
		inv   *entity.Invoice
		items []entity.InvoiceLineItem
	)
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditRepository) error {
		loaded, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Comprobar el estado antes de consumir numeración.
		if loaded.Status != entity.InvoiceStatusDraft {
			return fmt.Errorf("%w: finalize requiere estado draft, no %s", domain.ErrInvalidTransition, loaded.Status)
		}
		today := time.Now().UTC()
		year := loaded.IssueDate.Year()
		counter, err := invoiceRepo.NextSequence(ctx, year)
		if err != nil {
			return err
		}
		if err := billing.Finalize(loaded, billing.FormatNumber(year, counter), today); err != nil {
			return err
		}
		if err := invoiceRepo.Update(ctx, loaded); err != nil {
			return err
		}
		if err := auditRepo.Create(ctx, &entity.AuditEntry{
			Actor:    actor,
			Action:   entity.AuditInvoiceFinalized,
			ObjectID: loaded.ID,
			Metadata: map[string]string{"number": loaded.Number},
		}); err != nil {
			return err
		}
		items, err = invoiceRepo.GetLineItems(ctx, loaded.ID)
		if err != nil {
			return err
		}
		inv = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Get devuelve la factura con líneas e historial.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetLineItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// List devuelve facturas filtradas por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv, nil))
	}
	return out, nil
}

// MarkPaid marca la factura como pagada (operación de personal).
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id, actor string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, actor, entity.AuditInvoicePaid, func(inv *entity.Invoice, today time.Time) error {
		return billing.MarkPaid(inv, today)
	})
}

// RaiseReminder ejecuta la escalada manual de recordatorio y avisa al cliente.
func (uc *InvoiceUseCase) RaiseReminder(ctx context.Context, id, actor string) (*dto.InvoiceResponse, error) {
	out, err := uc.transition(ctx, id, actor, entity.AuditInvoiceReminded, func(inv *entity.Invoice, today time.Time) error {
		return billing.RaiseReminder(inv, today)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyReminder(ctx, out.ID)
	return out, nil
}

// Cancel anula la factura.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id, actor string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, id, actor, entity.AuditInvoiceCancelled, func(inv *entity.Invoice, today time.Time) error {
		return billing.Cancel(inv, today)
	})
}

// transition aplica una mutación de ciclo de vida y su entrada de auditoría
// en una sola transacción.
func (uc *InvoiceUseCase) transition(ctx context.Context, id, actor, action string, mutate func(*entity.Invoice, time.Time) error) (*dto.InvoiceResponse, error) {
	var (
		inv   *entity.Invoice
		items []entity.InvoiceLineItem
	)
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditRepository) error {
		loaded, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		before := loaded.Status
		eventsBefore := len(loaded.Events)
		if err := mutate(loaded, time.Now().UTC()); err != nil {
			return err
		}
		// Un no-op silencioso (pagar una pagada, cancelar una cancelada) no
		// persiste ni audita nada.
		if loaded.Status != before || len(loaded.Events) != eventsBefore {
			if err := invoiceRepo.Update(ctx, loaded); err != nil {
				return err
			}
			if err := auditRepo.Create(ctx, &entity.AuditEntry{
				Actor:    actor,
				Action:   action,
				ObjectID: loaded.ID,
				Metadata: map[string]string{"from": before, "to": loaded.Status},
			}); err != nil {
				return err
			}
		}
		items, err = invoiceRepo.GetLineItems(ctx, loaded.ID)
		if err != nil {
			return err
		}
		inv = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// notifyReminder envía el aviso de recordatorio fuera de la transacción.
func (uc *InvoiceUseCase) notifyReminder(ctx context.Context, invoiceID string) {
	if uc.notifier == nil {
		return
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("recordatorio sin aviso: factura no recargada")
		return
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("recordatorio sin aviso: cliente no encontrado")
		return
	}
	if err := uc.notifier.ReminderRaised(ctx, inv, customer); err != nil {
		log.Warn().Err(err).Str("invoice", inv.Number).Msg("aviso de recordatorio no enviado")
	}
}

func toInvoiceResponse(inv *entity.Invoice, items []entity.InvoiceLineItem) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		CustomerID:    inv.CustomerID,
		ReservationID: inv.ReservationID,
		TaxMode:       inv.TaxMode,
		TaxRate:       inv.TaxRate,
		Discount:      inv.Discount,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Status:        inv.Status,
		ReminderLevel: inv.ReminderLevel,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		Notes:         inv.Notes,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
		Events:        make([]dto.InvoiceEventResponse, 0, len(inv.Events)),
	}
	if inv.DueDate != nil {
		out.DueDate = inv.DueDate.Format(dateLayout)
	}
	if inv.PaymentDate != nil {
		out.PaymentDate = inv.PaymentDate.Format(dateLayout)
	}
	if inv.LastRemindedAt != nil {
		out.LastRemindedAt = inv.LastRemindedAt.Format(dateLayout)
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			Position:    it.Position,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Total:       it.Total,
		})
	}
	for _, ev := range inv.Events {
		out.Events = append(out.Events, dto.InvoiceEventResponse{
			Kind: ev.Kind,
			Note: ev.Note,
			At:   ev.At.Format(time.RFC3339),
		})
	}
	return out
}
