package billing

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain/billing"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

// ReminderSweepUseCase recorre las facturas vencidas y aplica la escalada
// automática de recordatorios. Es el único mutador por tiempo del sistema:
// leer una factura nunca cambia su estado.
type ReminderSweepUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	notifier     ReminderNotifier
}

// NewReminderSweepUseCase construye el caso de uso.
func NewReminderSweepUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	notifier ReminderNotifier,
) *ReminderSweepUseCase {
	return &ReminderSweepUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
	}
}

// Run ejecuta un barrido completo. Cada factura se procesa en su propia
// transacción: un fallo puntual no detiene el resto del barrido. El barrido
// es idempotente; ejecutarlo dos veces el mismo día no duplica nada.
func (uc *ReminderSweepUseCase) Run(ctx context.Context, actor string) (*dto.SweepResponse, error) {
	today := time.Now().UTC()
	due, err := uc.invoiceRepo.ListDue(ctx, today)
	if err != nil {
		return nil, err
	}

	out := &dto.SweepResponse{Scanned: len(due)}
	for _, inv := range due {
		reminded, overdue, err := uc.sweepOne(ctx, inv.ID, actor, today)
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("barrido: factura omitida")
			continue
		}
		if overdue {
			out.MarkedOverdue++
		}
		if reminded {
			out.Reminded++
			uc.notifySwept(ctx, inv.ID)
		}
	}
	log.Info().
		Int("scanned", out.Scanned).
		Int("marked_overdue", out.MarkedOverdue).
		Int("reminded", out.Reminded).
		Msg("barrido de recordatorios completado")
	return out, nil
}

func (uc *ReminderSweepUseCase) sweepOne(ctx context.Context, id, actor string, today time.Time) (reminded, overdue bool, err error) {
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, auditRepo repository.AuditRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		levelBefore := inv.ReminderLevel
		statusBefore := inv.Status

		if !billing.Sweep(inv, today) {
			return nil
		}
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		reminded = inv.ReminderLevel > levelBefore
		overdue = statusBefore == entity.InvoiceStatusPending && inv.Status == entity.InvoiceStatusOverdue
		if reminded {
			return auditRepo.Create(ctx, &entity.AuditEntry{
				Actor:    actor,
				Action:   entity.AuditInvoiceReminded,
				ObjectID: inv.ID,
				Metadata: map[string]string{"level": strconv.Itoa(inv.ReminderLevel)},
			})
		}
		return nil
	})
	return reminded, overdue, err
}

func (uc *ReminderSweepUseCase) notifySwept(ctx context.Context, invoiceID string) {
	if uc.notifier == nil {
		return
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		log.Warn().Err(err).Str("invoice", inv.Number).Msg("barrido: cliente no encontrado para el aviso")
		return
	}
	if err := uc.notifier.ReminderRaised(ctx, inv, customer); err != nil {
		log.Warn().Err(err).Str("invoice", inv.Number).Msg("barrido: aviso no enviado")
	}
}
