package billing

import (
	"context"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

// BillingTxRunner ejecuta una función con los repos de facturación ligados a
// una misma transacción. Cabecera, líneas, secuencia y auditoría se confirman
// o deshacen juntas.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, customer *entity.Customer, items []entity.InvoiceLineItem) ([]byte, error)
}

// ReminderNotifier envía el aviso de recordatorio al cliente. Best-effort:
// los fallos se registran, nunca deshacen la escalada.
type ReminderNotifier interface {
	ReminderRaised(ctx context.Context, inv *entity.Invoice, customer *entity.Customer) error
}
