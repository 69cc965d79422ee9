package repository

import (
	"context"
	"time"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLineItem(ctx context.Context, item *entity.InvoiceLineItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetLineItems(ctx context.Context, invoiceID string) ([]entity.InvoiceLineItem, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error)
	// ListDue devuelve las facturas pending u overdue con vencimiento anterior
	// al día indicado. Es la cola de entrada del barrido de recordatorios.
	ListDue(ctx context.Context, before time.Time) ([]*entity.Invoice, error)
	// Update persiste cabecera, nivel de recordatorio y el historial de
	// eventos completo. Las líneas no se tocan tras salir de draft.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// NextSequence incrementa atómicamente el contador del año dado y
	// devuelve su nuevo valor. El contador arranca en 1 por año natural.
	NextSequence(ctx context.Context, year int) (int, error)
}
