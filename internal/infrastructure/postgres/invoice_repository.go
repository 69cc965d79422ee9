package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// El historial de eventos viaja como JSONB: solo se añade, la cabecera se
// reescribe entera en cada Update.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, customer_id, reservation_id, tax_mode, tax_rate, discount,
	subtotal, tax_amount, total, status, reminder_level, issue_date, due_date, payment_date,
	last_reminded_at, payment_method, notes, events, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now()
	inv.CreatedAt, inv.UpdatedAt = now, now
	events, err := marshalEvents(inv.Events)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, number, customer_id, reservation_id, tax_mode, tax_rate, discount,
			subtotal, tax_amount, total, status, reminder_level, issue_date, due_date, payment_date,
			last_reminded_at, payment_method, notes, events, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, nullIfEmpty(inv.Number), inv.CustomerID, nullIfEmpty(inv.ReservationID),
		inv.TaxMode, inv.TaxRate, inv.Discount, inv.Subtotal, inv.TaxAmount, inv.Total,
		inv.Status, inv.ReminderLevel, inv.IssueDate, inv.DueDate, inv.PaymentDate,
		inv.LastRemindedAt, nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.Notes),
		events, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLineItem persiste una línea de factura.
func (r *InvoiceRepo) CreateLineItem(ctx context.Context, item *entity.InvoiceLineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, position, description, quantity, unit_price, tax_rate, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Position, item.Description,
		item.Quantity, item.UnitPrice, item.TaxRate, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID, con su historial.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoiceRow(r.q.QueryRow(ctx, query, id))
}

// GetByNumber obtiene una factura por su número definitivo.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1`
	return scanInvoiceRow(r.q.QueryRow(ctx, query, number))
}

// GetLineItems devuelve las líneas de la factura en orden de posición.
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID string) ([]entity.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit_price, tax_rate, total
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice line items: %w", err)
	}
	defer rows.Close()

	var items []entity.InvoiceLineItem
	for rows.Next() {
		var it entity.InvoiceLineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice line item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List lista facturas, opcionalmente por estado, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.q.Query(ctx, query, status, limit, offset)
	} else {
		query := `SELECT ` + invoiceColumns + ` FROM invoices
			ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.q.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// ListDue devuelve las facturas pending/overdue con vencimiento anterior al
// día dado. Es la cola de entrada del barrido de recordatorios.
func (r *InvoiceRepo) ListDue(ctx context.Context, before time.Time) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status IN ('pending', 'overdue') AND due_date < $1
		ORDER BY due_date`
	rows, err := r.q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list due invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update reescribe cabecera, nivel de recordatorio y el historial completo.
// Las líneas no se tocan tras salir de draft.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	inv.UpdatedAt = time.Now()
	events, err := marshalEvents(inv.Events)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET number = $2, tax_mode = $3, tax_rate = $4, discount = $5, subtotal = $6,
		    tax_amount = $7, total = $8, status = $9, reminder_level = $10, issue_date = $11,
		    due_date = $12, payment_date = $13, last_reminded_at = $14, payment_method = $15,
		    notes = $16, events = $17, updated_at = $18
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, nullIfEmpty(inv.Number), inv.TaxMode, inv.TaxRate, inv.Discount,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.Status, inv.ReminderLevel,
		inv.IssueDate, inv.DueDate, inv.PaymentDate, inv.LastRemindedAt,
		nullIfEmpty(inv.PaymentMethod), nullIfEmpty(inv.Notes), events, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSequence incrementa atómicamente el contador del año y devuelve su nuevo
// valor. El upsert con RETURNING serializa finalizaciones concurrentes sin
// ventana de carrera.
func (r *InvoiceRepo) NextSequence(ctx context.Context, year int) (int, error) {
	var counter int
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_sequences (year, counter)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET counter = invoice_sequences.counter + 1
		RETURNING counter`, year).Scan(&counter)
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return counter, nil
}

func marshalEvents(events []entity.PaymentEvent) ([]byte, error) {
	if events == nil {
		events = []entity.PaymentEvent{}
	}
	b, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice events: %w", err)
	}
	return b, nil
}

func scanInvoiceRow(row pgx.Row) (*entity.Invoice, error) {
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var number, reservationID, paymentMethod, notes *string
	var events []byte
	err := row.Scan(
		&inv.ID, &number, &inv.CustomerID, &reservationID, &inv.TaxMode, &inv.TaxRate,
		&inv.Discount, &inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.Status,
		&inv.ReminderLevel, &inv.IssueDate, &inv.DueDate, &inv.PaymentDate,
		&inv.LastRemindedAt, &paymentMethod, &notes, &events, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	if number != nil {
		inv.Number = *number
	}
	if reservationID != nil {
		inv.ReservationID = *reservationID
	}
	if paymentMethod != nil {
		inv.PaymentMethod = *paymentMethod
	}
	if notes != nil {
		inv.Notes = *notes
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &inv.Events); err != nil {
			return nil, fmt.Errorf("unmarshal invoice events: %w", err)
		}
	}
	return &inv, nil
}
