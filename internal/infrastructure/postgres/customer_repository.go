package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, first_name, last_name, company, email, phone, address, city, postal_code, source, notes, created_at, updated_at`

// Create persiste un nuevo cliente. El email es único (case-insensitive).
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		now := time.Now()
		c.CreatedAt, c.UpdatedAt = now, now
	}
	query := `
		INSERT INTO customers (id, first_name, last_name, company, email, phone, address, city, postal_code, source, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, nullIfEmpty(c.FirstName), nullIfEmpty(c.LastName), nullIfEmpty(c.Company),
		c.Email, nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.City),
		nullIfEmpty(c.PostalCode), c.Source, nullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomerRow(r.q.QueryRow(ctx, query, id))
}

// GetByEmail obtiene un cliente por email (case-insensitive).
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1)`
	return scanCustomerRow(r.q.QueryRow(ctx, query, email))
}

// List lista clientes con búsqueda opcional sobre nombre, empresa y email.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if search != "" {
		query += ` WHERE first_name ILIKE '%' || $1 || '%'
			OR last_name ILIKE '%' || $1 || '%'
			OR company ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += fmt.Sprintf(` ORDER BY last_name NULLS LAST, company LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	c.UpdatedAt = time.Now()
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, company = $4, email = $5, phone = $6,
		    address = $7, city = $8, postal_code = $9, source = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, nullIfEmpty(c.FirstName), nullIfEmpty(c.LastName), nullIfEmpty(c.Company),
		c.Email, nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.City),
		nullIfEmpty(c.PostalCode), c.Source, nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomerRow(row pgx.Row) (*entity.Customer, error) {
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var first, last, company, phone, address, city, pc, notes *string
	err := row.Scan(
		&c.ID, &first, &last, &company, &c.Email, &phone, &address, &city, &pc,
		&c.Source, &notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&c.FirstName, first)
	assign(&c.LastName, last)
	assign(&c.Company, company)
	assign(&c.Phone, phone)
	assign(&c.Address, address)
	assign(&c.City, city)
	assign(&c.PostalCode, pc)
	assign(&c.Notes, notes)
	return &c, nil
}
