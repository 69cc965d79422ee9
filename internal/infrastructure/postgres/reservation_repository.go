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

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository (usable con pool o tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, vehicle_id, assigned_vehicle_id, date, time_slot, pickup_date, return_date,
	customer_name, customer_email, customer_phone, customer_address, driver_license,
	km_package, insurance, extras, notes, payment_method, total_price, status, created_at, updated_at`

// Create persiste una reserva. Una violación del índice único de slots
// (carrera residual entre dos altas simultáneas) se devuelve como ErrConflict.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	now := time.Now()
	res.CreatedAt, res.UpdatedAt = now, now
	if res.Extras == nil {
		res.Extras = []string{}
	}
	query := `
		INSERT INTO reservations (id, vehicle_id, assigned_vehicle_id, date, time_slot, pickup_date, return_date,
			customer_name, customer_email, customer_phone, customer_address, driver_license,
			km_package, insurance, extras, notes, payment_method, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.VehicleID, nullIfEmpty(res.AssignedVehicleID),
		res.Date, nullIfEmpty(res.TimeSlot), res.PickupDate, res.ReturnDate,
		res.CustomerName, res.CustomerEmail, nullIfEmpty(res.CustomerPhone),
		nullIfEmpty(res.CustomerAddress), nullIfEmpty(res.DriverLicense),
		nullIfEmpty(res.KmPackage), nullIfEmpty(res.Insurance), res.Extras,
		nullIfEmpty(res.Notes), nullIfEmpty(res.PaymentMethod), res.TotalPrice,
		res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el slot acaba de ser reservado", domain.ErrConflict)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListOverlapping devuelve las reservas no canceladas del vehículo (como
// principal o como asignado) cuya ocupación toca [from, to], ambos inclusive.
// Las de slot cuentan por su fecha única; las de rango por pickup/return.
func (r *ReservationRepo) ListOverlapping(ctx context.Context, vehicleID string, from, to time.Time) ([]entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE (vehicle_id = $1 OR assigned_vehicle_id = $1)
		  AND status <> 'cancelled'
		  AND (
			(date IS NOT NULL AND date BETWEEN $2 AND $3)
			OR
			(pickup_date IS NOT NULL AND pickup_date <= $3 AND return_date >= $2)
		  )`
	rows, err := r.q.Query(ctx, query, vehicleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list overlapping reservations: %w", err)
	}
	defer rows.Close()

	var list []entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

// ListByVehicle lista reservas de un vehículo, más recientes primero.
func (r *ReservationRepo) ListByVehicle(ctx context.Context, vehicleID string, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations WHERE vehicle_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, vehicleID, limit, offset)
}

// List lista reservas, opcionalmente filtradas por estado.
func (r *ReservationRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Reservation, error) {
	if status != "" {
		query := `SELECT ` + reservationColumns + `
			FROM reservations WHERE status = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		return r.list(ctx, query, status, limit, offset)
	}
	query := `SELECT ` + reservationColumns + `
		FROM reservations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// UpdateStatus cambia solo el estado de la reserva.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE reservations SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update actualiza la reserva completa.
func (r *ReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	res.UpdatedAt = time.Now()
	query := `
		UPDATE reservations
		SET vehicle_id = $2, assigned_vehicle_id = $3, date = $4, time_slot = $5,
		    pickup_date = $6, return_date = $7, customer_name = $8, customer_email = $9,
		    customer_phone = $10, customer_address = $11, driver_license = $12,
		    km_package = $13, insurance = $14, extras = $15, notes = $16,
		    payment_method = $17, total_price = $18, status = $19, updated_at = $20
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		res.ID, res.VehicleID, nullIfEmpty(res.AssignedVehicleID),
		res.Date, nullIfEmpty(res.TimeSlot), res.PickupDate, res.ReturnDate,
		res.CustomerName, res.CustomerEmail, nullIfEmpty(res.CustomerPhone),
		nullIfEmpty(res.CustomerAddress), nullIfEmpty(res.DriverLicense),
		nullIfEmpty(res.KmPackage), nullIfEmpty(res.Insurance), res.Extras,
		nullIfEmpty(res.Notes), nullIfEmpty(res.PaymentMethod), res.TotalPrice,
		res.Status, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el slot acaba de ser reservado", domain.ErrConflict)
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var assigned, slot, phone, address, license, km, insurance, notes, payment *string
	err := row.Scan(
		&res.ID, &res.VehicleID, &assigned, &res.Date, &slot, &res.PickupDate, &res.ReturnDate,
		&res.CustomerName, &res.CustomerEmail, &phone, &address, &license,
		&km, &insurance, &res.Extras, &notes, &payment, &res.TotalPrice,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&res.AssignedVehicleID, assigned)
	assign(&res.TimeSlot, slot)
	assign(&res.CustomerPhone, phone)
	assign(&res.CustomerAddress, address)
	assign(&res.DriverLicense, license)
	assign(&res.KmPackage, km)
	assign(&res.Insurance, insurance)
	assign(&res.Notes, notes)
	assign(&res.PaymentMethod, payment)
	return &res, nil
}
