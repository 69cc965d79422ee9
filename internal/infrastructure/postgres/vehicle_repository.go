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

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación de VehicleRepository (usable con pool o tx).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, name, license_plate, type, color, daily_rate, half_day_rate, status, available_from, description, created_at, updated_at`

// Create persiste un vehículo nuevo.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	query := `
		INSERT INTO vehicles (id, name, license_plate, type, color, daily_rate, half_day_rate, status, available_from, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Name, nullIfEmpty(v.LicensePlate), v.Type, nullIfEmpty(v.Color),
		v.DailyRate, v.HalfDayRate, v.Status, v.AvailableFrom, nullIfEmpty(v.Description),
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate obtiene el vehículo bloqueando su fila hasta el fin de la
// transacción. Solo tiene sentido dentro de un TxRunner.
func (r *VehicleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// List lista la flota; con onlyBookable solo los vehículos operativos.
func (r *VehicleRepo) List(ctx context.Context, onlyBookable bool) ([]*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if onlyBookable {
		query += ` WHERE status = 'available'`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza los datos del vehículo.
func (r *VehicleRepo) Update(ctx context.Context, v *entity.Vehicle) error {
	v.UpdatedAt = time.Now()
	query := `
		UPDATE vehicles
		SET name = $2, license_plate = $3, type = $4, color = $5, daily_rate = $6,
		    half_day_rate = $7, status = $8, available_from = $9, description = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.Name, nullIfEmpty(v.LicensePlate), v.Type, nullIfEmpty(v.Color),
		v.DailyRate, v.HalfDayRate, v.Status, v.AvailableFrom, nullIfEmpty(v.Description), v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un vehículo.
func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *VehicleRepo) scanOne(row pgx.Row) (*entity.Vehicle, error) {
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func scanVehicle(row pgx.Row) (*entity.Vehicle, error) {
	var (
		v                         entity.Vehicle
		plate, color, description *string
	)
	err := row.Scan(
		&v.ID, &v.Name, &plate, &v.Type, &color, &v.DailyRate, &v.HalfDayRate,
		&v.Status, &v.AvailableFrom, &description, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	if plate != nil {
		v.LicensePlate = *plate
	}
	if color != nil {
		v.Color = *color
	}
	if description != nil {
		v.Description = *description
	}
	return &v, nil
}
