package repository

import (
	"context"
	"time"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para Reservation.
type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// ListOverlapping devuelve las reservas no canceladas de un vehículo cuya
	// ocupación toca el intervalo [from, to] (ambos inclusive). Las reservas
	// de medio día cuentan por su fecha única.
	ListOverlapping(ctx context.Context, vehicleID string, from, to time.Time) ([]entity.Reservation, error)
	ListByVehicle(ctx context.Context, vehicleID string, limit, offset int) ([]*entity.Reservation, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Update(ctx context.Context, res *entity.Reservation) error
}
