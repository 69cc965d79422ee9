package repository

import (
	"context"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para Vehicle.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	// GetByIDForUpdate bloquea la fila del vehículo dentro de la transacción
	// actual. Serializa las reservas concurrentes sobre el mismo vehículo.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Vehicle, error)
	List(ctx context.Context, onlyBookable bool) ([]*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	Delete(ctx context.Context, id string) error
}
