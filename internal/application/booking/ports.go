package booking

import (
	"context"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

// BookingTxRunner ejecuta una función con repos ligados a una misma transacción.
// La comprobación de disponibilidad y el insert de la reserva deben ver el
// mismo snapshot; el runner bloquea además la fila del vehículo vía
// GetByIDForUpdate para serializar a los reservantes concurrentes.
type BookingTxRunner interface {
	RunBooking(ctx context.Context, fn func(
		vehicleRepo repository.VehicleRepository,
		resRepo repository.ReservationRepository,
	) error) error
}

// Notifier envía avisos por correo. Las implementaciones no deben bloquear el
// flujo principal por fallos de SMTP: registrar y continuar.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, res *entity.Reservation, vehicle *entity.Vehicle) error
}
