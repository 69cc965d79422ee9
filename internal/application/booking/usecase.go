package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/booking"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// BookingUseCase orquesta disponibilidad, presupuesto y alta de reservas.
type BookingUseCase struct {
	txRunner    BookingTxRunner
	vehicleRepo repository.VehicleRepository
	resRepo     repository.ReservationRepository
	auditRepo   repository.AuditRepository
	notifier    Notifier
}

// NewBookingUseCase construye el caso de uso.
func NewBookingUseCase(
	txRunner BookingTxRunner,
	vehicleRepo repository.VehicleRepository,
	resRepo repository.ReservationRepository,
	auditRepo repository.AuditRepository,
	notifier Notifier,
) *BookingUseCase {
	return &BookingUseCase{
		txRunner:    txRunner,
		vehicleRepo: vehicleRepo,
		resRepo:     resRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
	}
}

// parseWindow interpreta los campos de ventana de un request. Exactamente una
// de las dos formas (slot o rango) debe venir informada.
func parseWindow(date, slot, pickup, ret string) (booking.Window, error) {
	var win booking.Window
	switch {
	case date != "" && pickup == "" && ret == "":
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return win, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, date)
		}
		win = booking.SlotWindow(d, slot)
	case date == "" && slot == "" && pickup != "" && ret != "":
		p, err := time.Parse(dateLayout, pickup)
		if err != nil {
			return win, fmt.Errorf("%w: fecha de recogida inválida %q", domain.ErrInvalidInput, pickup)
		}
		r, err := time.Parse(dateLayout, ret)
		if err != nil {
			return win, fmt.Errorf("%w: fecha de devolución inválida %q", domain.ErrInvalidInput, ret)
		}
		win = booking.RangeWindow(p, r)
	default:
		return win, fmt.Errorf("%w: indicar date+time_slot o pickup_date+return_date", domain.ErrInvalidInput)
	}
	return win, win.Validate()
}

// CheckAvailability comprueba si la ventana pedida está libre para el vehículo.
// Camino de solo lectura: el resultado es informativo y puede quedar obsoleto;
// la garantía real la da la transacción de CreateReservation.
func (uc *BookingUseCase) CheckAvailability(ctx context.Context, in dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if in.VehicleID == "" {
		return nil, fmt.Errorf("%w: vehicle_id requerido", domain.ErrInvalidInput)
	}
	win, err := parseWindow(in.Date, in.TimeSlot, in.PickupDate, in.ReturnDate)
	if err != nil {
		return nil, err
	}
	if _, err := uc.vehicleRepo.GetByID(ctx, in.VehicleID); err != nil {
		return nil, err
	}

	free, err := uc.vehicleIsFree(ctx, uc.resRepo, in.VehicleID, win, in.ExcludeID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{Available: free, VehicleID: in.VehicleID}, nil
}

// Quote calcula el precio total de la ventana con el paquete contratado,
// sin tocar disponibilidad.
func (uc *BookingUseCase) Quote(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	if in.VehicleID == "" {
		return nil, fmt.Errorf("%w: vehicle_id requerido", domain.ErrInvalidInput)
	}
	win, err := parseWindow(in.Date, in.TimeSlot, in.PickupDate, in.ReturnDate)
	if err != nil {
		return nil, err
	}
	vehicle, err := uc.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}

	opts := booking.PackageOptions{KmPackage: in.KmPackage, Insurance: in.Insurance, Extras: in.Extras}
	total, err := booking.Price(vehicle, win, opts)
	if err != nil {
		return nil, err
	}
	return &dto.QuoteResponse{
		VehicleID:  in.VehicleID,
		Days:       win.Days(),
		TotalPrice: total,
		Currency:   "CHF",
	}, nil
}

// CreateReservation valida, comprueba disponibilidad y persiste la reserva en
// una sola transacción con la fila del vehículo bloqueada. Dos peticiones
// simultáneas sobre la misma ventana se serializan: la segunda ve la reserva
// de la primera y recibe ErrConflict sin dejar rastro.
func (uc *BookingUseCase) CreateReservation(ctx context.Context, in dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if in.VehicleID == "" {
		return nil, fmt.Errorf("%w: vehicle_id requerido", domain.ErrInvalidInput)
	}
	name := strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
	if name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: nombre y email del cliente requeridos", domain.ErrInvalidInput)
	}
	win, err := parseWindow(in.Date, in.TimeSlot, in.PickupDate, in.ReturnDate)
	if err != nil {
		return nil, err
	}
	opts := booking.PackageOptions{KmPackage: in.KmPackage, Insurance: in.Insurance, Extras: in.Extras}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if in.PaymentMethod != "" && in.PaymentMethod != entity.PaymentMethodCard && in.PaymentMethod != entity.PaymentMethodCash {
		return nil, fmt.Errorf("%w: método de pago desconocido %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	var (
		created *entity.Reservation
		vehicle *entity.Vehicle
	)
	err = uc.txRunner.RunBooking(ctx, func(
		vehicleRepo repository.VehicleRepository,
		resRepo repository.ReservationRepository,
	) error {
		v, err := vehicleRepo.GetByIDForUpdate(ctx, in.VehicleID)
		if err != nil {
			return err
		}
		if !v.Bookable() {
			return fmt.Errorf("%w: el vehículo no está operativo", domain.ErrConflict)
		}
		vehicle = v

		free, err := uc.vehicleIsFree(ctx, resRepo, in.VehicleID, win, "")
		if err != nil {
			return err
		}
		if !free {
			return domain.ErrConflict
		}

		total, err := booking.Price(v, win, opts)
		if err != nil {
			return err
		}

		res := &entity.Reservation{
			VehicleID:       in.VehicleID,
			CustomerName:    name,
			CustomerEmail:   in.Email,
			CustomerPhone:   in.Phone,
			CustomerAddress: in.Address,
			DriverLicense:   in.DriverLicense,
			KmPackage:       in.KmPackage,
			Insurance:       in.Insurance,
			Extras:          in.Extras,
			Notes:           in.Notes,
			PaymentMethod:   in.PaymentMethod,
			TotalPrice:      total,
			Status:          entity.ReservationStatusConfirmed,
		}
		if win.IsSlot() {
			d := *win.Date
			res.Date = &d
			res.TimeSlot = win.Slot
		} else {
			p, r := *win.Pickup, *win.Return
			res.PickupDate = &p
			res.ReturnDate = &r
		}
		// El índice único parcial de slots convierte la carrera residual en
		// ErrConflict dentro del repo.
		if err := resRepo.Create(ctx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.ReservationConfirmed(ctx, created, vehicle); err != nil {
			log.Warn().Err(err).Str("reservation_id", created.ID).Msg("aviso de confirmación no enviado")
		}
	}
	return toReservationResponse(created), nil
}

// UpdateStatus cambia el estado de una reserva (operación de personal).
func (uc *BookingUseCase) UpdateStatus(ctx context.Context, id, actor, status string) error {
	switch status {
	case entity.ReservationStatusPending, entity.ReservationStatusConfirmed,
		entity.ReservationStatusActive, entity.ReservationStatusCompleted,
		entity.ReservationStatusCancelled:
	default:
		return fmt.Errorf("%w: estado de reserva desconocido %q", domain.ErrInvalidInput, status)
	}
	current, err := uc.resRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	previous := current.Status
	if err := uc.resRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	entry := &entity.AuditEntry{
		Actor:    actor,
		Action:   entity.AuditReservationState,
		ObjectID: id,
		Metadata: map[string]string{"from": previous, "to": status},
	}
	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("reservation_id", id).Msg("no se pudo registrar la auditoría del cambio de estado")
	}
	return nil
}

// List devuelve reservas filtradas por estado (operación de personal).
func (uc *BookingUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.ReservationResponse, error) {
	page.DefaultPage()
	items, err := uc.resRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReservationResponse, 0, len(items))
	for _, r := range items {
		out = append(out, *toReservationResponse(r))
	}
	return out, nil
}

// vehicleIsFree carga la ocupación relevante y evalúa el predicado de dominio.
// Comprueba el vehículo pedido y, cuando las reservas existentes llevan un
// segundo vehículo asignado, ese también cuenta (lo resuelve ListOverlapping).
func (uc *BookingUseCase) vehicleIsFree(ctx context.Context, resRepo repository.ReservationRepository, vehicleID string, win booking.Window, excludeID string) (bool, error) {
	var from, to time.Time
	if win.IsSlot() {
		from, to = *win.Date, *win.Date
	} else {
		from, to = *win.Pickup, *win.Return
	}
	existing, err := resRepo.ListOverlapping(ctx, vehicleID, from, to)
	if err != nil {
		return false, err
	}
	return booking.IsAvailable(win, excludeID, existing), nil
}

func toReservationResponse(r *entity.Reservation) *dto.ReservationResponse {
	out := &dto.ReservationResponse{
		ID:            r.ID,
		VehicleID:     r.VehicleID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		KmPackage:     r.KmPackage,
		Insurance:     r.Insurance,
		Extras:        r.Extras,
		PaymentMethod: r.PaymentMethod,
		TotalPrice:    r.TotalPrice,
		Status:        r.Status,
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	if r.Date != nil {
		out.Date = r.Date.Format(dateLayout)
		out.TimeSlot = r.TimeSlot
	}
	if r.PickupDate != nil {
		out.PickupDate = r.PickupDate.Format(dateLayout)
	}
	if r.ReturnDate != nil {
		out.ReturnDate = r.ReturnDate.Format(dateLayout)
	}
	return out
}

// ListVehicles devuelve la flota; con onlyBookable solo los vehículos operativos.
func (uc *BookingUseCase) ListVehicles(ctx context.Context, onlyBookable bool) ([]dto.VehicleResponse, error) {
	items, err := uc.vehicleRepo.List(ctx, onlyBookable)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(items))
	for _, v := range items {
		out = append(out, *toVehicleResponse(v))
	}
	return out, nil
}

// GetVehicle devuelve un vehículo por ID.
func (uc *BookingUseCase) GetVehicle(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	v, err := uc.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:           v.ID,
		Name:         v.Name,
		LicensePlate: v.LicensePlate,
		Type:         v.Type,
		Color:        v.Color,
		DailyRate:    v.DailyRate,
		HalfDayRate:  v.HalfDayRate,
		Status:       v.Status,
		Description:  v.Description,
	}
}
