package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/datalization1/roberts-lackwerk/internal/application/booking"
	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
)

// BookingHandler maneja las peticiones HTTP de reservas. Disponibilidad,
// presupuesto y alta son públicos; listado y cambio de estado son de staff.
type BookingHandler struct {
	uc *booking.BookingUseCase
}

// NewBookingHandler construye el handler.
func NewBookingHandler(uc *booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{uc: uc}
}

// Availability GET /api/bookings/availability?vehicle_id=...&date=...&time_slot=...
// La respuesta es informativa: la reserva definitiva puede fallar igualmente
// con 409 si otro cliente gana la carrera.
func (h *BookingHandler) Availability(c *fiber.Ctx) error {
	var in dto.AvailabilityRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.uc.CheckAvailability(c.Context(), in)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(out)
}

// Quote GET /api/bookings/quote
func (h *BookingHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Quote(c.Context(), in)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateReservation(c.Context(), in)
	if err != nil {
		return bookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/bookings?status=confirmed (staff)
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// UpdateStatus PATCH /api/bookings/:id/status (staff)
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdateReservationStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateStatus(c.Context(), id, GetUserID(c), in.Status); err != nil {
		return bookingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// bookingError mapea los sentinels de dominio a códigos HTTP.
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el vehículo no está disponible en la ventana pedida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
