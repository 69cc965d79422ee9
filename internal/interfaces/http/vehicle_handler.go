package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/datalization1/roberts-lackwerk/internal/application/booking"
	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
)

// VehicleHandler maneja las peticiones HTTP de la flota (público).
type VehicleHandler struct {
	uc *booking.BookingUseCase
}

// NewVehicleHandler construye el handler.
func NewVehicleHandler(uc *booking.BookingUseCase) *VehicleHandler {
	return &VehicleHandler{uc: uc}
}

// List GET /api/vehicles?bookable=true
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	onlyBookable := c.QueryBool("bookable", false)
	list, err := h.uc.ListVehicles(c.Context(), onlyBookable)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID GET /api/vehicles/:id
func (h *VehicleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	vehicle, err := h.uc.GetVehicle(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vehículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(vehicle)
}
