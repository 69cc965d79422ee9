package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/datalization1/roberts-lackwerk/internal/application/billing"
	"github.com/datalization1/roberts-lackwerk/internal/application/dto"
	"github.com/datalization1/roberts-lackwerk/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (staff).
type InvoiceHandler struct {
	invoiceUC *billing.InvoiceUseCase
	pdfUC     *billing.PDFUseCase
	sweepUC   *billing.ReminderSweepUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase, sweepUC *billing.ReminderSweepUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, pdfUC: pdfUC, sweepUC: sweepUC}
}

// Create crea una factura en borrador (sin número).
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.CreateDraft(c.Context(), in)
	if err != nil {
		return invoiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Finalize asigna número definitivo y pasa la factura a pending.
// POST /api/invoices/:id/finalize
func (h *InvoiceHandler) Finalize(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Finalize(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// List GET /api/invoices?status=pending&limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	list, err := h.invoiceUC.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// DownloadPDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// MarkPaid POST /api/invoices/:id/mark-paid
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.MarkPaid(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// RaiseReminder POST /api/invoices/:id/raise-reminder
func (h *InvoiceHandler) RaiseReminder(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.RaiseReminder(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	invoice, err := h.invoiceUC.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(invoice)
}

// Sweep ejecuta el barrido de recordatorios bajo demanda.
// POST /api/invoices/reminder-sweep
func (h *InvoiceHandler) Sweep(c *fiber.Ctx) error {
	out, err := h.sweepUC.Run(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// invoiceError mapea los sentinels de dominio a códigos HTTP.
func invoiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
