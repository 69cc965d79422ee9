package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/datalization1/roberts-lackwerk/internal/application/billing"
	"github.com/datalization1/roberts-lackwerk/internal/application/booking"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BookingUC  *booking.BookingUseCase
	CustomerUC *billing.CustomerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	PDFUC      *billing.PDFUseCase
	SweepUC    *billing.ReminderSweepUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Flota (público: el widget de reservas la consulta sin sesión)
	vehicles := api.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.BookingUC)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)

	// Reservas: disponibilidad, presupuesto y alta son públicos
	bookings := api.Group("/bookings")
	bookingHandler := NewBookingHandler(deps.BookingUC)
	bookings.Get("/availability", bookingHandler.Availability)
	bookings.Get("/quote", bookingHandler.Quote)
	bookings.Post("/", bookingHandler.Create)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, deps.SweepUC)

	// La descarga del PDF la puede hacer cualquier rol autenticado del taller.
	api.Get("/invoices/:id/pdf",
		AuthMiddleware(deps.JWTSecret), RequireRole("admin", "manager", "staff"),
		invoiceHandler.DownloadPDF)

	// Rutas de staff (requieren Bearer Token con rol admin o manager)
	staff := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin", "manager"))

	staffBookings := staff.Group("/bookings")
	staffBookings.Get("/", bookingHandler.List)
	staffBookings.Patch("/:id/status", bookingHandler.UpdateStatus)

	customers := staff.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	invoices := staff.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/reminder-sweep", invoiceHandler.Sweep)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/finalize", invoiceHandler.Finalize)
	invoices.Post("/:id/mark-paid", invoiceHandler.MarkPaid)
	invoices.Post("/:id/raise-reminder", invoiceHandler.RaiseReminder)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
}
