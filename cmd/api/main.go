package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appbilling "github.com/datalization1/roberts-lackwerk/internal/application/billing"
	appbooking "github.com/datalization1/roberts-lackwerk/internal/application/booking"
	infranotify "github.com/datalization1/roberts-lackwerk/internal/infrastructure/notify"
	infrapdf "github.com/datalization1/roberts-lackwerk/internal/infrastructure/pdf"
	"github.com/datalization1/roberts-lackwerk/internal/infrastructure/postgres"
	httpRouter "github.com/datalization1/roberts-lackwerk/internal/interfaces/http"
	"github.com/datalization1/roberts-lackwerk/pkg/config"
	"github.com/datalization1/roberts-lackwerk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	vehicleRepo := postgres.NewVehicleRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mailer := infranotify.NewMailer(cfg.SMTP)

	bookingUC := appbooking.NewBookingUseCase(txRunner, vehicleRepo, reservationRepo, auditRepo, mailer)
	customerUC := appbilling.NewCustomerUseCase(customerRepo)
	invoiceUC := appbilling.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo, mailer)
	sweepUC := appbilling.NewReminderSweepUseCase(txRunner, invoiceRepo, customerRepo, mailer)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.CompanyInfo{
		Name:    "Roberts Lackwerk GmbH",
		Address: "Industriestrasse 12, 4600 Olten",
		Phone:   "+41 62 000 00 00",
		Email:   "portal@roberts-lackwerk.ch",
	})
	pdfUC := appbilling.NewPDFUseCase(invoiceRepo, customerRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Lackwerk Portal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BookingUC:  bookingUC,
		CustomerUC: customerUC,
		InvoiceUC:  invoiceUC,
		PDFUC:      pdfUC,
		SweepUC:    sweepUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
