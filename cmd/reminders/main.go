// Barrido nocturno de recordatorios. Pensado para cron:
//
//	15 6 * * *  /usr/local/bin/reminders
//
// El barrido es idempotente; ejecutarlo varias veces el mismo día no duplica
// recordatorios ni correos.
package main

import (
	"context"
	"time"

	appbilling "github.com/datalization1/roberts-lackwerk/internal/application/billing"
	infranotify "github.com/datalization1/roberts-lackwerk/internal/infrastructure/notify"
	"github.com/datalization1/roberts-lackwerk/internal/infrastructure/postgres"
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	mailer := infranotify.NewMailer(cfg.SMTP)

	sweepUC := appbilling.NewReminderSweepUseCase(txRunner, invoiceRepo, customerRepo, mailer)

	out, err := sweepUC.Run(ctx, "cron")
	if err != nil {
		log.Fatal().Err(err).Msg("barrido de recordatorios")
	}

	log.Info().
		Int("scanned", out.Scanned).
		Int("marked_overdue", out.MarkedOverdue).
		Int("reminded", out.Reminded).
		Msg("barrido completado")
}
