// Package notify envía los correos transaccionales del portal: confirmación de
// reserva y recordatorios de pago (Mahnungen).
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	appbilling "github.com/datalization1/roberts-lackwerk/internal/application/billing"
	appbooking "github.com/datalization1/roberts-lackwerk/internal/application/booking"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/pkg/config"
)

var (
	_ appbooking.Notifier         = (*Mailer)(nil)
	_ appbilling.ReminderNotifier = (*Mailer)(nil)
)

// Mailer envía correos vía SMTP. Si la configuración SMTP está incompleta el
// mailer queda deshabilitado y cada envío es un no-op; los casos de uso ya
// tratan las notificaciones como best-effort.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewMailer construye el mailer a partir de la configuración SMTP.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	if !cfg.Enabled() {
		return &Mailer{enabled: false}
	}
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.From,
		enabled: true,
	}
}

// ReservationConfirmed envía la confirmación de reserva al cliente.
func (m *Mailer) ReservationConfirmed(_ context.Context, res *entity.Reservation, vehicle *entity.Vehicle) error {
	if !m.enabled || res.CustomerEmail == "" {
		return nil
	}

	when := describeWindow(res)
	subject := fmt.Sprintf("Reservierungsbestätigung – %s", vehicle.Name)
	body := fmt.Sprintf(
		"<p>Guten Tag %s,</p>"+
			"<p>Ihre Reservierung ist bestätigt:</p>"+
			"<ul><li>Fahrzeug: %s</li><li>Zeitraum: %s</li><li>Preis: CHF %s</li></ul>"+
			"<p>Freundliche Grüsse<br>Roberts Lackwerk</p>",
		res.CustomerName, vehicle.Name, when, res.TotalPrice.StringFixed(2),
	)

	return m.send(res.CustomerEmail, subject, body)
}

// ReminderRaised envía el recordatorio de pago correspondiente a la Mahnstufe actual.
func (m *Mailer) ReminderRaised(_ context.Context, invoice *entity.Invoice, customer *entity.Customer) error {
	if !m.enabled || customer.Email == "" {
		return nil
	}

	due := "—"
	if invoice.DueDate != nil {
		due = invoice.DueDate.Format("02.01.2006")
	}
	subject := fmt.Sprintf("%d. Zahlungserinnerung – Rechnung %s", invoice.ReminderLevel, invoice.Number)
	body := fmt.Sprintf(
		"<p>Guten Tag %s,</p>"+
			"<p>die Rechnung <b>%s</b> über CHF %s war am %s fällig und ist noch offen "+
			"(Mahnstufe %d).</p>"+
			"<p>Bitte begleichen Sie den Betrag in den nächsten Tagen.</p>"+
			"<p>Freundliche Grüsse<br>Roberts Lackwerk</p>",
		customer.DisplayName(), invoice.Number, invoice.Total.StringFixed(2), due, invoice.ReminderLevel,
	)

	return m.send(customer.Email, subject, body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: enviar correo a %s: %w", to, err)
	}
	return nil
}

func describeWindow(res *entity.Reservation) string {
	if res.Date != nil {
		return fmt.Sprintf("%s (%s)", res.Date.Format("02.01.2006"), slotLabel(res.TimeSlot))
	}
	if res.PickupDate != nil && res.ReturnDate != nil {
		return fmt.Sprintf("%s – %s",
			res.PickupDate.Format("02.01.2006"), res.ReturnDate.Format("02.01.2006"))
	}
	return "—"
}

func slotLabel(slot string) string {
	switch slot {
	case entity.SlotMorning:
		return "Vormittag"
	case entity.SlotAfternoon:
		return "Nachmittag"
	case entity.SlotFullDay:
		return "Ganzer Tag"
	}
	return slot
}
