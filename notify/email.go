package notify

import (
	"context"
	"fmt"
	"time"

	"staybook/booking"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

// Mailer emails the reservations inbox about each new booking.
type Mailer struct {
	from, to string
	loc      *time.Location
	send     func(m ...*gomail.Message) error
}

func NewMailer(cfg MailConfig, loc *time.Location) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Mailer{from: cfg.From, to: cfg.To, loc: loc, send: d.DialAndSend}
}

func (m *Mailer) BookingCreated(ctx context.Context, b booking.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(m.Compose(b)); err != nil {
		return fmt.Errorf("send booking mail: %w", err)
	}
	return nil
}

// Compose builds the notification message for a booking.
func (m *Mailer) Compose(b booking.Booking) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("New booking: %s at %s", b.Name, b.Location))

	day := func(t time.Time) string { return t.In(m.loc).Format("02 Jan 2006") }
	msg.SetBody("text/plain", fmt.Sprintf(
		"Booking %s\n\nGuest: %s\nPhone: %s\nLocation: %s\nCheck-in: %s\nCheck-out: %s\n"+
			"Adults: %d\nChildren: %d\nRooms: %d\nNights: %d\nTotal: %.2f\n",
		b.ID, b.Name, b.Phone, b.Location, day(b.CheckIn), day(b.CheckOut),
		b.Adults, b.Children, b.Rooms, b.Nights, b.TotalAmount,
	))
	return msg
}
