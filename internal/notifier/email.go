package notifier

import (
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/kindredpm/repair-booking/internal/model"
)

// EmailGateway delivers notifications over SMTP.  A zero-value or
// partially configured gateway degrades to simulated delivery so the
// engine keeps working without mail credentials.
type EmailGateway struct {
	Host string
	Port int
	User string
	Pass string
	From string // sender address; falls back to User when empty
}

// NewEmailGateway returns a Gateway for the given SMTP settings.  When
// host or user is empty it returns a ConsoleGateway instead, so callers
// never need to branch on configuration.
func NewEmailGateway(host string, port int, user, pass, from string) Gateway {
	if host == "" || user == "" {
		return ConsoleGateway{}
	}
	if from == "" {
		from = user
	}
	if port == 0 {
		port = 587
	}
	return &EmailGateway{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Notify implements Gateway.  SMTP errors are logged and reported as
// StatusSimulated; they never propagate to the booking flow.
func (g *EmailGateway) Notify(recipient string, rep *model.Repair, kind string) string {
	if recipient == "" {
		return StatusSkipped
	}

	m := gomail.NewMessage()
	m.SetHeader("From", g.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject(kind, rep.TicketID))
	m.SetBody("text/plain", body(kind, rep))

	d := gomail.NewDialer(g.Host, g.Port, g.User, g.Pass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("notifier: send to %s failed, falling back to simulated: %v", recipient, err)
		return StatusSimulated
	}
	return StatusSent
}
