// Package notifier delivers booking confirmation and cancellation
// messages.  Delivery is best effort: a failed or unconfigured delivery
// is reported in the result but never fails the booking itself.
package notifier

import (
	"fmt"
	"log"

	"github.com/kindredpm/repair-booking/internal/model"
)

// Event kinds passed to a Gateway.
const (
	EventScheduled = "scheduled"
	EventCancelled = "cancelled"
)

// Delivery outcomes reported back to the caller as email_status.
const (
	StatusSent      = "sent"      // delivered to the mail server
	StatusSimulated = "simulated" // no credentials or delivery failed; content logged instead
	StatusSkipped   = "skipped"   // no recipient address on the ticket
)

// Gateway attempts to notify a recipient about a ticket event and
// reports the outcome.  Implementations must not return errors; any
// delivery failure is downgraded to StatusSimulated.
type Gateway interface {
	Notify(recipient string, rep *model.Repair, kind string) string
}

// subject builds the mail subject line for an event.
func subject(kind, ticketID string) string {
	switch kind {
	case EventCancelled:
		return fmt.Sprintf("[KindredPM] 수리 예약 취소 안내 (%s)", ticketID)
	default:
		return fmt.Sprintf("[KindredPM] 수리 예약 확인 (%s)", ticketID)
	}
}

// body builds the plain-text mail body for an event.
func body(kind string, rep *model.Repair) string {
	action := "접수되었습니다"
	if kind == EventCancelled {
		action = "취소되었습니다"
	}
	return fmt.Sprintf(
		"%s님, 수리 예약이 %s.\n\n"+
			"티켓 번호: %s\n"+
			"방문 일정: %s %s\n"+
			"문제 유형: %s\n"+
			"주소: %s\n",
		rep.Name, action, rep.TicketID, rep.Date, rep.TimeSlot,
		model.IssueLabel(rep.IssueType), rep.Address,
	)
}

// ConsoleGateway writes the notification to the process log instead of
// sending mail.  It is used when SMTP credentials are not configured
// and always reports StatusSimulated (or StatusSkipped without a
// recipient), matching the demo behaviour of the booking assistant.
type ConsoleGateway struct{}

// Notify implements Gateway.
func (ConsoleGateway) Notify(recipient string, rep *model.Repair, kind string) string {
	if recipient == "" {
		return StatusSkipped
	}
	log.Printf("notifier: simulated mail to %s: %s", recipient, subject(kind, rep.TicketID))
	return StatusSimulated
}
