// Package queue defines the repair lifecycle events exchanged over the
// message broker, the best-effort publisher, and the background
// consumer that writes the audit log.
package queue

// repairQueueName is the durable queue carrying repair lifecycle events.
const repairQueueName = "repair.events"

// RepairEvent is published after a booking or cancellation commits.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type RepairEvent struct {
	Kind        string `json:"kind"` // scheduled | cancelled
	TicketID    string `json:"ticket_id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	IssueType   string `json:"issue_type"`
	EmailStatus string `json:"email_status"`
	OccurredAt  string `json:"occurred_at"` // RFC3339, UTC
}
