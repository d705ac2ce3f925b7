package model

import (
	"fmt"
	"strings"
)

// Repair statuses.  A repair is created as scheduled and may transition
// to cancelled exactly once; the transition is never reversed and rows
// are never deleted, so the table doubles as an audit trail.
const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
)

// IssueTypeLabels maps the supported issue type codes to the
// human-readable category labels used in notification text.
var IssueTypeLabels = map[string]string{
	"sink_leak":      "싱크대 누수",
	"toilet_clog":    "변기 막힘",
	"boiler_failure": "보일러 고장",
	"door_lock":      "도어록 고장",
	"mold":           "곰팡이/결로",
}

// ValidIssueType reports whether code is a supported issue type.
func ValidIssueType(code string) bool {
	_, ok := IssueTypeLabels[code]
	return ok
}

// IssueLabel returns the display label for an issue type code.  Unknown
// codes fall back to the code itself so notification text stays usable.
func IssueLabel(code string) string {
	if label, ok := IssueTypeLabels[code]; ok {
		return label
	}
	return code
}

// Repair is a single repair ticket.  TicketID is the primary key; Email
// is optional and empty when the customer did not leave an address.
type Repair struct {
	TicketID         string `json:"ticket_id"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	Date             string `json:"date"`
	TimeSlot         string `json:"time_slot"`
	IssueType        string `json:"issue_type"`
	IssueDescription string `json:"issue_description"`
	Email            string `json:"email"`
	Status           string `json:"status"`
}

// FormatTicketID builds the ticket identifier for the given ISO date and
// per-date sequence number: KPM-YYYYMMDD-NNN with the sequence zero-padded
// to three digits.  The first ticket of 2025-06-01 is KPM-20250601-001.
func FormatTicketID(date string, seq int) string {
	return fmt.Sprintf("KPM-%s-%03d", strings.ReplaceAll(date, "-", ""), seq)
}
