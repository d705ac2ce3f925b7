// Package repository implements the persistence layer of the booking
// engine on top of MySQL.  Sentinel errors defined here let higher
// layers branch on failure kinds with errors.Is instead of inspecting
// driver errors or strings.
package repository

import "errors"

// ErrSlotUnavailable is returned when a claim finds the slot already
// booked, or when the (date, time_slot) pair does not exist.  Handlers
// should translate this into an HTTP 409 response.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrTicketNotFound is returned when no repair exists for a ticket id.
// Handlers should translate this into an HTTP 404 response.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrAlreadyCancelled is returned when a cancel targets a repair whose
// status is already cancelled.  The transition is one-way, so this is
// terminal for the call.  Handlers should translate this into 409.
var ErrAlreadyCancelled = errors.New("already cancelled")

// ErrDuplicateTicket is returned when an insert collides with an
// existing ticket id.  With counter-based issuance this indicates a
// ticket id that was minted outside the normal flow.
var ErrDuplicateTicket = errors.New("duplicate ticket id")
