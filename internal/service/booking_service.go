// Package service implements the booking engine's orchestration layer:
// the compound schedule and cancel operations, availability reads over
// the rolling slot window, and the best-effort notification and event
// side effects that follow a committed booking.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kindredpm/repair-booking/internal/model"
	"github.com/kindredpm/repair-booking/internal/notifier"
	"github.com/kindredpm/repair-booking/internal/queue"
)

// User-visible messages.  The external orchestrator surfaces these
// verbatim, so they stay plain Korean with no internals exposed.
const (
	msgScheduled        = "수리 예약이 완료되었습니다. 티켓 번호: %s"
	msgCancelled        = "예약이 취소되었습니다. 티켓 번호: %s"
	msgNoSlots          = "해당 날짜에 예약 가능한 시간대가 없습니다."
	msgSlotConflict     = "선택하신 시간대는 이미 예약된 시간대입니다."
	msgTicketNotFound   = "해당 티켓을 찾을 수 없습니다"
	msgAlreadyCancelled = "이미 취소된 예약입니다"
)

// SlotConflictMessage is the user-visible text returned when a claim
// loses the slot.
func SlotConflictMessage() string { return msgSlotConflict }

// NoSlotsMessage is the user-visible text attached to an empty
// availability listing.
func NoSlotsMessage() string { return msgNoSlots }

// TicketNotFoundMessage is the user-visible text for unknown ticket ids.
func TicketNotFoundMessage() string { return msgTicketNotFound }

// AlreadyCancelledMessage is the user-visible text for a second cancel
// of the same ticket.
func AlreadyCancelledMessage() string { return msgAlreadyCancelled }

// Store is the persistence surface the service operates on.  It is
// implemented by repository.BookingStore; tests substitute an in-memory
// store with the same atomicity guarantees.
type Store interface {
	// EnsureWindow idempotently seeds the rolling window of bookable slots.
	EnsureWindow(ctx context.Context, today time.Time) error
	// AvailableSlots lists open slot names for a date in catalogue order.
	AvailableSlots(ctx context.Context, date string) ([]string, error)
	// ScheduleRepair atomically claims the slot, mints the ticket id and
	// inserts the repair.  Returns repository.ErrSlotUnavailable on a
	// lost claim with nothing mutated.
	ScheduleRepair(ctx context.Context, rep *model.Repair) error
	// RepairByTicket is a point lookup by ticket id.
	RepairByTicket(ctx context.Context, ticketID string) (*model.Repair, error)
	// CancelRepair atomically flips the repair to cancelled and releases
	// its slot.
	CancelRepair(ctx context.Context, ticketID string) (*model.Repair, error)
}

// ScheduleRequest carries the caller-supplied fields of a new booking.
// Validation of date format, time slot and issue type happens at the
// handler boundary before the request reaches the service.
type ScheduleRequest struct {
	Name             string
	Address          string
	Date             string
	TimeSlot         string
	IssueType        string
	IssueDescription string
	Email            string
}

// BookingResult is the outcome of a successful schedule or cancel: the
// full repair record, a human-readable confirmation message, and the
// notification delivery outcome.
type BookingResult struct {
	Repair      *model.Repair
	Message     string
	EmailStatus string
}

// Availability is the outcome of an availability read.  Message is only
// set when no slots are open.
type Availability struct {
	Date  string
	Slots []string
}

// BookingService composes the store with the notification gateway and
// event publishing.  All engine-level failures are returned as error
// values carrying the repository sentinels; nothing panics across this
// boundary.
type BookingService struct {
	store   Store
	gateway notifier.Gateway
	publish bool

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewBookingService returns a BookingService over the given store and
// notification gateway.  When publishEvents is false, committed
// bookings skip the broker (used in tests and broker-less deployments).
func NewBookingService(store Store, gateway notifier.Gateway, publishEvents bool) *BookingService {
	return &BookingService{store: store, gateway: gateway, publish: publishEvents, now: time.Now}
}

// CheckAvailability ensures the rolling window exists and returns the
// open slots for a date.  An empty listing is not an error.
func (s *BookingService) CheckAvailability(ctx context.Context, date string) (*Availability, error) {
	if err := s.store.EnsureWindow(ctx, s.now()); err != nil {
		return nil, err
	}
	slots, err := s.store.AvailableSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	return &Availability{Date: date, Slots: slots}, nil
}

// Schedule books a slot and creates the repair ticket.  On a slot
// conflict it fails fast with repository.ErrSlotUnavailable and no side
// effects.  Notification and event publishing happen only after the
// booking has committed and never affect its outcome.
func (s *BookingService) Schedule(ctx context.Context, req ScheduleRequest) (*BookingResult, error) {
	// Scheduling touches the window too: a date inside the rolling
	// window must be claimable even if nobody listed it first.
	if err := s.store.EnsureWindow(ctx, s.now()); err != nil {
		return nil, err
	}

	rep := &model.Repair{
		Name:             req.Name,
		Address:          req.Address,
		Date:             req.Date,
		TimeSlot:         req.TimeSlot,
		IssueType:        req.IssueType,
		IssueDescription: req.IssueDescription,
		Email:            req.Email,
	}
	if err := s.store.ScheduleRepair(ctx, rep); err != nil {
		return nil, err
	}

	emailStatus := s.gateway.Notify(rep.Email, rep, notifier.EventScheduled)
	s.publishEvent(ctx, notifier.EventScheduled, rep, emailStatus)

	return &BookingResult{
		Repair:      rep,
		Message:     fmt.Sprintf(msgScheduled, rep.TicketID),
		EmailStatus: emailStatus,
	}, nil
}

// CheckStatus returns the repair for a ticket id without mutation.
func (s *BookingService) CheckStatus(ctx context.Context, ticketID string) (*model.Repair, error) {
	return s.store.RepairByTicket(ctx, ticketID)
}

// Cancel flips a scheduled repair to cancelled and releases its slot,
// then attempts notification.  Errors: repository.ErrTicketNotFound,
// repository.ErrAlreadyCancelled.
func (s *BookingService) Cancel(ctx context.Context, ticketID string) (*BookingResult, error) {
	rep, err := s.store.CancelRepair(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	emailStatus := s.gateway.Notify(rep.Email, rep, notifier.EventCancelled)
	s.publishEvent(ctx, notifier.EventCancelled, rep, emailStatus)

	return &BookingResult{
		Repair:      rep,
		Message:     fmt.Sprintf(msgCancelled, rep.TicketID),
		EmailStatus: emailStatus,
	}, nil
}

// publishEvent sends a lifecycle event to the broker, best effort.  A
// publish failure is logged inside the publisher and ignored here.
func (s *BookingService) publishEvent(ctx context.Context, kind string, rep *model.Repair, emailStatus string) {
	if !s.publish {
		return
	}
	err := queue.PublishRepairEvent(ctx, queue.RepairEvent{
		Kind:        kind,
		TicketID:    rep.TicketID,
		Name:        rep.Name,
		Date:        rep.Date,
		TimeSlot:    rep.TimeSlot,
		IssueType:   rep.IssueType,
		EmailStatus: emailStatus,
		OccurredAt:  s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("booking: event publish skipped for %s", rep.TicketID)
	}
}
