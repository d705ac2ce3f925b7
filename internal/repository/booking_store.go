package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kindredpm/repair-booking/internal/model"
)

// BookingStore composes the slot and repair repositories into the two
// compound operations of the engine.  Each compound operation runs in a
// single transaction spanning both tables, so a failure partway never
// leaves slot availability and ticket status inconsistent.
type BookingStore struct {
	db      *sql.DB
	slots   *SlotRepo
	repairs *RepairRepo
}

// NewBookingStore returns a BookingStore over the given database.
func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{
		db:      db,
		slots:   NewSlotRepo(db),
		repairs: NewRepairRepo(db),
	}
}

// EnsureWindow seeds the rolling window of bookable slots.
func (s *BookingStore) EnsureWindow(ctx context.Context, today time.Time) error {
	return s.slots.EnsureWindow(ctx, today)
}

// AvailableSlots lists the open slot names for a date in catalogue order.
func (s *BookingStore) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	return s.slots.ListAvailable(ctx, date)
}

// RepairByTicket is a point lookup by ticket id.
func (s *BookingStore) RepairByTicket(ctx context.Context, ticketID string) (*model.Repair, error) {
	return s.repairs.GetByTicketID(ctx, ticketID)
}

// ScheduleRepair claims the requested slot, mints a ticket id and
// inserts the repair row, all in one transaction.  On a lost claim it
// returns ErrSlotUnavailable with nothing mutated.  Any failure after
// the claim rolls the whole transaction back, releasing the slot, so a
// failed booking can never strand an unavailable slot without a ticket.
// On success rep.TicketID and rep.Status are populated.
func (s *BookingStore) ScheduleRepair(ctx context.Context, rep *model.Repair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	claimed, err := s.slots.ClaimTx(ctx, tx, rep.Date, rep.TimeSlot)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrSlotUnavailable
	}

	ticketID, err := s.repairs.NextTicketIDTx(ctx, tx, rep.Date)
	if err != nil {
		return err
	}
	rep.TicketID = ticketID
	if err := s.repairs.CreateTx(ctx, tx, rep); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CancelRepair flips the repair to cancelled and releases its slot in
// one transaction.  The release is unconditional: if another ticket has
// re-booked the same slot since, it is released anyway (documented
// simplification).  Returns the updated repair, ErrTicketNotFound or
// ErrAlreadyCancelled.
func (s *BookingStore) CancelRepair(ctx context.Context, ticketID string) (*model.Repair, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rep, err := s.repairs.CancelTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.slots.ReleaseTx(ctx, tx, rep.Date, rep.TimeSlot); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return rep, nil
}
