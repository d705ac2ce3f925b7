package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kindredpm/repair-booking/internal/model"
)

// slotWindowDays is the size of the rolling window of bookable days.
// Slots exist for offsets 1..slotWindowDays from "today"; same-day
// bookings are not offered.
const slotWindowDays = 7

// SlotRepo provides data access to the available_slots table.  Each row
// is one bookable (date, time_slot) unit.  Rows are seeded lazily,
// flipped between available and unavailable by claim/release, and never
// deleted.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// windowDates returns the ISO dates of the rolling booking window
// relative to today: the next slotWindowDays days, today excluded.
func windowDates(today time.Time) []string {
	dates := make([]string, 0, slotWindowDays)
	for offset := 1; offset <= slotWindowDays; offset++ {
		dates = append(dates, today.AddDate(0, 0, offset).Format("2006-01-02"))
	}
	return dates
}

// EnsureWindow seeds an available slot row for every (date, time_slot)
// pair in the rolling window.  INSERT IGNORE makes the seeding
// idempotent: pairs that already exist keep their availability flag,
// so re-seeding can never resurrect a booked slot.
func (r *SlotRepo) EnsureWindow(ctx context.Context, today time.Time) error {
	dates := windowDates(today)
	// One multi-row insert for the whole window (7 days x 6 slots).
	query := `INSERT IGNORE INTO available_slots (date, time_slot, is_available) VALUES `
	args := make([]interface{}, 0, len(dates)*len(model.TimeSlots)*2)
	rows := make([]string, 0, len(dates)*len(model.TimeSlots))
	for _, d := range dates {
		for _, slot := range model.TimeSlots {
			rows = append(rows, "(?, ?, 1)")
			args = append(args, d, slot)
		}
	}
	_, err := r.db.ExecContext(ctx, query+strings.Join(rows, ","), args...)
	return err
}

// ListAvailable returns the names of the slots still available on the
// given date, in catalogue order.  An empty slice (not an error) means
// the date has no open slots.
func (r *SlotRepo) ListAvailable(ctx context.Context, date string) ([]string, error) {
	// FIELD() pins the ordering to the fixed catalogue instead of the
	// collation of the slot names.
	query := `SELECT time_slot FROM available_slots
	          WHERE date = ? AND is_available = 1
	          ORDER BY FIELD(time_slot, ?, ?, ?, ?, ?, ?)`
	args := make([]interface{}, 0, 1+len(model.TimeSlots))
	args = append(args, date)
	for _, slot := range model.TimeSlots {
		args = append(args, slot)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]string, 0, len(model.TimeSlots))
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// ClaimTx atomically transitions a slot from available to unavailable
// within the given transaction.  The conditional UPDATE is the engine's
// single mutual-exclusion point: under concurrent claims for the same
// (date, time_slot) exactly one caller sees a non-zero row count.  It
// returns false without mutation when the slot is already booked or
// does not exist.
func (r *SlotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, date, timeSlot string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE available_slots SET is_available = 0
		 WHERE date = ? AND time_slot = ? AND is_available = 1`,
		date, timeSlot,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseTx sets a slot back to available within the given transaction.
// The update is unconditional and idempotent; releasing an already
// available slot is a no-op.  It does not verify that the slot is still
// held by the cancelling ticket (documented simplification).
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, date, timeSlot string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE available_slots SET is_available = 1 WHERE date = ? AND time_slot = ?`,
		date, timeSlot,
	)
	return err
}
