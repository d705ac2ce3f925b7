package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kindredpm/repair-booking/internal/model"
)

// RepairRepo provides data access to the repairs table and to the
// per-date ticket sequence.  Repairs are never deleted; a cancelled
// repair stays on record with status 'cancelled'.
type RepairRepo struct {
	db *sql.DB
}

// NewRepairRepo returns a new RepairRepo bound to the given database.
func NewRepairRepo(db *sql.DB) *RepairRepo { return &RepairRepo{db: db} }

// NextTicketIDTx mints the next ticket id for a date within the given
// transaction.  The counter row is bumped with an atomic
// INSERT ... ON DUPLICATE KEY UPDATE using LAST_INSERT_ID(expr), so two
// concurrent callers can never read the same sequence number; the row
// lock also serializes issuance per date until the transaction ends.
func (r *RepairRepo) NextTicketIDTx(ctx context.Context, tx *sql.Tx, date string) (string, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ticket_sequences (date, seq) VALUES (?, LAST_INSERT_ID(1))
		 ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)`,
		date,
	); err != nil {
		return "", err
	}
	var seq int
	if err := tx.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&seq); err != nil {
		return "", err
	}
	return model.FormatTicketID(date, seq), nil
}

// CreateTx inserts a new repair row with status 'scheduled' within the
// given transaction.  ErrDuplicateTicket is returned when the ticket id
// already exists; with counter-based issuance this should not happen.
func (r *RepairRepo) CreateTx(ctx context.Context, tx *sql.Tx, rep *model.Repair) error {
	email := sql.NullString{String: rep.Email, Valid: rep.Email != ""}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO repairs (ticket_id, name, address, date, time_slot, issue_type, issue_description, email, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.TicketID, rep.Name, rep.Address, rep.Date, rep.TimeSlot,
		rep.IssueType, rep.IssueDescription, email, model.StatusScheduled,
	)
	if err != nil {
		if strings.Contains(err.Error(), "1062") { // mysql duplicate entry
			return ErrDuplicateTicket
		}
		return err
	}
	rep.Status = model.StatusScheduled
	return nil
}

// GetByTicketID returns the repair for a ticket id, or ErrTicketNotFound
// when no such ticket exists.
func (r *RepairRepo) GetByTicketID(ctx context.Context, ticketID string) (*model.Repair, error) {
	return scanRepair(r.db.QueryRowContext(ctx,
		`SELECT ticket_id, name, address, date, time_slot, issue_type, issue_description, email, status
		 FROM repairs WHERE ticket_id = ?`,
		ticketID,
	))
}

// getByTicketIDTx is GetByTicketID against an open transaction.
func (r *RepairRepo) getByTicketIDTx(ctx context.Context, tx *sql.Tx, ticketID string) (*model.Repair, error) {
	return scanRepair(tx.QueryRowContext(ctx,
		`SELECT ticket_id, name, address, date, time_slot, issue_type, issue_description, email, status
		 FROM repairs WHERE ticket_id = ?`,
		ticketID,
	))
}

// CancelTx flips a repair from scheduled to cancelled within the given
// transaction and returns the updated record.  The check-and-flip is a
// single conditional UPDATE, so concurrent cancels of the same ticket
// resolve to exactly one winner; the loser gets ErrAlreadyCancelled.
// ErrTicketNotFound is returned for unknown ids.
func (r *RepairRepo) CancelTx(ctx context.Context, tx *sql.Tx, ticketID string) (*model.Repair, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE repairs SET status = ? WHERE ticket_id = ? AND status = ?`,
		model.StatusCancelled, ticketID, model.StatusScheduled,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	rep, err := r.getByTicketIDTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err // ErrTicketNotFound for unknown ids
	}
	if n == 0 {
		// Row exists but was not flipped: it was already cancelled.
		return nil, ErrAlreadyCancelled
	}
	return rep, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRepair(row rowScanner) (*model.Repair, error) {
	var rep model.Repair
	var email sql.NullString
	err := row.Scan(
		&rep.TicketID, &rep.Name, &rep.Address, &rep.Date, &rep.TimeSlot,
		&rep.IssueType, &rep.IssueDescription, &email, &rep.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		rep.Email = email.String
	}
	return &rep, nil
}
