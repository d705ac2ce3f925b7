package database

import (
	"context"
	"database/sql"
)

// schema holds the idempotent DDL for the booking engine.  The service
// bootstraps its own tables on startup so a fresh database works without
// a separate migration step.  Existing rows are never touched.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS available_slots (
		date         CHAR(10)    NOT NULL,
		time_slot    VARCHAR(32) NOT NULL,
		is_available TINYINT(1)  NOT NULL DEFAULT 1,
		PRIMARY KEY (date, time_slot)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS repairs (
		ticket_id         VARCHAR(32)  NOT NULL,
		name              VARCHAR(100) NOT NULL,
		address           VARCHAR(255) NOT NULL,
		date              CHAR(10)     NOT NULL,
		time_slot         VARCHAR(32)  NOT NULL,
		issue_type        VARCHAR(32)  NOT NULL,
		issue_description TEXT         NOT NULL,
		email             VARCHAR(255) NULL,
		status            VARCHAR(16)  NOT NULL DEFAULT 'scheduled',
		PRIMARY KEY (ticket_id),
		KEY idx_repairs_date (date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// Per-date counter behind ticket id issuance.  The row for a date is
	// bumped with an atomic conditional update so two concurrent bookings
	// can never mint the same sequence number.
	`CREATE TABLE IF NOT EXISTS ticket_sequences (
		date CHAR(10)     NOT NULL,
		seq  INT UNSIGNED NOT NULL,
		PRIMARY KEY (date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitSchema creates the booking tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
