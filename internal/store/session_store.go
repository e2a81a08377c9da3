package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRow is the persisted session record, one row per account email.
type SessionRow struct {
	Email      string    `db:"email"`
	UserID     int64     `db:"user_id"`
	Name       string    `db:"name"`
	LoggedInAt time.Time `db:"logged_in_at"`
}

// GetSession returns the stored session for email, or nil when none exists.
func (s *SQLiteStore) GetSession(ctx context.Context, email string) (*SessionRow, error) {
	var row SessionRow
	err := s.db.GetContext(
		ctx, &row,
		"SELECT email, user_id, name, logged_in_at FROM sessions WHERE email = ?",
		email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session for %s: %w", email, err)
	}
	return &row, nil
}

// PutSession inserts or replaces the session row for its email.
func (s *SQLiteStore) PutSession(ctx context.Context, row SessionRow) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO sessions (email, user_id, name, logged_in_at)
		 VALUES (?, ?, ?, ?)`,
		row.Email, row.UserID, row.Name, row.LoggedInAt,
	)
	if err != nil {
		return fmt.Errorf("storing session for %s: %w", row.Email, err)
	}
	return nil
}

// DeleteSession removes the stored session for email. Deleting a session
// that does not exist is not an error.
func (s *SQLiteStore) DeleteSession(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE email = ?", email)
	if err != nil {
		return fmt.Errorf("deleting session for %s: %w", email, err)
	}
	return nil
}
