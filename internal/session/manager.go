package session

import (
	"context"
	"fmt"
	"time"

	"github.com/MohamedEliwa204/mail/internal/credential"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/store"
)

// Authenticator is the subset of the remote store the manager needs.
type Authenticator interface {
	Login(ctx context.Context, form remote.UserForm) (*remote.Account, error)
	Register(ctx context.Context, form remote.UserForm) (*remote.Account, error)
}

// Manager establishes the session at startup: resume the persisted session
// row if one exists, otherwise log in with the configured email and the
// keyring-stored password and persist the result for the next run.
type Manager struct {
	auth  Authenticator
	local *store.SQLiteStore
}

// NewManager creates a session manager.
func NewManager(auth Authenticator, local *store.SQLiteStore) *Manager {
	return &Manager{auth: auth, local: local}
}

// Resume returns the persisted session for email, or ErrNoSession when none
// is stored.
func (m *Manager) Resume(ctx context.Context, email string) (Session, error) {
	row, err := m.local.GetSession(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("resuming session: %w", err)
	}
	if row == nil {
		return Session{}, ErrNoSession
	}
	return Session{
		UserID:     row.UserID,
		Name:       row.Name,
		Email:      row.Email,
		LoggedInAt: row.LoggedInAt,
	}, nil
}

// Login authenticates against the mail service using the keyring-stored
// password and persists the session row for resume.
func (m *Manager) Login(ctx context.Context, email string) (Session, error) {
	if email == "" {
		return Session{}, ErrNoSession
	}

	password, err := credential.Get(email)
	if err != nil {
		return Session{}, fmt.Errorf("no stored password for %s: %w", email, err)
	}

	account, err := m.auth.Login(ctx, remote.UserForm{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		UserID:     account.ID,
		Name:       account.Name,
		Email:      account.Email,
		LoggedInAt: time.Now(),
	}

	if err := m.local.PutSession(ctx, store.SessionRow{
		UserID:     sess.UserID,
		Name:       sess.Name,
		Email:      sess.Email,
		LoggedInAt: sess.LoggedInAt,
	}); err != nil {
		return Session{}, fmt.Errorf("persisting session: %w", err)
	}

	return sess, nil
}

// ResumeOrLogin tries a persisted session first and falls back to a fresh
// login.
func (m *Manager) ResumeOrLogin(ctx context.Context, email string) (Session, error) {
	sess, err := m.Resume(ctx, email)
	if err == nil && sess.Valid() {
		return sess, nil
	}
	return m.Login(ctx, email)
}

// Logout drops the persisted session row. The keyring password is kept so
// the next login does not have to re-prompt.
func (m *Manager) Logout(ctx context.Context, email string) error {
	if err := m.local.DeleteSession(ctx, email); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
