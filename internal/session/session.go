// Package session owns the authenticated identity. Views never reach for
// ambient globals; the current session is threaded into each view model's
// constructor and read-only from there.
package session

import (
	"errors"
	"time"
)

// ErrNoSession is returned when an operation needs an identity and none is
// established. Callers surface it locally; no network call is made.
var ErrNoSession = errors.New("no active session: log in first")

// Session is the authenticated identity for one account.
type Session struct {
	UserID     int64
	Name       string
	Email      string
	LoggedInAt time.Time
}

// Valid reports whether the session carries a usable identity.
func (s Session) Valid() bool {
	return s.Email != "" && s.UserID != 0
}

// Identity returns the account address, the identity every mail service
// call is scoped to.
func (s Session) Identity() string {
	return s.Email
}

// Provider supplies the current session to views. It is read-only from the
// consumer's perspective.
type Provider interface {
	Current() (Session, error)
}

// Static is a Provider that always returns the same session, used by the
// app once login/resume has completed and by tests.
type Static struct {
	Session Session
}

// Current returns the wrapped session, or ErrNoSession if it is not valid.
func (p Static) Current() (Session, error) {
	if !p.Session.Valid() {
		return Session{}, ErrNoSession
	}
	return p.Session, nil
}
