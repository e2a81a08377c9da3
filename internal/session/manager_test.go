package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.SQLiteStore) {
	t.Helper()
	local, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return NewManager(nil, local), local
}

func TestResumeWithoutStoredSession(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Resume(context.Background(), "tester@example.com")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestResumeReturnsStoredSession(t *testing.T) {
	m, local := newTestManager(t)
	ctx := context.Background()

	loggedIn := time.Now().Truncate(time.Second)
	require.NoError(t, local.PutSession(ctx, store.SessionRow{
		UserID:     7,
		Name:       "Tester",
		Email:      "tester@example.com",
		LoggedInAt: loggedIn,
	}))

	sess, err := m.Resume(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, "Tester", sess.Name)
	assert.True(t, sess.Valid())
}

func TestLogoutDropsSession(t *testing.T) {
	m, local := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, local.PutSession(ctx, store.SessionRow{
		UserID: 7,
		Email:  "tester@example.com",
	}))

	require.NoError(t, m.Logout(ctx, "tester@example.com"))

	_, err := m.Resume(ctx, "tester@example.com")
	assert.ErrorIs(t, err, ErrNoSession)

	// A second logout is harmless.
	assert.NoError(t, m.Logout(ctx, "tester@example.com"))
}
