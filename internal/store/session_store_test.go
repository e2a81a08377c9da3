package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	row := SessionRow{
		Email:      "user@example.com",
		UserID:     7,
		Name:       "Test User",
		LoggedInAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.PutSession(ctx, row))

	got, err := s.GetSession(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, row.Email, got.Email)
	assert.Equal(t, row.UserID, got.UserID)
	assert.Equal(t, row.Name, got.Name)
	assert.True(t, row.LoggedInAt.Equal(got.LoggedInAt))
}

func TestGetSessionMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSession(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutSessionReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutSession(ctx, SessionRow{Email: "user@example.com", UserID: 7, Name: "Old"}))
	require.NoError(t, s.PutSession(ctx, SessionRow{Email: "user@example.com", UserID: 7, Name: "New"}))

	got, err := s.GetSession(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Name)
}

func TestDeleteSessionIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutSession(ctx, SessionRow{Email: "user@example.com", UserID: 7}))
	require.NoError(t, s.DeleteSession(ctx, "user@example.com"))

	got, err := s.GetSession(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is not an error.
	require.NoError(t, s.DeleteSession(ctx, "user@example.com"))
}
