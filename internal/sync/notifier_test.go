package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/tests/testutil"
)

func TestPollCountsUnread(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Folders[model.FolderInbox] = []model.Mail{
		{ID: 1},
		{ID: 2, IsRead: true},
		{ID: 3},
	}

	n := New(store, testutil.Provider(), time.Hour)
	wait := n.Start()
	defer n.Stop()

	msg, ok := wait().(UnreadResultMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, 2, msg.Count)
}

func TestRefreshNowTriggersPoll(t *testing.T) {
	store := testutil.NewFakeStore()
	store.Folders[model.FolderInbox] = []model.Mail{{ID: 1}}

	// The hour-long interval keeps the ticker out of the way; only the
	// trigger can produce the second result.
	n := New(store, testutil.Provider(), time.Hour)
	wait := n.Start()
	defer n.Stop()

	first, ok := wait().(UnreadResultMsg)
	require.True(t, ok)
	require.NoError(t, first.Err)

	n.RefreshNow()
	second, ok := n.WaitForNextResult()().(UnreadResultMsg)
	require.True(t, ok)
	require.NoError(t, second.Err)
	assert.Equal(t, 1, second.Count)
}
