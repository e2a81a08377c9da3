package mailbox

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/keys"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/tests/testutil"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mails(ids ...int64) []model.Mail {
	out := make([]model.Mail, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Mail{
			ID:         id,
			Sender:     "peer@example.com",
			Subject:    "hello",
			FolderName: model.FolderInbox,
		})
	}
	return out
}

func newTestModel(t *testing.T, store *testutil.FakeStore, pageSize int) Model {
	t.Helper()
	return New(store, testutil.Provider(), keys.DefaultKeyMap(), quietLogger(), pageSize, remote.SortByDate, false, 80, 24)
}

// loaded puts a collection into the model the same way a fetch response
// does.
func loaded(m Model, ms []model.Mail) Model {
	m.fetchID = "req-1"
	m.loading = true
	return m.applyMailsLoaded(MailsLoadedMsg{RequestID: "req-1", Label: m.folder, Mails: ms})
}

// drain executes a command tree and collects the produced messages,
// skipping nils and ignoring spinner ticks.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg != nil {
		out = append(out, msg)
	}
	return out
}

func findBulkDone(t *testing.T, msgs []tea.Msg) bulkDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(bulkDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no bulkDoneMsg produced")
	return bulkDoneMsg{}
}

func TestApplyMailsLoaded(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2, 3))

	assert.False(t, m.Loading())
	assert.Len(t, m.Mails(), 3)
	assert.Equal(t, 3, m.Pager().Total())
	assert.Empty(t, m.errMsg)
}

func TestStaleResponseDiscarded(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2))

	// A second fetch goes out; the first folder's slow response must not
	// land on top of it.
	m.fetchID = "req-2"
	m.loading = true

	m = m.applyMailsLoaded(MailsLoadedMsg{RequestID: "req-1", Label: "old", Mails: mails(9)})

	assert.True(t, m.Loading())
	assert.Len(t, m.Mails(), 2)
	assert.Equal(t, int64(1), m.Mails()[0].ID)
}

func TestFetchFailureLeavesCollection(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2))

	m.fetchID = "req-2"
	m.loading = true
	m = m.applyMailsLoaded(MailsLoadedMsg{RequestID: "req-2", Err: assert.AnError})

	assert.False(t, m.Loading())
	assert.Len(t, m.Mails(), 2)
	assert.NotEmpty(t, m.errMsg)
}

func TestReloadPrunesSelection(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2, 3))
	m.ToggleSelect(1)
	m.ToggleSelect(3)

	m = loaded(m, mails(2, 3))

	assert.False(t, m.IsSelected(1))
	assert.True(t, m.IsSelected(3))
}

func TestToggleSelect(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2))

	m.ToggleSelect(1)
	assert.True(t, m.IsSelected(1))
	m.ToggleSelect(1)
	assert.False(t, m.IsSelected(1))
}

func TestToggleSelectAllVisibleRoundTrips(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2, 3, 4, 5, 6, 7, 8))
	m.pager.PageRight() // visible: 7, 8

	// Selection on another page must survive both toggles.
	m.ToggleSelect(1)

	m.ToggleSelectAllVisible()
	assert.True(t, m.IsSelected(7))
	assert.True(t, m.IsSelected(8))
	assert.True(t, m.IsSelected(1))
	assert.True(t, m.IsAllVisibleSelected())

	m.ToggleSelectAllVisible()
	assert.False(t, m.IsSelected(7))
	assert.False(t, m.IsSelected(8))
	assert.True(t, m.IsSelected(1))
}

func TestToggleSelectAllVisibleWithPartialSelection(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2, 3))
	m.ToggleSelect(2)

	// Not all visible are selected, so the first toggle selects the rest.
	m.ToggleSelectAllVisible()
	for _, id := range []int64{1, 2, 3} {
		assert.True(t, m.IsSelected(id))
	}
}

func TestToggleSelectAllVisibleEmptyPage(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	assert.False(t, m.IsAllVisibleSelected())
	m.ToggleSelectAllVisible()
	assert.Empty(t, m.SelectedIDs())
}

func TestSwitchFolderResetsViewState(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1, 2, 3, 4, 5, 6, 7))
	m.pager.PageRight()
	m.ToggleSelect(1)

	m, cmd := m.SwitchFolder(model.FolderSent)
	require.NotNil(t, cmd)

	assert.Equal(t, model.FolderSent, m.Folder())
	assert.Empty(t, m.SelectedIDs())
	assert.Equal(t, 0, m.Pager().Page())
	assert.True(t, m.Loading())
	assert.NotEmpty(t, m.fetchID)
	// Collection stays until the response lands.
	assert.Len(t, m.Mails(), 7)
}

func TestSetSearchResetsPager(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SearchResults = mails(21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35)

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13))
	m.pager.PageRight()
	m.pager.PageRight()
	require.Equal(t, 2, m.Pager().Page())

	m, cmd := m.SetSearch(model.MailFilter{Subject: "report"}, true)
	require.NotNil(t, cmd)
	assert.Equal(t, 0, m.Pager().Page())

	// Results land on page 1-6, not wherever the folder view was.
	m = m.applyMailsLoaded(MailsLoadedMsg{RequestID: m.fetchID, Label: "search results", Mails: store.SearchResults})
	assert.Equal(t, 0, m.Pager().Page())
	assert.Len(t, m.Mails(), 15)
}

func TestSetSearchEmptyFilterSkipsFetch(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2))

	m2, cmd := m.SetSearch(model.MailFilter{}, true)

	assert.Nil(t, cmd)
	assert.False(t, m2.Loading())
	assert.NotEmpty(t, m2.statusMsg)
	assert.Len(t, m2.Mails(), 2)
}

func TestNewSeedsSortDefaults(t *testing.T) {
	store := testutil.NewFakeStore()

	m := New(store, testutil.Provider(), keys.DefaultKeyMap(), quietLogger(), 6, remote.SortByPriority, true, 80, 24)
	assert.Equal(t, remote.SortByPriority, sortModes[m.sortIndex])
	assert.True(t, m.sortAsc)

	// Unknown criteria fall back to date descending.
	m = New(store, testutil.Provider(), keys.DefaultKeyMap(), quietLogger(), 6, "bogus", false, 80, 24)
	assert.Equal(t, remote.SortByDate, sortModes[m.sortIndex])
	assert.False(t, m.sortAsc)
}

func TestBulkDeleteReconciliation(t *testing.T) {
	store := testutil.NewFakeStore()
	store.FailDeleteIDs[2] = true

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2, 3))
	m.ToggleSelect(1)
	m.ToggleSelect(2)

	m2, cmd := m.runBulkDelete()
	done := findBulkDone(t, drain(cmd))
	m2 = m2.applyBulkDone(done)

	// Only the acknowledged id leaves the collection and the selection.
	assert.Len(t, m2.Mails(), 2)
	assert.False(t, m2.IsSelected(1))
	assert.True(t, m2.IsSelected(2))
	assert.NotEmpty(t, m2.errMsg)
	assert.Equal(t, []int64{1}, store.DeletedIDs)
}

func TestBulkMovePartialFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.MoveResult = &remote.MoveResult{Moved: []int64{1}, Failed: []int64{3}}

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2, 3))
	m.ToggleSelect(1)
	m.ToggleSelect(3)

	m2, cmd := m.runBulkMove("archive")
	done := findBulkDone(t, drain(cmd))
	m2 = m2.applyBulkDone(done)

	assert.Len(t, m2.Mails(), 2)
	assert.False(t, m2.IsSelected(1))
	assert.True(t, m2.IsSelected(3))
	assert.Len(t, store.MoveCalls, 1)
	assert.Equal(t, "archive", store.MoveTargets[0])
}

func TestBulkCopyKeepsCollection(t *testing.T) {
	store := testutil.NewFakeStore()

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2))
	m.ToggleSelect(1)

	m2, cmd := m.runBulkCopy("archive")
	done := findBulkDone(t, drain(cmd))
	m2 = m2.applyBulkDone(done)

	// A copy leaves the source folder untouched.
	assert.Len(t, m2.Mails(), 2)
	assert.False(t, m2.IsSelected(1))
	assert.Equal(t, []int64{1}, store.CopiedIDs)
}

func TestBulkDeleteShrinkClampsPager(t *testing.T) {
	store := testutil.NewFakeStore()

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2, 3, 4, 5, 6, 7))
	m.pager.PageRight() // last page holds only mail 7
	m.ToggleSelect(7)

	m2, cmd := m.runBulkDelete()
	done := findBulkDone(t, drain(cmd))
	m2 = m2.applyBulkDone(done)

	assert.Len(t, m2.Mails(), 6)
	assert.Equal(t, 0, m2.Pager().Page())
}

func TestOpenCurrentMarksRead(t *testing.T) {
	store := testutil.NewFakeStore()

	m := newTestModel(t, store, 6)
	m = loaded(m, mails(1, 2))

	m2, cmd := m.openCurrent()
	msgs := drain(cmd)

	assert.True(t, m2.Mails()[0].IsRead)

	var opened bool
	for _, msg := range msgs {
		if open, ok := msg.(OpenMailMsg); ok {
			opened = true
			assert.Equal(t, int64(1), open.Mail.ID)
		}
	}
	assert.True(t, opened)
	assert.Equal(t, []int64{1}, store.MarkedRead)
}

func TestOpenDraftGoesToCompose(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m.folder = model.FolderDrafts
	m = loaded(m, mails(5))

	_, cmd := m.openCurrent()
	msgs := drain(cmd)

	require.Len(t, msgs, 1)
	edit, ok := msgs[0].(EditDraftMsg)
	require.True(t, ok)
	assert.Equal(t, int64(5), edit.Mail.ID)
}

func TestPromptBulkNeedsSelection(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m = loaded(m, mails(1))

	m2, cmd := m.promptBulk("delete", "")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m2.mode)
	assert.NotEmpty(t, m2.statusMsg)
}

func TestRenameActiveFolder(t *testing.T) {
	m := newTestModel(t, testutil.NewFakeStore(), 6)
	m.SetCustomFolders([]string{"work"})
	m.folder = "work"
	m.viewLabel = "work"

	m.RenameActiveFolder("work", "projects")

	assert.Equal(t, "projects", m.Folder())
	assert.Equal(t, []string{"projects"}, m.CustomFolders())
}
