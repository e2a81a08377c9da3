package compose

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/tests/testutil"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestModel(store *testutil.FakeStore) Model {
	return New(store, testutil.Provider(), quietLogger(), 80, 24)
}

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

func TestSendWithoutRecipientsStaysLocal(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(store)
	m.subject.SetValue("no recipients")

	m2, cmd := m.send()

	assert.Nil(t, cmd)
	assert.NotEmpty(t, m2.errMsg)
	assert.Empty(t, store.SentDrafts)
}

func TestSendSubmitsDraft(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(store)
	m.to.SetValue("alice@example.com, bob@example.com")
	m.subject.SetValue("hi")
	m.body.SetValue("hello there")
	m.priority = model.PriorityHigh

	m2, cmd := m.send()
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(sendDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	require.Len(t, store.SentDrafts, 1)
	sent := store.SentDrafts[0]
	assert.Equal(t, testutil.Account.Email, sent.Sender)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, sent.Receivers)
	assert.Equal(t, "hi", sent.Subject)
	assert.Equal(t, model.PriorityHigh, sent.Priority)

	_, cmd = m2.Update(done)
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, SentMsg{}, msgs[0])
}

func TestCloseSavesDraft(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(store)
	m.to.SetValue("alice@example.com")
	m.body.SetValue("half-written")

	m2, cmd := m.close()
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(saveDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.Len(t, store.SavedDrafts, 1)
	assert.Equal(t, "half-written", store.SavedDrafts[0].Body)

	_, cmd = m2.Update(done)
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	closed, ok := msgs[0].(ClosedMsg)
	require.True(t, ok)
	assert.True(t, closed.Saved)
}

func TestCloseBlankDraftSavesNothing(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(store)

	_, cmd := m.close()
	msgs := drain(cmd)

	require.Len(t, msgs, 1)
	closed, ok := msgs[0].(ClosedMsg)
	require.True(t, ok)
	assert.False(t, closed.Saved)
	assert.Empty(t, store.SavedDrafts)
}

func TestCloseReopenedDraftSkipsSave(t *testing.T) {
	store := testutil.NewFakeStore()
	draft := model.Mail{
		ID:       42,
		Receiver: "alice@example.com",
		Subject:  "stored draft",
		Body:     "already persisted",
	}
	m := NewEdit(store, testutil.Provider(), quietLogger(), draft, 80, 24)

	// Even though the content is non-blank, closing a re-opened draft must
	// not write a duplicate.
	_, cmd := m.close()
	msgs := drain(cmd)

	require.Len(t, msgs, 1)
	closed, ok := msgs[0].(ClosedMsg)
	require.True(t, ok)
	assert.False(t, closed.Saved)
	assert.Empty(t, store.SavedDrafts)
}

func TestNewEditPrefillsFields(t *testing.T) {
	draft := model.Mail{
		ID:       42,
		Receiver: "alice@example.com, bob@example.com",
		Subject:  "stored draft",
		Body:     "text",
		Priority: model.PriorityLow,
	}
	m := NewEdit(testutil.NewFakeStore(), testutil.Provider(), quietLogger(), draft, 80, 24)

	assert.True(t, m.editDraft)
	assert.Equal(t, int64(42), m.originID)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, m.Recipients())
	assert.Equal(t, "stored draft", m.subject.Value())
	assert.Equal(t, model.PriorityLow, m.priority)
}

func TestSendEditedDraftDeletesOriginal(t *testing.T) {
	store := testutil.NewFakeStore()
	draft := model.Mail{ID: 42, Receiver: "alice@example.com", Body: "text"}
	m := NewEdit(store, testutil.Provider(), quietLogger(), draft, 80, 24)

	m2, cmd := m.send()
	require.NotNil(t, cmd)
	done := cmd().(sendDoneMsg)
	require.NoError(t, done.err)

	_, cmd = m2.Update(done)
	drain(cmd)

	assert.Equal(t, []int64{42}, store.DeletedIDs)
}

func TestFailedSaveAsksBeforeDiscarding(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestModel(store)
	m.to.SetValue("alice@example.com")

	m2, _ := m.Update(saveDoneMsg{err: assert.AnError})

	assert.Equal(t, modeConfirmDiscard, m2.mode)
	require.NotNil(t, m2.form)
}

func TestNextPriorityCycles(t *testing.T) {
	assert.Equal(t, model.PriorityHigh, nextPriority(model.PriorityNormal))
	assert.Equal(t, model.PriorityLow, nextPriority(model.PriorityHigh))
	assert.Equal(t, model.PriorityNormal, nextPriority(model.PriorityLow))
	assert.Equal(t, model.PriorityNormal, nextPriority(99))
}
