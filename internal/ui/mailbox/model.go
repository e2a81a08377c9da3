// Package mailbox implements the mailbox view controller: the current
// folder's mail collection, its pagination window, the selection set, and
// the bulk actions that operate on it. All data comes from the remote mail
// service; this model only owns view state.
package mailbox

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/keys"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/pager"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

// MailsLoadedMsg carries the response to a folder fetch. RequestID matches
// the fetch that produced it; responses for superseded fetches are
// discarded so a slow response can never resurrect a previous folder.
type MailsLoadedMsg struct {
	RequestID string
	Label     string
	Mails     []model.Mail
	Err       error
}

// FoldersLoadedMsg carries the user-defined folder list.
type FoldersLoadedMsg struct {
	Folders []string
	Err     error
}

// OpenMailMsg asks the parent to show a mail in the detail view.
type OpenMailMsg struct {
	Mail model.Mail
}

// EditDraftMsg asks the parent to open the compose view pre-populated from
// an existing draft.
type EditDraftMsg struct {
	Mail model.Mail
}

// bulkDoneMsg reports the per-id outcome of a bulk delete/move/copy.
type bulkDoneMsg struct {
	action string
	target string
	acked  []int64
	failed []int64
	err    error
}

// markReadDoneMsg reports the outcome of the fire-and-forget read flag.
type markReadDoneMsg struct {
	id  int64
	err error
}

// viewKind distinguishes what query produced the current collection, so
// refresh can re-issue the same one.
type viewKind int

const (
	viewFolder viewKind = iota
	viewSorted
	viewSearch
)

type mode int

const (
	modeList mode = iota
	modeConfirm
	modePickFolder
)

// sortModes defines the sort criteria cycled by Tab.
var sortModes = []string{
	remote.SortByDate,
	remote.SortBySender,
	remote.SortByPriority,
}

// formBindings holds confirm/move form values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	confirm bool
	target  string
}

// Model is the mailbox view controller.
type Model struct {
	remote   remote.Store
	provider session.Provider
	keys     *keys.KeyMap
	log      *logrus.Logger

	folder        string
	viewLabel     string
	kind          viewKind
	customFolders []string

	mails    []model.Mail
	pager    pager.Pager
	selected map[int64]struct{}
	cursor   int

	sortIndex int
	sortAsc   bool

	loading bool
	fetchID string
	spinner spinner.Model

	filter   model.MailFilter
	matchAll bool

	mode        mode
	pendingBulk string
	form        *huh.Form
	fb          *formBindings

	errMsg    string
	statusMsg string

	width  int
	height int
}

// New creates a mailbox model starting in the inbox. sortBy and sortAsc
// seed the sorted view; an unknown criterion falls back to date.
func New(
	r remote.Store,
	p session.Provider,
	k *keys.KeyMap,
	log *logrus.Logger,
	pageSize int,
	sortBy string,
	sortAsc bool,
	width, height int,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	sortIndex := 0
	for i, criterion := range sortModes {
		if criterion == sortBy {
			sortIndex = i
		}
	}

	return Model{
		remote:    r,
		provider:  p,
		keys:      k,
		log:       log,
		folder:    model.FolderInbox,
		viewLabel: model.FolderInbox,
		pager:     pager.New(pageSize),
		selected:  make(map[int64]struct{}),
		sortIndex: sortIndex,
		sortAsc:   sortAsc,
		spinner:   sp,
		fb:        &formBindings{},
		width:     width,
		height:    height,
	}
}

// Start dispatches the initial inbox fetch and the user folder list. It
// returns the updated model because the fetch id it records must survive
// until the response arrives.
func (m Model) Start() (Model, tea.Cmd) {
	folderCmd := m.LoadFolders()
	m, fetchCmd := m.startFetch(viewFolder, m.folder)
	return m, tea.Batch(folderCmd, fetchCmd)
}

// Folder returns the active folder name.
func (m Model) Folder() string { return m.folder }

// Mails returns the current mail collection.
func (m Model) Mails() []model.Mail { return m.mails }

// Pager returns the current pagination window.
func (m Model) Pager() pager.Pager { return m.pager }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// CustomFolders returns the user-defined folder names.
func (m Model) CustomFolders() []string { return m.customFolders }

// SelectedIDs returns the selection set as a slice, visible-page order
// first is not guaranteed.
func (m Model) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	return ids
}

// IsSelected reports whether the mail id is in the selection set.
func (m Model) IsSelected(id int64) bool {
	_, ok := m.selected[id]
	return ok
}

// SwitchFolder activates a folder: selection cleared, pagination reset to
// page 0, and a fetch dispatched. The collection is only replaced when the
// response arrives; a failed fetch leaves it untouched.
func (m Model) SwitchFolder(name string) (Model, tea.Cmd) {
	m.folder = name
	m.viewLabel = name
	m.selected = make(map[int64]struct{})
	m.cursor = 0
	m.pager.Reset(m.pager.Total())
	m.errMsg = ""
	m.statusMsg = ""
	return m.startFetch(viewFolder, name)
}

// Refresh re-issues the query that produced the current view, whichever
// kind it was. Selection is kept and pruned against the response.
func (m Model) Refresh() (Model, tea.Cmd) {
	switch m.kind {
	case viewSorted:
		return m.startFetch(viewSorted, m.viewLabel)
	case viewSearch:
		return m.startFetch(viewSearch, m.viewLabel)
	default:
		return m.startFetch(viewFolder, m.folder)
	}
}

// SetSearch replaces the view with the results of a server-side filter
// query. Like a folder switch, results start on page 0. A filter with no
// criteria at all never reaches the service.
func (m Model) SetSearch(f model.MailFilter, matchAll bool) (Model, tea.Cmd) {
	if f.IsEmpty() {
		m.statusMsg = "no search criteria"
		return m, nil
	}
	m.filter = f
	m.matchAll = matchAll
	m.selected = make(map[int64]struct{})
	m.cursor = 0
	m.pager.Reset(m.pager.Total())
	return m.startFetch(viewSearch, "search results")
}

// SetCustomFolders replaces the known user folder list, for when another
// view changed it.
func (m *Model) SetCustomFolders(folders []string) {
	m.customFolders = folders
}

// RenameActiveFolder relabels the open folder after a rename without
// re-fetching; the mail list is unchanged, only the name moved.
func (m *Model) RenameActiveFolder(oldName, newName string) {
	for i, f := range m.customFolders {
		if f == oldName {
			m.customFolders[i] = newName
		}
	}
	if m.folder == oldName {
		m.folder = newName
		m.viewLabel = newName
	}
}

// startFetch marks the model loading and dispatches the query. Each fetch
// carries a fresh request id; only the response matching the latest id is
// applied, which makes overlapping fetches safe (last dispatched wins, not
// last arrived).
func (m Model) startFetch(kind viewKind, label string) (Model, tea.Cmd) {
	m.kind = kind
	m.viewLabel = label
	m.loading = true
	m.fetchID = uuid.NewString()

	reqID := m.fetchID
	r := m.remote
	provider := m.provider
	folder := m.folder
	criterion := sortModes[m.sortIndex]
	asc := m.sortAsc
	f := m.filter
	matchAll := m.matchAll

	fetch := func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return MailsLoadedMsg{RequestID: reqID, Label: label, Err: err}
		}

		var mails []model.Mail
		switch kind {
		case viewSorted:
			mails, err = r.FetchSorted(context.Background(), sess.Identity(), criterion, asc)
		case viewSearch:
			mails, err = r.Search(context.Background(), sess.UserID, f, matchAll)
		default:
			mails, err = r.FetchFolder(context.Background(), sess.Identity(), folder)
		}
		return MailsLoadedMsg{RequestID: reqID, Label: label, Mails: mails, Err: err}
	}

	return m, tea.Batch(fetch, m.spinner.Tick)
}

// LoadFolders fetches the user folder list.
func (m Model) LoadFolders() tea.Cmd {
	r := m.remote
	provider := m.provider
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return FoldersLoadedMsg{Err: err}
		}
		folders, err := r.ListFolders(context.Background(), sess.Identity())
		return FoldersLoadedMsg{Folders: folders, Err: err}
	}
}

// Update handles messages for the mailbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MailsLoadedMsg:
		return m.applyMailsLoaded(msg), nil

	case FoldersLoadedMsg:
		if msg.Err == nil {
			m.customFolders = msg.Folders
		}
		return m, nil

	case bulkDoneMsg:
		return m.applyBulkDone(msg), nil

	case markReadDoneMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("mail_id", msg.id).Warn("mark read failed")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm, modePickFolder:
			return m.updateForm(msg)
		default:
			return m.handleListKey(msg)
		}
	}

	if m.mode == modeConfirm || m.mode == modePickFolder {
		return m.updateForm(msg)
	}
	return m, nil
}

// applyMailsLoaded replaces the collection with a fetch response, unless
// the response is stale or failed.
func (m Model) applyMailsLoaded(msg MailsLoadedMsg) Model {
	if msg.RequestID != m.fetchID {
		// A newer fetch superseded this one; dropping the response keeps
		// the view consistent with the folder the user is actually on.
		m.log.WithField("label", msg.Label).Debug("discarding stale fetch response")
		return m
	}

	m.loading = false
	m.fetchID = ""

	if msg.Err != nil {
		m.errMsg = msg.Err.Error()
		m.log.WithError(msg.Err).WithField("view", msg.Label).Error("fetch failed")
		return m
	}

	m.errMsg = ""
	m.mails = msg.Mails
	m.pager.SetTotal(len(m.mails))
	m.pruneSelection()
	m.clampCursor()
	return m
}

// pruneSelection drops selected ids that are no longer in the collection.
// Selection never outlives the mails it points at.
func (m *Model) pruneSelection() {
	present := make(map[int64]struct{}, len(m.mails))
	for _, mail := range m.mails {
		present[mail.ID] = struct{}{}
	}
	for id := range m.selected {
		if _, ok := present[id]; !ok {
			delete(m.selected, id)
		}
	}
}

// clampCursor keeps the cursor on the (possibly shrunken) visible page.
func (m *Model) clampCursor() {
	n := m.visibleCount()
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m Model) visibleCount() int {
	count := 0
	for range m.pager.VisibleIndices() {
		count++
	}
	return count
}

// CurrentMail returns the mail under the cursor.
func (m Model) CurrentMail() (model.Mail, bool) {
	idx := m.pager.Page()*m.pager.PageSize() + m.cursor
	if idx < 0 || idx >= len(m.mails) {
		return model.Mail{}, false
	}
	return m.mails[idx], true
}

// VisibleMailIDs returns the ids on the currently visible page, in order.
func (m Model) VisibleMailIDs() []int64 {
	var ids []int64
	for i := range m.pager.VisibleIndices() {
		ids = append(ids, m.mails[i].ID)
	}
	return ids
}

// ToggleSelect flips membership of id in the selection set, regardless of
// which page it lives on.
func (m *Model) ToggleSelect(id int64) {
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
}

// IsAllVisibleSelected reports whether every id on the visible page is
// selected. An empty page is never "all selected".
func (m Model) IsAllVisibleSelected() bool {
	ids := m.VisibleMailIDs()
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := m.selected[id]; !ok {
			return false
		}
	}
	return true
}

// ToggleSelectAllVisible selects every id on the visible page, or deselects
// exactly those when they are already all selected. Selection on other
// pages is untouched either way, and two calls in a row restore the
// original state.
func (m *Model) ToggleSelectAllVisible() {
	ids := m.VisibleMailIDs()
	if len(ids) == 0 {
		return
	}
	if m.IsAllVisibleSelected() {
		for _, id := range ids {
			delete(m.selected, id)
		}
		return
	}
	for _, id := range ids {
		m.selected[id] = struct{}{}
	}
}

// handleListKey processes key input in normal list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.visibleCount()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.PageLeft):
		if m.pager.PageLeft() {
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.PageRight):
		if m.pager.PageRight() {
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleSelect):
		if mail, ok := m.CurrentMail(); ok {
			m.ToggleSelect(mail.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.ToggleSelectAllVisible()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.openCurrent()

	case key.Matches(msg, m.keys.Delete):
		return m.promptBulk("delete", "")

	case key.Matches(msg, m.keys.Move):
		return m.promptFolderPick("move")

	case key.Matches(msg, m.keys.Copy):
		return m.promptFolderPick("copy")

	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		return m.startFetch(viewSorted, "sorted by "+sortModes[m.sortIndex])

	case key.Matches(msg, m.keys.ToggleOrder):
		m.sortAsc = !m.sortAsc
		return m.startFetch(viewSorted, "sorted by "+sortModes[m.sortIndex])
	}

	return m, nil
}

// openCurrent opens the mail under the cursor: drafts re-enter compose,
// everything else goes to the detail view and is flagged read.
func (m Model) openCurrent() (Model, tea.Cmd) {
	mail, ok := m.CurrentMail()
	if !ok {
		return m, nil
	}

	if m.folder == model.FolderDrafts && m.kind == viewFolder {
		return m, func() tea.Msg { return EditDraftMsg{Mail: mail} }
	}

	cmds := []tea.Cmd{
		func() tea.Msg { return OpenMailMsg{Mail: mail} },
	}

	if !mail.IsRead {
		// Optimistic local flag; the remote call is fire-and-forget.
		idx := m.pager.Page()*m.pager.PageSize() + m.cursor
		m.mails[idx].IsRead = true
		r := m.remote
		id := mail.ID
		cmds = append(cmds, func() tea.Msg {
			return markReadDoneMsg{id: id, err: r.MarkRead(context.Background(), id)}
		})
	}

	return m, tea.Batch(cmds...)
}
