// Package app contains the root Bubble Tea model: view routing, the shared
// layout frame, and the wiring between the mailbox and its satellite views.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/keys"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
	appsync "github.com/MohamedEliwa204/mail/internal/sync"
	"github.com/MohamedEliwa204/mail/internal/ui"
	"github.com/MohamedEliwa204/mail/internal/ui/compose"
	"github.com/MohamedEliwa204/mail/internal/ui/contactmgr"
	"github.com/MohamedEliwa204/mail/internal/ui/foldermgr"
	helpview "github.com/MohamedEliwa204/mail/internal/ui/help"
	"github.com/MohamedEliwa204/mail/internal/ui/mailbox"
	"github.com/MohamedEliwa204/mail/internal/ui/maildetail"
	"github.com/MohamedEliwa204/mail/internal/ui/searchform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMailbox ViewState = iota
	ViewDetail
	ViewCompose
	ViewFolders
	ViewContacts
	ViewSearch
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the mail service.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	remote       remote.Store
	provider     session.Provider
	keys         *keys.KeyMap
	log          *logrus.Logger
	exportDir    string

	mailboxView  mailbox.Model
	detailView   maildetail.Model
	composeView  compose.Model
	folderView   foldermgr.Model
	contactView  contactmgr.Model
	searchView   searchform.Model
	helpView     helpview.Model
	composeAlive bool
	searchAlive  bool

	notifier    *appsync.Notifier
	unreadCount int

	initCmd tea.Cmd
	ready   bool
}

// New creates the root application model. sortBy and sortAsc seed the
// mailbox sort defaults; exportDir is where .eml exports are written.
func New(
	r remote.Store,
	provider session.Provider,
	log *logrus.Logger,
	pageSize int,
	sortBy string,
	sortAsc bool,
	exportDir string,
) Model {
	k := keys.DefaultKeyMap()
	notifier := appsync.New(r, provider, 2*time.Minute)

	mb, initCmd := mailbox.New(r, provider, k, log, pageSize, sortBy, sortAsc, 80, 24).Start()

	return Model{
		currentView: ViewMailbox,
		remote:      r,
		provider:    provider,
		keys:        k,
		log:         log,
		exportDir:   exportDir,
		mailboxView: mb,
		detailView:  maildetail.New(r, k, log, exportDir, 80, 24),
		folderView:  foldermgr.New(r, provider, k, log, 80, 24),
		contactView: contactmgr.New(r, provider, k, log, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		notifier:    notifier,
		initCmd:     initCmd,
	}
}

// Init dispatches the initial mailbox fetch and starts the unread poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.notifier.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.mailboxView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.folderView.SetSize(w, h)
		m.contactView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		if m.composeAlive {
			m.composeView.SetSize(w, h)
		}
		if m.searchAlive {
			m.searchView.SetSize(w, h)
		}
		return m.updateActiveView(msg)

	// Fetch responses always reach the mailbox, even when another view is
	// in front; the stale-response guard inside decides what applies.
	case mailbox.MailsLoadedMsg, mailbox.FoldersLoadedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.Update(msg)
		if m.currentView == ViewMailbox {
			return m, cmd
		}
		var activeCmd tea.Cmd
		var mdl tea.Model
		mdl, activeCmd = m.updateActiveView(msg)
		return mdl, tea.Batch(cmd, activeCmd)

	case appsync.UnreadResultMsg:
		if msg.Err == nil {
			m.unreadCount = msg.Count
		}
		return m, m.notifier.WaitForNextResult()

	case mailbox.OpenMailMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		// Opening marks the mail read, so the unread badge is stale.
		m.notifier.RefreshNow()
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Load(msg.Mail.ID)
		return m, cmd

	case mailbox.EditDraftMsg:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		m.composeView = compose.NewEdit(
			m.remote, m.provider, m.log, msg.Mail,
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		m.composeAlive = true
		return m, m.composeView.Init()

	case maildetail.MailLoadedMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case maildetail.BackMsg:
		m.currentView = ViewMailbox
		return m, nil

	case compose.SentMsg:
		m.currentView = ViewMailbox
		m.composeAlive = false
		m.notifier.RefreshNow()
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.Refresh()
		return m, cmd

	case compose.ClosedMsg:
		m.currentView = ViewMailbox
		m.composeAlive = false
		if msg.Saved && m.mailboxView.Folder() == model.FolderDrafts {
			var cmd tea.Cmd
			m.mailboxView, cmd = m.mailboxView.Refresh()
			return m, cmd
		}
		return m, nil

	case foldermgr.FolderOpenedMsg:
		m.currentView = ViewMailbox
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.SwitchFolder(msg.Name)
		return m, cmd

	case foldermgr.FoldersChangedMsg:
		m.mailboxView.SetCustomFolders(msg.Folders)
		return m, nil

	case foldermgr.FolderRenamedMsg:
		m.mailboxView.RenameActiveFolder(msg.OldName, msg.NewName)
		return m, nil

	case foldermgr.FolderDeletedMsg:
		if m.mailboxView.Folder() == msg.Name {
			// The folder under the open mailbox is gone; fall back home.
			var cmd tea.Cmd
			m.mailboxView, cmd = m.mailboxView.SwitchFolder(model.FolderInbox)
			return m, cmd
		}
		return m, nil

	case foldermgr.FolderListCloseMsg, contactmgr.ContactListCloseMsg:
		m.currentView = ViewMailbox
		return m, nil

	case contactmgr.ContactsChangedMsg:
		return m, nil

	case searchform.SearchCloseMsg:
		m.currentView = ViewMailbox
		m.searchAlive = false
		return m, nil

	case searchform.SearchSubmittedMsg:
		m.currentView = ViewMailbox
		m.searchAlive = false
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.SetSearch(msg.Filter, msg.MatchAll)
		return m, cmd

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the current view.
// Views with text input (compose, search, managers in form mode) only see
// esc and ctrl+c handled here; everything else falls through to them.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.notifier.Stop()
		return true, m, tea.Quit
	}

	if m.currentView == ViewHelp {
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			m.currentView = m.previousView
			return true, m, nil
		}
		return true, m, nil
	}

	// Text-entry views own their keys.
	if m.currentView != ViewMailbox {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		m.notifier.Stop()
		return true, m, tea.Quit

	case "?":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "c":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		m.composeView = compose.New(
			m.remote, m.provider, m.log,
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		m.composeAlive = true
		return true, m, m.composeView.Init()

	case "f":
		m.previousView = m.currentView
		m.currentView = ViewFolders
		return true, m, m.folderView.Init()

	case "o":
		m.previousView = m.currentView
		m.currentView = ViewContacts
		return true, m, m.contactView.Init()

	case "/":
		m.previousView = m.currentView
		m.currentView = ViewSearch
		m.searchView = searchform.New(
			m.mailboxView.CustomFolders(), nil,
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		m.searchAlive = true
		return true, m, m.searchView.Init()

	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.SwitchFolder(model.SystemFolders[idx])
		return true, m, cmd
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMailbox:
		m.mailboxView, cmd = m.mailboxView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewCompose:
		if m.composeAlive {
			m.composeView, cmd = m.composeView.Update(msg)
		}
	case ViewFolders:
		m.folderView, cmd = m.folderView.Update(msg)
	case ViewContacts:
		m.contactView, cmd = m.contactView.Update(msg)
	case ViewSearch:
		if m.searchAlive {
			m.searchView, cmd = m.searchView.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "mansymail"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("mansymail [%d unread]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.accountStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMailbox:
		return m.mailboxView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewCompose:
		if m.composeAlive {
			return m.composeView.View()
		}
		return ""
	case ViewFolders:
		return m.folderView.View()
	case ViewContacts:
		return m.contactView.View()
	case ViewSearch:
		if m.searchAlive {
			return m.searchView.View()
		}
		return ""
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// accountStatus returns the header's right-aligned account indicator.
func (m Model) accountStatus() string {
	sess, err := m.provider.Current()
	if err != nil {
		return "not signed in"
	}
	if m.mailboxView.Loading() {
		return fmt.Sprintf("%s · loading", sess.Identity())
	}
	return sess.Identity()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | e export | j/k scroll"
	case ViewCompose:
		return "tab next field | ctrl+s send | ctrl+t priority | esc save & close | ctrl+d discard"
	case ViewFolders:
		return "enter open | n new | e rename | d delete | esc back"
	case ViewContacts:
		return "n new | e edit | d delete | s sort | esc back"
	case ViewSearch:
		return "enter next | esc cancel"
	default:
		return "q quit | ? help | c compose | f folders | / search | space select | d delete | m move"
	}
}
