// Package foldermgr implements folder navigation and management: opening a
// folder, and creating, renaming, or deleting user folders. System folders
// are listed for navigation but cannot be modified.
package foldermgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/keys"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

// FolderListCloseMsg signals the parent to close the folder view.
type FolderListCloseMsg struct{}

// FolderOpenedMsg asks the parent to switch the mailbox to a folder.
type FolderOpenedMsg struct {
	Name string
}

// FoldersChangedMsg carries the refreshed user folder list after a change.
type FoldersChangedMsg struct {
	Folders []string
}

// FolderRenamedMsg tells the parent a folder changed name, so an open
// mailbox on it can follow without refetching.
type FolderRenamedMsg struct {
	OldName string
	NewName string
}

// FolderDeletedMsg tells the parent a folder is gone; a mailbox open on it
// must fall back to the inbox.
type FolderDeletedMsg struct {
	Name string
}

type folderMode int

const (
	modeList folderMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	confirm bool
}

type foldersLoadedMsg struct {
	folders []string
	err     error
}

type folderSavedMsg struct {
	err     error
	renamed bool
	oldName string
	newName string
}

type folderDeletedMsg struct {
	err  error
	name string
}

// Model is the Bubble Tea model for folder management.
type Model struct {
	mode        folderMode
	remote      remote.Store
	provider    session.Provider
	keys        *keys.KeyMap
	log         *logrus.Logger
	custom      []string
	selectedIdx int
	renaming    string
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a folder manager model.
func New(r remote.Store, p session.Provider, k *keys.KeyMap, log *logrus.Logger, width, height int) Model {
	return Model{
		mode:     modeList,
		remote:   r,
		provider: p,
		keys:     k,
		log:      log,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// Init loads the user folders.
func (m Model) Init() tea.Cmd {
	return m.loadFolders()
}

// entries returns system folders followed by user folders.
func (m Model) entries() []string {
	out := make([]string, 0, len(model.SystemFolders)+len(m.custom))
	out = append(out, model.SystemFolders...)
	out = append(out, m.custom...)
	return out
}

// isCustom reports whether the list entry at idx is a user folder.
func (m Model) isCustom(idx int) bool {
	return idx >= len(model.SystemFolders)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case foldersLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			m.log.WithError(msg.err).Error("loading folders failed")
			return m, nil
		}
		m.custom = msg.folders
		if n := len(m.entries()); m.selectedIdx >= n && m.selectedIdx > 0 {
			m.selectedIdx = n - 1
		}
		return m, nil

	case folderSavedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Folder saved"
		cmds := []tea.Cmd{m.loadFolders(), m.announceChange()}
		if msg.renamed {
			oldName, newName := msg.oldName, msg.newName
			cmds = append(cmds, func() tea.Msg {
				return FolderRenamedMsg{OldName: oldName, NewName: newName}
			})
		}
		return m, tea.Batch(cmds...)

	case folderDeletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Folder deleted"
		name := msg.name
		return m, tea.Batch(
			m.loadFolders(),
			m.announceChange(),
			func() tea.Msg { return FolderDeletedMsg{Name: name} },
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	entries := m.entries()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return FolderListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(entries) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(entries)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(entries) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(entries) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.selectedIdx < len(entries) {
			name := entries[m.selectedIdx]
			return m, func() tea.Msg { return FolderOpenedMsg{Name: name} }
		}
		return m, nil

	case msg.String() == "n":
		m.renaming = ""
		m.fb.name = ""
		m.form = m.buildForm("Create folder")
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if model.IsSystemFolder(entries[m.selectedIdx]) {
			m.statusMsg = "System folders cannot be renamed"
			return m, nil
		}
		m.renaming = entries[m.selectedIdx]
		m.fb.name = m.renaming
		m.form = m.buildForm("Rename folder")
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if model.IsSystemFolder(entries[m.selectedIdx]) {
			m.statusMsg = "System folders cannot be deleted"
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(entries[m.selectedIdx])
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm(title string) *huh.Form {
	renaming := m.renaming
	existing := m.entries()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("Folder name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("name is required")
					}
					if renaming != "" && s == renaming {
						return fmt.Errorf("name is unchanged")
					}
					for _, f := range existing {
						if strings.EqualFold(s, f) {
							return fmt.Errorf("folder %q already exists", f)
						}
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm(name string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete folder %q?", name)).
				Description("Mail in this folder moves back to the inbox.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveFolder()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			return m, m.deleteFolder(m.entries()[m.selectedIdx])
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the folder manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Folders"))
	b.WriteString("\n\n")

	for i, name := range m.entries() {
		label := theme.FolderStyle(name).Render(name)
		if !m.isCustom(i) {
			label += lipgloss.NewStyle().Foreground(theme.ColorGray).Render("  (system)")
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.StatusMsgStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter open | n new | e rename | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) loadFolders() tea.Cmd {
	r := m.remote
	provider := m.provider
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return foldersLoadedMsg{err: err}
		}
		folders, err := r.ListFolders(context.Background(), sess.Identity())
		return foldersLoadedMsg{folders: folders, err: err}
	}
}

// announceChange re-reads the folder list for the parent so other views
// stay in sync.
func (m Model) announceChange() tea.Cmd {
	r := m.remote
	provider := m.provider
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return FoldersChangedMsg{}
		}
		folders, err := r.ListFolders(context.Background(), sess.Identity())
		if err != nil {
			return FoldersChangedMsg{}
		}
		return FoldersChangedMsg{Folders: folders}
	}
}

func (m Model) saveFolder() tea.Cmd {
	r := m.remote
	provider := m.provider
	name := strings.TrimSpace(m.fb.name)
	renaming := m.renaming
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return folderSavedMsg{err: err}
		}
		if renaming == "" {
			err := r.CreateFolder(context.Background(), sess.Identity(), name)
			return folderSavedMsg{err: err}
		}
		err = r.RenameFolder(context.Background(), sess.Identity(), renaming, name)
		return folderSavedMsg{err: err, renamed: true, oldName: renaming, newName: name}
	}
}

func (m Model) deleteFolder(name string) tea.Cmd {
	r := m.remote
	provider := m.provider
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return folderDeletedMsg{err: err, name: name}
		}
		err = r.DeleteFolder(context.Background(), sess.Identity(), name)
		return folderDeletedMsg{err: err, name: name}
	}
}
