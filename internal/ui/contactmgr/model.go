// Package contactmgr implements the contact book view: listing contacts
// sorted server-side by name, and creating, editing, or deleting them.
package contactmgr

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

// ContactListCloseMsg signals the parent to close the contact view.
type ContactListCloseMsg struct{}

// ContactsChangedMsg signals that contacts were modified.
type ContactsChangedMsg struct{}

type contactMode int

const (
	modeList contactMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	emails  string
	confirm bool
}

type contactsLoadedMsg struct {
	contacts []model.Contact
	err      error
}

type contactSavedMsg struct{ err error }
type contactDeletedMsg struct{ err error }

// Model is the Bubble Tea model for contact management.
type Model struct {
	mode        contactMode
	remote      remote.Store
	provider    session.Provider
	keys        *keys.KeyMap
	log         *logrus.Logger
	contacts    []model.Contact
	selectedIdx int
	editingID   int64
	ascending   bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a contact manager model.
func New(r remote.Store, p session.Provider, k *keys.KeyMap, log *logrus.Logger, width, height int) Model {
	return Model{
		mode:      modeList,
		remote:    r,
		provider:  p,
		keys:      k,
		log:       log,
		ascending: true,
		fb:        &formBindings{},
		width:     width,
		height:    height,
	}
}

// Init loads the contacts.
func (m Model) Init() tea.Cmd {
	return m.loadContacts()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case contactsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			m.log.WithError(msg.err).Error("loading contacts failed")
			return m, nil
		}
		m.contacts = msg.contacts
		if m.selectedIdx >= len(m.contacts) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.contacts) - 1
		}
		return m, nil

	case contactSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Contact saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadContacts(), func() tea.Msg { return ContactsChangedMsg{} })

	case contactDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Contact deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadContacts(), func() tea.Msg { return ContactsChangedMsg{} })

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
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ContactListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.contacts) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.contacts)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.contacts) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.contacts) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.ascending = !m.ascending
		return m, m.loadContacts()

	case msg.String() == "n":
		m.editingID = 0
		m.fb.name = ""
		m.fb.emails = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.contacts) == 0 {
			return m, nil
		}
		c := m.contacts[m.selectedIdx]
		m.editingID = c.ID
		m.fb.name = c.Name
		m.fb.emails = strings.Join(c.Emails, ", ")
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.contacts) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Contact name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Addresses").
				Placeholder("one@example.com, two@example.com").
				Value(&m.fb.emails).
				Validate(func(s string) error {
					if len(splitEmails(s)) == 0 {
						return fmt.Errorf("at least one address is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.contacts) {
		name = m.contacts[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete contact %q?", name)).
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
		return m, m.saveContact()
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
			return m, m.deleteContact(m.contacts[m.selectedIdx].ID)
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

// View renders the contact manager.
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

	order := "A-Z"
	if !m.ascending {
		order = "Z-A"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Contacts " + order))
	b.WriteString("\n\n")

	if len(m.contacts) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No contacts yet. Press 'n' to create one."))
	} else {
		for i, c := range m.contacts {
			label := fmt.Sprintf(
				"%s  %s",
				c.Name,
				lipgloss.NewStyle().Foreground(theme.ColorGray).Render(strings.Join(c.Emails, ", ")),
			)

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.StatusMsgStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | d delete | s sort order | esc back",
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

func (m Model) loadContacts() tea.Cmd {
	r := m.remote
	provider := m.provider
	asc := m.ascending
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return contactsLoadedMsg{err: err}
		}
		contacts, err := r.ListContacts(context.Background(), sess.Identity(), asc)
		return contactsLoadedMsg{contacts: contacts, err: err}
	}
}

func (m Model) saveContact() tea.Cmd {
	r := m.remote
	provider := m.provider
	fb := m.fb
	editID := m.editingID
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return contactSavedMsg{err: err}
		}
		c := model.Contact{
			Name:   strings.TrimSpace(fb.name),
			Emails: splitEmails(fb.emails),
		}
		if editID == 0 {
			err := r.AddContact(context.Background(), c, sess.Identity())
			return contactSavedMsg{err: err}
		}
		c.ID = editID
		err = r.EditContact(context.Background(), c)
		return contactSavedMsg{err: err}
	}
}

func (m Model) deleteContact(id int64) tea.Cmd {
	r := m.remote
	return func() tea.Msg {
		err := r.DeleteContact(context.Background(), id)
		return contactDeletedMsg{err: err}
	}
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
