// Package compose implements the mail composition view and its draft
// lifecycle: a mail being written is either sent, saved as a draft when
// the view closes, or explicitly discarded. Re-opened drafts skip the
// save-on-close so closing an untouched draft never duplicates it.
package compose

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

// SentMsg signals the parent that the mail went out and the view closed.
type SentMsg struct{}

// ClosedMsg signals the parent that the view closed without sending.
// Saved reports whether a draft was written.
type ClosedMsg struct {
	Saved bool
}

type sendDoneMsg struct{ err error }
type saveDoneMsg struct{ err error }

type contactsLoadedMsg struct {
	contacts []model.Contact
	err      error
}

// priorityCycle is the order Ctrl+T steps through.
var priorityCycle = []int{model.PriorityNormal, model.PriorityHigh, model.PriorityLow}

const (
	fieldTo = iota
	fieldSubject
	fieldAttach
	fieldBody
	fieldCount
)

type mode int

const (
	modeEditing mode = iota
	modeConfirmDiscard
	modeBusy
)

// formBindings keeps huh confirm values stable across model copies.
type formBindings struct {
	discard bool
}

// Model is the compose view.
type Model struct {
	remote   remote.Store
	provider session.Provider
	log      *logrus.Logger

	to      textinput.Model
	subject textinput.Model
	attach  textinput.Model
	body    textarea.Model
	focus   int

	priority  int
	editDraft bool
	originID  int64

	contacts    []model.Contact
	suggestions []string
	suggestIdx  int

	mode mode
	form *huh.Form
	fb   *formBindings

	errMsg string
	width  int
	height int
}

// New creates an empty compose view.
func New(r remote.Store, p session.Provider, log *logrus.Logger, width, height int) Model {
	to := textinput.New()
	to.Placeholder = "recipient@example.com, ..."
	to.Focus()

	subject := textinput.New()
	subject.Placeholder = "subject"

	attach := textinput.New()
	attach.Placeholder = "/path/to/file, ... (optional)"

	body := textarea.New()
	body.Placeholder = "write your mail"
	body.SetWidth(width - 4)
	body.SetHeight(max(height-12, 4))

	return Model{
		remote:   r,
		provider: p,
		log:      log,
		to:       to,
		subject:  subject,
		attach:   attach,
		body:     body,
		priority: model.PriorityNormal,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// NewEdit creates a compose view pre-populated from an existing draft.
// Closing it without sending keeps the stored draft as it was.
func NewEdit(r remote.Store, p session.Provider, log *logrus.Logger, draft model.Mail, width, height int) Model {
	m := New(r, p, log, width, height)
	m.editDraft = true
	m.originID = draft.ID
	m.to.SetValue(draft.Receiver)
	m.subject.SetValue(draft.Subject)
	m.body.SetValue(draft.Body)
	if draft.Priority != 0 {
		m.priority = draft.Priority
	}
	return m
}

// Init loads the contact list backing recipient autocompletion.
func (m Model) Init() tea.Cmd {
	r := m.remote
	provider := m.provider
	return func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return contactsLoadedMsg{err: err}
		}
		contacts, err := r.ListContacts(context.Background(), sess.Identity(), true)
		return contactsLoadedMsg{contacts: contacts, err: err}
	}
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case contactsLoadedMsg:
		if msg.err != nil {
			// Autocomplete degrades to nothing; composing still works.
			m.log.WithError(msg.err).Warn("loading contacts for autocomplete failed")
			return m, nil
		}
		m.contacts = msg.contacts
		return m, nil

	case sendDoneMsg:
		if msg.err != nil {
			m.mode = modeEditing
			m.errMsg = msg.err.Error()
			m.log.WithError(msg.err).Error("sending mail failed")
			return m, nil
		}
		return m, tea.Batch(m.dropOrigin(), func() tea.Msg { return SentMsg{} })

	case saveDoneMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Error("saving draft failed")
			return m.promptDiscard(msg.err)
		}
		return m, func() tea.Msg { return ClosedMsg{Saved: true} }

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDiscard:
			return m.updateConfirm(msg)
		case modeBusy:
			return m, nil
		default:
			return m.handleKey(msg)
		}
	}

	if m.mode == modeConfirmDiscard && m.form != nil {
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.close()

	case "ctrl+d":
		// Explicit discard, nothing is saved.
		return m, func() tea.Msg { return ClosedMsg{Saved: false} }

	case "ctrl+s":
		return m.send()

	case "ctrl+t":
		m.priority = nextPriority(m.priority)
		return m, nil

	case "tab":
		if m.focus == fieldTo && len(m.suggestions) > 0 {
			m.to.SetValue(applySuggestion(m.to.Value(), m.suggestions[m.suggestIdx]))
			m.to.CursorEnd()
			m.suggestions = nil
			m.suggestIdx = 0
			return m, nil
		}
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "ctrl+n":
		if len(m.suggestions) > 0 {
			m.suggestIdx = (m.suggestIdx + 1) % len(m.suggestions)
		}
		return m, nil

	case "ctrl+p":
		if len(m.suggestions) > 0 {
			m.suggestIdx = (m.suggestIdx + len(m.suggestions) - 1) % len(m.suggestions)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTo:
		m.to, cmd = m.to.Update(msg)
		// Recompute on every keystroke; the list follows the trailing
		// fragment of the field.
		m.suggestions = Suggestions(m.contacts, m.to.Value(), maxSuggestions)
		if m.suggestIdx >= len(m.suggestions) {
			m.suggestIdx = 0
		}
	case fieldSubject:
		m.subject, cmd = m.subject.Update(msg)
	case fieldAttach:
		m.attach, cmd = m.attach.Update(msg)
	case fieldBody:
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.suggestions = nil
	m.suggestIdx = 0

	m.to.Blur()
	m.subject.Blur()
	m.attach.Blur()
	m.body.Blur()

	switch f {
	case fieldTo:
		m.to.Focus()
	case fieldSubject:
		m.subject.Focus()
	case fieldAttach:
		m.attach.Focus()
	case fieldBody:
		m.body.Focus()
	}
}

// Recipients returns the parsed recipient addresses.
func (m Model) Recipients() []string {
	return splitList(m.to.Value())
}

// draft assembles the current field values.
func (m Model) draft(sender string) model.Draft {
	return model.Draft{
		Sender:      sender,
		Receivers:   m.Recipients(),
		Subject:     strings.TrimSpace(m.subject.Value()),
		Body:        m.body.Value(),
		Priority:    m.priority,
		Attachments: splitList(m.attach.Value()),
	}
}

// send validates and submits the mail. A mail without recipients never
// reaches the network; the error stays local to the view.
func (m Model) send() (Model, tea.Cmd) {
	if len(m.Recipients()) == 0 {
		m.errMsg = "at least one recipient is required"
		return m, nil
	}
	for _, path := range splitList(m.attach.Value()) {
		if _, err := os.Stat(path); err != nil {
			m.errMsg = fmt.Sprintf("attachment not found: %s", path)
			return m, nil
		}
	}

	m.errMsg = ""
	m.mode = modeBusy

	r := m.remote
	provider := m.provider
	build := m.draft
	return m, func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return sendDoneMsg{err: err}
		}
		return sendDoneMsg{err: r.SendMail(context.Background(), build(sess.Identity()))}
	}
}

// close ends composition. A blank mail or a re-opened draft just closes;
// anything else is saved to drafts first.
func (m Model) close() (Model, tea.Cmd) {
	sender := ""
	if sess, err := m.provider.Current(); err == nil {
		sender = sess.Identity()
	}
	d := m.draft(sender)

	if m.editDraft || d.IsBlank() {
		return m, func() tea.Msg { return ClosedMsg{Saved: false} }
	}

	m.mode = modeBusy
	r := m.remote
	provider := m.provider
	build := m.draft
	return m, func() tea.Msg {
		sess, err := provider.Current()
		if err != nil {
			return saveDoneMsg{err: err}
		}
		return saveDoneMsg{err: r.SaveDraft(context.Background(), build(sess.Identity()))}
	}
}

// promptDiscard asks whether to close anyway after a failed draft save.
func (m Model) promptDiscard(cause error) (Model, tea.Cmd) {
	m.fb = &formBindings{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Saving the draft failed").
				Description(cause.Error() + "\n\nDiscard the mail anyway?").
				Affirmative("Discard").
				Negative("Keep editing").
				Value(&m.fb.discard),
		),
	)
	m.mode = modeConfirmDiscard
	return m, m.form.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil
	if m.fb.discard {
		return m, func() tea.Msg { return ClosedMsg{Saved: false} }
	}
	m.mode = modeEditing
	return m, nil
}

// dropOrigin deletes the stored draft after a successful send of its
// edited copy.
func (m Model) dropOrigin() tea.Cmd {
	if !m.editDraft || m.originID == 0 {
		return nil
	}
	r := m.remote
	id := m.originID
	log := m.log
	return func() tea.Msg {
		if err := r.DeleteMail(context.Background(), id); err != nil {
			log.WithError(err).WithField("mail_id", id).Warn("removing sent draft failed")
		}
		return nil
	}
}

// View renders the compose form.
func (m Model) View() string {
	if m.mode == modeConfirmDiscard && m.form != nil {
		return m.form.View()
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	title := "New mail"
	if m.editDraft {
		title = "Edit draft"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title))
	b.WriteString("  " + theme.PriorityStyle(m.priority).Render(model.PriorityName(m.priority)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("To:") + m.to.View() + "\n")
	for i, s := range m.suggestions {
		marker := "  "
		if i == m.suggestIdx {
			marker = "> "
		}
		b.WriteString(theme.HelpStyle.Render("          "+marker+s) + "\n")
	}
	b.WriteString(labelStyle.Render("Subject:") + m.subject.View() + "\n")
	b.WriteString(labelStyle.Render("Attach:") + m.attach.View() + "\n\n")
	b.WriteString(m.body.View() + "\n")

	if m.errMsg != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errMsg) + "\n")
	}
	if m.mode == modeBusy {
		b.WriteString("\n" + theme.StatusMsgStyle.Render("working...") + "\n")
	}

	b.WriteString("\n" + theme.HelpStyle.Render(
		"tab next field · ctrl+s send · ctrl+t priority · esc save & close · ctrl+d discard",
	))
	return b.String()
}

// SetSize updates the compose view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.body.SetWidth(width - 4)
	m.body.SetHeight(max(height-12, 4))
}

func nextPriority(p int) int {
	for i, v := range priorityCycle {
		if v == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return model.PriorityNormal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
