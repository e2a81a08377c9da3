// Package maildetail renders a single mail in a scrollable viewport, with
// full attachment metadata and .eml export.
package maildetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/export"
	"github.com/MohamedEliwa204/mail/internal/keys"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

// BackMsg signals the parent to navigate back to the mailbox.
type BackMsg struct{}

// MailLoadedMsg carries the fully loaded mail, attachments included.
type MailLoadedMsg struct {
	Mail *model.Mail
	Err  error
}

// exportDoneMsg reports the outcome of an .eml export.
type exportDoneMsg struct {
	path string
	err  error
}

// Model is the mail detail view.
type Model struct {
	mail      *model.Mail
	viewport  viewport.Model
	remote    remote.Store
	keys      *keys.KeyMap
	log       *logrus.Logger
	exportDir string
	statusMsg string
	errMsg    string
	width     int
	height    int
	loading   bool
}

// New creates a detail view model. Exported .eml files land in exportDir.
func New(r remote.Store, k *keys.KeyMap, log *logrus.Logger, exportDir string, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport:  vp,
		remote:    r,
		keys:      k,
		log:       log,
		exportDir: exportDir,
		width:     width,
		height:    height,
	}
}

// Load dispatches the full fetch for a mail. The list view only carries
// attachment metadata; the detail endpoint returns the payload too.
func (m Model) Load(id int64) (Model, tea.Cmd) {
	m.loading = true
	m.mail = nil
	m.statusMsg = ""
	m.errMsg = ""

	r := m.remote
	return m, func() tea.Msg {
		mail, err := r.FetchMail(context.Background(), id)
		return MailLoadedMsg{Mail: mail, Err: err}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.log.WithError(msg.Err).Error("loading mail detail failed")
			return m, nil
		}
		m.mail = msg.Mail
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("export failed: %v", msg.err)
			m.log.WithError(msg.err).Error("eml export failed")
		} else {
			m.statusMsg = "exported to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Export):
			if m.mail != nil {
				mail := *m.mail
				dir := m.exportDir
				return m, func() tea.Msg {
					path, err := export.WriteEML(dir, mail)
					return exportDoneMsg{path: path, err: err}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading mail...")
	}

	if m.mail == nil {
		note := "No mail selected"
		if m.errMsg != "" {
			note = m.errMsg
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(note)
	}

	out := m.viewport.View()
	if m.errMsg != "" {
		out += "\n" + theme.ErrorStyle.Render(m.errMsg)
	} else if m.statusMsg != "" {
		out += "\n" + theme.StatusMsgStyle.Render(m.statusMsg)
	}
	return out
}

// renderContent builds the full mail content string for the viewport.
func (m Model) renderContent() string {
	if m.mail == nil {
		return ""
	}

	mail := m.mail
	var sections []string

	subject := mail.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(subject))

	folderBadge := theme.FolderStyle(mail.FolderName).Render(mail.FolderName)
	prioBadge := theme.PriorityStyle(mail.Priority).Render(model.PriorityName(mail.Priority))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, folderBadge, "  ", prioBadge))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s", metaStyle.Render("From:"), valStyle.Render(mail.Sender),
	))
	sections = append(sections, fmt.Sprintf(
		"%s    %s", metaStyle.Render("To:"), valStyle.Render(mail.Receiver),
	))
	if !mail.Timestamp.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Date:"),
			valStyle.Render(mail.Timestamp.Format("2006-01-02 15:04")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	body := mail.Body
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Empty mail")
	}
	sections = append(sections, body)

	if len(mail.Attachments) > 0 {
		sections = append(sections, "", separator, "")

		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		sections = append(sections, headerStyle.Render(
			fmt.Sprintf("Attachments (%d)", len(mail.Attachments)),
		))
		for _, a := range mail.Attachments {
			sections = append(sections, fmt.Sprintf(
				"  @ %s  %s",
				valStyle.Render(a.FileName),
				metaStyle.Render(a.ContentType),
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
