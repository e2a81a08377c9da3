// Package searchform implements the search criteria form. The form only
// collects input; the filter package turns it into the service DTO and the
// mailbox view runs the query.
package searchform

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MohamedEliwa204/mail/internal/filter"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

// SearchCloseMsg signals the parent to close the search form unsubmitted.
type SearchCloseMsg struct{}

// SearchSubmittedMsg carries the built filter to the mailbox.
type SearchSubmittedMsg struct {
	Filter   model.MailFilter
	MatchAll bool
}

// triAny/triYes/triNo encode the tri-state selects; huh needs comparable
// option values.
const (
	triAny = "any"
	triYes = "yes"
	triNo  = "no"
)

type formBindings struct {
	senders   string
	receivers string
	subject   string
	body      string
	exactDate string
	dateRange string
	read      string
	attach    string
	priority  string
	folder    string
	matchAll  bool
}

// Model is the search form view.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	now    func() time.Time
	errMsg string
	width  int
	height int
}

// New creates a search form scoped to the given folder choices. now is
// injectable so relative date windows are testable.
func New(folders []string, now func() time.Time, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	fb := &formBindings{
		read:     triAny,
		attach:   triAny,
		priority: triAny,
	}

	folderOptions := []huh.Option[string]{huh.NewOption("all folders", "")}
	for _, f := range model.SystemFolders {
		folderOptions = append(folderOptions, huh.NewOption(f, f))
	}
	for _, f := range folders {
		folderOptions = append(folderOptions, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("alice@example.com, bob@example.com").
				Value(&fb.senders),
			huh.NewInput().
				Title("To").
				Placeholder("comma-separated addresses").
				Value(&fb.receivers),
			huh.NewInput().
				Title("Subject contains").
				Value(&fb.subject),
			huh.NewInput().
				Title("Body contains").
				Value(&fb.body),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("On date").
				Placeholder("YYYY-MM-DD").
				Value(&fb.exactDate),
			huh.NewInput().
				Title("Within").
				Placeholder("e.g. 3 days, 1 week, 2 months").
				Description("Ignored when an exact date is set").
				Value(&fb.dateRange),
			huh.NewSelect[string]().
				Title("Read state").
				Options(
					huh.NewOption("any", triAny),
					huh.NewOption("read", triYes),
					huh.NewOption("unread", triNo),
				).
				Value(&fb.read),
			huh.NewSelect[string]().
				Title("Attachments").
				Options(
					huh.NewOption("any", triAny),
					huh.NewOption("with attachments", triYes),
					huh.NewOption("without attachments", triNo),
				).
				Value(&fb.attach),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("any", triAny),
					huh.NewOption("high", "1"),
					huh.NewOption("normal", "3"),
					huh.NewOption("low", "4"),
				).
				Value(&fb.priority),
			huh.NewSelect[string]().
				Title("Folder").
				Options(folderOptions...).
				Value(&fb.folder),
			huh.NewConfirm().
				Title("Match").
				Affirmative("All criteria").
				Negative("Any criterion").
				Value(&fb.matchAll),
		),
	).WithWidth(min(width-4, 100))

	return Model{
		form:   form,
		fb:     fb,
		now:    now,
		width:  width,
		height: height,
	}
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the search form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return SearchCloseMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m, func() tea.Msg { return SearchCloseMsg{} }

	case huh.StateCompleted:
		f, err := filter.Build(m.input(), m.now())
		if err != nil {
			// Invalid dates bounce back to the form instead of hitting
			// the service.
			m.errMsg = err.Error()
			m.form.State = huh.StateNormal
			return m, nil
		}
		matchAll := m.fb.matchAll
		return m, func() tea.Msg {
			return SearchSubmittedMsg{Filter: f, MatchAll: matchAll}
		}
	}

	return m, cmd
}

// input maps the form bindings onto the filter input.
func (m Model) input() filter.Input {
	in := filter.Input{
		Senders:   m.fb.senders,
		Receivers: m.fb.receivers,
		Subject:   m.fb.subject,
		Body:      m.fb.body,
		ExactDate: m.fb.exactDate,
		DateRange: m.fb.dateRange,
		Folder:    m.fb.folder,
	}

	in.Read = triState(m.fb.read)
	in.HasAttachments = triState(m.fb.attach)

	switch m.fb.priority {
	case "1":
		p := model.PriorityHigh
		in.Priority = &p
	case "3":
		p := model.PriorityNormal
		in.Priority = &p
	case "4":
		p := model.PriorityLow
		in.Priority = &p
	}

	return in
}

func triState(v string) *bool {
	switch v {
	case triYes:
		t := true
		return &t
	case triNo:
		f := false
		return &f
	default:
		return nil
	}
}

// View renders the search form.
func (m Model) View() string {
	out := lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	if m.errMsg != "" {
		out += "\n" + theme.ErrorStyle.Render(fmt.Sprintf("  %s", m.errMsg))
	}
	return out
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
