package mailbox

import (
	"fmt"
	"strings"

	"github.com/MohamedEliwa204/mail/internal/theme"
)

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Title returns the header line for the active view, including the
// pagination range.
func (m Model) Title() string {
	from, to, total := m.pager.RangeLabel()
	label := theme.FolderStyle(m.folder).Render(m.viewLabel)
	if total == 0 {
		return fmt.Sprintf("%s (empty)", label)
	}
	return fmt.Sprintf("%s %d-%d of %d", label, from, to, total)
}

// View renders the mailbox list, or the open dialog when one is active.
func (m Model) View() string {
	if m.mode != modeList && m.form != nil {
		return m.form.View()
	}

	var b strings.Builder

	b.WriteString(m.Title())
	if m.loading {
		b.WriteString("  " + m.spinner.View() + " loading")
	}
	if n := len(m.selected); n > 0 {
		b.WriteString(theme.StatusMsgStyle.Render(fmt.Sprintf("  %d selected", n)))
	}
	b.WriteString("\n\n")

	if m.pager.Total() == 0 && !m.loading {
		b.WriteString(theme.HelpStyle.Render("  nothing here"))
		b.WriteString("\n")
	}

	row := 0
	for i := range m.pager.VisibleIndices() {
		mail := m.mails[i]
		b.WriteString(renderRow(mail, m.folder, m.IsSelected(mail.ID), row == m.cursor))
		b.WriteString("\n")
		row++
	}

	if m.pager.PageCount() > 1 {
		b.WriteString(theme.HelpStyle.Render(
			fmt.Sprintf("\n  page %d/%d", m.pager.Page()+1, m.pager.PageCount()),
		))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render("  "+m.errMsg) + "\n")
	} else if m.statusMsg != "" {
		b.WriteString("\n" + theme.StatusMsgStyle.Render("  "+m.statusMsg) + "\n")
	}

	return b.String()
}
