package mailbox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/theme"
)

const (
	correspondentWidth = 24
	subjectWidth       = 48
)

// renderRow renders one mail line: selection marker, read state, priority
// badge, correspondent, subject, attachment marker and date.
func renderRow(mail model.Mail, folder string, selected, focused bool) string {
	marker := "[ ]"
	if selected {
		marker = "[x]"
	}

	readDot := "●"
	if mail.IsRead {
		readDot = " "
	}

	prio := theme.PriorityStyle(mail.Priority).Render(priorityBadge(mail.Priority))

	// Sent and drafts show who the mail goes to; everywhere else shows who
	// it came from.
	correspondent := mail.Sender
	if folder == model.FolderSent || folder == model.FolderDrafts {
		correspondent = mail.Receiver
	}
	correspondent = truncate(correspondent, correspondentWidth)

	subject := mail.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	subject = truncate(subject, subjectWidth)

	clip := " "
	if mail.HasAttachments() {
		clip = "@"
	}

	date := ""
	if !mail.Timestamp.IsZero() {
		date = mail.Timestamp.Format("Jan 02 15:04")
	}

	line := fmt.Sprintf(
		"%s %s %s  %-*s  %-*s %s %s",
		marker, readDot, prio,
		correspondentWidth, correspondent,
		subjectWidth, subject,
		clip, date,
	)

	var style lipgloss.Style
	switch {
	case focused:
		style = theme.SelectedItemStyle
	case mail.IsRead:
		style = theme.ListItemStyle.Inherit(theme.ReadStyle)
	default:
		style = theme.ListItemStyle.Inherit(theme.UnreadStyle)
	}
	return style.Render(line)
}

func priorityBadge(priority int) string {
	switch priority {
	case model.PriorityHigh:
		return "!!"
	case model.PriorityLow:
		return " ."
	default:
		return "  "
	}
}

// truncate shortens s to limit runes, never cutting a rune in half.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
