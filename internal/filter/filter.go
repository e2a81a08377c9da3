// Package filter builds MailFilter values from raw search-form input. The
// heavy lifting (matching mails against the criteria) happens server-side;
// this package only normalizes addresses and computes date windows.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MohamedEliwa204/mail/internal/model"
)

// Input is the raw state of the search form.
type Input struct {
	// Senders and Receivers are comma-separated address lists.
	Senders   string
	Receivers string

	Subject string
	Body    string

	// ExactDate is a YYYY-MM-DD day; when set, DateRange is ignored.
	ExactDate string

	// DateRange is a relative token such as "3 days", "1 week",
	// "2 months" or "1 year", producing a window of +-N units around now.
	DateRange string

	// Read is a tri-state: nil means "any".
	Read *bool

	// HasAttachments is nil for "any".
	HasAttachments *bool

	// Priority is nil for "any".
	Priority *int

	// Folder scopes the search; empty means all folders.
	Folder string
}

// SplitAddressList splits comma-separated addresses into a trimmed,
// non-empty list. Returns nil for blank input.
func SplitAddressList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Build converts form input into the filter DTO handed to the mail service.
// now anchors relative date ranges.
func Build(in Input, now time.Time) (model.MailFilter, error) {
	f := model.MailFilter{
		Sender:         SplitAddressList(in.Senders),
		Receiver:       SplitAddressList(in.Receivers),
		Subject:        strings.TrimSpace(in.Subject),
		Body:           strings.TrimSpace(in.Body),
		IsRead:         in.Read,
		HasAttachments: in.HasAttachments,
		Priority:       in.Priority,
		Folder:         in.Folder,
	}

	switch {
	case strings.TrimSpace(in.ExactDate) != "":
		day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(in.ExactDate), now.Location())
		if err != nil {
			return model.MailFilter{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", in.ExactDate)
		}
		// An exact date is a same-day window: both bounds at midnight.
		exact := model.NewAPITime(day)
		f.ExactDate = &exact
		f.AfterDate = &exact
		before := model.NewAPITime(day)
		f.BeforeDate = &before

	case strings.TrimSpace(in.DateRange) != "":
		after, before, err := DateWindow(in.DateRange, now)
		if err != nil {
			return model.MailFilter{}, err
		}
		a := model.NewAPITime(after)
		b := model.NewAPITime(before)
		f.AfterDate = &a
		f.BeforeDate = &b
	}

	return f, nil
}

// DateWindow computes the inclusive [after, before] bounds for a relative
// range token: "N days"/"N weeks" use simple day arithmetic, "N months" and
// "N years" use calendar arithmetic so the window lands on the same day of
// month rather than a fixed day count away.
func DateWindow(token string, now time.Time) (after, before time.Time, err error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(token)))
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range %q, use e.g. \"1 week\"", token)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range count %q", fields[0])
	}

	unit := strings.TrimSuffix(fields[1], "s")
	switch unit {
	case "day":
		return now.AddDate(0, 0, -n), now.AddDate(0, 0, n), nil
	case "week":
		return now.AddDate(0, 0, -7*n), now.AddDate(0, 0, 7*n), nil
	case "month":
		return now.AddDate(0, -n, 0), now.AddDate(0, n, 0), nil
	case "year":
		return now.AddDate(-n, 0, 0), now.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range unit %q", fields[1])
	}
}
