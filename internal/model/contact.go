package model

// Contact is an address-book entry. Every contact has at least one email
// address; the service enforces the invariant, the compose form relies on it.
type Contact struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

// Draft is a mail being composed. Sender is the session identity; the
// receiver list must be non-empty before sending. Attachments holds local
// file paths pending upload; nothing touches the network until send.
type Draft struct {
	Sender      string   `json:"sender,omitempty"`
	Receivers   []string `json:"receivers"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Priority    int      `json:"priority"`
	Attachments []string `json:"-"`
}

// IsBlank reports whether the draft has no user-entered content. A blank
// draft is discarded on close without a save call.
func (d Draft) IsBlank() bool {
	if d.Subject != "" || d.Body != "" || len(d.Attachments) > 0 {
		return false
	}
	for _, r := range d.Receivers {
		if r != "" {
			return false
		}
	}
	return true
}
