package model

// MailFilter is the search criteria sent to the mail service's filter
// endpoint. Nil/empty fields are omitted so the service only applies the
// criteria the user actually filled in. Filtering happens server-side; the
// client never filters its local collection.
type MailFilter struct {
	UserID         int64    `json:"userId,omitempty"`
	Sender         []string `json:"sender,omitempty"`
	Receiver       []string `json:"receiver,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Body           string   `json:"body,omitempty"`
	ExactDate      *APITime `json:"exactDate,omitempty"`
	AfterDate      *APITime `json:"afterDate,omitempty"`
	BeforeDate     *APITime `json:"beforeDate,omitempty"`
	IsRead         *bool    `json:"isRead,omitempty"`
	Priority       *int     `json:"priority,omitempty"`
	HasAttachments *bool    `json:"hasAttachments,omitempty"`
	Folder         string   `json:"folder,omitempty"`
}

// IsEmpty reports whether no criteria are set at all.
func (f MailFilter) IsEmpty() bool {
	return len(f.Sender) == 0 &&
		len(f.Receiver) == 0 &&
		f.Subject == "" &&
		f.Body == "" &&
		f.ExactDate == nil &&
		f.AfterDate == nil &&
		f.BeforeDate == nil &&
		f.IsRead == nil &&
		f.Priority == nil &&
		f.HasAttachments == nil &&
		f.Folder == ""
}
