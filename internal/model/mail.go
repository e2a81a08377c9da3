package model

// System folder names as the mail service stores them. User folders are
// lowercased on creation, so every folder name in the client is lowercase.
const (
	FolderInbox  = "inbox"
	FolderSent   = "sent"
	FolderDrafts = "drafts"
	FolderSpam   = "spam"
	FolderTrash  = "trash"
)

// SystemFolders lists the folders that always exist for every account,
// in sidebar display order.
var SystemFolders = []string{
	FolderInbox,
	FolderSent,
	FolderDrafts,
	FolderSpam,
	FolderTrash,
}

// IsSystemFolder reports whether name is one of the built-in folders.
func IsSystemFolder(name string) bool {
	for _, f := range SystemFolders {
		if f == name {
			return true
		}
	}
	return false
}

// Mail priority levels as the service encodes them (lower = more urgent).
const (
	PriorityHigh   = 1
	PriorityNormal = 3
	PriorityLow    = 4
)

// PriorityName returns a human-readable label for a priority level.
func PriorityName(p int) string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low"
	default:
		return "Normal"
	}
}

// Attachment is a file attached to a mail. Data is only populated when a
// single mail is fetched for viewing; list endpoints omit it.
type Attachment struct {
	ID          int64  `json:"id,omitempty"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        string `json:"data,omitempty"`
}

// Mail is a single message as returned by the mail service. The client
// holds transient, read-mostly copies fetched per folder view; the service
// owns the data.
type Mail struct {
	ID          int64        `json:"id"`
	Sender      string       `json:"sender"`
	Receiver    string       `json:"receiver"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Timestamp   APITime      `json:"timestamp"`
	Priority    int          `json:"priority"`
	FolderName  string       `json:"folderName"`
	IsRead      bool         `json:"isRead"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// HasAttachments reports whether the mail carries at least one attachment.
func (m Mail) HasAttachments() bool {
	return len(m.Attachments) > 0
}
