package remote

// ack is the service's generic success envelope.
type ack struct {
	Message string `json:"message"`
}

// UserForm is the login/signup request payload.
type UserForm struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Account is the authenticated identity the service returns on login and
// registration.
type Account struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// moveRequest is the batch move payload.
type moveRequest struct {
	MailIDs    []int64 `json:"mailIds"`
	FolderName string  `json:"folderName"`
}

// MoveResult reports per-id outcomes of a batch move. Local state is only
// updated for ids in Moved; Failed ids stay where they were.
type MoveResult struct {
	Moved  []int64 `json:"moved"`
	Failed []int64 `json:"failed"`
}

// Sort criteria accepted by the sorted-fetch endpoint.
const (
	SortBySender   = "sender"
	SortByDate     = "date"
	SortByPriority = "priority"
)
