package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MohamedEliwa204/mail/internal/model"
)

// Store is the mail service capability set the client consumes. Every call
// is a plain request/response over HTTP; the service is the source of truth
// for mail, folders, and contacts. Implementations must be safe for use
// from Bubble Tea command goroutines.
type Store interface {
	// Mail collections.
	FetchFolder(ctx context.Context, email, folder string) ([]model.Mail, error)
	FetchSorted(ctx context.Context, email, criterion string, ascending bool) ([]model.Mail, error)
	FetchMail(ctx context.Context, id int64) (*model.Mail, error)
	Search(ctx context.Context, userID int64, f model.MailFilter, matchAll bool) ([]model.Mail, error)

	// Compose / draft.
	SendMail(ctx context.Context, draft model.Draft) error
	SaveDraft(ctx context.Context, draft model.Draft) error

	// Single-mail mutations.
	MarkRead(ctx context.Context, id int64) error
	DeleteMail(ctx context.Context, id int64) error
	CopyMail(ctx context.Context, id int64, folder string) error
	MoveMails(ctx context.Context, ids []int64, folder string) (*MoveResult, error)

	// User folders.
	ListFolders(ctx context.Context, email string) ([]string, error)
	CreateFolder(ctx context.Context, email, name string) error
	RenameFolder(ctx context.Context, email, oldName, newName string) error
	DeleteFolder(ctx context.Context, email, name string) error

	// Contacts.
	ListContacts(ctx context.Context, email string, ascending bool) ([]model.Contact, error)
	AddContact(ctx context.Context, contact model.Contact, email string) error
	EditContact(ctx context.Context, contact model.Contact) error
	DeleteContact(ctx context.Context, id int64) error

	// Session establishment.
	Login(ctx context.Context, form UserForm) (*Account, error)
	Register(ctx context.Context, form UserForm) (*Account, error)
}

// MailStore implements Store against the mail service REST API.
type MailStore struct {
	client *Client
}

// NewMailStore creates a Store backed by the service at baseURL.
func NewMailStore(baseURL string) *MailStore {
	return &MailStore{client: NewClient(baseURL)}
}

// FetchFolder retrieves the mails of one folder, newest first. The three
// primary system folders have dedicated endpoints; everything else goes
// through the generic folder route.
func (s *MailStore) FetchFolder(ctx context.Context, email, folder string) ([]model.Mail, error) {
	var path string
	switch folder {
	case model.FolderInbox:
		path = "/api/mail/inbox/" + url.PathEscape(email)
	case model.FolderSent:
		path = "/api/mail/sent/" + url.PathEscape(email)
	case model.FolderDrafts:
		path = "/api/mail/drafts/" + url.PathEscape(email)
	default:
		path = "/api/mail/folder/" + url.PathEscape(email) + "/" + url.PathEscape(folder)
	}

	var mails []model.Mail
	if err := s.client.Get(ctx, path, &mails); err != nil {
		return nil, fmt.Errorf("fetching folder %s: %w", folder, err)
	}
	return mails, nil
}

// FetchSorted retrieves the account's mail ordered server-side by the given
// criterion; the client never re-sorts locally.
func (s *MailStore) FetchSorted(ctx context.Context, email, criterion string, ascending bool) ([]model.Mail, error) {
	path := fmt.Sprintf(
		"/api/mail/sorted/%s?by=%s&asc=%t",
		url.PathEscape(email), url.QueryEscape(criterion), ascending,
	)

	var mails []model.Mail
	if err := s.client.Get(ctx, path, &mails); err != nil {
		return nil, fmt.Errorf("fetching sorted mail: %w", err)
	}
	return mails, nil
}

// FetchMail retrieves a single mail with full attachment data.
func (s *MailStore) FetchMail(ctx context.Context, id int64) (*model.Mail, error) {
	var mail model.Mail
	if err := s.client.Get(ctx, fmt.Sprintf("/api/mail/%d", id), &mail); err != nil {
		return nil, fmt.Errorf("fetching mail %d: %w", id, err)
	}
	return &mail, nil
}

// Search runs a server-side filter query. matchAll selects AND semantics,
// otherwise any criterion may match (OR).
func (s *MailStore) Search(ctx context.Context, userID int64, f model.MailFilter, matchAll bool) ([]model.Mail, error) {
	mode := "or"
	if matchAll {
		mode = "and"
	}
	f.UserID = userID

	var mails []model.Mail
	path := fmt.Sprintf("/api/filter/%d/%s", userID, mode)
	if err := s.client.Post(ctx, path, f, &mails); err != nil {
		return nil, fmt.Errorf("searching mail: %w", err)
	}
	return mails, nil
}

// SendMail submits a draft for delivery. Drafts with pending attachment
// files go through the multipart endpoint, one JSON part for the metadata
// and one binary part per file.
func (s *MailStore) SendMail(ctx context.Context, draft model.Draft) error {
	var result ack

	if len(draft.Attachments) > 0 {
		err := s.client.PostMultipart(
			ctx, "/api/mail/send-with-attachments",
			"mail", draft, draft.Attachments, &result,
		)
		if err != nil {
			return fmt.Errorf("sending mail with attachments: %w", err)
		}
		return nil
	}

	if err := s.client.Post(ctx, "/api/mail/send", draft, &result); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// SaveDraft persists an unsent draft in the drafts folder.
func (s *MailStore) SaveDraft(ctx context.Context, draft model.Draft) error {
	var result ack
	if err := s.client.Post(ctx, "/api/mail/draft", draft, &result); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// MarkRead flags a mail as read.
func (s *MailStore) MarkRead(ctx context.Context, id int64) error {
	var result ack
	if err := s.client.Put(ctx, fmt.Sprintf("/api/mail/%d/read", id), nil, &result); err != nil {
		return fmt.Errorf("marking mail %d read: %w", id, err)
	}
	return nil
}

// DeleteMail removes a mail. The service soft-deletes into trash; deleting
// from trash is permanent.
func (s *MailStore) DeleteMail(ctx context.Context, id int64) error {
	var result ack
	if err := s.client.Delete(ctx, fmt.Sprintf("/api/mail/%d", id), &result); err != nil {
		return fmt.Errorf("deleting mail %d: %w", id, err)
	}
	return nil
}

// CopyMail duplicates a mail into the named folder; the original stays put.
func (s *MailStore) CopyMail(ctx context.Context, id int64, folder string) error {
	var result ack
	path := fmt.Sprintf("/api/folder/copy?mailId=%d&folderName=%s", id, url.QueryEscape(folder))
	if err := s.client.Post(ctx, path, nil, &result); err != nil {
		return fmt.Errorf("copying mail %d to %s: %w", id, folder, err)
	}
	return nil
}

// MoveMails reassigns a batch of mails to the named folder and returns the
// per-id outcome so callers can reconcile partial failures instead of
// assuming uniform success.
func (s *MailStore) MoveMails(ctx context.Context, ids []int64, folder string) (*MoveResult, error) {
	var result MoveResult
	req := moveRequest{MailIDs: ids, FolderName: folder}
	if err := s.client.Post(ctx, "/api/mail/move", req, &result); err != nil {
		return nil, fmt.Errorf("moving %d mails to %s: %w", len(ids), folder, err)
	}
	return &result, nil
}

// ListFolders returns the user-defined folder names, in creation order.
func (s *MailStore) ListFolders(ctx context.Context, email string) ([]string, error) {
	var folders []string
	if err := s.client.Get(ctx, "/api/mail/folders/"+url.PathEscape(email), &folders); err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	return folders, nil
}

// CreateFolder creates a user folder.
func (s *MailStore) CreateFolder(ctx context.Context, email, name string) error {
	var result ack
	path := fmt.Sprintf("/api/mail/folders/%s?folderName=%s", url.PathEscape(email), url.QueryEscape(name))
	if err := s.client.Post(ctx, path, nil, &result); err != nil {
		return fmt.Errorf("creating folder %s: %w", name, err)
	}
	return nil
}

// RenameFolder renames a user folder.
func (s *MailStore) RenameFolder(ctx context.Context, email, oldName, newName string) error {
	var result ack
	path := fmt.Sprintf(
		"/api/mail/folders/%s?oldName=%s&newName=%s",
		url.PathEscape(email), url.QueryEscape(oldName), url.QueryEscape(newName),
	)
	if err := s.client.Put(ctx, path, nil, &result); err != nil {
		return fmt.Errorf("renaming folder %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// DeleteFolder removes a user folder. Mails in it move back to inbox
// server-side.
func (s *MailStore) DeleteFolder(ctx context.Context, email, name string) error {
	var result ack
	path := fmt.Sprintf("/api/mail/folders/%s?folderName=%s", url.PathEscape(email), url.QueryEscape(name))
	if err := s.client.Delete(ctx, path, &result); err != nil {
		return fmt.Errorf("deleting folder %s: %w", name, err)
	}
	return nil
}

// ListContacts returns the account's contacts sorted by name server-side.
func (s *MailStore) ListContacts(ctx context.Context, email string, ascending bool) ([]model.Contact, error) {
	var contacts []model.Contact
	path := fmt.Sprintf("/api/mail/contacts?email=%s&sort=%t", url.QueryEscape(email), ascending)
	if err := s.client.Get(ctx, path, &contacts); err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// AddContact creates a contact for the account.
func (s *MailStore) AddContact(ctx context.Context, contact model.Contact, email string) error {
	path := "/api/mail/contacts?userEmail=" + url.QueryEscape(email)
	if err := s.client.Post(ctx, path, contact, nil); err != nil {
		return fmt.Errorf("adding contact %s: %w", contact.Name, err)
	}
	return nil
}

// EditContact updates an existing contact.
func (s *MailStore) EditContact(ctx context.Context, contact model.Contact) error {
	if err := s.client.Put(ctx, "/api/mail/contacts", contact, nil); err != nil {
		return fmt.Errorf("editing contact %d: %w", contact.ID, err)
	}
	return nil
}

// DeleteContact removes a contact.
func (s *MailStore) DeleteContact(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/api/mail/contacts/%d", id), nil); err != nil {
		return fmt.Errorf("deleting contact %d: %w", id, err)
	}
	return nil
}

// Login exchanges credentials for the account identity.
func (s *MailStore) Login(ctx context.Context, form UserForm) (*Account, error) {
	var account Account
	if err := s.client.Post(ctx, "/api/users/login", form, &account); err != nil {
		return nil, fmt.Errorf("logging in %s: %w", form.Email, err)
	}
	return &account, nil
}

// Register creates a new account and returns its identity.
func (s *MailStore) Register(ctx context.Context, form UserForm) (*Account, error) {
	var account Account
	if err := s.client.Post(ctx, "/api/users/register", form, &account); err != nil {
		return nil, fmt.Errorf("registering %s: %w", form.Email, err)
	}
	return &account, nil
}
