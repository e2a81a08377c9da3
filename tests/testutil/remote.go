// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
)

// Account is the identity used by test sessions.
var Account = session.Session{
	UserID: 7,
	Name:   "Test User",
	Email:  "tester@example.com",
}

// Provider returns a session provider for the test account.
func Provider() session.Provider {
	return session.Static{Session: Account}
}

// FakeStore is an in-memory remote.Store. Responses are configured through
// its fields; mutating calls are recorded for assertions.
type FakeStore struct {
	mu sync.Mutex

	// Configured responses.
	Folders       map[string][]model.Mail
	SortedMails   []model.Mail
	SearchResults []model.Mail
	MailsByID     map[int64]*model.Mail
	UserFolders   []string
	Contacts      []model.Contact
	MoveResult    *remote.MoveResult

	// Err, when set, fails every call.
	Err error

	// FailDeleteIDs lists mail ids whose delete should fail.
	FailDeleteIDs map[int64]bool

	// Recorded calls.
	DeletedIDs  []int64
	MarkedRead  []int64
	CopiedIDs   []int64
	CopyTargets []string
	MoveCalls   [][]int64
	MoveTargets []string
	SentDrafts  []model.Draft
	SavedDrafts []model.Draft
	FetchCount  int
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Folders:       make(map[string][]model.Mail),
		MailsByID:     make(map[int64]*model.Mail),
		FailDeleteIDs: make(map[int64]bool),
	}
}

var _ remote.Store = (*FakeStore)(nil)

func (f *FakeStore) FetchFolder(_ context.Context, _, folder string) ([]model.Mail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCount++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Folders[folder], nil
}

func (f *FakeStore) FetchSorted(_ context.Context, _, _ string, _ bool) ([]model.Mail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCount++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.SortedMails, nil
}

func (f *FakeStore) FetchMail(_ context.Context, id int64) (*model.Mail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.MailsByID[id], nil
}

func (f *FakeStore) Search(_ context.Context, _ int64, _ model.MailFilter, _ bool) ([]model.Mail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCount++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.SearchResults, nil
}

func (f *FakeStore) SendMail(_ context.Context, draft model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.SentDrafts = append(f.SentDrafts, draft)
	return nil
}

func (f *FakeStore) SaveDraft(_ context.Context, draft model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.SavedDrafts = append(f.SavedDrafts, draft)
	return nil
}

func (f *FakeStore) MarkRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.MarkedRead = append(f.MarkedRead, id)
	return nil
}

func (f *FakeStore) DeleteMail(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if f.FailDeleteIDs[id] {
		return ErrDeleteRefused
	}
	f.DeletedIDs = append(f.DeletedIDs, id)
	return nil
}

func (f *FakeStore) CopyMail(_ context.Context, id int64, folder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.CopiedIDs = append(f.CopiedIDs, id)
	f.CopyTargets = append(f.CopyTargets, folder)
	return nil
}

func (f *FakeStore) MoveMails(_ context.Context, ids []int64, folder string) (*remote.MoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.MoveCalls = append(f.MoveCalls, ids)
	f.MoveTargets = append(f.MoveTargets, folder)
	if f.MoveResult != nil {
		return f.MoveResult, nil
	}
	return &remote.MoveResult{Moved: ids}, nil
}

func (f *FakeStore) ListFolders(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.UserFolders, nil
}

func (f *FakeStore) CreateFolder(_ context.Context, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.UserFolders = append(f.UserFolders, name)
	return nil
}

func (f *FakeStore) RenameFolder(_ context.Context, _, oldName, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for i, n := range f.UserFolders {
		if n == oldName {
			f.UserFolders[i] = newName
		}
	}
	return nil
}

func (f *FakeStore) DeleteFolder(_ context.Context, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	kept := f.UserFolders[:0]
	for _, n := range f.UserFolders {
		if n != name {
			kept = append(kept, n)
		}
	}
	f.UserFolders = kept
	return nil
}

func (f *FakeStore) ListContacts(_ context.Context, _ string, _ bool) ([]model.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Contacts, nil
}

func (f *FakeStore) AddContact(_ context.Context, contact model.Contact, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Contacts = append(f.Contacts, contact)
	return nil
}

func (f *FakeStore) EditContact(_ context.Context, contact model.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for i, c := range f.Contacts {
		if c.ID == contact.ID {
			f.Contacts[i] = contact
		}
	}
	return nil
}

func (f *FakeStore) DeleteContact(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	kept := f.Contacts[:0]
	for _, c := range f.Contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.Contacts = kept
	return nil
}

func (f *FakeStore) Login(_ context.Context, form remote.UserForm) (*remote.Account, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return &remote.Account{ID: Account.UserID, Name: Account.Name, Email: form.Email}, nil
}

func (f *FakeStore) Register(_ context.Context, form remote.UserForm) (*remote.Account, error) {
	return f.Login(context.Background(), form)
}
