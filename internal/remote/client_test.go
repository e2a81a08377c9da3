package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/model"
)

func TestFetchFolderDecodesMail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mail/inbox/user@example.com", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{
				"id": 11,
				"sender": "peer@example.com",
				"receiver": "user@example.com",
				"subject": "hello",
				"body": "text",
				"timestamp": "2024-11-25T09:30:00",
				"priority": 1,
				"folderName": "inbox",
				"isRead": false
			}
		]`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	mails, err := s.FetchFolder(context.Background(), "user@example.com", model.FolderInbox)
	require.NoError(t, err)
	require.Len(t, mails, 1)

	m := mails[0]
	assert.Equal(t, int64(11), m.ID)
	assert.Equal(t, "peer@example.com", m.Sender)
	assert.Equal(t, model.PriorityHigh, m.Priority)
	assert.False(t, m.IsRead)
	assert.Equal(t,
		time.Date(2024, 11, 25, 9, 30, 0, 0, time.Local),
		m.Timestamp.Time,
	)
}

func TestCustomFolderRoute(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	_, err := s.FetchFolder(context.Background(), "user@example.com", "work stuff")
	require.NoError(t, err)
	assert.Equal(t, "/api/mail/folder/user@example.com/work%20stuff", gotPath)
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	_, err := s.FetchFolder(context.Background(), "user@example.com", model.FolderInbox)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestServiceErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message": "folder does not exist"}`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	err := s.CreateFolder(context.Background(), "user@example.com", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder does not exist")
	assert.False(t, IsAuthError(err))
}

func TestRateLimitRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"message": "ok"}`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	err := s.MarkRead(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestMoveMailsBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/mail/move", r.URL.Path)

		var req moveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int64{1, 2, 3}, req.MailIDs)
		assert.Equal(t, "archive", req.FolderName)

		io.WriteString(w, `{"moved": [1, 3], "failed": [2]}`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	result, err := s.MoveMails(context.Background(), []int64{1, 2, 3}, "archive")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, result.Moved)
	assert.Equal(t, []int64{2}, result.Failed)
}

func TestSearchSelectsMatchMode(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var f model.MailFilter
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f))
		assert.Equal(t, int64(7), f.UserID)
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)

	_, err := s.Search(context.Background(), 7, model.MailFilter{Subject: "x"}, true)
	require.NoError(t, err)
	assert.Equal(t, "/api/filter/7/and", gotPath)

	_, err = s.Search(context.Background(), 7, model.MailFilter{Subject: "x"}, false)
	require.NoError(t, err)
	assert.Equal(t, "/api/filter/7/or", gotPath)
}

func TestSendMailWithAttachmentsIsMultipart(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(attachment, []byte("attachment payload"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mail/send-with-attachments", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var draft model.Draft
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("mail")), &draft))
		assert.Equal(t, []string{"alice@example.com"}, draft.Receivers)

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "notes.txt", files[0].Filename)

		io.WriteString(w, `{"message": "sent"}`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	err := s.SendMail(context.Background(), model.Draft{
		Sender:      "user@example.com",
		Receivers:   []string{"alice@example.com"},
		Subject:     "with file",
		Priority:    model.PriorityNormal,
		Attachments: []string{attachment},
	})
	require.NoError(t, err)
}

func TestSendMailWithoutAttachmentsIsPlainJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mail/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		io.WriteString(w, `{"message": "sent"}`)
	}))
	defer server.Close()

	s := NewMailStore(server.URL)
	err := s.SendMail(context.Background(), model.Draft{
		Sender:    "user@example.com",
		Receivers: []string{"alice@example.com"},
	})
	require.NoError(t, err)
}
