package export

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEliwa204/mail/internal/model"
)

func TestWriteEML(t *testing.T) {
	dir := t.TempDir()

	mail := model.Mail{
		ID:        42,
		Sender:    "peer@example.com",
		Receiver:  "user@example.com, other@example.com",
		Subject:   "quarterly report",
		Body:      "see attached",
		Timestamp: model.NewAPITime(time.Date(2024, 11, 25, 9, 30, 0, 0, time.UTC)),
		Attachments: []model.Attachment{
			{
				FileName:    "report.txt",
				ContentType: "text/plain",
				Data:        base64.StdEncoding.EncodeToString([]byte("numbers")),
			},
		},
	}

	path, err := WriteEML(dir, mail)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mail-42.eml"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "Subject: quarterly report")
	assert.Contains(t, content, "peer@example.com")
	assert.Contains(t, content, "other@example.com")
	assert.Contains(t, content, "see attached")
	assert.Contains(t, content, "report.txt")
}

func TestWriteEMLCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	_, err := WriteEML(dir, model.Mail{ID: 1, Sender: "a@b.c", Receiver: "d@e.f"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "mail-1.eml"))
	assert.NoError(t, err)
}

func TestAttachmentPayloadFallsBackToRaw(t *testing.T) {
	assert.Equal(t, []byte("numbers"), attachmentPayload(base64.StdEncoding.EncodeToString([]byte("numbers"))))
	assert.Equal(t, []byte("not base64!!"), attachmentPayload("not base64!!"))
}
