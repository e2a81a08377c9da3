// Package export writes mail out of the client as RFC 5322 .eml files.
package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/MohamedEliwa204/mail/internal/model"
)

// WriteEML serializes a mail to dir as mail-<id>.eml and returns the file
// path. Attachments must already carry their payload; list-view mail only
// has metadata.
func WriteEML(dir string, m model.Mail) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("mail-%d.eml", m.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := writeMessage(f, m); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func writeMessage(w io.Writer, m model.Mail) error {
	var h mail.Header
	if m.Timestamp.IsZero() {
		h.SetDate(time.Now())
	} else {
		h.SetDate(m.Timestamp.Time)
	}
	h.SetSubject(m.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: m.Sender}})
	h.SetAddressList("To", receiverList(m.Receiver))

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return err
	}

	var th mail.InlineHeader
	th.Set("Content-Type", "text/plain; charset=utf-8")
	tw, err := mw.CreateSingleInline(th)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(tw, m.Body); err != nil {
		tw.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}

	for _, a := range m.Attachments {
		var ah mail.AttachmentHeader
		if a.ContentType != "" {
			ah.Set("Content-Type", a.ContentType)
		}
		ah.SetFilename(a.FileName)

		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return err
		}
		if _, err := aw.Write(attachmentPayload(a.Data)); err != nil {
			aw.Close()
			return err
		}
		if err := aw.Close(); err != nil {
			return err
		}
	}

	return mw.Close()
}

// attachmentPayload decodes the service's base64 attachment body, falling
// back to the raw bytes when it is not base64.
func attachmentPayload(data string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(data); err == nil {
		return decoded
	}
	return []byte(data)
}

// receiverList splits the service's comma joined receiver field into
// individual addresses.
func receiverList(receiver string) []*mail.Address {
	var addrs []*mail.Address
	for _, part := range strings.Split(receiver, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			addrs = append(addrs, &mail.Address{Address: part})
		}
	}
	return addrs
}
