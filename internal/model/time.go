package model

import (
	"fmt"
	"strings"
	"time"
)

// apiTimeLayout is the timestamp format the mail service speaks: ISO-8601
// without a zone offset (Java LocalDateTime). The client does no timezone
// conversion, only date arithmetic, so values are parsed in the local zone.
const apiTimeLayout = "2006-01-02T15:04:05"

// APITime wraps time.Time with the service's JSON timestamp encoding.
type APITime struct {
	time.Time
}

// NewAPITime wraps t as an APITime.
func NewAPITime(t time.Time) APITime {
	return APITime{Time: t}
}

// MarshalJSON encodes the time in the service layout. The zero value
// encodes as null.
func (t APITime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(apiTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts the service layout, with RFC 3339 as a fallback
// for servers that append fractional seconds or an offset.
func (t *APITime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.ParseInLocation(apiTimeLayout, s, time.Local); err == nil {
		t.Time = parsed
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}

	return fmt.Errorf("parsing timestamp %q", s)
}
