package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPITimeUnmarshal(t *testing.T) {
	var ts APITime
	require.NoError(t, json.Unmarshal([]byte(`"2024-11-25T09:30:00"`), &ts))
	assert.Equal(t, time.Date(2024, 11, 25, 9, 30, 0, 0, time.Local), ts.Time)
}

func TestAPITimeUnmarshalRFC3339Fallback(t *testing.T) {
	var ts APITime
	require.NoError(t, json.Unmarshal([]byte(`"2024-11-25T09:30:00Z"`), &ts))
	assert.Equal(t, time.Date(2024, 11, 25, 9, 30, 0, 0, time.UTC), ts.Time)
}

func TestAPITimeUnmarshalNull(t *testing.T) {
	var ts APITime
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestAPITimeUnmarshalGarbage(t *testing.T) {
	var ts APITime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestAPITimeMarshal(t *testing.T) {
	ts := NewAPITime(time.Date(2024, 11, 25, 9, 30, 0, 0, time.Local))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-11-25T09:30:00"`, string(out))

	out, err = json.Marshal(APITime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
