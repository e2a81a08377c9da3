package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAddressList(t *testing.T) {
	assert.Nil(t, SplitAddressList(""))
	assert.Nil(t, SplitAddressList(" , ,, "))
	assert.Equal(t,
		[]string{"a@x.com", "b@y.com"},
		SplitAddressList(" a@x.com ,b@y.com,"),
	)
}

func TestBuildExactDateWindow(t *testing.T) {
	now := time.Date(2024, 11, 30, 10, 30, 0, 0, time.Local)

	f, err := Build(Input{ExactDate: "2024-11-25"}, now)
	require.NoError(t, err)

	day := time.Date(2024, 11, 25, 0, 0, 0, 0, time.Local)
	require.NotNil(t, f.ExactDate)
	require.NotNil(t, f.AfterDate)
	require.NotNil(t, f.BeforeDate)
	assert.True(t, f.ExactDate.Time.Equal(day))
	assert.True(t, f.AfterDate.Time.Equal(day))
	assert.True(t, f.BeforeDate.Time.Equal(day))
}

func TestBuildRejectsBadDate(t *testing.T) {
	_, err := Build(Input{ExactDate: "25/11/2024"}, time.Now())
	assert.Error(t, err)
}

func TestBuildExactDateBeatsRange(t *testing.T) {
	now := time.Date(2024, 11, 25, 12, 0, 0, 0, time.Local)
	f, err := Build(Input{ExactDate: "2024-11-25", DateRange: "1 week"}, now)
	require.NoError(t, err)
	require.NotNil(t, f.ExactDate)
	assert.True(t, f.AfterDate.Time.Equal(f.BeforeDate.Time))
}

func TestDateWindowWeeks(t *testing.T) {
	now := time.Date(2024, 11, 25, 12, 0, 0, 0, time.Local)

	after, before, err := DateWindow("1 week", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 18, 12, 0, 0, 0, time.Local), after)
	assert.Equal(t, time.Date(2024, 12, 2, 12, 0, 0, 0, time.Local), before)
}

func TestDateWindowDays(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	after, before, err := DateWindow("3 days", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.Local), after)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local), before)
}

func TestDateWindowMonthsUsesCalendarArithmetic(t *testing.T) {
	// A month is not 30 days: the window lands on the same day of month.
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)

	after, before, err := DateWindow("2 months", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), after)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.Local), before)
}

func TestDateWindowYears(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)

	after, before, err := DateWindow("1 year", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.Local), after)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), before)
}

func TestDateWindowSingularAndPlural(t *testing.T) {
	now := time.Now()
	a1, b1, err := DateWindow("1 day", now)
	require.NoError(t, err)
	a2, b2, err := DateWindow("1 days", now)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestDateWindowRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "week", "two weeks", "0 days", "-1 day", "3 fortnights"} {
		_, _, err := DateWindow(token, time.Now())
		assert.Error(t, err, "token %q", token)
	}
}

func TestBuildCarriesFlatCriteria(t *testing.T) {
	read := true
	prio := 1
	f, err := Build(Input{
		Senders:   "a@x.com, b@y.com",
		Receivers: "c@z.com",
		Subject:   " hello ",
		Read:      &read,
		Priority:  &prio,
		Folder:    "inbox",
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com", "b@y.com"}, f.Sender)
	assert.Equal(t, []string{"c@z.com"}, f.Receiver)
	assert.Equal(t, "hello", f.Subject)
	assert.Equal(t, &read, f.IsRead)
	assert.Equal(t, &prio, f.Priority)
	assert.Equal(t, "inbox", f.Folder)
	assert.Nil(t, f.ExactDate)
	assert.Nil(t, f.AfterDate)
}
