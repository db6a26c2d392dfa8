package timeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExpression(t *testing.T) {
	assert.NoError(t, ValidateExpression("30 9 * * *"))
	assert.NoError(t, ValidateExpression("0 12 25 12 *"))
	assert.Error(t, ValidateExpression("not an expression"))
	assert.Error(t, ValidateExpression("61 9 * * *"))
}

func TestNextRun(t *testing.T) {
	from := time.Date(2026, time.September, 14, 8, 0, 0, 0, time.UTC)

	next, err := NextRun("30 9 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 14, 9, 30, 0, 0, time.UTC), next)

	_, err = NextRun("bogus", from)
	assert.Error(t, err)
}

func TestNextWeeklyOccurrence(t *testing.T) {
	// 2026-09-14 is a Monday.
	monday := time.Date(2026, time.September, 14, 8, 0, 0, 0, time.UTC)
	fireAt := time.Date(2026, time.September, 14, 9, 30, 0, 0, time.UTC)

	next, err := NextWeeklyOccurrence([]int{1}, fireAt, monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 14, 9, 30, 0, 0, time.UTC), next, "same day when the time has not passed")

	afterFire := time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC)
	next, err = NextWeeklyOccurrence([]int{1}, fireAt, afterFire)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 21, 9, 30, 0, 0, time.UTC), next, "rolls a week once the time passed")

	next, err = NextWeeklyOccurrence([]int{3, 5}, fireAt, monday)
	require.NoError(t, err)
	assert.Equal(t, time.Weekday(3), next.Weekday(), "nearest of the set wins")

	_, err = NextWeeklyOccurrence(nil, fireAt, monday)
	assert.Error(t, err)
	_, err = NextWeeklyOccurrence([]int{8}, fireAt, monday)
	assert.Error(t, err)
}

func TestSafeParseInstant(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	parsed := SafeParseInstant(now, "2026-09-14T09:30:00Z")
	assert.Equal(t, time.Date(2026, time.September, 14, 9, 30, 0, 0, time.UTC), parsed)

	parsed = SafeParseInstant(now, "", "2026-09-14 09:30:00")
	assert.Equal(t, 9, parsed.Hour(), "falls through empty candidates")

	assert.Equal(t, now, SafeParseInstant(now), "no candidates")
	assert.Equal(t, now, SafeParseInstant(now, "garbage", "also garbage"), "unparsable falls back to now")
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2026, time.August, 29, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, time.August, 29, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameCalendarDay(a, b))
	assert.False(t, SameCalendarDay(a, b.AddDate(0, 0, 1)))
}
