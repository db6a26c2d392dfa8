package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainSchedule "github.com/wasched/wasched/domains/schedule"
)

func TestProjectScheduled_SafeTimestampFallback(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	item := ProjectScheduled(domainSchedule.ScheduledMessage{ID: "1"}, now)
	assert.Equal(t, now, item.ScheduledAt, "missing timestamp falls back to now")

	item = ProjectScheduled(domainSchedule.ScheduledMessage{ID: "1", ScheduledTime: "not a date"}, now)
	assert.Equal(t, now, item.ScheduledAt, "unparsable timestamp falls back to now")

	item = ProjectScheduled(domainSchedule.ScheduledMessage{
		ID:        "1",
		CreatedAt: "2026-09-01T08:00:00Z",
	}, now)
	assert.Equal(t, 8, item.ScheduledAt.Hour(), "createdAt is the second candidate")
}

func TestProjectScheduled_StatusBadge(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "sent", ProjectScheduled(domainSchedule.ScheduledMessage{Status: "sent"}, now).StatusBadge)
	assert.Equal(t, "failed", ProjectScheduled(domainSchedule.ScheduledMessage{Status: "failed"}, now).StatusBadge)
	assert.Equal(t, "pending", ProjectScheduled(domainSchedule.ScheduledMessage{Status: ""}, now).StatusBadge)
	assert.Equal(t, "pending", ProjectScheduled(domainSchedule.ScheduledMessage{Status: "weird"}, now).StatusBadge)
}

func TestProjectScheduled_WhenLabels(t *testing.T) {
	now := time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)

	today := ProjectScheduled(domainSchedule.ScheduledMessage{ScheduledTime: "2026-08-29T15:04:00Z"}, now)
	assert.Equal(t, "Today at 3:04 PM", today.WhenLabel)

	tomorrow := ProjectScheduled(domainSchedule.ScheduledMessage{ScheduledTime: "2026-08-30T09:30:00Z"}, now)
	assert.Equal(t, "Tomorrow at 9:30 AM", tomorrow.WhenLabel)

	later := ProjectScheduled(domainSchedule.ScheduledMessage{ScheduledTime: "2026-09-14T09:30:00Z"}, now)
	assert.Equal(t, "Sep 14 at 9:30 AM", later.WhenLabel)
}

func TestProjectScheduled_RecurrenceBadges(t *testing.T) {
	now := time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)

	infinite := ProjectScheduled(domainSchedule.ScheduledMessage{
		ScheduledTime:  "2026-09-14T09:30:00Z",
		RecurrenceType: "weekly",
		Weekdays:       []int{1, 3, 5},
		Occurrences:    domainSchedule.InfiniteOccurrences,
	}, now)
	assert.Equal(t, "∞", infinite.RecurrenceBadge)
	assert.Equal(t, "MWF", infinite.WeekdayBadge)
	require.NotNil(t, infinite.NextRun)
	assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, infinite.NextRun.Weekday())
	assert.True(t, infinite.NextRun.After(now))

	finite := ProjectScheduled(domainSchedule.ScheduledMessage{
		ScheduledTime:  "2026-09-14T09:30:00Z",
		RecurrenceType: "weekly",
		Weekdays:       []int{2},
		Occurrences:    4,
	}, now)
	assert.Equal(t, "4w", finite.RecurrenceBadge)

	repeated := ProjectScheduled(domainSchedule.ScheduledMessage{
		ScheduledTime: "2026-09-14T09:30:00Z",
		Occurrences:   3,
	}, now)
	assert.Equal(t, "3x", repeated.RecurrenceBadge)
	assert.Nil(t, repeated.NextRun)

	oneOff := ProjectScheduled(domainSchedule.ScheduledMessage{ScheduledTime: "2026-09-14T09:30:00Z"}, now)
	assert.Empty(t, oneOff.RecurrenceBadge)
	assert.Empty(t, oneOff.WeekdayBadge)
}

func TestView_UpdateReplacesSnapshot(t *testing.T) {
	view := NewViewService()

	view.Update([]domainSchedule.ScheduledMessage{
		{ID: "1", GroupName: "Sales Team"},
		{ID: "2", GroupName: "Support"},
	})
	require.Len(t, view.Items(), 2)

	view.Update([]domainSchedule.ScheduledMessage{{ID: "3", GroupName: "Ops"}})
	items := view.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ID)
}

func TestView_Notifier(t *testing.T) {
	view := NewViewService()

	notified := 0
	view.SetNotifier(func() { notified++ })

	view.Update(nil)
	view.Update([]domainSchedule.ScheduledMessage{{ID: "1"}})

	assert.Equal(t, 2, notified)
}
