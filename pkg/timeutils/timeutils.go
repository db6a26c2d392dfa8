package timeutils

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// exprParser accepts the 5-field expressions the backend consumes
// (minute hour dom month dow).
var exprParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateExpression checks that a generated schedule expression parses
// under a standard 5-field cron grammar.
func ValidateExpression(expr string) error {
	_, err := exprParser.Parse(expr)
	return err
}

// NextRun returns the first fire time of expr strictly after from.
func NextRun(expr string, from time.Time) (time.Time, error) {
	sched, err := exprParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule expression %q: %w", expr, err)
	}
	return sched.Next(from), nil
}

// NextWeeklyOccurrence returns the next instant matching one of the given
// weekdays (0=Sunday..6=Saturday) at the hour and minute of fireAt,
// strictly after from. Search is bounded to a year.
func NextWeeklyOccurrence(weekdays []int, fireAt time.Time, from time.Time) (time.Time, error) {
	if len(weekdays) == 0 {
		return time.Time{}, fmt.Errorf("at least one weekday is required")
	}
	target := make(map[int]bool, len(weekdays))
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return time.Time{}, fmt.Errorf("weekday must be between 0 and 6, got %d", d)
		}
		target[d] = true
	}

	candidate := time.Date(from.Year(), from.Month(), from.Day(), fireAt.Hour(), fireAt.Minute(), 0, 0, from.Location())
	if !candidate.After(from) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	for i := 0; i < 366; i++ {
		if target[int(candidate.Weekday())] {
			return candidate, nil
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("no matching weekday within a year")
}

// parseLayouts are the timestamp shapes the backend has been seen to
// emit for scheduledTime/createdAt.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SafeParseInstant parses the first non-empty candidate timestamp,
// falling back to now when every candidate is absent or unparsable.
// Lossy but crash-safe: a record with a broken timestamp still renders.
func SafeParseInstant(now time.Time, candidates ...string) time.Time {
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		for _, layout := range parseLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return now
}

// SameCalendarDay reports whether a and b fall on the same local day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
