package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainActivity "github.com/wasched/wasched/domains/activity"
)

type serviceActivity struct {
	mu      sync.RWMutex
	entries []domainActivity.Entry
	notify  func(domainActivity.Entry)
}

func NewActivityService() domainActivity.IActivityUsecase {
	return &serviceActivity{}
}

// Append records a new journal entry at the head of the list, newest
// first. Timestamp and ID are assigned here so callers only describe
// what happened.
func (s *serviceActivity) Append(kind domainActivity.EntryKind, status domainActivity.EntryStatus, message, details string) domainActivity.Entry {
	entry := domainActivity.Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Kind:      kind,
		Status:    status,
		Message:   message,
		Details:   details,
	}

	s.mu.Lock()
	s.entries = append([]domainActivity.Entry{entry}, s.entries...)
	notify := s.notify
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"kind":   string(kind),
		"status": string(status),
	}).Debug("[ACTIVITY] " + message)

	if notify != nil {
		notify(entry)
	}
	return entry
}

func (s *serviceActivity) Entries() []domainActivity.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domainActivity.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// GroupByDay buckets entries by calendar day, preserving the newest
// first order. The current and previous day get the friendly labels
// "Today" and "Yesterday"; older days use the full date.
func (s *serviceActivity) GroupByDay(now time.Time) []domainActivity.DayGroup {
	entries := s.Entries()

	var groups []domainActivity.DayGroup
	for _, entry := range entries {
		label := dayLabel(entry.Timestamp, now)
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Entries = append(groups[n-1].Entries, entry)
			continue
		}
		groups = append(groups, domainActivity.DayGroup{Label: label, Entries: []domainActivity.Entry{entry}})
	}
	return groups
}

func (s *serviceActivity) SetNotifier(fn func(domainActivity.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func dayLabel(ts, now time.Time) string {
	y1, m1, d1 := ts.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y2, m2, d2 = yesterday.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Yesterday"
	}
	return ts.Format("January 2, 2006")
}
