package usecase

import (
	"fmt"
	"sync"
	"time"

	domainSchedule "github.com/wasched/wasched/domains/schedule"
	"github.com/wasched/wasched/pkg/timeutils"
)

type serviceView struct {
	mu     sync.RWMutex
	items  []domainSchedule.ScheduledItem
	notify func()
}

func NewViewService() domainSchedule.IViewUsecase {
	return &serviceView{}
}

// Update replaces the snapshot wholesale with a fresh projection of the
// given records. Called on every sync; last write wins.
func (s *serviceView) Update(records []domainSchedule.ScheduledMessage) {
	now := time.Now()
	items := make([]domainSchedule.ScheduledItem, len(records))
	for i, record := range records {
		items[i] = ProjectScheduled(record, now)
	}

	s.mu.Lock()
	s.items = items
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *serviceView) Items() []domainSchedule.ScheduledItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domainSchedule.ScheduledItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *serviceView) SetNotifier(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// ProjectScheduled derives the display fields of a single record. An
// absent or unparsable timestamp falls back to now rather than failing
// the whole list.
func ProjectScheduled(record domainSchedule.ScheduledMessage, now time.Time) domainSchedule.ScheduledItem {
	at := timeutils.SafeParseInstant(now, record.ScheduledTime, record.CreatedAt)

	item := domainSchedule.ScheduledItem{
		ID:          record.ID,
		Message:     record.Message,
		GroupName:   record.GroupName,
		ScheduledAt: at,
		WhenLabel:   whenLabel(at, now),
		StatusBadge: statusBadge(record.Status),
		Description: record.Description,
	}

	if record.RecurrenceType == string(domainSchedule.RecurrenceWeekly) {
		item.WeekdayBadge = domainSchedule.WeekdayInitials(record.Weekdays)
		if record.Occurrences == domainSchedule.InfiniteOccurrences {
			item.RecurrenceBadge = "∞"
		} else if record.Occurrences > 0 {
			item.RecurrenceBadge = fmt.Sprintf("%dw", record.Occurrences)
		}
		if next, err := timeutils.NextWeeklyOccurrence(record.Weekdays, at, now); err == nil {
			item.NextRun = &next
		}
	} else if record.Occurrences > 1 {
		item.RecurrenceBadge = fmt.Sprintf("%dx", record.Occurrences)
	}

	return item
}

func statusBadge(status string) string {
	switch status {
	case "sent", "failed", "pending":
		return status
	default:
		return "pending"
	}
}

func whenLabel(at, now time.Time) string {
	clock := at.Format("3:04 PM")
	switch {
	case timeutils.SameCalendarDay(at, now):
		return "Today at " + clock
	case timeutils.SameCalendarDay(at, now.AddDate(0, 0, 1)):
		return "Tomorrow at " + clock
	default:
		return at.Format("Jan 2") + " at " + clock
	}
}
