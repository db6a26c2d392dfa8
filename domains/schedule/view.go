package schedule

import "time"

// ScheduledItem is the display projection of a ScheduledMessage. All
// fields are derived; the record itself stays server-owned.
type ScheduledItem struct {
	ID              string     `json:"id"`
	Message         string     `json:"message"`
	GroupName       string     `json:"groupName"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	WhenLabel       string     `json:"whenLabel"`
	StatusBadge     string     `json:"statusBadge"`
	RecurrenceBadge string     `json:"recurrenceBadge,omitempty"`
	WeekdayBadge    string     `json:"weekdayBadge,omitempty"`
	Description     string     `json:"description,omitempty"`
	NextRun         *time.Time `json:"nextRun,omitempty"`
}

// IViewUsecase holds the latest projected scheduled list. Update
// replaces the snapshot wholesale; readers get copies.
type IViewUsecase interface {
	Update(records []ScheduledMessage)
	Items() []ScheduledItem
	SetNotifier(fn func())
}
