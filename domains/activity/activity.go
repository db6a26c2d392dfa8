package activity

import "time"

type EntryKind string

const (
	KindSent       EntryKind = "sent"
	KindScheduled  EntryKind = "scheduled"
	KindConnection EntryKind = "connection"
	KindError      EntryKind = "error"
)

type EntryStatus string

const (
	StatusSuccess EntryStatus = "success"
	StatusError   EntryStatus = "error"
	StatusPending EntryStatus = "pending"
)

// Entry is one user-visible event. Entries are never mutated after
// creation; only the journal that created them holds a reference.
type Entry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      EntryKind   `json:"type"`
	Status    EntryStatus `json:"status"`
	Message   string      `json:"message"`
	Details   string      `json:"details,omitempty"`
}

// DayGroup is one calendar-day bucket of the journal, labelled "Today",
// "Yesterday" or a full date. Entry order inside a bucket follows the
// journal (newest first).
type DayGroup struct {
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

// IActivityUsecase is the append-only activity journal. Append assigns
// the id and timestamp; entries are prepended so Entries() is always
// newest-first. The journal is process-wide and uncapped; bounded growth
// is out of contract and an operational concern for long-lived sessions.
type IActivityUsecase interface {
	Append(kind EntryKind, status EntryStatus, message string, details string) Entry
	Entries() []Entry
	GroupByDay(now time.Time) []DayGroup
	SetNotifier(fn func(Entry))
}
