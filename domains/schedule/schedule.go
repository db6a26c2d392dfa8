package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

type RecurrenceKind string

const (
	RecurrenceOnce   RecurrenceKind = "once"
	RecurrenceWeekly RecurrenceKind = "weekly"
)

// InfiniteOccurrences is the wire sentinel for "repeat until manually
// stopped". The backend treats -1 as infinite and any other non-positive
// value as invalid, so it must travel unchanged.
const InfiniteOccurrences = -1

// MaxOccurrences caps finite repetition.
const MaxOccurrences = 100

var weekdayShort = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RecurrenceRule is the schedule shape of a message: a one-off fire or a
// weekly pattern over a set of weekdays, with a finite or infinite repeat
// count. Weekdays use 0=Sunday..6=Saturday and are only meaningful when
// Kind is RecurrenceWeekly.
type RecurrenceRule struct {
	Kind        RecurrenceKind `json:"recurrenceType"`
	Weekdays    []int          `json:"weekdays,omitempty"`
	Occurrences int            `json:"occurrences"`
}

// Once returns the rule for a single fire.
func Once() RecurrenceRule {
	return RecurrenceRule{Kind: RecurrenceOnce, Occurrences: 1}
}

// Weekly returns a weekly rule over the given weekdays. Pass
// InfiniteOccurrences to repeat until manually stopped.
func Weekly(weekdays []int, occurrences int) RecurrenceRule {
	return RecurrenceRule{Kind: RecurrenceWeekly, Weekdays: weekdays, Occurrences: occurrences}
}

// OccurrencesOrSentinel returns the wire encoding of the repeat count:
// InfiniteOccurrences (-1) for infinite, else the positive count.
func (r RecurrenceRule) OccurrencesOrSentinel() int {
	if r.Kind == RecurrenceOnce {
		return 1
	}
	return r.Occurrences
}

// Infinite reports whether the rule repeats until manually stopped.
func (r RecurrenceRule) Infinite() bool {
	return r.Occurrences == InfiniteOccurrences
}

// Validate checks the rule's own invariants. Request-level constraints
// (future instant, group selection) live in the validations package.
func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RecurrenceOnce:
		return nil
	case RecurrenceWeekly:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("weekly recurrence requires at least one weekday")
		}
		for _, d := range r.Weekdays {
			if d < 0 || d > 6 {
				return fmt.Errorf("weekday must be between 0 and 6, got %d", d)
			}
		}
		if r.Occurrences != InfiniteOccurrences && (r.Occurrences < 1 || r.Occurrences > MaxOccurrences) {
			return fmt.Errorf("occurrences must be -1 or between 1 and %d", MaxOccurrences)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence type %q", r.Kind)
	}
}

// Expression serializes the rule into the 5-field schedule expression the
// backend consumes. One-off fires encode minute/hour/day/month of the
// instant; the year is NOT part of the contract, so a date more than a
// year out collapses to its month/day. That limitation is inherited from
// the backend wire format and deliberately not papered over here.
// Weekly fires encode only minute/hour; the weekday set travels as a
// separate wire field rather than being folded into the expression.
func (r RecurrenceRule) Expression(at time.Time) string {
	if r.Kind == RecurrenceWeekly {
		return fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	}
	return fmt.Sprintf("%d %d %d %d *", at.Minute(), at.Hour(), at.Day(), int(at.Month()))
}

// Describe renders the human-readable description sent alongside the wire
// payload and shown in the scheduled list.
func (r RecurrenceRule) Describe() string {
	if r.Kind == RecurrenceWeekly {
		days := make([]string, 0, len(r.Weekdays))
		for _, d := range r.Weekdays {
			if d >= 0 && d <= 6 {
				days = append(days, weekdayShort[d])
			}
		}
		if r.Infinite() {
			return fmt.Sprintf("Weekly on %s (infinite)", strings.Join(days, ", "))
		}
		return fmt.Sprintf("Weekly on %s (%d weeks)", strings.Join(days, ", "), r.Occurrences)
	}
	if r.Infinite() {
		return "Infinite occurrences"
	}
	if r.Occurrences > 1 {
		return fmt.Sprintf("Repeat %d times", r.Occurrences)
	}
	return ""
}

// WeekdayInitials renders the compact badge form used by the scheduled
// list, e.g. {1,3,5} -> "MWF".
func WeekdayInitials(weekdays []int) string {
	initials := [...]string{"S", "M", "T", "W", "T", "F", "S"}
	var b strings.Builder
	for _, d := range weekdays {
		if d >= 0 && d <= 6 {
			b.WriteString(initials[d])
		}
	}
	return b.String()
}

// Attachment is an opaque binary payload attached to a message. Preview
// generation is a UI concern; the core only checks type and size.
type Attachment struct {
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}

// SendRequest is an immediate-delivery submission built from composer
// state. Immutable once handed to the orchestrator.
type SendRequest struct {
	Content      string
	TargetGroups []string
	Attachments  []Attachment
}

// ScheduleRequest is a deferred submission. A fresh ScheduleRequest is
// built for updates too, paired with the id of the record being replaced.
type ScheduleRequest struct {
	Content      string
	TargetGroups []string
	SendAt       time.Time
	Recurrence   RecurrenceRule
	Attachments  []Attachment
}

// ScheduledMessage is the server-owned record of a pending schedule. Only
// the backend mutates it; the dashboard refreshes it into the local cache
// on every sync and never writes it back.
type ScheduledMessage struct {
	ID             string `json:"id"`
	Message        string `json:"message"`
	GroupName      string `json:"groupName"`
	ScheduledTime  string `json:"scheduledTime"`
	CreatedAt      string `json:"createdAt"`
	Status         string `json:"status"`
	Occurrences    int    `json:"occurrences,omitempty"`
	RecurrenceType string `json:"recurrenceType,omitempty"`
	Weekdays       []int  `json:"weekdays,omitempty"`
	Description    string `json:"description,omitempty"`
}

// SubmitResult carries the non-fatal outcome of a submission: warnings
// for fields that were partially accepted (skipped attachments) and, for
// updates, the signal that the caller should drop its editing selection.
type SubmitResult struct {
	Warnings     pkgError.FieldErrors `json:"warnings,omitempty"`
	ClearEditing bool                 `json:"clearEditing,omitempty"`
}

// ISubmitUsecase drives the submit/update/delete lifecycle against the
// backend. Operations validate locally first; a validation failure never
// reaches the network. Instances are safe for concurrent use, but there
// is no per-request dedup: two rapid identical schedules produce two
// backend records.
type ISubmitUsecase interface {
	SendNow(ctx context.Context, request SendRequest) (SubmitResult, error)
	Schedule(ctx context.Context, request ScheduleRequest) (SubmitResult, error)
	Update(ctx context.Context, id string, request ScheduleRequest) (SubmitResult, error)
	Cancel(ctx context.Context, id string) error
}

// SchedulePayload is the wire shape of a create/update call: multipart
// fields plus image parts. Weekdays are only emitted for weekly rules.
type SchedulePayload struct {
	GroupName      string
	Message        string
	CronTime       string
	Occurrences    int
	RecurrenceType string
	Weekdays       []int
	Description    string
	Images         []Attachment
}

// SendPayload is the wire shape of an immediate send.
type SendPayload struct {
	GroupName string
	Message   string
	Images    []Attachment
}

// IScheduleAPI is the backend surface the orchestrator and the sync loop
// consume for message operations.
type IScheduleAPI interface {
	Send(ctx context.Context, payload SendPayload) error
	CreateSchedule(ctx context.Context, payload SchedulePayload) error
	UpdateSchedule(ctx context.Context, id string, payload SchedulePayload) error
	DeleteSchedule(ctx context.Context, id string) error
	ListScheduled(ctx context.Context) ([]ScheduledMessage, error)
}

// IScheduleRefresher triggers an out-of-cycle refresh of the scheduled
// list, used after successful create/update/delete.
type IScheduleRefresher interface {
	RefreshScheduled(ctx context.Context)
}
