package validations

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wasched/wasched/config"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
	"github.com/wasched/wasched/pkg/timeutils"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

// ValidateSendRequest checks an immediate-delivery request. All
// violations are collected; a nil return means the request may be
// submitted.
func ValidateSendRequest(request domainSchedule.SendRequest) error {
	fields := pkgError.FieldErrors{}
	contentErrors(request.Content, fields)
	groupErrors(request.TargetGroups, fields)
	if len(fields) == 0 {
		return nil
	}
	return pkgError.ValidationError{Fields: fields}
}

// ValidateScheduleRequest checks a deferred request: the send-now rules
// plus instant and recurrence constraints. now is injected so callers
// and tests agree on "the future".
func ValidateScheduleRequest(request domainSchedule.ScheduleRequest, now time.Time) error {
	fields := pkgError.FieldErrors{}
	contentErrors(request.Content, fields)
	groupErrors(request.TargetGroups, fields)

	if request.SendAt.IsZero() {
		fields["datetime"] = "Date and time are required"
	} else if !request.SendAt.After(now) {
		fields["datetime"] = "Scheduled time must be in the future"
	}

	rule := request.Recurrence
	if rule.Kind == domainSchedule.RecurrenceWeekly && len(rule.Weekdays) == 0 {
		fields["weekdays"] = "Please select at least one weekday"
	}
	if !rule.Infinite() {
		occurrences := rule.OccurrencesOrSentinel()
		if occurrences < 1 || occurrences > domainSchedule.MaxOccurrences {
			fields["occurrences"] = fmt.Sprintf("Occurrences must be between 1 and %d", domainSchedule.MaxOccurrences)
		}
	}
	if err := rule.Validate(); err != nil && fields["weekdays"] == "" && fields["occurrences"] == "" {
		fields["recurrence"] = err.Error()
	}

	// The wire expression must parse under the backend's cron grammar
	// before anything is submitted.
	if fields["datetime"] == "" {
		if err := timeutils.ValidateExpression(rule.Expression(request.SendAt)); err != nil {
			fields["datetime"] = "Scheduled time could not be encoded"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return pkgError.ValidationError{Fields: fields}
}

func contentErrors(content string, fields pkgError.FieldErrors) {
	maxLen := config.Global.Composer.MaxMessageLength
	err := validation.Validate(strings.TrimSpace(content),
		validation.Required.Error("Message is required"),
	)
	if err != nil {
		fields["message"] = err.Error()
		return
	}
	if err := validation.Validate(content, validation.RuneLength(0, maxLen).Error(
		fmt.Sprintf("Message must be less than %d characters", maxLen))); err != nil {
		fields["message"] = err.Error()
	}
}

func groupErrors(groups []string, fields pkgError.FieldErrors) {
	if err := validation.Validate(groups, validation.Required.Error("Please select a group")); err != nil {
		fields["group"] = err.Error()
	}
}

// AcceptAttachments applies the partial-acceptance policy: non-image or
// oversized items are skipped, at most MaxImages survive, and a single
// images field note reports the skips. The accepted subset still
// submits; the note never blocks.
func AcceptAttachments(attachments []domainSchedule.Attachment) (accepted []domainSchedule.Attachment, note string) {
	maxSize := config.Global.Composer.MaxImageSize
	maxCount := config.Global.Composer.MaxImages

	skipped := 0
	for _, att := range attachments {
		if !strings.HasPrefix(att.MimeType, "image/") || att.Size > maxSize {
			skipped++
			continue
		}
		accepted = append(accepted, att)
	}
	if len(accepted) > maxCount {
		skipped += len(accepted) - maxCount
		accepted = accepted[:maxCount]
	}
	if skipped > 0 {
		note = fmt.Sprintf("Some files were skipped. Only up to %d images under %s are allowed.",
			maxCount, humanize.IBytes(uint64(maxSize)))
	}
	return accepted, note
}
