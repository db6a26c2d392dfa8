package validations

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasched/wasched/config"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

func TestMain(m *testing.M) {
	if _, err := config.Load(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func fieldsOf(t *testing.T, err error) pkgError.FieldErrors {
	t.Helper()
	var verr pkgError.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr.Fields
}

func TestValidateSendRequest_EmptyContentAndGroup(t *testing.T) {
	err := ValidateSendRequest(domainSchedule.SendRequest{})
	fields := fieldsOf(t, err)

	assert.Len(t, fields, 2)
	assert.Equal(t, "Message is required", fields["message"])
	assert.Equal(t, "Please select a group", fields["group"])
}

func TestValidateSendRequest_WhitespaceOnlyContent(t *testing.T) {
	err := ValidateSendRequest(domainSchedule.SendRequest{
		Content:      "   \n\t  ",
		TargetGroups: []string{"Sales Team"},
	})
	fields := fieldsOf(t, err)
	assert.Equal(t, "Message is required", fields["message"])
}

func TestValidateSendRequest_ContentTooLong(t *testing.T) {
	err := ValidateSendRequest(domainSchedule.SendRequest{
		Content:      strings.Repeat("a", config.Global.Composer.MaxMessageLength+1),
		TargetGroups: []string{"Sales Team"},
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields["message"], "Message must be less than")
}

func TestValidateSendRequest_Valid(t *testing.T) {
	err := ValidateSendRequest(domainSchedule.SendRequest{
		Content:      "Hello",
		TargetGroups: []string{"Sales Team"},
	})
	assert.NoError(t, err)
}

func TestValidateScheduleRequest_PastInstantRejected(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	cases := map[string]time.Time{
		"equal to now": now,
		"in the past":  now.Add(-time.Minute),
	}
	for name, sendAt := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateScheduleRequest(domainSchedule.ScheduleRequest{
				Content:      "Hello",
				TargetGroups: []string{"Sales Team"},
				SendAt:       sendAt,
				Recurrence:   domainSchedule.Once(),
			}, now)
			fields := fieldsOf(t, err)
			assert.Equal(t, "Scheduled time must be in the future", fields["datetime"])
		})
	}
}

func TestValidateScheduleRequest_FutureInstantAccepted(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	err := ValidateScheduleRequest(domainSchedule.ScheduleRequest{
		Content:      "Hello",
		TargetGroups: []string{"Sales Team"},
		SendAt:       now.Add(time.Second),
		Recurrence:   domainSchedule.Once(),
	}, now)
	assert.NoError(t, err)
}

func TestValidateScheduleRequest_MissingInstant(t *testing.T) {
	err := ValidateScheduleRequest(domainSchedule.ScheduleRequest{
		Content:      "Hello",
		TargetGroups: []string{"Sales Team"},
		Recurrence:   domainSchedule.Once(),
	}, time.Now())
	fields := fieldsOf(t, err)
	assert.Equal(t, "Date and time are required", fields["datetime"])
}

func TestValidateScheduleRequest_WeeklyNeedsWeekdays(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	request := domainSchedule.ScheduleRequest{
		Content:      "Hello",
		TargetGroups: []string{"Sales Team"},
		SendAt:       now.Add(time.Hour),
		Recurrence:   domainSchedule.Weekly(nil, domainSchedule.InfiniteOccurrences),
	}

	fields := fieldsOf(t, ValidateScheduleRequest(request, now))
	assert.Equal(t, "Please select at least one weekday", fields["weekdays"])

	request.Recurrence = domainSchedule.Weekly([]int{1, 3, 5}, domainSchedule.InfiniteOccurrences)
	assert.NoError(t, ValidateScheduleRequest(request, now))
}

func TestValidateScheduleRequest_OccurrenceBounds(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	base := domainSchedule.ScheduleRequest{
		Content:      "Hello",
		TargetGroups: []string{"Sales Team"},
		SendAt:       now.Add(time.Hour),
	}

	base.Recurrence = domainSchedule.Weekly([]int{1}, 0)
	fields := fieldsOf(t, ValidateScheduleRequest(base, now))
	assert.Contains(t, fields["occurrences"], "between 1 and")

	base.Recurrence = domainSchedule.Weekly([]int{1}, domainSchedule.MaxOccurrences+1)
	fields = fieldsOf(t, ValidateScheduleRequest(base, now))
	assert.Contains(t, fields["occurrences"], "between 1 and")

	base.Recurrence = domainSchedule.Weekly([]int{1}, domainSchedule.MaxOccurrences)
	assert.NoError(t, ValidateScheduleRequest(base, now))

	base.Recurrence = domainSchedule.Weekly([]int{1}, domainSchedule.InfiniteOccurrences)
	assert.NoError(t, ValidateScheduleRequest(base, now), "infinite sentinel bypasses the bounds")
}

func TestAcceptAttachments_PartialAcceptance(t *testing.T) {
	image := func(size int64) domainSchedule.Attachment {
		return domainSchedule.Attachment{Filename: "a.png", MimeType: "image/png", Size: size}
	}

	accepted, note := AcceptAttachments([]domainSchedule.Attachment{
		image(1024),
		{Filename: "doc.pdf", MimeType: "application/pdf", Size: 1024},
		image(config.Global.Composer.MaxImageSize + 1),
		image(2048),
	})
	assert.Len(t, accepted, 2)
	assert.Contains(t, note, "Some files were skipped")
}

func TestAcceptAttachments_CapsCount(t *testing.T) {
	var attachments []domainSchedule.Attachment
	for i := 0; i < config.Global.Composer.MaxImages+2; i++ {
		attachments = append(attachments, domainSchedule.Attachment{MimeType: "image/jpeg", Size: 10})
	}

	accepted, note := AcceptAttachments(attachments)
	assert.Len(t, accepted, config.Global.Composer.MaxImages)
	assert.NotEmpty(t, note)
}

func TestAcceptAttachments_AllGood(t *testing.T) {
	accepted, note := AcceptAttachments([]domainSchedule.Attachment{
		{MimeType: "image/png", Size: 100},
	})
	assert.Len(t, accepted, 1)
	assert.Empty(t, note)
}
