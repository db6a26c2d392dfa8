package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domainActivity "github.com/wasched/wasched/domains/activity"
	domainConnection "github.com/wasched/wasched/domains/connection"
	domainGroup "github.com/wasched/wasched/domains/group"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
	"github.com/wasched/wasched/validations"
)

// SubmitService drives send-now, schedule, update and cancel against
// the backend: validate locally, submit, classify on failure, journal
// the outcome. It implements schedule.ISubmitUsecase and
// group.IPromoteUsecase.
type SubmitService struct {
	api      domainSchedule.IScheduleAPI
	groupAPI domainGroup.IGroupAPI
	connAPI  domainConnection.IConnectionAPI
	activity domainActivity.IActivityUsecase
	conn     domainConnection.IConnectionUsecase

	mu        sync.RWMutex
	refresher domainSchedule.IScheduleRefresher
}

var (
	_ domainSchedule.ISubmitUsecase = (*SubmitService)(nil)
	_ domainGroup.IPromoteUsecase   = (*SubmitService)(nil)
)

func NewSubmitService(
	api domainSchedule.IScheduleAPI,
	groupAPI domainGroup.IGroupAPI,
	connAPI domainConnection.IConnectionAPI,
	activity domainActivity.IActivityUsecase,
	conn domainConnection.IConnectionUsecase,
) *SubmitService {
	return &SubmitService{
		api:      api,
		groupAPI: groupAPI,
		connAPI:  connAPI,
		activity: activity,
		conn:     conn,
	}
}

// SetRefresher wires the out-of-cycle list refresh. The sync loop is
// built after the submit service, so the reference arrives late.
func (s *SubmitService) SetRefresher(r domainSchedule.IScheduleRefresher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresher = r
}

// SendNow validates and delivers a message immediately, one backend
// call per target group.
func (s *SubmitService) SendNow(ctx context.Context, request domainSchedule.SendRequest) (domainSchedule.SubmitResult, error) {
	if err := validations.ValidateSendRequest(request); err != nil {
		return domainSchedule.SubmitResult{}, err
	}

	accepted, note := validations.AcceptAttachments(request.Attachments)
	result := resultWithNote(note)
	suffix := imageSuffix(len(accepted))

	for _, groupName := range request.TargetGroups {
		payload := domainSchedule.SendPayload{
			GroupName: groupName,
			Message:   request.Content,
			Images:    accepted,
		}
		if err := s.api.Send(ctx, payload); err != nil {
			return result, s.fail(ctx, err, fmt.Sprintf("Failed to send message to %s", groupName))
		}
		s.activity.Append(domainActivity.KindSent, domainActivity.StatusSuccess,
			fmt.Sprintf("Message sent instantly to %s%s", groupName, suffix), "")
	}
	return result, nil
}

// Schedule validates and registers a deferred message, one backend
// record per target group. On success the scheduled list is refreshed
// out of cycle.
func (s *SubmitService) Schedule(ctx context.Context, request domainSchedule.ScheduleRequest) (domainSchedule.SubmitResult, error) {
	if err := validations.ValidateScheduleRequest(request, time.Now()); err != nil {
		return domainSchedule.SubmitResult{}, err
	}

	accepted, note := validations.AcceptAttachments(request.Attachments)
	result := resultWithNote(note)

	for _, groupName := range request.TargetGroups {
		payload := s.buildSchedulePayload(groupName, request, accepted)
		if err := s.api.CreateSchedule(ctx, payload); err != nil {
			return result, s.fail(ctx, err, fmt.Sprintf("Failed to schedule message for %s", groupName))
		}
		s.activity.Append(domainActivity.KindScheduled, domainActivity.StatusSuccess,
			scheduledMessageText("Message scheduled for", groupName, request, len(accepted)), "")
	}

	s.refreshScheduled(ctx)
	return result, nil
}

// Update replaces an existing scheduled record. On success the caller
// must drop its editing selection, signalled via ClearEditing.
func (s *SubmitService) Update(ctx context.Context, id string, request domainSchedule.ScheduleRequest) (domainSchedule.SubmitResult, error) {
	if err := validations.ValidateScheduleRequest(request, time.Now()); err != nil {
		return domainSchedule.SubmitResult{}, err
	}

	accepted, note := validations.AcceptAttachments(request.Attachments)
	result := resultWithNote(note)

	for _, groupName := range request.TargetGroups {
		payload := s.buildSchedulePayload(groupName, request, accepted)
		if err := s.api.UpdateSchedule(ctx, id, payload); err != nil {
			return result, s.fail(ctx, err, fmt.Sprintf("Failed to update message for %s", groupName))
		}
		s.activity.Append(domainActivity.KindScheduled, domainActivity.StatusSuccess,
			scheduledMessageText("Message updated for", groupName, request, len(accepted)), "")
	}

	result.ClearEditing = true
	s.refreshScheduled(ctx)
	return result, nil
}

// Cancel deletes a scheduled record.
func (s *SubmitService) Cancel(ctx context.Context, id string) error {
	if err := s.api.DeleteSchedule(ctx, id); err != nil {
		return s.fail(ctx, err, "Failed to delete scheduled message")
	}
	s.activity.Append(domainActivity.KindScheduled, domainActivity.StatusSuccess,
		"Scheduled message deleted", "")
	s.refreshScheduled(ctx)
	return nil
}

// PromoteBotAdmin asks the backend to promote the bot to admin across
// all groups and journals the counts, zeros included.
func (s *SubmitService) PromoteBotAdmin(ctx context.Context) (domainGroup.PromoteSummary, error) {
	summary, err := s.groupAPI.PromoteBot(ctx)
	if err != nil {
		return domainGroup.PromoteSummary{}, s.fail(ctx, err, "Failed to promote bot")
	}
	s.activity.Append(domainActivity.KindConnection, domainActivity.StatusSuccess,
		fmt.Sprintf("Bot promotion complete: %d groups promoted, %d already admin", summary.Promoted, summary.AlreadyAdmin), "")
	return summary, nil
}

func (s *SubmitService) buildSchedulePayload(groupName string, request domainSchedule.ScheduleRequest, images []domainSchedule.Attachment) domainSchedule.SchedulePayload {
	payload := domainSchedule.SchedulePayload{
		GroupName:      groupName,
		Message:        request.Content,
		CronTime:       request.Recurrence.Expression(request.SendAt),
		Occurrences:    request.Recurrence.OccurrencesOrSentinel(),
		RecurrenceType: string(request.Recurrence.Kind),
		Description:    request.Recurrence.Describe(),
		Images:         images,
	}
	if request.Recurrence.Kind == domainSchedule.RecurrenceWeekly {
		payload.Weekdays = request.Recurrence.Weekdays
	}
	return payload
}

// fail classifies a backend failure, journals it and decides the error
// the caller surfaces. A session loss additionally fires exactly one
// best-effort reconnect, whose own failure is logged and swallowed so
// it never masks the original error.
func (s *SubmitService) fail(ctx context.Context, err error, journalMessage string) error {
	kind := pkgError.ClassifyError(err)
	s.activity.Append(domainActivity.KindError, domainActivity.StatusError,
		journalMessage+": "+err.Error(), failureDetails(err))

	if kind != pkgError.SessionDisconnected {
		return err
	}

	s.conn.Set(domainConnection.State{Connected: false, LastError: err.Error()})
	if rerr := s.connAPI.Reconnect(ctx); rerr != nil {
		logrus.WithError(rerr).Warn("[SUBMIT] best-effort reconnect failed")
	}
	return pkgError.SessionError{Original: err.Error()}
}

func failureDetails(err error) string {
	var berr pkgError.BusinessError
	if errors.As(err, &berr) {
		return berr.Details
	}
	return ""
}

func (s *SubmitService) refreshScheduled(ctx context.Context) {
	s.mu.RLock()
	refresher := s.refresher
	s.mu.RUnlock()
	if refresher != nil {
		refresher.RefreshScheduled(ctx)
	}
}

func resultWithNote(note string) domainSchedule.SubmitResult {
	if note == "" {
		return domainSchedule.SubmitResult{}
	}
	return domainSchedule.SubmitResult{Warnings: pkgError.FieldErrors{"images": note}}
}

func imageSuffix(count int) string {
	switch {
	case count == 1:
		return " with 1 image"
	case count > 1:
		return fmt.Sprintf(" with %d images", count)
	default:
		return ""
	}
}

// scheduledMessageText mirrors the journal wording users see: weekly
// schedules name the weekdays, one-off schedules name the instant.
func scheduledMessageText(prefix, groupName string, request domainSchedule.ScheduleRequest, imageCount int) string {
	rule := request.Recurrence
	suffix := imageSuffix(imageCount)

	if rule.Kind == domainSchedule.RecurrenceWeekly {
		days := weekdayNames(rule.Weekdays)
		repeat := " (infinite)"
		if !rule.Infinite() {
			repeat = fmt.Sprintf(" for %d weeks", rule.Occurrences)
		}
		return fmt.Sprintf("%s %s%s weekly on %s%s", prefix, groupName, suffix, days, repeat)
	}

	repeat := ""
	if rule.Infinite() {
		repeat = " (infinite times)"
	} else if rule.Occurrences > 1 {
		repeat = fmt.Sprintf(" (%d times)", rule.Occurrences)
	}
	when := request.SendAt.Format("1/2/2006, 3:04:05 PM")
	return fmt.Sprintf("%s %s%s on %s%s", prefix, groupName, suffix, when, repeat)
}

func weekdayNames(weekdays []int) string {
	names := [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	parts := make([]string, 0, len(weekdays))
	for _, d := range weekdays {
		if d >= 0 && d <= 6 {
			parts = append(parts, names[d])
		}
	}
	return strings.Join(parts, ", ")
}
