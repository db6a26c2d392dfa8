package rest

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	domainSchedule "github.com/wasched/wasched/domains/schedule"
	"github.com/wasched/wasched/pkg/timeutils"
	"github.com/wasched/wasched/pkg/utils"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

// Compose exposes the message composer: immediate sends plus the
// schedule lifecycle. Requests arrive as multipart forms so image
// attachments travel in the same call.
type Compose struct {
	Service domainSchedule.ISubmitUsecase
	View    domainSchedule.IViewUsecase
}

func InitRestCompose(app fiber.Router, service domainSchedule.ISubmitUsecase, view domainSchedule.IViewUsecase) Compose {
	rest := Compose{Service: service, View: view}
	app.Post("/messages/send", rest.SendNow)
	app.Post("/messages/schedule", rest.Schedule)
	app.Get("/messages/scheduled", rest.ListScheduled)
	app.Put("/messages/scheduled/:id", rest.Update)
	app.Delete("/messages/scheduled/:id", rest.Cancel)
	return rest
}

func (controller *Compose) SendNow(c *fiber.Ctx) error {
	request, err := parseSendForm(c)
	utils.PanicIfNeeded(err)

	result, err := controller.Service.SendNow(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send message",
		Results: result,
	})
}

func (controller *Compose) Schedule(c *fiber.Ctx) error {
	request, err := parseScheduleForm(c)
	utils.PanicIfNeeded(err)

	result, err := controller.Service.Schedule(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success schedule message",
		Results: result,
	})
}

func (controller *Compose) ListScheduled(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch scheduled messages",
		Results: controller.View.Items(),
	})
}

func (controller *Compose) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "id is required",
		})
	}

	request, err := parseScheduleForm(c)
	utils.PanicIfNeeded(err)

	result, err := controller.Service.Update(c.UserContext(), id, request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update scheduled message",
		Results: result,
	})
}

func (controller *Compose) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "id is required",
		})
	}

	err := controller.Service.Cancel(c.UserContext(), id)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete scheduled message",
	})
}

func parseSendForm(c *fiber.Ctx) (domainSchedule.SendRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return domainSchedule.SendRequest{}, err
	}

	attachments, err := readAttachments(form.File["images"])
	if err != nil {
		return domainSchedule.SendRequest{}, err
	}

	return domainSchedule.SendRequest{
		Content:      formValue(form, "message"),
		TargetGroups: form.Value["groups"],
		Attachments:  attachments,
	}, nil
}

func parseScheduleForm(c *fiber.Ctx) (domainSchedule.ScheduleRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return domainSchedule.ScheduleRequest{}, err
	}

	attachments, err := readAttachments(form.File["images"])
	if err != nil {
		return domainSchedule.ScheduleRequest{}, err
	}

	rule, err := parseRecurrence(form)
	if err != nil {
		return domainSchedule.ScheduleRequest{}, err
	}

	// A missing or malformed instant becomes the zero time so the
	// validation layer reports it as a field error, not a parse panic.
	var sendAt time.Time
	if raw := formValue(form, "sendAt"); raw != "" {
		sendAt = timeutils.SafeParseInstant(time.Time{}, raw)
	}

	return domainSchedule.ScheduleRequest{
		Content:      formValue(form, "message"),
		TargetGroups: form.Value["groups"],
		SendAt:       sendAt,
		Recurrence:   rule,
		Attachments:  attachments,
	}, nil
}

func parseRecurrence(form *multipart.Form) (domainSchedule.RecurrenceRule, error) {
	kind := formValue(form, "recurrenceType")
	if kind == "" || kind == string(domainSchedule.RecurrenceOnce) {
		return domainSchedule.Once(), nil
	}

	occurrences := domainSchedule.InfiniteOccurrences
	if raw := formValue(form, "occurrences"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return domainSchedule.RecurrenceRule{}, pkgError.ValidationError{
				Fields: pkgError.FieldErrors{"occurrences": "Occurrences must be a number"},
			}
		}
		occurrences = parsed
	}

	var weekdays []int
	if raw := formValue(form, "weekdays"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &weekdays); err != nil {
			return domainSchedule.RecurrenceRule{}, pkgError.ValidationError{
				Fields: pkgError.FieldErrors{"weekdays": "Weekdays must be a JSON array of 0-6"},
			}
		}
	}

	return domainSchedule.Weekly(weekdays, occurrences), nil
}

func readAttachments(headers []*multipart.FileHeader) ([]domainSchedule.Attachment, error) {
	attachments := make([]domainSchedule.Attachment, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, domainSchedule.Attachment{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Data:     data,
		})
	}
	return attachments, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
