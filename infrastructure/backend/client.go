// Package backend is the outbound REST client for the messaging backend.
// It is the only place that knows the wire shapes: JSON envelopes with
// success/error/details, multipart message payloads, the -1 occurrence
// sentinel and the 0=Sunday..6=Saturday weekday array.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	domainConnection "github.com/wasched/wasched/domains/connection"
	domainGroup "github.com/wasched/wasched/domains/group"
	domainSchedule "github.com/wasched/wasched/domains/schedule"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

const defaultTimeout = 15 * time.Second

// Client talks to the messaging backend REST API. It implements
// schedule.IScheduleAPI, connection.IConnectionAPI and group.IGroupAPI.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// envelope is the common JSON body of mutating endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

type scheduledListResponse struct {
	Success           bool                              `json:"success"`
	Error             string                            `json:"error,omitempty"`
	ScheduledMessages []domainSchedule.ScheduledMessage `json:"scheduledMessages"`
}

type groupsResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Groups  []domainGroup.Group `json:"groups"`
}

type promoteResponse struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error,omitempty"`
	Details string                     `json:"details,omitempty"`
	Summary domainGroup.PromoteSummary `json:"summary"`
}

// Status implements connection.IConnectionAPI.
func (c *Client) Status(ctx context.Context) (domainConnection.StatusResponse, error) {
	var out domainConnection.StatusResponse
	if err := c.getJSON(ctx, "/api/whatsapp/status", &out); err != nil {
		return domainConnection.StatusResponse{}, err
	}
	return out, nil
}

// QR implements connection.IConnectionAPI.
func (c *Client) QR(ctx context.Context) (domainConnection.QRResponse, error) {
	var out domainConnection.QRResponse
	if err := c.getJSON(ctx, "/api/whatsapp/qr", &out); err != nil {
		return domainConnection.QRResponse{}, err
	}
	return out, nil
}

// Reconnect asks the backend to re-establish the messaging session. The
// response body is ignored; only reachability matters.
func (c *Client) Reconnect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/whatsapp/reconnect", nil)
	if err != nil {
		return pkgError.TransportError{Op: "reconnect", Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgError.TransportError{Op: "reconnect", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	logrus.WithField("status", resp.StatusCode).Debug("[BACKEND] reconnect requested")
	return nil
}

// ListScheduled implements schedule.IScheduleAPI.
func (c *Client) ListScheduled(ctx context.Context) ([]domainSchedule.ScheduledMessage, error) {
	var out scheduledListResponse
	if err := c.getJSON(ctx, "/api/messages/scheduled", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, pkgError.BusinessError{Message: orDefault(out.Error, "failed to list scheduled messages")}
	}
	return out.ScheduledMessages, nil
}

// Send implements schedule.IScheduleAPI.
func (c *Client) Send(ctx context.Context, payload domainSchedule.SendPayload) error {
	body, contentType, err := encodeSendPayload(payload)
	if err != nil {
		return pkgError.TransportError{Op: "send", Err: err}
	}
	return c.doMutation(ctx, http.MethodPost, "/api/messages/send", body, contentType, "failed to send message")
}

// CreateSchedule implements schedule.IScheduleAPI.
func (c *Client) CreateSchedule(ctx context.Context, payload domainSchedule.SchedulePayload) error {
	body, contentType, err := encodeSchedulePayload(payload)
	if err != nil {
		return pkgError.TransportError{Op: "schedule", Err: err}
	}
	return c.doMutation(ctx, http.MethodPost, "/api/messages/schedule", body, contentType, "failed to schedule message")
}

// UpdateSchedule implements schedule.IScheduleAPI.
func (c *Client) UpdateSchedule(ctx context.Context, id string, payload domainSchedule.SchedulePayload) error {
	body, contentType, err := encodeSchedulePayload(payload)
	if err != nil {
		return pkgError.TransportError{Op: "update schedule", Err: err}
	}
	return c.doMutation(ctx, http.MethodPut, "/api/messages/scheduled/"+id, body, contentType, "failed to update message")
}

// DeleteSchedule implements schedule.IScheduleAPI.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.doMutation(ctx, http.MethodDelete, "/api/messages/scheduled/"+id, nil, "", "failed to delete message")
}

// ListGroups implements group.IGroupAPI.
func (c *Client) ListGroups(ctx context.Context) ([]domainGroup.Group, error) {
	var out groupsResponse
	if err := c.getJSON(ctx, "/api/groups", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, pkgError.BusinessError{Message: orDefault(out.Error, "failed to list groups")}
	}
	return out.Groups, nil
}

// PromoteBot implements group.IGroupAPI.
func (c *Client) PromoteBot(ctx context.Context) (domainGroup.PromoteSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/groups/promote-bot", nil)
	if err != nil {
		return domainGroup.PromoteSummary{}, pkgError.TransportError{Op: "promote bot", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domainGroup.PromoteSummary{}, pkgError.TransportError{Op: "promote bot", Err: err}
	}
	defer resp.Body.Close()

	var out promoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domainGroup.PromoteSummary{}, pkgError.TransportError{Op: "promote bot", Err: err}
	}
	if !out.Success {
		return domainGroup.PromoteSummary{}, pkgError.BusinessError{
			Message: orDefault(out.Error, "failed to promote bot"),
			Details: out.Details,
		}
	}
	return out.Summary, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgError.TransportError{Op: "GET " + path, Err: err}
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgError.TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgError.TransportError{Op: "GET " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// doMutation performs a mutating call and maps the envelope: transport
// faults become TransportError, success:false becomes BusinessError
// carrying the backend's error and details text unchanged. The error
// classifier relies on that text.
func (c *Client) doMutation(ctx context.Context, method, path string, body io.Reader, contentType, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgError.TransportError{Op: method + " " + path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgError.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return pkgError.TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Success {
		return pkgError.BusinessError{Message: orDefault(env.Error, fallback), Details: env.Details}
	}
	return nil
}

func encodeSendPayload(payload domainSchedule.SendPayload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("groupName", payload.GroupName)
	_ = w.WriteField("message", payload.Message)
	if err := writeImages(w, payload.Images); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func encodeSchedulePayload(payload domainSchedule.SchedulePayload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("groupName", payload.GroupName)
	_ = w.WriteField("message", payload.Message)
	_ = w.WriteField("cronTime", payload.CronTime)
	_ = w.WriteField("occurrences", strconv.Itoa(payload.Occurrences))
	_ = w.WriteField("recurrenceType", payload.RecurrenceType)
	if len(payload.Weekdays) > 0 {
		weekdays, err := json.Marshal(payload.Weekdays)
		if err != nil {
			return nil, "", err
		}
		_ = w.WriteField("weekdays", string(weekdays))
	}
	_ = w.WriteField("description", payload.Description)
	if err := writeImages(w, payload.Images); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeImages(w *multipart.Writer, images []domainSchedule.Attachment) error {
	for _, img := range images {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		header.Set("Content-Type", orDefault(img.MimeType, "application/octet-stream"))
		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(img.Data); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
