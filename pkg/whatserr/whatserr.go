package whatserr

import (
	"net/http"
	"sort"
	"strings"
)

// GenericError is the shape every dashboard error type satisfies so the
// REST layer and recovery middleware can map it to a response.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}

// FieldErrors maps a field name to its violation message. All violations
// of a request are collected, not just the first.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// ValidationError is a locally rejected request. It never reaches the
// network and is surfaced as field-scoped errors.
type ValidationError struct {
	Fields FieldErrors
}

func (err ValidationError) Error() string   { return err.Fields.Error() }
func (err ValidationError) ErrCode() string { return "VALIDATION_ERROR" }
func (err ValidationError) StatusCode() int { return http.StatusBadRequest }

// BusinessError is a backend rejection: the request arrived but the
// backend answered success:false with a domain error.
type BusinessError struct {
	Message string
	Details string
}

func (err BusinessError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return "request rejected by backend"
}
func (err BusinessError) ErrCode() string { return "BUSINESS_REJECTED" }
func (err BusinessError) StatusCode() int { return http.StatusUnprocessableEntity }

// TransportError is a failure to reach the backend or to make sense of
// its response.
type TransportError struct {
	Op  string
	Err error
}

func (err TransportError) Error() string {
	if err.Err == nil {
		return err.Op + " failed"
	}
	return err.Op + ": " + err.Err.Error()
}
func (err TransportError) ErrCode() string { return "TRANSPORT_FAILURE" }
func (err TransportError) StatusCode() int { return http.StatusBadGateway }
func (err TransportError) Unwrap() error   { return err.Err }

// SessionError is a backend-reported loss of the underlying messaging
// session. It keeps the original failure text for the journal while
// presenting softer, recovery-oriented wording to the operator.
type SessionError struct {
	Original string
}

func (err SessionError) Error() string {
	return "the messaging session dropped; a reconnect was requested, try again shortly"
}
func (err SessionError) ErrCode() string { return "SESSION_DISCONNECTED" }
func (err SessionError) StatusCode() int { return http.StatusServiceUnavailable }

// Title is the distinguished framing shown instead of the raw failure.
func (err SessionError) Title() string { return "Connection Issue" }
