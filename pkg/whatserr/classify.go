package whatserr

import (
	"errors"
	"strings"
)

// Kind is the failure taxonomy used to route recovery behavior.
type Kind int

const (
	ValidationRejected Kind = iota
	SessionDisconnected
	BusinessRejected
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case ValidationRejected:
		return "validation_rejected"
	case SessionDisconnected:
		return "session_disconnected"
	case BusinessRejected:
		return "business_rejected"
	default:
		return "transport_failure"
	}
}

// sessionMarkers are the backend phrasings that signal the messaging
// session is down. Matching is case-sensitive substring, first match
// wins; message and details are checked independently.
var sessionMarkers = []string{
	"Session closed",
	"Protocol error",
	"session disconnected",
}

func containsSessionMarker(s string) bool {
	if s == "" {
		return false
	}
	for _, marker := range sessionMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// Classify maps a raw failure payload (message plus optional structured
// details) into the taxonomy. Anything that is not a session loss is
// generic from the caller's point of view and comes back as
// BusinessRejected.
func Classify(message, details string) Kind {
	if containsSessionMarker(message) || containsSessionMarker(details) {
		return SessionDisconnected
	}
	return BusinessRejected
}

// ClassifyError routes an error returned by the backend client. Typed
// transport and validation failures keep their kind; business rejections
// are scanned for session-loss markers.
func ClassifyError(err error) Kind {
	var verr ValidationError
	if errors.As(err, &verr) {
		return ValidationRejected
	}
	var terr TransportError
	if errors.As(err, &terr) {
		return TransportFailure
	}
	var berr BusinessError
	if errors.As(err, &berr) {
		return Classify(berr.Message, berr.Details)
	}
	if err != nil && containsSessionMarker(err.Error()) {
		return SessionDisconnected
	}
	return BusinessRejected
}
