package connection

import "context"

// State is the dashboard's view of the messaging session. It gates
// composer availability in the UI layer only; the backend enforces
// nothing based on it.
type State struct {
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}

// IConnectionUsecase holds the process-wide connection state. Writers are
// the sync loop and explicit reconnect triggers; everyone else reads.
// Set reports whether the connected flag flipped; the notifier fires
// only on such transitions.
type IConnectionUsecase interface {
	State() State
	Set(state State) bool
	SetNotifier(fn func(State))
}

// StatusResponse mirrors GET /api/whatsapp/status.
type StatusResponse struct {
	IsReady    bool           `json:"isReady"`
	ClientInfo map[string]any `json:"clientInfo,omitempty"`
}

// QRResponse mirrors GET /api/whatsapp/qr.
type QRResponse struct {
	HasQR     bool   `json:"hasQr"`
	QRDataURL string `json:"qrDataUrl,omitempty"`
	Message   string `json:"message,omitempty"`
}

// IConnectionAPI is the backend surface for session status and recovery.
// Reconnect is best-effort: callers log its failure and move on.
type IConnectionAPI interface {
	Status(ctx context.Context) (StatusResponse, error)
	QR(ctx context.Context) (QRResponse, error)
	Reconnect(ctx context.Context) error
}
