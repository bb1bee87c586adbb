package relay

import (
	"encoding/json"
	"fmt"

	"scan-sync/core/session"
)

// Relay event names. Inbound events are sent by clients, outbound by the hub.
const (
	EventJoinSession   = "join-session"
	EventNewScan       = "new-scan"
	EventUpdateCatalog = "update-catalog"

	EventSessionData       = "session-data"
	EventScanApplied       = "scan-applied"
	EventScanDuplicate     = "scan-duplicate"
	EventScanQuotaExceeded = "scan-quota-exceeded"
	EventScanInvalid       = "scan-invalid"
	EventCatalogUpdated    = "catalog-updated"
	EventParticipants      = "participants"
	EventError             = "error"
)

// Message is the wire envelope for every relay frame.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds an envelope with an encoded payload.
func NewMessage(event string, payload any) (Message, error) {
	if payload == nil {
		return Message{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return Message{Event: event, Data: data}, nil
}

// JoinPayload is the body of a join-session frame.
type JoinPayload struct {
	Session string `json:"session"`
}

// ScanPayload is the body of a new-scan frame.
type ScanPayload struct {
	Code string `json:"code"`
}

// ScanResult is the body of every scan outcome frame. From identifies the
// submitting connection so clients can tell their own scans apart.
type ScanResult struct {
	session.Decision
	// ProgressPercent is the catalog completion after the scan, so members
	// can render progress without holding the catalog themselves.
	ProgressPercent int    `json:"progressPercent"`
	From            string `json:"from,omitempty"`
}

// ParticipantsPayload is the body of a participants frame.
type ParticipantsPayload struct {
	Count int `json:"count"`
}

// ErrorPayload is the body of an error frame.
type ErrorPayload struct {
	Message string `json:"message"`
}

// scanEvent maps a rejection kind to its outbound event name.
func scanEvent(kind session.Kind) string {
	switch kind {
	case session.KindDuplicate:
		return EventScanDuplicate
	case session.KindQuotaExceeded:
		return EventScanQuotaExceeded
	case session.KindInvalid:
		return EventScanInvalid
	default:
		return EventScanApplied
	}
}
