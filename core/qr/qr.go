// Package qr renders session handoff QR codes. Scanning one on another
// device yields a JSON payload with the session code and the server URL, so
// a scanner can join without typing anything.
package qr

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// payloadType identifies handoff payloads so scanners can tell them apart
// from inventory barcodes.
const payloadType = "scan-sync-join"

// JoinPayload is the JSON content encoded into a handoff QR code.
type JoinPayload struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	ServerURL string `json:"serverUrl"`
}

// JoinPNG renders the handoff QR for a session as a PNG image.
func JoinPNG(sessionID, serverURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	payload, err := json.Marshal(JoinPayload{
		Type:      payloadType,
		SessionID: sessionID,
		ServerURL: serverURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode join payload: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// ParseJoin decodes a scanned text as a handoff payload. The boolean is
// false when the text is not a handoff QR (i.e. it is a regular barcode).
func ParseJoin(text string) (JoinPayload, bool) {
	var p JoinPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return JoinPayload{}, false
	}
	if p.Type != payloadType || p.SessionID == "" {
		return JoinPayload{}, false
	}
	return p, true
}
