// Package wire defines the WebSocket protocol that streams generation runs to
// the browser.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/appbuilder/internal/generate"
	"github.com/matthewbaird/appbuilder/internal/report"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server WebSocket messages.
type ClientMessage struct {
	Type string          `json:"type"` // "generate", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// GenerateData is the payload for "generate" messages.
type GenerateData struct {
	Command string `json:"command"` // "models", "project", "flutter" or an alias
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client WebSocket messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "line", "done", "error", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// LineData is one progress line of a run.
type LineData = report.Entry

// DoneData closes a run.
type DoneData = generate.Summary

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}
