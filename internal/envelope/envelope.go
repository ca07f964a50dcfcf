// Package envelope defines the wire format for the activation channel and
// the strict validator that decides whether an inbound message should be
// processed, dropped, or answered with an error.
package envelope

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// MaxSize is the largest serialized envelope this component will accept
// or emit, in either direction.
const MaxSize = 64 * 1024

const (
	MessageActivationRequest  = "activation_request"
	MessageActivationResponse = "activation_response"
	MessagePing               = "ping"
	MessagePong               = "pong"
)

const ProtocolVersion = "1"

var workspaceKeyPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Envelope is the versioned outer object for every message on the
// activation channel. All fields are required; payload is opaque and
// forward-compatible (unknown fields inside it are ignored).
type Envelope struct {
	ProtocolVersion string          `json:"protocol_version"`
	MessageType     string          `json:"message_type"`
	WorkspaceKey    string          `json:"workspace_key"`
	Payload         json.RawMessage `json:"payload"`
	Timestamp       string          `json:"timestamp"`
}

// ActivationRequestPayload is the payload of an activation_request message.
type ActivationRequestPayload struct {
	WorkspacePath string   `json:"workspace_path"`
	RequestedView string   `json:"requested_view,omitempty"`
	Args          []string `json:"args,omitempty"`
}

const (
	maxArgsEntries       = 100
	maxWorkspacePathSize = 32 * 1024
)

// Clamp truncates fields that exceed their wire limits, per §6: args beyond
// 100 entries and workspace_path beyond 32 KiB are silently truncated on
// emit, never rejected by the sender.
func (p *ActivationRequestPayload) Clamp() {
	if len(p.Args) > maxArgsEntries {
		p.Args = p.Args[:maxArgsEntries]
	}
	if len(p.WorkspacePath) > maxWorkspacePathSize {
		p.WorkspacePath = p.WorkspacePath[:maxWorkspacePathSize]
	}
}

// WindowState values for ActivationResponsePayload.
const (
	WindowStateRestored           = "restored"
	WindowStateAlreadyForeground  = "already_foreground"
	WindowStateMinimized          = "minimized"
	WindowStateUnknown            = "unknown"
)

// Status values for ActivationResponsePayload.
const (
	StatusActivated = "activated"
	StatusError     = "error"
	StatusBusy      = "busy"
)

// ActivationResponsePayload is the payload of an activation_response
// message.
type ActivationResponsePayload struct {
	Status       string `json:"status"`
	WindowState  string `json:"window_state,omitempty"`
	NavigatedTo  string `json:"navigated_to,omitempty"`
	Error        string `json:"error,omitempty"`
}

// PongPayload carries diagnostic liveness information for a pong reply.
type PongPayload struct {
	PID            int     `json:"pid"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Marshal serializes the envelope to JSON bytes.
func (e *Envelope) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal failed: %w", err)
	}
	return b, nil
}

// Parse decodes raw bytes into an Envelope without validating it; callers
// use Validate to decide whether the result is trustworthy.
func Parse(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("envelope: parse failed: %w", err)
	}
	return &e, nil
}

// NewErrorResponse builds a well-formed activation_response envelope
// carrying status=error, bound to workspaceKey.
func NewErrorResponse(workspaceKey, timestamp, message string) (*Envelope, error) {
	payload, err := json.Marshal(ActivationResponsePayload{Status: StatusError, Error: message})
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal error payload: %w", err)
	}
	return &Envelope{
		ProtocolVersion: ProtocolVersion,
		MessageType:     MessageActivationResponse,
		WorkspaceKey:    workspaceKey,
		Payload:         payload,
		Timestamp:       timestamp,
	}, nil
}

// ValidWorkspaceKey reports whether s is a lowercase 32-hex-char key.
func ValidWorkspaceKey(s string) bool {
	return workspaceKeyPattern.MatchString(s)
}
