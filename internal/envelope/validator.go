package envelope

import "log/slog"

// Action is the instruction EnvelopeValidator hands back to the caller.
type Action int

const (
	// Drop means do not process and do not respond; log only.
	Drop Action = iota
	// RespondWithError means reply with a well-formed error envelope.
	RespondWithError
	// Process means the envelope is trustworthy and may be handled.
	Process
)

func (a Action) String() string {
	switch a {
	case Drop:
		return "drop"
	case RespondWithError:
		return "respond_with_error"
	case Process:
		return "process"
	default:
		return "unknown"
	}
}

// ValidationResult is the outcome of validating one inbound envelope.
type ValidationResult struct {
	Action   Action
	Envelope *Envelope // non-nil only when parsing succeeded
	Reason   string    // for logging; empty when Action == Process
}

var validMessageTypes = map[string]bool{
	MessageActivationRequest:  true,
	MessageActivationResponse: true,
	MessagePing:               true,
	MessagePong:               true,
}

// Validator evaluates inbound envelope bytes against size, schema, and
// key-binding rules, in the fixed order §4.3 specifies: the first matching
// rule wins.
type Validator struct {
	ExpectedWorkspaceKey string
	Logger               *slog.Logger
}

// NewValidator returns a Validator bound to expectedWorkspaceKey. A nil
// logger falls back to slog.Default().
func NewValidator(expectedWorkspaceKey string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{ExpectedWorkspaceKey: expectedWorkspaceKey, Logger: logger}
}

// Validate runs the ordered rule set against data.
func (v *Validator) Validate(data []byte) ValidationResult {
	if len(data) > MaxSize {
		v.Logger.Warn("envelope dropped: oversize", "size", len(data))
		return ValidationResult{Action: Drop, Reason: "oversize"}
	}

	e, err := Parse(data)
	if err != nil {
		v.Logger.Warn("envelope dropped: invalid JSON", "error", err)
		return ValidationResult{Action: Drop, Reason: "invalid json"}
	}

	if e.ProtocolVersion == "" || e.MessageType == "" || e.WorkspaceKey == "" ||
		len(e.Payload) == 0 || e.Timestamp == "" {
		v.Logger.Warn("envelope dropped: missing required field")
		return ValidationResult{Action: Drop, Envelope: e, Reason: "missing required field"}
	}

	if e.ProtocolVersion != ProtocolVersion {
		v.Logger.Warn("envelope unsupported protocol version", "version", e.ProtocolVersion)
		return ValidationResult{Action: RespondWithError, Envelope: e, Reason: "unsupported protocol version"}
	}

	if !validMessageTypes[e.MessageType] {
		v.Logger.Warn("envelope dropped: unknown message type", "type", e.MessageType)
		return ValidationResult{Action: Drop, Envelope: e, Reason: "unknown message type"}
	}

	if !ValidWorkspaceKey(e.WorkspaceKey) {
		v.Logger.Warn("Invalid workspace_key format", "workspace_key", e.WorkspaceKey)
		return ValidationResult{Action: Drop, Envelope: e, Reason: "invalid workspace_key format"}
	}

	if e.WorkspaceKey != v.ExpectedWorkspaceKey {
		v.Logger.Warn("envelope dropped: workspace_key mismatch", "got", e.WorkspaceKey, "want", v.ExpectedWorkspaceKey)
		return ValidationResult{Action: Drop, Envelope: e, Reason: "workspace_key mismatch"}
	}

	return ValidationResult{Action: Process, Envelope: e}
}
