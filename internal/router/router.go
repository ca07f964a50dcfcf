// Package router implements single-instance routing: given a workspace
// key, it decides whether the current process becomes the primary window
// or forwards activation to an existing one.
package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/codecomfy/nextgallery/internal/activation"
	"github.com/codecomfy/nextgallery/internal/envelope"
	"github.com/codecomfy/nextgallery/internal/pipetransport"
)

// Route is the decision InstanceRouter hands back to the launch process.
type Route int

const (
	// CreateWindow means this process should create and own the window.
	CreateWindow Route = iota
	// CreateWindowDegraded is CreateWindow with a suspect orphan mutex or
	// a failed/garbled handshake; the caller still creates a window but
	// may want to log the anomaly.
	CreateWindowDegraded
	// ActivateExisting means another instance is already serving this
	// workspace; the caller should exit.
	ActivateExisting
)

// Decision is the result of routing one launch.
type Decision struct {
	Route  Route
	Router *Router // non-nil only for CreateWindow (this process holds the mutex); owns server cleanup
}

// Router orchestrates mutex acquisition and the pipe transport for one
// workspace key's lifetime.
type Router struct {
	workspaceKey string
	mutex        *fileMutex
	server       *pipetransport.Server
	logger       *slog.Logger
}

// Route decides whether this launch is primary or secondary for
// workspaceKey and, if primary, starts the activation channel server with
// its message handler wired through activation.Handle. A zero-value
// timeouts falls back to pipetransport.DefaultTimeouts.
func Route(workspaceKey, requestedView string, window activation.Window, index activation.Index, timeouts pipetransport.Timeouts, logger *slog.Logger) (Decision, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeouts == (pipetransport.Timeouts{}) {
		timeouts = pipetransport.DefaultTimeouts
	}

	runtimeDir, err := pipetransport.RuntimeDir()
	if err != nil {
		return Decision{}, fmt.Errorf("router: resolve runtime dir: %w", err)
	}

	mtx := newFileMutex(mutexPath(runtimeDir, workspaceKey))
	acquired, err := mtx.Acquire()
	if err != nil {
		return Decision{}, fmt.Errorf("router: acquire mutex: %w", err)
	}

	r := &Router{workspaceKey: workspaceKey, mutex: mtx, logger: logger}

	if acquired {
		handler := func(e *envelope.Envelope) (*envelope.Envelope, error) {
			return handleActivation(e, window, index)
		}
		server, err := pipetransport.NewServer(workspaceKey, handler, logger)
		if err != nil {
			mtx.Release()
			return Decision{}, fmt.Errorf("router: create server: %w", err)
		}
		if err := server.Start(); err != nil {
			mtx.Release()
			return Decision{}, fmt.Errorf("router: start server: %w", err)
		}
		r.server = server
		return Decision{Route: CreateWindow, Router: r}, nil
	}

	client, err := pipetransport.NewClient(workspaceKey, timeouts)
	if err != nil {
		return Decision{}, fmt.Errorf("router: create client: %w", err)
	}

	request, err := buildActivationRequest(workspaceKey, requestedView)
	if err != nil {
		return Decision{}, fmt.Errorf("router: build activation request: %w", err)
	}

	outcome, _, err := client.Activate(request)
	switch outcome {
	case pipetransport.Success:
		return Decision{Route: ActivateExisting}, nil
	case pipetransport.ReceiveTimeout:
		// Trust the mutex: the primary is busy, not broken.
		logger.Warn("activation receive timed out; trusting the mutex", "workspace_key", workspaceKey)
		return Decision{Route: ActivateExisting}, nil
	case pipetransport.ConnectTimeout:
		logger.Warn("activation connect timed out; suspect orphan mutex", "workspace_key", workspaceKey)
		return Decision{Route: CreateWindowDegraded}, nil
	case pipetransport.InvalidResponse:
		logger.Warn("activation response was invalid", "workspace_key", workspaceKey, "error", err)
		return Decision{Route: CreateWindowDegraded}, nil
	default:
		logger.Warn("activation failed", "outcome", outcome.String(), "workspace_key", workspaceKey, "error", err)
		return Decision{Route: CreateWindowDegraded}, nil
	}
}

func buildActivationRequest(workspaceKey, requestedView string) (*envelope.Envelope, error) {
	payload := envelope.ActivationRequestPayload{RequestedView: requestedView}
	payload.Clamp()
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &envelope.Envelope{
		ProtocolVersion: envelope.ProtocolVersion,
		MessageType:     envelope.MessageActivationRequest,
		WorkspaceKey:    workspaceKey,
		Payload:         payloadBytes,
		Timestamp:       time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

func handleActivation(e *envelope.Envelope, window activation.Window, index activation.Index) (*envelope.Envelope, error) {
	var req envelope.ActivationRequestPayload
	if err := json.Unmarshal(e.Payload, &req); err != nil {
		resp, buildErr := envelope.NewErrorResponse(e.WorkspaceKey, e.Timestamp, "invalid activation_request payload")
		return resp, buildErr
	}

	result := activation.Handle(req, window, index)
	if result.IsError() {
		payload, err := json.Marshal(envelope.ActivationResponsePayload{Status: envelope.StatusError, Error: result.ErrorMessage})
		if err != nil {
			return nil, err
		}
		return &envelope.Envelope{
			ProtocolVersion: envelope.ProtocolVersion,
			MessageType:     envelope.MessageActivationResponse,
			WorkspaceKey:    e.WorkspaceKey,
			Payload:         payload,
			Timestamp:       e.Timestamp,
		}, nil
	}

	payload, err := json.Marshal(envelope.ActivationResponsePayload{
		Status:      envelope.StatusActivated,
		WindowState: activation.WindowState(result),
		NavigatedTo: result.NavigatedTo,
	})
	if err != nil {
		return nil, err
	}
	return &envelope.Envelope{
		ProtocolVersion: envelope.ProtocolVersion,
		MessageType:     envelope.MessageActivationResponse,
		WorkspaceKey:    e.WorkspaceKey,
		Payload:         payload,
		Timestamp:       e.Timestamp,
	}, nil
}

// Close releases the mutex and stops the activation channel server, if
// this router ended up primary. Safe to call on a secondary-instance
// Router (nil receiver fields are not touched).
func (r *Router) Close() {
	if r == nil {
		return
	}
	if r.server != nil {
		r.server.Stop()
	}
	if r.mutex != nil {
		r.mutex.Release()
	}
}
