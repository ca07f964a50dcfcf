package pipetransport

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/codecomfy/nextgallery/internal/envelope"
)

const testKey = "88b49a59944589bd4779b7931d127abc"

func newRequestEnvelope(t *testing.T, workspaceKey, requestedView string) *envelope.Envelope {
	t.Helper()
	payload, err := json.Marshal(envelope.ActivationRequestPayload{WorkspacePath: "/ws", RequestedView: requestedView})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &envelope.Envelope{
		ProtocolVersion: envelope.ProtocolVersion,
		MessageType:     envelope.MessageActivationRequest,
		WorkspaceKey:    workspaceKey,
		Payload:         payload,
		Timestamp:       nowRFC3339Milli(),
	}
}

func startTestServer(t *testing.T, handler Handler) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	srv, err := NewServer(testKey, handler, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func TestServerClient_Ping(t *testing.T) {
	startTestServer(t, func(*envelope.Envelope) (*envelope.Envelope, error) { return nil, nil })

	client, err := NewClient(testKey, DefaultTimeouts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ping := &envelope.Envelope{
		ProtocolVersion: envelope.ProtocolVersion,
		MessageType:     envelope.MessagePing,
		WorkspaceKey:    testKey,
		Payload:         json.RawMessage(`{}`),
		Timestamp:       nowRFC3339Milli(),
	}
	outcome, resp, err := client.Activate(ping)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != Success {
		t.Fatalf("got outcome %v, want Success", outcome)
	}
	if resp.MessageType != envelope.MessagePong {
		t.Fatalf("got message_type %q, want pong", resp.MessageType)
	}
}

func TestServerClient_ActivationRequest(t *testing.T) {
	startTestServer(t, func(e *envelope.Envelope) (*envelope.Envelope, error) {
		payload, _ := json.Marshal(envelope.ActivationResponsePayload{
			Status:      envelope.StatusActivated,
			WindowState: envelope.WindowStateRestored,
			NavigatedTo: "jobs",
		})
		return &envelope.Envelope{
			ProtocolVersion: envelope.ProtocolVersion,
			MessageType:     envelope.MessageActivationResponse,
			WorkspaceKey:    e.WorkspaceKey,
			Payload:         payload,
			Timestamp:       nowRFC3339Milli(),
		}, nil
	})

	client, err := NewClient(testKey, DefaultTimeouts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	outcome, resp, err := client.Activate(newRequestEnvelope(t, testKey, "jobs"))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != Success {
		t.Fatalf("got outcome %v, want Success", outcome)
	}
	var respPayload envelope.ActivationResponsePayload
	if err := json.Unmarshal(resp.Payload, &respPayload); err != nil {
		t.Fatalf("unmarshal response payload: %v", err)
	}
	if respPayload.Status != envelope.StatusActivated || respPayload.NavigatedTo != "jobs" {
		t.Fatalf("got payload %+v, want activated/jobs", respPayload)
	}
}

func TestServerClient_DropsMismatchedKeySilently(t *testing.T) {
	called := false
	startTestServer(t, func(*envelope.Envelope) (*envelope.Envelope, error) {
		called = true
		return nil, nil
	})

	client, err := NewClient(testKey, Timeouts{Connect: 500 * time.Millisecond, Send: 500 * time.Millisecond, Receive: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	wrongKey := strings.Repeat("0", 32)
	outcome, _, err := client.Activate(newRequestEnvelope(t, wrongKey, ""))
	if outcome != NoResponse {
		t.Fatalf("got outcome %v err %v, want NoResponse (server drops and closes silently)", outcome, err)
	}
	if called {
		t.Fatalf("handler should not run for a dropped envelope")
	}
}

func TestClient_ConnectTimeoutWhenNoServer(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	client, err := NewClient(testKey, Timeouts{Connect: 200 * time.Millisecond, Send: time.Second, Receive: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	outcome, _, err := client.Activate(newRequestEnvelope(t, testKey, ""))
	if outcome != ConnectTimeout {
		t.Fatalf("got outcome %v err %v, want ConnectTimeout", outcome, err)
	}
}
