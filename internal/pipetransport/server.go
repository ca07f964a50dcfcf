package pipetransport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/codecomfy/nextgallery/internal/envelope"
)

// Handler processes one validated, Process-routed envelope and optionally
// returns a response envelope to write back. A nil return means no
// response is sent.
type Handler func(*envelope.Envelope) (*envelope.Envelope, error)

// Server is the primary instance's side of the activation channel: it
// accepts connections one at a time (per §4.4, a second connection queues
// behind the listener's own backlog rather than being serviced
// concurrently) and dispatches each message through the validator and
// handler.
type Server struct {
	socketPath string
	listener   net.Listener
	validator  *envelope.Validator
	handler    Handler
	logger     *slog.Logger
	startTime  time.Time

	mu           sync.Mutex
	shuttingDown bool
}

// NewServer creates a Server bound to workspaceKey. Start must be called
// to begin accepting connections.
func NewServer(workspaceKey string, handler Handler, logger *slog.Logger) (*Server, error) {
	socketPath, err := SocketPath(workspaceKey)
	if err != nil {
		return nil, fmt.Errorf("pipetransport: resolve socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		validator:  envelope.NewValidator(workspaceKey, logger),
		handler:    handler,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// Start opens the listening socket and begins the accept loop in the
// background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("pipetransport: listen: %w", err)
	}
	s.listener = listener
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("pipetransport: chmod socket: %w", err)
	}

	s.logger.Info("activation channel listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

// acceptLoop services connections sequentially: it blocks on
// handleConnection before calling Accept again, so at most one client is
// ever in flight, matching §4.4's "accepts one concurrent client at a
// time" contract.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			down := s.shuttingDown
			s.mu.Unlock()
			if down {
				return
			}
			s.logger.Warn("activation channel accept error", "error", err)
			continue
		}
		s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(io.LimitReader(conn, envelope.MaxSize+1))
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("activation channel read error", "error", err)
		return
	}

	result := s.validator.Validate(data)
	switch result.Action {
	case envelope.Drop:
		return
	case envelope.RespondWithError:
		resp, err := envelope.NewErrorResponse(s.validator.ExpectedWorkspaceKey, nowRFC3339Milli(), "unsupported protocol version")
		if err != nil {
			s.logger.Warn("activation channel failed to build error response", "error", err)
			return
		}
		s.writeEnvelope(conn, resp)
		return
	case envelope.Process:
		s.process(conn, result.Envelope)
	}
}

func (s *Server) process(conn net.Conn, e *envelope.Envelope) {
	if e.MessageType == envelope.MessagePing {
		pong, err := s.buildPong(e.WorkspaceKey)
		if err != nil {
			s.logger.Warn("activation channel failed to build pong", "error", err)
			return
		}
		s.writeEnvelope(conn, pong)
		return
	}

	resp, err := s.handler(e)
	if err != nil {
		s.logger.Warn("activation channel handler error", "error", err)
		return
	}
	if resp != nil {
		s.writeEnvelope(conn, resp)
	}
}

func (s *Server) buildPong(workspaceKey string) (*envelope.Envelope, error) {
	payload, err := json.Marshal(envelope.PongPayload{
		PID:           os.Getpid(),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	})
	if err != nil {
		return nil, err
	}
	return &envelope.Envelope{
		ProtocolVersion: envelope.ProtocolVersion,
		MessageType:     envelope.MessagePong,
		WorkspaceKey:    workspaceKey,
		Payload:         payload,
		Timestamp:       nowRFC3339Milli(),
	}, nil
}

func (s *Server) writeEnvelope(conn net.Conn, e *envelope.Envelope) {
	data, err := e.Marshal()
	if err != nil {
		s.logger.Warn("activation channel failed to marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("activation channel failed to write response", "error", err)
	}
}

// Stop closes the listener and removes the socket file. The accept loop
// exits on its next Accept error.
func (s *Server) Stop() {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func nowRFC3339Milli() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
