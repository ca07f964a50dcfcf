package pipetransport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/codecomfy/nextgallery/internal/envelope"
)

// Outcome is the result of a single client activation attempt.
type Outcome int

const (
	Success Outcome = iota
	ConnectTimeout
	SendTimeout
	ReceiveTimeout
	NoResponse
	InvalidResponse
	Error
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ConnectTimeout:
		return "connect_timeout"
	case SendTimeout:
		return "send_timeout"
	case ReceiveTimeout:
		return "receive_timeout"
	case NoResponse:
		return "no_response"
	case InvalidResponse:
		return "invalid_response"
	default:
		return "error"
	}
}

// Timeouts holds the three independent deadlines §4.4 documents as
// configuration constants rather than magic numbers scattered across
// call sites.
type Timeouts struct {
	Connect time.Duration
	Send    time.Duration
	Receive time.Duration
}

// DefaultTimeouts is the spec's baseline: connect 2s, send 1s, receive 5s.
var DefaultTimeouts = Timeouts{
	Connect: 2 * time.Second,
	Send:    1 * time.Second,
	Receive: 5 * time.Second,
}

// Client is the secondary instance's side of the activation channel.
type Client struct {
	socketPath string
	timeouts   Timeouts
}

// NewClient returns a Client bound to workspaceKey's activation channel.
func NewClient(workspaceKey string, timeouts Timeouts) (*Client, error) {
	socketPath, err := SocketPath(workspaceKey)
	if err != nil {
		return nil, fmt.Errorf("pipetransport: resolve socket path: %w", err)
	}
	return &Client{socketPath: socketPath, timeouts: timeouts}, nil
}

// Activate sends request to the primary instance and awaits its response,
// applying each of the three independent phase timeouts.
func (c *Client) Activate(request *envelope.Envelope) (Outcome, *envelope.Envelope, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeouts.Connect)
	if err != nil {
		if isTimeoutErr(err) {
			return ConnectTimeout, nil, err
		}
		// No listener (stale socket file, orphan mutex) is functionally
		// the same as a connect timeout from the router's point of view:
		// degraded CreateWindow.
		return ConnectTimeout, nil, err
	}
	defer conn.Close()

	data, err := request.Marshal()
	if err != nil {
		return Error, nil, fmt.Errorf("pipetransport: marshal request: %w", err)
	}
	data = append(data, '\n')

	if err := conn.SetWriteDeadline(time.Now().Add(c.timeouts.Send)); err != nil {
		return Error, nil, fmt.Errorf("pipetransport: set write deadline: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		if isTimeoutErr(err) {
			return SendTimeout, nil, err
		}
		return Error, nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.timeouts.Receive)); err != nil {
		return Error, nil, fmt.Errorf("pipetransport: set read deadline: %w", err)
	}
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		if isTimeoutErr(err) {
			return ReceiveTimeout, nil, err
		}
		if errors.Is(err, os.ErrClosed) || len(respData) == 0 {
			return NoResponse, nil, err
		}
		return Error, nil, err
	}

	var resp envelope.Envelope
	if err := json.Unmarshal(respData, &resp); err != nil {
		return InvalidResponse, nil, err
	}
	return Success, &resp, nil
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
