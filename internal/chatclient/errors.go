package chatclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"

	"github.com/gorilla/websocket"
)

// ErrorType represents the category of transport failure
type ErrorType int

const (
	// ErrTypeDial indicates the relay could not be reached
	ErrTypeDial ErrorType = iota
	// ErrTypeHandshake indicates the websocket upgrade was refused
	ErrTypeHandshake
	// ErrTypeSend indicates a frame could not be written
	ErrTypeSend
	// ErrTypeReceive indicates the connection failed while reading
	ErrTypeReceive
	// ErrTypeClosed indicates the client was already closed
	ErrTypeClosed
	// ErrTypeProtocol indicates a frame could not be encoded
	ErrTypeProtocol
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeDial:
		return "Dial Error"
	case ErrTypeHandshake:
		return "Handshake Error"
	case ErrTypeSend:
		return "Send Error"
	case ErrTypeReceive:
		return "Receive Error"
	case ErrTypeClosed:
		return "Connection Closed"
	case ErrTypeProtocol:
		return "Protocol Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// TransportError is returned by every failing client operation
type TransportError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	Server     string    // Relay URL (for context)
	StatusCode int       // HTTP status of a refused upgrade
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether reconnecting may help
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrClosed is returned by Send after Close or after the relay went away
var ErrClosed = &TransportError{Type: ErrTypeClosed, Message: "connection is closed"}

func classifyDialError(err error, server string, statusCode int) *TransportError {
	if statusCode != 0 || errors.Is(err, websocket.ErrBadHandshake) {
		return &TransportError{
			Type:       ErrTypeHandshake,
			Message:    fmt.Sprintf("relay refused websocket upgrade (HTTP %d)", statusCode),
			Server:     server,
			StatusCode: statusCode,
			Err:        err,
			Retryable:  statusCode >= 500,
		}
	}

	if os.IsTimeout(err) {
		return &TransportError{
			Type:      ErrTypeDial,
			Message:   "timed out connecting to relay",
			Server:    server,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransportError{
			Type:      ErrTypeDial,
			Message:   fmt.Sprintf("cannot resolve %s", dnsErr.Name),
			Server:    server,
			Err:       err,
			Retryable: false,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &TransportError{
			Type:      ErrTypeDial,
			Message:   "relay refused connection",
			Server:    server,
			Err:       err,
			Retryable: true,
		}
	}

	return &TransportError{
		Type:      ErrTypeDial,
		Message:   "failed to connect to relay",
		Server:    server,
		Err:       err,
		Retryable: true,
	}
}

func receiveError(err error, server string) *TransportError {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return &TransportError{
			Type:      ErrTypeClosed,
			Message:   "relay closed the connection",
			Server:    server,
			Err:       err,
			Retryable: true,
		}
	}
	return &TransportError{
		Type:      ErrTypeReceive,
		Message:   "connection lost",
		Server:    server,
		Err:       err,
		Retryable: true,
	}
}

// IsRetryable checks if reconnecting could fix err
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}

// IsClosed checks if err means the connection is gone
func IsClosed(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type == ErrTypeClosed
	}
	return false
}

// Troubleshooting returns user-facing advice for a failed connection
func Troubleshooting(err error) []string {
	var te *TransportError
	if !errors.As(err, &te) {
		return nil
	}

	switch te.Type {
	case ErrTypeDial:
		return []string{
			"Check that mini-relay is running: mini-relay serve",
			"Verify the server URL with: mini config",
			"Find relays on your network with: mini scan",
		}
	case ErrTypeHandshake:
		if te.StatusCode == http.StatusNotFound {
			return []string{
				"The host answered but has no websocket endpoint at that path",
				"Relays serve /ws by default, e.g. ws://host:6667/ws",
			}
		}
		return []string{
			"The relay rejected the websocket upgrade",
			"Check the scheme: wss:// needs a relay started with --cert and --key",
		}
	case ErrTypeProtocol:
		return []string{"Check the nickname and channels with: mini config"}
	default:
		return []string{"Try reconnecting"}
	}
}
