package service

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTransport marks connectivity and decoding failures.
	ErrTransport = errors.New("transport error")

	// ErrRemote marks well-formed non-success responses.
	ErrRemote = errors.New("remote failure")
)

// TransportError is a dial, timeout or undecodable-body failure.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) true.
func (*TransportError) Is(target error) bool {
	return target == ErrTransport
}

// RemoteError is a non-2xx response whose body could be decoded.
// Message carries the service's "error" field, or "stderr" when that is all it sent.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: remote failure (HTTP %d)", e.Endpoint, e.StatusCode)
	}

	return fmt.Sprintf("%s: remote failure (HTTP %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrRemote) true.
func (*RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// AsRemote returns the RemoteError in err's chain, if any.
func AsRemote(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}

	return nil, false
}
