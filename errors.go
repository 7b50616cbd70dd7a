package serverquery

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	ErrConnectionRefused = errors.New("serverquery: connection refused")
	ErrNotConnected      = errors.New("serverquery: not connected")
	ErrConnectionClosed  = errors.New("serverquery: connection closed")
	ErrTimeout           = errors.New("serverquery: timed out waiting for response")
)

// ConnectionError wraps I/O errors from the transport.
// Used to distinguish network failures from protocol errors, which are
// returned as *query.ProtocolError.
type ConnectionError struct {
	Op  string // Operation that failed (dial, read, write)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("serverquery: connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionRefused reports whether err means the server endpoint was not
// reachable at dial time.
func IsConnectionRefused(err error) bool {
	return errors.Is(err, ErrConnectionRefused) || errors.Is(err, syscall.ECONNREFUSED)
}
