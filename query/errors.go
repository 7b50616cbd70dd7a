package query

import (
	"errors"
	"fmt"
)

// Error types for ServerQuery protocol operations.
// They let callers, and the retry decorator, tell a transient server-side
// failure from a programming error.

// StatusUnknownCommand is the status id the server answers with when the
// command name is not part of its vocabulary.
const StatusUnknownCommand = 256

// statusNoResponse is used for protocol errors that were raised before a
// status line could be read.
const statusNoResponse = -1

// ProtocolError is returned when the status line carries a non-zero id, or
// when the response is absent or malformed.
//
// Retry handling: transient, may be retried
type ProtocolError struct {
	ID      int
	Message string
	Extra   map[string]string // extra status keys such as extra_msg or failed_permid
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// Retryable returns true - a generic protocol error may be transient
func (e *ProtocolError) Retryable() bool {
	return true
}

// UnknownCommandError is returned when the server answers with status id 256.
// It always indicates a programming error on the client side.
//
// Retry handling: NEVER retried
type UnknownCommandError struct {
	ProtocolError
}

// Unwrap exposes the embedded ProtocolError so errors.As(err, **ProtocolError)
// matches unknown command errors too.
func (e *UnknownCommandError) Unwrap() error {
	return &e.ProtocolError
}

// Retryable returns false - retrying an unknown command cannot succeed
func (e *UnknownCommandError) Retryable() bool {
	return false
}

// ArgumentError is returned by FormatCommand when an argument has a kind the
// wire format cannot represent. Nothing is sent to the server.
type ArgumentError struct {
	Command string
	Index   int
	Value   any
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: unsupported argument %d of type %T", e.Command, e.Index, e.Value)
}

// NewProtocolError builds a ProtocolError, or an UnknownCommandError when id
// is StatusUnknownCommand. extra may be nil.
func NewProtocolError(id int, message string, extra map[string]string) error {
	pe := ProtocolError{ID: id, Message: message, Extra: extra}
	if id == StatusUnknownCommand {
		return &UnknownCommandError{ProtocolError: pe}
	}
	return &pe
}

// ErrorWithRetryState is implemented by errors that know whether the failed
// operation may be attempted again.
type ErrorWithRetryState interface {
	error
	Retryable() bool
}

// ShouldRetry reports whether err is a protocol error worth retrying.
//
// Returns true for:
//   - ProtocolError
//
// Returns false for:
//   - UnknownCommandError
//   - ArgumentError
//   - any other error (transport failures are not protocol errors)
//   - nil
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithRetryState
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// IsUnknownCommand reports whether err is, or wraps, an UnknownCommandError.
func IsUnknownCommand(err error) bool {
	var e *UnknownCommandError
	return errors.As(err, &e)
}

// IsProtocolError reports whether err is, or wraps, a ProtocolError
// (including UnknownCommandError).
func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}
