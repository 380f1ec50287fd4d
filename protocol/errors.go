package protocol

import (
	"context"
	"errors"
	"fmt"
)

// Error types for the line protocol.
// They tell callers whether the connection stream is still usable after a
// failure, mirroring the way the server can leave a connection mid-response.

// FramingError is returned when a block response does not open with the
// expected start sentinel.
//
// The unexpected line has already been consumed; nothing after it is read.
// The stream position relative to the server is unknown from here on, so the
// connection must be discarded.
type FramingError struct {
	Expected string
	Got      string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("did not get block start (%s), got %q", e.Expected, e.Got)
}

// ShouldCloseConnection returns true - the stream is desynchronized
func (e *FramingError) ShouldCloseConnection() bool {
	return true
}

// ParseError represents a block line that does not follow the sub-grammar
// of the command that produced it.
//
// The block itself was read to its end sentinel, so the connection is still
// aligned with the server.
type ParseError struct {
	Line    string
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s in %q: %v", e.Message, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %s in %q", e.Message, e.Line)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns false - the whole block was consumed
func (e *ParseError) ShouldCloseConnection() bool {
	return false
}

// ValidationError is returned when an argument is rejected before anything
// is written to the connection.
//
// Common causes:
//   - Empty name, or a name containing whitespace
//   - Inverted bounding box
//   - Non-positive distance or neighbour count
//   - Unknown distance unit
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// ShouldCloseConnection returns false - no I/O happened
func (e *ValidationError) ShouldCloseConnection() bool {
	return false
}

// ErrorWithConnectionState is an interface for errors that indicate
// whether the connection should be closed.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection is a helper function to determine if an error
// requires closing the connection.
//
// Returns false for nil, ValidationError and ParseError, and for any error
// implementing ErrorWithConnectionState that says so. A bare context error
// returns false: the request stopped before touching the socket. Other
// unknown errors are treated conservatively and return true.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return true
}
