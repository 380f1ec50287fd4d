package teles

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// ErrCannotContact is wrapped by every ConnectivityError.
var ErrCannotContact = errors.New("teles: cannot contact teles server")

// ConnectivityError is returned when every attempt allowed for a call failed
// with a transient transport error.
//
// Connection handling: the socket has already been discarded; the next call
// dials again.
type ConnectivityError struct {
	Addr     string
	Attempts int
	Err      error // Last transient error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("teles: cannot contact teles server %s after %d attempts: %v", e.Addr, e.Attempts, e.Err)
}

// Unwrap exposes both ErrCannotContact and the last cause.
func (e *ConnectivityError) Unwrap() []error {
	return []error{ErrCannotContact, e.Err}
}

// ShouldCloseConnection returns true - the transport is unusable
func (e *ConnectivityError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps an I/O error from a dial, write or read.
type ConnectionError struct {
	Op  string // Operation that failed (dial, write, read)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("teles: connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// ProtocolError is returned when the server answers with a line the
// operation does not recognize. Response carries the raw server text.
type ProtocolError struct {
	Command  string
	Response string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("teles: got response %q to %q", e.Response, e.Command)
}

// ShouldCloseConnection returns false - the reply was a complete line
func (e *ProtocolError) ShouldCloseConnection() bool {
	return false
}

// transientErrnos are the socket errors recovered by reconnecting.
var transientErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.EAGAIN,
	syscall.EHOSTUNREACH,
	syscall.EPIPE,
}

// IsTransient reports whether err is a transport failure that a fresh
// socket may cure: connection reset or refused, resource temporarily
// unavailable, host unreachable, broken pipe. A peer closing the stream
// (EOF on read) counts as a reset.
//
// Everything else, timeouts included, is fatal and never retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
