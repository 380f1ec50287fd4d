package testutils

import (
	"bytes"
	"io"
	"net"
	"os"
	"sync"
	"syscall"
	"time"
)

// ConnectionMock is a mock implementation of net.Conn for testing.
//
// Reads are served from pre-configured response data. Writes succeed unless
// an error was queued with FailWrites; queued errors are consumed one per
// Write call, in order.
type ConnectionMock struct {
	mu        sync.Mutex
	readBuf   *bytes.Buffer
	writeBuf  *bytes.Buffer
	writeErrs []error
	readErr   error
	writes    int
	deadlines int
	closed    bool
}

// NewConnectionMock creates a new mock connection with pre-configured response data
func NewConnectionMock(responseData ...string) *ConnectionMock {
	var readBuf bytes.Buffer
	for _, s := range responseData {
		readBuf.WriteString(s)
	}
	return &ConnectionMock{
		readBuf:  &readBuf,
		writeBuf: &bytes.Buffer{},
	}
}

// FailWrites queues errors returned by the next Write calls.
// A nil entry lets the corresponding Write succeed.
func (m *ConnectionMock) FailWrites(errs ...error) *ConnectionMock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs = append(m.writeErrs, errs...)
	return m
}

// FailReadsWith makes reads return err once the response data is exhausted,
// instead of io.EOF.
func (m *ConnectionMock) FailReadsWith(err error) *ConnectionMock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
	return m
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	if m.readBuf.Len() == 0 {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}

	m.writes++
	if len(m.writeErrs) > 0 {
		err := m.writeErrs[0]
		m.writeErrs = m.writeErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2856}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error { return m.SetReadDeadline(t) }

func (m *ConnectionMock) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines++
	return nil
}

func (m *ConnectionMock) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines++
	return nil
}

// GetWrittenRequest returns the raw bytes successfully written to the mock connection
func (m *ConnectionMock) GetWrittenRequest() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeBuf.String()
}

// Writes returns the number of Write calls, failed ones included.
func (m *ConnectionMock) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Deadlines returns how many times a read or write deadline was set.
func (m *ConnectionMock) Deadlines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadlines
}

// IsClosed reports whether Close was called.
func (m *ConnectionMock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OpError wraps errno the way the net package reports socket failures.
func OpError(op string, errno syscall.Errno) error {
	return &net.OpError{Op: op, Net: "tcp", Err: os.NewSyscallError(op, errno)}
}

// ResetError is a write failing with ECONNRESET.
func ResetError() error {
	return OpError("write", syscall.ECONNRESET)
}

// BrokenPipeError is a write failing with EPIPE.
func BrokenPipeError() error {
	return OpError("write", syscall.EPIPE)
}

// PermissionError is a write failing with EACCES, which is never retried.
func PermissionError() error {
	return OpError("write", syscall.EACCES)
}
