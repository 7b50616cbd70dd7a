package testutils

import (
	"bytes"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

// ConnectionMock is a mock implementation of net.Conn for testing
type ConnectionMock struct {
	readBuf     *bytes.Buffer
	writeBuf    *bytes.Buffer
	hasDeadline bool
	closed      bool
}

// NewConnectionMock creates a new mock connection with pre-configured response data
func NewConnectionMock(responseData ...string) *ConnectionMock {
	readBuf := bytes.NewBufferString(strings.Join(responseData, ""))
	return &ConnectionMock{
		readBuf:  readBuf,
		writeBuf: &bytes.Buffer{},
	}
}

// Read returns the pre-configured data. Once drained, it behaves like a
// silent server: a deadline error when a read deadline is set, EOF otherwise.
func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	if m.readBuf.Len() == 0 {
		if m.hasDeadline {
			return 0, os.ErrDeadlineExceeded
		}
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	if m.closed {
		return 0, net.ErrClosed
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.closed = true
	return nil
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 10011}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error {
	m.hasDeadline = !t.IsZero()
	return nil
}

func (m *ConnectionMock) SetReadDeadline(t time.Time) error {
	m.hasDeadline = !t.IsZero()
	return nil
}

func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// IsClosed reports whether Close was called
func (m *ConnectionMock) IsClosed() bool {
	return m.closed
}

// GetWrittenRequest returns the raw request bytes written to the mock connection
func (m *ConnectionMock) GetWrittenRequest() string {
	return m.writeBuf.String()
}
