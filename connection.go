package serverquery

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"time"
)

// Transport is a line-oriented connection to the query port.
//
// Command sends one line and returns the text read back until match is found
// in it. WaitFor only reads. Implementations return the accumulated text even
// on error, so callers can log what was received.
type Transport interface {
	WaitFor(match *regexp.Regexp, timeout time.Duration) (string, error)
	Command(line string, match *regexp.Regexp, timeout time.Duration) (string, error)
	Close() error
}

// DialFunc opens a Transport to addr. It must return an error satisfying
// IsConnectionRefused when nothing listens on addr.
type DialFunc func(ctx context.Context, addr string) (Transport, error)

// DialTCP returns a DialFunc opening plain TCP connections.
func DialTCP(timeout time.Duration) DialFunc {
	return func(ctx context.Context, addr string) (Transport, error) {
		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			if IsConnectionRefused(err) {
				return nil, fmt.Errorf("%w: %w", ErrConnectionRefused, err)
			}
			return nil, &ConnectionError{Op: "dial", Err: err}
		}
		return NewConnection(conn), nil
	}
}

// Connection is the default Transport over a net.Conn.
type Connection struct {
	conn   net.Conn
	reader *bufio.Reader
	closed bool

	// SettleTime is how long WaitFor keeps reading after a match.
	SettleTime time.Duration
}

var _ Transport = (*Connection)(nil)

// NewConnection wraps an established network connection.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		SettleTime: DefaultSettleTime,
	}
}

// WaitFor reads lines until match is found, then keeps reading whatever the
// server sends within SettleTime. It is used for the greeting, which is
// followed by a banner of unknown length.
func (c *Connection) WaitFor(match *regexp.Regexp, timeout time.Duration) (string, error) {
	if c.closed {
		return "", ErrConnectionClosed
	}

	var buf strings.Builder
	if err := c.readUntil(&buf, match, timeout); err != nil {
		return buf.String(), err
	}

	if c.SettleTime > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.SettleTime))
		for {
			line, err := c.reader.ReadString('\n')
			buf.WriteString(stripCR(line))
			if err != nil {
				if !errors.Is(err, os.ErrDeadlineExceeded) {
					c.markClosed()
					return buf.String(), &ConnectionError{Op: "read", Err: err}
				}
				break
			}
		}
	}

	return buf.String(), nil
}

// Command writes line followed by a newline and reads the response until
// match is found.
func (c *Connection) Command(line string, match *regexp.Regexp, timeout time.Duration) (string, error) {
	if c.closed {
		return "", ErrConnectionClosed
	}

	if timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(timeout))
	} else {
		c.conn.SetWriteDeadline(time.Time{})
	}

	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.markClosed()
		return "", &ConnectionError{Op: "write", Err: err}
	}

	var buf strings.Builder
	err := c.readUntil(&buf, match, timeout)
	return buf.String(), err
}

// readUntil appends complete lines to buf until match is found in it.
func (c *Connection) readUntil(buf *strings.Builder, match *regexp.Regexp, timeout time.Duration) error {
	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}

	for {
		line, err := c.reader.ReadString('\n')
		buf.WriteString(stripCR(line))
		if err != nil {
			// The response may still arrive later and would be read as the
			// answer to the next command, so the connection is unusable.
			c.markClosed()
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return &ConnectionError{Op: "read", Err: ErrTimeout}
			}
			return &ConnectionError{Op: "read", Err: err}
		}

		if match.MatchString(buf.String()) {
			return nil
		}
	}
}

// Close closes the connection. Closing twice is a no-op.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true
	return c.conn.Close()
}

// IsClosed returns whether the connection is closed
func (c *Connection) IsClosed() bool {
	return c.closed
}

// markClosed closes the connection after a fatal I/O error.
func (c *Connection) markClosed() {
	c.closed = true
	_ = c.conn.Close()
}

// stripCR drops carriage returns; the server terminates lines with "\n\r".
func stripCR(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}
