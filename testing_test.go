package serverquery

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pior/serverquery/internal/testutils"
)

const (
	plainMatch = `(?m)^error id=\d+`
	dataMatch  = `error id=\d+`
)

// dialMock returns a DialFunc handing out the given transports in order, the
// last one being reused.
func dialMock(mocks ...*testutils.TransportMock) DialFunc {
	i := 0
	return func(ctx context.Context, addr string) (Transport, error) {
		m := mocks[min(i, len(mocks)-1)]
		i++
		return m, nil
	}
}

// dialRefusing returns a DialFunc refusing the first failures dials. The
// returned counter holds the number of dial attempts.
func dialRefusing(failures int, mock *testutils.TransportMock) (DialFunc, *int) {
	attempts := 0
	return func(ctx context.Context, addr string) (Transport, error) {
		attempts++
		if attempts <= failures {
			return nil, ErrConnectionRefused
		}
		return mock, nil
	}, &attempts
}

func newTestClient(t testing.TB, mock *testutils.TransportMock) *Client {
	t.Helper()
	client := NewClient(Config{Dial: dialMock(mock)})
	require.NoError(t, client.Connect(context.Background(), ""))
	return client
}

// noSleep records the requested delays without sleeping.
type noSleep struct {
	delays []time.Duration
}

func (s *noSleep) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func createListener(t testing.TB, handler func(conn net.Conn)) string {
	// Start a simple test server
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}

	t.Cleanup(func() {
		listener.Close()
	})

	// Accept connections in background
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer c.Close()

				if handler != nil {
					handler(c)
				}
			}(conn)
		}
	}()

	return listener.Addr().String()
}

// fakeServer greets like a real server, then answers each command line with
// the response returned by respond.
func fakeServer(respond func(line string) string) func(conn net.Conn) {
	return func(conn net.Conn) {
		conn.Write([]byte("TS3\n\rWelcome to the ServerQuery interface, type \"help\" for a list of commands.\n\r"))

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			if _, err := conn.Write([]byte(respond(scanner.Text()))); err != nil {
				return
			}
		}
	}
}
