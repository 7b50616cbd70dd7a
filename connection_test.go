package serverquery

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/serverquery/internal/testutils"
	"github.com/pior/serverquery/query"
)

func TestConnection_WaitForConsumesBanner(t *testing.T) {
	mock := testutils.NewConnectionMock("TS3\n\rWelcome to the ServerQuery interface\n\r")
	conn := NewConnection(mock)

	text, err := conn.WaitFor(DefaultGreeting, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "TS3\nWelcome to the ServerQuery interface\n", text)
	assert.False(t, conn.IsClosed())
}

func TestConnection_WaitForEOF(t *testing.T) {
	mock := testutils.NewConnectionMock("SSH-2.0\n")
	conn := NewConnection(mock)

	_, err := conn.WaitFor(DefaultGreeting, 0)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "read", connErr.Op)
	assert.True(t, conn.IsClosed())
	assert.True(t, mock.IsClosed())
}

func TestConnection_Command(t *testing.T) {
	mock := testutils.NewConnectionMock("clid=1|clid=2\n\rerror id=0 msg=ok\n\r")
	conn := NewConnection(mock)

	text, err := conn.Command("clientlist", query.MatchPattern(query.ShapeList), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "clid=1|clid=2\nerror id=0 msg=ok\n", text)
	assert.Equal(t, "clientlist\n", mock.GetWrittenRequest())
}

func TestConnection_CommandTimeout(t *testing.T) {
	mock := testutils.NewConnectionMock("clid=1|clid=2\n")
	conn := NewConnection(mock)

	text, err := conn.Command("clientlist", query.MatchPattern(query.ShapeList), time.Second)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "clid=1|clid=2\n", text)
	assert.True(t, conn.IsClosed())

	_, err = conn.Command("quit", query.MatchPattern(query.ShapePlain), time.Second)
	require.ErrorIs(t, err, ErrConnectionClosed)
}

func TestConnection_CloseTwice(t *testing.T) {
	mock := testutils.NewConnectionMock()
	conn := NewConnection(mock)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.True(t, mock.IsClosed())
}

func TestDialTCP_Refused(t *testing.T) {
	// Grab a free port and release it so nothing listens there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	_, err = DialTCP(time.Second)(context.Background(), addr)
	require.Error(t, err)
	assert.True(t, IsConnectionRefused(err))
	assert.ErrorIs(t, err, ErrConnectionRefused)
}

func TestClient_FakeServer(t *testing.T) {
	addr := createListener(t, fakeServer(func(line string) string {
		switch {
		case line == "use 1":
			return "error id=0 msg=ok\n\r"
		case strings.HasPrefix(line, "login "):
			return "error id=0 msg=ok\n\r"
		case line == "version":
			return "version=3.13.7 build=1655727713 platform=Linux\n\rerror id=0 msg=ok\n\r"
		case line == "clientlist":
			return "clid=1 client_nickname=a|clid=2 client_nickname=b\n\rerror id=0 msg=ok\n\r"
		default:
			return "error id=256 msg=command\\snot\\sfound\n\r"
		}
	}))

	client := NewClient(Config{})
	ctx := context.Background()

	require.NoError(t, client.Connect(ctx, addr))
	defer client.Close()

	_, err := client.Execute(ctx, "use", 1)
	require.NoError(t, err)

	ok, err := client.Login(ctx, "", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := client.Execute(ctx, "version")
	require.NoError(t, err)
	assert.Equal(t, "3.13.7", res.Record["version"])

	res, err = client.Execute(ctx, "clientlist")
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "b", res.Records[1]["client_nickname"])

	_, err = client.Execute(ctx, "nope")
	assert.True(t, query.IsUnknownCommand(err))
}
