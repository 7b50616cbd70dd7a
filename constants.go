package serverquery

import (
	"regexp"
	"time"
)

const (
	// DefaultAddr is the query port of a server running on the local host.
	DefaultAddr = "127.0.0.1:10011"

	// DefaultUsername is the built-in query administrator account.
	DefaultUsername = "serveradmin"
)

// Client defaults
const (
	DefaultDialTimeout    = 10 * time.Second
	DefaultReadyTimeout   = 10 * time.Second
	DefaultCommandTimeout = 3 * time.Second

	// DefaultSettleTime is how long the transport keeps reading after the
	// greeting matched, to consume the welcome banner that follows it.
	DefaultSettleTime = 100 * time.Millisecond
)

// Retry defaults
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// DefaultGreeting matches the first line the server sends once the query
// interface is ready.
var DefaultGreeting = regexp.MustCompile(`(?m)^TS3\n`)

// Commands the lazy client queues until a connection is required.
const (
	CmdUse   = "use"
	CmdLogin = "login"
)
