package serverquery

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pior/serverquery/query"
)

// Config holds configuration for a Client.
type Config struct {
	// Dial opens the transport.
	// If nil, DialTCP(DialTimeout) is used.
	Dial DialFunc

	// DialTimeout bounds the TCP dial of the default Dial.
	// Zero means DefaultDialTimeout.
	DialTimeout time.Duration

	// ReadyTimeout bounds the wait for the server greeting after dialing.
	// Zero means DefaultReadyTimeout.
	ReadyTimeout time.Duration

	// CommandTimeout bounds the wait for each command response. A shorter
	// context deadline takes precedence.
	// Zero means DefaultCommandTimeout.
	CommandTimeout time.Duration

	// Greeting marks the server as ready after connect.
	// If nil, DefaultGreeting is used.
	Greeting *regexp.Regexp

	// Logger receives every line sent and received, at debug level.
	// If nil, nothing is logged.
	Logger *zerolog.Logger
}

// Client speaks the ServerQuery protocol over a single Transport.
// It never retries; see RetryClient and LazyClient for those behaviors.
//
// A Client is not safe for concurrent use: the protocol is strictly
// request/response over one stream.
type Client struct {
	dial           DialFunc
	readyTimeout   time.Duration
	commandTimeout time.Duration
	greeting       *regexp.Regexp
	log            zerolog.Logger

	transport Transport

	stats *clientStatsCollector
}

// NewClient creates an unconnected client.
func NewClient(config Config) *Client {
	dialTimeout := config.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	dial := config.Dial
	if dial == nil {
		dial = DialTCP(dialTimeout)
	}

	readyTimeout := config.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}

	commandTimeout := config.CommandTimeout
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}

	greeting := config.Greeting
	if greeting == nil {
		greeting = DefaultGreeting
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Client{
		dial:           dial,
		readyTimeout:   readyTimeout,
		commandTimeout: commandTimeout,
		greeting:       greeting,
		log:            logger,
		stats:          newClientStatsCollector(),
	}
}

// Connect opens the transport to addr ("host:port", DefaultAddr when empty)
// and blocks until the server greeting is read. A previous connection is
// closed first.
func (c *Client) Connect(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	if c.transport != nil {
		_ = c.transport.Close()
		c.transport = nil
	}

	c.stats.recordConnect()

	transport, err := c.dial(ctx, addr)
	if err != nil {
		c.stats.recordTransportError()
		c.log.Debug().Err(err).Str("addr", addr).Msg("connect failed")
		return err
	}

	banner, err := transport.WaitFor(c.greeting, c.readyTimeout)
	if err != nil {
		c.stats.recordTransportError()
		_ = transport.Close()
		return err
	}

	c.log.Debug().Str("addr", addr).Msg("<= " + firstLine(banner))
	c.transport = transport
	return nil
}

// Execute sends a command and parses its response according to the shape
// implied by the command name (see query.Classify).
//
// Errors:
//   - *query.ArgumentError: an argument could not be serialized, nothing was sent
//   - *query.UnknownCommandError: the server does not know the command
//   - *query.ProtocolError: non-zero status, or no response
//   - ErrNotConnected, *ConnectionError: transport failures
func (c *Client) Execute(ctx context.Context, command string, args ...any) (*query.Result, error) {
	line, err := query.FormatCommand(command, args...)
	if err != nil {
		return nil, err
	}

	if c.transport == nil {
		return nil, ErrNotConnected
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.commandTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	shape := query.Classify(command)

	c.log.Debug().Msg("=> " + redact(command, line))
	c.stats.recordCommand()

	raw, err := c.transport.Command(line, query.MatchPattern(shape), timeout)
	if err != nil {
		c.stats.recordTransportError()
		c.log.Debug().Err(err).Str("command", command).Msg("transport failed")
		return nil, err
	}

	c.log.Debug().Msg("<= " + firstLine(raw))

	res, err := query.Parse(shape, raw)
	if err != nil {
		c.stats.recordProtocolError(query.IsUnknownCommand(err))
		return nil, err
	}
	return res, nil
}

// Login authenticates with the given credentials; an empty username means
// DefaultUsername.
//
// A rejected login is an expected outcome: any protocol error is reported as
// (false, nil). Transport failures are returned as errors.
//
// The credentials are escaped before sending; pass them raw, not
// pre-escaped with query.Escape.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	_, err := c.Execute(ctx, CmdLogin, loginArgs(username, password)...)
	if err != nil {
		if query.IsProtocolError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close closes the transport. Closing an unconnected client is a no-op.
func (c *Client) Close() error {
	if c.transport == nil {
		return nil
	}

	err := c.transport.Close()
	c.transport = nil
	return err
}

// Connected reports whether Connect succeeded and Close was not called since.
func (c *Client) Connected() bool {
	return c.transport != nil
}

// Stats returns a snapshot of client statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(s, "\n"), "\n")
	return line
}

// redact hides credentials from logged command lines.
func redact(command, line string) string {
	if command == CmdLogin {
		return CmdLogin + " [redacted]"
	}
	return line
}
