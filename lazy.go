package serverquery

import (
	"context"

	"github.com/pior/serverquery/query"
)

// LazyState is the connection state of a LazyClient.
type LazyState uint8

const (
	// LazyPending means no command required the connection yet.
	LazyPending LazyState = iota
	// LazyLive means the connection is established and every call passes
	// straight through.
	LazyLive
)

func (s LazyState) String() string {
	if s == LazyLive {
		return "live"
	}
	return "pending"
}

type pendingCommand struct {
	command string
	args    []any
}

// LazyClient wraps a Querier and postpones the connection, and the setup
// commands "use" and "login", until a command that needs the server is run.
//
// This allows building a ready-to-use client without touching the network:
//
//	lazy := serverquery.NewLazyClient(client)
//	lazy.Connect(ctx, addr)           // nothing happens
//	lazy.Execute(ctx, "use", 1)       // queued
//	lazy.Login(ctx, "", password)     // queued
//	lazy.Execute(ctx, "clientlist")   // connects, runs use, login, then clientlist
type LazyClient struct {
	inner Querier

	addr     string
	deferred bool // a Connect is waiting to be performed
	state    LazyState
	pending  []pendingCommand
}

// NewLazyClient wraps inner, which may itself be a RetryClient.
func NewLazyClient(inner Querier) *LazyClient {
	return &LazyClient{inner: inner}
}

// Connect records addr and returns without any I/O. Once live, it reconnects
// the wrapped client immediately.
func (l *LazyClient) Connect(ctx context.Context, addr string) error {
	if l.state == LazyLive {
		return l.inner.Connect(ctx, addr)
	}

	l.addr = addr
	l.deferred = true
	return nil
}

// ConnectNow connects the wrapped client immediately, replays any queued
// command and makes the client live.
func (l *LazyClient) ConnectNow(ctx context.Context, addr string) error {
	l.addr = addr
	l.deferred = true
	return l.goLive(ctx)
}

// Execute queues "use" and "login" while the client is pending and returns a
// nil result for them. Any other command first brings the client live:
// connect, replay the queue in order, then run the command.
func (l *LazyClient) Execute(ctx context.Context, command string, args ...any) (*query.Result, error) {
	if l.state == LazyLive {
		return l.inner.Execute(ctx, command, args...)
	}

	switch command {
	case CmdUse, CmdLogin:
		l.pending = append(l.pending, pendingCommand{command: command, args: args})
		return nil, nil
	}

	if err := l.goLive(ctx); err != nil {
		return nil, err
	}
	return l.inner.Execute(ctx, command, args...)
}

// Login queues a login while the client is pending and reports false, since
// the outcome is only known once the queue is replayed. A rejected login then
// fails the triggering command with the protocol error.
// Once live, it delegates to the wrapped client.
func (l *LazyClient) Login(ctx context.Context, username, password string) (bool, error) {
	if l.state == LazyLive {
		return l.inner.Login(ctx, username, password)
	}

	l.pending = append(l.pending, pendingCommand{command: CmdLogin, args: loginArgs(username, password)})
	return false, nil
}

// Close closes the wrapped client and forgets pending state. It is safe on a
// client that never connected.
func (l *LazyClient) Close() error {
	l.state = LazyPending
	l.deferred = false
	l.pending = nil
	return l.inner.Close()
}

// State returns the current connection state.
func (l *LazyClient) State() LazyState {
	return l.state
}

// Pending returns the number of queued commands.
func (l *LazyClient) Pending() int {
	return len(l.pending)
}

// goLive performs the deferred connect and replays the queue. Results of the
// replayed commands are discarded. On failure, the failed command and the
// ones after it stay queued so the next call tries again.
func (l *LazyClient) goLive(ctx context.Context) error {
	if l.deferred {
		if err := l.inner.Connect(ctx, l.addr); err != nil {
			return err
		}
		l.deferred = false
	}

	for len(l.pending) > 0 {
		cmd := l.pending[0]
		if _, err := l.inner.Execute(ctx, cmd.command, cmd.args...); err != nil {
			return err
		}
		l.pending = l.pending[1:]
	}

	l.pending = nil
	l.state = LazyLive
	return nil
}
