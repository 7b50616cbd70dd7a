package serverquery

import (
	"context"

	"github.com/pior/serverquery/query"
)

// Querier is the capability set shared by Client and its decorators.
//
// Execute accepts any command name; the vocabulary is not enumerated. See
// query.FormatCommand for the accepted argument kinds.
type Querier interface {
	Connect(ctx context.Context, addr string) error
	Execute(ctx context.Context, command string, args ...any) (*query.Result, error)
	Login(ctx context.Context, username, password string) (bool, error)
	Close() error
}

var (
	_ Querier = (*Client)(nil)
	_ Querier = (*RetryClient)(nil)
	_ Querier = (*LazyClient)(nil)
	_ Querier = (*BreakerClient)(nil)
)

// loginArgs returns the arguments of a login command, defaulting the
// username. Credentials are escaped so they survive spaces and pipes.
func loginArgs(username, password string) []any {
	if username == "" {
		username = DefaultUsername
	}
	return []any{query.Escape(username), query.Escape(password)}
}
