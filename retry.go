package serverquery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pior/serverquery/query"
)

// RetryConfig controls how failed calls are retried.
// Zero fields fall back to the RetryClient defaults, which themselves fall
// back to DefaultRetryAttempts and DefaultRetryDelay.
type RetryConfig struct {
	// Attempts is the total number of attempts, including the first one.
	Attempts int

	// Delay is slept between two attempts.
	Delay time.Duration

	// Sleep waits for Delay. Tests replace it to avoid real sleeps.
	// If nil, a timer bound to the call context is used.
	Sleep func(ctx context.Context, d time.Duration) error

	// Logger receives a debug event per retry. A per-call config without
	// Logger uses the client's.
	Logger *zerolog.Logger
}

// RetryClient wraps a Querier and retries transient failures:
//   - Connect is retried when the connection is refused
//   - Execute is retried on protocol errors, except unknown commands
//
// Every other failure is returned immediately. After the budget is used up
// the last error is returned unchanged.
type RetryClient struct {
	inner  Querier
	config RetryConfig
	log    zerolog.Logger
	stats  *retryStatsCollector
}

// NewRetryClient wraps inner with the given default retry configuration.
func NewRetryClient(inner Querier, config RetryConfig) *RetryClient {
	if config.Attempts <= 0 {
		config.Attempts = DefaultRetryAttempts
	}
	if config.Delay <= 0 {
		config.Delay = DefaultRetryDelay
	}
	if config.Sleep == nil {
		config.Sleep = sleepContext
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &RetryClient{
		inner:  inner,
		config: config,
		log:    logger,
		stats:  newRetryStatsCollector(),
	}
}

// Connect connects the wrapped client with the default retry configuration.
func (r *RetryClient) Connect(ctx context.Context, addr string) error {
	return r.ConnectWith(ctx, RetryConfig{}, addr)
}

// ConnectWith connects the wrapped client, retrying refused connections
// according to config.
func (r *RetryClient) ConnectWith(ctx context.Context, config RetryConfig, addr string) error {
	return r.retry(ctx, r.resolve(config), "connect", IsConnectionRefused, func() error {
		return r.inner.Connect(ctx, addr)
	})
}

// Execute runs a command with the default retry configuration.
func (r *RetryClient) Execute(ctx context.Context, command string, args ...any) (*query.Result, error) {
	return r.ExecuteWith(ctx, RetryConfig{}, command, args...)
}

// ExecuteWith runs a command, retrying protocol errors according to config.
// Unknown command errors are never retried.
func (r *RetryClient) ExecuteWith(ctx context.Context, config RetryConfig, command string, args ...any) (*query.Result, error) {
	var res *query.Result
	err := r.retry(ctx, r.resolve(config), command, query.ShouldRetry, func() error {
		var err error
		res, err = r.inner.Execute(ctx, command, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Login delegates to the wrapped client. A rejected login is not transient
// and is not retried.
func (r *RetryClient) Login(ctx context.Context, username, password string) (bool, error) {
	return r.inner.Login(ctx, username, password)
}

// Close closes the wrapped client.
func (r *RetryClient) Close() error {
	return r.inner.Close()
}

// Stats returns a snapshot of retry statistics.
func (r *RetryClient) Stats() RetryStats {
	return r.stats.snapshot()
}

// resolve fills zero fields of a per-call config with the client defaults.
func (r *RetryClient) resolve(config RetryConfig) RetryConfig {
	if config.Attempts <= 0 {
		config.Attempts = r.config.Attempts
	}
	if config.Delay <= 0 {
		config.Delay = r.config.Delay
	}
	if config.Sleep == nil {
		config.Sleep = r.config.Sleep
	}
	if config.Logger == nil {
		config.Logger = &r.log
	}
	return config
}

func (r *RetryClient) retry(ctx context.Context, config RetryConfig, op string, retryable func(error) bool, fn func() error) error {
	log := config.Logger
	for attempt := 1; ; attempt++ {
		r.stats.recordAttempt()

		err := fn()
		if err == nil || !retryable(err) {
			return err
		}

		if attempt >= config.Attempts {
			r.stats.recordExhausted()
			log.Debug().Err(err).Str("op", op).Int("attempts", attempt).Msg("giving up")
			return err
		}

		log.Debug().Err(err).Str("op", op).Int("attempt", attempt).Dur("delay", config.Delay).Msg("retrying")

		if sleepErr := config.Sleep(ctx, config.Delay); sleepErr != nil {
			return sleepErr
		}
		r.stats.recordRetry()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
