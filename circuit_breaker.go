package serverquery

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pior/serverquery/query"
)

// BreakerConfig configures the circuit breaker of a BreakerClient.
// See gobreaker.Settings for the meaning of each field.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration

	// ReadyToTrip decides when the breaker opens.
	// If nil, it opens once 3 requests were made and 60% of them failed.
	ReadyToTrip func(counts gobreaker.Counts) bool

	OnStateChange func(name string, from, to gobreaker.State)
}

// BreakerClient wraps a Querier with a circuit breaker. Only failures where
// the server did not answer count against the breaker: a protocol error
// carries a real status id and proves the server is alive.
//
// While open, calls fail with gobreaker.ErrOpenState without reaching the
// wrapped client. RetryClient never retries that error.
type BreakerClient struct {
	inner Querier
	cb    *gobreaker.CircuitBreaker[*query.Result]
}

// NewBreakerClient wraps inner with a circuit breaker.
func NewBreakerClient(inner Querier, config BreakerConfig) *BreakerClient {
	readyToTrip := config.ReadyToTrip
	if readyToTrip == nil {
		readyToTrip = func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		}
	}

	settings := gobreaker.Settings{
		Name:          config.Name,
		MaxRequests:   config.MaxRequests,
		Interval:      config.Interval,
		Timeout:       config.Timeout,
		ReadyToTrip:   readyToTrip,
		OnStateChange: config.OnStateChange,
		IsSuccessful:  serverAnswered,
	}

	return &BreakerClient{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*query.Result](settings),
	}
}

func (b *BreakerClient) Connect(ctx context.Context, addr string) error {
	_, err := b.cb.Execute(func() (*query.Result, error) {
		return nil, b.inner.Connect(ctx, addr)
	})
	return err
}

func (b *BreakerClient) Execute(ctx context.Context, command string, args ...any) (*query.Result, error) {
	return b.cb.Execute(func() (*query.Result, error) {
		return b.inner.Execute(ctx, command, args...)
	})
}

func (b *BreakerClient) Login(ctx context.Context, username, password string) (bool, error) {
	var ok bool
	_, err := b.cb.Execute(func() (*query.Result, error) {
		var err error
		ok, err = b.inner.Login(ctx, username, password)
		return nil, err
	})
	return ok, err
}

func (b *BreakerClient) Close() error {
	return b.inner.Close()
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Counts returns the breaker counters of the current generation.
func (b *BreakerClient) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

// serverAnswered reports whether err, if any, came from a status line sent by
// the server, or from the caller.
func serverAnswered(err error) bool {
	if err == nil {
		return true
	}

	var argErr *query.ArgumentError
	if errors.As(err, &argErr) {
		return true
	}

	var pe *query.ProtocolError
	if errors.As(err, &pe) {
		return pe.ID >= 0
	}
	return false
}
