package serverquery

import "sync/atomic"

// ClientStats contains statistics about a Client.
// All fields are safe for concurrent access.
type ClientStats struct {
	Connects        uint64 // Connect attempts
	Commands        uint64 // Commands written to the transport
	ProtocolErrors  uint64 // Responses with a non-zero status id, or no response
	UnknownCommands uint64 // Responses with status id 256
	TransportErrors uint64 // Dial, read and write failures
}

// RetryStats contains statistics about a RetryClient.
type RetryStats struct {
	Attempts  uint64 // Calls made to the wrapped client
	Retries   uint64 // Attempts made after a retryable failure
	Exhausted uint64 // Calls that failed after the whole budget was used
}

// clientStatsCollector provides internal methods for updating client stats.
// Not exported - client updates its own stats.
type clientStatsCollector struct {
	stats ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{}
}

func (c *clientStatsCollector) recordConnect() {
	atomic.AddUint64(&c.stats.Connects, 1)
}

func (c *clientStatsCollector) recordCommand() {
	atomic.AddUint64(&c.stats.Commands, 1)
}

func (c *clientStatsCollector) recordProtocolError(unknownCommand bool) {
	atomic.AddUint64(&c.stats.ProtocolErrors, 1)
	if unknownCommand {
		atomic.AddUint64(&c.stats.UnknownCommands, 1)
	}
}

func (c *clientStatsCollector) recordTransportError() {
	atomic.AddUint64(&c.stats.TransportErrors, 1)
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Connects:        atomic.LoadUint64(&c.stats.Connects),
		Commands:        atomic.LoadUint64(&c.stats.Commands),
		ProtocolErrors:  atomic.LoadUint64(&c.stats.ProtocolErrors),
		UnknownCommands: atomic.LoadUint64(&c.stats.UnknownCommands),
		TransportErrors: atomic.LoadUint64(&c.stats.TransportErrors),
	}
}

type retryStatsCollector struct {
	stats RetryStats
}

func newRetryStatsCollector() *retryStatsCollector {
	return &retryStatsCollector{}
}

func (c *retryStatsCollector) recordAttempt() {
	atomic.AddUint64(&c.stats.Attempts, 1)
}

func (c *retryStatsCollector) recordRetry() {
	atomic.AddUint64(&c.stats.Retries, 1)
}

func (c *retryStatsCollector) recordExhausted() {
	atomic.AddUint64(&c.stats.Exhausted, 1)
}

func (c *retryStatsCollector) snapshot() RetryStats {
	return RetryStats{
		Attempts:  atomic.LoadUint64(&c.stats.Attempts),
		Retries:   atomic.LoadUint64(&c.stats.Retries),
		Exhausted: atomic.LoadUint64(&c.stats.Exhausted),
	}
}
