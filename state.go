// FILE: state.go
package ringlog

import (
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	LoggerDisabled  atomic.Bool
	ShutdownCalled  atomic.Bool
	Started         atomic.Bool
	Running         atomic.Bool // Drain loop keeps iterating while set
	ProcessorExited atomic.Bool // Tracks if the drain goroutine is running or has exited

	MinLevel atomic.Uint32 // Records below this level are filtered at the producer

	Ring  atomic.Pointer[ring]
	Clock atomic.Pointer[clockBox]
	Sink  atomic.Value // stores *sink

	// Producer side counters
	Logged    atomic.Uint64 // Records written to the ring
	Filtered  atomic.Uint64 // Below minimum level
	Oversize  atomic.Uint64 // Larger than capacity - 1
	Evicted   atomic.Uint64 // Oldest records discarded to make room
	Corrupt   atomic.Uint64 // Header desync detected

	// Drain side counters
	Drained     atomic.Uint64 // Records rendered to the sink
	Truncated   atomic.Uint64 // Records cut to max_line_bytes for display
	WriteErrors atomic.Uint64 // Sink write failures

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64 // Counter for heartbeat sequence numbers
	LoggerStartTime   atomic.Value  // Stores time.Time for uptime calculation
}
