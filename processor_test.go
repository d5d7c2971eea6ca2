// FILE: lixenwraith/ringlog/processor_test.go
package ringlog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerHeartbeat verifies the heartbeat lines for each level
func TestLoggerHeartbeat(t *testing.T) {
	logger, buf := createTestLogger(t, func(c *Config) {
		c.HeartbeatLevel = 3
		c.Capacity = 1024
	})

	logger.Info("one")
	logger.Debug("filtered")
	drainAll(logger)

	d := newDrainer(logger.getConfig())
	logger.handleHeartbeat(d)

	lines := buf.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "[0000000007][INF] one", lines[0])

	assert.True(t, strings.HasPrefix(lines[1], "[0000000007][INF] heartbeat type=proc sequence=1 uptime_hours="), lines[1])
	assert.Contains(t, lines[1], "logged=1 drained=1 filtered=1 dropped=0")

	assert.Equal(t,
		"[0000000007][INF] heartbeat type=ring sequence=1 capacity=1024 used_bytes=0 evicted=0 oversize=0 contended=0 truncated=0 write_errors=0",
		lines[2])

	assert.True(t, strings.HasPrefix(lines[3], "[0000000007][INF] heartbeat type=sys sequence=1 alloc_mb="), lines[3])
	assert.Contains(t, lines[3], "num_gc=")
	assert.Contains(t, lines[3], "num_goroutine=")

	// Heartbeats bypass the ring
	assert.Equal(t, uint64(1), logger.Stats().Logged)
}

func TestHeartbeatLevels(t *testing.T) {
	for level, kinds := range map[int64][]string{
		1: {"proc"},
		2: {"proc", "ring"},
	} {
		logger, buf := createTestLogger(t, func(c *Config) { c.HeartbeatLevel = level })
		logger.handleHeartbeat(newDrainer(logger.getConfig()))

		lines := buf.Lines()
		require.Len(t, lines, len(kinds))
		for i, kind := range kinds {
			assert.Contains(t, lines[i], "type="+kind)
		}
	}
}

func TestHeartbeatSequence(t *testing.T) {
	logger, buf := createTestLogger(t, func(c *Config) { c.HeartbeatLevel = 1 })
	d := newDrainer(logger.getConfig())

	logger.handleHeartbeat(d)
	logger.handleHeartbeat(d)

	lines := buf.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "sequence=1")
	assert.Contains(t, lines[1], "sequence=2")
}

func TestHeartbeatSkippedAfterShutdown(t *testing.T) {
	logger, buf := createTestLogger(t, func(c *Config) { c.HeartbeatLevel = 1 })
	d := newDrainer(logger.getConfig())

	logger.state.LoggerDisabled.Store(true)
	logger.handleHeartbeat(d)
	assert.Empty(t, buf.String())
}

func TestInitialHeartbeatOnStart(t *testing.T) {
	logger, buf := createTestLogger(t, func(c *Config) { c.HeartbeatLevel = 1 })
	require.NoError(t, logger.Start())

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "heartbeat type=proc sequence=1")
	}, time.Second, time.Millisecond)
}

func TestDrainBatch(t *testing.T) {
	logger, buf := createTestLogger(t, func(c *Config) {
		c.DrainBatch = 4
		c.DrainIntervalMs = 200
	})
	for i := 0; i < 10; i++ {
		logger.Info("batched")
	}
	require.NoError(t, logger.Start())

	// First pass renders one batch, then the loop sleeps
	assert.Eventually(t, func() bool { return len(buf.Lines()) == 4 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, buf.Lines(), 4)
}

func TestDrainRemainingStopsAtSnapshot(t *testing.T) {
	logger, buf := createTestLogger(t)
	for i := 0; i < 3; i++ {
		logger.Info("queued")
	}

	d := newDrainer(logger.getConfig())
	logger.drainRemaining(d)
	assert.Len(t, buf.Lines(), 3)

	// Nothing left, returns at once
	logger.drainRemaining(d)
	assert.Len(t, buf.Lines(), 3)
}

func TestNewDrainer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLineBytes = 10
	cfg.Sanitize = "strip"

	d := newDrainer(cfg)
	assert.Len(t, d.scratch, 10)
	assert.GreaterOrEqual(t, cap(d.line), 10)
	assert.Equal(t, "strip", d.mode.String())
}

func TestDrainTimers(t *testing.T) {
	cfg := DefaultConfig()
	timers := newDrainTimers(cfg)
	assert.Nil(t, timers.heartbeatC(), "heartbeats off by default")
	timers.stop()

	cfg.HeartbeatLevel = 1
	cfg.HeartbeatIntervalS = 5
	timers = newDrainTimers(cfg)
	defer timers.stop()
	assert.NotNil(t, timers.heartbeatC())
	assert.Equal(t, 5*time.Second, heartbeatInterval(cfg))

	cfg.HeartbeatIntervalS = 0
	assert.Equal(t, 60*time.Second, heartbeatInterval(cfg))

	cfg.DrainIntervalMs = 3
	assert.Equal(t, 3*time.Millisecond, drainInterval(cfg))
}
