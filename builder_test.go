// FILE: lixenwraith/ringlog/builder_test.go
package ringlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		buf := &syncBuffer{}

		logger, err := NewBuilder().
			LevelString("debug").
			Capacity(2048).
			SingleProducer(true).
			ProducerSpin(8).
			ClockSource("monotonic").
			DrainIntervalMs(1).
			DrainBatch(32).
			DrainOnStop(true).
			MaxLineBytes(120).
			Sanitize("escape").
			ConsoleTarget("discard").
			ConsoleDevice("/dev/tty1").
			HeartbeatLevel(2).
			HeartbeatIntervalS(30).
			InternalErrorsToStderr(false).
			Writer(buf).
			Clock(fixedClock).
			Build()

		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger, "Builder.Build() should return a non-nil logger")
		defer logger.Shutdown()

		assert.True(t, logger.state.Started.Load(), "Build starts the drain goroutine")

		cfg := logger.GetConfig()
		assert.Equal(t, int64(LevelDebug), cfg.Level)
		assert.Equal(t, int64(2048), cfg.Capacity)
		assert.Equal(t, ProducerSingle, cfg.ProducerMode)
		assert.Equal(t, int64(8), cfg.ProducerSpin)
		assert.Equal(t, "monotonic", cfg.ClockSource)
		assert.Equal(t, int64(1), cfg.DrainIntervalMs)
		assert.Equal(t, int64(32), cfg.DrainBatch)
		assert.Equal(t, int64(120), cfg.MaxLineBytes)
		assert.Equal(t, "escape", cfg.Sanitize)
		assert.Equal(t, "discard", cfg.ConsoleTarget)
		assert.Equal(t, "/dev/tty1", cfg.ConsoleDevice)
		assert.Equal(t, int64(2), cfg.HeartbeatLevel)
		assert.Equal(t, int64(30), cfg.HeartbeatIntervalS)

		// The custom writer and clock win over target and clock_source
		logger.Debug("built")
		require.NoError(t, logger.Shutdown(time.Second))
		assert.Contains(t, buf.String(), "[0000000007][DBG] built\n")
	})

	t.Run("builder error accumulation", func(t *testing.T) {
		logger, err := NewBuilder().
			LevelString("invalid-level-string").
			Capacity(1 << 16).
			Build()

		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "invalid level string")
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewBuilder().Config(nil).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration cannot be nil")
	})

	t.Run("invalid config fails validation", func(t *testing.T) {
		logger, err := NewBuilder().ConsoleTarget("discard").DrainBatch(0).Build()
		require.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "drain_batch must be positive")
	})

	t.Run("config then overrides", func(t *testing.T) {
		base := DefaultConfig()
		base.ConsoleTarget = "discard"
		base.Capacity = 512

		logger, err := NewBuilder().Config(base).Level(LevelError).SingleProducer(false).Build()
		require.NoError(t, err)
		defer logger.Shutdown()

		cfg := logger.GetConfig()
		assert.Equal(t, int64(512), cfg.Capacity)
		assert.Equal(t, int64(LevelError), cfg.Level)
		assert.Equal(t, ProducerMulti, cfg.ProducerMode)

		// The builder kept its own copy
		assert.Equal(t, int64(LevelInfo), base.Level)
	})
}
