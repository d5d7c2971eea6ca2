// FILE: lixenwraith/ringlog/builder.go
package ringlog

import (
	"io"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg    *Config
	writer io.Writer
	clock  Clock
	err    error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration and
// starts its drain goroutine.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	// Create a new logger.
	logger := NewLogger()

	// Apply the built configuration. ApplyConfig handles all initialization and validation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	if b.writer != nil {
		logger.SetOutput(b.writer)
	}
	if b.clock != nil {
		logger.SetClock(b.clock)
	}

	if err := logger.Start(); err != nil {
		return nil, err
	}

	return logger, nil
}

// Config replaces the whole configuration. Later calls still apply on top.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg == nil {
		b.err = fmtErrorf("builder: configuration cannot be nil")
		return b
	}
	b.cfg = cfg.Clone()
	return b
}

// Level sets the minimum log level.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = int64(level)
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = int64(levelVal)
	return b
}

// Capacity sets the ring size in bytes.
func (b *Builder) Capacity(size int64) *Builder {
	b.cfg.Capacity = size
	return b
}

// SingleProducer drops the producer gate. The caller guarantees that at most
// one goroutine logs at a time.
func (b *Builder) SingleProducer(single bool) *Builder {
	if single {
		b.cfg.ProducerMode = ProducerSingle
	} else {
		b.cfg.ProducerMode = ProducerMulti
	}
	return b
}

// ProducerSpin sets the gate CAS attempts made before a waiting producer starts yielding.
func (b *Builder) ProducerSpin(spin int64) *Builder {
	b.cfg.ProducerSpin = spin
	return b
}

// ClockSource selects "wall", "monotonic" or "coarse" timestamps.
func (b *Builder) ClockSource(source string) *Builder {
	b.cfg.ClockSource = source
	return b
}

// DrainIntervalMs sets the sleep between drain iterations.
func (b *Builder) DrainIntervalMs(interval int64) *Builder {
	b.cfg.DrainIntervalMs = interval
	return b
}

// DrainBatch sets the records rendered per drain iteration.
func (b *Builder) DrainBatch(n int64) *Builder {
	b.cfg.DrainBatch = n
	return b
}

// DrainOnStop renders queued records before the drain goroutine exits.
func (b *Builder) DrainOnStop(enable bool) *Builder {
	b.cfg.DrainOnStop = enable
	return b
}

// MaxLineBytes sets the payload bytes shown per rendered line.
func (b *Builder) MaxLineBytes(n int64) *Builder {
	b.cfg.MaxLineBytes = n
	return b
}

// Sanitize sets the payload sanitizing mode.
func (b *Builder) Sanitize(mode string) *Builder {
	b.cfg.Sanitize = mode
	return b
}

// ConsoleTarget selects "console", "stdout", "stderr" or "discard".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// ConsoleDevice sets the device opened for the console target.
func (b *Builder) ConsoleDevice(path string) *Builder {
	b.cfg.ConsoleDevice = path
	return b
}

// Writer sends rendered lines to w instead of the configured target.
func (b *Builder) Writer(w io.Writer) *Builder {
	b.writer = w
	return b
}

// Clock overrides the timestamp source selected by ClockSource.
func (b *Builder) Clock(c Clock) *Builder {
	b.clock = c
	return b
}

// HeartbeatLevel sets the heartbeat monitoring level.
func (b *Builder) HeartbeatLevel(level int64) *Builder {
	b.cfg.HeartbeatLevel = level
	return b
}

// HeartbeatIntervalS sets the heartbeat interval in seconds.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// InternalErrorsToStderr reports logger failures on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := ringlog.NewBuilder().
//
//	Capacity(8192).
//	LevelString("debug").
//	ConsoleTarget("stderr").
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
