// FILE: lixenwraith/ringlog/logger.go
package ringlog

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the core struct that encapsulates all logger functionality.
// The producer methods (Log, LogBytes, Debug, Info, Warn, Error) never block,
// never allocate and never return an error.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{}

	// Set default configuration
	l.currentConfig.Store(DefaultConfig())

	// Initialize the state
	l.state.IsInitialized.Store(false)
	l.state.LoggerDisabled.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.ProcessorExited.Store(true)
	l.state.MinLevel.Store(uint32(defaultConfig.Level))
	l.state.Sink.Store(&sink{w: io.Discard})
	l.state.Clock.Store(&clockBox{c: WallClock{}})

	// Initialize heartbeat counters
	l.state.HeartbeatSequence.Store(0)
	l.state.LoggerStartTime.Store(time.Now())

	return l
}

// ApplyConfig applies a validated configuration to the logger
// This is the primary way applications should configure the logger
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// ApplyConfigString applies string key-value overrides to the logger's current configuration
// Each override should be in the format "key=value"
func (l *Logger) ApplyConfigString(overrides ...string) error {
	return l.ApplyOverride(overrides...)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// Start begins draining the ring. Safe to call multiple times
// Returns error if logger is not initialized
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	// Only start if not already started
	if l.state.Started.CompareAndSwap(false, true) {
		// A previous Stop timed out; a second consumer must never run
		if !l.state.ProcessorExited.Load() {
			l.state.Started.Store(false)
			l.internalLog("warning - processor still running from previous start\n")
			return fmtErrorf("previous drain goroutine has not exited yet")
		}
		l.state.Running.Store(true)
		l.state.ProcessorExited.Store(false)
		go l.processLogs()
	}

	return nil
}

// Stop halts the drain goroutine. Can be restarted with Start()
// Returns nil if already stopped
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	// Calculate effective timeout
	effectiveTimeout := defaultStopTimeout
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		cfg := l.getConfig()
		if d := 2 * drainInterval(cfg); d > effectiveTimeout {
			effectiveTimeout = d
		}
	}

	// Ask the loop to finish its current iteration
	l.state.Running.Store(false)

	// Wait for processor to exit (with timeout)
	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if !l.state.ProcessorExited.Load() {
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	return nil
}

// Shutdown stops the drain goroutine, rendering queued records first when
// drain_on_stop is set, and releases the output device.
// If no timeout is provided, the Stop default applies
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.state.LoggerDisabled.Store(true)

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.LoggerDisabled.Store(false)
		l.state.ProcessorExited.Store(true)
		return nil
	}

	var finalErr error
	if l.state.Started.Load() {
		finalErr = combineErrors(finalErr, l.Stop(timeout...))
	}

	l.state.IsInitialized.Store(false)

	// A drain goroutine that outlived the timeout still owns the sink
	if !l.state.ProcessorExited.Load() {
		l.internalLog("warning - processor still running after shutdown timeout, console device left open\n")
		return finalErr
	}

	old := l.state.Sink.Swap(&sink{w: io.Discard})
	if s, ok := old.(*sink); ok {
		if err := s.close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close console device during shutdown: %w", err))
		}
	}

	return finalErr
}

// Log submits a record. It is a no-op before ApplyConfig, after Shutdown and
// for levels below the minimum. Messages longer than 65535 bytes are cut;
// records that cannot fit the ring at all are dropped and counted.
func (l *Logger) Log(level Level, msg string) {
	if !l.accepts(level) {
		return
	}
	r := l.state.Ring.Load()
	ts := l.state.Clock.Load().c.Millis()
	l.account(r.push(level, ts, msg))
}

// LogBytes is Log for a byte slice payload. msg is copied before returning.
func (l *Logger) LogBytes(level Level, msg []byte) {
	if !l.accepts(level) {
		return
	}
	r := l.state.Ring.Load()
	ts := l.state.Clock.Load().c.Millis()
	l.account(r.pushBytes(level, ts, msg))
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string) {
	l.Log(LevelDebug, msg)
}

// Info logs a message at info level
func (l *Logger) Info(msg string) {
	l.Log(LevelInfo, msg)
}

// Warn logs a message at warning level
func (l *Logger) Warn(msg string) {
	l.Log(LevelWarn, msg)
}

// Error logs a message at error level
func (l *Logger) Error(msg string) {
	l.Log(LevelError, msg)
}

// Print formats args separated by spaces and logs the result.
// Unlike Log it allocates, so it must not be used where allocation is forbidden.
func (l *Logger) Print(level Level, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.LogBytes(level, formatArgs(nil, args))
}

// Printf formats according to a format specifier and logs the result.
// Unlike Log it allocates.
func (l *Logger) Printf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.LogBytes(level, fmt.Appendf(nil, format, args...))
}

// Enabled reports whether a record at level would be accepted
func (l *Logger) Enabled(level Level) bool {
	return l.state.IsInitialized.Load() && !l.state.LoggerDisabled.Load() &&
		uint32(level) >= l.state.MinLevel.Load()
}

// SetLevel changes the minimum level at runtime
func (l *Logger) SetLevel(level Level) error {
	if !level.Valid() {
		return fmtErrorf("invalid level: %d", level)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	cfg := l.getConfig().Clone()
	cfg.Level = int64(level)
	l.currentConfig.Store(cfg)
	l.state.MinLevel.Store(uint32(level))
	return nil
}

// GetLevel returns the current minimum level
func (l *Logger) GetLevel() Level {
	return Level(l.state.MinLevel.Load())
}

// SetClock replaces the timestamp source. The clock is used by producers
// concurrently and must be safe for that.
func (l *Logger) SetClock(c Clock) {
	if c == nil {
		c = WallClock{}
	}
	l.state.Clock.Store(&clockBox{c: c})
}

// accepts runs the producer admission checks shared by Log and LogBytes
func (l *Logger) accepts(level Level) bool {
	if !l.state.IsInitialized.Load() || l.state.LoggerDisabled.Load() {
		return false
	}
	if uint32(level) < l.state.MinLevel.Load() {
		l.state.Filtered.Add(1)
		return false
	}
	return true
}

// account records the outcome of a push in the counters
func (l *Logger) account(evicted uint64, res pushResult) {
	switch res {
	case pushOK:
		l.state.Logged.Add(1)
		if evicted > 0 {
			l.state.Evicted.Add(evicted)
		}
	case pushOversize:
		l.state.Oversize.Add(1)
	case pushCorrupt:
		l.state.Corrupt.Add(1)
	}
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()

	// Get current state
	wasInitialized := l.state.IsInitialized.Load()
	wasStarted := l.state.Started.Load()

	// The ring cannot be resized or switched between producer modes in place
	if wasInitialized && ringSettingsChanged(oldCfg, cfg) {
		return fmtErrorf("capacity, producer_mode and producer_spin are fixed while the logger is initialized "+
			"(have %d/%s/%d, got %d/%s/%d)",
			oldCfg.Capacity, oldCfg.ProducerMode, oldCfg.ProducerSpin,
			cfg.Capacity, cfg.ProducerMode, cfg.ProducerSpin)
	}

	// Determine if restart is needed
	needsRestart := wasStarted && wasInitialized && configRequiresRestart(oldCfg, cfg)

	// Stop processor if restart needed
	if needsRestart {
		if err := l.Stop(); err != nil {
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	// Ring is created once and replaced only across a shutdown
	if l.state.Ring.Load() == nil || (!wasInitialized && ringSettingsChanged(oldCfg, cfg)) {
		l.state.Ring.Store(newRing(int(cfg.Capacity), cfg.ProducerMode == ProducerSingle, int(cfg.ProducerSpin)))
	}

	// Reopen the output only when its target moved
	if !wasInitialized || oldCfg.ConsoleTarget != cfg.ConsoleTarget || oldCfg.ConsoleDevice != cfg.ConsoleDevice {
		old := l.state.Sink.Swap(openSink(cfg.ConsoleTarget, cfg.ConsoleDevice))
		if s, ok := old.(*sink); ok {
			if err := s.close(); err != nil {
				l.internalLog("warning - failed to close previous console device: %v\n", err)
			}
		}
	}

	if !wasInitialized || oldCfg.ClockSource != cfg.ClockSource {
		l.state.Clock.Store(&clockBox{c: newClock(cfg.ClockSource)})
	}

	l.state.MinLevel.Store(uint32(cfg.Level))
	l.currentConfig.Store(cfg)

	// Mark as initialized
	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)
	l.state.LoggerDisabled.Store(false)

	// Restart processor if it was running and needs restart
	if needsRestart {
		return l.Start()
	}

	return nil
}
