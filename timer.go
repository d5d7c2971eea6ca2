// FILE: lixenwraith/ringlog/timer.go
package ringlog

import "time"

// drainTimers holds the tickers owned by the drain goroutine
type drainTimers struct {
	heartbeat *time.Ticker
}

// newDrainTimers starts the tickers cfg asks for
func newDrainTimers(cfg *Config) *drainTimers {
	t := &drainTimers{}
	if cfg.HeartbeatLevel > 0 {
		t.heartbeat = time.NewTicker(heartbeatInterval(cfg))
	}
	return t
}

// heartbeatC returns the heartbeat channel, nil when heartbeats are off.
// A nil channel never fires in a select.
func (t *drainTimers) heartbeatC() <-chan time.Time {
	if t.heartbeat == nil {
		return nil
	}
	return t.heartbeat.C
}

// stop releases all tickers
func (t *drainTimers) stop() {
	if t.heartbeat != nil {
		t.heartbeat.Stop()
	}
}

// heartbeatInterval converts heartbeat_interval_s, falling back to the default
func heartbeatInterval(cfg *Config) time.Duration {
	intervalS := cfg.HeartbeatIntervalS
	if intervalS <= 0 {
		intervalS = defaultConfig.HeartbeatIntervalS
	}
	return time.Duration(intervalS) * time.Second
}

// drainInterval converts drain_interval_ms, never below one millisecond
func drainInterval(cfg *Config) time.Duration {
	return max(time.Duration(cfg.DrainIntervalMs)*time.Millisecond, time.Millisecond)
}
