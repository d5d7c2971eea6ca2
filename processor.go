// FILE: lixenwraith/ringlog/processor.go
package ringlog

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/ringlog/sanitizer"
	"github.com/shirou/gopsutil/v3/process"
)

// drainer holds the buffers owned by the drain goroutine
type drainer struct {
	scratch   []byte // payload copy, max_line_bytes long
	line      []byte // rendered output line
	heartbeat []byte // heartbeat payload
	mode      sanitizer.Mode
	proc      *process.Process
}

// newDrainer sizes the buffers for cfg
func newDrainer(cfg *Config) *drainer {
	mode, _ := sanitizer.ParseMode(cfg.Sanitize) // validated by ApplyConfig
	return &drainer{
		scratch:   make([]byte, cfg.MaxLineBytes),
		line:      make([]byte, 0, cfg.MaxLineBytes+64),
		heartbeat: make([]byte, 0, 256),
		mode:      mode,
	}
}

// processLogs is the drain loop running in its own goroutine.
// It is the only consumer of the ring.
func (l *Logger) processLogs() {
	l.state.ProcessorExited.Store(false)      // Mark processor as running
	defer l.state.ProcessorExited.Store(true) // Ensure flag is set on exit

	cfg := l.getConfig()
	d := newDrainer(cfg)
	interval := drainInterval(cfg)
	batch := int(cfg.DrainBatch)

	timers := newDrainTimers(cfg)
	defer timers.stop()

	// Send initial heartbeats immediately instead of waiting for first tick
	if cfg.HeartbeatLevel > 0 {
		l.handleHeartbeat(d)
	}

	// --- Main Loop ---
	for l.state.Running.Load() {
		for i := 0; i < batch; i++ {
			if !l.drainOne(d) {
				break
			}
		}

		select {
		case <-timers.heartbeatC():
			l.handleHeartbeat(d)
		default:
		}

		time.Sleep(interval)
	}

	if cfg.DrainOnStop {
		l.drainRemaining(d)
	}
}

// drainOne moves one record from the ring to the sink.
// Returns false when the ring is empty.
func (l *Logger) drainOne(d *drainer) bool {
	r := l.state.Ring.Load()
	rec, ok, err := r.pop(d.scratch)
	if err != nil {
		l.state.Corrupt.Add(1)
		// Always reported, the process is about to die
		fmt.Fprintf(os.Stderr, "%sfatal - %v (tail=%d head=%d)\n", errPrefix, err, r.tail.Load(), r.head.Load())
		panic(err)
	}
	if !ok {
		return false
	}

	if rec.Truncated() {
		l.state.Truncated.Add(1)
	}
	d.line = appendLine(d.line[:0], rec, d.mode)
	l.writeLine(d.line)
	l.state.Drained.Add(1)
	return true
}

// drainRemaining empties what was queued when the loop was asked to stop.
// Records submitted after that point are left for the next Start.
func (l *Logger) drainRemaining(d *drainer) {
	r := l.state.Ring.Load()
	stopHead := r.head.Load()
	for r.tail.Load() < stopHead {
		if !l.drainOne(d) {
			return
		}
	}
}

// writeLine hands a rendered line to the sink in a single Write
func (l *Logger) writeLine(line []byte) {
	if _, err := l.getSink().w.Write(line); err != nil {
		l.state.WriteErrors.Add(1)
		l.internalLog("failed to write to console: %v\n", err)
	}
}
