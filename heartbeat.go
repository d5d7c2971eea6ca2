// FILE: lixenwraith/ringlog/heartbeat.go
package ringlog

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// handleHeartbeat processes a heartbeat timer tick
func (l *Logger) handleHeartbeat(d *drainer) {
	c := l.getConfig()
	heartbeatLevel := c.HeartbeatLevel

	if heartbeatLevel >= 1 {
		l.logProcHeartbeat(d)
	}

	if heartbeatLevel >= 2 {
		l.logRingHeartbeat(d)
	}

	if heartbeatLevel >= 3 {
		l.logSysHeartbeat(d)
	}
}

// logProcHeartbeat logs logger throughput statistics
func (l *Logger) logProcHeartbeat(d *drainer) {
	sequence := l.state.HeartbeatSequence.Add(1)

	var uptimeHours float64
	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		uptimeHours = time.Since(startTime).Hours()
	}

	s := l.Stats()

	b := d.heartbeatPrefix("proc", sequence)
	b = appendField(b, "uptime_hours", strconv.FormatFloat(uptimeHours, 'f', 2, 64))
	b = appendField(b, "logged", s.Logged)
	b = appendField(b, "drained", s.Drained)
	b = appendField(b, "filtered", s.Filtered)
	b = appendField(b, "dropped", s.Dropped())

	l.writeHeartbeatRecord(d, b)
}

// logRingHeartbeat logs ring occupancy and loss statistics
func (l *Logger) logRingHeartbeat(d *drainer) {
	sequence := l.state.HeartbeatSequence.Load()
	s := l.Stats()

	b := d.heartbeatPrefix("ring", sequence)
	b = appendField(b, "capacity", s.Capacity)
	b = appendField(b, "used_bytes", s.Used)
	b = appendField(b, "evicted", s.Evicted)
	b = appendField(b, "oversize", s.Oversize)
	b = appendField(b, "contended", s.Contended)
	b = appendField(b, "truncated", s.Truncated)
	b = appendField(b, "write_errors", s.WriteErrors)

	l.writeHeartbeatRecord(d, b)
}

// logSysHeartbeat logs Go runtime and process statistics
func (l *Logger) logSysHeartbeat(d *drainer) {
	sequence := l.state.HeartbeatSequence.Load()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	b := d.heartbeatPrefix("sys", sequence)
	b = appendField(b, "alloc_mb", strconv.FormatFloat(float64(memStats.Alloc)/(1000*1000), 'f', 2, 64))
	b = appendField(b, "sys_mb", strconv.FormatFloat(float64(memStats.Sys)/(1000*1000), 'f', 2, 64))
	b = appendField(b, "num_gc", memStats.NumGC)
	b = appendField(b, "num_goroutine", runtime.NumGoroutine())

	if d.proc == nil {
		p, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			l.internalLog("warning - heartbeat failed to open process handle: %v\n", err)
		}
		d.proc = p
	}
	if d.proc != nil {
		if mem, err := d.proc.MemoryInfo(); err == nil {
			b = appendField(b, "rss_mb", strconv.FormatFloat(float64(mem.RSS)/(1000*1000), 'f', 2, 64))
		} else {
			l.internalLog("warning - heartbeat failed to read process memory: %v\n", err)
		}
		if cpu, err := d.proc.CPUPercent(); err == nil {
			b = appendField(b, "cpu_percent", strconv.FormatFloat(cpu, 'f', 2, 64))
		} else {
			l.internalLog("warning - heartbeat failed to read process cpu: %v\n", err)
		}
	}

	l.writeHeartbeatRecord(d, b)
}

// heartbeatPrefix resets the heartbeat buffer and writes the common fields
func (d *drainer) heartbeatPrefix(kind string, sequence uint64) []byte {
	b := append(d.heartbeat[:0], "heartbeat"...)
	b = appendField(b, "type", kind)
	return appendField(b, "sequence", sequence)
}

// writeHeartbeatRecord renders a heartbeat straight to the sink at info level.
// The drain goroutine never pushes into the ring, it is not a producer.
func (l *Logger) writeHeartbeatRecord(d *drainer, payload []byte) {
	d.heartbeat = payload // keep the grown buffer

	if l.state.LoggerDisabled.Load() || l.state.ShutdownCalled.Load() {
		return
	}

	rec := Record{
		Length:    uint16(clampPayload(len(payload))),
		Timestamp: l.state.Clock.Load().c.Millis(),
		Level:     LevelInfo,
		Payload:   payload,
	}
	d.line = appendLine(d.line[:0], rec, d.mode)
	l.writeLine(d.line)
}
