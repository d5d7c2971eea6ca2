package ringlog

// StatsSnapshot is a point-in-time copy of the logger counters
type StatsSnapshot struct {
	Logged      uint64
	Filtered    uint64
	Oversize    uint64
	Evicted     uint64
	Contended   uint64 // Lost producer CAS attempts that were retried, not records
	Corrupt     uint64
	Drained     uint64
	Truncated   uint64
	WriteErrors uint64

	Capacity uint64 // Ring size in bytes, 0 before ApplyConfig
	Used     uint64 // Bytes currently queued
}

// Dropped returns the records lost after being submitted at an enabled level
func (s StatsSnapshot) Dropped() uint64 {
	return s.Oversize + s.Evicted + s.Corrupt
}

// Stats returns a snapshot of the logger counters
func (l *Logger) Stats() StatsSnapshot {
	s := StatsSnapshot{
		Logged:      l.state.Logged.Load(),
		Filtered:    l.state.Filtered.Load(),
		Oversize:    l.state.Oversize.Load(),
		Evicted:     l.state.Evicted.Load(),
		Corrupt:     l.state.Corrupt.Load(),
		Drained:     l.state.Drained.Load(),
		Truncated:   l.state.Truncated.Load(),
		WriteErrors: l.state.WriteErrors.Load(),
	}
	if r := l.state.Ring.Load(); r != nil {
		s.Capacity = r.size
		s.Contended = r.contended.Load()
		s.Used = r.used()
	}
	return s
}

// ResetStats zeroes all counters
func (l *Logger) ResetStats() {
	l.state.Logged.Store(0)
	l.state.Filtered.Store(0)
	l.state.Oversize.Store(0)
	l.state.Evicted.Store(0)
	if r := l.state.Ring.Load(); r != nil {
		r.contended.Store(0)
	}
	l.state.Corrupt.Store(0)
	l.state.Drained.Store(0)
	l.state.Truncated.Store(0)
	l.state.WriteErrors.Store(0)
}
