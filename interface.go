// FILE: lixenwraith/ringlog/interface.go
package ringlog

import (
	"sync"
)

// LeveledLogger is the capability the adapters need: submit a message at a level.
// *Logger and *Recorder implement it.
type LeveledLogger interface {
	Log(level Level, msg string)
}

// LevelEnabler is implemented by loggers that can report filtering ahead of
// formatting, so adapters can skip building a message that would be dropped.
type LevelEnabler interface {
	Enabled(level Level) bool
}

var (
	_ LeveledLogger = (*Logger)(nil)
	_ LevelEnabler  = (*Logger)(nil)
	_ LeveledLogger = (*Recorder)(nil)
	_ LevelEnabler  = (*Recorder)(nil)
)

// RecordedEntry is one message captured by a Recorder
type RecordedEntry struct {
	Level   Level
	Message string
}

// Recorder keeps messages in memory. It takes a mutex and allocates, so it is
// meant for tests and tools, not for the paths Logger serves.
type Recorder struct {
	mu       sync.Mutex
	minLevel Level
	entries  []RecordedEntry
}

// NewRecorder creates a Recorder accepting levels at or above minLevel
func NewRecorder(minLevel Level) *Recorder {
	return &Recorder{minLevel: minLevel}
}

// Log stores the message if level passes the filter
func (r *Recorder) Log(level Level, msg string) {
	if !r.Enabled(level) {
		return
	}
	r.mu.Lock()
	r.entries = append(r.entries, RecordedEntry{Level: level, Message: msg})
	r.mu.Unlock()
}

// Enabled reports whether level passes the filter
func (r *Recorder) Enabled(level Level) bool {
	return level >= r.minLevel
}

// Entries returns a copy of the captured messages in submission order
func (r *Recorder) Entries() []RecordedEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the most recent entry
func (r *Recorder) Last() (RecordedEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return RecordedEntry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Reset discards all captured messages
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
