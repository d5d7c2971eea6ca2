package ringlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies record timestamps in milliseconds. Millis must not block or allocate.
type Clock interface {
	Millis() uint32
}

// ClockFunc adapts a function to Clock
type ClockFunc func() uint32

// Millis calls f
func (f ClockFunc) Millis() uint32 { return f() }

// WallClock reports UNIX milliseconds truncated to 32 bits
type WallClock struct{}

// Millis returns the low 32 bits of the current UNIX time in milliseconds
func (WallClock) Millis() uint32 {
	return uint32(time.Now().UnixMilli())
}

// MonotonicClock reports milliseconds elapsed since it was created
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock creates a clock starting at zero now
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Millis returns elapsed milliseconds, wrapping after about 49.7 days
func (c *MonotonicClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

var (
	coarseClockOnce sync.Once
	coarseMillis    atomic.Uint32
)

// CoarseClock reads a wall clock value cached by a background goroutine,
// trading up to half a millisecond of accuracy for a single atomic load.
type CoarseClock struct{}

// StartCoarseClock starts the refresh goroutine. It is safe to call multiple
// times; the goroutine is started exactly once and runs for the process lifetime.
func StartCoarseClock() {
	coarseClockOnce.Do(func() {
		coarseMillis.Store(WallClock{}.Millis())
		go func() {
			ticker := time.NewTicker(500 * time.Microsecond)
			for range ticker.C {
				coarseMillis.Store(WallClock{}.Millis())
			}
		}()
	})
}

// Millis returns the cached value. StartCoarseClock must have been called.
func (CoarseClock) Millis() uint32 {
	return coarseMillis.Load()
}

// newClock maps a clock_source config value to a Clock
func newClock(source string) Clock {
	switch source {
	case "monotonic":
		return NewMonotonicClock()
	case "coarse":
		StartCoarseClock()
		return CoarseClock{}
	default:
		return WallClock{}
	}
}
