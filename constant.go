// FILE: lixenwraith/ringlog/constant.go
package ringlog

import (
	"time"
)

// Record layout
const (
	// HeaderSize is the fixed size of a record header: length(2) + timestamp(4) + level(1)
	HeaderSize = 2 + 4 + 1
	// MaxPayload is the largest payload a length field can describe
	MaxPayload = 1<<16 - 1

	lengthOffset    = 0
	timestampOffset = 2
	levelOffset     = 6
)

// Ring bounds
const (
	// Smallest capacity that still holds a header, one payload byte and the slack byte
	minCapacity = HeaderSize + 2
	// Upper bound for capacity, keeps a stored length always able to address the ring
	maxCapacity = 1 << 30
	// Upper bound for producer_spin
	maxProducerSpin = 1 << 20
)

// Producer modes
const (
	ProducerMulti  = "multi"
	ProducerSingle = "single"
)

// Timers
const (
	// Join timeout used by Stop when no interval based value is usable
	defaultStopTimeout = time.Second
)
