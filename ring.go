// FILE: lixenwraith/ringlog/ring.go
package ringlog

import (
	"encoding/binary"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrCorrupt reports a stored header that does not fit between tail and head
var ErrCorrupt = errors.New("ringlog: ring header out of sync")

// Upper bound on tail CAS rounds for one pop
const maxTailRounds = 16

type pushResult uint8

const (
	pushOK pushResult = iota
	pushOversize
	pushCorrupt
)

// ring is a fixed byte array with monotonic head/tail positions.
// Positions never wrap; the array index is position % size, so head == tail
// always means empty and occupancy is head - tail.
// Producers are serialized by gate (unless single is set); the consumer never
// touches gate and validates every read with a CAS on tail.
// Bytes live in atomic words, so the consumer's optimistic read of a region
// being evicted and rewritten is never a data race.
type ring struct {
	words  []atomic.Uint64
	size   uint64
	single bool
	spin   int

	head atomic.Uint64 // next write position
	tail atomic.Uint64 // next read position
	gate atomic.Bool   // producer in flight

	contended atomic.Uint64 // lost gate or tail CAS attempts
}

func newRing(capacity int, single bool, spin int) *ring {
	return &ring{
		words:  make([]atomic.Uint64, (capacity+7)/8),
		size:   uint64(capacity),
		single: single,
		spin:   spin,
	}
}

// freeSpace returns the bytes not occupied between tail t and head h
func (r *ring) freeSpace(h, t uint64) uint64 {
	return r.size - (h - t)
}

// used returns the current occupancy in bytes
func (r *ring) used() uint64 {
	t := r.tail.Load()
	return r.head.Load() - t
}

// storeAt writes data at array index i without wrapping. Only the gate
// holder writes, so the read-modify-write of a partial word cannot lose bytes.
func storeAt[T string | []byte](words []atomic.Uint64, i uint64, data T) {
	for len(data) > 0 {
		w, off := i/8, i%8
		n := min(8-off, uint64(len(data)))
		var v uint64
		if n < 8 {
			v = words[w].Load()
		}
		for k := uint64(0); k < n; k++ {
			shift := (off + k) * 8
			v = v&^(0xff<<shift) | uint64(data[k])<<shift
		}
		words[w].Store(v)
		data = data[n:]
		i += n
	}
}

// loadAt fills out from array index i without wrapping
func loadAt(words []atomic.Uint64, i uint64, out []byte) {
	for len(out) > 0 {
		w, off := i/8, i%8
		n := min(8-off, uint64(len(out)))
		v := words[w].Load()
		if n == 8 {
			binary.LittleEndian.PutUint64(out, v)
		} else {
			for k := uint64(0); k < n; k++ {
				out[k] = byte(v >> ((off + k) * 8))
			}
		}
		out = out[n:]
		i += n
	}
}

// writeBytes copies data into the ring at pos, wrapping once at the end of the array
func (r *ring) writeBytes(pos uint64, data []byte) {
	i := pos % r.size
	n := min(r.size-i, uint64(len(data)))
	storeAt(r.words, i, data[:n])
	storeAt(r.words, 0, data[n:])
}

// writeString is writeBytes for a string source, avoiding a conversion
func (r *ring) writeString(pos uint64, data string) {
	i := pos % r.size
	n := min(r.size-i, uint64(len(data)))
	storeAt(r.words, i, data[:n])
	storeAt(r.words, 0, data[n:])
}

// readBytes fills out from the ring at pos, wrapping once at the end of the array
func (r *ring) readBytes(pos uint64, out []byte) {
	i := pos % r.size
	n := min(r.size-i, uint64(len(out)))
	loadAt(r.words, i, out[:n])
	loadAt(r.words, 0, out[n:])
}

func (r *ring) readHeader(pos uint64) (length uint16, ts uint32, level Level) {
	var hdr [HeaderSize]byte
	r.readBytes(pos, hdr[:])
	return parseHeader(&hdr)
}

// acquire takes the producer gate, retrying until it is won. After spin
// failed attempts each further attempt first yields the processor.
func (r *ring) acquire() {
	if r.single {
		return
	}
	for i := 0; !r.gate.CompareAndSwap(false, true); i++ {
		r.contended.Add(1)
		if i >= r.spin {
			runtime.Gosched()
		}
	}
}

func (r *ring) release() {
	if !r.single {
		r.gate.Store(false)
	}
}

// evictFrom walks whole records from t until a record of total bytes fits before h.
// Returns false when a stored length runs past h.
func (r *ring) evictFrom(h, t, total uint64) (newTail, evicted uint64, ok bool) {
	newTail = t
	// An empty ring always fits: total <= size-1 is checked by reserve.
	for r.freeSpace(h, newTail) <= total {
		length, _, _ := r.readHeader(newTail)
		step := uint64(HeaderSize) + uint64(length)
		if step > h-newTail {
			return t, 0, false
		}
		newTail += step
		evicted++
	}
	return newTail, evicted, true
}

// reserve admits a payload of n bytes: it takes the producer gate and evicts
// the oldest records until the record fits. On pushOK the gate is held until commit.
// A lost tail CAS means the consumer advanced, so the retry always makes progress.
func (r *ring) reserve(n int) (h, evicted uint64, res pushResult) {
	total := uint64(HeaderSize + n)
	if total > r.size-1 {
		return 0, 0, pushOversize
	}
	r.acquire()

	h = r.head.Load()
	for {
		t := r.tail.Load()
		newTail, count, ok := r.evictFrom(h, t, total)
		if !ok {
			r.release()
			return 0, 0, pushCorrupt
		}
		// Tail moves before any evicted byte is overwritten
		if newTail == t || r.tail.CompareAndSwap(t, newTail) {
			return h, count, pushOK
		}
		r.contended.Add(1)
	}
}

// commit publishes the new head and releases the gate
func (r *ring) commit(head uint64) {
	r.head.Store(head)
	r.release()
}

func (r *ring) writeHeader(pos uint64, length int, ts uint32, level Level) {
	var hdr [HeaderSize]byte
	putHeader(&hdr, uint16(length), ts, level)
	r.writeBytes(pos, hdr[:])
}

// push appends one record, evicting the oldest records when needed
func (r *ring) push(level Level, ts uint32, msg string) (evicted uint64, res pushResult) {
	msg = msg[:clampPayload(len(msg))]
	h, evicted, res := r.reserve(len(msg))
	if res != pushOK {
		return 0, res
	}
	r.writeHeader(h, len(msg), ts, level)
	r.writeString(h+HeaderSize, msg)
	r.commit(h + HeaderSize + uint64(len(msg)))
	return evicted, pushOK
}

// pushBytes is push for a byte slice payload
func (r *ring) pushBytes(level Level, ts uint32, msg []byte) (evicted uint64, res pushResult) {
	msg = msg[:clampPayload(len(msg))]
	h, evicted, res := r.reserve(len(msg))
	if res != pushOK {
		return 0, res
	}
	r.writeHeader(h, len(msg), ts, level)
	r.writeBytes(h+HeaderSize, msg)
	r.commit(h + HeaderSize + uint64(len(msg)))
	return evicted, pushOK
}

// pop removes the oldest record, copying at most len(scratch) payload bytes.
// ok is false when the ring is empty or the record kept being evicted under the reader.
func (r *ring) pop(scratch []byte) (rec Record, ok bool, err error) {
	for round := 0; round < maxTailRounds; round++ {
		t := r.tail.Load()
		h := r.head.Load()
		if t == h {
			return Record{}, false, nil
		}

		length, ts, level := r.readHeader(t)
		step := uint64(HeaderSize) + uint64(length)
		if step > h-t {
			if r.tail.Load() != t {
				continue // evicted while reading
			}
			return Record{}, false, ErrCorrupt
		}

		n := min(int(length), len(scratch))
		r.readBytes(t+HeaderSize, scratch[:n])

		if r.tail.CompareAndSwap(t, t+step) {
			return Record{Length: length, Timestamp: ts, Level: level, Payload: scratch[:n]}, true, nil
		}
	}
	return Record{}, false, nil
}
