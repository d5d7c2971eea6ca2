// FILE: lixenwraith/ringlog/ring_test.go
package ringlog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// popAll drains r and returns the payloads in order
func popAll(t *testing.T, r *ring) []string {
	t.Helper()
	scratch := make([]byte, MaxPayload)
	var out []string
	for {
		rec, ok, err := r.pop(scratch)
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, string(rec.Payload))
	}
}

func TestRingFIFO(t *testing.T) {
	r := newRing(256, false, 8)

	for i := 0; i < 5; i++ {
		_, res := r.push(LevelInfo, uint32(i), "msg"+strconv.Itoa(i))
		require.Equal(t, pushOK, res)
	}

	assert.Equal(t, []string{"msg0", "msg1", "msg2", "msg3", "msg4"}, popAll(t, r))
	assert.Equal(t, r.head.Load(), r.tail.Load())
}

func TestRingPopEmpty(t *testing.T) {
	r := newRing(64, false, 8)
	rec, ok, err := r.pop(make([]byte, 16))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Record{}, rec)
}

func TestRingHeaderFields(t *testing.T) {
	r := newRing(64, true, 0)
	_, res := r.push(LevelError, 99, "x")
	require.Equal(t, pushOK, res)

	rec, ok, err := r.pop(make([]byte, 8))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, LevelError, rec.Level)
	assert.Equal(t, uint32(99), rec.Timestamp)
	assert.Equal(t, uint16(1), rec.Length)
}

func TestRingOversize(t *testing.T) {
	r := newRing(64, false, 8)

	// 7 + 57 = 64 > capacity - 1
	_, res := r.push(LevelInfo, 0, strings.Repeat("x", 57))
	assert.Equal(t, pushOversize, res)
	assert.Zero(t, r.used())

	// 7 + 56 = 63 fits an empty ring
	_, res = r.push(LevelInfo, 0, strings.Repeat("x", 56))
	assert.Equal(t, pushOK, res)
	assert.Equal(t, uint64(63), r.used())
}

func TestRingEvictsOldest(t *testing.T) {
	r := newRing(64, false, 8)

	for _, m := range []string{"aaaaa", "bbbbb", "ccccc"} {
		evicted, res := r.push(LevelInfo, 0, m)
		require.Equal(t, pushOK, res)
		require.Zero(t, evicted)
	}
	assert.Equal(t, uint64(36), r.used())

	// 32 bytes needs more than the 28 free, the first record goes
	evicted, res := r.push(LevelInfo, 0, strings.Repeat("d", 25))
	require.Equal(t, pushOK, res)
	assert.Equal(t, uint64(1), evicted)
	assert.Equal(t, uint64(56), r.used())

	assert.Equal(t, []string{"bbbbb", "ccccc", strings.Repeat("d", 25)}, popAll(t, r))
}

func TestRingEvictsSeveral(t *testing.T) {
	r := newRing(64, false, 8)
	for i := 0; i < 5; i++ {
		_, res := r.push(LevelInfo, 0, "m")
		require.Equal(t, pushOK, res)
	}

	evicted, res := r.push(LevelInfo, 0, strings.Repeat("z", 40))
	require.Equal(t, pushOK, res)
	assert.Equal(t, uint64(3), evicted)
	assert.Equal(t, []string{"m", "m", strings.Repeat("z", 40)}, popAll(t, r))
}

func TestRingOverflowKeepsNewest(t *testing.T) {
	r := newRing(64, true, 0)

	var evicted uint64
	for i := 0; i < 100; i++ {
		n, res := r.push(LevelInfo, uint32(i), fmt.Sprintf("%03d", i))
		require.Equal(t, pushOK, res)
		evicted += n
	}

	got := popAll(t, r)
	require.NotEmpty(t, got)
	assert.Equal(t, uint64(100), evicted+uint64(len(got)))
	assert.Equal(t, "099", got[len(got)-1])
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i], "survivors must stay in submission order")
	}
}

func TestRingWrapAround(t *testing.T) {
	r := newRing(32, false, 8)

	// Interleave push and pop so records straddle the end of the array
	for i := 0; i < 50; i++ {
		msg := fmt.Sprintf("wrap-%02d", i)
		_, res := r.push(LevelDebug, uint32(i), msg)
		require.Equal(t, pushOK, res)

		rec, ok, err := r.pop(make([]byte, 32))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, msg, string(rec.Payload))
		assert.Equal(t, uint32(i), rec.Timestamp)
	}
	assert.Greater(t, r.head.Load(), r.size, "positions are monotonic, not wrapped")
}

func TestRingPopTruncates(t *testing.T) {
	r := newRing(64, false, 8)
	_, res := r.push(LevelInfo, 0, "abcdefgh")
	require.Equal(t, pushOK, res)

	rec, ok, err := r.pop(make([]byte, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(rec.Payload))
	assert.True(t, rec.Truncated())

	// The whole record was consumed
	assert.Zero(t, r.used())
}

func TestRingPushBytes(t *testing.T) {
	r := newRing(64, false, 8)
	msg := []byte("bytes")
	_, res := r.pushBytes(LevelWarn, 3, msg)
	require.Equal(t, pushOK, res)

	// The ring holds its own copy
	msg[0] = 'X'
	assert.Equal(t, []string{"bytes"}, popAll(t, r))
}

func TestRingContended(t *testing.T) {
	r := newRing(64, false, 2)
	r.gate.Store(true) // another producer in flight

	result := make(chan pushResult, 1)
	go func() {
		_, res := r.push(LevelInfo, 0, "waited")
		result <- res
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, r.used(), "push must wait for the gate")
	select {
	case res := <-result:
		t.Fatalf("push returned %d while the gate was held", res)
	default:
	}

	r.gate.Store(false)
	select {
	case res := <-result:
		assert.Equal(t, pushOK, res)
	case <-time.After(5 * time.Second):
		t.Fatal("push did not complete after the gate was released")
	}

	assert.Greater(t, r.contended.Load(), uint64(0))
	assert.False(t, r.gate.Load(), "gate released after commit")
	assert.Equal(t, []string{"waited"}, popAll(t, r))
}

func TestRingSingleProducerSkipsGate(t *testing.T) {
	r := newRing(64, true, 0)
	r.gate.Store(true)

	_, res := r.push(LevelInfo, 0, "ok")
	assert.Equal(t, pushOK, res)
}

func TestRingCorruptHeader(t *testing.T) {
	r := newRing(64, false, 8)
	_, res := r.push(LevelInfo, 0, "hello")
	require.Equal(t, pushOK, res)

	// Length now claims more bytes than were written
	r.writeBytes(r.tail.Load(), []byte{0xff, 0x00})

	_, ok, err := r.pop(make([]byte, 16))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorrupt)

	// A producer that has to evict past the bad header gives up
	_, res = r.push(LevelInfo, 0, strings.Repeat("y", 50))
	assert.Equal(t, pushCorrupt, res)
	assert.False(t, r.gate.Load())
}

// popUntilDone pops r concurrently with its producers and hands every record
// to fn. It returns once producing is closed and the ring is empty.
func popUntilDone(t *testing.T, r *ring, producing <-chan struct{}, scratch []byte, fn func(Record)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		finished := false
		for {
			rec, ok, err := r.pop(scratch)
			if err != nil {
				t.Errorf("pop: %v", err)
				return
			}
			if ok {
				fn(rec)
				continue
			}
			if finished {
				if r.used() == 0 {
					return
				}
				continue
			}
			select {
			case <-producing:
				finished = true
			default:
			}
		}
	}()
	return done
}

func TestRingConcurrentProducers(t *testing.T) {
	producers, perWorker := 8, 50_000
	if testing.Short() {
		perWorker = 5_000
	}
	r := newRing(4096, false, 64)

	var wg sync.WaitGroup
	var pushed, evicted atomic.Uint64

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// 16-byte payloads
				n, res := r.push(LevelInfo, uint32(i), fmt.Sprintf("%d:%014d", p, i))
				if res != pushOK {
					t.Errorf("producer %d record %d: push result %d", p, i, res)
					continue
				}
				pushed.Add(1)
				evicted.Add(n)
			}
		}(p)
	}

	producing := make(chan struct{})
	go func() {
		wg.Wait()
		close(producing)
	}()

	var popped []string
	<-popUntilDone(t, r, producing, make([]byte, 64), func(rec Record) {
		popped = append(popped, string(rec.Payload))
	})

	// Contention delays a producer but never costs a record
	assert.Equal(t, uint64(producers*perWorker), pushed.Load())
	assert.Equal(t, pushed.Load(), evicted.Load()+uint64(len(popped)), "every accepted record is either drained or evicted")
	t.Logf("pushed=%d popped=%d evicted=%d retries=%d", pushed.Load(), len(popped), evicted.Load(), r.contended.Load())

	// Each producer's surviving records keep their order
	last := make(map[string]int)
	for _, m := range popped {
		parts := strings.SplitN(m, ":", 2)
		require.Len(t, parts, 2, "record %q", m)
		seq, err := strconv.Atoi(parts[1])
		require.NoError(t, err, "record %q", m)
		if prev, seen := last[parts[0]]; seen {
			assert.Greater(t, seq, prev, "producer %s out of order", parts[0])
		}
		last[parts[0]] = seq
	}
}

// Large records keep the producer evicting the very record the consumer is
// reading. Every record that pops must still be whole.
func TestRingEvictionDuringPop(t *testing.T) {
	const size = 4000
	records := 100_000
	if testing.Short() {
		records = 10_000
	}
	r := newRing(8192, true, 0)

	var evicted uint64
	producing := make(chan struct{})
	go func() {
		defer close(producing)
		msg := make([]byte, size)
		for i := 0; i < records; i++ {
			copy(msg, fmt.Sprintf("%08d", i))
			fill := byte('a' + i%26)
			for k := 8; k < size; k++ {
				msg[k] = fill
			}
			n, res := r.pushBytes(LevelInfo, uint32(i), msg)
			if res != pushOK {
				t.Errorf("record %d: push result %d", i, res)
				return
			}
			evicted += n
		}
	}()

	popped, prev := 0, -1
	<-popUntilDone(t, r, producing, make([]byte, size), func(rec Record) {
		popped++
		if len(rec.Payload) != size {
			t.Errorf("record length %d, want %d", len(rec.Payload), size)
			return
		}
		seq, err := strconv.Atoi(string(rec.Payload[:8]))
		if err != nil {
			t.Errorf("record prefix %q: %v", rec.Payload[:8], err)
			return
		}
		if seq <= prev {
			t.Errorf("record %d popped after %d", seq, prev)
		}
		prev = seq
		fill := byte('a' + seq%26)
		for k := 8; k < size; k++ {
			if rec.Payload[k] != fill {
				t.Errorf("record %d torn at byte %d: %q, want %q", seq, k, rec.Payload[k], fill)
				return
			}
		}
		assert.Equal(t, uint32(seq), rec.Timestamp)
	})

	assert.Equal(t, uint64(records), evicted+uint64(popped))
	assert.Positive(t, popped)
}
