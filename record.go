// FILE: lixenwraith/ringlog/record.go
package ringlog

import (
	"encoding/binary"
	"errors"
)

// ErrShortRecord is returned by DecodeRecord when the input cannot hold the announced record
var ErrShortRecord = errors.New("ringlog: short record")

// Record is a decoded log record. Payload aliases the decoder's input or scratch buffer.
type Record struct {
	Length    uint16 // payload length as stored
	Timestamp uint32 // milliseconds
	Level     Level
	Payload   []byte
}

// Truncated reports whether Payload holds fewer bytes than were stored
func (r Record) Truncated() bool {
	return len(r.Payload) < int(r.Length)
}

// putHeader encodes the fixed header fields
func putHeader(hdr *[HeaderSize]byte, length uint16, ts uint32, level Level) {
	binary.LittleEndian.PutUint16(hdr[lengthOffset:], length)
	binary.LittleEndian.PutUint32(hdr[timestampOffset:], ts)
	hdr[levelOffset] = byte(level)
}

// parseHeader decodes the fixed header fields
func parseHeader(hdr *[HeaderSize]byte) (length uint16, ts uint32, level Level) {
	length = binary.LittleEndian.Uint16(hdr[lengthOffset:])
	ts = binary.LittleEndian.Uint32(hdr[timestampOffset:])
	level = Level(hdr[levelOffset])
	return
}

// clampPayload limits a payload to what the length field can describe
func clampPayload(n int) int {
	if n > MaxPayload {
		return MaxPayload
	}
	return n
}

// AppendRecord appends the wire form [length:2][timestamp:4][level:1][payload] of a record to dst.
// Messages longer than MaxPayload are cut at MaxPayload bytes.
func AppendRecord(dst []byte, level Level, ts uint32, msg string) []byte {
	msg = msg[:clampPayload(len(msg))]
	var hdr [HeaderSize]byte
	putHeader(&hdr, uint16(len(msg)), ts, level)
	dst = append(dst, hdr[:]...)
	return append(dst, msg...)
}

// DecodeRecord decodes one record from the start of b.
func DecodeRecord(b []byte) (Record, error) {
	if len(b) < HeaderSize {
		return Record{}, ErrShortRecord
	}
	var hdr [HeaderSize]byte
	copy(hdr[:], b)
	length, ts, level := parseHeader(&hdr)
	end := HeaderSize + int(length)
	if len(b) < end {
		return Record{}, ErrShortRecord
	}
	return Record{
		Length:    length,
		Timestamp: ts,
		Level:     level,
		Payload:   b[HeaderSize:end],
	}, nil
}
