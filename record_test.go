// FILE: lixenwraith/ringlog/record_test.go
package ringlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		ts    uint32
		msg   string
	}{
		{"empty payload", LevelDebug, 0, ""},
		{"short message", LevelInfo, 1234, "hello"},
		{"max timestamp", LevelError, ^uint32(0), "boom"},
		{"binary payload", LevelWarn, 42, "a\x00b\xffc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := AppendRecord(nil, tt.level, tt.ts, tt.msg)
			assert.Len(t, b, HeaderSize+len(tt.msg))

			rec, err := DecodeRecord(b)
			require.NoError(t, err)
			assert.Equal(t, uint16(len(tt.msg)), rec.Length)
			assert.Equal(t, tt.ts, rec.Timestamp)
			assert.Equal(t, tt.level, rec.Level)
			assert.Equal(t, tt.msg, string(rec.Payload))
			assert.False(t, rec.Truncated())
		})
	}
}

func TestRecordLayout(t *testing.T) {
	b := AppendRecord(nil, LevelWarn, 0x01020304, "hi")
	assert.Equal(t, []byte{
		0x02, 0x00, // length, little endian
		0x04, 0x03, 0x02, 0x01, // timestamp
		0x02, // level
		'h', 'i',
	}, b)
}

func TestRecordAppendKeepsPrefix(t *testing.T) {
	b := AppendRecord([]byte("xx"), LevelInfo, 1, "a")
	assert.Equal(t, "xx", string(b[:2]))

	rec, err := DecodeRecord(b[2:])
	require.NoError(t, err)
	assert.Equal(t, "a", string(rec.Payload))
}

func TestRecordMaxPayload(t *testing.T) {
	msg := strings.Repeat("x", MaxPayload+10)
	b := AppendRecord(nil, LevelInfo, 0, msg)
	assert.Len(t, b, HeaderSize+MaxPayload)

	rec, err := DecodeRecord(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(MaxPayload), rec.Length)
}

func TestDecodeShortRecord(t *testing.T) {
	b := AppendRecord(nil, LevelInfo, 5, "hello")

	_, err := DecodeRecord(b[:HeaderSize-1])
	assert.ErrorIs(t, err, ErrShortRecord)

	_, err = DecodeRecord(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrShortRecord)

	_, err = DecodeRecord(nil)
	assert.ErrorIs(t, err, ErrShortRecord)
}

func TestRecordTruncated(t *testing.T) {
	rec := Record{Length: 10, Payload: []byte("abc")}
	assert.True(t, rec.Truncated())

	rec.Payload = []byte("0123456789")
	assert.False(t, rec.Truncated())
}
