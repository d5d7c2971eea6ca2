// FILE: lixenwraith/ringlog/format.go
package ringlog

import (
	"github.com/lixenwraith/ringlog/sanitizer"
)

// appendLine renders a record as "[%010u][LVL] message\n".
// Only rec.Payload is rendered, so a truncated record shows its first bytes.
func appendLine(dst []byte, rec Record, mode sanitizer.Mode) []byte {
	dst = append(dst, '[')
	dst = appendTimestamp(dst, rec.Timestamp)
	dst = append(dst, ']', '[')
	dst = append(dst, rec.Level.String()...)
	dst = append(dst, ']', ' ')
	dst = sanitizer.Append(dst, rec.Payload, mode)
	return append(dst, '\n')
}

// appendTimestamp writes ts as exactly ten zero padded decimal digits
func appendTimestamp(dst []byte, ts uint32) []byte {
	var b [10]byte
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte('0' + ts%10)
		ts /= 10
	}
	return append(dst, b[:]...)
}

// formatArgs joins args with spaces, rendering each through the sanitizer value formatter
func formatArgs(dst []byte, args []any) []byte {
	for i, arg := range args {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = sanitizer.AppendValue(dst, arg)
	}
	return dst
}

// appendField writes " key=value" for heartbeat lines
func appendField(dst []byte, key string, value any) []byte {
	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return sanitizer.AppendValue(dst, value)
}
