// FILE: lixenwraith/ringlog/sanitizer/sanitizer.go
// Package sanitizer rewrites log payloads so that a rendered line stays on
// one line and contains only printable text. All functions append to a caller
// supplied buffer and do not allocate when it has room.
package sanitizer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Mode selects how non-printable characters are rewritten
type Mode uint8

const (
	None      Mode = iota // Passthrough
	HexEncode             // Non-printable runes become "<xxyy>" of their UTF-8 bytes
	Strip                 // Non-printable runes are removed
	Escape                // Control characters become backslash escapes
)

// Names accepted by ParseMode, also used as the config value
var modeNames = map[string]Mode{
	"raw":    None,
	"txt":    HexEncode,
	"strip":  Strip,
	"escape": Escape,
}

// ParseMode converts a config value to a Mode
func ParseMode(name string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return None, fmt.Errorf("sanitizer: unknown mode '%s' (use raw, txt, strip or escape)", name)
	}
	return m, nil
}

// String returns the config value for m
func (m Mode) String() string {
	switch m {
	case None:
		return "raw"
	case HexEncode:
		return "txt"
	case Strip:
		return "strip"
	case Escape:
		return "escape"
	default:
		return "unknown"
	}
}

// Append appends src to dst rewritten according to m
func Append(dst, src []byte, m Mode) []byte {
	if m == None {
		return append(dst, src...)
	}

	for i := 0; i < len(src); {
		// ASCII printable fast path
		start := i
		for i < len(src) && src[i] >= 0x20 && src[i] < 0x7f {
			i++
		}
		dst = append(dst, src[start:i]...)
		if i >= len(src) {
			break
		}

		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size <= 1 {
			dst = appendInvalid(dst, src[i], m)
			i++
			continue
		}
		if strconv.IsPrint(r) {
			dst = append(dst, src[i:i+size]...)
		} else {
			dst = appendRune(dst, r, src[i:i+size], m)
		}
		i += size
	}
	return dst
}

// String is Append for a string, returning a new string
func String(s string, m Mode) string {
	if m == None {
		return s
	}
	return string(Append(make([]byte, 0, len(s)), []byte(s), m))
}

// appendInvalid handles a byte that does not start a valid UTF-8 sequence
func appendInvalid(dst []byte, b byte, m Mode) []byte {
	switch m {
	case HexEncode:
		return append(dst, '<', hexDigits[b>>4], hexDigits[b&0xf], '>')
	case Escape:
		return append(dst, '\\', 'x', hexDigits[b>>4], hexDigits[b&0xf])
	default:
		return dst
	}
}

// appendRune handles a decoded non-printable rune with its source bytes
func appendRune(dst []byte, r rune, raw []byte, m Mode) []byte {
	switch m {
	case HexEncode:
		dst = append(dst, '<')
		dst = hex.AppendEncode(dst, raw)
		return append(dst, '>')

	case Escape:
		switch r {
		case '\n':
			return append(dst, '\\', 'n')
		case '\r':
			return append(dst, '\\', 'r')
		case '\t':
			return append(dst, '\\', 't')
		case '\b':
			return append(dst, '\\', 'b')
		case '\f':
			return append(dst, '\\', 'f')
		}
		if r < 0x10000 {
			dst = append(dst, '\\', 'u')
			return appendHex4(dst, uint16(r))
		}
		// Outside the BMP, keep the rune as is
		return append(dst, raw...)

	default: // Strip
		return dst
	}
}

const hexDigits = "0123456789abcdef"

func appendHex4(dst []byte, v uint16) []byte {
	return append(dst, hexDigits[v>>12&0xf], hexDigits[v>>8&0xf], hexDigits[v>>4&0xf], hexDigits[v&0xf])
}

// valueConfig renders composite values compactly on a single line
var valueConfig = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// AppendValue appends a textual form of v to dst. Scalars are formatted
// directly; structs, maps, slices and pointers go through go-spew.
func AppendValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case nil:
		return append(dst, "nil"...)
	case string:
		return append(dst, val...)
	case []byte:
		return hex.AppendEncode(dst, val)
	case bool:
		return strconv.AppendBool(dst, val)
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int8:
		return strconv.AppendInt(dst, int64(val), 10)
	case int16:
		return strconv.AppendInt(dst, int64(val), 10)
	case int32:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)
	case error:
		return append(dst, val.Error()...)
	case fmt.Stringer:
		return append(dst, val.String()...)
	default:
		// Fdump output is multi-line, fold it onto one line
		var b bytes.Buffer
		valueConfig.Fdump(&b, val)
		for i, f := range bytes.Fields(b.Bytes()) {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst = append(dst, f...)
		}
		return dst
	}
}

// Value returns the textual form of v used by AppendValue
func Value(v any) string {
	return string(AppendValue(nil, v))
}
