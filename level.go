package ringlog

import (
	"strconv"
	"strings"
)

// Level is the severity of a record. It is stored as a single byte in the ring.
type Level uint8

// Log level constants, totally ordered
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the three-letter tag used in rendered lines
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "UNK"
	}
}

// Name returns the long lowercase name of the level
func (l Level) Name() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of the four defined levels
func (l Level) Valid() bool {
	return l <= LevelError
}

// ParseLevel converts a level name, tag or digit to a Level.
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf":
		return LevelInfo, nil
	case "warn", "warning", "wrn":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	}
	if n, err := strconv.ParseUint(s, 10, 8); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error or 0-3)", levelStr)
}
