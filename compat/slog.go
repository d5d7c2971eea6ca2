// FILE: lixenwraith/ringlog/compat/slog.go
package compat

import (
	"context"
	"log/slog"

	"github.com/lixenwraith/ringlog"
	"github.com/lixenwraith/ringlog/sanitizer"
)

var _ slog.Handler = (*SlogHandler)(nil)

// SlogHandler is a slog.Handler that renders the message and attributes as
// "msg key=value ..." and submits the result as one ring record.
type SlogHandler struct {
	logger ringlog.LeveledLogger
	attrs  []byte // pre-rendered attributes from WithAttrs
	group  string
}

// NewSlogHandler creates a new slog.Handler writing into logger
func NewSlogHandler(logger ringlog.LeveledLogger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled gates by the underlying logger's minimum level when it reports one
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return enabled(h.logger, fromSlogLevel(level))
}

// Handle renders the record and submits it
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, len(r.Message)+len(h.attrs)+64)
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.group, a)
		return true
	})
	h.logger.Log(fromSlogLevel(r.Level), string(buf))
	return nil
}

// WithAttrs returns a copy of the handler with additional base attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		nh.attrs = appendAttr(nh.attrs, h.group, a)
	}
	return &nh
}

// WithGroup returns a copy of the handler that prefixes later keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

// appendAttr writes " group.key=value", flattening nested groups
func appendAttr(dst []byte, group string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, key, ga)
		}
		return dst
	}

	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return sanitizer.AppendValue(dst, a.Value.Any())
}

// fromSlogLevel maps slog levels onto the four ring levels
func fromSlogLevel(level slog.Level) ringlog.Level {
	switch {
	case level >= slog.LevelError:
		return ringlog.LevelError
	case level >= slog.LevelWarn:
		return ringlog.LevelWarn
	case level >= slog.LevelInfo:
		return ringlog.LevelInfo
	default:
		return ringlog.LevelDebug
	}
}
