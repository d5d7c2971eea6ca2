// FILE: lixenwraith/ringlog/compat/zap.go
package compat

import (
	"strings"

	"github.com/lixenwraith/ringlog"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.Core = (*ZapCore)(nil)

// ZapCore is a zapcore.Core that renders zap entries with a console encoder
// and submits them as ring records. Timestamp and level are left out of the
// encoded text since the ring record carries both.
type ZapCore struct {
	logger ringlog.LeveledLogger
	enc    zapcore.Encoder
}

// ZapOption allows customizing the core
type ZapOption func(*ZapCore)

// WithZapEncoder replaces the console encoder
func WithZapEncoder(enc zapcore.Encoder) ZapOption {
	return func(c *ZapCore) {
		c.enc = enc
	}
}

// NewZapEncoderConfig returns the encoder config used by NewZapCore
func NewZapEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		NameKey:          "logger",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

// NewZapCore creates a core writing into logger
func NewZapCore(logger ringlog.LeveledLogger, opts ...ZapOption) *ZapCore {
	c := &ZapCore{
		logger: logger,
		enc:    zapcore.NewConsoleEncoder(NewZapEncoderConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled gates by the underlying logger's minimum level when it reports one
func (c *ZapCore) Enabled(level zapcore.Level) bool {
	return enabled(c.logger, fromZapLevel(level))
}

// With returns a core that adds fields to every entry
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	for i := range fields {
		fields[i].AddTo(enc)
	}
	return &ZapCore{logger: c.logger, enc: enc}
}

// Check adds the core to the checked entry when the level is enabled
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write encodes the entry and submits it
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), zapcore.DefaultLineEnding)
	buf.Free()

	c.logger.Log(fromZapLevel(ent.Level), msg)
	return nil
}

// Sync is a no-op, the drain goroutine owns the output
func (c *ZapCore) Sync() error {
	return nil
}

// fromZapLevel maps zap levels onto the four ring levels
func fromZapLevel(level zapcore.Level) ringlog.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return ringlog.LevelDebug
	case level == zapcore.InfoLevel:
		return ringlog.LevelInfo
	case level == zapcore.WarnLevel:
		return ringlog.LevelWarn
	default:
		return ringlog.LevelError
	}
}
