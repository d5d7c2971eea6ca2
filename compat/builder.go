// FILE: lixenwraith/ringlog/compat/builder.go
package compat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/ringlog"
	"go.uber.org/zap"
)

// shutdowner is implemented by *ringlog.Logger
type shutdowner interface {
	Shutdown(timeout ...time.Duration) error
}

// enabled asks the logger for its filter when it has one
func enabled(l ringlog.LeveledLogger, level ringlog.Level) bool {
	if e, ok := l.(ringlog.LevelEnabler); ok {
		return e.Enabled(level)
	}
	return true
}

// Builder provides a flexible way to create configured logger adapters for
// gnet, fasthttp, zap and slog over one shared logger.
// It can use an existing logger or create a new *ringlog.Logger from a *ringlog.Config
type Builder struct {
	logger ringlog.LeveledLogger
	logCfg *ringlog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l ringlog.LeveledLogger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("ringlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default logger will be created
func (b *Builder) WithConfig(cfg *ringlog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating and starting one if necessary
func (b *Builder) getLogger() (ringlog.LeveledLogger, error) {
	if b.err != nil {
		return nil, b.err
	}

	// An existing logger was provided, so we use it
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		// If no config was provided, use the default
		cfg = ringlog.DefaultConfig()
	}

	l, err := ringlog.NewBuilder().Config(cfg).Build()
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
// It can be used for servers that require a standard gnet logger
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildZap creates a *zap.Logger backed by a ZapCore
func (b *Builder) BuildZap(opts ...ZapOption) (*zap.Logger, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return zap.New(NewZapCore(l, opts...)), nil
}

// BuildSlog creates a *slog.Logger backed by a SlogHandler
func (b *Builder) BuildSlog() (*slog.Logger, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return slog.New(NewSlogHandler(l)), nil
}

// GetLogger returns the underlying logger
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (ringlog.LeveledLogger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
// The following demonstrates how to integrate ringlog with gnet, fasthttp, zap
// and slog using a single, shared logger instance
//
//	// 1. Create and start application's main logger
//	appLogger, err := ringlog.NewBuilder().Level(ringlog.LevelDebug).Build()
//	if err != nil {
//		panic(fmt.Sprintf("failed to configure logger: %v", err))
//	}
//	defer appLogger.Shutdown()
//
//	// 2. Create a builder and provide the existing logger
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	// 3. Build the required adapters
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	zapLogger, _ := builder.BuildZap()
//	slogLogger, _ := builder.BuildSlog()
//
//	// 4. Configure your servers with the adapters
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	zapLogger.Info("ready", zap.Int("port", 8080))
//	slogLogger.Info("ready", "port", 8080)
