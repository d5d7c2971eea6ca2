// FILE: lixenwraith/ringlog/default.go
package ringlog

import (
	"time"
)

// Global instance for package-level functions
var defaultLogger = NewLogger()

// Default package-level functions that delegate to the default logger

// Default returns the package-level logger
func Default() *Logger {
	return defaultLogger
}

// Init applies cfg to the default logger and starts it
func Init(cfg *Config) error {
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// InitWithDefaults initializes the default logger with built-in defaults and optional overrides
func InitWithDefaults(overrides ...string) error {
	cfg := DefaultConfig()
	if err := cfg.Override(overrides...); err != nil {
		return err
	}
	return Init(cfg)
}

// Shutdown stops the default logger
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Log submits a record to the default logger
func Log(level Level, msg string) {
	defaultLogger.Log(level, msg)
}

// Debug logs a message at debug level
func Debug(msg string) {
	defaultLogger.Log(LevelDebug, msg)
}

// Info logs a message at info level
func Info(msg string) {
	defaultLogger.Log(LevelInfo, msg)
}

// Warn logs a message at warning level
func Warn(msg string) {
	defaultLogger.Log(LevelWarn, msg)
}

// Error logs a message at error level
func Error(msg string) {
	defaultLogger.Log(LevelError, msg)
}

// SetLevel changes the default logger's minimum level
func SetLevel(level Level) error {
	return defaultLogger.SetLevel(level)
}
