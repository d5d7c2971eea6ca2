// FILE: override.go
package ringlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := ringlog.NewLogger()
//	err := logger.ApplyOverride(
//	    "capacity=8192",
//	    "level=warn",
//	    "console_target=stderr",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()

	if err := cfg.override(overrides); err != nil {
		return err
	}

	return l.ApplyConfig(cfg)
}

// Override applies "key=value" strings to c and validates the result.
// c is left partially modified when an error is returned.
func (c *Config) Override(overrides ...string) error {
	if err := c.override(overrides); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) override(overrides []string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString(errPrefix + "multiple configuration errors:")
	for i, err := range errors {
		// Strip the prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), errPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		// Accepts digits, names and three-letter tags
		levelVal, err := ParseLevel(value)
		if err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = int64(levelVal)

	// Ring settings
	case "capacity":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for capacity '%s': %w", value, err)
		}
		cfg.Capacity = intVal
	case "producer_mode":
		cfg.ProducerMode = value
	case "producer_spin":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for producer_spin '%s': %w", value, err)
		}
		cfg.ProducerSpin = intVal
	case "clock_source":
		cfg.ClockSource = value

	// Drain loop
	case "drain_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for drain_interval_ms '%s': %w", value, err)
		}
		cfg.DrainIntervalMs = intVal
	case "drain_batch":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for drain_batch '%s': %w", value, err)
		}
		cfg.DrainBatch = intVal
	case "drain_on_stop":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for drain_on_stop '%s': %w", value, err)
		}
		cfg.DrainOnStop = boolVal
	case "max_line_bytes":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_line_bytes '%s': %w", value, err)
		}
		cfg.MaxLineBytes = intVal
	case "sanitize":
		cfg.Sanitize = value

	// Output settings
	case "console_target":
		cfg.ConsoleTarget = value
	case "console_device":
		cfg.ConsoleDevice = value

	// Heartbeat configuration
	case "heartbeat_level":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_level '%s': %w", value, err)
		}
		cfg.HeartbeatLevel = intVal
	case "heartbeat_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_s '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalS = intVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
