// FILE: config.go
package ringlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/ringlog/sanitizer"
	"gopkg.in/yaml.v3"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level int64 `toml:"level" yaml:"level"` // Minimum level, 0=debug 1=info 2=warn 3=error

	// Ring settings, fixed once the ring is constructed
	Capacity     int64  `toml:"capacity" yaml:"capacity"`           // Ring size in bytes
	ProducerMode string `toml:"producer_mode" yaml:"producer_mode"` // "multi" or "single"
	ProducerSpin int64  `toml:"producer_spin" yaml:"producer_spin"` // Busy gate CAS attempts before yielding
	ClockSource  string `toml:"clock_source" yaml:"clock_source"`   // "wall", "monotonic" or "coarse"

	// Drain loop
	DrainIntervalMs int64  `toml:"drain_interval_ms" yaml:"drain_interval_ms"` // Sleep between drain iterations
	DrainBatch      int64  `toml:"drain_batch" yaml:"drain_batch"`             // Records per iteration
	DrainOnStop     bool   `toml:"drain_on_stop" yaml:"drain_on_stop"`         // Render queued records before exiting
	MaxLineBytes    int64  `toml:"max_line_bytes" yaml:"max_line_bytes"`       // Payload bytes rendered per line
	Sanitize        string `toml:"sanitize" yaml:"sanitize"`                   // "raw", "txt", "strip" or "escape"

	// Output settings
	ConsoleTarget string `toml:"console_target" yaml:"console_target"` // "console", "stdout", "stderr" or "discard"
	ConsoleDevice string `toml:"console_device" yaml:"console_device"` // Device opened for "console"

	// Heartbeat configuration
	HeartbeatLevel     int64 `toml:"heartbeat_level" yaml:"heartbeat_level"`           // 0=disabled, 1=proc, 2=proc+ring, 3=proc+ring+sys
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s" yaml:"heartbeat_interval_s"` // Interval seconds for heartbeat

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr" yaml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level: int64(LevelInfo),

	Capacity:     4096,
	ProducerMode: ProducerMulti,
	ProducerSpin: 64,
	ClockSource:  "wall",

	DrainIntervalMs: 2,
	DrainBatch:      1,
	DrainOnStop:     true,
	MaxLineBytes:    255,
	Sanitize:        "raw",

	ConsoleTarget: "console",
	ConsoleDevice: "/dev/console",

	HeartbeatLevel:     0,
	HeartbeatIntervalS: 60,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys are read from the [ringlog] table; a missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("ringlog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "ringlog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromYAML loads configuration from a YAML document with a top-level
// "ringlog" mapping. A missing file yields the defaults.
func NewConfigFromYAML(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}

	doc := struct {
		Ringlog *Config `yaml:"ringlog"`
	}{Ringlog: cfg}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		tomlTag := t.Field(i).Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case Level:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c.Level < int64(LevelDebug) || c.Level > int64(LevelError) {
		return fmtErrorf("level must be between 0 and 3: %d", c.Level)
	}

	if c.Capacity < minCapacity || c.Capacity > maxCapacity {
		return fmtErrorf("capacity must be between %d and %d: %d", minCapacity, maxCapacity, c.Capacity)
	}

	if c.ProducerMode != ProducerMulti && c.ProducerMode != ProducerSingle {
		return fmtErrorf("invalid producer_mode: '%s' (use multi or single)", c.ProducerMode)
	}

	if c.ProducerSpin < 0 || c.ProducerSpin > maxProducerSpin {
		return fmtErrorf("producer_spin must be between 0 and %d: %d", maxProducerSpin, c.ProducerSpin)
	}

	switch c.ClockSource {
	case "wall", "monotonic", "coarse":
	default:
		return fmtErrorf("invalid clock_source: '%s' (use wall, monotonic or coarse)", c.ClockSource)
	}

	if c.DrainIntervalMs <= 0 {
		return fmtErrorf("drain_interval_ms must be positive: %d", c.DrainIntervalMs)
	}

	if c.DrainBatch <= 0 {
		return fmtErrorf("drain_batch must be positive: %d", c.DrainBatch)
	}

	if c.MaxLineBytes <= 0 || c.MaxLineBytes > MaxPayload {
		return fmtErrorf("max_line_bytes must be between 1 and %d: %d", MaxPayload, c.MaxLineBytes)
	}

	if _, err := sanitizer.ParseMode(c.Sanitize); err != nil {
		return fmtErrorf("invalid sanitize: %w", err)
	}

	switch c.ConsoleTarget {
	case "console":
		if strings.TrimSpace(c.ConsoleDevice) == "" {
			return fmtErrorf("console_device cannot be empty when console_target is console")
		}
	case "stdout", "stderr", "discard":
	default:
		return fmtErrorf("invalid console_target: '%s' (use console, stdout, stderr or discard)", c.ConsoleTarget)
	}

	if c.HeartbeatLevel < 0 || c.HeartbeatLevel > 3 {
		return fmtErrorf("heartbeat_level must be between 0 and 3: %d", c.HeartbeatLevel)
	}

	if c.HeartbeatLevel > 0 && c.HeartbeatIntervalS <= 0 {
		return fmtErrorf("heartbeat_interval_s must be positive when heartbeat is enabled: %d",
			c.HeartbeatIntervalS)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// configRequiresRestart reports whether the drain loop must restart to pick up cfg
func configRequiresRestart(oldCfg, newCfg *Config) bool {
	return oldCfg.DrainIntervalMs != newCfg.DrainIntervalMs ||
		oldCfg.DrainBatch != newCfg.DrainBatch ||
		oldCfg.MaxLineBytes != newCfg.MaxLineBytes ||
		oldCfg.Sanitize != newCfg.Sanitize ||
		oldCfg.HeartbeatLevel != newCfg.HeartbeatLevel ||
		oldCfg.HeartbeatIntervalS != newCfg.HeartbeatIntervalS
}

// ringSettingsChanged reports a change to settings fixed at ring construction
func ringSettingsChanged(oldCfg, newCfg *Config) bool {
	return oldCfg.Capacity != newCfg.Capacity ||
		oldCfg.ProducerMode != newCfg.ProducerMode ||
		oldCfg.ProducerSpin != newCfg.ProducerSpin
}
