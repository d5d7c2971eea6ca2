// FILE: lixenwraith/ringlog/cmd/ringlog/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lixenwraith/ringlog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	levelFlag  string
	capacity   int64
	target     string
	overrides  []string
)

var rootCmd = &cobra.Command{
	Use:   "ringlog",
	Short: "ringlog - lock-free ring buffer logger tools",
	Long: `ringlog exercises the ring buffer logger: a demo of the output format,
a multi-producer stress run with optional Prometheus metrics, and a heartbeat cycle.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (.toml uses the [ringlog] table, .yaml/.yml the ringlog key)")
	pf.StringVarP(&levelFlag, "level", "l", "", "minimum level: debug, info, warn, error")
	pf.Int64Var(&capacity, "capacity", 0, "ring size in bytes")
	pf.StringVarP(&target, "target", "t", "stdout", "output: console, stdout, stderr or discard")
	pf.StringArrayVarP(&overrides, "set", "s", nil, "config override key=value, repeatable")

	rootCmd.AddCommand(demoCmd, stressCmd, heartbeatCmd)
}

// configSources holds every place a setting can come from
type configSources struct {
	path        string
	level       string
	capacity    int64
	capacitySet bool
	target      string
	targetSet   bool
	overrides   []string
}

// resolve applies the config file, then the flags, then the overrides.
// The target flag default only applies when there is no config file.
func (src configSources) resolve() (*ringlog.Config, error) {
	cfg := ringlog.DefaultConfig()
	if src.path != "" {
		var err error
		switch strings.ToLower(filepath.Ext(src.path)) {
		case ".yaml", ".yml":
			cfg, err = ringlog.NewConfigFromYAML(src.path)
		default:
			cfg, err = ringlog.NewConfigFromFile(src.path)
		}
		if err != nil {
			return nil, err
		}
	}

	var kv []string
	if src.level != "" {
		kv = append(kv, "level="+src.level)
	}
	if src.capacitySet {
		kv = append(kv, fmt.Sprintf("capacity=%d", src.capacity))
	}
	if src.targetSet || src.path == "" {
		kv = append(kv, "console_target="+src.target)
	}
	kv = append(kv, src.overrides...)

	if err := cfg.Override(kv...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig resolves the configuration from the root command's flags
func loadConfig(cmd *cobra.Command) (*ringlog.Config, error) {
	return configSources{
		path:        configPath,
		level:       levelFlag,
		capacity:    capacity,
		capacitySet: cmd.Flags().Changed("capacity"),
		target:      target,
		targetSet:   cmd.Flags().Changed("target"),
		overrides:   overrides,
	}.resolve()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
