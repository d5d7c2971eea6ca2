// FILE: lixenwraith/ringlog/cmd/ringlog/demo.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Log a few records at every level and print the statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := ringlog.NewBuilder().Config(cfg).Build()
		if err != nil {
			return err
		}

		logger.Debug("debug record, hidden at the default level")
		logger.Info("logger started")
		logger.Warn("disk almost full")
		logger.Error("request failed")
		logger.Printf(ringlog.LevelInfo, "formatted: capacity=%d mode=%s", cfg.Capacity, cfg.ProducerMode)
		logger.Print(ringlog.LevelInfo, "composite:", map[string]int{"a": 1, "b": 2})
		logger.LogBytes(ringlog.LevelWarn, []byte("control\x00bytes\nin payload"))
		logger.Info(strings.Repeat("x", int(cfg.MaxLineBytes)+10))

		time.Sleep(20 * time.Millisecond)
		if err := logger.Shutdown(time.Second); err != nil {
			return err
		}

		s := logger.Stats()
		fmt.Fprintf(cmd.ErrOrStderr(), "logged=%d filtered=%d drained=%d truncated=%d dropped=%d\n",
			s.Logged, s.Filtered, s.Drained, s.Truncated, s.Dropped())
		return nil
	},
}
