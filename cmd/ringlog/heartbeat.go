// FILE: lixenwraith/ringlog/cmd/ringlog/heartbeat.go
package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/spf13/cobra"
)

var heartbeatWait time.Duration

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Cycle through heartbeat levels on one logger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Test cycle: disable -> PROC -> PROC+RING -> PROC+RING+SYS -> PROC+RING -> PROC -> disable
		levels := []struct {
			level       int64
			description string
		}{
			{0, "Heartbeats disabled"},
			{1, "PROC heartbeats only"},
			{2, "PROC+RING heartbeats"},
			{3, "PROC+RING+SYS heartbeats"},
			{2, "PROC+RING heartbeats (reducing from 3)"},
			{1, "PROC heartbeats only (reducing from 2)"},
			{0, "Heartbeats disabled (final)"},
		}

		cfg.HeartbeatIntervalS = 1
		logger, err := ringlog.NewBuilder().Config(cfg).Build()
		if err != nil {
			return err
		}

		for _, lc := range levels {
			// Reconfiguring the heartbeat restarts the drain goroutine
			if err := logger.ApplyOverride(fmt.Sprintf("heartbeat_level=%d", lc.level)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "\n--- Testing heartbeat level %d: %s ---\n", lc.level, lc.description)
			logger.Printf(ringlog.LevelInfo, "heartbeat test started level=%d", lc.level)
			for j := 0; j < 10; j++ {
				logger.Debug("debug test log")
				logger.Info("info test log")
				logger.Warn("warning test log")
				logger.Error("error test log")
				time.Sleep(10 * time.Millisecond)
			}
			time.Sleep(heartbeatWait)
		}

		return logger.Shutdown(2 * time.Second)
	},
}

func init() {
	heartbeatCmd.Flags().DurationVar(&heartbeatWait, "wait", 1500*time.Millisecond, "time spent at each level")
}
