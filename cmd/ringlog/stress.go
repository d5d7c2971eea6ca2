// FILE: lixenwraith/ringlog/cmd/ringlog/stress.go
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/lixenwraith/ringlog/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	stressWorkers     int
	stressRate        float64
	stressDuration    time.Duration
	stressMaxMsg      int
	stressMetricsAddr string
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Log from many goroutines at a paced rate and report losses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if stressWorkers <= 0 || stressMaxMsg <= 0 {
			return fmt.Errorf("workers and max-msg must be positive: %d, %d", stressWorkers, stressMaxMsg)
		}

		logger, err := ringlog.NewBuilder().Config(cfg).Build()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, stressDuration)
		defer cancel()

		if stressMetricsAddr != "" {
			srv := serveMetrics(logger, stressMetricsAddr)
			defer srv.Close()
		}

		// Messages are built up front so the workers measure the producer path only
		messages := make([]string, 64)
		for i := range messages {
			messages[i] = randomMessage(rand.Intn(stressMaxMsg) + 1)
		}

		burst := max(1, int(stressRate)/100)
		limiter := rate.NewLimiter(rate.Limit(stressRate), burst)

		start := time.Now()
		var wg sync.WaitGroup
		for w := 0; w < stressWorkers; w++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				r := rand.New(rand.NewSource(int64(id)))
				for {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
					logger.Log(ringlog.Level(r.Intn(4)), messages[r.Intn(len(messages))])
				}
			}(w)
		}
		wg.Wait()
		elapsed := time.Since(start)

		if err := logger.Shutdown(2 * time.Second); err != nil {
			return err
		}

		s := logger.Stats()
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "\n--- stress: %d workers, %v ---\n", stressWorkers, elapsed.Round(time.Millisecond))
		fmt.Fprintf(out, "logged=%d filtered=%d drained=%d\n", s.Logged, s.Filtered, s.Drained)
		fmt.Fprintf(out, "evicted=%d oversize=%d contended=%d corrupt=%d\n", s.Evicted, s.Oversize, s.Contended, s.Corrupt)
		fmt.Fprintf(out, "truncated=%d write_errors=%d rate=%.0f/s\n", s.Truncated, s.WriteErrors,
			float64(s.Logged)/elapsed.Seconds())
		return nil
	},
}

func init() {
	f := stressCmd.Flags()
	f.IntVarP(&stressWorkers, "workers", "w", 8, "producer goroutines")
	f.Float64VarP(&stressRate, "rate", "r", 10000, "records per second across all workers")
	f.DurationVarP(&stressDuration, "duration", "d", 5*time.Second, "run time")
	f.IntVar(&stressMaxMsg, "max-msg", 200, "largest message in bytes")
	f.StringVar(&stressMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
}

// serveMetrics exposes the logger statistics and Go runtime metrics on /metrics
func serveMetrics(logger *ringlog.Logger, addr string) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		metrics.NewCollector(logger, "", nil),
		collectors.NewGoCollector(),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Print(ringlog.LevelError, "metrics server failed:", err)
		}
	}()
	return srv
}

func randomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	b := make([]byte, size)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}
