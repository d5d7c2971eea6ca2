// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/ringlog"
	"github.com/lixenwraith/ringlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	logger := ringlog.NewLogger()
	err := logger.ApplyOverride(
		"level=info",
		"capacity=8192",
		"console_target=stderr",
		"sanitize=escape",
	)
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(ringlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (ringlog.Level, bool) {
	if strings.Contains(msg, "connection cannot be served") {
		return ringlog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return ringlog.LevelError, true
	}

	// Fall back to keyword detection
	return compat.DetectLogLevel(msg)
}
