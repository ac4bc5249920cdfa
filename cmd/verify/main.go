package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/verify/config"
	"github.com/use-agent/verify/probe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one probe and returns the process exit status, which is
// always zero. stdout carries only the result line; logs go to stderr.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, stderr)
	slog.Debug("verify starting",
		"url", cfg.Target.URL,
		"output", cfg.Capture.OutputPath,
		"navTimeout", cfg.Target.NavigationTimeout,
	)

	// ── 3. Run the probe ────────────────────────────────────────────
	out := probe.New(cfg).Run(ctx)

	// ── 4. Report ───────────────────────────────────────────────────
	fmt.Fprintln(stdout, out.Message())
	return 0
}

// initLogger configures slog based on the LogConfig. Logs go to w so that
// stdout only carries the result line.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
