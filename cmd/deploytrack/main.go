package main

import (
	"log/slog"
	"os"

	"github.com/deploytrack/deploytrack/internal/cli"
)

func main() {
	// Diagnostics go to stderr so the console reports on stdout stay clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := cli.NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
