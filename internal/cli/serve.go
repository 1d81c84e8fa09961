package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deploytrack/deploytrack/internal/api"
	"github.com/deploytrack/deploytrack/internal/config"
	"github.com/deploytrack/deploytrack/internal/store"
	"github.com/deploytrack/deploytrack/internal/watch"
	"github.com/deploytrack/deploytrack/internal/ws"
)

// NewServeCmd creates the serve command: the read-only deployment data server.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the deployment data file over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New(cfg.DataFile)
	hub := ws.New(st)
	go hub.Run(ctx)

	// Invalidate the cache and push to stream clients on every file change.
	go func() {
		if err := watch.File(ctx, cfg.DataFile, func() {
			st.Invalidate()
			hub.Notify()
		}); err != nil {
			slog.Error("data file watcher stopped", "err", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/", api.New(st, cfg.Calculator.Divisor()))
	mux.Handle("/ws/stream", hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("deployment data server listening",
			"port", cfg.Server.HTTPPort, "data_file", cfg.DataFile)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		slog.Info("deployment data server shutting down")
		return srv.Shutdown(context.Background())
	}
}
