package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/javajack/sheetjson/internal/config"
	"github.com/javajack/sheetjson/internal/web"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /convert and POST /describe over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			slog.Info("configuration loaded", "config", cfg.String())
			return serve(cmd.Context(), web.NewServer(cfg), cfg)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from SERVER_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from SERVER_PORT)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down within the
// configured timeout.
func serve(ctx context.Context, srv *web.Server, cfg *config.Config) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
