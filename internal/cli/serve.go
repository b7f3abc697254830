package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kestrelops/fieldsync/internal/api"
	"github.com/kestrelops/fieldsync/internal/config"
	"github.com/kestrelops/fieldsync/internal/log"
	"github.com/kestrelops/fieldsync/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database string
	Listen   string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sync HTTP server",
		Long: `Start the fieldsyncd HTTP server.

Opens the SQLite store (creating and migrating it if needed) and serves
the sync endpoints plus /health and /metrics until interrupted.

Example:
  fieldsyncd serve --config fieldsyncd.yaml
  fieldsyncd serve --db ./fieldsync.db --listen :8080 --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "bind address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database.Path = opts.Database
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	level := log.Level(cfg.Log.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	log.Init(log.Config{Level: level, JSONOutput: cfg.Log.JSON})
	logger := log.WithComponent("serve")

	logger.Info().Str("path", cfg.Database.Path).Msg("opening database")
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("error closing database")
		}
	}()

	srv := api.NewServer(st, &cfg)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Server listening on %s\n", cfg.Server.Listen)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
	case <-ctx.Done():
	case err := <-errCh:
		// Listener failed before any shutdown was requested.
		return WrapExitError(ExitFailure, "http server error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "graceful shutdown failed", err)
	}
	if err := <-errCh; err != nil {
		return WrapExitError(ExitFailure, "http server error", err)
	}

	logger.Info().Msg("server stopped gracefully")
	return nil
}
