package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"icingview/internal/adapters/http/api"
	"icingview/internal/adapters/icinga"
	"icingview/internal/config"
	"icingview/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

const defaultConfigPath = "config.toml"

var rootCmd = &cobra.Command{
	Use:   "icingview [config-path]",
	Short: "Read-only status dashboard for an Icinga-compatible monitoring API",
	Long: `icingview serves a small web dashboard that queries a monitoring
backend's REST API for host and service status objects, filters them by a
user-supplied expression and renders the result as a sorted HTML table.

The only argument is the path to the TOML configuration file; it defaults
to ` + defaultConfigPath + `.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Disable the default Go collectors; the dashboard registers its own
	// metrics on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configPath := defaultConfigPath
	if len(args) == 1 {
		configPath = args[0]
	}

	// Configuration problems are fatal: the process does not start degraded.
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store := config.NewStore(*cfg)
	client := icinga.New(
		time.Duration(cfg.IcingaAPI.TimeoutS)*time.Second,
		cfg.IcingaAPI.AllowInvalidCerts,
	)

	// The server handles the whole path tree itself; a ServeMux in front
	// would clean and redirect paths before the router sees them.
	server := api.NewServer(store, client, log.Named("api"))

	srv := &http.Server{
		Addr:              cfg.HTTPServer.ListenSocketAddress,
		Handler:           server,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.HTTPServer.ListenSocketAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		// Listener bind failures land here; fatal like a bad config.
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}
