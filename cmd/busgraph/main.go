package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"busgraph.opentransit.org/internal/app"
	"busgraph.opentransit.org/internal/config"
	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/network"
	"busgraph.opentransit.org/internal/restapi"
)

// options holds the command line flags. Everything else comes from the
// configuration file and BUSGRAPH_* environment variables.
type options struct {
	configPath string
	serve      bool
	port       int
	runID      string
}

func main() {
	var opts options

	flag.StringVar(&opts.configPath, "config", "busgraph.yml", "Path to the YAML configuration file")
	flag.BoolVar(&opts.serve, "serve", false, "Serve the graph over HTTP once it is built")
	flag.IntVar(&opts.port, "port", 0, "API server port (overrides server.port)")
	flag.StringVar(&opts.runID, "run", "", "Load a stored run from export.sqlite instead of building (\"latest\" for the newest)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(exitCode(err))
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	logger := logging.NewLogger(os.Stdout, cfg.Log.Format, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := buildApplication(ctx, cfg, logger, opts.runID)
	if err != nil {
		logging.LogError(logger, "busgraph failed", err)
		stop()
		os.Exit(exitCode(err))
	}

	if !opts.serve {
		return
	}

	if err := serve(ctx, application); err != nil {
		logging.LogError(logger, "server failed", err)
		stop()
		os.Exit(1)
	}
}

// exitCode maps configuration problems to 2 and everything else to 1.
func exitCode(err error) int {
	if errors.Is(err, network.ErrConfiguration) {
		return 2
	}
	return 1
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, application *app.Application) error {
	api := restapi.NewRestAPI(application)
	logger := application.Logger

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Server.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", application.Config.Server.Env),
			slog.Bool("api_keys", application.APIKeysEnabled()))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
