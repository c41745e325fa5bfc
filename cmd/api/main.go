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
	"strings"
	"syscall"
	"time"

	"polarprofile.org/internal/app"
	"polarprofile.org/internal/appconf"
	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/polar"
	"polarprofile.org/internal/restapi"
	"polarprofile.org/internal/vertices"
)

func main() {
	var cfg appconf.Config
	var env, apiKeysFlag string

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeysFlag, "api-keys", "test", "Comma Separated API Keys (test, etc)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per API key (negative disables limiting)")
	flag.StringVar(&cfg.CatalogPath, "catalog", "catalog.db", "Path to the SQLite layer catalog")
	flag.StringVar(&cfg.GridDir, "grid-dir", ".", "Directory holding the catalogued grid files")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.ApiKeys = parseAPIKeys(apiKeysFlag)

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func parseAPIKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	client, err := catalog.NewClient(catalog.NewConfig(cfg.CatalogPath, cfg.GridDir, cfg.Env, cfg.LogLevel == "debug"))
	if err != nil {
		return fmt.Errorf("opening layer catalog: %w", err)
	}
	defer logging.SafeCloseWithLogging(client, logger, "layer_catalog")

	manager := catalog.NewManager(client)
	if err := manager.Seed(ctx); err != nil {
		return fmt.Errorf("seeding layer catalog: %w", err)
	}

	proj, err := polar.NewEPSG3031()
	if err != nil {
		return err
	}

	application := &app.Application{
		Config:     cfg,
		Logger:     logger,
		Catalog:    manager,
		Projection: proj,
		Collector:  vertices.NewCollector(logger.With(slog.String("component", "draw"))),
	}
	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
