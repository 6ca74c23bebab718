// Command roomassignd serves the room assignment engine over HTTP.
//
// Process settings come from the environment, optionally loaded from a .env file:
//
//	ROOMASSIGN_HTTP_ADDR    listen address (default :8080)
//	ROOMASSIGN_LOG_LEVEL    debug, info, warn or error (default info)
//	ROOMASSIGN_LOG_FORMAT   json or console (default json)
//	ROOMASSIGN_ROOMS_FILE   YAML list of rooms loaded into the in-memory inventory
//	NATS_URL                enables the JetStream KV config store and NATS notifications
//	REDIS_ADDR              stores assignments in Redis
//	DATABASE_URL            stores assignments in PostgreSQL (takes precedence over Redis)
//	WEBHOOK_GUEST_URL       webhook for the guest channel
//	WEBHOOK_STAFF_URL       webhook for the front-desk channel
//
// Engine tuning is read from the YAML file given by -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	roomassign "github.com/himmu2625/baithkaGhar-sub009"
	"github.com/himmu2625/baithkaGhar-sub009/internal/httpapi"
	"github.com/himmu2625/baithkaGhar-sub009/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to the engine YAML configuration")
	flag.Parse()

	// a missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		log.Fatalf("roomassignd: %v", err)
	}
}

func run(configPath string) error {
	settings := loadSettings()

	logger, err := logging.NewZap(settings.LogLevel, settings.LogFormat, "roomassignd")
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := roomassign.DefaultConfig()
	if configPath != "" {
		if cfg, err = roomassign.LoadConfig(configPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	engine, err := roomassign.NewEngine(&cfg, deps.inventory, deps.dispatcher,
		roomassign.WithConfigStore(deps.configs),
		roomassign.WithAssignmentStore(deps.assignments),
		roomassign.WithMetrics(deps.metrics),
		roomassign.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	router := httpapi.New(engine, logger).Router(requestLogger(logger))
	router.GET("/metrics", deps.metricsHandler)

	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", settings.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := engine.Stop(shutdownCtx); err != nil {
		logger.Error("engine stop failed", "error", err)
	}
	if letters := engine.DeadLetters(); len(letters) > 0 {
		logger.Warn("dead letters discarded at shutdown", "count", len(letters))
	}
	logger.Info("shutdown complete")

	return nil
}

type settings struct {
	HTTPAddr    string
	LogLevel    string
	LogFormat   string
	RoomsFile   string
	NATSURL     string
	RedisAddr   string
	DatabaseURL string
	GuestHook   string
	StaffHook   string
}

func loadSettings() settings {
	return settings{
		HTTPAddr:    getenv("ROOMASSIGN_HTTP_ADDR", ":8080"),
		LogLevel:    getenv("ROOMASSIGN_LOG_LEVEL", "info"),
		LogFormat:   getenv("ROOMASSIGN_LOG_FORMAT", "json"),
		RoomsFile:   os.Getenv("ROOMASSIGN_ROOMS_FILE"),
		NATSURL:     os.Getenv("NATS_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		GuestHook:   os.Getenv("WEBHOOK_GUEST_URL"),
		StaffHook:   os.Getenv("WEBHOOK_STAFF_URL"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
