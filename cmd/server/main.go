/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the charging engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment / .env), apply flag overrides
  2. Initialize SQLite store
  3. Load operator default spend limits (optional JSON file)
  4. Wire approval service, metrics, and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (overrides CHARGING_PORT)
  -db        SQLite database path (overrides CHARGING_DB_PATH)
             Use ":memory:" for in-memory database
  -defaults  Operator default-limit JSON file
             (overrides CHARGING_DEFAULT_LIMITS_PATH)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/charging.db"

  # Run with in-memory database and operator defaults
  ./server -db=":memory:" -defaults="./config/default_limits.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
  - factory/limits.go: Operator default-limit configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian/charging-engine/account"
	"github.com/meridian/charging-engine/api"
	"github.com/meridian/charging-engine/config"
	"github.com/meridian/charging-engine/factory"
	"github.com/meridian/charging-engine/metrics"
	"github.com/meridian/charging-engine/store/sqlite"
)

func main() {
	cfg := config.New()

	// Flags override environment configuration.
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	defaultsPath := flag.String("defaults", cfg.DefaultLimitsPath, "operator default-limit JSON file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	// Operator default limits are optional; without them only explicit
	// per-account limits constrain payments.
	var defaults account.DefaultLimitProvider
	if *defaultsPath != "" {
		raw, err := os.ReadFile(*defaultsPath)
		if err != nil {
			logger.Error("failed to read default limits", slog.String("path", *defaultsPath), slog.Any("error", err))
			os.Exit(1)
		}
		parsed, err := factory.ParseDefaultLimits(raw)
		if err != nil {
			logger.Error("failed to parse default limits", slog.String("path", *defaultsPath), slog.Any("error", err))
			os.Exit(1)
		}
		defaults = parsed
		logger.Info("operator default limits loaded", slog.String("path", *defaultsPath))
	}

	svc := &account.ApprovalService{
		Accounts:     store,
		Transactions: store,
		Limits:       store,
		Defaults:     defaults,
		Logger:       logger,
	}

	collector := metrics.NewCollector(logger)
	handler := api.NewHandler(svc, collector)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.Int("port", *port), slog.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
