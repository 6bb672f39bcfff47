package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paperdesk/paperdesk-backend/internal/adapter/httpapi"
	"github.com/paperdesk/paperdesk-backend/internal/adapter/oracle"
	"github.com/paperdesk/paperdesk-backend/internal/adapter/repository/postgres"
	"github.com/paperdesk/paperdesk-backend/internal/config"
	"github.com/paperdesk/paperdesk-backend/internal/domain"
	"github.com/paperdesk/paperdesk-backend/internal/logging"
	"github.com/paperdesk/paperdesk-backend/internal/usecase/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("paperdesk-api", cfg.LogLevel, cfg.AppEnv)

	// 1. Price oracle: HTTP endpoint when configured, static table otherwise
	var priceOracle domain.PriceOracle
	if cfg.OracleURL != "" {
		priceOracle = oracle.NewHTTPOracle(cfg.OracleURL, nil)
		logger.Info("using HTTP price oracle", "url", cfg.OracleURL)
	} else {
		priceOracle = oracle.NewStaticDefault()
		logger.Info("using static price oracle")
	}

	// 2. Optional postgres archive
	storeOpts := []store.Option{
		store.WithOracleTimeout(time.Duration(cfg.OracleTimeoutMS) * time.Millisecond),
	}
	if cfg.DatabaseURL != "" {
		db, err := connectDB(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to prepare archive schema", "error", err)
			os.Exit(1)
		}
		storeOpts = append(storeOpts, store.WithRepository(postgres.NewAccountRepository(db)))
	}

	// 3. Account store
	accounts := store.NewAccountStore(priceOracle, storeOpts...)
	if err := accounts.Rehydrate(context.Background()); err != nil {
		logger.Error("failed to rehydrate accounts", "error", err)
		os.Exit(1)
	}

	// 4. HTTP server
	api := httpapi.NewServer(accounts)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(cfg.APIToken, logger),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(srv, logger)
}

// waitForShutdown blocks until SIGTERM or SIGINT and drains the server.
func waitForShutdown(srv *http.Server, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	sig := <-quit
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// connectDB opens the archive database, waiting for it to come up.
func connectDB(dsn string) (*postgres.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= 30; attempt++ {
		db, err := postgres.NewDB(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", attempt)
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("gave up connecting to database: %w", lastErr)
}
