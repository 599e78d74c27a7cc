// cmd/server/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/auth"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/config"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/handler"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore/sqlite"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/service"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage/rowdb"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	// Load config and keep the log level in step with file edits.
	loader, err := config.NewLoader(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	logging.SetLevel(cfg.LogLevel)
	loader.OnChange(func(c *config.Config) {
		logging.SetLevel(c.LogLevel)
		slog.Info("config reloaded", "log_level", c.LogLevel)
	})
	if stop, err := loader.Watch(); err != nil {
		slog.Warn("config watch disabled", "error", err)
	} else {
		defer stop()
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT secret not configured; set JWT_SECRET or auth.jwtSecret")
		os.Exit(1)
	}

	// Storage stack: SQLite row store behind the typed store, fronted by
	// the TTL cache.
	rows, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	c := cache.New(cfg.Cache.MaxEntries, cfg.CacheTTL())
	store := rowdb.New(rows, c)
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenDuration())
	l := ledger.New(store)

	api := handler.New(
		service.NewAuthService(store, jwtManager),
		service.NewEventService(store),
		service.NewPaymentService(store, l),
		service.NewMemberService(store),
		service.NewDashboardService(store),
		service.NewTransactionService(store),
		c,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.Router(jwtManager),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
