// revmon - gambling-operator revenue monitoring API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nla-gaming/revmon/internal/api"
	"github.com/nla-gaming/revmon/internal/cache"
	"github.com/nla-gaming/revmon/internal/domain"
	"github.com/nla-gaming/revmon/internal/repository"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("REVMON_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting revmon",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	cfg := loadConfig()
	slog.Info("configuration loaded",
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"current_period", cfg.Reporting.CurrentPeriod,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize Server
	srv := api.NewServer(cfg, repo, cacheImpl, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("revmon is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("revmon shutdown complete")
}

// loadConfig builds the configuration from defaults plus REVMON_*
// environment overrides.
func loadConfig() *domain.Config {
	cfg := domain.DefaultConfig()

	if v := os.Getenv("REVMON_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REVMON_DB_DRIVER"); v != "" {
		cfg.Repository.Driver = v
	}
	if v := os.Getenv("REVMON_DB_PATH"); v != "" {
		cfg.Repository.SQLitePath = v
	}
	if v := os.Getenv("REVMON_PG_HOST"); v != "" {
		cfg.Repository.PostgresHost = v
	}
	if v := os.Getenv("REVMON_PG_USER"); v != "" {
		cfg.Repository.PostgresUser = v
	}
	if v := os.Getenv("REVMON_PG_PASSWORD"); v != "" {
		cfg.Repository.PostgresPassword = v
	}
	if v := os.Getenv("REVMON_PG_DB"); v != "" {
		cfg.Repository.PostgresDB = v
	}
	if v := os.Getenv("REVMON_CACHE"); v != "" {
		cfg.Cache.Type = v
	}
	if v := os.Getenv("REVMON_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REVMON_CURRENT_PERIOD"); v != "" {
		if domain.ValidDate(v) {
			cfg.Reporting.CurrentPeriod = v
		} else {
			slog.Warn("ignoring malformed REVMON_CURRENT_PERIOD", "value", v)
		}
	}
	if v := os.Getenv("REVMON_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.RequestsPerMinute = n
			cfg.RateLimit.Enabled = n > 0
		}
	}

	return cfg
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  =============================================")
	fmt.Println("   REVMON - Revenue Monitoring System API")
	fmt.Println("  =============================================")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("  Period:   %s\n", cfg.Reporting.CurrentPeriod)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    GET /operators          - List operators by risk")
	fmt.Println("    GET /operators/{id}     - Operator detail + recent reports")
	fmt.Println("    GET /reports            - Filtered revenue reports")
	fmt.Println("    GET /reports/{id}       - Single report")
	fmt.Println("    GET /anomalies          - Flagged reports by confidence")
	fmt.Println("    GET /anomaly-types      - Anomaly category counts")
	fmt.Println("    GET /transactions       - Recent wagering transactions")
	fmt.Println("    GET /stats              - Dashboard aggregate")
	fmt.Println("    GET /health             - Health check")
	fmt.Println()
}
