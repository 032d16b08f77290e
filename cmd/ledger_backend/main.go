package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/handlers"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/SscSPs/travel_ledger/internal/platform/config"
	"github.com/SscSPs/travel_ledger/internal/platform/metrics"
	"github.com/SscSPs/travel_ledger/internal/repositories/cache"
	"github.com/SscSPs/travel_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/SscSPs/travel_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate swag init --dir ../../ --generalInfo cmd/ledger_backend/main.go --output ../docs

// @title Travel Ledger API
// @version 1.0
// @description Double-entry ledger for travel agent ticketing events.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handlers.HealthCheck)

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage: data is lost on restart and every write copies the whole ledger, use for tests and demos only")
		repos = memory.NewStore().Provider()
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)
		checks["database"] = dbPool.Ping

		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		readPool := dbPool
		if cfg.ReadDatabaseURL != "" {
			readPool, err = database.NewPgxPool(ctx, cfg.ReadDatabaseURL, logger.With(slog.String("pool", "read")))
			if err != nil {
				logger.Error("Failed to initialize read database pool", slog.String("error", err.Error()))
				os.Exit(1)
			}
			defer database.ClosePgxPool(readPool, logger)
			checks["read_database"] = readPool.Ping
		}
		repos = pgsql.NewRepositoryProvider(dbPool, readPool)
	}

	var balanceCache portsrepo.BalanceCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisBalanceCache(ctx, cfg.RedisURL, cfg.BalanceCacheTTL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				logger.Warn("Error closing redis client", slog.String("error", err.Error()))
			}
		}()
		checks["redis"] = redisCache.Ping
		balanceCache = redisCache
		logger.Info("Balance cache enabled", slog.Duration("ttl", cfg.BalanceCacheTTL))
	}

	var ledgerMetrics *metrics.LedgerMetrics
	if cfg.MetricsEnabled {
		ledgerMetrics = metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)
	}

	container := services.NewServiceContainer(cfg, repos, balanceCache, ledgerMetrics)

	seeded, err := container.Accounts.SeedDefaults(middleware.WithLogger(ctx, logger))
	if err != nil {
		logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Chart of accounts ready", slog.Int("seeded", seeded))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, promhttp.Handler(), checks); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
