package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/khanhng/taskscope/internal/adapter/api"
	"github.com/khanhng/taskscope/internal/adapter/api/middleware"
	"github.com/khanhng/taskscope/internal/adapter/metrics"
	"github.com/khanhng/taskscope/internal/adapter/orgcache"
	"github.com/khanhng/taskscope/internal/adapter/repository/postgres"
	redisrepo "github.com/khanhng/taskscope/internal/adapter/repository/redis"
	"github.com/khanhng/taskscope/internal/pkg/config"
	"github.com/khanhng/taskscope/internal/pkg/logger"
	"github.com/khanhng/taskscope/internal/usecase"

	_ "github.com/lib/pq" // postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	m := metrics.NewViewMetrics()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database and Redis Connections ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping postgres", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// --- Repositories and Hierarchy Cache ---
	taskRepo := postgres.NewTaskRepository(db, log)
	orgRepo := postgres.NewOrgUnitRepository(db, log)
	sessionRepo := redisrepo.NewSessionRepository(redisClient, cfg.SessionKeyPrefix, log, m)

	orgCache := orgcache.NewCache(orgRepo, log, m)
	if err := orgCache.Warm(ctx); err != nil {
		log.Error("failed to load initial hierarchy snapshot", "error", err)
		os.Exit(1)
	}
	go orgCache.Start(ctx, cfg.HierarchyRefresh)

	// --- Use Cases ---
	resolver := usecase.NewVisibilityResolver(log, m)
	aggregator, err := usecase.NewAggregator(cfg.ReportingTimezone, log, m)
	if err != nil {
		log.Error("failed to initialize aggregator", "error", err)
		os.Exit(1)
	}
	viewUseCase := usecase.NewManagerViewUseCase(taskRepo, orgCache, resolver, aggregator, cfg.StoreInLimit, log, m)

	// --- Admin and Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.Handle("/", api.NewAdminRouter(orgCache, log))

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		log.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- API Server ---
	router := api.NewRouter(cfg, log, sessionRepo, viewUseCase, m)
	apiServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      middleware.Logging(log)(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		log.Info("starting manager-view server", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("manager-view server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	log.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		log.Error("admin server shutdown failed", "error", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown failed", "error", err)
	}

	log.Info("servers shut down gracefully")
}
