package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/backend/internal/application/analytics"
	appidentity "github.com/shopmetrics/backend/internal/application/identity"
	"github.com/shopmetrics/backend/internal/application/ingest"
	"github.com/shopmetrics/backend/internal/application/records"
	appsync "github.com/shopmetrics/backend/internal/application/sync"
	"github.com/shopmetrics/backend/internal/infrastructure/auth"
	"github.com/shopmetrics/backend/internal/infrastructure/cache"
	"github.com/shopmetrics/backend/internal/infrastructure/config"
	"github.com/shopmetrics/backend/internal/infrastructure/logger"
	"github.com/shopmetrics/backend/internal/infrastructure/persistence"
	"github.com/shopmetrics/backend/internal/infrastructure/scheduler"
	"github.com/shopmetrics/backend/internal/infrastructure/shopify"
	"github.com/shopmetrics/backend/internal/infrastructure/telemetry"
	"github.com/shopmetrics/backend/internal/interfaces/http/handler"
	"github.com/shopmetrics/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Telemetry.Enabled {
		if err := telemetry.InstrumentGorm(db.DB, cfg.Database.DBName); err != nil {
			log.Fatal("Failed to instrument database", zap.Error(err))
		}
	}

	// Metrics cache, redis-backed when configured
	metricsCache, err := cache.NewFactory(cache.WithLogger(log)).CreateCache(cfg.Cache, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer metricsCache.Close() //nolint:errcheck

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	metricsRepo := persistence.NewGormMetricsRepository(db.DB)

	// Platform client and application services
	platform := shopify.NewClient(cfg.Shopify, shopify.WithClientLogger(log))
	jwtService := auth.NewJWTService(cfg.JWT)

	upsertService := ingest.NewUpsertService(customerRepo, orderRepo, productRepo, metricsCache, log)
	webhookService := ingest.NewWebhookService(tenantRepo, shopify.NewPayloadDecoder(), upsertService, log)
	syncService := appsync.NewService(tenantRepo, platform, upsertService, cfg.Shopify.PageSize, log)
	metricsService := analytics.NewMetricsService(metricsRepo, metricsCache, cfg.Cache.MetricsTTL, log)
	queryService := records.NewQueryService(customerRepo, orderRepo, productRepo, records.WithQueryLogger(log))
	authService := appidentity.NewAuthService(userRepo, jwtService, appidentity.WithAuthLogger(log))
	tenantService := appidentity.NewTenantService(tenantRepo, userRepo, appidentity.WithTenantLogger(log))

	// Background sync scheduling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		syncScheduler *scheduler.SyncScheduler
		syncTrigger   *scheduler.SyncTrigger
	)
	if cfg.Sync.Enabled {
		syncScheduler, err = scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			Workers:        cfg.Sync.Workers,
			QueueSize:      cfg.Sync.QueueSize,
			JobTimeout:     cfg.Sync.JobTimeout,
			MaxRetries:     cfg.Sync.MaxRetries,
			RetryBaseDelay: cfg.Sync.RetryBaseDelay,
			RetryMaxDelay:  cfg.Sync.RetryMaxDelay,
		}, scheduler.NewSyncServiceExecutor(syncService), log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}

		syncTrigger, err = scheduler.NewSyncTrigger(cfg.Sync.Interval, tenantRepo, syncScheduler, log)
		if err != nil {
			log.Fatal("Failed to create sync trigger", zap.Error(err))
		}
		if err := syncTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start sync trigger", zap.Error(err))
		}
		log.Info("Background sync enabled",
			zap.Int("workers", cfg.Sync.Workers),
			zap.Duration("interval", cfg.Sync.Interval),
		)
	}

	// HTTP surface
	engine := router.New(cfg.HTTP, cfg.Telemetry, jwtService, router.Handlers{
		Health:    handler.NewHealthHandler(version),
		Auth:      handler.NewAuthHandler(authService, log),
		Tenant:    handler.NewTenantHandler(tenantService, log),
		Webhook:   handler.NewWebhookHandler(webhookService, log),
		Sync:      handler.NewSyncHandler(syncService, log),
		Dashboard: handler.NewDashboardHandler(metricsService, log),
		Records:   handler.NewRecordsHandler(queryService, log),
	}, log)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if syncTrigger != nil {
		syncTrigger.Stop()
	}
	if syncScheduler != nil {
		if err := syncScheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Sync scheduler shutdown did not finish cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer shutdown did not finish cleanly", zap.Error(err))
	}
	log.Info("Server stopped")
}
