package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appintegration "github.com/mwc/backend/internal/application/integration"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/domain/shared/valueobject"
	"github.com/mwc/backend/internal/infrastructure/cache"
	"github.com/mwc/backend/internal/infrastructure/commerce"
	"github.com/mwc/backend/internal/infrastructure/config"
	"github.com/mwc/backend/internal/infrastructure/logger"
	"github.com/mwc/backend/internal/infrastructure/persistence"
	"github.com/mwc/backend/internal/infrastructure/scheduler"
	"github.com/mwc/backend/internal/infrastructure/telemetry"
	"github.com/mwc/backend/internal/interfaces/http/handler"
	"github.com/mwc/backend/internal/interfaces/http/middleware"
	"github.com/mwc/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewFromSettings(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting product sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store_id", cfg.Commerce.StoreID),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	var meter metric.Meter
	var syncMetrics *telemetry.SyncMetrics
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter("mwc.sync")
		if syncMetrics, err = telemetry.NewSyncMetrics(meter, log); err != nil {
			log.Fatal("Failed to register sync metrics", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	productMapRepo := persistence.NewGormProductMapRepository(db.DB)
	associationRepo := persistence.NewGormProductAssociationRepository(db.DB)

	// Cache and locks
	cacheFactory := cache.NewFactory(cfg.Redis, cfg.Cache, cfg.Lock,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	productsCache, err := cacheFactory.CreateProductsCache()
	if err != nil {
		log.Fatal("Failed to create products cache", zap.Error(err))
	}
	productLocker, err := cacheFactory.CreateProductLocker()
	if err != nil {
		log.Fatal("Failed to create product locker", zap.Error(err))
	}

	// Commerce platform
	commerceCtx := integration.CommerceContext{
		StoreID:   cfg.Commerce.StoreID,
		ChannelID: cfg.Commerce.ChannelID,
	}
	if err := commerceCtx.Validate(); err != nil {
		log.Fatal("Invalid commerce configuration", zap.Error(err))
	}

	clientOpts := []commerce.ClientOption{commerce.WithLogger(log)}
	if syncMetrics != nil {
		clientOpts = append(clientOpts, commerce.WithRequestMetrics(syncMetrics))
	}
	catalogClient, err := commerce.NewCatalogClient(
		commerce.ClientConfigFrom(cfg.Commerce, cfg.App.Name, cfg.App.Version),
		clientOpts...,
	)
	if err != nil {
		log.Fatal("Failed to create commerce catalog client", zap.Error(err))
	}

	// Application services
	mappingService := appintegration.NewProductsMappingService(productMapRepo)
	associationService := appintegration.NewPoyntProductAssociationService(associationRepo)
	adapter := appintegration.NewProductBaseAdapter(productRepo, mappingService, mappingService,
		appintegration.WithDefaultCurrency(valueobject.ParseCurrency(cfg.Commerce.DefaultCurrency)),
	)

	serviceOpts := []appintegration.ProductsServiceOption{
		appintegration.WithProductLocker(productLocker),
		appintegration.WithLogger(log),
	}
	if syncMetrics != nil {
		serviceOpts = append(serviceOpts, appintegration.WithSyncMetrics(syncMetrics))
	}
	productsService := appintegration.NewProductsService(
		commerceCtx,
		catalogClient,
		mappingService,
		productsCache,
		adapter,
		associationService,
		serviceOpts...,
	)

	checker := appintegration.NewDeletedProductChecker(
		productsService,
		appintegration.NewStaleMappingHandler(mappingService, productsCache, log),
		appintegration.NewLogErrorReporter(log),
	)

	sweeper := scheduler.NewDeletedProductSweeper(scheduler.SweeperConfig{
		Interval:  cfg.Sweep.Interval,
		BatchSize: cfg.Sweep.BatchSize,
	}, productMapRepo, checker, log)
	if cfg.Sweep.Enabled {
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start deleted product sweeper", zap.Error(err))
		}
	}

	// HTTP
	ginMode := gin.DebugMode
	if cfg.App.Env == "production" {
		ginMode = gin.ReleaseMode
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Mode:           ginMode,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			StoreID:     cfg.Commerce.StoreID,
			Enabled:     cfg.Telemetry.Enabled,
		},
		ChannelID: cfg.Commerce.ChannelID,
		Meter:     meter,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, handler.HealthCheck{
		Name:  "database",
		Check: db.Ping,
	})
	catalogHandler := handler.NewCatalogHandler(productsService, checker, associationService, productRepo)

	router.NewRouter(engine).
		RegisterRoot(systemHandler).
		Register(catalogHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping deleted product sweeper", zap.Error(err))
	}
	if err := cacheFactory.Close(); err != nil {
		log.Error("Error closing Redis client", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
