package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	eventapp "github.com/warehub/backend/internal/application/event"
	"github.com/warehub/backend/internal/application/label"
	locationapp "github.com/warehub/backend/internal/application/location"
	movementapp "github.com/warehub/backend/internal/application/movement"
	reportapp "github.com/warehub/backend/internal/application/report"
	restockapp "github.com/warehub/backend/internal/application/restock"
	stockapp "github.com/warehub/backend/internal/application/stock"
	tenantapp "github.com/warehub/backend/internal/application/tenant"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/auth"
	"github.com/warehub/backend/internal/infrastructure/cache"
	"github.com/warehub/backend/internal/infrastructure/config"
	"github.com/warehub/backend/internal/infrastructure/event"
	"github.com/warehub/backend/internal/infrastructure/integration/d365"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"github.com/warehub/backend/internal/infrastructure/migration"
	"github.com/warehub/backend/internal/infrastructure/persistence"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"github.com/warehub/backend/internal/infrastructure/printing"
	"github.com/warehub/backend/internal/infrastructure/scheduler"
	"github.com/warehub/backend/internal/infrastructure/storage"
	"github.com/warehub/backend/internal/infrastructure/telemetry"
	"github.com/warehub/backend/internal/interfaces/http/handler"
	"github.com/warehub/backend/internal/interfaces/http/middleware"
	"github.com/warehub/backend/internal/interfaces/http/router"

	_ "github.com/warehub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const locationCacheTTL = 5 * time.Minute

//	@title			Warehouse Management API
//	@version		1.0
//	@description	Multi-tenant warehouse management backend: locations, expiration-classified stock, movements, and automatic restocking.

//	@contact.name	API Support
//	@contact.url	https://github.com/warehub/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Telemetry providers. All of them degrade to no-ops when disabled, so
	// the wiring below is unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownWithTimeout("tracer provider", tracerProvider.Shutdown, log)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout("meter provider", meterProvider.Shutdown, log)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownWithTimeout("logger provider", loggerProvider.Shutdown, log)

	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Profiler.ApplicationName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	log.Info("Starting warehouse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database observability plugins
	if cfg.Telemetry.DBTraceEnabled {
		tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := tracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	} else if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	// Tenant registry and schema routing. Every tenant-scoped unit of work
	// runs through the router, which pins search_path to the tenant's schema
	// and lazily provisions schemas that onboarding failed to create.
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatal("Failed to get sql.DB for provisioning", zap.Error(err))
	}
	tenantMigrations, err := filepath.Abs(cfg.Migrations.TenantPath)
	if err != nil {
		log.Fatal("Failed to resolve tenant migrations path", zap.Error(err))
	}
	provisioner := migration.NewSchemaProvisioner(sqlDB, cfg.Database.DSN(), tenantMigrations, log)

	tenantRouter := tenantdb.NewRouter(db.DB,
		tenantdb.WithRegistry(tenantRepo),
		tenantdb.WithProvisioner(provisioner),
	)

	// Tenant-scoped repositories (reads route through the schema router)
	var locationRepo location.LocationRepository = persistence.NewGormLocationRepository(tenantRouter)
	stockItemRepo := persistence.NewGormStockItemRepository(tenantRouter)
	consignmentRepo := persistence.NewGormConsignmentRepository(tenantRouter)
	allocationRepo := persistence.NewGormStockAllocationRepository(tenantRouter)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(tenantRouter)
	thresholdRepo := persistence.NewGormStockThresholdRepository(tenantRouter)
	movementRepo := persistence.NewGormStockMovementRepository(tenantRouter)
	restockRepo := persistence.NewGormRestockRequestRepository(tenantRouter)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Redis backs the location read cache and idempotent event handling.
	// When it is unreachable both degrade gracefully.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	redisAvailable := redisClient.Ping(pingCtx).Err() == nil
	cancelPing()
	if redisAvailable {
		locationRepo = cache.NewCachedLocationRepository(locationRepo, redisClient, locationCacheTTL, log)
		log.Info("Location cache enabled", zap.Duration("ttl", locationCacheTTL))
	} else {
		log.Warn("Redis unavailable, running without location cache")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Event infrastructure: serializer, transactional outbox, in-process bus
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	eventBus := event.NewInMemoryEventBus(log)

	txScope := persistence.NewGormTransactionScope(tenantRouter, outboxPublisher, eventBus)

	// External restock ordering gateway
	var erpGateway restock.ERPGateway
	if cfg.D365.Enabled {
		gateway, err := d365.NewGateway(cfg.D365, d365.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create D365 gateway", zap.Error(err))
		}
		erpGateway = gateway
		log.Info("D365 restock gateway enabled", zap.String("base_url", cfg.D365.BaseURL))
	} else {
		erpGateway = d365.NewStubGateway()
		log.Info("D365 disabled, restock requests are queued locally")
	}

	// Product catalog for read-side enrichment
	var productCatalog stock.ProductCatalog
	if cfg.D365.Enabled {
		catalog, err := d365.NewCatalog(cfg.D365, d365.WithCatalogLogger(log))
		if err != nil {
			log.Fatal("Failed to create D365 product catalog", zap.Error(err))
		}
		productCatalog = catalog
	} else {
		productCatalog = d365.NewStubCatalog()
		log.Info("D365 disabled, stock responses carry no product metadata")
	}

	// Report archive
	var archive reportapp.ReportArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ReportArchive(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to create report archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure report bucket", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		archive = storage.NewMemoryReportArchive()
		log.Warn("Object storage disabled, archived reports are kept in memory")
	}

	// Label rendering
	var renderer printing.PDFRenderer
	if cfg.Labels.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Labels.RenderTimeout,
			Headless:       true,
			DisableGPU:     true,
			NoSandbox:      true,
		})
		if err != nil {
			log.Fatal("Failed to create label renderer", zap.Error(err))
		}
		renderer = chromeRenderer
	} else {
		renderer = printing.NewStubRenderer()
		log.Info("Label rendering disabled, using stub renderer")
	}

	// Application services
	locationService := locationapp.NewLocationService(locationRepo, txScope)
	stockService := stockapp.NewStockService(stockItemRepo, consignmentRepo, allocationRepo, adjustmentRepo, thresholdRepo, productCatalog, txScope)
	movementService := movementapp.NewMovementService(movementRepo, txScope)
	restockService := restockapp.NewRestockService(restockRepo, erpGateway, txScope)
	reportService := reportapp.NewExpiringStockReportService(stockItemRepo, archive)
	sweepService := reportapp.NewSweepService(txScope)
	labelService := label.NewService(locationRepo, printing.NewTemplateEngine(), renderer)
	tenantService := tenantapp.NewTenantService(tenantRepo, provisioner, eventBus)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Business metrics, fed from the event stream plus periodic gauges
	warehouseMetrics, err := telemetry.NewWarehouseMetrics(telemetry.WarehouseMetricsConfig{
		Meter:          meterProvider.Meter("wms-backend"),
		Logger:         log,
		StockProvider:  telemetry.NewGormStockMetricsProvider(tenantRouter),
		OutboxProvider: telemetry.NewGormOutboxMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create warehouse metrics", zap.Error(err))
	}
	warehouseMetrics.StartPeriodicCollection(ctx, telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
	defer warehouseMetrics.Stop()

	// Event handlers. Threshold monitoring and restock generation are
	// idempotent: the outbox redelivers on crash, so duplicates must not
	// open duplicate restock requests.
	thresholdMonitor := stockapp.NewThresholdMonitor(txScope, log)
	generationHandler := restockapp.NewGenerationHandler(txScope, log)
	eventBus.Subscribe(event.NewIdempotentHandler(thresholdMonitor, idempotencyStore, log))
	eventBus.Subscribe(event.NewIdempotentHandler(generationHandler, idempotencyStore, log))
	eventBus.Subscribe(telemetry.NewMetricsEventHandler(warehouseMetrics))
	log.Info("Event handlers registered",
		zap.Strings("threshold_monitor_events", thresholdMonitor.EventTypes()),
		zap.Strings("restock_generation_events", generationHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor for guaranteed event delivery
	if cfg.Outbox.ProcessorEnabled {
		processorConfig := event.OutboxProcessorConfig{
			BatchSize:        cfg.Outbox.BatchSize,
			PollInterval:     cfg.Outbox.PollInterval,
			CleanupEnabled:   cfg.Outbox.CleanupEnabled,
			CleanupRetention: cfg.Outbox.CleanupRetention,
			CleanupInterval:  time.Hour,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Daily maintenance: expiration sweep then expiring stock report, fanned
	// out per active tenant by the cron trigger.
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMaintenanceExecutor(sweepService, reportService, log)
		maintenanceScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, log)
		if err := maintenanceScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()

		triggerConfig := scheduler.DefaultCronTriggerConfig()
		var minute, hour int
		if _, err := fmt.Sscanf(cfg.Scheduler.DailyCronSchedule, "%d %d", &minute, &hour); err == nil {
			triggerConfig.MaintenanceMinute = minute
			triggerConfig.MaintenanceHour = hour
		} else {
			log.Warn("Unparsable daily cron schedule, using default",
				zap.String("schedule", cfg.Scheduler.DailyCronSchedule))
		}
		cronTrigger := scheduler.NewCronTrigger(triggerConfig, maintenanceScheduler,
			scheduler.NewRegistryTenantProvider(tenantRepo), log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.Int("hour", triggerConfig.MaintenanceHour),
			zap.Int("minute", triggerConfig.MaintenanceMinute),
		)
	}

	// HTTP handlers
	locationHandler := handler.NewLocationHandler(locationService)
	stockHandler := handler.NewStockHandler(stockService)
	movementHandler := handler.NewMovementHandler(movementService)
	restockHandler := handler.NewRestockHandler(restockService)
	reportHandler := handler.NewReportHandler(reportService, sweepService)
	labelHandler := handler.NewLabelHandler(labelService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
	}
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("wms-backend"), true))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Authentication and tenant identification. Tokens are issued by the
	// identity provider; this service only verifies them. The tenant
	// middleware builds the security context every tenant-scoped operation
	// requires, so the platform admin surfaces are skipped explicitly.
	verifier := auth.NewTokenVerifier(cfg.JWT)
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Verifier: verifier,
		SkipPaths: []string{
			"/health",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{"/swagger"},
		Required:         true,
		Logger:           log,
	}))
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = []string{
		"/health",
		"/api/v1/ping",
		"/api/v1/system",
		"/api/v1/tenants",
		"/swagger",
	}
	tenantConfig.Logger = log
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.OptionalJWTAuthMiddleware(verifier)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Warehouse topology
	locationRoutes := router.NewDomainGroup("locations", "/locations")
	locationRoutes.POST("", locationHandler.Create)
	locationRoutes.GET("", locationHandler.List)
	locationRoutes.GET("/available", locationHandler.GetAvailable)
	locationRoutes.GET("/hierarchy", locationHandler.GetHierarchy)
	locationRoutes.GET("/barcode/:barcode", locationHandler.GetByBarcode)
	locationRoutes.POST("/assign-fefo", locationHandler.AssignFEFO)
	locationRoutes.POST("/labels", labelHandler.RenderLocationLabels)
	locationRoutes.GET("/:id", locationHandler.Get)
	locationRoutes.GET("/:id/children", locationHandler.GetChildren)
	locationRoutes.PUT("/:id/status", locationHandler.UpdateStatus)
	locationRoutes.POST("/:id/block", locationHandler.Block)
	locationRoutes.POST("/:id/unblock", locationHandler.Unblock)
	locationRoutes.POST("/:id/reserve", locationHandler.Reserve)
	locationRoutes.POST("/:id/release", locationHandler.Release)

	// Consignment intake
	consignmentRoutes := router.NewDomainGroup("consignments", "/consignments")
	consignmentRoutes.POST("", stockHandler.CreateConsignment)
	consignmentRoutes.GET("", stockHandler.ListConsignments)
	consignmentRoutes.POST("/:id/close", stockHandler.CloseConsignment)

	// Stock items and their lifecycle
	stockItemRoutes := router.NewDomainGroup("stock-items", "/stock-items")
	stockItemRoutes.GET("", stockHandler.ListStockItems)
	stockItemRoutes.GET("/:id", stockHandler.GetStockItem)
	stockItemRoutes.PUT("/:id/expiration", stockHandler.UpdateExpiration)
	stockItemRoutes.POST("/:id/adjust", stockHandler.AdjustQuantity)
	stockItemRoutes.GET("/:id/adjustments", stockHandler.ListAdjustments)
	stockItemRoutes.POST("/:id/allocate", stockHandler.Allocate)

	allocationRoutes := router.NewDomainGroup("allocations", "/allocations")
	allocationRoutes.POST("/:id/release", stockHandler.ReleaseAllocation)

	thresholdRoutes := router.NewDomainGroup("thresholds", "/thresholds")
	thresholdRoutes.PUT("", stockHandler.SetThreshold)

	// Aggregated stock views
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("/levels", stockHandler.GetStockLevels)
	stockRoutes.GET("/fefo", stockHandler.GetFEFOStock)
	stockRoutes.GET("/expiring", stockHandler.GetExpiringStock)
	stockRoutes.GET("/classification/:classification", stockHandler.GetByClassification)
	stockRoutes.GET("/expiration-check", stockHandler.CheckExpiration)

	// Stock movements
	movementRoutes := router.NewDomainGroup("movements", "/movements")
	movementRoutes.POST("", movementHandler.Initiate)
	movementRoutes.GET("", movementHandler.List)
	movementRoutes.GET("/pending", movementHandler.ListPending)
	movementRoutes.GET("/:id", movementHandler.Get)
	movementRoutes.POST("/:id/complete", movementHandler.Complete)
	movementRoutes.POST("/:id/cancel", movementHandler.Cancel)

	// Restock requests
	restockRoutes := router.NewDomainGroup("restock", "/restock-requests")
	restockRoutes.GET("", restockHandler.List)
	restockRoutes.GET("/pending", restockHandler.ListPending)
	restockRoutes.POST("/fulfill", restockHandler.Fulfill)
	restockRoutes.GET("/:id", restockHandler.Get)
	restockRoutes.POST("/:id/send", restockHandler.Send)
	restockRoutes.POST("/:id/cancel", restockHandler.Cancel)

	// Reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.POST("/expiring-stock", reportHandler.GenerateExpiringStock)
	reportRoutes.GET("/expiring-stock/download", reportHandler.DownloadExpiringStock)
	reportRoutes.POST("/expiration-sweep", reportHandler.RunSweep)

	// Tenant administration, platform operators only
	tenantRoutes := router.NewDomainGroup("tenants", "/tenants")
	tenantRoutes.Use(middleware.RequireRole("platform_admin"))
	tenantRoutes.POST("", tenantHandler.Create)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/slug/:slug", tenantHandler.GetBySlug)
	tenantRoutes.GET("/:id", tenantHandler.Get)
	tenantRoutes.PUT("/:id/name", tenantHandler.Rename)
	tenantRoutes.PUT("/:id/status", tenantHandler.UpdateStatus)
	tenantRoutes.POST("/:id/provision", tenantHandler.Provision)

	// System surface: liveness plus outbox administration
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	outboxRoutes := systemRoutes.Group("outbox", "/outbox")
	outboxRoutes.Use(middleware.RequireRole("platform_admin"))
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)

	r.Register(locationRoutes).
		Register(consignmentRoutes).
		Register(stockItemRoutes).
		Register(allocationRoutes).
		Register(thresholdRoutes).
		Register(stockRoutes).
		Register(movementRoutes).
		Register(restockRoutes).
		Register(reportRoutes).
		Register(tenantRoutes).
		Register(systemRoutes)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdownWithTimeout runs a provider shutdown with a bounded deadline so a
// hung collector cannot stall process exit.
func shutdownWithTimeout(name string, shutdown func(context.Context) error, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
