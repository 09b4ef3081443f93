package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/erp-obras/backend/internal/application/activity"
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	identityapp "github.com/erp-obras/backend/internal/application/identity"
	partnerapp "github.com/erp-obras/backend/internal/application/partner"
	procurementapp "github.com/erp-obras/backend/internal/application/procurement"
	projectapp "github.com/erp-obras/backend/internal/application/project"
	reportapp "github.com/erp-obras/backend/internal/application/report"
	"github.com/erp-obras/backend/internal/application/workflow"
	"github.com/erp-obras/backend/internal/infrastructure/auth"
	"github.com/erp-obras/backend/internal/infrastructure/cache"
	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/erp-obras/backend/internal/infrastructure/event"
	"github.com/erp-obras/backend/internal/infrastructure/excel"
	"github.com/erp-obras/backend/internal/infrastructure/logger"
	"github.com/erp-obras/backend/internal/infrastructure/migration"
	"github.com/erp-obras/backend/internal/infrastructure/persistence"
	"github.com/erp-obras/backend/internal/infrastructure/printing"
	"github.com/erp-obras/backend/internal/infrastructure/scheduler"
	"github.com/erp-obras/backend/internal/infrastructure/storage"
	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/erp-obras/backend/internal/interfaces/http/handler"
	"github.com/erp-obras/backend/internal/interfaces/http/middleware"
	"github.com/erp-obras/backend/internal/interfaces/http/router"
	"github.com/erp-obras/backend/migrations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/erp-obras/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ERP Obras API
//	@version		1.0
//	@description	Multi-tenant ERP for construction companies: projects, stages, measurements, procurement and project finance.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp-obras/backend

//	@host		localhost:8080
//	@BasePath	/api

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

	// Amounts are JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// OpenTelemetry pipelines. Disabled providers are no-ops.
	otelProviders, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}
	defer shutdown(log, "OpenTelemetry", otelProviders.Shutdown)
	log = otelProviders.BridgeLogger(log)

	if cfg.Profiling.Enabled {
		profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
			ServerAddress:     cfg.Profiling.ServerAddress,
			ApplicationName:   cfg.Telemetry.ServiceName,
			BasicAuthUser:     cfg.Profiling.BasicAuthUser,
			BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		}, log)
		if err != nil {
			log.Fatal("Failed to start profiler", zap.Error(err))
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		otelProviders.LinkSpanProfiles()
	}

	log.Info("Starting ERP Obras backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)

	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.MigrateOnStart && cfg.Database.Driver == "postgres" {
		if err := migrateSchema(db, log); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled {
		if err := telemetry.InstrumentDatabase(db.DB, otelProviders.Meter("erp-obras/database"), telemetry.DatabaseConfig{
			Tracing:            cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
			DBSystem:           cfg.Database.Driver,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log); err != nil {
			log.Warn("Failed to instrument database", zap.Error(err))
		}
	}

	// Initialize repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	registrationStore := persistence.NewGormRegistrationStore(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	stageRepo := persistence.NewGormStageRepository(db.DB)
	measurementRepo := persistence.NewGormMeasurementRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	weeklyReportRepo := persistence.NewGormWeeklyReportRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	purchaseItemRepo := persistence.NewGormPurchaseItemRepository(db.DB)
	entryRepo := persistence.NewGormFinancialEntryRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Revocations, request key claims and rate counters live in Redis when
	// several instances serve the API, in process memory otherwise.
	var (
		revocations auth.RevocationStore
		requestKeys middleware.RequestKeyStore
		rateCounter middleware.RateCounter
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		revocations = auth.NewRedisRevocations(redisClient)
		requestKeys = cache.NewRedisIdempotencyStore(redisClient, "")
		rateCounter = cache.NewRedisRateCounter(redisClient)
	} else {
		revocations = auth.NewMemoryRevocations()
		memoryKeys := cache.NewInMemoryIdempotencyStore()
		defer func() {
			_ = memoryKeys.Close()
		}()
		requestKeys = memoryKeys
		rateCounter = cache.NewMemoryRateCounter()
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(
		companyRepo, userRepo, registrationStore, jwtService, revocations,
		identityapp.DefaultAuthServiceConfig(), log,
	)
	authService.SetNotifier(identityapp.NewLogVerificationNotifier(log))
	userService := identityapp.NewUserService(userRepo, revocations, cfg.JWT.AccessTokenExpiration, log)

	// Project services
	projectService := projectapp.NewProjectService(projectRepo, stageRepo, measurementRepo, entryRepo, log)
	stageService := projectapp.NewStageService(stageRepo, txScope, log)
	measurementService := projectapp.NewMeasurementService(measurementRepo, projectRepo, stageRepo, log)
	commentService := projectapp.NewCommentService(commentRepo, projectRepo, log)
	weeklyReportService := projectapp.NewWeeklyReportService(weeklyReportRepo, projectRepo, log)

	// Partner and procurement services
	clientService := partnerapp.NewClientService(clientRepo, projectRepo, log)
	vendorService := partnerapp.NewVendorService(vendorRepo, quotationRepo, entryRepo, log)
	quotationService := procurementapp.NewQuotationService(quotationRepo, projectRepo, vendorRepo, log)
	purchaseItemService := procurementapp.NewPurchaseItemService(purchaseItemRepo, projectRepo, stageRepo, log)

	// Invoice documents live in S3-compatible storage. Without it the
	// document endpoints answer 503.
	var documentStorage financeapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3Store(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithExpiry(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
		documentStorage = s3Store
		log.Info("Object storage enabled", zap.String("bucket", s3Store.Bucket()))
	}

	// Finance services
	overdueService := financeapp.NewOverdueService(entryRepo, log)
	entryService := financeapp.NewEntryService(entryRepo, invoiceRepo, projectRepo, vendorRepo, overdueService, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, entryRepo, projectRepo, vendorRepo, documentStorage, log)
	rollupService := financeapp.NewRollupService(projectRepo, entryRepo, purchaseItemRepo, measurementRepo, overdueService, log)

	// Management report PDF rendering through headless Chrome
	var managementRenderer reportapp.ManagementRenderer
	if cfg.Printing.Enabled {
		chrome := printing.NewChromeRenderer(printing.ChromeConfig{
			Timeout:   cfg.Printing.Timeout,
			RemoteURL: cfg.Printing.RemoteURL,
			NoSandbox: true,
			Logger:    log,
		})
		defer chrome.Close()
		renderer, err := printing.NewManagementReportRenderer(chrome, log)
		if err != nil {
			log.Fatal("Failed to load management report template", zap.Error(err))
		}
		managementRenderer = renderer
	}

	reportService := reportapp.NewService(
		rollupService, rollupService, stageRepo, managementRenderer, excel.NewPeriodWorkbookWriter(), log,
	)
	activityService := activityapp.NewService(activityRepo, log)
	workflowService := workflow.NewService(txScope, log)

	// Business metrics observe every dispatch and consume the finance events
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  otelProviders.Meter("erp-obras/business"),
		Logger: log,
		Gauges: telemetry.NewGormGaugeSource(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	defer businessMetrics.Stop()

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log, event.WithDispatchObserver(businessMetrics))

	activityRecorder := activityapp.NewRecorder(activityRepo, actingUser, log)
	eventBus.Subscribe(activityRecorder)
	eventBus.Subscribe(businessMetrics)

	if cfg.Kafka.Enabled {
		forwarder, err := event.NewKafkaForwarder(&cfg.Kafka, log)
		if err != nil {
			log.Fatal("Failed to initialize Kafka forwarder", zap.Error(err))
		}
		eventBus.Subscribe(forwarder)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := forwarder.Close(closeCtx); err != nil {
				log.Error("Error closing Kafka forwarder", zap.Error(err))
			}
		}()
		log.Info("Kafka forwarder enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	log.Info("Event handlers registered",
		zap.Strings("activity_recorder_events", activityRecorder.EventTypes()),
		zap.Strings("business_metrics_events", businessMetrics.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	authService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	projectService.SetEventPublisher(eventBus)
	stageService.SetEventPublisher(eventBus)
	measurementService.SetEventPublisher(eventBus)
	commentService.SetEventPublisher(eventBus)
	weeklyReportService.SetEventPublisher(eventBus)
	clientService.SetEventPublisher(eventBus)
	vendorService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	purchaseItemService.SetEventPublisher(eventBus)
	overdueService.SetEventPublisher(eventBus)
	entryService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	workflowService.SetEventPublisher(eventBus)

	// Background jobs
	tenantProvider := scheduler.NewCompanyTenantProvider(companyRepo)
	businessMetrics.StartSampling(ctx, tenantProvider, cfg.Telemetry.MetricsInterval)

	if cfg.Scheduler.Enabled {
		sweeper, err := scheduler.NewOverdueSweeper(scheduler.SweepConfig{
			Interval:      cfg.Scheduler.OverdueSweepInterval,
			TenantTimeout: cfg.Scheduler.JobTimeout,
			RunOnStart:    true,
		}, tenantProvider, overdueService, log)
		if err != nil {
			log.Fatal("Failed to create overdue sweeper", zap.Error(err))
		}
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping overdue sweeper", zap.Error(err))
			}
		}()
		log.Info("Overdue sweeper started",
			zap.Duration("interval", cfg.Scheduler.OverdueSweepInterval),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	stageHandler := handler.NewStageHandler(stageService)
	measurementHandler := handler.NewMeasurementHandler(measurementService, workflowService)
	commentHandler := handler.NewCommentHandler(commentService, authService)
	weeklyReportHandler := handler.NewWeeklyReportHandler(weeklyReportService)
	clientHandler := handler.NewClientHandler(clientService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	quotationHandler := handler.NewQuotationHandler(quotationService, workflowService)
	purchaseItemHandler := handler.NewPurchaseItemHandler(purchaseItemService)
	entryHandler := handler.NewEntryHandler(entryService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	financeHandler := handler.NewFinanceHandler(rollupService, reportService)
	reportHandler := handler.NewReportHandler(reportService)
	activityHandler := handler.NewActivityHandler(activityService)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Request ID first so recovery, access log and spans can all carry it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName)...)
		engine.Use(middleware.HTTPMetrics(otelProviders.Meter("erp-obras/http")))
	}
	engine.Use(middleware.Secure(cfg.HTTP.HSTSMaxAge))

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(rateCounter, "ip", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside the API prefix)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	requireTenant := middleware.RequireTenant(middleware.TenantConfig{
		Validator: middleware.NewCompanyValidator(companyRepo),
		Logger:    log,
	})

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		docsAccess, err := middleware.DocsAccess(middleware.DocsAccessConfig{
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware)
		if err != nil {
			log.Fatal("Invalid swagger configuration", zap.Error(err))
		}
		engine.GET("/swagger/*any", docsAccess, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Auth routes are public except me/logout; the stricter limiter guards
	// credential guessing.
	var authChain []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(rateCounter, "auth", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow).
			WithMessage("Too many authentication attempts. Please try again later.")
		authChain = append(authChain, middleware.RateLimit(authLimiter))
	}
	r.Register(router.NewResource("/auth", authChain...).
		POST("/register", authHandler.Register).
		POST("/login", authHandler.Login).
		POST("/verify-email", authHandler.VerifyEmail).
		POST("/refresh", authHandler.RefreshToken).
		POST("/logout", jwtMiddleware, authHandler.Logout).
		GET("/me", jwtMiddleware, requireTenant, authHandler.Me))

	// Pay and approve routes honor Idempotency-Key
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  requestKeys,
		Logger: log,
	})

	profilingLabels := func(c *gin.Context) { c.Next() }
	if cfg.Profiling.Enabled {
		profilingLabels = middleware.Profiling()
	}

	// One company cannot starve the others when they share an instance
	tenantLimit := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.TenantRateLimit > 0 {
		tenantLimit = middleware.RateLimit(
			middleware.NewRateLimiter(rateCounter, "tenant", cfg.HTTP.TenantRateLimit, cfg.HTTP.RateLimitWindow),
			middleware.TenantKey)
	}

	// Everything else is tenant scoped and permission checked
	protected := []gin.HandlerFunc{
		jwtMiddleware,
		requireTenant,
		tenantLimit,
		profilingLabels,
		middleware.RequireRecordPermission(middleware.PermissionConfig{Logger: log}),
		middleware.RoutePermissionMiddleware(middleware.RoutePermissionConfig{
			Routes: middleware.DefaultRoutePermissions(),
			Logger: log,
		}),
	}

	r.Register(
		router.NewResource("/users", protected...).CRUD(userHandler),
		router.NewResource("/obras", protected...).CRUD(projectHandler),
		router.NewResource("/etapas", protected...).CRUD(stageHandler),
		router.NewResource("/medicoes", protected...).
			CRUD(measurementHandler).
			POST("/:id/aprovar", measurementHandler.Approve).
			POST("/:id/pagar", idempotent, measurementHandler.Pay),
		router.NewResource("/comentarios", protected...).
			CRUD(commentHandler).
			POST("/:id/ocultar", commentHandler.Hide),
		router.NewResource("/relatorios", protected...).CRUD(weeklyReportHandler),
		router.NewResource("/clientes", protected...).CRUD(clientHandler),
		router.NewResource("/fornecedores", protected...).CRUD(vendorHandler),
		router.NewResource("/cotacoes", protected...).
			CRUD(quotationHandler).
			POST("/:id/receber", quotationHandler.Receive).
			POST("/:id/aprovar", idempotent, quotationHandler.Approve).
			POST("/:id/rejeitar", quotationHandler.Reject),
		router.NewResource("/lista-compras", protected...).
			CRUD(purchaseItemHandler).
			POST("/:id/comprado", purchaseItemHandler.MarkPurchased),
		router.NewResource("/lancamentos", protected...).
			CRUD(entryHandler).
			POST("/atualizar-vencidos", entryHandler.MarkOverdue).
			POST("/:id/pagar", idempotent, entryHandler.Pay),
		router.NewResource("/notas-fiscais", protected...).
			CRUD(invoiceHandler).
			POST("/:id/arquivo/upload-url", invoiceHandler.RequestDocumentUpload).
			GET("/:id/arquivo", invoiceHandler.GetDocumentURL),
		router.NewResource("/financeiro", protected...).
			GET("/resumo", financeHandler.Summary).
			GET("/desvio", financeHandler.Deviation).
			GET("/fluxo-caixa", financeHandler.CashFlow).
			GET("/periodo", financeHandler.Period).
			GET("/periodo/export", financeHandler.PeriodExport),
		router.NewResource("/alertas", protected...).GET("", reportHandler.Alerts),
		router.NewResource("/relatorio-gerencial", protected...).
			GET("", reportHandler.ManagementReport).
			GET("/pdf", reportHandler.ManagementReportPDF),
		router.NewResource("/activity-log", protected...).
			POST("", activityHandler.Append).
			GET("", activityHandler.List).
			GET("/:id", activityHandler.GetByID),
	)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// actingUser resolves the user the JWT middleware attached to the request context
func actingUser(ctx context.Context) *uuid.UUID {
	id, err := uuid.Parse(logger.UserID(ctx))
	if err != nil {
		return nil
	}
	return &id
}

// migrateSchema applies the embedded migrations over the server's pool.
// The migrator is not closed because closing it closes the shared *sql.DB.
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// shutdown flushes a telemetry provider with a bounded timeout
func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}

// healthHandler reports 503 while the database is unreachable so load
// balancers stop routing to the instance.
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"time": time.Now().Format(time.RFC3339)}
		if err := db.Ping(c.Request.Context()); err != nil {
			logger.Request(c).Warn("Health check failed", zap.Error(err))
			body["status"], body["database"] = "unhealthy", "error"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"], body["database"] = "healthy", "ok"
		if pool, err := db.Pool(); err == nil {
			body["pool"] = pool
		}
		c.JSON(http.StatusOK, body)
	}
}
