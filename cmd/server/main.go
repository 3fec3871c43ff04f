package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	identityapp "github.com/docvault/backend/internal/application/identity"
	"github.com/docvault/backend/internal/application/onboarding"
	portalapp "github.com/docvault/backend/internal/application/portal"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/infrastructure/auth"
	"github.com/docvault/backend/internal/infrastructure/cache"
	"github.com/docvault/backend/internal/infrastructure/config"
	"github.com/docvault/backend/internal/infrastructure/identitygw"
	"github.com/docvault/backend/internal/infrastructure/logger"
	"github.com/docvault/backend/internal/infrastructure/persistence"
	"github.com/docvault/backend/internal/infrastructure/persistence/tenant"
	"github.com/docvault/backend/internal/infrastructure/telemetry"
	"github.com/docvault/backend/internal/interfaces/http/handler"
	"github.com/docvault/backend/internal/interfaces/http/middleware"
	"github.com/docvault/backend/internal/interfaces/http/router"
)

//	@title			DocVault Backend API
//	@version		1.0
//	@description	Multi-tenant document management backend: tenant onboarding and the tenant-isolated client portal.

//	@contact.name	API Support
//	@contact.url	https://github.com/docvault/backend

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

	log.Info("Starting DocVault Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize telemetry (no-op providers when disabled)
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
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Force a tenant_id filter on every query against tenant-scoped tables
	tenant.EnableAutoTenantFilter(db.DB)

	// Trace database calls when telemetry is on
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.DB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Business metrics with periodic tenant population collection
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          meterProvider.Meter("docvault.business"),
		Logger:         log,
		TenantProvider: persistence.NewGormTenantMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
	defer businessMetrics.Stop()

	// Token blacklist: redis in normal operation, in-memory when redis is down
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}

	// Idempotency store for registration retries
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Identity provider: hosted auth service over HTTP, or the in-process
	// bcrypt provider for development
	var provider identity.IdentityProvider
	switch cfg.Identity.Mode {
	case "http":
		provider = identitygw.NewHTTPProvider(cfg.Identity, log)
		log.Info("Using HTTP identity provider", zap.String("base_url", cfg.Identity.BaseURL))
	default:
		provider = identitygw.NewLocalProvider()
		log.Info("Using local identity provider")
	}

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	profileRepo := persistence.NewGormUserProfileRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	clientRecordRepo := persistence.NewGormClientRecordRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	auditRecorder := persistence.NewGormAuditRecorder(db.DB)

	// Initialize application services
	saga := onboarding.NewSaga(onboarding.SagaConfig{
		Validator:        onboarding.NewUniquenessValidator(companyRepo, profileRepo),
		Provider:         provider,
		TenantRepo:       tenantRepo,
		ProfileRepo:      profileRepo,
		CompanyRepo:      companyRepo,
		CredentialRepo:   credentialRepo,
		ClientRecordRepo: clientRecordRepo,
		SubscriptionRepo: subscriptionRepo,
		ReceiptRepo:      receiptRepo,
		AuditLog:         auditRecorder,
		Idempotency:      idempotencyStore,
		StepTimeout:      cfg.Onboarding.StepTimeout,
		Logger:           log,
	})
	saga.SetBusinessMetrics(businessMetrics)

	jwtService := auth.NewJWTService(cfg.JWT)
	sessionService := identityapp.NewSessionService(
		provider, profileRepo, tenantRepo, clientRecordRepo, jwtService, blacklist, log,
	)

	clientDataService := portalapp.NewClientDataService(
		companyRepo, projectRepo, documentRepo, clientRecordRepo, log,
	)
	clientDataService.SetBusinessMetrics(businessMetrics)
	accessGuard := portalapp.NewAccessGuard(projectRepo, auditRecorder, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(saga, sessionService, cfg.Cookie)
	portalHandler := handler.NewPortalHandler(clientDataService, accessGuard)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - otel server spans (when enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	publicPaths := []string{
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/api/v1/ping",
		"/api/v1/system/ping",
		"/api/v1/system/info",
	}

	// Session tokens are the only source of caller identity; every protected
	// route goes through JWT validation and tenant resolution in that order
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      publicPaths,
		Logger:         log,
	}))
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantConfig{
		Validator: &tenantStatusValidator{tenants: tenantRepo},
		SkipPaths: publicPaths,
		Logger:    log,
	}))

	// Registration provisions real tenant resources; throttle it separately
	// per client address
	var registrationLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		registrationLimit = middleware.RegistrationRateLimit(authLimiter)
	}

	r.Register(router.AuthRoutes(authHandler, registrationLimit)).
		Register(router.PortalRoutes(portalHandler)).
		Register(router.SystemRoutes(systemHandler))
	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// tenantStatusValidator checks the caller's tenant against the tenants table
// so suspended tenants are cut off at the middleware layer
type tenantStatusValidator struct {
	tenants identity.TenantRepository
}

func (v *tenantStatusValidator) ValidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	t, err := v.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if err == shared.ErrNotFound {
			return middleware.ErrTenantNotFound
		}
		return err
	}
	if t.Status == identity.TenantStatusSuspended {
		return middleware.ErrTenantSuspended
	}
	return nil
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
