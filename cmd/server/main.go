package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/dispensa/backend/internal/application/catalog"
	dbadminapp "github.com/dispensa/backend/internal/application/dbadmin"
	purchasingapp "github.com/dispensa/backend/internal/application/purchasing"
	tenantapp "github.com/dispensa/backend/internal/application/tenant"
	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/dispensa/backend/internal/infrastructure/cache"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/dispensa/backend/internal/infrastructure/logger"
	"github.com/dispensa/backend/internal/infrastructure/persistence"
	"github.com/dispensa/backend/internal/infrastructure/storage"
	"github.com/dispensa/backend/internal/infrastructure/telemetry"
	"github.com/dispensa/backend/internal/infrastructure/voice"
	"github.com/dispensa/backend/internal/interfaces/http/handler"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/dispensa/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

//	@title			Dispensa Admin API
//	@version		1.0
//	@description	Admin dashboard backend for the multi-tenant cannabis retail platform

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dispensa admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing is optional; without a collector the service runs untraced.
	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Warn("Failed to initialize tracing", zap.Error(err))
	} else if tracer != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracer.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	gormLog := logger.NewGormLogger(log, cfg.Log.Level)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Catalog stats live in redis; fall back to process memory when
	// redis is unreachable so catalog browsing still works.
	var statsCache cache.StatsCache
	redisCache, err := cache.NewRedisStatsCache(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory stats cache", zap.Error(err))
		statsCache = cache.NewInMemoryStatsCache()
	} else {
		statsCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	objectStore, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	tenantUserRepo := persistence.NewGormTenantUserRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	schemaInspector := persistence.NewSchemaInspector(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	catalogService := catalogapp.NewService(productRepo, statsCache, cfg.Catalog, log)
	tenantService := tenantapp.NewService(tenantRepo, tenantUserRepo, objectStore, log)
	orderService := purchasingapp.NewService(orderRepo, log)
	adminService := dbadminapp.NewService(schemaInspector, log)
	voiceClient := voice.NewClient(cfg.Voice, log)

	// HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	orderHandler := handler.NewPurchaseOrderHandler(orderService)
	databaseHandler := handler.NewDatabaseHandler(adminService)
	voiceHandler := handler.NewVoiceHandler(voiceClient)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.MaxMultipartMemory = cfg.HTTP.MaxUploadBytes

	// Health check endpoint (outside API versioning, no auth)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.Auth(jwtService))
	r.Register(catalogHandler).
		Register(tenantHandler).
		Register(orderHandler).
		Register(databaseHandler).
		Register(voiceHandler)
	r.Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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
