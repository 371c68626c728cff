package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	advanceapp "github.com/essencia/backend/internal/application/advance"
	intakeapp "github.com/essencia/backend/internal/application/intake"
	"github.com/essencia/backend/internal/domain/shared"
	"github.com/essencia/backend/internal/infrastructure/cache"
	"github.com/essencia/backend/internal/infrastructure/config"
	"github.com/essencia/backend/internal/infrastructure/event"
	applogger "github.com/essencia/backend/internal/infrastructure/logger"
	"github.com/essencia/backend/internal/infrastructure/persistence"
	"github.com/essencia/backend/internal/interfaces/http/handler"
	"github.com/essencia/backend/internal/interfaces/http/middleware"
	"github.com/essencia/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = applogger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := applogger.NewGormLogger(log, applogger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	docRepo := persistence.NewGormReceptionDocumentRepository(db.DB)
	creditRepo := persistence.NewGormCreditRepository(db.DB)
	settlementUoW := persistence.NewGormSettlementUnitOfWork(db.DB)

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env != "production"),
		)
		idempotencyStore, err = factory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	idemCfg := shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	}

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	receptionService := intakeapp.NewReceptionService(docRepo, eventBus)
	creditService := advanceapp.NewCreditService(creditRepo, eventBus)
	settlementService := advanceapp.NewSettlementService(
		docRepo, creditRepo, settlementUoW, idempotencyStore, idemCfg, eventBus)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		applogger.GinMiddleware(log),
		applogger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
	)

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewReceptionHandler(receptionService))
	r.Register(handler.NewCreditHandler(creditService))
	r.Register(handler.NewSettlementHandler(settlementService))
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	if closer, ok := idempotencyStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}

	log.Info("Server stopped")
}
