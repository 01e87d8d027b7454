package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcatalog "github.com/erp/requisition/internal/application/catalog"
	appidentity "github.com/erp/requisition/internal/application/identity"
	appinsight "github.com/erp/requisition/internal/application/insight"
	apprequisition "github.com/erp/requisition/internal/application/requisition"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/infrastructure/auth"
	"github.com/erp/requisition/internal/infrastructure/cache"
	"github.com/erp/requisition/internal/infrastructure/config"
	"github.com/erp/requisition/internal/infrastructure/erpclient"
	"github.com/erp/requisition/internal/infrastructure/event"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/infrastructure/migration"
	"github.com/erp/requisition/internal/infrastructure/persistence"
	"github.com/erp/requisition/internal/infrastructure/telemetry"
	"github.com/erp/requisition/internal/interfaces/http/handler"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/erp/requisition/internal/interfaces/http/router"
	"github.com/erp/requisition/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap logger until the OTLP log bridge is up
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog := logger.New(logCfg)

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    30 * time.Second,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log := bootLog
	if loggerProvider.IsEnabled() {
		log = logger.New(logCfg, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting requisition gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Database.Driver),
	)

	// Metrics
	httpMetrics := telemetry.NewHTTPMetrics()
	requisitionMetrics, err := telemetry.NewRequisitionMetrics(meterProvider.Meter("requisition"))
	if err != nil {
		log.Fatal("Failed to create requisition metrics", zap.Error(err))
	}

	// Upstream ERP
	erp := erpclient.New(cfg.Upstream, log.Named("erp"), erpclient.WithObserver(httpMetrics))

	// Redis: submission guard and session revocations, in-memory when unavailable
	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	redisClient, redisErr := cacheFactory.Connect(ctx)
	guard, err := cacheFactory.CreateGuard(redisClient, redisErr)
	if err != nil {
		log.Fatal("Failed to create submission guard", zap.Error(err))
	}
	var revocations auth.SessionRevocationList
	if redisClient != nil {
		revocations = auth.NewRedisSessionRevocationList(redisClient)
		defer func() { _ = redisClient.Close() }()
	} else {
		revocations = auth.NewInMemorySessionRevocationList()
	}

	// Draft store
	drafts, db := openDraftStore(cfg, log)
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
	}

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	auditHandler := event.NewRequestAuditHandler(log)
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	catalogService := appcatalog.NewCatalogService(erp, cfg.Catalog.IndexTTL, log)
	catalogService.SetMetrics(requisitionMetrics)

	draftService := apprequisition.NewDraftService(drafts, erp, catalogService, log)
	orchestrator := apprequisition.NewSubmissionOrchestrator(drafts, erp, catalogService, guard, log)
	orchestrator.SetEventPublisher(eventBus)
	orchestrator.SetMetrics(requisitionMetrics)
	if cfg.Submission.GuardTTL > 0 {
		orchestrator.SetGuardTTL(cfg.Submission.GuardTTL)
	}
	queryService := apprequisition.NewRequestQueryService(erp, erp, log)
	insightService := appinsight.NewInsightService(erp, log)

	tokens := auth.NewSessionTokenService(cfg.JWT)
	loginService := appidentity.NewLoginService(erp, tokens, revocations, drafts, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(httpMetrics),
		middleware.CORSWithConfig(middleware.DefaultCORSConfig()),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	healthHandler := handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, pinger)
	engine.GET("/health", healthHandler.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
	}

	sessionChain := []gin.HandlerFunc{
		middleware.SessionAuth(middleware.SessionAuthConfig{
			Tokens:      tokens,
			Revocations: revocations,
			Logger:      log,
		}),
		middleware.SessionSpanAttributes(),
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		sessionChain = append(sessionChain, limiter.Middleware())
	}

	r := router.NewRouter(engine)
	for _, group := range router.APIGroups(router.Handlers{
		Auth:    handler.NewAuthHandler(loginService),
		Draft:   handler.NewDraftHandler(draftService, orchestrator),
		Scanner: handler.NewScannerHandler(),
		Request: handler.NewRequestHandler(queryService, orchestrator),
		Catalog: handler.NewCatalogHandler(catalogService),
		Insight: handler.NewInsightHandler(insightService),
	}, sessionChain...) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if limiter != nil {
		g.Go(func() error {
			limiter.RunSweeper(gctx, cfg.HTTP.RateLimitWindow)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		if err := eventBus.Stop(shutdownCtx); err != nil {
			log.Warn("Event bus stop failed", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Logger provider shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

// openDraftStore returns the configured draft repository. The memory driver
// yields no database handle.
func openDraftStore(cfg *config.Config, log *zap.Logger) (requisition.DraftRepository, *persistence.Database) {
	if cfg.Database.Driver == "memory" {
		log.Warn("Using in-memory draft store; drafts are lost on restart")
		return persistence.NewInMemoryDraftRepository(), nil
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Database.AutoMigrate {
		m, err := migration.NewFromFS(migrations.FS, cfg.Database.Driver, cfg.Database.MigrationURL(), log)
		if err != nil {
			log.Fatal("Failed to open migrations", zap.Error(err))
		}
		err = m.Up()
		_ = m.Close()
		if err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Database.Tracing,
		DBName:     cfg.Database.DBName,
		LogFullSQL: cfg.App.Env == "development",
	}, log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}

	return persistence.NewGormDraftRepository(db.DB), db
}
