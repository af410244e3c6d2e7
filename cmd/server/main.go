package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inspectionapp "github.com/lettings/backend/internal/application/inspection"
	maintenanceapp "github.com/lettings/backend/internal/application/maintenance"
	paymentapp "github.com/lettings/backend/internal/application/payment"
	portfolioapp "github.com/lettings/backend/internal/application/portfolio"
	reportapp "github.com/lettings/backend/internal/application/report"
	tenancyapp "github.com/lettings/backend/internal/application/tenancy"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/lettings/backend/internal/infrastructure/cache"
	"github.com/lettings/backend/internal/infrastructure/config"
	"github.com/lettings/backend/internal/infrastructure/event"
	"github.com/lettings/backend/internal/infrastructure/logger"
	"github.com/lettings/backend/internal/infrastructure/persistence"
	"github.com/lettings/backend/internal/infrastructure/scheduler"
	"github.com/lettings/backend/internal/interfaces/http/handler"
	"github.com/lettings/backend/internal/interfaces/http/middleware"
	"github.com/lettings/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	landlordRepo := persistence.NewGormLandlordRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	tenancyRepo := persistence.NewGormTenancyRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	requestRepo := persistence.NewGormRequestRepository(db.DB)
	inspectionRepo := persistence.NewGormInspectionRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	claims, closeClaims := newClaimStore(cfg, log)
	defer closeClaims()

	ctx := context.Background()

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}
	defer func() {
		if err := bus.Stop(ctx); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	portfolioService := portfolioapp.NewPortfolioService(landlordRepo, propertyRepo, bus, log)
	tenancyService := tenancyapp.NewTenancyService(tenancyRepo, propertyRepo, txScope, bus, log)
	paymentService := paymentapp.NewPaymentService(paymentRepo, tenancyRepo, bus, log,
		paymentapp.WithLateFeePolicy(payment.NewFlatLateFeePolicy(
			valueobject.NewMoneyGBPFromFloat(cfg.LateFee.Amount),
			cfg.LateFee.GraceDays,
		)),
	)
	maintenanceService := maintenanceapp.NewMaintenanceService(requestRepo, propertyRepo, bus, log)
	inspectionService := inspectionapp.NewInspectionService(inspectionRepo, propertyRepo, bus, log)
	reportService := reportapp.NewReportService(
		reportRepo, paymentRepo, requestRepo, landlordRepo, claims, bus, log,
		reportapp.WithClaimTTL(cfg.Report.ClaimTTL),
	)

	// Completed inspections with action-required issues raise maintenance
	// requests through the bus.
	bus.Subscribe(inspectionapp.NewFollowUpHandler(requestRepo, log))

	var sweeper *scheduler.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewSweeper(tenancyService, paymentService, reportService, scheduler.SweeperConfig{
			Interval:           cfg.Scheduler.SweepInterval,
			SweepTimeout:       cfg.Scheduler.SweepTimeout,
			ReportStuckTimeout: cfg.Report.StuckTimeout,
		}, log)
		sweeper.Start()
		defer sweeper.Stop()
	}

	engine := buildEngine(cfg, log)
	router.NewRouter(engine).
		Register(handler.NewLandlordHandler(portfolioService)).
		Register(handler.NewPropertyHandler(portfolioService, tenancyService, maintenanceService, inspectionService)).
		Register(handler.NewTenancyHandler(tenancyService, paymentService)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewMaintenanceHandler(maintenanceService)).
		Register(handler.NewInspectionHandler(inspectionService)).
		Register(handler.NewReportHandler(reportService)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newClaimStore prefers Redis so report generation claims hold across
// instances, falling back to the in-process store when Redis is unreachable
func newClaimStore(cfg *config.Config, log *zap.Logger) (reportapp.ClaimStore, func()) {
	store, err := cache.NewRedisClaimStore(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory claim store", zap.Error(err))
		mem := cache.NewInMemoryClaimStore()
		return mem, func() {
			if err := mem.Close(); err != nil {
				log.Error("failed to close claim store", zap.Error(err))
			}
		}
	}
	log.Info("using redis claim store", zap.String("addr", cfg.Redis.Addr()))
	return store, func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close redis claim store", zap.Error(err))
		}
	}
}

func buildEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.ActorID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
	)
	return engine
}
