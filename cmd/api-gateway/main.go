package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/campustransit/transit-api/api/swagger"
	"github.com/campustransit/transit-api/internal/handler"
	"github.com/campustransit/transit-api/internal/repository"
	"github.com/campustransit/transit-api/internal/router"
	"github.com/campustransit/transit-api/internal/service"
	"github.com/campustransit/transit-api/pkg/cache"
	"github.com/campustransit/transit-api/pkg/config"
	"github.com/campustransit/transit-api/pkg/database"
	"github.com/campustransit/transit-api/pkg/jobs"
	"github.com/campustransit/transit-api/pkg/logger"
)

// @title Campus Transit API
// @version 1.0.0
// @description Campus transport management API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	db, err := database.NewMySQL(cfg.Database)
	if err != nil {
		sugar.Fatalw("database connect failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	busRepo := repository.NewBusRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	donorRepo := repository.NewBloodDonorRepository(db)
	locationRepo := repository.NewBusLocationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	busSvc := service.NewBusService(busRepo, validate, cacheSvc, logr)
	routeSvc := service.NewRouteService(routeRepo, validate, cacheSvc, logr)
	scheduleSvc := service.NewScheduleService(service.ScheduleServiceParams{
		Repo:      scheduleRepo,
		Buses:     busRepo,
		Routes:    routeRepo,
		Validator: validate,
		Cache:     cacheSvc,
		Logger:    logr,
	})
	studentSvc := service.NewStudentService(studentRepo, validate, cacheSvc, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, validate, cacheSvc, logr)
	donorSvc := service.NewBloodDonorService(donorRepo, validate, logr)
	trackingSvc := service.NewBusLocationService(service.BusLocationServiceParams{
		Repo:      locationRepo,
		Buses:     busRepo,
		Validator: validate,
		Metrics:   metricsSvc,
		Logger:    logr,
		Config: service.BusLocationServiceConfig{
			ActiveWindow:     cfg.Tracking.ActiveWindow,
			HistoryRetention: cfg.Tracking.HistoryRetention,
		},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Repo:   dashboardRepo,
		Cache:  cacheSvc,
		Logger: logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:        cfg.Dashboard.CacheTTL,
			QueryTimeout:    cfg.Dashboard.QueryTimeout,
			RecentLimit:     cfg.Dashboard.RecentLimit,
			UpcomingLimit:   cfg.Dashboard.UpcomingLimit,
			MaintenanceDays: cfg.Dashboard.MaintenanceDays,
		},
	})
	exportSvc := service.NewExportService(paymentRepo, validate, logr)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.LoadRoles(startupCtx); err != nil {
		cancelStartup()
		sugar.Fatalw("role directory load failed", "error", err)
	}
	cancelStartup()

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Buses:     handler.NewBusHandler(busSvc),
		Routes:    handler.NewRouteHandler(routeSvc),
		Schedules: handler.NewScheduleHandler(scheduleSvc),
		Students:  handler.NewStudentHandler(studentSvc),
		Payments:  handler.NewPaymentHandler(paymentSvc, exportSvc),
		Donors:    handler.NewBloodDonorHandler(donorSvc),
		Tracking:  handler.NewLocationHandler(trackingSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Public:    handler.NewPublicHandler(scheduleSvc, donorSvc, studentSvc, authSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc, db),
	}

	engine := router.New(cfg, logr, authSvc, metricsSvc, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(jobs.SchedulerConfig{Logger: logr},
			jobs.Task{
				Name:     "token-cleanup",
				Interval: cfg.Jobs.CleanupInterval,
				Run: func(ctx context.Context) error {
					n, err := userRepo.DeactivateExpiredTokens(ctx, time.Now().UTC())
					if err != nil {
						return err
					}
					if n > 0 {
						sugar.Infow("expired tokens deactivated", "count", n)
					}
					return nil
				},
			},
			jobs.Task{
				Name:     "location-prune",
				Interval: cfg.Jobs.CleanupInterval,
				Run: func(ctx context.Context) error {
					n, err := trackingSvc.PruneHistory(ctx)
					if err != nil {
						return err
					}
					if n > 0 {
						sugar.Infow("stale location pings pruned", "count", n)
					}
					return nil
				},
			},
		)
		scheduler.Start(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutdown signal received")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown failed", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			sugar.Warnw("redis close failed", "error", err)
		}
	}
}
