package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewhub/core/cache"
	"interviewhub/core/config"
	"interviewhub/core/constants"
	"interviewhub/core/database"
	"interviewhub/core/logger"
	"interviewhub/core/tasks"
	"interviewhub/modules/auth"
	"interviewhub/modules/availability"
	"interviewhub/modules/interview"
	"interviewhub/modules/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

// Run boots the whole service: config, database, redis, the HTTP surface,
// the asynq notification worker and the cron scheduler. It blocks until a
// shutdown signal arrives.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}

	taskClient := tasks.NewClient(cfg.Redis)
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Module wiring. The interview repository is built first so the
	// notification dispatcher can use it as its stale-pending source.
	_, authRepo, mw := auth.Init(e, db, redisCache)
	interviewRepo := interview.NewRepository(db)
	availabilityRepo := availability.Init(e, db, mw)
	_, dispatcher := notification.Init(e, db, mw, redisCache, taskClient, authRepo, interviewRepo)
	interview.Init(e, interviewRepo, mw, dispatcher, availabilityRepo, authRepo)

	// Notification worker
	workerSrv, mux := tasks.NewServer(cfg.Redis, cfg.Notification.WorkerConcurrency)
	dispatcher.RegisterHandlers(mux)
	tasks.RunWorker(workerSrv, mux)

	// Daily digest of requests stuck in PENDING
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(constants.PendingDigestCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRequestTimeout)
		defer cancel()
		if err := dispatcher.DispatchPendingDigest(ctx); err != nil {
			logger.Error("Server:PendingDigest", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule pending digest: %w", err)
	}
	scheduler.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	scheduler.Stop()
	workerSrv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
