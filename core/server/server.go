package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/legacy-sukawarna/rsvp-app/core/cache"
	"github.com/legacy-sukawarna/rsvp-app/core/config"
	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/core/storage"
	"github.com/legacy-sukawarna/rsvp-app/core/worker"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth"
	"github.com/legacy-sukawarna/rsvp-app/modules/event"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp"
)

const shutdownTimeout = 10 * time.Second

// Run boots every dependency, wires the modules and serves until a
// termination signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(ctx, &db)
	cancel()
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	redisCache, err := cache.InitRedis(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	store, err := storage.InitS3(storage.S3Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("init s3: %w", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	bgWorker := worker.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, store)
	if err := bgWorker.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	e.GET("/swagger/*", echoswagger.WrapHandler)

	mw := middleware.NewMiddleware(redisCache)

	authSvc := auth.Init(e, &db, redisCache, mw)
	rsvpSvc := rsvp.Init(e, &db, authSvc, mw)
	event.Init(e, &db, rsvpSvc, store, asynqClient, mw)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	bgWorker.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
