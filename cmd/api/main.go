package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambeauty/internal/config"
	"ambeauty/internal/database"
	"ambeauty/internal/events"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/repository"
	"ambeauty/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel).With("app", "ambeauty-api", "env", cfg.AppEnv)

	schedule, err := config.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		fatal(logger, "load schedule", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		fatal(logger, "connect database", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		fatal(logger, "migrate", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	defer hub.Close()

	var publisher events.Publisher = events.NewLocalPublisher(hub)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			fatal(logger, "connect redis", err)
		}
		publisher = events.NewRedisPublisher(rdb, cfg.RedisChannel)

		relay := events.NewRedisRelay(rdb, cfg.RedisChannel, hub, logger.With("module", "events"))
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("booking event relay stopped", "error", err)
			}
		}()
	}

	srv := server.New(server.Options{
		DB:        db,
		Config:    cfg,
		Schedule:  schedule,
		Logger:    logger,
		Hub:       hub,
		Publisher: publisher,
	})

	if cfg.AdminEmail != "" {
		admin, err := srv.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			fatal(logger, "ensure admin", err)
		}
		logger.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "http server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
