package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"foresttrack/internal/config"
	"foresttrack/internal/handlers"
	"foresttrack/internal/jobs"
	"foresttrack/internal/log"
	"foresttrack/internal/middleware"
	"foresttrack/internal/network"
	"foresttrack/internal/security"
	"foresttrack/internal/server"
	"foresttrack/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}

	photos, err := openPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init photo store")
	}

	status := network.NewStatus(!cfg.Network.StartOffline)
	prober := network.NewProber(cfg.Network.ProbeURL, cfg.Network.ProbeTimeout, status, logger)

	opts := service.Options{StrictReferences: cfg.Integrity.StrictReferences}
	if cfg.Security.PasswordStorage == config.PasswordsPlaintext {
		logger.Warn().Msg("passwords are stored in plaintext")
		opts.HashPassword = security.KeepPlaintext
	}
	app := service.NewApp(store, photos, status, opts, logger)

	if user, err := app.Accounts.Current(ctx); err == nil {
		logger.Info().Str("user_id", user.ID).Msg("session restored")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	handlerSet := handlers.NewHandlerSet(logger, cfg, app, store, status)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, limiter)

	scheduler := jobs.NewScheduler(prober, jobs.Options{
		ProbeSchedule: cfg.Network.ProbeSchedule,
		ProbeTimeout:  cfg.Network.ProbeTimeout,
		ResetLimits:   limiter.Reset,
	}, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, closeStore)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, closeStore func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop(shutdownCtx)
	closeStore()

	logger.Info().Msg("server exited cleanly")
}
