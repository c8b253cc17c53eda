package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"companion-server/internal/config"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/observability"
	"companion-server/internal/infrastructure/scheduler"
	"companion-server/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	scheduler  *scheduler.Scheduler
}

func init() {
	logger.GetLogger()
}

func (application *Application) Start() {
	background := context.Background()
	ctx, cancel := context.WithCancel(background)
	defer cancel()

	cfg := config.GetGlobal()

	var eg errgroup.Group
	eg.Go(func() error {
		err := httpserver.RunMetrics(cfg)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.scheduler.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := application.httpServer.Run()
		if err != nil {
			cancel()
		}
		return err
	})

	if err := eg.Wait(); err != nil {
		panic(err)
	}
}

func main() {
	ctx := context.Background()
	log := logger.GetLogger()

	application, err := CreateApplication()
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	cfg := config.GetGlobal()
	if cfg == nil {
		log.Fatal().Msg("config not loaded")
	}

	if _, err := logger.New(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Warn().Err(err).Msg("invalid log configuration, keeping defaults")
	}

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	application.Start()
}
