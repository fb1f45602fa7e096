package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pixelcast/backend/internal/application/config"
	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/application/metric"
	"github.com/pixelcast/backend/internal/infra/adapters/memory"
	"github.com/pixelcast/backend/internal/infra/adapters/postgres"
	"github.com/pixelcast/backend/internal/infra/adapters/postgres/repository"
	"github.com/pixelcast/backend/internal/infra/adapters/srs"
	"github.com/pixelcast/backend/internal/infra/ports/http/handlers"
	"github.com/pixelcast/backend/internal/infra/ports/http/server"
	"github.com/pixelcast/backend/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	roomRepo := repository.NewRoomRepo(dbConn)
	presenceRepo := memory.NewPresenceRepository(cfg.Presence.TTL)

	srsClient := srs.NewClient(cfg.SRS.APIURL(), cfg.Poller.RequestTimeout)

	hub := usecase.NewBroadcastUsecase(cfg.Poller.HeartbeatInterval)
	poller := usecase.NewPollerUsecase(srsClient, usecase.NewStateDiffer(), hub, cfg.Poller.Interval)
	cleanup := usecase.NewCleanupUsecase(
		roomRepo,
		srsClient,
		cfg.Cleanup.Interval,
		cfg.Cleanup.IdleTimeout,
		cfg.Cleanup.ClientThreshold,
	)
	presenceUsecase := usecase.NewPresenceUsecase(presenceRepo)
	roomUsecase := usecase.NewRoomUsecase(roomRepo)
	signalUsecase := usecase.NewSignalUsecase(srsClient)

	webhookHandler := handlers.NewWebhookHandler()
	proxyHandler := handlers.NewProxyHandler(signalUsecase)
	subscribeHandler := handlers.NewSubscribeHandler(hub)
	presenceHandler := handlers.NewPresenceHandler(presenceUsecase)
	tokenHandler := handlers.NewTokenHandler(cfg)
	roomHandler := handlers.NewRoomHandler(cfg, roomUsecase)
	cleanupHandler := handlers.NewCleanupHandler(cleanup, roomUsecase)
	healthHandler := handlers.NewHealthHandler(dbConn, roomRepo)

	echoSrv := server.New(
		cfg,
		webhookHandler,
		proxyHandler,
		subscribeHandler,
		presenceHandler,
		tokenHandler,
		roomHandler,
		cleanupHandler,
		healthHandler,
	)

	metricsSrv := metric.NewServer()

	go hub.Run(ctx)
	go poller.Run(ctx)
	go cleanup.Run(ctx)

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricsPort)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
