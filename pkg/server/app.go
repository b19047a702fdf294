package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SalesPulse/internal/handler/api"
	"SalesPulse/internal/usecase"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	xhttp "SalesPulse/pkg/http"
	pkgkafka "SalesPulse/pkg/kafka"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	handler    *api.InsightsEchoHandler
	uc         *usecase.InsightUseCase
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.InsightsEchoHandler,
	uc *usecase.InsightUseCase,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		handler:  handler,
		uc:       uc,
		chClient: chClient,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.seedDataset(ctx)

	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Path != "" {
		serverOpts = append(serverOpts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(a.handler, serverOpts...)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// seedDataset generates the configured dataset at startup so read endpoints
// have data before the first explicit generate call.
func (a *App) seedDataset(ctx context.Context) {
	if a.cfg.Generator.Periods <= 0 {
		return
	}
	start := util.ParseDateDefault(a.cfg.Generator.Start, time.Date(2022, 1, 31, 0, 0, 0, 0, time.UTC))
	res, err := a.uc.Generate(ctx, usecase.GenerateParams{
		Start:   start,
		Periods: a.cfg.Generator.Periods,
		Seed:    a.cfg.Generator.Seed,
	})
	if err != nil {
		a.l.Warn("startup dataset generation failed", applogger.Error(err))
		return
	}
	a.l.Info("dataset seeded",
		applogger.Strings("series", res.Series),
		applogger.Int("periods", res.Periods),
		applogger.Int64("seed", res.Seed),
	)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
