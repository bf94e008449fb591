package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LedgerSeek/internal/domain/repository"
	"LedgerSeek/internal/handler/api"
	"LedgerSeek/internal/usecase"
	pkgch "LedgerSeek/pkg/clickhouse"
	"LedgerSeek/pkg/config"
	xhttp "LedgerSeek/pkg/http"
	pkgkafka "LedgerSeek/pkg/kafka"
	applogger "LedgerSeek/pkg/logger"
	"LedgerSeek/pkg/util"
)

// App encapsulates the application lifecycle for both modes: a one-shot
// search from the command line and a long-running HTTP service.
type App struct {
	cfg     *config.Config
	logger  *applogger.Logger
	locator *usecase.Locator
	metrics repository.Metrics
	history repository.HistoryStore

	chClient     *pkgch.Client
	producer     *pkgkafka.Producer
	oracleCloser io.Closer

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	locator *usecase.Locator,
	metrics repository.Metrics,
	history repository.HistoryStore,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	oracleCloser io.Closer,
) *App {
	return &App{
		cfg:          cfg,
		logger:       logger,
		locator:      locator,
		metrics:      metrics,
		history:      history,
		chClient:     chClient,
		producer:     producer,
		oracleCloser: oracleCloser,
	}
}

// RunOnce performs a single search for the given target time and exits.
func (a *App) RunOnce(ctx context.Context, targetStr string) error {
	defer a.closeClients()

	at, ok := util.ParseTime(targetStr)
	if !ok {
		return fmt.Errorf("cannot parse target time %q", targetStr)
	}
	target := util.ToRippleTime(at)

	a.logger.Info("looking for ledger",
		applogger.Int64("target", target),
		applogger.String("target_at", at.UTC().Format(time.RFC3339)),
	)

	start := time.Now()
	res, err := a.locator.Locate(ctx, target)
	dur := time.Since(start)
	if err != nil {
		a.metrics.RecordError("search")
		return fmt.Errorf("locate: %w", err)
	}

	a.metrics.RecordSearch(res.Iterations, dur)
	a.metrics.RecordLocated(res.Sample.Sequence)

	a.logger.Info("located ledger",
		applogger.Int64("sequence", res.Sample.Sequence),
		applogger.Int64("close_time", res.Sample.CloseTime),
		applogger.String("closed_at", util.FormatRippleTime(res.Sample.CloseTime)),
		applogger.Bool("exact_match", res.ExactMatch),
		applogger.Int("iterations", res.Iterations),
		applogger.Duration("duration_ms", dur),
	)
	return nil
}

// Run starts the HTTP service and blocks until interrupted.
func (a *App) Run() error {
	handler := api.NewLocateEchoHandler(
		a.logger,
		a.locator,
		a.metrics,
		a.history,
		a.cfg.RateLimit.Capacity,
		a.cfg.RateLimit.RefillPerSec,
	)

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("xrpl_endpoint", a.cfg.XRPL.Endpoint),
		applogger.String("xrpl_transport", a.cfg.XRPL.Transport),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.closeClients()
	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeClients() {
	if a.oracleCloser != nil {
		if err := a.oracleCloser.Close(); err != nil {
			a.logger.Warn("oracle close error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
}
