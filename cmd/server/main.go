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

	"github.com/rs/zerolog"

	"cargoflow/internal/config"
	"cargoflow/internal/export"
	"cargoflow/internal/extractor/claude"
	"cargoflow/internal/handler"
	"cargoflow/internal/notify/noop"
	"cargoflow/internal/notify/ses"
	"cargoflow/internal/notify/webhook"
	"cargoflow/internal/port"
	"cargoflow/internal/repository/postgres"
	"cargoflow/internal/router"
	"cargoflow/internal/service"
	s3storage "cargoflow/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	supplierRepo := postgres.NewSupplierRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	shipmentRepo := postgres.NewShipmentRepo(db)
	costRepo := postgres.NewShipmentCostRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	queueRepo := postgres.NewQueueRepo(db)
	alertRepo := postgres.NewAlertRepo(db)

	// Storage and external services
	objectStorage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	ext := claude.NewExtractor(&cfg.Extractor)
	notifier, err := newNotifier(cfg.Notify, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Services
	matcher := service.NewEntityMatcher(supplierRepo, shipmentRepo, clientRepo, logger)
	applier := service.NewActionApplier(costRepo, shipmentRepo, cfg.Pipeline, logger)
	extractionSvc := service.NewExtractionService(
		queueRepo, objectStorage, ext, matcher, applier, notifier,
		cfg.S3.Bucket, cfg.Pipeline, logger,
	)
	alertSvc := service.NewAlertService(
		alertRepo, supplierRepo, shipmentRepo, paymentRepo,
		cfg.Alerts, notifier, logger,
	)
	ledger := export.NewLedgerWriter(supplierRepo, paymentRepo)

	// Handlers
	queueH := handler.NewQueueHandler(extractionSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	exportH := handler.NewExportHandler(ledger)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(queueH, alertH, exportH, healthH, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewSweepWorker(alertSvc, cfg.Sweep, logger)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}

	<-workerDone
	return nil
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func newNotifier(cfg config.NotifyConfig, logger zerolog.Logger) (port.Notifier, error) {
	switch cfg.Provider {
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("notify provider webhook requires a webhook url")
		}
		return webhook.NewWebhookNotifier(cfg.WebhookURL), nil
	case "ses":
		return ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.ToAddress)
	case "noop", "":
		return noop.NewNoopNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
}
