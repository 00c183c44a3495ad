package main

import (
	"context"
	"errors"
	"os"

	"bplog/internal/amqp"
	"bplog/internal/backend"
	"bplog/internal/cli"
	"bplog/internal/config"
	"bplog/internal/log"
	"bplog/internal/report"
	"bplog/internal/services"
	"bplog/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg, os.Stderr).WithComponent(log.ComponentWorker)
	logger.Info("Starting report-worker")

	if cfg.DataBackend != config.BackendSQLite {
		logger.Error("report-worker reads the shared database and needs DATA_BACKEND=sqlite", "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to consume measurement messages")
		os.Exit(1)
	}

	// The worker only reads, announcements stay with the recorder
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	bcfg.AMQPURL = ""
	store, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		_ = store.Close()
		os.Exit(1)
	}

	reporter := services.NewReporter(store.Backend, services.ReporterConfig{
		OutputPath: cfg.ReportOutputPath,
		Labels:     report.LabelsFor(cfg.ReportLocale),
		Renderer:   report.PDFRenderer{FontPath: cfg.ReportFontPath},
		Location:   cfg.Location,
	})
	reportWorker := worker.NewReportWorker(reporter, cfg.Location)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close backend", "error", err)
		}
	})
	ctx = log.WithLogger(ctx, logger)

	if err := amqpClient.ConsumeMeasurementRecorded(ctx, reportWorker.HandleMeasurementRecorded); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			_ = amqpClient.Close()
			_ = store.Close()
			os.Exit(1)
		}
	}

	cli.WaitForShutdown(ctx, done)
}
