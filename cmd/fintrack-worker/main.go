package main

import (
	"context"
	"errors"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	envErr := cli.LoadEnvFile()

	cfg, cfgErr := cli.LoadAndValidateConfig()
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	logger := cli.SetupLogger(level, log.ComponentWorker)
	if envErr != nil {
		logger.Warn("Ignoring .env file", "error", envErr)
	}
	if cfgErr != nil {
		cli.Fatal(logger, "Configuration validation failed", cfgErr)
	}

	logger.Info("Starting fintrack-worker")

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	// The worker mirrors the SQLite store regardless of DATA_BACKEND.
	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize SQLite repository", err)
	}
	defer repo.Close()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	ledger, err := backend.NewFactory(logger.Logger).CreateLedger(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize ledger", err)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)

	// On startup, process any pending transactions that might have been missed
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeTransactionSync(gctx, syncWorker.HandleSyncMessage)
	})
	g.Go(func() error {
		return syncWorker.RunPeriodicSweep(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
	}
	logger.Info("Worker shutdown complete")
}
