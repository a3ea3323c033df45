package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	envErr := cli.LoadEnvFile()

	cfg, cfgErr := cli.LoadAndValidateConfig()
	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	logger := cli.SetupLogger(level, log.ComponentApp)
	if envErr != nil {
		logger.Warn("Ignoring .env file", "error", envErr)
	}
	if cfgErr != nil {
		cli.Fatal(logger, "Configuration validation failed", cfgErr)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions:  services.NewTransactionService(res.Store, res.Publisher),
		Budgets:       services.NewBudgetService(res.Store),
		Receipts:      services.NewReceiptService(res.Receipts, cfg.MaxUploadBytes),
		LocalReceipts: res.LocalReceipts,
		Store:         res.Store,
	}, apphttp.Options{
		Currency:       cfg.Currency,
		CalcSessionTTL: cfg.CalcSessionTTL,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"receipts", cfg.ReceiptsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
		}
	}

	cli.Shutdown(logger, 30*time.Second, srv.Shutdown)
	logger.Info("Server stopped gracefully")
}
