package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/ports"
	"fintrack/internal/receipts"
	gsheet "fintrack/internal/sheets/google"
	"fintrack/internal/storage"
	"fintrack/internal/storage/memory"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		Ledger: LedgerType(appConfig.LedgerBackend),

		Receipts:       ReceiptsType(appConfig.ReceiptsBackend),
		ReceiptsDir:    appConfig.ReceiptsDir,
		PublicBaseURL:  appConfig.PublicBaseURL,
		BlobServiceURL: appConfig.BlobServiceURL,
		BlobContainer:  appConfig.BlobContainer,
	}, nil
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With("component", "backend")}
}

// CreateBackend opens the data store, the receipt storage and, for the
// SQLite backend, the AMQP publisher. AMQP is optional: a broker that cannot
// be reached leaves Publisher nil and the worker sweep catches up later.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	var (
		res      BackendResult
		cleanups []CleanupFunc
	)

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		res.Store = repo
		cleanups = append(cleanups, repo.Close)

		if cfg.AMQPURL != "" {
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			} else {
				f.logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
				res.Publisher = client
				cleanups = append(cleanups, client.Close)
			}
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath, "amqp_enabled", res.Publisher != nil)

	case MemoryBackend:
		res.Store = memory.New()
		f.logger.Info("Initialized memory backend")

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}

	res.Cleanup = func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			errs = append(errs, cleanups[i]())
		}
		return errors.Join(errs...)
	}

	if err := f.createReceipts(ctx, cfg, &res); err != nil {
		_ = res.Cleanup()
		return nil, err
	}
	return &res, nil
}

func (f *DefaultFactory) createReceipts(ctx context.Context, cfg Config, res *BackendResult) error {
	switch cfg.Receipts {
	case LocalReceipts, "":
		store, err := receipts.NewLocalStore(cfg.ReceiptsDir, cfg.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local receipts store: %w", err)
		}
		res.Receipts = store
		res.LocalReceipts = store
		f.logger.Info("Initialized local receipts store", "dir", cfg.ReceiptsDir)

	case AzBlobReceipts:
		store, err := receipts.NewBlobStore(cfg.BlobServiceURL, cfg.BlobContainer)
		if err != nil {
			return fmt.Errorf("failed to initialize blob receipts store: %w", err)
		}
		if err := store.EnsureContainer(ctx); err != nil {
			return fmt.Errorf("failed to ensure blob container: %w", err)
		}
		res.Receipts = store
		f.logger.Info("Initialized blob receipts store", "container", cfg.BlobContainer)

	default:
		return fmt.Errorf("unsupported receipts backend: %s", cfg.Receipts)
	}
	return nil
}

// CreateLedger returns the ledger writer used by the sync worker.
func (f *DefaultFactory) CreateLedger(ctx context.Context, cfg Config) (ports.LedgerWriter, error) {
	switch cfg.Ledger {
	case GoogleLedger, "":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets ledger")
		return cli, nil
	case MemoryLedger:
		f.logger.Warn("Using in-memory ledger, synced rows are not persisted")
		return memory.NewLedger(), nil
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.Ledger)
	}
}
