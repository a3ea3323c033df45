// Package backend assembles the stores, receipt storage and sync publisher
// selected by configuration.
package backend

import (
	"context"

	"fintrack/internal/ports"
	"fintrack/internal/receipts"
)

// Store is the transaction and budget persistence used by the HTTP service.
type Store interface {
	ports.TransactionStore
	ports.BudgetStore
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the assembled components and a cleanup function
// releasing them in reverse order.
type BackendResult struct {
	Store     Store
	Receipts  ports.ReceiptStore
	Publisher ports.EventPublisher
	// LocalReceipts is set when receipts live on disk and must be served by
	// the HTTP service itself.
	LocalReceipts *receipts.LocalStore
	Cleanup       CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateLedger(ctx context.Context, config Config) (ports.LedgerWriter, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Ledger LedgerType

	Receipts       ReceiptsType
	ReceiptsDir    string
	PublicBaseURL  string
	BlobServiceURL string
	BlobContainer  string
}

// BackendType represents the type of data backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// ReceiptsType selects where receipt files are stored.
type ReceiptsType string

const (
	LocalReceipts  ReceiptsType = "local"
	AzBlobReceipts ReceiptsType = "azblob"
)

// LedgerType selects the external ledger the worker mirrors into.
type LedgerType string

const (
	GoogleLedger LedgerType = "google"
	MemoryLedger LedgerType = "memory"
)
