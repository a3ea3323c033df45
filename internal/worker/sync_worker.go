// Package worker mirrors stored transactions into the external ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ports"
	"fintrack/internal/storage"
)

// SyncStore is the storage side of the mirror: it reads transactions and
// keeps their sync state.
type SyncStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingSync, error)
	GetSyncStatus(ctx context.Context, id int64) (string, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker handles synchronization of transactions from storage to the ledger
type SyncWorker struct {
	store     SyncStore
	ledger    ports.LedgerWriter
	batchSize int

	// mu serializes syncs so a sweep and a queued message never append the
	// same transaction twice.
	mu sync.Mutex
}

// SweepResult counts the outcome of one sweep.
type SweepResult struct {
	Total  int
	Synced int
	Errors int
}

func NewSyncWorker(store SyncStore, ledger ports.LedgerWriter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{store: store, ledger: ledger, batchSize: batchSize}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
// A returned error makes the consumer requeue the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	err := w.syncOne(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Nothing to mirror; requeueing would loop forever.
		slog.WarnContext(ctx, "Dropping sync message for unknown transaction", "id", msg.ID)
		return nil
	}
	return err
}

// ProcessPending syncs up to limit transactions that are still pending or
// failed earlier. It is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context, limit int) (SweepResult, error) {
	pending, err := w.store.GetPendingSync(ctx, limit)
	if err != nil {
		return SweepResult{}, fmt.Errorf("get pending transactions: %w", err)
	}

	res := SweepResult{Total: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := w.syncOne(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			res.Errors++
			continue
		}
		res.Synced++
	}
	return res, nil
}

// StartupSyncCheck syncs a larger batch of pending transactions at startup
// to recover from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	res, err := w.ProcessPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if res.Total == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", res.Total,
		"synced", res.Synced,
		"errors", res.Errors)
	return nil
}

// RunPeriodicSweep calls ProcessPending every interval until ctx is done.
func (w *SyncWorker) RunPeriodicSweep(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			res, err := w.ProcessPending(ctx, w.batchSize)
			if err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Periodic sweep failed", "error", err)
				continue
			}
			if res.Total > 0 {
				slog.InfoContext(ctx, "Periodic sweep completed",
					"total", res.Total, "synced", res.Synced, "errors", res.Errors)
			}
		}
	}
}

func (w *SyncWorker) syncOne(ctx context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, err := w.store.GetSyncStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("get sync status: %w", err)
	}
	if status == storage.SyncSynced {
		slog.DebugContext(ctx, "Transaction already synced", "id", id)
		return nil
	}

	t, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.ledger.AppendTransaction(ctx, t)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The row is in the ledger; a later sweep may append it again.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"ledger_ref", ref,
		"type", t.Type,
		"amount", t.Amount.StringFixed(2))
	return nil
}
