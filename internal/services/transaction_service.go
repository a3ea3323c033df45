package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// newTransactionVersion is the version of a freshly recorded transaction.
const newTransactionVersion = 1

// TransactionService records income and expenses and announces them to the
// ledger mirror.
type TransactionService struct {
	store     ports.TransactionStore
	publisher ports.EventPublisher
}

// NewTransactionService wires the store and an optional publisher. A nil
// publisher disables sync events; the worker sweep still picks rows up.
func NewTransactionService(store ports.TransactionStore, publisher ports.EventPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Record validates and persists t, then publishes a sync event. Publish
// failures are logged and do not fail the call.
func (s *TransactionService) Record(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishSyncMessage(ctx, saved.ID, newTransactionVersion); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", saved.ID, "error", err)
	}
	return saved, nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	ts, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return ts, nil
}

// Summary totals the transactions matching f.
func (s *TransactionService) Summary(ctx context.Context, f core.TransactionFilter) (core.TransactionSummary, error) {
	ts, err := s.List(ctx, f)
	if err != nil {
		return core.TransactionSummary{}, err
	}
	return core.SummarizeTransactions(ts), nil
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "id", id)
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id, version)
}
