// Package memory provides in-process stores used by the memory data backend
// and by tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type txRecord struct {
	tx      core.Transaction
	status  string
	version int64
}

// Store is a mutex-guarded implementation of the transaction and budget
// stores, including the sync bookkeeping of the SQLite repository.
type Store struct {
	mu      sync.Mutex
	nextTx  int64
	nextBud int64
	txs     []txRecord
	budgets map[int64]core.BudgetItem
	now     func() time.Time
}

func New() *Store {
	return &Store{
		budgets: make(map[int64]core.BudgetItem),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTx++
	t.ID = s.nextTx
	t.CreatedAt = s.now()
	s.txs = append(s.txs, txRecord{tx: t, status: storage.SyncPending, version: 1})
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.txs {
		if r.tx.ID == id {
			return r.tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListTransactions(_ context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txs))
	for _, r := range s.txs {
		if f.Match(r.tx) {
			out = append(out, r.tx)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// GetPendingSync mirrors SQLiteRepository.GetPendingSync.
func (s *Store) GetPendingSync(_ context.Context, limit int) ([]storage.PendingSync, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.PendingSync
	for _, r := range s.txs {
		if len(out) >= limit {
			break
		}
		if r.status != storage.SyncSynced {
			out = append(out, storage.PendingSync{ID: r.tx.ID, Version: r.version, CreatedAt: r.tx.CreatedAt})
		}
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, id int64) error {
	return s.setStatus(id, storage.SyncSynced)
}

func (s *Store) MarkSyncError(_ context.Context, id int64) error {
	return s.setStatus(id, storage.SyncError)
}

// GetSyncStatus returns the sync state of a transaction.
func (s *Store) GetSyncStatus(_ context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.txs {
		if r.tx.ID == id {
			return r.status, nil
		}
	}
	return "", fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
}

func (s *Store) setStatus(id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].tx.ID == id {
			s.txs[i].status = status
			return nil
		}
	}
	return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
}

func (s *Store) InsertBudget(_ context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBud++
	b.ID = s.nextBud
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.budgets[b.ID]
	if !ok {
		return core.BudgetItem{}, fmt.Errorf("budget item %d: %w", b.ID, core.ErrNotFound)
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = s.now()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return fmt.Errorf("budget item %d: %w", id, core.ErrNotFound)
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.BudgetItem{}, fmt.Errorf("budget item %d: %w", id, core.ErrNotFound)
	}
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BudgetItem, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b core.BudgetItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Ping always succeeds; it lets the store stand in for the SQLite repository
// in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }
