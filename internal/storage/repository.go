package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository persists transactions and budget items. It implements
// ports.TransactionStore and ports.BudgetStore and keeps the sync
// bookkeeping used by the ledger mirror.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// PendingSync is the minimal data needed to enqueue a ledger sync.
type PendingSync struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Type:        string(t.Type),
		AmountCents: core.AmountToCents(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Vendor:      t.Vendor,
		Date:        t.Date.String(),
		CreatedAt:   r.now(),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"type", row.Type,
		"amount_cents", row.AmountCents,
		"date", row.Date)

	return transactionFromRow(row)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return transactionFromRow(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	var params ListTransactionsParams
	if f.From != nil {
		params.FromDate = sql.NullString{String: f.From.String(), Valid: true}
	}
	if f.To != nil {
		params.ToDate = sql.NullString{String: f.To.String(), Valid: true}
	}
	if f.Type != "" {
		params.Type = sql.NullString{String: string(f.Type), Valid: true}
	}

	rows, err := r.queries.ListTransactions(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetPendingSync returns up to limit transactions that still need mirroring,
// oldest first. Rows in error state are retried.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}

	out := make([]PendingSync, len(rows))
	for i, row := range rows {
		out[i] = PendingSync{ID: row.ID, Version: row.Version, CreatedAt: row.CreatedAt}
	}
	return out, nil
}

// GetSyncStatus returns the sync state of a transaction.
func (r *SQLiteRepository) GetSyncStatus(ctx context.Context, id int64) (string, error) {
	status, err := r.queries.GetTransactionSyncStatus(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get sync status: %w", err)
	}
	return status, nil
}

// MarkSynced marks a transaction as mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	n, err := r.queries.MarkTransactionSynced(ctx, r.now(), id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed mirror attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	n, err := r.queries.MarkTransactionSyncError(ctx, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) InsertBudget(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	now := r.now()
	row, err := r.queries.CreateBudgetItem(ctx, CreateBudgetItemParams{
		EventName:            b.EventName,
		Category:             b.Category,
		Description:          b.Description,
		EstimatedAmountCents: core.AmountToCents(b.EstimatedAmount),
		ActualAmountCents:    nullCents(b.ActualAmount),
		Status:               string(b.Status),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("create budget item: %w", err)
	}

	slog.InfoContext(ctx, "Budget item saved to SQLite",
		"id", row.ID,
		"event", row.EventName,
		"estimated_cents", row.EstimatedAmountCents)

	return budgetFromRow(row), nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	row, err := r.queries.UpdateBudgetItem(ctx, UpdateBudgetItemParams{
		EventName:            b.EventName,
		Category:             b.Category,
		Description:          b.Description,
		EstimatedAmountCents: core.AmountToCents(b.EstimatedAmount),
		ActualAmountCents:    nullCents(b.ActualAmount),
		Status:               string(b.Status),
		UpdatedAt:            r.now(),
		ID:                   b.ID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetItem{}, fmt.Errorf("budget item %d: %w", b.ID, core.ErrNotFound)
	}
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("update budget item: %w", err)
	}
	return budgetFromRow(row), nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteBudgetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget item %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Budget item deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.BudgetItem, error) {
	row, err := r.queries.GetBudgetItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetItem{}, fmt.Errorf("budget item %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("get budget item: %w", err)
	}
	return budgetFromRow(row), nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.BudgetItem, error) {
	rows, err := r.queries.ListBudgetItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	out := make([]core.BudgetItem, len(rows))
	for i, row := range rows {
		out[i] = budgetFromRow(row)
	}
	return out, nil
}

func transactionFromRow(row Transaction) (core.Transaction, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Type:        core.TransactionType(row.Type),
		Amount:      core.AmountFromCents(row.AmountCents),
		Description: row.Description,
		Category:    row.Category,
		Vendor:      row.Vendor,
		Date:        d,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func budgetFromRow(row BudgetItem) core.BudgetItem {
	b := core.BudgetItem{
		ID:              row.ID,
		EventName:       row.EventName,
		Category:        row.Category,
		Description:     row.Description,
		EstimatedAmount: core.AmountFromCents(row.EstimatedAmountCents),
		Status:          core.BudgetStatus(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.ActualAmountCents.Valid {
		b.ActualAmount.Decimal = core.AmountFromCents(row.ActualAmountCents.Int64)
		b.ActualAmount.Valid = true
	}
	return b
}

func nullCents(d decimal.NullDecimal) sql.NullInt64 {
	if !d.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: core.AmountToCents(d.Decimal), Valid: true}
}
