package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func expense(desc, amount string, d core.Date) core.Transaction {
	return core.Transaction{
		Type:        core.Expense,
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
		Category:    "Event Costs",
		Vendor:      "Vendor",
		Date:        d,
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	saved, err := repo.InsertTransaction(ctx, expense("Stage hire", "1234.56", core.NewDate(2025, 2, 10)))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, saved.Amount.Equal(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "2025-02-10", saved.Date.String())
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.GetTransaction(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Description, got.Description)
	assert.Equal(t, "Vendor", got.Vendor)

	_, err = repo.GetTransaction(ctx, 9999)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestListTransactionsFilter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.InsertTransaction(ctx, expense("jan", "10", core.NewDate(2025, 1, 15)))
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, expense("feb", "20", core.NewDate(2025, 2, 15)))
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Amount:      decimal.NewFromInt(500),
		Description: "dues",
		Category:    "Membership Fees",
		Date:        core.NewDate(2025, 2, 1),
	})
	require.NoError(t, err)

	all, err := repo.ListTransactions(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "feb", all[0].Description, "newest date first")

	from, to := core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 28)
	feb, err := repo.ListTransactions(ctx, core.TransactionFilter{From: &from, To: &to, Type: core.Expense})
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.Equal(t, "feb", feb[0].Description)
}

func TestSyncBookkeeping(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	a, err := repo.InsertTransaction(ctx, expense("a", "1", core.NewDate(2025, 1, 1)))
	require.NoError(t, err)
	b, err := repo.InsertTransaction(ctx, expense("b", "2", core.NewDate(2025, 1, 2)))
	require.NoError(t, err)

	pending, err := repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, int64(1), pending[0].Version)

	require.NoError(t, repo.MarkSynced(ctx, a.ID))
	require.NoError(t, repo.MarkSyncError(ctx, b.ID))

	status, err := repo.GetSyncStatus(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, SyncSynced, status)
	_, err = repo.GetSyncStatus(ctx, 4242)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	pending, err = repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1, "errored rows are retried")
	assert.Equal(t, b.ID, pending[0].ID)

	assert.True(t, errors.Is(repo.MarkSynced(ctx, 4242), core.ErrNotFound))
}

func TestBudgetCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.InsertBudget(ctx, core.BudgetItem{
		EventName:       "Gala",
		Category:        "Venue",
		EstimatedAmount: decimal.NewFromInt(5000),
		Status:          core.StatusPlanned,
	})
	require.NoError(t, err)
	assert.False(t, first.ActualAmount.Valid)

	second, err := repo.InsertBudget(ctx, core.BudgetItem{
		EventName:       "Gala",
		Category:        "Catering",
		EstimatedAmount: decimal.RequireFromString("1200.50"),
		Status:          core.StatusApproved,
	})
	require.NoError(t, err)

	list, err := repo.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	first.ActualAmount = decimal.NewNullDecimal(decimal.RequireFromString("4800.25"))
	first.Status = core.StatusSpent
	updated, err := repo.UpdateBudget(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, core.StatusSpent, updated.Status)
	assert.True(t, updated.ActualAmount.Valid)
	assert.True(t, updated.ActualAmount.Decimal.Equal(decimal.RequireFromString("4800.25")))
	assert.False(t, updated.UpdatedAt.Before(first.CreatedAt))

	require.NoError(t, repo.DeleteBudget(ctx, second.ID))
	_, err = repo.GetBudget(ctx, second.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.True(t, errors.Is(repo.DeleteBudget(ctx, second.ID), core.ErrNotFound))

	missing := first
	missing.ID = 777
	_, err = repo.UpdateBudget(ctx, missing)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, RunMigrations(path))
}
