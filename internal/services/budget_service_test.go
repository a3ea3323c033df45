package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCreateDefaultsStatus(t *testing.T) {
	svc := NewBudgetService(memory.New())
	b, err := svc.Create(context.Background(), core.BudgetItem{
		EventName:       " Annual Gala ",
		Category:        "Catering",
		EstimatedAmount: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusPlanned, b.Status)
	assert.Equal(t, "Annual Gala", b.EventName)

	_, err = svc.Create(context.Background(), core.BudgetItem{EventName: "x", Category: "Travel", EstimatedAmount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
}

func TestBudgetPartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(memory.New())
	b, err := svc.Create(ctx, core.BudgetItem{
		EventName:       "Gala",
		Category:        "Venue",
		Description:     "Main hall",
		EstimatedAmount: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	status := core.StatusSpent
	actual := decimal.NewNullDecimal(decimal.RequireFromString("5200.40"))
	up, err := svc.Update(ctx, b.ID, BudgetUpdate{Status: &status, ActualAmount: &actual})
	require.NoError(t, err)
	assert.Equal(t, core.StatusSpent, up.Status)
	assert.Equal(t, "Main hall", up.Description, "untouched fields are kept")
	assert.True(t, up.CreatedAt.Equal(b.CreatedAt))
	assert.False(t, up.UpdatedAt.Before(b.UpdatedAt))

	bad := core.BudgetStatus("cancelled")
	_, err = svc.Update(ctx, b.ID, BudgetUpdate{Status: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidStatus)

	_, err = svc.Update(ctx, 404, BudgetUpdate{})
	assert.ErrorIs(t, err, core.ErrNotFound)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Remaining.Equal(decimal.RequireFromString("-200.40")))

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), core.ErrNotFound)
}
