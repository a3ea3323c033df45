package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ports"

	"github.com/shopspring/decimal"
)

// BudgetService manages event budget items.
type BudgetService struct {
	store ports.BudgetStore
}

// BudgetUpdate is a partial update; nil fields keep their current value.
type BudgetUpdate struct {
	EventName       *string
	Category        *string
	Description     *string
	EstimatedAmount *decimal.Decimal
	ActualAmount    *decimal.NullDecimal
	Status          *core.BudgetStatus
}

func NewBudgetService(store ports.BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

func normalizeBudget(b core.BudgetItem) core.BudgetItem {
	b.EventName = strings.TrimSpace(b.EventName)
	b.Category = strings.TrimSpace(b.Category)
	b.Description = strings.TrimSpace(b.Description)
	b.EstimatedAmount = b.EstimatedAmount.Round(2)
	if b.ActualAmount.Valid {
		b.ActualAmount.Decimal = b.ActualAmount.Decimal.Round(2)
	}
	if b.Status == "" {
		b.Status = core.StatusPlanned
	}
	return b
}

// Create validates and stores a new item. The status defaults to planned.
func (s *BudgetService) Create(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error) {
	b = normalizeBudget(b)
	if err := b.Validate(); err != nil {
		return core.BudgetItem{}, err
	}
	saved, err := s.store.InsertBudget(ctx, b)
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("save budget item: %w", err)
	}
	return saved, nil
}

// Update applies u to the stored item. CreatedAt is preserved and UpdatedAt
// is set by the store.
func (s *BudgetService) Update(ctx context.Context, id int64, u BudgetUpdate) (core.BudgetItem, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.BudgetItem{}, err
	}
	if u.EventName != nil {
		b.EventName = *u.EventName
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.EstimatedAmount != nil {
		b.EstimatedAmount = *u.EstimatedAmount
	}
	if u.ActualAmount != nil {
		b.ActualAmount = *u.ActualAmount
	}
	if u.Status != nil {
		b.Status = *u.Status
	}

	b = normalizeBudget(b)
	if err := b.Validate(); err != nil {
		return core.BudgetItem{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("update budget item: %w", err)
	}
	slog.InfoContext(ctx, "Budget item updated", "id", id, "status", updated.Status)
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteBudget(ctx, id)
}

func (s *BudgetService) Get(ctx context.Context, id int64) (core.BudgetItem, error) {
	return s.store.GetBudget(ctx, id)
}

// List returns all items, newest first.
func (s *BudgetService) List(ctx context.Context) ([]core.BudgetItem, error) {
	items, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budget items: %w", err)
	}
	return items, nil
}

func (s *BudgetService) Summary(ctx context.Context) (core.BudgetSummary, error) {
	items, err := s.List(ctx)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	return core.SummarizeBudget(items), nil
}
