package http

import (
	"time"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// Amounts are sent as fixed two-decimal strings plus a display form with
// the currency label.

type transactionView struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amount_formatted"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Vendor          string `json:"vendor,omitempty"`
	Date            string `json:"date"`
	CreatedAt       string `json:"created_at"`
}

type transactionSummaryView struct {
	Income           string `json:"income"`
	Expense          string `json:"expense"`
	Balance          string `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
	Count            int    `json:"count"`
}

type budgetView struct {
	ID              int64   `json:"id"`
	EventName       string  `json:"event_name"`
	Category        string  `json:"category"`
	Description     string  `json:"description,omitempty"`
	EstimatedAmount string  `json:"estimated_amount"`
	ActualAmount    *string `json:"actual_amount"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type statusAmountView struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Amount string `json:"amount"`
}

type budgetSummaryView struct {
	TotalEstimated     string             `json:"total_estimated"`
	TotalSpent         string             `json:"total_spent"`
	Remaining          string             `json:"remaining"`
	RemainingFormatted string             `json:"remaining_formatted"`
	ByStatus           []statusAmountView `json:"by_status"`
}

type receiptView struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url,omitempty"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (s *Server) transactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:              t.ID,
		Type:            string(t.Type),
		Amount:          money(t.Amount),
		AmountFormatted: core.FormatAmount(s.opts.Currency, t.Amount),
		Description:     t.Description,
		Category:        t.Category,
		Vendor:          t.Vendor,
		Date:            t.Date.String(),
		CreatedAt:       timestamp(t.CreatedAt),
	}
}

func (s *Server) transactionSummaryView(sum core.TransactionSummary) transactionSummaryView {
	return transactionSummaryView{
		Income:           money(sum.Income),
		Expense:          money(sum.Expense),
		Balance:          money(sum.Balance),
		BalanceFormatted: core.FormatAmount(s.opts.Currency, sum.Balance),
		Count:            sum.Count,
	}
}

func budgetViewOf(b core.BudgetItem) budgetView {
	v := budgetView{
		ID:              b.ID,
		EventName:       b.EventName,
		Category:        b.Category,
		Description:     b.Description,
		EstimatedAmount: money(b.EstimatedAmount),
		Status:          string(b.Status),
		CreatedAt:       timestamp(b.CreatedAt),
		UpdatedAt:       timestamp(b.UpdatedAt),
	}
	if b.ActualAmount.Valid {
		a := money(b.ActualAmount.Decimal)
		v.ActualAmount = &a
	}
	return v
}

func (s *Server) budgetSummaryView(sum core.BudgetSummary) budgetSummaryView {
	v := budgetSummaryView{
		TotalEstimated:     money(sum.TotalEstimated),
		TotalSpent:         money(sum.TotalSpent),
		Remaining:          money(sum.Remaining),
		RemainingFormatted: core.FormatAmount(s.opts.Currency, sum.Remaining),
		ByStatus:           make([]statusAmountView, 0, len(sum.ByStatus)),
	}
	for _, st := range sum.ByStatus {
		v.ByStatus = append(v.ByStatus, statusAmountView{Status: string(st.Status), Count: st.Count, Amount: money(st.Amount)})
	}
	return v
}

func (s *Server) receiptView(rc core.Receipt) receiptView {
	v := receiptView{
		Name:        rc.Name,
		Size:        rc.Size,
		ContentType: rc.ContentType,
		CreatedAt:   timestamp(rc.CreatedAt),
	}
	if u, err := s.deps.Receipts.URL(rc.Name); err == nil {
		v.URL = u
	}
	return v
}

