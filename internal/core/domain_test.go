package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 9 || d.String() != "2025-03-09" {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "2025-13-01", "09/03/2025", "2025-02-30"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
	if err := (Date{}).Validate(); err == nil {
		t.Fatalf("expected zero date to be invalid")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:        Expense,
		Amount:      amt("150.25"),
		Description: "Hall booking",
		Category:    "Event Costs",
		Vendor:      "City Hall",
		Date:        NewDate(2025, 1, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"type", func(t *Transaction) { t.Type = "transfer" }, ErrInvalidType},
		{"zero amount", func(t *Transaction) { t.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative", func(t *Transaction) { t.Amount = amt("-1") }, ErrInvalidAmount},
		{"sub-cent", func(t *Transaction) { t.Amount = amt("1.001") }, ErrInvalidAmount},
		{"description", func(t *Transaction) { t.Description = "  " }, ErrEmptyDescription},
		{"category", func(t *Transaction) { t.Category = "Grants" }, ErrInvalidCategory},
		{"date", func(t *Transaction) { t.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		tx := good
		tc.mut(&tx)
		if err := tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTransactionNormalize(t *testing.T) {
	tx := Transaction{
		Type:        Income,
		Amount:      amt("10.005"),
		Description: "  Annual dues ",
		Category:    "Membership Fees",
		Vendor:      "ignored",
	}.Normalize()
	if tx.Vendor != "" || tx.Description != "Annual dues" || !tx.Amount.Equal(amt("10.01")) {
		t.Fatalf("unexpected normalized transaction %+v", tx)
	}
}

func TestBudgetItemValidate(t *testing.T) {
	good := BudgetItem{
		EventName:       "Gala",
		Category:        "Venue",
		EstimatedAmount: amt("5000"),
		Status:          StatusPlanned,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	withActual := good
	withActual.ActualAmount = decimal.NewNullDecimal(amt("0"))
	if err := withActual.Validate(); err != nil {
		t.Fatalf("zero actual amount should be allowed: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*BudgetItem)
		want error
	}{
		{"event", func(b *BudgetItem) { b.EventName = "" }, ErrEmptyEventName},
		{"category", func(b *BudgetItem) { b.Category = "Travel" }, ErrInvalidCategory},
		{"estimate", func(b *BudgetItem) { b.EstimatedAmount = decimal.Zero }, ErrInvalidAmount},
		{"actual", func(b *BudgetItem) { b.ActualAmount = decimal.NewNullDecimal(amt("-3")) }, ErrInvalidAmount},
		{"status", func(b *BudgetItem) { b.Status = "cancelled" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		b := good
		tc.mut(&b)
		if err := b.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if tt, err := ParseTransactionType(" Income "); err != nil || tt != Income {
		t.Fatalf("got %q, %v", tt, err)
	}
	if _, err := ParseTransactionType("loan"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if st, err := ParseBudgetStatus("SPENT"); err != nil || st != StatusSpent {
		t.Fatalf("got %q, %v", st, err)
	}
	if _, err := ParseBudgetStatus("draft"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(Expense.Categories()) != 7 || len(Income.Categories()) != 6 {
		t.Fatalf("unexpected catalog sizes")
	}
}

func TestTransactionFilter(t *testing.T) {
	from, to := NewDate(2025, 1, 1), NewDate(2025, 1, 31)
	f := TransactionFilter{From: &from, To: &to, Type: Expense}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	in := Transaction{Type: Expense, Date: NewDate(2025, 1, 31)}
	if !f.Match(in) {
		t.Fatalf("upper bound should be inclusive")
	}
	if f.Match(Transaction{Type: Income, Date: NewDate(2025, 1, 5)}) {
		t.Fatalf("type mismatch should not match")
	}
	if f.Match(Transaction{Type: Expense, Date: NewDate(2025, 2, 1)}) {
		t.Fatalf("date after range should not match")
	}
	if err := (TransactionFilter{From: &to, To: &from}).Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	ts := []Transaction{
		{Type: Income, Amount: amt("1000")},
		{Type: Expense, Amount: amt("250.50")},
		{Type: Expense, Amount: amt("49.50")},
	}
	s := SummarizeTransactions(ts)
	if !s.Income.Equal(amt("1000")) || !s.Expense.Equal(amt("300")) || !s.Balance.Equal(amt("700")) || s.Count != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}

	items := []BudgetItem{
		{EstimatedAmount: amt("500"), Status: StatusPlanned},
		{EstimatedAmount: amt("300"), ActualAmount: decimal.NewNullDecimal(amt("320")), Status: StatusSpent},
		{EstimatedAmount: amt("200"), ActualAmount: decimal.NewNullDecimal(amt("50")), Status: StatusApproved},
	}
	b := SummarizeBudget(items)
	if !b.TotalEstimated.Equal(amt("1000")) || !b.TotalSpent.Equal(amt("370")) || !b.Remaining.Equal(amt("630")) {
		t.Fatalf("unexpected budget summary %+v", b)
	}
	if len(b.ByStatus) != 3 || b.ByStatus[2].Status != StatusSpent || b.ByStatus[2].Count != 1 {
		t.Fatalf("unexpected status breakdown %+v", b.ByStatus)
	}
}
