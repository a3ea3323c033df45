package core

import "github.com/shopspring/decimal"

// TransactionSummary totals a set of transactions.
type TransactionSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// StatusAmount is the estimated total of the budget items in one status.
type StatusAmount struct {
	Status BudgetStatus
	Count  int
	Amount decimal.Decimal
}

// BudgetSummary totals budget items. TotalSpent sums the actual amounts that
// are recorded; Remaining is TotalEstimated minus TotalSpent.
type BudgetSummary struct {
	TotalEstimated decimal.Decimal
	TotalSpent     decimal.Decimal
	Remaining      decimal.Decimal
	ByStatus       []StatusAmount
}

func SummarizeTransactions(ts []Transaction) TransactionSummary {
	s := TransactionSummary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range ts {
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expense = s.Expense.Add(t.Amount)
		default:
			continue
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

func SummarizeBudget(items []BudgetItem) BudgetSummary {
	s := BudgetSummary{TotalEstimated: decimal.Zero, TotalSpent: decimal.Zero}
	byStatus := map[BudgetStatus]*StatusAmount{
		StatusPlanned:  {Status: StatusPlanned, Amount: decimal.Zero},
		StatusApproved: {Status: StatusApproved, Amount: decimal.Zero},
		StatusSpent:    {Status: StatusSpent, Amount: decimal.Zero},
	}
	for _, it := range items {
		s.TotalEstimated = s.TotalEstimated.Add(it.EstimatedAmount)
		if it.ActualAmount.Valid {
			s.TotalSpent = s.TotalSpent.Add(it.ActualAmount.Decimal)
		}
		if st, ok := byStatus[it.Status]; ok {
			st.Count++
			st.Amount = st.Amount.Add(it.EstimatedAmount)
		}
	}
	s.Remaining = s.TotalEstimated.Sub(s.TotalSpent)
	for _, st := range []BudgetStatus{StatusPlanned, StatusApproved, StatusSpent} {
		s.ByStatus = append(s.ByStatus, *byStatus[st])
	}
	return s
}
