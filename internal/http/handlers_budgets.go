package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/services"

	"github.com/shopspring/decimal"
)

// parseActualAmount accepts an empty value (no amount yet), zero, or a
// positive amount.
func parseActualAmount(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ".")); err == nil && d.IsZero() {
		return decimal.NewNullDecimal(decimal.Zero), nil
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}

	estimated, err := core.ParseAmount(p.Get("estimated_amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	actual, err := parseActualAmount(p.Get("actual_amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var status core.BudgetStatus
	if v := p.Get("status"); v != "" {
		if status, err = core.ParseBudgetStatus(v); err != nil {
			writeError(w, r, err)
			return
		}
	}

	saved, err := s.deps.Budgets.Create(r.Context(), core.BudgetItem{
		EventName:       p.Get("event_name"),
		Category:        p.Get("category"),
		Description:     p.Get("description"),
		EstimatedAmount: estimated,
		ActualAmount:    actual,
		Status:          status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		TriggerBudgetChanged(EventBudgetCreated, saved.ID).
		JSON(budgetViewOf(saved)).
		Write(w)
}

// budgetUpdateFromBody reads the fields present in the body. An empty or
// null actual_amount clears the recorded amount.
func budgetUpdateFromBody(p *RequestBodyParser) (services.BudgetUpdate, error) {
	var u services.BudgetUpdate
	str := func(key string) *string {
		if !p.Has(key) {
			return nil
		}
		v := p.Get(key)
		return &v
	}
	u.EventName = str("event_name")
	u.Category = str("category")
	u.Description = str("description")

	if p.Has("estimated_amount") {
		d, err := core.ParseAmount(p.Get("estimated_amount"))
		if err != nil {
			return u, err
		}
		u.EstimatedAmount = &d
	}
	if p.Has("actual_amount") {
		a, err := parseActualAmount(p.Get("actual_amount"))
		if err != nil {
			return u, err
		}
		u.ActualAmount = &a
	}
	if p.Has("status") {
		st, err := core.ParseBudgetStatus(p.Get("status"))
		if err != nil {
			return u, err
		}
		u.Status = &st
	}
	return u, nil
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := budgetUpdateFromBody(p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.deps.Budgets.Update(r.Context(), id, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		TriggerBudgetChanged(EventBudgetUpdated, updated.ID).
		JSON(budgetViewOf(updated)).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Budgets.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		Status(http.StatusNoContent).
		TriggerBudgetChanged(EventBudgetDeleted, id).
		Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.deps.Budgets.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(budgetViewOf(b)).Write(w)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Budgets.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]budgetView, 0, len(items))
	for _, b := range items {
		views = append(views, budgetViewOf(b))
	}
	NewResponse().JSON(map[string]any{"budgets": views}).Write(w)
}

func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.Budgets.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(s.budgetSummaryView(sum)).Write(w)
}
