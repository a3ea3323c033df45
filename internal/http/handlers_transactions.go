package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.transactionFromBody(p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.deps.Transactions.Record(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.appMetrics.transactions.Add(1)
	s.structured.LogTransactionRecorded(r.Context(), saved.ID, string(saved.Type), saved.Category, money(saved.Amount))

	NewResponse().
		Status(http.StatusCreated).
		TriggerTransactionCreated(saved.ID, saved.Date.String()).
		TriggerSuccessNotification(fmt.Sprintf("Recorded %s: %s (%s)",
			saved.Type, saved.Description, core.FormatAmount(s.opts.Currency, saved.Amount))).
		JSON(s.transactionView(saved)).
		Write(w)
}

// transactionFromBody builds a transaction from the request fields. A
// missing date means today.
func (s *Server) transactionFromBody(p *RequestBodyParser) (core.Transaction, error) {
	txType, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	now := s.now()
	date := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if v := p.Get("date"); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			return core.Transaction{}, err
		}
	}

	return core.Transaction{
		Type:        txType,
		Amount:      amount,
		Description: p.Get("description"),
		Category:    p.Get("category"),
		Vendor:      p.Get("vendor"),
		Date:        date,
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ts, err := s.deps.Transactions.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, s.transactionView(t))
	}
	NewResponse().JSON(map[string]any{"transactions": views}).Write(w)
}

func (s *Server) handleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.deps.Transactions.Summary(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(s.transactionSummaryView(sum)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.deps.Transactions.Get(r.Context(), id)
	if err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Transaction lookup failed", log.FieldTxID, id, log.FieldError, err)
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(s.transactionView(t)).Write(w)
}
