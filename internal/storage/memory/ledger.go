package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
)

// Ledger is an in-memory ledger mirror. It stands in for the spreadsheet
// when no Google credentials are configured.
type Ledger struct {
	mu   sync.Mutex
	rows []core.Transaction
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AppendTransaction stores the transaction and returns a synthetic row reference.
func (l *Ledger) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, t)
	return fmt.Sprintf("mem:%d", len(l.rows)), nil
}

// Rows returns a copy of the mirrored transactions in append order.
func (l *Ledger) Rows() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.rows...)
}
