// Package ports declares the contracts between the services and their
// outbound adapters.
package ports

import (
	"context"
	"io"

	"fintrack/internal/core"
)

type (
	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// ListTransactions returns matches ordered by date, newest first.
		ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	}

	BudgetStore interface {
		InsertBudget(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error)
		UpdateBudget(ctx context.Context, b core.BudgetItem) (core.BudgetItem, error)
		DeleteBudget(ctx context.Context, id int64) error
		// ListBudgets returns every item ordered by creation time, newest first.
		ListBudgets(ctx context.Context) ([]core.BudgetItem, error)
		GetBudget(ctx context.Context, id int64) (core.BudgetItem, error)
	}

	// ReceiptStore keeps uploaded receipt files by object name.
	ReceiptStore interface {
		Upload(ctx context.Context, name string, data io.Reader, contentType string) error
		List(ctx context.Context) ([]core.Receipt, error)
		Download(ctx context.Context, name string) (io.ReadCloser, core.Receipt, error)
		Delete(ctx context.Context, name string) error
		PublicURL(name string) (string, error)
	}

	// EventPublisher announces that a transaction needs mirroring.
	EventPublisher interface {
		PublishTransactionSync(ctx context.Context, id, version int64) error
	}

	// LedgerWriter mirrors a transaction into the external ledger and returns
	// a reference to the written row.
	LedgerWriter interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (ref string, err error)
	}
)
