package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const transactionColumns = `id, type, amount_cents, description, category, vendor, date, created_at, sync_status, version, synced_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.AmountCents,
		&i.Description,
		&i.Category,
		&i.Vendor,
		&i.Date,
		&i.CreatedAt,
		&i.SyncStatus,
		&i.Version,
		&i.SyncedAt,
	)
	return i, err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (type, amount_cents, description, category, vendor, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	Type        string
	AmountCents int64
	Description string
	Category    string
	Vendor      string
	Date        string
	CreatedAt   time.Time
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Type,
		arg.AmountCents,
		arg.Description,
		arg.Category,
		arg.Vendor,
		arg.Date,
		arg.CreatedAt,
	)
	return scanTransaction(row)
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + ` FROM transactions
WHERE (?1 IS NULL OR date >= ?1)
  AND (?2 IS NULL OR date <= ?2)
  AND (?3 IS NULL OR type = ?3)
ORDER BY date DESC, id DESC`

type ListTransactionsParams struct {
	FromDate sql.NullString
	ToDate   sql.NullString
	Type     sql.NullString
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, arg.FromDate, arg.ToDate, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPendingSyncTransactions = `-- name: GetPendingSyncTransactions :many
SELECT id, version, created_at FROM transactions
WHERE sync_status IN ('pending', 'error')
ORDER BY created_at ASC, id ASC
LIMIT ?`

type GetPendingSyncTransactionsRow struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]GetPendingSyncTransactionsRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPendingSyncTransactionsRow
	for rows.Next() {
		var i GetPendingSyncTransactionsRow
		if err := rows.Scan(&i.ID, &i.Version, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTransactionSyncStatus = `-- name: GetTransactionSyncStatus :one
SELECT sync_status FROM transactions WHERE id = ?`

func (q *Queries) GetTransactionSyncStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := q.db.QueryRowContext(ctx, getTransactionSyncStatus, id).Scan(&status)
	return status, err
}

const markTransactionSynced = `-- name: MarkTransactionSynced :execrows
UPDATE transactions SET sync_status = 'synced', synced_at = ? WHERE id = ?`

func (q *Queries) MarkTransactionSynced(ctx context.Context, syncedAt time.Time, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, markTransactionSynced, syncedAt, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markTransactionSyncError = `-- name: MarkTransactionSyncError :execrows
UPDATE transactions SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, markTransactionSyncError, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const budgetColumns = `id, event_name, category, description, estimated_amount_cents, actual_amount_cents, status, created_at, updated_at`

func scanBudgetItem(row rowScanner) (BudgetItem, error) {
	var i BudgetItem
	err := row.Scan(
		&i.ID,
		&i.EventName,
		&i.Category,
		&i.Description,
		&i.EstimatedAmountCents,
		&i.ActualAmountCents,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBudgetItem = `-- name: CreateBudgetItem :one
INSERT INTO budget_items (event_name, category, description, estimated_amount_cents, actual_amount_cents, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + budgetColumns

type CreateBudgetItemParams struct {
	EventName            string
	Category             string
	Description          string
	EstimatedAmountCents int64
	ActualAmountCents    sql.NullInt64
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (q *Queries) CreateBudgetItem(ctx context.Context, arg CreateBudgetItemParams) (BudgetItem, error) {
	row := q.db.QueryRowContext(ctx, createBudgetItem,
		arg.EventName,
		arg.Category,
		arg.Description,
		arg.EstimatedAmountCents,
		arg.ActualAmountCents,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBudgetItem(row)
}

const updateBudgetItem = `-- name: UpdateBudgetItem :one
UPDATE budget_items
SET event_name = ?, category = ?, description = ?, estimated_amount_cents = ?,
    actual_amount_cents = ?, status = ?, updated_at = ?
WHERE id = ?
RETURNING ` + budgetColumns

type UpdateBudgetItemParams struct {
	EventName            string
	Category             string
	Description          string
	EstimatedAmountCents int64
	ActualAmountCents    sql.NullInt64
	Status               string
	UpdatedAt            time.Time
	ID                   int64
}

func (q *Queries) UpdateBudgetItem(ctx context.Context, arg UpdateBudgetItemParams) (BudgetItem, error) {
	row := q.db.QueryRowContext(ctx, updateBudgetItem,
		arg.EventName,
		arg.Category,
		arg.Description,
		arg.EstimatedAmountCents,
		arg.ActualAmountCents,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanBudgetItem(row)
}

const deleteBudgetItem = `-- name: DeleteBudgetItem :execrows
DELETE FROM budget_items WHERE id = ?`

func (q *Queries) DeleteBudgetItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBudgetItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getBudgetItem = `-- name: GetBudgetItem :one
SELECT ` + budgetColumns + ` FROM budget_items WHERE id = ?`

func (q *Queries) GetBudgetItem(ctx context.Context, id int64) (BudgetItem, error) {
	return scanBudgetItem(q.db.QueryRowContext(ctx, getBudgetItem, id))
}

const listBudgetItems = `-- name: ListBudgetItems :many
SELECT ` + budgetColumns + ` FROM budget_items ORDER BY created_at DESC, id DESC`

func (q *Queries) ListBudgetItems(ctx context.Context) ([]BudgetItem, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BudgetItem
	for rows.Next() {
		i, err := scanBudgetItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
