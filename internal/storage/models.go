package storage

import (
	"database/sql"
	"time"
)

// Sync states of a transaction row.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

type Transaction struct {
	ID          int64
	Type        string
	AmountCents int64
	Description string
	Category    string
	Vendor      string
	Date        string
	CreatedAt   time.Time
	SyncStatus  string
	Version     int64
	SyncedAt    sql.NullTime
}

type BudgetItem struct {
	ID                   int64
	EventName            string
	Category             string
	Description          string
	EstimatedAmountCents int64
	ActualAmountCents    sql.NullInt64
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
