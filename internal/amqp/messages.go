package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// TransactionSyncMessage asks the worker to mirror one transaction into the
// ledger. It carries only the ID and version; the worker reads the full
// transaction from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

var errInvalidMessage = errors.New("invalid sync message")

// NewTransactionSyncMessage creates a new sync message with just ID and version
func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON decodes a message and rejects non-positive IDs.
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 {
		return nil, errInvalidMessage
	}
	return &msg, nil
}
