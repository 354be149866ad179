package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage notifies consumers that a transaction mutation was
// committed. It carries identifiers only; the worker fetches the current
// state from the database, so a stale message never exports stale data.
type LedgerEventMessage struct {
	Kind      string    `json:"kind"`   // "income" or "expense"
	Action    string    `json:"action"` // "created", "updated" or "deleted"
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(kind, action, id, userID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:      kind,
		Action:    action,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
