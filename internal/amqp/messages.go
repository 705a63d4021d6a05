package amqp

import (
	"encoding/json"
	"time"
)

// Mutation actions carried by TransactionEvent.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// TransactionEvent announces a ledger mutation to external consumers.
// It carries only the action and the record id; consumers that need the
// full record fetch it through the query surface.
type TransactionEvent struct {
	Action        string    `json:"action"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(action, id string) *TransactionEvent {
	return &TransactionEvent{
		Action:        action,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
