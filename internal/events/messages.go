package events

import (
	"encoding/json"
	"time"
)

// Entities and actions carried by mutation messages.
const (
	EntityTransaction = "transaction"
	EntityGoal        = "goal"

	ActionCreated     = "created"
	ActionDeleted     = "deleted"
	ActionContributed = "contributed"
)

// MutationMessage announces a reconciled mutation so other shells
// sharing the account know to refresh. It carries identifiers only;
// consumers fetch current data from the backend of record.
type MutationMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMutationMessage creates a mutation message stamped with the
// current time.
func NewMutationMessage(entity, action, id string) *MutationMessage {
	return &MutationMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationMessageFromJSON creates a message from JSON bytes
func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
