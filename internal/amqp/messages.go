package amqp

import (
	"encoding/json"

	"furfolio/internal/audit"
)

// AuditEventMessage is the wire form of one audit event. The full event is
// carried so the worker can append it to the durable trail without a
// read-back against the producer's store.
type AuditEventMessage struct {
	Event audit.Event `json:"event"`
}

// NewAuditEventMessage wraps an event for publishing.
func NewAuditEventMessage(e audit.Event) *AuditEventMessage {
	return &AuditEventMessage{Event: e}
}

// ToJSON converts the message to JSON bytes.
func (m *AuditEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AuditEventMessageFromJSON parses a message from JSON bytes.
func AuditEventMessageFromJSON(data []byte) (*AuditEventMessage, error) {
	var msg AuditEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
