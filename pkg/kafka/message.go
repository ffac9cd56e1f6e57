package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is an event envelope published by a service.
type Message struct {
	Key       string            // partition key (e.g. booking id)
	Value     []byte            // JSON-encoded payload
	Headers   map[string]string // event metadata
	Timestamp time.Time
}

// Header keys shared by all services.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// NewEvent builds a message for a domain event. The payload is JSON-encoded;
// encoding errors surface from Publish as an empty-value rejection.
func NewEvent(eventType, source, key string, payload any) Message {
	value, _ := json.Marshal(payload)
	now := time.Now().UTC()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}
}

// DecodeValue decodes the payload into v.
func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}
