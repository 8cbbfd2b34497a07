package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// allStream is the buffer key of clients subscribed to every datasource.
const allStream = "*"

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type       string          `json:"type"`
	ID         uint64          `json:"id"`
	Datasource string          `json:"datasource,omitempty"`
	Data       json.RawMessage `json:"data"`
	Time       time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence hands out event IDs. IDs are global so clients watching
// every datasource see one increasing sequence.
type EventSequence struct {
	n atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{}
}

// Next returns the next event ID.
func (es *EventSequence) Next() uint64 {
	return es.n.Add(1)
}
