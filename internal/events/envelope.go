package events

import "time"

// Envelope is the common wrapper for all events emitted by this service. It
// is generic to keep payloads strongly typed per event.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}
