// Package events carries the domain event contract shared by aggregates and
// the publishers that ship those events off the process.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source identifies this service on every encoded event.
const Source = "heartrisk"

// DomainEvent is implemented by every event an aggregate records.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent holds the metadata of an event. Concrete events embed it next to
// their exported payload fields, which keeps the metadata out of the payload.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// NewBaseEvent stamps a fresh event ID. A zero occurredAt means now.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, occurredAt time.Time) BaseEvent {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }

// Recorder is embedded in aggregates and buffers the events raised by state
// changes until the application layer drains them for publishing.
type Recorder struct {
	pending []DomainEvent
}

// Record buffers evt.
func (r *Recorder) Record(evt DomainEvent) {
	r.pending = append(r.pending, evt)
}

// Pending reports how many events are waiting to be drained.
func (r *Recorder) Pending() int {
	return len(r.pending)
}

// Drain hands over the buffered events in recording order and empties the buffer.
func (r *Recorder) Drain() []DomainEvent {
	drained := r.pending
	r.pending = nil
	return drained
}

// Envelope is the wire form of an event: metadata plus the event's own JSON
// as Data.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

// Encode marshals evt into its Envelope.
func Encode(evt DomainEvent) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s: %w", evt.EventType(), err)
	}
	out, err := json.Marshal(Envelope{
		ID:            evt.EventID(),
		Type:          evt.EventType(),
		Source:        Source,
		AggregateID:   evt.AggregateID(),
		AggregateType: evt.AggregateType(),
		OccurredAt:    evt.OccurredAt(),
		Data:          data,
	})
	if err != nil {
		return nil, fmt.Errorf("events: marshal envelope %s: %w", evt.EventType(), err)
	}
	return out, nil
}

// Attributes returns the metadata transports attach as headers or message
// attributes so consumers can route without decoding the body.
func Attributes(evt DomainEvent) map[string]string {
	return map[string]string{
		"event_id":       evt.EventID().String(),
		"event_type":     evt.EventType(),
		"aggregate_type": evt.AggregateType(),
		"aggregate_id":   evt.AggregateID().String(),
		"source":         Source,
	}
}
