package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Source = "kunapet-backend"

	TopicCheckoutCompleted = "kunapet.checkout.completed"
	TypeCheckoutCompleted  = "checkout.completed"
)

// Event is the envelope written to every topic.
type Event struct {
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Source      string          `json:"source"`
	Data        json.RawMessage `json:"data"`
}

// New wraps data in an envelope with a fresh id.
func New(eventType, aggregateID string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal event data: %w", err)
	}
	return &Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Source:      Source,
		Data:        raw,
	}, nil
}

// Publisher delivers events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, e *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *Event) error { return nil }
func (NopPublisher) Close() error                                  { return nil }
