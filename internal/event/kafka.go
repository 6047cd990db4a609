package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events through a kafka-go writer keyed by aggregate id.
type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, log *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, e *Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(e.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "source", Value: []byte(e.Source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", e.EventType),
			zap.Error(err),
		)
		return fmt.Errorf("publish event to %s: %w", topic, err)
	}

	p.log.Debug("event published",
		zap.String("topic", topic),
		zap.String("event_type", e.EventType),
		zap.String("aggregate_id", e.AggregateID),
	)
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
