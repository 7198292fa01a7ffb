package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/heartrisk/pkg/events"
	pkgkafka "github.com/bibbank/heartrisk/pkg/kafka"
)

// MessageProducer is the subset of pkgkafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher implements port.EventPublisher using Kafka.
type Publisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(producer MessageProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka keyed by aggregate ID, so all events of
// one prediction land on the same partition in order.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		eventType := evt.EventType()

		payload, err := events.Encode(evt)
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: payload,
			Headers: events.Attributes(evt),
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
