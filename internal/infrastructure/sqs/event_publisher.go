package sqs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/bibbank/heartrisk/pkg/events"
)

// MessageSender is the subset of the SQS client the publisher needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
}

// Publisher implements port.EventPublisher on an SQS queue. Each event is one
// message; event metadata travels as message attributes.
type Publisher struct {
	client   MessageSender
	logger   *slog.Logger
	queueURL string
}

// NewPublisher creates a new SQS event publisher for queueURL.
func NewPublisher(client MessageSender, queueURL string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// NewClient builds an SQS client from the default AWS configuration chain.
func NewClient(ctx context.Context) (*awssqs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return awssqs.New(awssqs.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
	}), nil
}

// Publish sends events in order and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		eventType := evt.EventType()

		payload, err := events.Encode(evt)
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", eventType, err)
		}

		attrs := make(map[string]types.MessageAttributeValue)
		for k, v := range events.Attributes(evt) {
			attrs[k] = stringAttribute(v)
		}

		out, err := p.client.SendMessage(ctx, &awssqs.SendMessageInput{
			QueueUrl:    aws.String(p.queueURL),
			MessageBody: aws.String(string(payload)),
			MessageAttributes: attrs,
		})
		if err != nil {
			return fmt.Errorf("failed to send event %s to SQS: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "event sent",
			slog.String("event_type", eventType),
			slog.String("message_id", aws.ToString(out.MessageId)),
		)
	}
	return nil
}

func stringAttribute(v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
}
