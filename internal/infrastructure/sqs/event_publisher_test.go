package sqs_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/domain/event"
	"github.com/bibbank/heartrisk/internal/infrastructure/sqs"
	"github.com/bibbank/heartrisk/pkg/events"
)

type recordingSender struct {
	failAfter int
	inputs    []*awssqs.SendMessageInput
}

func (r *recordingSender) SendMessage(_ context.Context, params *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	if r.failAfter > 0 && len(r.inputs) >= r.failAfter {
		return nil, errors.New("queue does not exist")
	}
	r.inputs = append(r.inputs, params)
	return &awssqs.SendMessageOutput{MessageId: aws.String(uuid.NewString())}, nil
}

const queueURL = "https://sqs.eu-west-1.amazonaws.com/000000000000/heartrisk-predictions"

func TestPublisher_Publish(t *testing.T) {
	sender := &recordingSender{}
	pub := sqs.NewPublisher(sender, queueURL, slog.Default())

	id := uuid.New()
	now := time.Now().UTC()
	err := pub.Publish(context.Background(),
		event.NewPredictionCompleted(id, true, "rule-based", []string{"high_cholesterol", "high_blood_pressure"}, now),
		event.NewHeartDiseasePredicted(id, "rule-based", []string{"high_cholesterol", "high_blood_pressure"}, now),
	)
	require.NoError(t, err)
	require.Len(t, sender.inputs, 2)

	first := sender.inputs[0]
	assert.Equal(t, queueURL, aws.ToString(first.QueueUrl))
	assert.Equal(t, event.EventTypePredictionCompleted, aws.ToString(first.MessageAttributes["event_type"].StringValue))
	assert.Equal(t, id.String(), aws.ToString(first.MessageAttributes["aggregate_id"].StringValue))
	assert.Equal(t, "String", aws.ToString(first.MessageAttributes["event_id"].DataType))

	var env events.Envelope
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(first.MessageBody)), &env))
	assert.Equal(t, events.Source, env.Source)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, id.String(), payload["prediction_id"])

	assert.Equal(t, event.EventTypeHeartDiseasePredicted, aws.ToString(sender.inputs[1].MessageAttributes["event_type"].StringValue))
}

func TestPublisher_StopsAtFirstFailure(t *testing.T) {
	sender := &recordingSender{failAfter: 1}
	pub := sqs.NewPublisher(sender, queueURL, slog.Default())

	id := uuid.New()
	err := pub.Publish(context.Background(),
		event.NewPredictionCompleted(id, true, "rule-based", nil, time.Now()),
		event.NewHeartDiseasePredicted(id, "rule-based", nil, time.Now()),
	)
	assert.ErrorContains(t, err, "queue does not exist")
	assert.ErrorContains(t, err, event.EventTypeHeartDiseasePredicted)
	assert.Len(t, sender.inputs, 1)
}
