package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/pkg/events"
)

// PredictionRepository defines the persistence port for predictions.
type PredictionRepository interface {
	// Save persists a new prediction.
	Save(ctx context.Context, prediction *model.Prediction) error

	// FindByID retrieves a prediction by its unique identifier. It returns
	// model.ErrPredictionNotFound when none matches.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)

	// List returns the most recent predictions first.
	List(ctx context.Context, limit, offset int) ([]*model.Prediction, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}
