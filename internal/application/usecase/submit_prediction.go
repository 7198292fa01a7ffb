package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/service"
)

// SubmitPrediction is the use case for scoring a named patient and storing
// the outcome.
type SubmitPrediction struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	strategy  service.ScoringStrategy
	logger    *slog.Logger
}

// NewSubmitPrediction creates a new SubmitPrediction use case.
func NewSubmitPrediction(
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	strategy service.ScoringStrategy,
	logger *slog.Logger,
) *SubmitPrediction {
	return &SubmitPrediction{
		repo:      repo,
		publisher: publisher,
		strategy:  strategy,
		logger:    logger,
	}
}

// Execute validates the record, scores it, persists the prediction and
// publishes its events. Once the prediction is stored the call succeeds; a
// failed publish is only logged.
func (uc *SubmitPrediction) Execute(ctx context.Context, req dto.SubmitPredictionRequest) (dto.PredictionResponse, error) {
	// 1. Create the prediction aggregate; this enforces name and ranges.
	prediction, err := model.NewPrediction(req.Record)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to create prediction: %w", err)
	}

	// 2. Score the record.
	verdict, err := uc.strategy.Evaluate(ctx, req.Record)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to evaluate patient: %w", err)
	}

	// 3. Record the verdict on the aggregate.
	if err := prediction.Conclude(verdict); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to conclude prediction: %w", err)
	}

	// 4. Persist.
	if err := uc.repo.Save(ctx, prediction); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to save prediction: %w", err)
	}

	// 5. Publish domain events.
	events := prediction.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish prediction events",
				slog.String("prediction_id", prediction.ID().String()),
				slog.Int("events", len(events)),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromModel(prediction), nil
}
