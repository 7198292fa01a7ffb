package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/domain/port"
)

// GetPrediction is the use case for retrieving a stored prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute returns the prediction or an error wrapping model.ErrPredictionNotFound.
func (uc *GetPrediction) Execute(ctx context.Context, req dto.GetPredictionRequest) (dto.PredictionDetailResponse, error) {
	prediction, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.PredictionDetailResponse{}, fmt.Errorf("failed to find prediction %s: %w", req.ID, err)
	}
	return dto.DetailFromModel(prediction), nil
}
