package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/domain/port"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ListPredictions is the use case for paging through stored predictions,
// newest first.
type ListPredictions struct {
	repo port.PredictionRepository
}

// NewListPredictions creates a new ListPredictions use case.
func NewListPredictions(repo port.PredictionRepository) *ListPredictions {
	return &ListPredictions{repo: repo}
}

// Execute clamps the page bounds and returns one page.
func (uc *ListPredictions) Execute(ctx context.Context, req dto.ListPredictionsRequest) (dto.ListPredictionsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(req.Offset, 0)

	predictions, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return dto.ListPredictionsResponse{}, fmt.Errorf("failed to list predictions: %w", err)
	}

	resp := dto.ListPredictionsResponse{
		Predictions: make([]dto.PredictionDetailResponse, 0, len(predictions)),
		Limit:       limit,
		Offset:      offset,
	}
	for _, p := range predictions {
		resp.Predictions = append(resp.Predictions, dto.DetailFromModel(p))
	}
	return resp, nil
}
