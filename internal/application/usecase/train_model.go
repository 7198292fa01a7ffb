package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
)

// TrainModel is the offline use case that fits the classifier once so scoring
// can reuse the artifact.
type TrainModel struct {
	dataset port.DatasetProvider
	trainer port.ModelTrainer
}

// NewTrainModel creates a new TrainModel use case.
func NewTrainModel(dataset port.DatasetProvider, trainer port.ModelTrainer) *TrainModel {
	return &TrainModel{dataset: dataset, trainer: trainer}
}

// Execute fetches the training table and fits the classifier.
func (uc *TrainModel) Execute(ctx context.Context) (model.TrainingReport, error) {
	table, err := uc.dataset.FetchTrainingTable(ctx)
	if err != nil {
		return model.TrainingReport{}, fmt.Errorf("failed to fetch training table: %w", err)
	}

	report, err := uc.trainer.Train(ctx, table)
	if err != nil {
		return model.TrainingReport{}, fmt.Errorf("failed to train classifier: %w", err)
	}
	return report, nil
}
