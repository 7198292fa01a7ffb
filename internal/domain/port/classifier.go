package port

import (
	"context"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// DatasetProvider fetches the labeled training table from its static location.
// Failures are reported as *model.DataUnavailableError.
type DatasetProvider interface {
	FetchTrainingTable(ctx context.Context) (*model.TrainingTable, error)
}

// Classifier is a fitted model that maps a raw feature vector to a verdict.
type Classifier interface {
	Predict(ctx context.Context, features []float64) (bool, error)
}

// ClassifierProvider hands out a ready Classifier, fitting or loading it on
// first use.
type ClassifierProvider interface {
	Classifier(ctx context.Context) (Classifier, error)
}

// ModelTrainer fits a classifier on a training table and persists it.
type ModelTrainer interface {
	Train(ctx context.Context, table *model.TrainingTable) (model.TrainingReport, error)
}
