package ml

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// TrainerConfig holds the fitting hyperparameters.
type TrainerConfig struct {
	Forest   ForestConfig
	TestSize float64
}

// DefaultTrainerConfig returns an 80/20 split and DefaultForestConfig.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{Forest: DefaultForestConfig(), TestSize: 0.2}
}

// Trainer fits scaler+forest models. When a store is configured, Train also
// persists the result. It implements port.ModelTrainer.
type Trainer struct {
	store  *FileStore
	logger *slog.Logger
	cfg    TrainerConfig
}

// NewTrainer creates a Trainer. store may be nil.
func NewTrainer(cfg TrainerConfig, store *FileStore, logger *slog.Logger) *Trainer {
	return &Trainer{cfg: cfg, store: store, logger: logger}
}

// Fit splits the table, standardizes on the training split, grows the forest
// and measures accuracy on the held-out split.
func (t *Trainer) Fit(ctx context.Context, table *model.TrainingTable) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid training table: %w", err)
	}

	trainIdx, testIdx, err := TrainTestSplit(table.Len(), t.cfg.TestSize, t.cfg.Forest.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split training table: %w", err)
	}

	trainX, trainY := subset(table, trainIdx)
	testX, testY := subset(table, testIdx)

	scaler, err := FitScaler(trainX)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}
	scaledTrain, err := scaler.TransformAll(trainX)
	if err != nil {
		return nil, fmt.Errorf("failed to scale training split: %w", err)
	}

	forest, err := FitForest(scaledTrain, trainY, t.cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("failed to fit forest: %w", err)
	}

	m := &Model{
		Version: artifactVersion,
		Columns: append([]string(nil), table.Columns...),
		Scaler:  scaler,
		Forest:  forest,
	}

	correct := 0
	for i, row := range testX {
		positive, err := m.Predict(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate test split: %w", err)
		}
		if positive == (testY[i] == 1) {
			correct++
		}
	}

	m.Report = model.TrainingReport{
		TrainedAt:    time.Now().UTC(),
		TrainSize:    len(trainIdx),
		TestSize:     len(testIdx),
		TestAccuracy: float64(correct) / float64(len(testIdx)),
		Trees:        len(forest.Trees),
		Seed:         t.cfg.Forest.Seed,
	}

	t.logger.Info("classifier fitted",
		slog.Int("train_size", m.Report.TrainSize),
		slog.Int("test_size", m.Report.TestSize),
		slog.Float64("test_accuracy", m.Report.TestAccuracy),
	)

	return m, nil
}

// Train fits a model and, when a store is configured, persists it.
func (t *Trainer) Train(ctx context.Context, table *model.TrainingTable) (model.TrainingReport, error) {
	m, err := t.Fit(ctx, table)
	if err != nil {
		return model.TrainingReport{}, err
	}

	if t.store != nil {
		m.Report.ArtifactPath = t.store.Path()
		if err := t.store.Save(ctx, m); err != nil {
			return model.TrainingReport{}, fmt.Errorf("failed to save model: %w", err)
		}
		t.logger.Info("model artifact saved", slog.String("path", t.store.Path()))
	}

	return m.Report, nil
}

func subset(table *model.TrainingTable, idx []int) ([][]float64, []int) {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = table.Rows[j]
		y[i] = table.Labels[j]
	}
	return x, y
}
