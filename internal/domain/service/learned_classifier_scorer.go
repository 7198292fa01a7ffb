package service

import (
	"context"
	"fmt"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// LearnedClassifierScorer delegates the verdict to a fitted classifier.
type LearnedClassifierScorer struct {
	provider port.ClassifierProvider
}

// NewLearnedClassifierScorer creates a scorer backed by provider.
func NewLearnedClassifierScorer(provider port.ClassifierProvider) *LearnedClassifierScorer {
	return &LearnedClassifierScorer{provider: provider}
}

// Name identifies the strategy.
func (s *LearnedClassifierScorer) Name() valueobject.StrategyName {
	return valueobject.StrategyLearnedClassifier
}

// Evaluate builds the feature vector before touching the provider so that a
// malformed record never triggers a dataset fetch.
func (s *LearnedClassifierScorer) Evaluate(ctx context.Context, record model.PatientRecord) (model.Verdict, error) {
	features, err := record.FeatureVector(model.ClassifierFields...)
	if err != nil {
		return model.Verdict{}, err
	}

	clf, err := s.provider.Classifier(ctx)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("failed to obtain classifier: %w", err)
	}

	positive, err := clf.Predict(ctx, features)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("failed to run classifier: %w", err)
	}

	return model.Verdict{
		HasHeartDisease: positive,
		Strategy:        s.Name(),
	}, nil
}
