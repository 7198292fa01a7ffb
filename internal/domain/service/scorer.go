package service

import (
	"context"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// ScoringStrategy defines the interface for heart-disease decision strategies.
// Both RuleBasedScorer and LearnedClassifierScorer implement this.
type ScoringStrategy interface {
	Name() valueobject.StrategyName
	Evaluate(ctx context.Context, record model.PatientRecord) (model.Verdict, error)
}
