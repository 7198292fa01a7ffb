package service

import (
	"fmt"

	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// NewScoringStrategy returns the strategy registered under name. The provider
// is only consulted for the learned classifier and may be nil otherwise.
func NewScoringStrategy(name valueobject.StrategyName, provider port.ClassifierProvider) (ScoringStrategy, error) {
	switch {
	case name.Equal(valueobject.StrategyRuleBased):
		return NewRuleBasedScorer(), nil
	case name.Equal(valueobject.StrategyLearnedClassifier):
		if provider == nil {
			return nil, fmt.Errorf("learned classifier requires a classifier provider")
		}
		return NewLearnedClassifierScorer(provider), nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy: %q", name.String())
	}
}
