package model

import "github.com/bibbank/heartrisk/internal/domain/valueobject"

// Verdict is the outcome of applying one scoring strategy to one record.
// RiskFactors is only populated by the threshold strategy.
type Verdict struct {
	Strategy        valueobject.StrategyName
	RiskFactors     []valueobject.RiskFactor
	HasHeartDisease bool
}
