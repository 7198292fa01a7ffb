package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// minRiskFactors is how many risk factors must hold for a positive verdict.
const minRiskFactors = 2

var (
	chestPainThreshold     = decimal.NewFromInt(2)
	cholesterolThreshold   = decimal.NewFromInt(250)
	bloodPressureThreshold = decimal.NewFromInt(150)
)

// RuleBasedScorer is a stateless domain service that counts clinical
// threshold violations.
type RuleBasedScorer struct{}

// NewRuleBasedScorer creates a new RuleBasedScorer instance.
func NewRuleBasedScorer() *RuleBasedScorer {
	return &RuleBasedScorer{}
}

// Name identifies the strategy.
func (s *RuleBasedScorer) Name() valueobject.StrategyName {
	return valueobject.StrategyRuleBased
}

// Evaluate returns a positive verdict when at least two risk factors hold.
func (s *RuleBasedScorer) Evaluate(_ context.Context, record model.PatientRecord) (model.Verdict, error) {
	if err := record.Require(model.RuleBasedFields...); err != nil {
		return model.Verdict{}, err
	}

	chestPain, _ := record.Value(valueobject.FieldChestPainType)
	cholesterol, _ := record.Value(valueobject.FieldCholesterol)
	bloodPressure, _ := record.Value(valueobject.FieldBloodPressure)

	factors := make([]valueobject.RiskFactor, 0, 3)

	// Rule: chest pain type 2 or 3.
	if chestPain.GreaterThanOrEqual(chestPainThreshold) {
		factors = append(factors, valueobject.RiskFactorChestPain)
	}

	// Rule: cholesterol above 250 mg/dL.
	if cholesterol.GreaterThan(cholesterolThreshold) {
		factors = append(factors, valueobject.RiskFactorHighCholesterol)
	}

	// Rule: resting blood pressure above 150 mmHg.
	if bloodPressure.GreaterThan(bloodPressureThreshold) {
		factors = append(factors, valueobject.RiskFactorHighBloodPressure)
	}

	return model.Verdict{
		HasHeartDisease: len(factors) >= minRiskFactors,
		Strategy:        s.Name(),
		RiskFactors:     factors,
	}, nil
}
