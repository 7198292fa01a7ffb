package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// EvaluatePatient is the stateless use case behind the CLI: one record in,
// one verdict out, nothing stored.
type EvaluatePatient struct {
	strategy service.ScoringStrategy
	logger   *slog.Logger
}

// NewEvaluatePatient creates a new EvaluatePatient use case.
func NewEvaluatePatient(strategy service.ScoringStrategy, logger *slog.Logger) *EvaluatePatient {
	return &EvaluatePatient{strategy: strategy, logger: logger}
}

// Execute applies the configured strategy to record.
func (uc *EvaluatePatient) Execute(ctx context.Context, record model.PatientRecord) (dto.PredictionOutput, error) {
	verdict, err := uc.strategy.Evaluate(ctx, record)
	if err != nil {
		return dto.PredictionOutput{}, fmt.Errorf("failed to evaluate patient: %w", err)
	}

	uc.logger.DebugContext(ctx, "patient evaluated",
		slog.String("strategy", verdict.Strategy.String()),
		slog.Bool("prediction", verdict.HasHeartDisease),
		slog.Any("risk_factors", valueobject.RiskFactorStrings(verdict.RiskFactors)),
	)

	return dto.PredictionOutput{Prediction: verdict.HasHeartDisease}, nil
}
