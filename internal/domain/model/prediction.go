package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/internal/domain/event"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
	"github.com/bibbank/heartrisk/pkg/events"
)

// Prediction is the aggregate root for a stored heart-disease prediction.
type Prediction struct {
	createdAt       time.Time
	predictedAt     time.Time
	record          PatientRecord
	strategy        valueobject.StrategyName
	riskFactors     []valueobject.RiskFactor
	events          events.Recorder
	version         int
	hasHeartDisease bool
	concluded       bool
	id              uuid.UUID
}

// NewPrediction creates an unconcluded prediction for a named patient.
// The record must carry every classifier field so the stored row is complete.
func NewPrediction(record PatientRecord) (*Prediction, error) {
	var violations []FieldViolation
	if strings.TrimSpace(record.Name()) == "" {
		violations = append(violations, FieldViolation{Field: "name", Message: "name is required"})
	}
	var rangeErr *InputError
	if err := record.ValidateRanges(ClassifierFields...); errors.As(err, &rangeErr) {
		violations = append(violations, rangeErr.Violations...)
	}
	if len(violations) > 0 {
		return nil, &InputError{Violations: violations}
	}

	return &Prediction{
		id:          uuid.New(),
		record:      record,
		riskFactors: make([]valueobject.RiskFactor, 0),
		version:     1,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Conclude records the verdict of a scoring strategy and emits events.
func (p *Prediction) Conclude(v Verdict) error {
	if p.concluded {
		return fmt.Errorf("prediction %s is already concluded", p.id)
	}
	if v.Strategy.IsZero() {
		return fmt.Errorf("verdict strategy is required")
	}

	p.hasHeartDisease = v.HasHeartDisease
	p.strategy = v.Strategy
	if v.RiskFactors != nil {
		p.riskFactors = v.RiskFactors
	}
	p.predictedAt = time.Now().UTC()
	p.concluded = true
	p.version++

	factors := valueobject.RiskFactorStrings(p.riskFactors)
	p.events.Record(event.NewPredictionCompleted(
		p.id, p.hasHeartDisease, p.strategy.String(), factors, p.predictedAt,
	))
	if p.hasHeartDisease {
		p.events.Record(event.NewHeartDiseasePredicted(
			p.id, p.strategy.String(), factors, p.predictedAt,
		))
	}

	return nil
}

// Reconstruct rebuilds a Prediction from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	record PatientRecord,
	hasHeartDisease bool,
	strategy valueobject.StrategyName,
	riskFactors []valueobject.RiskFactor,
	version int,
	createdAt, predictedAt time.Time,
) *Prediction {
	if riskFactors == nil {
		riskFactors = make([]valueobject.RiskFactor, 0)
	}
	return &Prediction{
		id:              id,
		record:          record,
		hasHeartDisease: hasHeartDisease,
		strategy:        strategy,
		riskFactors:     riskFactors,
		version:         version,
		createdAt:       createdAt,
		predictedAt:     predictedAt,
		concluded:       true,
	}
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                         { return p.id }
func (p *Prediction) Name() string                          { return p.record.Name() }
func (p *Prediction) Record() PatientRecord                 { return p.record }
func (p *Prediction) HasHeartDisease() bool                 { return p.hasHeartDisease }
func (p *Prediction) Strategy() valueobject.StrategyName    { return p.strategy }
func (p *Prediction) RiskFactors() []valueobject.RiskFactor { return p.riskFactors }
func (p *Prediction) Concluded() bool                       { return p.concluded }
func (p *Prediction) Version() int                          { return p.version }
func (p *Prediction) CreatedAt() time.Time                  { return p.createdAt }
func (p *Prediction) PredictedAt() time.Time                { return p.predictedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (p *Prediction) DomainEvents() []events.DomainEvent {
	return p.events.Drain()
}
