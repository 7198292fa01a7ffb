package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// InstrumentedStrategy decorates a ScoringStrategy with evaluation counters
// and latency histograms.
type InstrumentedStrategy struct {
	next        service.ScoringStrategy
	evaluations metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewInstrumentedStrategy wraps next with instruments created from meter.
func NewInstrumentedStrategy(next service.ScoringStrategy, meter metric.Meter) (*InstrumentedStrategy, error) {
	evaluations, err := meter.Int64Counter("heartrisk_evaluations",
		metric.WithDescription("Patient records evaluated, by strategy and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("heartrisk_evaluation_duration",
		metric.WithDescription("Time spent evaluating one patient record."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &InstrumentedStrategy{next: next, evaluations: evaluations, duration: duration}, nil
}

// Name returns the wrapped strategy's name.
func (s *InstrumentedStrategy) Name() valueobject.StrategyName {
	return s.next.Name()
}

// Evaluate delegates and records the outcome.
func (s *InstrumentedStrategy) Evaluate(ctx context.Context, record model.PatientRecord) (model.Verdict, error) {
	start := time.Now()
	v, err := s.next.Evaluate(ctx, record)

	attrs := metric.WithAttributes(
		attribute.String("strategy", s.next.Name().String()),
		attribute.String("outcome", outcome(v, err)),
	)
	s.evaluations.Add(ctx, 1, attrs)
	s.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	return v, err
}

func outcome(v model.Verdict, err error) string {
	switch {
	case err == nil && v.HasHeartDisease:
		return "positive"
	case err == nil:
		return "negative"
	case model.IsInputError(err):
		return "invalid_input"
	case model.IsDataUnavailable(err):
		return "data_unavailable"
	default:
		return "error"
	}
}
