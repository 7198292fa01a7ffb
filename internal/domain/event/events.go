package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/pkg/events"
)

const (
	// AggregateTypePrediction is the aggregate type carried by prediction events.
	AggregateTypePrediction = "prediction"

	// EventTypePredictionCompleted is emitted when a prediction has been concluded.
	EventTypePredictionCompleted = "heartrisk.prediction.completed"

	// EventTypeHeartDiseasePredicted is emitted when a verdict is positive.
	EventTypeHeartDiseasePredicted = "heartrisk.heart_disease.predicted"
)

// PredictionCompleted is published for every concluded prediction.
type PredictionCompleted struct {
	events.BaseEvent
	PredictionID uuid.UUID `json:"prediction_id"`
	Prediction   bool      `json:"prediction"`
	Strategy     string    `json:"strategy"`
	RiskFactors  []string  `json:"risk_factors"`
	CompletedAt  time.Time `json:"completed_at"`
}

// NewPredictionCompleted builds a PredictionCompleted event.
func NewPredictionCompleted(
	predictionID uuid.UUID,
	prediction bool,
	strategy string,
	riskFactors []string,
	completedAt time.Time,
) PredictionCompleted {
	return PredictionCompleted{
		BaseEvent:    events.NewBaseEvent(EventTypePredictionCompleted, predictionID, AggregateTypePrediction, completedAt),
		PredictionID: predictionID,
		Prediction:   prediction,
		Strategy:     strategy,
		RiskFactors:  riskFactors,
		CompletedAt:  completedAt,
	}
}

// HeartDiseasePredicted is published when a patient is predicted to have
// heart disease, so downstream consumers can schedule follow-up care.
type HeartDiseasePredicted struct {
	events.BaseEvent
	PredictionID uuid.UUID `json:"prediction_id"`
	Strategy     string    `json:"strategy"`
	RiskFactors  []string  `json:"risk_factors"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// NewHeartDiseasePredicted builds a HeartDiseasePredicted event.
func NewHeartDiseasePredicted(
	predictionID uuid.UUID,
	strategy string,
	riskFactors []string,
	predictedAt time.Time,
) HeartDiseasePredicted {
	return HeartDiseasePredicted{
		BaseEvent:    events.NewBaseEvent(EventTypeHeartDiseasePredicted, predictionID, AggregateTypePrediction, predictedAt),
		PredictionID: predictionID,
		Strategy:     strategy,
		RiskFactors:  riskFactors,
		PredictedAt:  predictedAt,
	}
}
