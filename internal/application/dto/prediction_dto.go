package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// PredictionOutput is the verdict line printed by the CLI.
type PredictionOutput struct {
	Prediction bool `json:"prediction"`
}

// SubmitPredictionRequest is the input DTO for the SubmitPrediction use case.
type SubmitPredictionRequest struct {
	Record model.PatientRecord
}

// PredictionResponse is returned after a prediction has been stored.
type PredictionResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	ID         uuid.UUID `json:"id"`
	Prediction bool      `json:"prediction"`
}

// GetPredictionRequest is the input DTO for retrieving a stored prediction.
type GetPredictionRequest struct {
	ID uuid.UUID `json:"id"`
}

// PredictionDetailResponse is the full view of a stored prediction.
type PredictionDetailResponse struct {
	CreatedAt     time.Time   `json:"created_at"`
	PredictedAt   time.Time   `json:"predicted_at"`
	RiskFactors   []string    `json:"risk_factors"`
	Name          string      `json:"name"`
	Age           json.Number `json:"age"`
	Gender        json.Number `json:"gender"`
	BloodPressure json.Number `json:"bloodPressure"`
	Cholesterol   json.Number `json:"cholesterol"`
	ChestPainType json.Number `json:"chestPainType"`
	Strategy      string      `json:"strategy"`
	ID            uuid.UUID   `json:"id"`
	Prediction    bool        `json:"prediction"`
}

// ListPredictionsRequest selects one page of stored predictions.
type ListPredictionsRequest struct {
	Limit  int
	Offset int
}

// ListPredictionsResponse is one page of stored predictions.
type ListPredictionsResponse struct {
	Predictions []PredictionDetailResponse `json:"predictions"`
	Limit       int                        `json:"limit"`
	Offset      int                        `json:"offset"`
}

// RecommendationsResponse carries diet guidance for a verdict.
type RecommendationsResponse struct {
	Recommendations []service.DietRecommendation `json:"recommendations"`
	Prediction      bool                         `json:"prediction"`
}

// FromModel maps a stored prediction to the response DTO.
func FromModel(p *model.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:         p.ID(),
		Prediction: p.HasHeartDisease(),
		Timestamp:  p.PredictedAt(),
	}
}

// DetailFromModel maps a stored prediction to its full view.
func DetailFromModel(p *model.Prediction) PredictionDetailResponse {
	rec := p.Record()
	number := func(f valueobject.Field) json.Number {
		v, _ := rec.Value(f)
		return json.Number(v.String())
	}

	return PredictionDetailResponse{
		ID:            p.ID(),
		Name:          p.Name(),
		Age:           number(valueobject.FieldAge),
		Gender:        number(valueobject.FieldGender),
		BloodPressure: number(valueobject.FieldBloodPressure),
		Cholesterol:   number(valueobject.FieldCholesterol),
		ChestPainType: number(valueobject.FieldChestPainType),
		Prediction:    p.HasHeartDisease(),
		Strategy:      p.Strategy().String(),
		RiskFactors:   valueobject.RiskFactorStrings(p.RiskFactors()),
		CreatedAt:     p.CreatedAt(),
		PredictedAt:   p.PredictedAt(),
	}
}
