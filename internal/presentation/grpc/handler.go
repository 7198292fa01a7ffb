package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

// Compile-time assertion that HeartRiskHandler implements HeartRiskServiceServer.
var _ HeartRiskServiceServer = (*HeartRiskHandler)(nil)

// HeartRiskHandler implements the gRPC HeartRiskServiceServer interface.
type HeartRiskHandler struct {
	UnimplementedHeartRiskServiceServer
	submitPrediction *usecase.SubmitPrediction
	getPrediction    *usecase.GetPrediction
	logger           *slog.Logger
}

// NewHeartRiskHandler creates a new gRPC handler.
func NewHeartRiskHandler(
	submitPrediction *usecase.SubmitPrediction,
	getPrediction *usecase.GetPrediction,
	logger *slog.Logger,
) *HeartRiskHandler {
	return &HeartRiskHandler{
		submitPrediction: submitPrediction,
		getPrediction:    getPrediction,
		logger:           logger,
	}
}

// Proto-aligned request/response message types.

// PatientMsg represents the proto Patient message. Numeric attributes are
// decimal strings; an empty string means the attribute was not supplied.
type PatientMsg struct {
	Name          string `json:"name"`
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	ChestPainType string `json:"chest_pain_type"`
	BloodPressure string `json:"blood_pressure"`
	Cholesterol   string `json:"cholesterol"`
}

// PredictionMsg represents the proto Prediction message.
type PredictionMsg struct {
	ID          string      `json:"id"`
	Patient     *PatientMsg `json:"patient,omitempty"`
	Strategy    string      `json:"strategy,omitempty"`
	RiskFactors []string    `json:"risk_factors,omitempty"`
	PredictedAt string      `json:"predicted_at"`
	Prediction  bool        `json:"prediction"`
}

// EvaluateRequest represents the proto EvaluateRequest message.
type EvaluateRequest struct {
	Patient *PatientMsg `json:"patient"`
}

// EvaluateResponse represents the proto EvaluateResponse message.
type EvaluateResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// GetPredictionRequest represents the proto GetPredictionRequest message.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// GetPredictionResponse represents the proto GetPredictionResponse message.
type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// Evaluate scores and stores a patient.
func (h *HeartRiskHandler) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	if req == nil || req.Patient == nil {
		return nil, status.Error(codes.InvalidArgument, "patient is required")
	}

	record, err := recordFromMsg(req.Patient)
	if err != nil {
		return nil, toStatus(err)
	}

	result, err := h.submitPrediction.Execute(ctx, dto.SubmitPredictionRequest{Record: record})
	if err != nil {
		if !model.IsInputError(err) {
			h.logger.Error("failed to evaluate patient", slog.String("error", err.Error()))
		}
		return nil, toStatus(err)
	}

	return &EvaluateResponse{
		Prediction: &PredictionMsg{
			ID:          result.ID.String(),
			Prediction:  result.Prediction,
			PredictedAt: result.Timestamp.Format(time.RFC3339Nano),
		},
	}, nil
}

// GetPrediction returns a stored prediction.
func (h *HeartRiskHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getPrediction.Execute(ctx, dto.GetPredictionRequest{ID: id})
	if err != nil {
		if errors.Is(err, model.ErrPredictionNotFound) {
			return nil, status.Errorf(codes.NotFound, "prediction %s not found", id)
		}
		h.logger.Error("failed to get prediction", slog.String("id", id.String()), slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetPredictionResponse{
		Prediction: &PredictionMsg{
			ID: result.ID.String(),
			Patient: &PatientMsg{
				Name:          result.Name,
				Age:           result.Age.String(),
				Gender:        result.Gender.String(),
				ChestPainType: result.ChestPainType.String(),
				BloodPressure: result.BloodPressure.String(),
				Cholesterol:   result.Cholesterol.String(),
			},
			Strategy:    result.Strategy,
			RiskFactors: result.RiskFactors,
			Prediction:  result.Prediction,
			PredictedAt: result.PredictedAt.Format(time.RFC3339Nano),
		},
	}, nil
}

func recordFromMsg(msg *PatientMsg) (model.PatientRecord, error) {
	raw := map[valueobject.Field]string{
		valueobject.FieldAge:           msg.Age,
		valueobject.FieldGender:        msg.Gender,
		valueobject.FieldChestPainType: msg.ChestPainType,
		valueobject.FieldBloodPressure: msg.BloodPressure,
		valueobject.FieldCholesterol:   msg.Cholesterol,
	}

	values := make(map[valueobject.Field]decimal.Decimal, len(raw))
	var violations []model.FieldViolation
	for _, f := range valueobject.AllFields() {
		s := raw[f]
		if s == "" {
			continue
		}
		v, err := valueobject.ParseValue(s)
		if err != nil {
			violations = append(violations, model.FieldViolation{Field: f.String(), Message: err.Error()})
			continue
		}
		values[f] = v
	}
	if len(violations) > 0 {
		return model.PatientRecord{}, &model.InputError{Violations: violations}
	}
	return model.NewPatientRecord(msg.Name, values)
}

func toStatus(err error) error {
	switch {
	case model.IsInputError(err):
		var inputErr *model.InputError
		errors.As(err, &inputErr)
		return status.Error(codes.InvalidArgument, inputErr.Error())
	case model.IsDataUnavailable(err):
		return status.Error(codes.Unavailable, "classifier data unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
