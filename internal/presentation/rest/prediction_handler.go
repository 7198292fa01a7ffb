package rest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/model"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string                 `json:"message"`
	Errors  []model.FieldViolation `json:"errors,omitempty"`
}

// PredictionHandler serves the prediction API.
type PredictionHandler struct {
	submitPrediction *usecase.SubmitPrediction
	getPrediction    *usecase.GetPrediction
	listPredictions  *usecase.ListPredictions
	recommendDiet    *usecase.RecommendDiet
	logger           *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	submitPrediction *usecase.SubmitPrediction,
	getPrediction *usecase.GetPrediction,
	listPredictions *usecase.ListPredictions,
	recommendDiet *usecase.RecommendDiet,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		submitPrediction: submitPrediction,
		getPrediction:    getPrediction,
		listPredictions:  listPredictions,
		recommendDiet:    recommendDiet,
		logger:           logger,
	}
}

// RegisterRoutes registers the API endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/predict", h.Predict)
	mux.HandleFunc("GET /api/predictions", h.List)
	mux.HandleFunc("GET /api/predictions/{id}", h.Get)
	mux.HandleFunc("GET /api/recommendations", h.Recommendations)
}

// Predict scores and stores a named patient record.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Message: "Request body too large"})
		return
	}

	record, err := dto.DecodePatientRecord(body)
	if err != nil {
		h.writeInputError(w, err)
		return
	}

	resp, err := h.submitPrediction.Execute(r.Context(), dto.SubmitPredictionRequest{Record: record})
	if err != nil {
		if model.IsInputError(err) {
			h.writeInputError(w, err)
			return
		}
		h.logger.Error("prediction failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "An error occurred during prediction"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one stored prediction.
func (h *PredictionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid prediction id"})
		return
	}

	resp, err := h.getPrediction.Execute(r.Context(), dto.GetPredictionRequest{ID: id})
	if err != nil {
		if errors.Is(err, model.ErrPredictionNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Prediction not found"})
			return
		}
		h.logger.Error("failed to load prediction", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "An error occurred while loading the prediction"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List returns a page of stored predictions, newest first.
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid limit"})
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid offset"})
		return
	}

	resp, err := h.listPredictions.Execute(r.Context(), dto.ListPredictionsRequest{Limit: limit, Offset: offset})
	if err != nil {
		h.logger.Error("failed to list predictions", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "An error occurred while listing predictions"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Recommendations returns diet guidance for ?prediction=true|false.
func (h *PredictionHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	hasHeartDisease, err := strconv.ParseBool(r.URL.Query().Get("prediction"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "prediction must be true or false"})
		return
	}

	writeJSON(w, http.StatusOK, h.recommendDiet.Execute(hasHeartDisease))
}

func (h *PredictionHandler) writeInputError(w http.ResponseWriter, err error) {
	var inputErr *model.InputError
	if !errors.As(err, &inputErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid input data"})
		return
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid input data", Errors: inputErr.Violations})
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
