package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/infrastructure/memory"
	"github.com/bibbank/heartrisk/internal/infrastructure/messaging"
	"github.com/bibbank/heartrisk/internal/presentation/rest"
	"github.com/bibbank/heartrisk/pkg/observability"
	"github.com/bibbank/heartrisk/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return observability.Discard()
}

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	logger := discardLogger()
	repo := memory.NewPredictionRepository()

	h := rest.NewPredictionHandler(
		usecase.NewSubmitPrediction(repo, messaging.NewLogPublisher(logger), service.NewRuleBasedScorer(), logger),
		usecase.NewGetPrediction(repo),
		usecase.NewListPredictions(repo),
		usecase.NewRecommendDiet(service.NewDietAdvisor()),
		logger,
	)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return rest.LoggingMiddleware(logger)(rest.LimitBody(mux))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPredict(t *testing.T) {
	api := newAPI(t)

	rec := do(t, api, http.MethodPost, "/api/predict", testutil.PatientFull)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		ID         string `json:"id"`
		Timestamp  string `json:"timestamp"`
		Prediction bool   `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Prediction, "chest pain 2 and cholesterol 280 are two factors")
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.Timestamp)

	rec = do(t, api, http.MethodGet, "/api/predictions/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Jane Doe", detail["name"])
	assert.Equal(t, "rule-based", detail["strategy"])
	assert.ElementsMatch(t, []any{"chest_pain", "high_cholesterol"}, detail["risk_factors"])

	rec = do(t, api, http.MethodGet, "/api/predictions?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)
}

func TestPredict_InvalidInput(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"age":54,"gender":1,"chestPainType":2,"bloodPressure":130,"cholesterol":280}`, "name"},
		{"age out of range", `{"name":"A","age":12,"gender":1,"chestPainType":2,"bloodPressure":130,"cholesterol":280}`, "age"},
		{"missing cholesterol", `{"name":"A","age":54,"gender":1,"chestPainType":2,"bloodPressure":130}`, "cholesterol"},
		{"gender not binary", `{"name":"A","age":54,"gender":2,"chestPainType":2,"bloodPressure":130,"cholesterol":280}`, "gender"},
		{"malformed", `{"name":`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, api, http.MethodPost, "/api/predict", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body rest.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Invalid input data", body.Message)
			require.NotEmpty(t, body.Errors)
			if tt.field != "" {
				assert.Equal(t, tt.field, body.Errors[0].Field)
			}
		})
	}
}

func TestGetPrediction_Errors(t *testing.T) {
	api := newAPI(t)

	rec := do(t, api, http.MethodGet, "/api/predictions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/predictions/"+testutil.TestPredictionID1.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Prediction not found"}`, rec.Body.String())
}

func TestRecommendations(t *testing.T) {
	api := newAPI(t)

	rec := do(t, api, http.MethodGet, "/api/recommendations?prediction=false", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Recommendations []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"recommendations"`
		Prediction bool `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Prediction)
	assert.Len(t, body.Recommendations, 7)

	rec = do(t, api, http.MethodGet, "/api/recommendations?prediction=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		mux := http.NewServeMux()
		rest.NewHealthHandler(discardLogger(), map[string]rest.ReadinessCheck{
			"database": func(context.Context) error { return nil },
		}).RegisterRoutes(mux)

		rec := do(t, mux, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

		rec = do(t, mux, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"ok"`)
	})

	t.Run("not ready", func(t *testing.T) {
		mux := http.NewServeMux()
		rest.NewHealthHandler(discardLogger(), map[string]rest.ReadinessCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
			"kafka":    func(context.Context) error { return nil },
		}).RegisterRoutes(mux)

		rec := do(t, mux, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"failing"`)
		assert.Contains(t, rec.Body.String(), `"kafka":"ok"`)
		assert.Contains(t, rec.Body.String(), `"status":"not_ready"`)
	})
}
