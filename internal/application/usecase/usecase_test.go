package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/application/usecase"
	"github.com/bibbank/heartrisk/internal/domain/event"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/pkg/events"
	"github.com/bibbank/heartrisk/pkg/observability"
	"github.com/bibbank/heartrisk/pkg/testutil"
)

// --- Mock implementations ---

type mockPredictionRepository struct {
	saved        *model.Prediction
	saveFunc     func(ctx context.Context, p *model.Prediction) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
	listFunc     func(ctx context.Context, limit, offset int) ([]*model.Prediction, error)
}

func (m *mockPredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.saved = p
	return nil
}

func (m *mockPredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, model.ErrPredictionNotFound
}

func (m *mockPredictionRepository) List(ctx context.Context, limit, offset int) ([]*model.Prediction, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockDataset struct {
	table *model.TrainingTable
	err   error
}

func (m *mockDataset) FetchTrainingTable(_ context.Context) (*model.TrainingTable, error) {
	return m.table, m.err
}

type mockTrainer struct {
	report model.TrainingReport
	err    error
	seen   *model.TrainingTable
}

func (m *mockTrainer) Train(_ context.Context, table *model.TrainingTable) (model.TrainingReport, error) {
	m.seen = table
	return m.report, m.err
}

func discardLogger() *slog.Logger {
	return observability.Discard()
}

func decode(t *testing.T, payload string) model.PatientRecord {
	t.Helper()
	rec, err := dto.DecodePatientRecord([]byte(payload))
	require.NoError(t, err)
	return rec
}

// --- Tests ---

func TestEvaluatePatient_Execute(t *testing.T) {
	uc := usecase.NewEvaluatePatient(service.NewRuleBasedScorer(), discardLogger())

	tests := []struct {
		name     string
		payload  string
		expected bool
	}{
		{"chest pain and cholesterol", testutil.PatientChestPainAndCholesterol, true},
		{"no risk factors", testutil.PatientNoRiskFactors, false},
		{"cholesterol and blood pressure", testutil.PatientCholesterolAndPressure, true},
		{"chest pain only", testutil.PatientChestPainOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), decode(t, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, dto.PredictionOutput{Prediction: tt.expected}, out)
		})
	}

	t.Run("missing blood pressure", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), decode(t, testutil.PatientMissingBloodPressure))
		require.Error(t, err)
		assert.True(t, model.IsInputError(err))
	})
}

func TestSubmitPrediction_Execute(t *testing.T) {
	t.Run("stores a positive prediction and publishes both events", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewSubmitPrediction(repo, publisher, service.NewRuleBasedScorer(), discardLogger())

		resp, err := uc.Execute(context.Background(), dto.SubmitPredictionRequest{Record: decode(t, testutil.PatientFull)})
		require.NoError(t, err)

		assert.True(t, resp.Prediction)
		require.NotNil(t, repo.saved)
		assert.Equal(t, repo.saved.ID(), resp.ID)
		assert.Equal(t, repo.saved.PredictedAt(), resp.Timestamp)
		assert.Equal(t, "Jane Doe", repo.saved.Name())

		require.Len(t, publisher.published, 2)
		assert.Equal(t, event.EventTypePredictionCompleted, publisher.published[0].EventType())
		assert.Equal(t, event.EventTypeHeartDiseasePredicted, publisher.published[1].EventType())
	})

	t.Run("rejects a record without a name", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		uc := usecase.NewSubmitPrediction(repo, &mockEventPublisher{}, service.NewRuleBasedScorer(), discardLogger())

		_, err := uc.Execute(context.Background(), dto.SubmitPredictionRequest{
			Record: decode(t, `{"age":54,"gender":1,"chestPainType":2,"bloodPressure":130,"cholesterol":280}`),
		})
		require.Error(t, err)
		assert.True(t, model.IsInputError(err))
		assert.Nil(t, repo.saved)
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		uc := usecase.NewSubmitPrediction(&mockPredictionRepository{}, &mockEventPublisher{}, service.NewRuleBasedScorer(), discardLogger())

		_, err := uc.Execute(context.Background(), dto.SubmitPredictionRequest{
			Record: decode(t, `{"name":"A","age":54,"gender":1,"chestPainType":2,"bloodPressure":300,"cholesterol":280}`),
		})
		assert.ErrorContains(t, err, "bloodPressure: must be between 80 and 250")
	})

	t.Run("returns repository errors", func(t *testing.T) {
		repo := &mockPredictionRepository{saveFunc: func(context.Context, *model.Prediction) error {
			return errors.New("connection reset")
		}}
		publisher := &mockEventPublisher{}
		uc := usecase.NewSubmitPrediction(repo, publisher, service.NewRuleBasedScorer(), discardLogger())

		_, err := uc.Execute(context.Background(), dto.SubmitPredictionRequest{Record: decode(t, testutil.PatientFull)})
		assert.ErrorContains(t, err, "failed to save prediction")
		assert.Empty(t, publisher.published)
	})

	t.Run("stored prediction survives publisher errors", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{publishFunc: func(context.Context, ...events.DomainEvent) error {
			return errors.New("broker down")
		}}
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		uc := usecase.NewSubmitPrediction(repo, publisher, service.NewRuleBasedScorer(), logger)

		resp, err := uc.Execute(context.Background(), dto.SubmitPredictionRequest{Record: decode(t, testutil.PatientFull)})
		require.NoError(t, err)
		require.NotNil(t, repo.saved)
		assert.Equal(t, repo.saved.ID(), resp.ID)
		assert.Contains(t, logs.String(), "failed to publish prediction events")
		assert.Contains(t, logs.String(), resp.ID.String())
		assert.Contains(t, logs.String(), "broker down")
	})
}

func TestGetPrediction_Execute(t *testing.T) {
	t.Run("maps the stored prediction", func(t *testing.T) {
		stored, err := model.NewPrediction(decode(t, testutil.PatientFull))
		require.NoError(t, err)
		require.NoError(t, stored.Conclude(model.Verdict{Strategy: service.NewRuleBasedScorer().Name()}))

		repo := &mockPredictionRepository{findByIDFunc: func(_ context.Context, id uuid.UUID) (*model.Prediction, error) {
			assert.Equal(t, stored.ID(), id)
			return stored, nil
		}}

		resp, err := usecase.NewGetPrediction(repo).Execute(context.Background(), dto.GetPredictionRequest{ID: stored.ID()})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.Name)
		assert.Equal(t, "280", resp.Cholesterol.String())
		assert.Equal(t, "rule-based", resp.Strategy)
		assert.False(t, resp.Prediction)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := usecase.NewGetPrediction(&mockPredictionRepository{}).Execute(context.Background(), dto.GetPredictionRequest{ID: uuid.New()})
		assert.ErrorIs(t, err, model.ErrPredictionNotFound)
	})
}

func TestListPredictions_Execute(t *testing.T) {
	t.Run("clamps the page bounds", func(t *testing.T) {
		var gotLimit, gotOffset int
		repo := &mockPredictionRepository{listFunc: func(_ context.Context, limit, offset int) ([]*model.Prediction, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		}}

		resp, err := usecase.NewListPredictions(repo).Execute(context.Background(), dto.ListPredictionsRequest{Limit: 10000, Offset: -3})
		require.NoError(t, err)
		assert.Equal(t, 500, gotLimit)
		assert.Equal(t, 0, gotOffset)
		assert.NotNil(t, resp.Predictions)
		assert.Empty(t, resp.Predictions)
	})

	t.Run("defaults the limit", func(t *testing.T) {
		stored, err := model.NewPrediction(decode(t, testutil.PatientFull))
		require.NoError(t, err)
		repo := &mockPredictionRepository{listFunc: func(_ context.Context, limit, _ int) ([]*model.Prediction, error) {
			assert.Equal(t, 50, limit)
			return []*model.Prediction{stored}, nil
		}}

		resp, err := usecase.NewListPredictions(repo).Execute(context.Background(), dto.ListPredictionsRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Predictions, 1)
		assert.Equal(t, stored.ID(), resp.Predictions[0].ID)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockPredictionRepository{listFunc: func(context.Context, int, int) ([]*model.Prediction, error) {
			return nil, errors.New("connection refused")
		}}

		_, err := usecase.NewListPredictions(repo).Execute(context.Background(), dto.ListPredictionsRequest{})
		assert.ErrorContains(t, err, "failed to list predictions")
	})
}

func TestRecommendDiet_Execute(t *testing.T) {
	uc := usecase.NewRecommendDiet(service.NewDietAdvisor())

	resp := uc.Execute(true)
	assert.True(t, resp.Prediction)
	assert.Len(t, resp.Recommendations, 8)
}

func TestTrainModel_Execute(t *testing.T) {
	t.Run("fits on the fetched table", func(t *testing.T) {
		table := &model.TrainingTable{Columns: model.FeatureColumns()}
		trainer := &mockTrainer{report: model.TrainingReport{TestAccuracy: 0.85, Trees: 100}}

		report, err := usecase.NewTrainModel(&mockDataset{table: table}, trainer).Execute(context.Background())
		require.NoError(t, err)
		assert.Same(t, table, trainer.seen)
		assert.InDelta(t, 0.85, report.TestAccuracy, 1e-12)
	})

	t.Run("propagates data unavailability", func(t *testing.T) {
		dataset := &mockDataset{err: &model.DataUnavailableError{Source: "heart.csv", Err: errors.New("missing")}}

		_, err := usecase.NewTrainModel(dataset, &mockTrainer{}).Execute(context.Background())
		require.Error(t, err)
		assert.True(t, model.IsDataUnavailable(err))
	})
}
