package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/port"
	"github.com/bibbank/heartrisk/internal/domain/service"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

type mockClassifier struct {
	err      error
	seen     []float64
	positive bool
}

func (m *mockClassifier) Predict(_ context.Context, features []float64) (bool, error) {
	m.seen = features
	return m.positive, m.err
}

type mockProvider struct {
	clf   port.Classifier
	err   error
	calls int
}

func (m *mockProvider) Classifier(_ context.Context) (port.Classifier, error) {
	m.calls++
	return m.clf, m.err
}

func classifierRecord(t *testing.T) model.PatientRecord {
	t.Helper()
	rec, err := model.NewPatientRecord("", map[valueobject.Field]decimal.Decimal{
		valueobject.FieldAge:           decimal.NewFromInt(61),
		valueobject.FieldGender:        decimal.NewFromInt(0),
		valueobject.FieldChestPainType: decimal.NewFromInt(3),
		valueobject.FieldBloodPressure: decimal.NewFromInt(145),
		valueobject.FieldCholesterol:   decimal.NewFromInt(233),
	})
	require.NoError(t, err)
	return rec
}

func TestLearnedClassifierScorer_PassesFeaturesInOrder(t *testing.T) {
	clf := &mockClassifier{positive: true}
	scorer := service.NewLearnedClassifierScorer(&mockProvider{clf: clf})

	v, err := scorer.Evaluate(context.Background(), classifierRecord(t))
	require.NoError(t, err)

	assert.True(t, v.HasHeartDisease)
	assert.Equal(t, valueobject.StrategyLearnedClassifier, v.Strategy)
	assert.Equal(t, []float64{61, 0, 3, 145, 233}, clf.seen)
}

func TestLearnedClassifierScorer_MissingFieldSkipsProvider(t *testing.T) {
	provider := &mockProvider{clf: &mockClassifier{}}
	scorer := service.NewLearnedClassifierScorer(provider)

	rec, err := model.NewPatientRecord("", map[valueobject.Field]decimal.Decimal{
		valueobject.FieldChestPainType: decimal.NewFromInt(3),
		valueobject.FieldCholesterol:   decimal.NewFromInt(260),
		valueobject.FieldBloodPressure: decimal.NewFromInt(140),
	})
	require.NoError(t, err)

	_, err = scorer.Evaluate(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
	assert.Contains(t, err.Error(), "age")
	assert.Contains(t, err.Error(), "gender")
	assert.Zero(t, provider.calls)
}

func TestLearnedClassifierScorer_DataUnavailable(t *testing.T) {
	provider := &mockProvider{err: &model.DataUnavailableError{
		Source: "attached_assets/heart.csv",
		Err:    errors.New("no such file or directory"),
	}}
	scorer := service.NewLearnedClassifierScorer(provider)

	_, err := scorer.Evaluate(context.Background(), classifierRecord(t))
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
}

func TestLearnedClassifierScorer_ClassifierError(t *testing.T) {
	scorer := service.NewLearnedClassifierScorer(&mockProvider{
		clf: &mockClassifier{err: errors.New("feature count mismatch")},
	})

	_, err := scorer.Evaluate(context.Background(), classifierRecord(t))
	assert.ErrorContains(t, err, "failed to run classifier")
}

func TestNewScoringStrategy(t *testing.T) {
	s, err := service.NewScoringStrategy(valueobject.StrategyRuleBased, nil)
	require.NoError(t, err)
	assert.Equal(t, valueobject.StrategyRuleBased, s.Name())

	s, err = service.NewScoringStrategy(valueobject.StrategyLearnedClassifier, &mockProvider{})
	require.NoError(t, err)
	assert.Equal(t, valueobject.StrategyLearnedClassifier, s.Name())

	_, err = service.NewScoringStrategy(valueobject.StrategyLearnedClassifier, nil)
	assert.Error(t, err)

	_, err = service.NewScoringStrategy(valueobject.StrategyName{}, nil)
	assert.Error(t, err)
}

func TestDietAdvisor_Recommend(t *testing.T) {
	advisor := service.NewDietAdvisor()

	healthy := advisor.Recommend(false)
	disease := advisor.Recommend(true)

	assert.Len(t, healthy, 7)
	assert.Len(t, disease, 8)
	assert.Equal(t, "Fruits and Vegetables", healthy[0].Title)
	assert.Equal(t, "Reduce Sodium", disease[0].Title)

	healthy[0].Title = "changed"
	assert.Equal(t, "Fruits and Vegetables", advisor.Recommend(false)[0].Title)
}
