package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/domain/event"
	"github.com/bibbank/heartrisk/internal/domain/model"
	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

func TestNewPrediction_RequiresName(t *testing.T) {
	_, err := model.NewPrediction(fullRecord(t, "  "))
	assert.ErrorContains(t, err, "name: name is required")
}

func TestNewPrediction_Valid(t *testing.T) {
	p, err := model.NewPrediction(fullRecord(t, "Jane Doe"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, "Jane Doe", p.Name())
	assert.False(t, p.Concluded())
	assert.Equal(t, 1, p.Version())
	assert.Empty(t, p.DomainEvents())
}

func TestPrediction_ConcludePositiveEmitsBothEvents(t *testing.T) {
	p, err := model.NewPrediction(fullRecord(t, "Jane Doe"))
	require.NoError(t, err)

	err = p.Conclude(model.Verdict{
		HasHeartDisease: true,
		Strategy:        valueobject.StrategyRuleBased,
		RiskFactors:     []valueobject.RiskFactor{valueobject.RiskFactorChestPain, valueobject.RiskFactorHighCholesterol},
	})
	require.NoError(t, err)

	assert.True(t, p.HasHeartDisease())
	assert.True(t, p.Concluded())
	assert.Equal(t, 2, p.Version())
	assert.WithinDuration(t, time.Now().UTC(), p.PredictedAt(), time.Second)

	evts := p.DomainEvents()
	require.Len(t, evts, 2)

	completed, ok := evts[0].(event.PredictionCompleted)
	require.True(t, ok)
	assert.Equal(t, event.EventTypePredictionCompleted, completed.EventType())
	assert.Equal(t, p.ID(), completed.AggregateID())
	assert.Equal(t, []string{"chest_pain", "high_cholesterol"}, completed.RiskFactors)

	assert.Equal(t, event.EventTypeHeartDiseasePredicted, evts[1].EventType())
	assert.Empty(t, p.DomainEvents(), "events are cleared after retrieval")
}

func TestPrediction_ConcludeNegativeEmitsCompletedOnly(t *testing.T) {
	p, err := model.NewPrediction(fullRecord(t, "John Roe"))
	require.NoError(t, err)

	require.NoError(t, p.Conclude(model.Verdict{Strategy: valueobject.StrategyLearnedClassifier}))

	evts := p.DomainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, event.EventTypePredictionCompleted, evts[0].EventType())
	assert.Empty(t, p.RiskFactors())
}

func TestPrediction_ConcludeTwiceFails(t *testing.T) {
	p, err := model.NewPrediction(fullRecord(t, "Jane Doe"))
	require.NoError(t, err)

	require.NoError(t, p.Conclude(model.Verdict{Strategy: valueobject.StrategyRuleBased}))
	assert.ErrorContains(t, p.Conclude(model.Verdict{Strategy: valueobject.StrategyRuleBased}), "already concluded")
}

func TestReconstruct(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	p := model.Reconstruct(id, fullRecord(t, "Jane Doe"), true, valueobject.StrategyRuleBased, nil, 2, now, now)

	assert.Equal(t, id, p.ID())
	assert.True(t, p.Concluded())
	assert.NotNil(t, p.RiskFactors())
	assert.Empty(t, p.DomainEvents())
}
