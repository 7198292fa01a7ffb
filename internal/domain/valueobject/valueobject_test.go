package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/heartrisk/internal/domain/valueobject"
)

func TestField_FromName(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.Field
		column   string
	}{
		{"age", valueobject.FieldAge, "age"},
		{"gender", valueobject.FieldGender, "sex"},
		{"chestPainType", valueobject.FieldChestPainType, "cp"},
		{"bloodPressure", valueobject.FieldBloodPressure, "trestbps"},
		{"cholesterol", valueobject.FieldCholesterol, "chol"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := valueobject.FieldFromName(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(f))
			assert.Equal(t, tt.input, f.String())
			assert.Equal(t, tt.column, f.Column())
		})
	}

	_, err := valueobject.FieldFromName("heartRate")
	assert.Error(t, err)
}

func TestField_InRange(t *testing.T) {
	f := valueobject.FieldBloodPressure

	assert.True(t, f.InRange(decimal.NewFromInt(80)))
	assert.True(t, f.InRange(decimal.NewFromInt(250)))
	assert.False(t, f.InRange(decimal.NewFromInt(79)))
	assert.False(t, f.InRange(decimal.RequireFromString("250.5")))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   error
	}{
		{"260", "260", nil},
		{"1.5e2", "150", nil},
		{"250.0000000001", "250.0000000001", nil},
		{"-3", "-3", nil},
		{"abc", "", valueobject.ErrNotANumber},
		{"", "", valueobject.ErrNotANumber},
		{"0x1p4", "", valueobject.ErrNotANumber},
		{"NaN", "", valueobject.ErrValueOutOfRange},
		{"+Inf", "", valueobject.ErrValueOutOfRange},
		{"1e400", "", valueobject.ErrValueOutOfRange},
		{"1e21", "", valueobject.ErrValueOutOfRange},
		{"1e-21", "", valueobject.ErrValueOutOfRange},
		{"1e2000000000", "", valueobject.ErrValueOutOfRange},
		{"1e-2000000000", "", valueobject.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := valueobject.ParseValue(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got))
		})
	}
}

func TestField_AllFieldsOrder(t *testing.T) {
	names := make([]string, 0)
	for _, f := range valueobject.AllFields() {
		names = append(names, f.String())
	}
	assert.Equal(t, []string{"age", "gender", "chestPainType", "bloodPressure", "cholesterol"}, names)
}

func TestRiskFactor_FromString(t *testing.T) {
	for _, rf := range []valueobject.RiskFactor{
		valueobject.RiskFactorChestPain,
		valueobject.RiskFactorHighCholesterol,
		valueobject.RiskFactorHighBloodPressure,
	} {
		got, err := valueobject.RiskFactorFromString(rf.String())
		require.NoError(t, err)
		assert.True(t, rf.Equal(got))
	}

	_, err := valueobject.RiskFactorFromString("smoker")
	assert.Error(t, err)
	assert.True(t, valueobject.RiskFactor{}.IsZero())
}

func TestStrategyName_FromString(t *testing.T) {
	got, err := valueobject.StrategyNameFromString("rule-based")
	require.NoError(t, err)
	assert.Equal(t, valueobject.StrategyRuleBased, got)

	got, err = valueobject.StrategyNameFromString("learned-classifier")
	require.NoError(t, err)
	assert.Equal(t, valueobject.StrategyLearnedClassifier, got)

	_, err = valueobject.StrategyNameFromString("neural-net")
	assert.ErrorContains(t, err, "neural-net")
}
