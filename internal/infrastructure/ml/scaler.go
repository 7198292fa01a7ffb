package ml

import (
	"fmt"
	"math"
)

// StandardScaler centers each column on its mean and scales it to unit
// population variance. Columns with zero variance are only centered.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column statistics over rows.
func FitScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on zero rows")
	}
	width := len(rows[0])
	mean := make([]float64, width)
	scale := make([]float64, width)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &StandardScaler{Mean: mean, Scale: scale}, nil
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardizes every row.
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
