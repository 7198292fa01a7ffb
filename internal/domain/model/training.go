package model

import (
	"fmt"
	"math"
	"time"
)

// LabelColumn is the name of the binary outcome column in the training table.
const LabelColumn = "target"

// FeatureColumns returns the training-table columns matching ClassifierFields.
func FeatureColumns() []string {
	cols := make([]string, len(ClassifierFields))
	for i, f := range ClassifierFields {
		cols[i] = f.Column()
	}
	return cols
}

// TrainingTable is a labeled feature matrix. Rows[i] has one value per
// column and Labels[i] is 0 or 1.
type TrainingTable struct {
	Columns []string
	Rows    [][]float64
	Labels  []int
}

// Len returns the number of labeled rows.
func (t *TrainingTable) Len() int {
	return len(t.Rows)
}

// Validate checks the table is non-empty, rectangular, finite and
// binary-labeled.
func (t *TrainingTable) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("training table is empty")
	}
	if len(t.Rows) != len(t.Labels) {
		return fmt.Errorf("training table has %d rows but %d labels", len(t.Rows), len(t.Labels))
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(t.Columns))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d column %q is not finite", i, t.Columns[j])
			}
		}
		if t.Labels[i] != 0 && t.Labels[i] != 1 {
			return fmt.Errorf("row %d has label %d, expected 0 or 1", i, t.Labels[i])
		}
	}
	return nil
}

// TrainingReport summarises one classifier fit.
type TrainingReport struct {
	TrainedAt    time.Time `json:"trained_at"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	TestAccuracy float64   `json:"test_accuracy"`
	Seed         uint64    `json:"seed"`
	TrainSize    int       `json:"train_size"`
	TestSize     int       `json:"test_size"`
	Trees        int       `json:"trees"`
}
