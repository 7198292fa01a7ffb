package ml

import (
	"context"
	"fmt"
	"math"

	"github.com/bibbank/heartrisk/internal/domain/model"
)

// artifactVersion is bumped whenever the persisted layout changes.
const artifactVersion = 1

// Model is a fitted scaler plus forest. It implements port.Classifier and is
// the unit persisted by FileStore.
type Model struct {
	Scaler  *StandardScaler      `json:"scaler"`
	Forest  *Forest              `json:"forest"`
	Columns []string             `json:"columns"`
	Report  model.TrainingReport `json:"report"`
	Version int                  `json:"version"`
}

// Predict standardizes features with the fit-time statistics and lets the
// forest vote.
func (m *Model) Predict(_ context.Context, features []float64) (bool, error) {
	scaled, err := m.Scaler.Transform(features)
	if err != nil {
		return false, err
	}
	return m.Forest.Predict(scaled), nil
}

func (m *Model) validate() error {
	if m.Version != artifactVersion {
		return fmt.Errorf("unsupported model artifact version %d", m.Version)
	}
	if m.Scaler == nil || m.Forest == nil || len(m.Forest.Trees) == 0 {
		return fmt.Errorf("model artifact is incomplete")
	}
	if len(m.Scaler.Mean) != len(m.Columns) || len(m.Scaler.Scale) != len(m.Columns) {
		return fmt.Errorf("model artifact scaler does not match its %d columns", len(m.Columns))
	}
	for j, scale := range m.Scaler.Scale {
		if !(scale > 0) || math.IsInf(scale, 0) || math.IsNaN(m.Scaler.Mean[j]) || math.IsInf(m.Scaler.Mean[j], 0) {
			return fmt.Errorf("model artifact scaler column %q is degenerate", m.Columns[j])
		}
	}
	for i, tree := range m.Forest.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("model artifact tree %d is empty", i)
		}
		for j, n := range tree.Nodes {
			if n.Feature == leafFeature {
				if !(n.Prob >= 0 && n.Prob <= 1) {
					return fmt.Errorf("model artifact tree %d leaf %d has probability %v", i, j, n.Prob)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= len(m.Columns) ||
				n.Left <= j || n.Left >= len(tree.Nodes) ||
				n.Right <= j || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("model artifact tree %d node %d is malformed", i, j)
			}
		}
	}
	return nil
}
