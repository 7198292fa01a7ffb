package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// ForestConfig controls random forest fitting.
type ForestConfig struct {
	Trees int
	Seed  uint64
	// MaxFeatures is the number of features tried per split; 0 means sqrt(n).
	MaxFeatures int
	// MaxDepth limits tree depth; 0 grows trees until leaves are pure.
	MaxDepth        int
	MinSamplesSplit int
}

// DefaultForestConfig returns 100 fully grown trees seeded with 42.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, Seed: 42, MinSamplesSplit: 2}
}

// Forest is a bagged ensemble of classification trees.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// FitForest grows cfg.Trees trees, each on a bootstrap sample of the rows.
func FitForest(x [][]float64, y []int, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot fit forest on zero rows")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("forest got %d rows but %d labels", len(x), len(y))
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("forest needs at least one tree, got %d", cfg.Trees)
	}

	width := len(x[0])
	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(width)))
	}
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	if maxFeatures > width {
		maxFeatures = width
	}
	minSplit := cfg.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}

	master := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	forest := &Forest{Trees: make([]Tree, 0, cfg.Trees)}
	for t := 0; t < cfg.Trees; t++ {
		rng := rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))

		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.IntN(len(x))
		}

		forest.Trees = append(forest.Trees, growTree(x, y, sample, rng, maxFeatures, cfg.MaxDepth, minSplit))
	}

	return forest, nil
}

// PredictProba averages the class-1 probability over all trees.
func (f *Forest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].PredictProba(x)
	}
	return sum / float64(len(f.Trees))
}

// Predict returns true when the averaged class-1 probability exceeds one half.
func (f *Forest) Predict(x []float64) bool {
	return f.PredictProba(x) > 0.5
}
