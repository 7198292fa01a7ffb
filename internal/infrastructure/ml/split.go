package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles the indices 0..n-1 with seed and holds out
// ceil(n*testSize) of them for evaluation.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d rows with test size %v", n, testSize)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
