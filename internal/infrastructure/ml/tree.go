package ml

import (
	"math/rand/v2"
	"sort"
)

// leafFeature marks a node without a split.
const leafFeature = -1

// Node is one node of a flattened binary decision tree. Samples with
// x[Feature] <= Threshold go Left. Prob is the class-1 fraction of the
// training samples that reached the node.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Prob      float64 `json:"p"`
}

// Tree is a CART classification tree stored as a node slice rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// PredictProba returns the class-1 probability of the leaf x falls into.
func (t *Tree) PredictProba(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leafFeature {
			return n.Prob
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	x               [][]float64
	y               []int
	rng             *rand.Rand
	nodes           []Node
	maxFeatures     int
	maxDepth        int
	minSamplesSplit int
}

// growTree fits a gini tree on the samples listed in idx. Duplicate indices
// act as bootstrap weights.
func growTree(x [][]float64, y []int, idx []int, rng *rand.Rand, maxFeatures, maxDepth, minSamplesSplit int) Tree {
	b := &treeBuilder{
		x:               x,
		y:               y,
		rng:             rng,
		maxFeatures:     maxFeatures,
		maxDepth:        maxDepth,
		minSamplesSplit: minSamplesSplit,
	}
	b.build(idx, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int, depth int) int {
	positives := 0
	for _, i := range idx {
		positives += b.y[i]
	}

	self := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Feature: leafFeature,
		Prob:    float64(positives) / float64(len(idx)),
	})

	if positives == 0 || positives == len(idx) {
		return self
	}
	if len(idx) < b.minSamplesSplit {
		return self
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return self
	}

	feature, threshold, ok := b.bestSplit(idx, positives)
	if !ok {
		return self
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[self].Feature = feature
	b.nodes[self].Threshold = threshold
	b.nodes[self].Left = l
	b.nodes[self].Right = r
	return self
}

// bestSplit draws features in random order and evaluates at least
// maxFeatures of them. If none of those admit a split it keeps drawing
// until one does or all features are exhausted.
func (b *treeBuilder) bestSplit(idx []int, positives int) (int, float64, bool) {
	width := len(b.x[idx[0]])
	order := b.rng.Perm(width)

	bestFeature := leafFeature
	bestThreshold := 0.0
	bestImpurity := 0.0
	found := false

	sorted := make([]int, len(idx))
	for visited, f := range order {
		if visited >= b.maxFeatures && found {
			break
		}

		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return b.x[sorted[a]][f] < b.x[sorted[c]][f] })

		n := len(sorted)
		leftPos := 0
		for k := 0; k < n-1; k++ {
			leftPos += b.y[sorted[k]]
			lo, hi := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if lo == hi {
				continue
			}

			nl := k + 1
			nr := n - nl
			impurity := float64(nl)*gini(leftPos, nl) + float64(nr)*gini(positives-leftPos, nr)
			if !found || impurity < bestImpurity {
				found = true
				bestImpurity = impurity
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}

	return bestFeature, bestThreshold, found
}

func gini(positives, n int) float64 {
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}
