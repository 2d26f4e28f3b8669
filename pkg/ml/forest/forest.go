package forest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

type Options struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// Node is a binary decision-tree node. Leaves carry the positive-class
// fraction of the training samples that reached them.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Positive  float64 `json:"positive,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// Forest is a bagged ensemble of depth-bounded CART trees over a binary
// label. The predicted score is the mean leaf positive fraction across
// trees.
type Forest struct {
	Roots       []*Node `json:"roots"`
	FeatureDims int     `json:"feature_dims"`
}

// Train fits a forest on samples with binary labels (0 or 1).
func Train(samples [][]float64, labels []float64, opts Options) (*Forest, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to train on")
	}
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("%d samples for %d labels", len(samples), len(labels))
	}
	if opts.Trees <= 0 {
		opts.Trees = 100
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 5
	}
	if opts.MinLeaf <= 0 {
		opts.MinLeaf = 1
	}

	dims := len(samples[0])
	mtry := int(math.Sqrt(float64(dims)))
	if mtry < 1 {
		mtry = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	f := &Forest{FeatureDims: dims}
	for t := 0; t < opts.Trees; t++ {
		indices := make([]int, len(samples))
		for i := range indices {
			indices[i] = rng.Intn(len(samples))
		}
		root := grow(samples, labels, indices, 0, opts, mtry, rng)
		f.Roots = append(f.Roots, root)
	}
	return f, nil
}

func grow(samples [][]float64, labels []float64, indices []int, depth int, opts Options, mtry int, rng *rand.Rand) *Node {
	positive := positiveFraction(labels, indices)
	if depth >= opts.MaxDepth || len(indices) < 2*opts.MinLeaf || positive == 0 || positive == 1 {
		return &Node{Leaf: true, Positive: positive}
	}

	feature, threshold, ok := bestSplit(samples, labels, indices, opts.MinLeaf, mtry, rng)
	if !ok {
		return &Node{Leaf: true, Positive: positive}
	}

	var left, right []int
	for _, i := range indices {
		if samples[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      grow(samples, labels, left, depth+1, opts, mtry, rng),
		Right:     grow(samples, labels, right, depth+1, opts, mtry, rng),
	}
}

func bestSplit(samples [][]float64, labels []float64, indices []int, minLeaf, mtry int, rng *rand.Rand) (int, float64, bool) {
	dims := len(samples[indices[0]])
	candidates := rng.Perm(dims)[:mtry]

	bestImpurity := math.Inf(1)
	bestFeature := -1
	var bestThreshold float64

	type point struct {
		value float64
		label float64
	}
	points := make([]point, len(indices))

	for _, feature := range candidates {
		for i, idx := range indices {
			points[i] = point{value: samples[idx][feature], label: labels[idx]}
		}
		sort.Slice(points, func(a, b int) bool { return points[a].value < points[b].value })

		var totalPos float64
		for _, p := range points {
			totalPos += p.label
		}
		total := float64(len(points))

		var leftPos, leftN float64
		for i := 0; i < len(points)-1; i++ {
			leftPos += points[i].label
			leftN++
			if points[i].value == points[i+1].value {
				continue
			}
			if int(leftN) < minLeaf || len(points)-int(leftN) < minLeaf {
				continue
			}
			rightPos := totalPos - leftPos
			rightN := total - leftN
			impurity := leftN*gini(leftPos/leftN) + rightN*gini(rightPos/rightN)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (points[i].value + points[i+1].value) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func positiveFraction(labels []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var pos float64
	for _, i := range indices {
		pos += labels[i]
	}
	return pos / float64(len(indices))
}

// PredictProba returns the positive-class probability for one sample.
func (f *Forest) PredictProba(sample []float64) (float64, error) {
	if len(sample) != f.FeatureDims {
		return 0, fmt.Errorf("sample has %d features, forest fitted on %d", len(sample), f.FeatureDims)
	}
	var sum float64
	for _, root := range f.Roots {
		node := root
		for !node.Leaf {
			if sample[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		sum += node.Positive
	}
	return sum / float64(len(f.Roots)), nil
}

// Predict thresholds the probability at 0.5.
func (f *Forest) Predict(sample []float64) (float64, error) {
	p, err := f.PredictProba(sample)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}
