package metrics

import (
	"fmt"
	"math/rand"
	"sort"
)

// Accuracy is the fraction of exact label matches.
func Accuracy(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("%d actual labels for %d predictions", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("no labels")
	}
	var correct int
	for i := range actual {
		if actual[i] == predicted[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(actual)), nil
}

// ROCAUC computes the area under the ROC curve via the rank statistic,
// assigning tied scores their mid-rank.
func ROCAUC(actual, scores []float64) (float64, error) {
	if len(actual) != len(scores) {
		return 0, fmt.Errorf("%d actual labels for %d scores", len(actual), len(scores))
	}

	var nPos, nNeg float64
	for _, y := range actual {
		if y == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, fmt.Errorf("roc-auc undefined with a single class")
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	ranks := make([]float64, len(scores))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		mid := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = mid
		}
		i = j + 1
	}

	var rankSum float64
	for i, y := range actual {
		if y == 1 {
			rankSum += ranks[i]
		}
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// ClassReport holds per-class precision/recall/F1 plus support.
type ClassReport struct {
	Precision float64 `yaml:"precision" json:"precision"`
	Recall    float64 `yaml:"recall" json:"recall"`
	F1        float64 `yaml:"f1-score" json:"f1-score"`
	Support   int     `yaml:"support" json:"support"`
}

// Report computes a per-class breakdown over the binary labels 0 and 1,
// keyed by the label's text form.
func Report(actual, predicted []float64) (map[string]ClassReport, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("%d actual labels for %d predictions", len(actual), len(predicted))
	}
	out := make(map[string]ClassReport, 2)
	for _, class := range []float64{0, 1} {
		var tp, fp, fn, support int
		for i := range actual {
			switch {
			case actual[i] == class && predicted[i] == class:
				tp++
			case actual[i] != class && predicted[i] == class:
				fp++
			case actual[i] == class && predicted[i] != class:
				fn++
			}
			if actual[i] == class {
				support++
			}
		}
		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			recall = float64(tp) / float64(tp+fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		key := "0"
		if class == 1 {
			key = "1"
		}
		out[key] = ClassReport{Precision: precision, Recall: recall, F1: f1, Support: support}
	}
	return out, nil
}

// TrainTestSplit shuffles row indices with the given seed and splits off
// testFraction of them for the test side.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v out of (0,1)", testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	testSize := int(float64(n) * testFraction)
	if testSize < 1 {
		testSize = 1
	}
	return perm[testSize:], perm[:testSize], nil
}
