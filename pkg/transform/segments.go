package transform

import (
	"fmt"

	"github.com/recovera-ai/platform/pkg/dataset"
	"github.com/recovera-ai/platform/pkg/ml/cluster"
	"github.com/recovera-ai/platform/pkg/ml/scale"
)

const (
	SegmentColumn = "Segment_Name"

	segmentCount = 4
	clusterSeed  = 42
)

// ClusterFeatures are the numeric columns borrowers are grouped on.
var ClusterFeatures = []string{
	"Age",
	"Monthly_Income",
	"Loan_Amount",
	"Loan_Tenure",
	"Interest_Rate",
	"Collateral_Value",
	"Outstanding_Loan_Amount",
	"Monthly_EMI",
	"Num_Missed_Payments",
	"Days_Past_Due",
}

// segmentNamesByBurden names clusters by ascending mean
// outstanding-balance-to-income ratio. K-means label integers are unstable
// across runs, so clusters are characterized by this ratio instead of
// trusting raw label identity.
var segmentNamesByBurden = [segmentCount]string{
	"High Income, Low Default Risk",
	"Moderate Income, Medium Risk",
	"Moderate Income, High Loan Burden",
	"High Loan, Higher Default Risk",
}

var highRiskSegments = map[string]struct{}{
	"High Loan, Higher Default Risk":    {},
	"Moderate Income, High Loan Burden": {},
}

// IsHighRiskSegment reports membership in the designated high-risk set.
func IsHighRiskSegment(name string) bool {
	_, ok := highRiskSegments[name]
	return ok
}

// AssignSegments clusters the borrowers into four groups over the
// standardized cluster features and returns, per row, a segment name and a
// "0"/"1" high-risk flag.
func AssignSegments(frame *dataset.Frame) (names []string, flags []string, err error) {
	rows, err := numericRows(frame, ClusterFeatures)
	if err != nil {
		return nil, nil, fmt.Errorf("preparing cluster features: %w", err)
	}

	scaler := &scale.StandardScaler{}
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("standardizing cluster features: %w", err)
	}

	result, err := cluster.KMeans(scaled, cluster.Options{K: segmentCount, Seed: clusterSeed})
	if err != nil {
		return nil, nil, fmt.Errorf("clustering borrowers: %w", err)
	}

	nameByLabel, err := nameClusters(frame, result.Labels)
	if err != nil {
		return nil, nil, err
	}

	names = make([]string, len(result.Labels))
	flags = make([]string, len(result.Labels))
	for i, label := range result.Labels {
		names[i] = nameByLabel[label]
		if IsHighRiskSegment(names[i]) {
			flags[i] = "1"
		} else {
			flags[i] = "0"
		}
	}
	return names, flags, nil
}

// nameClusters ranks clusters by mean Outstanding_Loan_Amount over mean
// Monthly_Income and maps each label to its burden-ranked segment name.
func nameClusters(frame *dataset.Frame, labels []int) (map[int]string, error) {
	outstanding, err := frame.Float64Column("Outstanding_Loan_Amount")
	if err != nil {
		return nil, fmt.Errorf("characterizing clusters: %w", err)
	}
	income, err := frame.Float64Column("Monthly_Income")
	if err != nil {
		return nil, fmt.Errorf("characterizing clusters: %w", err)
	}

	sumOut := make(map[int]float64)
	sumIncome := make(map[int]float64)
	counts := make(map[int]int)
	for i, label := range labels {
		sumOut[label] += outstanding[i]
		sumIncome[label] += income[i]
		counts[label]++
	}

	type clusterBurden struct {
		label  int
		burden float64
	}
	var burdens []clusterBurden
	for label, n := range counts {
		meanIncome := sumIncome[label] / float64(n)
		meanOut := sumOut[label] / float64(n)
		burden := meanOut
		if meanIncome > 0 {
			burden = meanOut / meanIncome
		}
		burdens = append(burdens, clusterBurden{label: label, burden: burden})
	}

	// insertion sort keeps ties ordered by label for determinism
	for i := 1; i < len(burdens); i++ {
		for j := i; j > 0; j-- {
			a, b := burdens[j-1], burdens[j]
			if b.burden < a.burden || (b.burden == a.burden && b.label < a.label) {
				burdens[j-1], burdens[j] = b, a
			}
		}
	}

	nameByLabel := make(map[int]string, len(burdens))
	for rank, cb := range burdens {
		idx := rank
		if idx >= segmentCount {
			idx = segmentCount - 1
		}
		nameByLabel[cb.label] = segmentNamesByBurden[idx]
	}
	return nameByLabel, nil
}
