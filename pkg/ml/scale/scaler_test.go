package scale

import (
	"math"
	"testing"
)

func TestStandardScaler(t *testing.T) {
	samples := [][]float64{{1, 100}, {2, 100}, {3, 100}}
	scaler := &StandardScaler{}
	scaled, err := scaler.FitTransform(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// first column: mean 2, population stddev sqrt(2/3)
	var mean float64
	for _, row := range scaled {
		mean += row[0]
	}
	if math.Abs(mean) > 1e-12 {
		t.Fatalf("scaled column not centered, mean %v", mean)
	}
	// zero-variance column passes through centered
	for _, row := range scaled {
		if row[1] != 0 {
			t.Fatalf("constant column should center to zero, got %v", row[1])
		}
	}
}

func TestStandardScalerRejectsWidthMismatch(t *testing.T) {
	scaler := &StandardScaler{}
	if _, err := scaler.FitTransform([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := scaler.Transform([][]float64{{1}}); err == nil {
		t.Fatal("expected error for wrong width")
	}
}
