package cluster

import "testing"

func TestKMeansSeparatesObviousGroups(t *testing.T) {
	var samples [][]float64
	for i := 0; i < 10; i++ {
		samples = append(samples, []float64{float64(i) * 0.01, 0})
	}
	for i := 0; i < 10; i++ {
		samples = append(samples, []float64{100 + float64(i)*0.01, 0})
	}

	result, err := KMeans(samples, Options{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Labels) != 20 || len(result.Centroids) != 2 {
		t.Fatalf("unexpected result shape: %d labels, %d centroids", len(result.Labels), len(result.Centroids))
	}

	first := result.Labels[0]
	for i := 1; i < 10; i++ {
		if result.Labels[i] != first {
			t.Fatalf("low group split across clusters: %v", result.Labels[:10])
		}
	}
	second := result.Labels[10]
	if second == first {
		t.Fatal("both groups landed in one cluster")
	}
	for i := 11; i < 20; i++ {
		if result.Labels[i] != second {
			t.Fatalf("high group split across clusters: %v", result.Labels[10:])
		}
	}
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	samples := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}, {20}, {21}}
	a, err := KMeans(samples, Options{K: 3, Seed: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := KMeans(samples, Options{K: 3, Seed: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatal("same seed produced different assignments")
		}
	}
}

func TestKMeansRejectsTooFewSamples(t *testing.T) {
	if _, err := KMeans([][]float64{{1}, {2}}, Options{K: 4, Seed: 1}); err == nil {
		t.Fatal("expected error for k greater than sample count")
	}
}
