package metrics

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]float64{1, 0, 1, 1}, []float64{1, 0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc != 0.75 {
		t.Fatalf("expected 0.75, got %v", acc)
	}
}

func TestROCAUCPerfectRanking(t *testing.T) {
	auc, err := ROCAUC([]float64{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auc != 1.0 {
		t.Fatalf("expected 1.0, got %v", auc)
	}
}

func TestROCAUCWithTies(t *testing.T) {
	// all scores identical: auc must be exactly 0.5
	auc, err := ROCAUC([]float64{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(auc-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", auc)
	}
}

func TestROCAUCSingleClass(t *testing.T) {
	if _, err := ROCAUC([]float64{1, 1}, []float64{0.4, 0.6}); err == nil {
		t.Fatal("expected error for single-class labels")
	}
}

func TestReport(t *testing.T) {
	report, err := Report([]float64{1, 1, 0, 0}, []float64{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := report["1"]
	if pos.Precision != 1.0 || pos.Recall != 0.5 || pos.Support != 2 {
		t.Fatalf("unexpected positive-class report %+v", pos)
	}
	neg := report["0"]
	if neg.Recall != 1.0 {
		t.Fatalf("unexpected negative-class report %+v", neg)
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	train1, test1, err := TrainTestSplit(10, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	train2, test2, err := TrainTestSplit(10, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(test1) != 2 || len(train1) != 8 {
		t.Fatalf("unexpected sizes %d/%d", len(train1), len(test1))
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatal("split is not deterministic for a fixed seed")
		}
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatal("split is not deterministic for a fixed seed")
		}
	}
}
