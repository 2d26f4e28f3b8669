package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mkRun(t *testing.T, base, id string, completed bool) {
	t.Helper()
	run := runFromDir(base, id)
	if err := os.MkdirAll(run.RootDir, 0o755); err != nil {
		t.Fatalf("creating run dir: %v", err)
	}
	if completed {
		if err := MarkComplete(run); err != nil {
			t.Fatalf("marking run complete: %v", err)
		}
	}
}

func TestRunIDFormat(t *testing.T) {
	ts := time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC)
	run := NewRunAt("artifact", ts)
	if run.ID != "07_02_2024_09_00_00" {
		t.Fatalf("unexpected run id %q", run.ID)
	}
	if run.RootDir != filepath.Join("artifact", run.ID) {
		t.Fatalf("unexpected root dir %q", run.RootDir)
	}
}

func TestLatestRunPicksGreatestCompleted(t *testing.T) {
	base := t.TempDir()
	mkRun(t, base, "07_01_2024_10_00_00", true)
	mkRun(t, base, "07_02_2024_09_00_00", true)

	run, err := LatestRun(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID != "07_02_2024_09_00_00" {
		t.Fatalf("expected later run, got %q", run.ID)
	}
}

func TestLatestRunSkipsIncomplete(t *testing.T) {
	base := t.TempDir()
	mkRun(t, base, "07_01_2024_10_00_00", true)
	// a run still being written must not be resolved
	mkRun(t, base, "07_02_2024_09_00_00", false)

	run, err := LatestRun(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID != "07_01_2024_10_00_00" {
		t.Fatalf("expected completed run, got %q", run.ID)
	}
}

func TestLatestRunNoCompletedRuns(t *testing.T) {
	base := t.TempDir()
	mkRun(t, base, "07_01_2024_10_00_00", false)

	_, err := LatestRun(base)
	if err == nil || !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveLatestRequiresStageDir(t *testing.T) {
	base := t.TempDir()
	mkRun(t, base, "07_01_2024_10_00_00", true)

	if _, err := ResolveLatest(base, TrainerDir, ModelFile); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for missing stage dir, got %v", err)
	}

	stageDir := filepath.Join(base, "07_01_2024_10_00_00", TrainerDir)
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		t.Fatalf("creating stage dir: %v", err)
	}
	path, err := ResolveLatest(base, TrainerDir, ModelFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(stageDir, ModelFile) {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestResolveIsPureJoin(t *testing.T) {
	got := Resolve("artifact/07_01_2024_10_00_00", TransformationDir, TransformerFile)
	want := filepath.Join("artifact/07_01_2024_10_00_00", TransformationDir, TransformerFile)
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
