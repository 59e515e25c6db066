package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/experiment"
)

func shortRun(t *testing.T, seed int64) (*config.Config, *experiment.Result) {
	t.Helper()
	cfg := config.GetPreset("particle", "classic")
	if cfg == nil {
		t.Fatal("missing particle/classic preset")
	}
	cfg.Duration = 10
	cfg.Seed = seed

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := shortRun(t, 42)
	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Variant != "particle" {
		t.Errorf("expected variant 'particle', got '%s'", meta.Variant)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Steps != res.StepsTaken {
		t.Errorf("expected %d steps, got %d", res.StepsTaken, meta.Steps)
	}
	if meta.Collisions != res.Final.CollisionCount {
		t.Errorf("expected %d collisions, got %d", res.Final.CollisionCount, meta.Collisions)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Times) != res.StepsTaken {
		t.Errorf("expected %d series rows, got %d", res.StepsTaken, len(series.Times))
	}
	if len(series.Collisions) > 0 && series.Collisions[len(series.Collisions)-1] != float64(res.Final.CollisionCount) {
		t.Errorf("last series collision count %v, want %d", series.Collisions[len(series.Collisions)-1], res.Final.CollisionCount)
	}

	replay, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if replay.Duration != cfg.Duration || replay.Seed != cfg.Seed {
		t.Errorf("replayed config duration=%v seed=%d, want %v and %d",
			replay.Duration, replay.Seed, cfg.Duration, cfg.Seed)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, seed := range []int64{7, 3} {
		st.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		cfg, res := shortRun(t, seed)
		if _, err := st.Save(cfg, res); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != 7 || runs[1].Seed != 3 {
		t.Errorf("expected runs oldest first (seeds 7, 3), got %d, %d", runs[0].Seed, runs[1].Seed)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := shortRun(t, 1)
	runID, err := st.Save(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, seriesFile, particlesFile, configFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
