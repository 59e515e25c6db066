package experiment

import (
	"context"
	"testing"
)

func TestEnsemble(t *testing.T) {
	cfg := shortConfig(t, "particle", "crowded")
	ens := NewEnsemble(cfg, 4, 10)
	ens.SetLimit(2)

	sum, err := ens.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(sum.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(sum.Results))
	}
	for i, r := range sum.Results {
		if r.Seed != int64(10+i) {
			t.Errorf("result %d has seed %d", i, r.Seed)
		}
	}
	if sum.MeanScore <= 0 {
		t.Errorf("mean score = %v, want positive", sum.MeanScore)
	}
	if sum.StdScore < 0 {
		t.Errorf("negative std-dev %v", sum.StdScore)
	}
	if cfg.Seed != 1 {
		t.Error("ensemble mutated the base config")
	}
}

func TestEnsembleMatchesSingleRun(t *testing.T) {
	cfg := shortConfig(t, "particle", "crowded")
	sum, err := NewEnsemble(cfg, 2, 5).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	single := cfg.Clone()
	single.Seed = 6
	x := New(single)
	if err := x.Setup(); err != nil {
		t.Fatal(err)
	}
	res, err := x.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Final.CollisionCount != sum.Results[1].Final.CollisionCount {
		t.Errorf("ensemble member differs from a standalone run with the same seed")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil)
	if s.MeanScore != 0 || s.StdScore != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestEnsembleRejectsNegativeRuns(t *testing.T) {
	cfg := shortConfig(t, "particle", "classic")
	if _, err := NewEnsemble(cfg, -1, 1).Run(context.Background()); err == nil {
		t.Fatal("expected error for negative run count")
	}
}

func TestEnsembleZeroRuns(t *testing.T) {
	cfg := shortConfig(t, "particle", "classic")
	sum, err := NewEnsemble(cfg, 0, 1).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(sum.Results) != 0 || sum.MeanScore != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}
