package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/fieldsim/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"none":    LogLevelOff,
		"bogus":   LogLevelWarn,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("warn", log.New(&buf, "", 0))
	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)

	want := "[WARN] shown 3\n[ERROR] shown 4\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("log output mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets", "particle")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, name := range config.ListPresets("particle") {
		if !strings.Contains(out, name) {
			t.Errorf("output missing preset %q:\n%s", name, out)
		}
	}
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "particle", "--time", "20", "--seed", "3", "--no-plot")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"steps: 20", "collisions:", "score:", "kinetic_energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunUnknownVariant(t *testing.T) {
	if _, err := execute(t, "run", "nope", "--no-plot"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestRunSavesResolvedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	_, err := execute(t, "run", "particle", "--time", "5", "--electric", "2.5", "--no-plot", "--save-config", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if cfg.Duration != 5 || cfg.Fields.Electric != 2.5 {
		t.Errorf("saved config duration=%v electric=%v, want 5 and 2.5", cfg.Duration, cfg.Fields.Electric)
	}
}

func TestRunRejectsBadDt(t *testing.T) {
	if _, err := execute(t, "run", "--dt=-1", "--no-plot"); err == nil {
		t.Fatal("expected error for negative dt")
	}
}

func TestRunStoresAndListsRuns(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "final.svg")
	out, err := execute(t, "run", "--time", "5", "--no-plot", "--save-dir", dir, "--svg", svg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "stored as particle_") {
		t.Errorf("expected stored run id:\n%s", out)
	}
	if _, err := os.Stat(svg); err != nil {
		t.Errorf("svg not written: %v", err)
	}

	out, err = execute(t, "runs", "--dir", dir)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(out, "particle_") {
		t.Errorf("expected stored run in listing:\n%s", out)
	}
}

func TestEnsembleRejectsNegativeRuns(t *testing.T) {
	if _, err := execute(t, "ensemble", "--runs=-1", "--time", "5"); err == nil {
		t.Fatal("expected error for negative run count")
	}
}

func TestRunRejectsUnboundedStepCount(t *testing.T) {
	if _, err := execute(t, "run", "--dt=1e-300", "--no-plot"); err == nil {
		t.Fatal("expected error for a step count past the limit")
	}
}
