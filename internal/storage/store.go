package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/experiment"
)

const (
	metadataFile  = "metadata.json"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
	configFile    = "config.yaml"
)

// Store keeps finished runs on disk, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Variant    string             `json:"variant"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Score      int                `json:"score"`
	Completed  bool               `json:"completed"`
	Electric   float64            `json:"electric"`
	Magnetic   float64            `json:"magnetic"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Series is the per-tick history of a stored run.
type Series struct {
	Times      []float64
	Collisions []float64
	Energy     []float64
}

// Save writes the run's config, metadata, tick series and final particle
// state. It returns the new run id.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d_%d", cfg.Variant, cfg.Seed, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Variant:    cfg.Variant,
		Timestamp:  ts,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Collisions: result.Final.CollisionCount,
		Score:      result.Score,
		Completed:  result.Outcome.Completed,
		Electric:   result.Final.Fields.Electric,
		Magnetic:   result.Final.Fields.Magnetic,
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func writeSeries(path string, r *experiment.Result) error {
	rows := make([][]string, len(r.Times))
	for i := range r.Times {
		rows[i] = []string{
			formatFloat(r.Times[i]),
			strconv.Itoa(int(r.Collisions[i])),
			formatFloat(r.Energy[i]),
		}
	}
	return writeCSV(path, []string{"time", "collisions", "kinetic_energy"}, rows)
}

func writeParticles(path string, r *experiment.Result) error {
	rows := make([][]string, len(r.Final.Particles))
	for i, p := range r.Final.Particles {
		rows[i] = []string{
			p.ID, string(p.Kind),
			formatFloat(p.X), formatFloat(p.Y),
			formatFloat(p.VX), formatFloat(p.VY),
			formatFloat(p.Mass), formatFloat(p.Charge), formatFloat(p.Radius),
		}
	}
	return writeCSV(path, []string{"id", "kind", "x", "y", "vx", "vy", "mass", "charge", "radius"}, rows)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig returns the config a stored run was made with, so it can be
// replayed.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}
	for i, record := range records[1:] {
		if len(record) != 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", seriesFile, i+2, len(record))
		}
		vals := make([]float64, 3)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
			}
			vals[j] = v
		}
		series.Times = append(series.Times, vals[0])
		series.Collisions = append(series.Collisions, vals[1])
		series.Energy = append(series.Energy, vals[2])
	}
	return series, nil
}
