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

	"github.com/google/uuid"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	configFile   = "config.yaml"
)

var frameHeader = []string{
	"time", "pulling", "candidates", "started", "stopped",
	"pulled", "tracked", "mean_distance", "max_distance",
}

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
	ID            string             `json:"id"`
	Preset        string             `json:"preset"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Integrator    string             `json:"integrator"`
	Input         string             `json:"input"`
	Category      string             `json:"category"`
	PullStrength  float64            `json:"pull_strength"`
	MaxRadius     float64            `json:"max_radius"`
	Bodies        int                `json:"bodies"`
	Steps         int                `json:"steps"`
	QueryCapacity int                `json:"query_capacity"`
	QueryGrows    int                `json:"query_grows"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the config that
// produced the run and one CSV row per frame.
func (s *Store) Save(preset string, cfg *config.Config, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d_%s", preset, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Preset:        preset,
		Timestamp:     now,
		Seed:          cfg.Sim.Seed,
		Dt:            cfg.Sim.Dt,
		Duration:      cfg.Sim.Duration,
		Integrator:    cfg.Sim.Integrator,
		Input:         cfg.Input.Mode,
		Category:      cfg.Grabber.Category,
		PullStrength:  cfg.Grabber.PullStrength,
		MaxRadius:     cfg.Grabber.MaxRadius,
		Bodies:        cfg.Scene.Bodies,
		Steps:         result.StepsTaken,
		QueryCapacity: result.QueryCapacity,
		QueryGrows:    result.QueryGrows,
		Metrics:       result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
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

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		pulling := "0"
		if fr.Pulling {
			pulling = "1"
		}
		row := []string{
			strconv.FormatFloat(fr.Time, 'f', 6, 64),
			pulling,
			strconv.Itoa(fr.Candidates),
			strconv.Itoa(fr.Started),
			strconv.Itoa(fr.Stopped),
			strconv.Itoa(fr.Pulled),
			strconv.Itoa(fr.Tracked),
			strconv.FormatFloat(fr.MeanDistance, 'f', 6, 64),
			strconv.FormatFloat(fr.MaxDistance, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadConfig returns the config a run was produced with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		fr, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func parseFrame(rec []string) (sim.Frame, error) {
	var fr sim.Frame
	var err error
	floats := []struct {
		dst *float64
		src string
	}{
		{&fr.Time, rec[0]},
		{&fr.MeanDistance, rec[7]},
		{&fr.MaxDistance, rec[8]},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(f.src, 64); err != nil {
			return fr, err
		}
	}
	ints := []struct {
		dst *int
		src string
	}{
		{&fr.Candidates, rec[2]},
		{&fr.Started, rec[3]},
		{&fr.Stopped, rec[4]},
		{&fr.Pulled, rec[5]},
		{&fr.Tracked, rec[6]},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(f.src); err != nil {
			return fr, err
		}
	}
	fr.Pulling = rec[1] == "1"
	return fr, nil
}
