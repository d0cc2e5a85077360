// Package storage persists completed mobility runs: a metadata document per
// run plus the raw per-realization samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/PuffyDucks/elph/internal/config"
	"github.com/PuffyDucks/elph/internal/engine"
	"github.com/PuffyDucks/elph/internal/localization"
	"github.com/PuffyDucks/elph/internal/mobility"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the persisted summary of one run: the full parameter echo,
// the five-scalar result with standard errors, and timing.
type RunMetadata struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Config       *config.Config  `json:"config"`
	Result       mobility.Result `json:"result"`
	ErrLx2       float64         `json:"err_lx2"`
	ErrLy2       float64         `json:"err_ly2"`
	Sites        int             `json:"sites"`
	Realizations int             `json:"realizations"`
	ElapsedSec   float64         `json:"elapsed_sec"`
}

// Save writes one completed run under a fresh run directory and returns its
// id.
func (s *Store) Save(name string, cfg *config.Config, run *engine.Run) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    time.Now(),
		Config:       cfg,
		Result:       run.Result,
		ErrLx2:       run.ErrLx2,
		ErrLy2:       run.ErrLy2,
		Sites:        run.Sites,
		Realizations: len(run.Samples),
		ElapsedSec:   run.Elapsed.Seconds(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"realization", "lx2", "ly2"}); err != nil {
		return "", err
	}
	for i, sample := range run.Samples {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(sample.Lx2, 'g', -1, 64),
			strconv.FormatFloat(sample.Ly2, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the per-realization localization samples in
// realization order.
func (s *Store) LoadSamples(runID string) ([]localization.Lengths, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []localization.Lengths{}, nil
	}

	samples := make([]localization.Lengths, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			continue
		}
		lx2, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		ly2, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		samples = append(samples, localization.Lengths{Lx2: lx2, Ly2: ly2})
	}
	return samples, nil
}
