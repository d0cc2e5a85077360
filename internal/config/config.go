// Package config loads and validates the mobility parameter record.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PuffyDucks/elph/internal/elph"
	"github.com/PuffyDucks/elph/internal/lattice"
	"github.com/PuffyDucks/elph/internal/localization"
	"github.com/PuffyDucks/elph/internal/tightbinding"
)

const (
	DefaultTemp         = 300.0
	DefaultInverseHTau  = 5e-3
	DefaultRealizations = 250
)

// Config is the structured parameter record consumed by the engine.
// Couplings and disorders are in eV, distances in lattice-parameter units.
// The historic parameter file is mobility.json; YAML is accepted as well.
type Config struct {
	Atoms           [][]float64 `yaml:"atoms" json:"atoms"`
	Nx              int         `yaml:"nx" json:"nx"`
	Ny              int         `yaml:"ny" json:"ny"`
	Nz              int         `yaml:"nz" json:"nz"`
	LatticeVecs     [][]float64 `yaml:"lattice_vecs" json:"lattice_vecs"`
	Plane           []int       `yaml:"plane" json:"plane"`
	Distances       []float64   `yaml:"distances" json:"distances"`
	TranslationDist float64     `yaml:"translation_dist" json:"translation_dist"`
	Jii             float64     `yaml:"j_ii" json:"j_ii"`
	Jij             []float64   `yaml:"j_ij" json:"j_ij"`
	SigmaII         float64     `yaml:"sigma_ii" json:"sigma_ii"`
	SigmaIJ         []float64   `yaml:"sigma_ij" json:"sigma_ij"`
	Temp            float64     `yaml:"temp" json:"temp"`
	InverseHTau     float64     `yaml:"inverse_htau" json:"inverse_htau"`
	IsHole          bool        `yaml:"is_hole" json:"is_hole"`
	Realizations    int         `yaml:"realizations" json:"realizations"`

	// Execution knobs, not part of the physical model.
	Workers   int   `yaml:"workers" json:"workers"`
	Seed      int64 `yaml:"seed" json:"seed"`
	LegacyPBC bool  `yaml:"legacy_pbc" json:"legacy_pbc"`
}

func DefaultConfig() *Config {
	return &Config{
		Nx:           1,
		Ny:           1,
		Nz:           1,
		Temp:         DefaultTemp,
		InverseHTau:  DefaultInverseHTau,
		IsHole:       true,
		Realizations: DefaultRealizations,
		Workers:      1,
	}
}

// Load reads a parameter file onto the defaults. JSON is selected by the
// .json extension, anything else parses as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on a missing or incomplete record, before any
// computation starts.
func (c *Config) Validate() error {
	if len(c.Atoms) == 0 {
		return elph.DimensionError{Field: "atoms", Message: "no atoms"}
	}
	for i, a := range c.Atoms {
		if len(a) != 3 {
			return elph.DimensionError{Field: "atoms", Message: fmt.Sprintf("atom %d has %d coordinates, want 3", i, len(a))}
		}
	}
	if c.Nx < 1 || c.Ny < 1 || c.Nz < 1 {
		return elph.DimensionError{Field: "supercell", Message: "nx, ny, nz must be >= 1"}
	}
	if len(c.LatticeVecs) != 3 {
		return elph.DimensionError{Field: "lattice_vecs", Message: "lattice matrix must be 3x3"}
	}
	for _, row := range c.LatticeVecs {
		if len(row) != 3 {
			return elph.DimensionError{Field: "lattice_vecs", Message: "lattice matrix must be 3x3"}
		}
	}
	if len(c.Plane) != 2 {
		return elph.ConfigurationError{Field: "plane", Message: "need two axis indices"}
	}
	for _, p := range c.Plane {
		if p < 0 || p > 2 {
			return elph.ConfigurationError{Field: "plane", Message: "axis indices must be 0, 1 or 2"}
		}
	}
	if len(c.Distances) == 0 {
		return elph.ConfigurationError{Field: "distances", Message: "no interaction distances"}
	}
	if len(c.Jij) != 3 {
		return elph.ConfigurationError{Field: "j_ij", Message: "need exactly 3 coupling values"}
	}
	if len(c.SigmaIJ) != 3 {
		return elph.ConfigurationError{Field: "sigma_ij", Message: "need exactly 3 disorder values"}
	}
	if c.Temp <= 0 {
		return elph.ConfigurationError{Field: "temp", Message: "temperature must be positive"}
	}
	if c.InverseHTau <= 0 {
		return elph.ConfigurationError{Field: "inverse_htau", Message: "scattering rate must be positive"}
	}
	if c.Realizations < 1 {
		return elph.ConfigurationError{Field: "realizations", Message: "need at least one realization"}
	}
	return nil
}

// UnitCell converts the validated record into the lattice geometry types.
func (c *Config) UnitCell() lattice.UnitCell {
	cell := lattice.UnitCell{Atoms: make([][3]float64, len(c.Atoms))}
	for i, a := range c.Atoms {
		cell.Atoms[i] = [3]float64{a[0], a[1], a[2]}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cell.Vectors[i][j] = c.LatticeVecs[i][j]
		}
	}
	return cell
}

func (c *Config) Supercell() lattice.Supercell {
	return lattice.Supercell{Nx: c.Nx, Ny: c.Ny, Nz: c.Nz}
}

func (c *Config) TransportPlane() lattice.Plane {
	return lattice.Plane{c.Plane[0], c.Plane[1]}
}

func (c *Config) Coupling() tightbinding.Coupling {
	return tightbinding.Coupling{
		Onsite:      c.Jii,
		Transfer:    c.Jij,
		OnsiteSigma: c.SigmaII,
		Sigma:       c.SigmaIJ,
	}
}

func (c *Config) Thermal() localization.Thermal {
	return localization.Thermal{
		Temperature: c.Temp,
		Gamma:       c.InverseHTau,
		IsHole:      c.IsHole,
	}
}
