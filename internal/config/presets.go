package config

import "sort"

// Presets cover a pair of well-studied high-mobility molecular crystals.
// Couplings and disorders are indicative literature-scale values in eV;
// geometry is the ab herringbone plane with two molecules per cell.
var Presets = map[string]*Config{
	"rubrene": {
		Atoms:           [][]float64{{0, 0, 0}, {0.5, 0.5, 0}},
		Nx:              8,
		Ny:              8,
		Nz:              1,
		LatticeVecs:     [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Plane:           []int{0, 1},
		Distances:       []float64{0.7071},
		TranslationDist: 1.0,
		Jij:             []float64{0.020, 0.020, 0.083},
		SigmaIJ:         []float64{0.010, 0.010, 0.025},
		Temp:            300,
		InverseHTau:     5e-3,
		IsHole:          true,
		Realizations:    250,
		Workers:         1,
	},
	"pentacene": {
		Atoms:           [][]float64{{0, 0, 0}, {0.5, 0.5, 0}},
		Nx:              8,
		Ny:              8,
		Nz:              1,
		LatticeVecs:     [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Plane:           []int{0, 1},
		Distances:       []float64{0.7071},
		TranslationDist: 1.0,
		Jij:             []float64{0.048, 0.038, 0.032},
		SigmaIJ:         []float64{0.022, 0.018, 0.015},
		Temp:            300,
		InverseHTau:     5e-3,
		IsHole:          true,
		Realizations:    250,
		Workers:         1,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
