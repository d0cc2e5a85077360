// Package tightbinding assembles static-disorder tight-binding Hamiltonians
// from classified site interactions.
package tightbinding

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/PuffyDucks/elph/internal/disorder"
	"github.com/PuffyDucks/elph/internal/elph"
)

// Coupling holds the electronic parameters of the model, in eV. Transfer
// and Sigma carry one value per interaction type code 1..3.
type Coupling struct {
	Onsite      float64   // j_ii
	Transfer    []float64 // j_ij
	OnsiteSigma float64   // sigma_ii
	Sigma       []float64 // sigma_ij
}

// Sampler draws Hamiltonian realizations H = H0 + Sigma .* G, where H0 and
// Sigma are fixed by the interaction geometry and G is a fresh symmetric
// standard-normal matrix per draw.
type Sampler struct {
	base  *mat.SymDense
	sigma *mat.SymDense
	n     int
}

// NewSampler builds the deterministic base and disorder-magnitude matrices
// from the interaction-type codes. Both coupling triples must have exactly
// three entries, one per type code.
func NewSampler(types [][]int, p Coupling) (*Sampler, error) {
	if len(p.Transfer) != 3 {
		return nil, elph.ConfigurationError{Field: "j_ij", Message: "need exactly 3 coupling values"}
	}
	if len(p.Sigma) != 3 {
		return nil, elph.ConfigurationError{Field: "sigma_ij", Message: "need exactly 3 disorder values"}
	}
	n := len(types)
	if n == 0 {
		return nil, elph.DimensionError{Field: "interactions", Message: "empty interaction matrix"}
	}

	base := mat.NewSymDense(n, nil)
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		base.SetSym(i, i, p.Onsite)
		sigma.SetSym(i, i, p.OnsiteSigma)
		for j := 0; j < i; j++ {
			code := types[i][j]
			if code < 1 || code > 3 {
				continue
			}
			base.SetSym(i, j, p.Transfer[code-1])
			sigma.SetSym(i, j, p.Sigma[code-1])
		}
	}
	return &Sampler{base: base, sigma: sigma, n: n}, nil
}

// N returns the Hamiltonian dimension.
func (s *Sampler) N() int { return s.n }

// Base returns the disorder-free Hamiltonian H0.
func (s *Sampler) Base() *mat.SymDense {
	out := mat.NewSymDense(s.n, nil)
	out.CopySym(s.base)
	return out
}

// Sample returns one Hamiltonian realization. The result is freshly
// allocated: realizations never share matrices.
func (s *Sampler) Sample(rng *rand.Rand) *mat.SymDense {
	g := disorder.SymmetricGaussian(s.n, rng)
	h := mat.NewSymDense(s.n, nil)
	for i := 0; i < s.n; i++ {
		for j := 0; j <= i; j++ {
			h.SetSym(i, j, s.base.At(i, j)+s.sigma.At(i, j)*g.At(i, j))
		}
	}
	return h
}
