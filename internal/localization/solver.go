// Package localization computes thermally weighted localization lengths of
// a charge carrier from one tight-binding Hamiltonian realization.
package localization

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/PuffyDucks/elph/internal/elph"
	"github.com/PuffyDucks/elph/internal/lattice"
)

// Thermal holds the thermodynamic inputs of the Kubo estimate.
type Thermal struct {
	Temperature float64 // K
	Gamma       float64 // inverse scattering time hbar/tau, eV
	IsHole      bool    // hole carriers populate the top of the band
}

// Lengths is the squared localization length along the two transport axes
// for a single disorder realization.
type Lengths struct {
	Lx2, Ly2 float64
}

// Solver diagonalizes Hamiltonian realizations and evaluates the
// linear-response localization lengths on a fixed geometry.
type Solver struct {
	x, y    []float64 // diagonal position operators, fractional units
	thermal Thermal
}

// NewSolver prepares the position operators from the supercell positions
// and the transport plane. Positions are the fractional coordinates from
// lattice.Build; the squared lengths therefore come out in squared
// lattice-parameter units, which the mobility conversion expects.
func NewSolver(positions [][3]float64, plane lattice.Plane, th Thermal) *Solver {
	n := len(positions)
	s := &Solver{
		x:       make([]float64, n),
		y:       make([]float64, n),
		thermal: th,
	}
	for i, p := range positions {
		s.x[i] = p[plane[0]]
		s.y[i] = p[plane[1]]
	}
	return s
}

// Solve diagonalizes h and returns the squared localization lengths
//
//	L2 = (1/Z) sum_nm w_n |X'[n,m] dE[n,m]|^2 * 2 / (Gamma^2 + dE[n,m]^2)
//
// with Boltzmann weights w_n = exp(s*beta*E_n), s = +1 for holes and -1 for
// electrons. Non-finite Hamiltonian entries and eigensolver failures
// surface as NumericalError.
func (s *Solver) Solve(h *mat.SymDense) (Lengths, error) {
	n := len(s.x)
	if h.SymmetricDim() != n {
		return Lengths{}, elph.DimensionError{Field: "hamiltonian", Message: "size does not match site count"}
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if v := h.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return Lengths{}, elph.NumericalError{Op: "hamiltonian", Message: "non-finite matrix entry"}
			}
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(h, true); !ok {
		return Lengths{}, elph.NumericalError{Op: "eigendecomposition", Message: "factorization did not converge"}
	}
	energies := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	xp := s.eigenbasisOperator(&vecs, s.x)
	yp := s.eigenbasisOperator(&vecs, s.y)

	sign := -1.0
	if s.thermal.IsHole {
		sign = 1.0
	}
	beta := 1 / (elph.BoltzmannEV * s.thermal.Temperature)

	weights := make([]float64, n)
	var partition float64
	for i, e := range energies {
		weights[i] = math.Exp(sign * beta * e)
		partition += weights[i]
	}

	gamma2 := s.thermal.Gamma * s.thermal.Gamma
	var lx2, ly2 float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			de := energies[i] - energies[j]
			lorentz := 2 / (gamma2 + de*de)
			mx := xp.At(i, j) * de
			my := yp.At(i, j) * de
			lx2 += weights[i] * mx * mx * lorentz
			ly2 += weights[i] * my * my * lorentz
		}
	}
	lx2 /= partition
	ly2 /= partition

	return Lengths{Lx2: lx2, Ly2: ly2}, nil
}

// eigenbasisOperator computes V^T diag(d) V without materializing the
// diagonal matrix.
func (s *Solver) eigenbasisOperator(v *mat.Dense, d []float64) *mat.Dense {
	n := len(d)
	scaled := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for m := 0; m < n; m++ {
			scaled.Set(i, m, d[i]*v.At(i, m))
		}
	}
	out := mat.NewDense(n, n, nil)
	out.Mul(v.T(), scaled)
	return out
}
