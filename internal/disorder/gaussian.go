// Package disorder samples the quenched energetic disorder used by the
// transient localization model.
package disorder

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SymmetricGaussian draws one n x n symmetric matrix of independent
// standard-normal entries: the lower triangle (diagonal included) is drawn
// and reflected onto the upper triangle. Each call represents one frozen
// nuclear configuration, so a fresh draw is required per realization.
//
// The random source is explicit; callers own seeding, which keeps
// realizations independent and parallelizable.
func SymmetricGaussian(n int, rng *rand.Rand) *mat.SymDense {
	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			g.SetSym(i, j, rng.NormFloat64())
		}
	}
	return g
}
