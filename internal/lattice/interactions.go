package lattice

import (
	"math"

	"github.com/PuffyDucks/elph/internal/elph"
)

// distTol is the absolute tolerance for matching a pair separation against
// a configured interaction distance.
const distTol = 1e-4

// Interactions is the classified pair data for one supercell geometry.
// Types holds integer interaction codes (0 = no interaction) and Disp the
// boundary-corrected Cartesian displacement vectors. Both are N x N.
type Interactions struct {
	Types [][]int
	Disp  [][][3]float64
}

// Classifier assigns interaction-type codes to site pairs. Codes 1..K
// follow the order of Cutoffs; pairs separated by exactly one lattice
// translation are forced to code 3; type-1 pairs whose displacement signs
// match along the two transport axes are refined to code 2. That precedence
// is order-sensitive and must not be rearranged.
type Classifier struct {
	Cell        UnitCell
	Super       Supercell
	Plane       Plane
	Cutoffs     []float64
	Translation float64

	// LegacyPBC reproduces the historic boundary correction, which tested
	// each axis against the whole displacement set and shifted every pair
	// at once. The default is a per-pair minimum-image fold over the
	// supercell axis lengths.
	LegacyPBC bool
}

// Classify computes displacement vectors, applies the periodic-boundary
// correction, and assigns type codes for every site pair. The positions
// argument must come from Build with the same cell and supercell.
func (c *Classifier) Classify(positions [][3]float64) (*Interactions, error) {
	if len(positions) == 0 {
		return nil, elph.DimensionError{Field: "positions", Message: "no sites to classify"}
	}
	if c.Plane[0] < 0 || c.Plane[0] > 2 || c.Plane[1] < 0 || c.Plane[1] > 2 {
		return nil, elph.ConfigurationError{Field: "plane", Message: "axis indices must be 0, 1 or 2"}
	}

	n := len(positions)
	cart := c.toCartesian(positions)

	disp := make([][][3]float64, n)
	for i := range disp {
		disp[i] = make([][3]float64, n)
		for j := range disp[i] {
			for k := 0; k < 3; k++ {
				disp[i][j][k] = cart[i][k] - cart[j][k]
			}
		}
	}

	if c.LegacyPBC {
		c.applyLegacyPBC(disp)
	} else {
		c.applyMinimumImage(disp)
	}

	types := make([][]int, n)
	for i := range types {
		types[i] = make([]int, n)
	}

	// Stage 1: match corrected separations against the cutoff list, later
	// cutoffs overwriting earlier ones on overlap.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := norm3(disp[i][j])
			for k, cutoff := range c.Cutoffs {
				if math.Abs(d-cutoff) <= distTol {
					types[i][j] = k + 1
				}
			}
		}
	}

	// Stage 2: pairs separated by one lattice translation become code 3.
	// The test uses the raw separation: a translation pair that crosses the
	// boundary would be folded away by the image correction. A zero
	// translation distance disables the override, otherwise it would tag
	// the diagonal.
	if c.Translation > 0 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				raw := [3]float64{
					cart[i][0] - cart[j][0],
					cart[i][1] - cart[j][1],
					cart[i][2] - cart[j][2],
				}
				if math.Abs(norm3(raw)-c.Translation) <= distTol {
					types[i][j] = 3
				}
			}
		}
	}

	// Stage 3: refine type 1 only. Same displacement signs along the two
	// transport axes means the pair sits on the other herringbone diagonal
	// and carries the second coupling.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if types[i][j] != 1 {
				continue
			}
			if sign(disp[i][j][c.Plane[0]]) == sign(disp[i][j][c.Plane[1]]) {
				types[i][j] = 2
			}
		}
	}

	return &Interactions{Types: types, Disp: disp}, nil
}

// toCartesian maps fractional positions through the lattice vectors:
// cart = positions . Vectors^T.
func (c *Classifier) toCartesian(positions [][3]float64) [][3]float64 {
	cart := make([][3]float64, len(positions))
	for i, p := range positions {
		for k := 0; k < 3; k++ {
			cart[i][k] = p[0]*c.Cell.Vectors[k][0] + p[1]*c.Cell.Vectors[k][1] + p[2]*c.Cell.Vectors[k][2]
		}
	}
	return cart
}

// applyMinimumImage folds each pair displacement into the centered supercell
// box, one axis at a time. Axis lengths are the replicated diagonal lattice
// components.
func (c *Classifier) applyMinimumImage(disp [][][3]float64) {
	reps := [3]float64{float64(c.Super.Nx), float64(c.Super.Ny), float64(c.Super.Nz)}
	for k := 0; k < 3; k++ {
		length := c.Cell.Vectors[k][k] * reps[k]
		if length <= 0 {
			continue
		}
		for i := range disp {
			for j := range disp[i] {
				if disp[i][j][k] > length/2 {
					disp[i][j][k] -= length
				} else if disp[i][j][k] < -length/2 {
					disp[i][j][k] += length
				}
			}
		}
	}
}

// applyLegacyPBC mirrors the historic whole-array test: if any displacement
// component along an axis exceeds half the unit-cell axis length, every pair
// on that axis is shifted down by one axis length (or up, for the negative
// side). Kept only for output compatibility; it can leave the displacement
// field asymmetric.
func (c *Classifier) applyLegacyPBC(disp [][][3]float64) {
	for k := 0; k < 3; k++ {
		length := c.Cell.Vectors[k][k]
		if length <= 0 {
			continue
		}
		var above, below bool
		for i := range disp {
			for j := range disp[i] {
				if disp[i][j][k] > length/2 {
					above = true
				} else if disp[i][j][k] < -length/2 {
					below = true
				}
			}
		}
		var shift float64
		if above {
			shift = -length
		} else if below {
			shift = length
		} else {
			continue
		}
		for i := range disp {
			for j := range disp[i] {
				disp[i][j][k] += shift
			}
		}
	}
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
