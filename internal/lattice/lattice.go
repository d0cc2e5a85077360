// Package lattice builds supercell geometries and classifies periodic
// pairwise interactions for the tight-binding mobility model.
package lattice

import (
	"github.com/PuffyDucks/elph/internal/elph"
)

// UnitCell holds the fractional atomic coordinates of one crystal unit cell
// and its lattice vectors (rows). Coordinates are expressed in units of the
// lattice parameter.
type UnitCell struct {
	Atoms   [][3]float64
	Vectors [3][3]float64
}

// Supercell gives the replication count of the unit cell along each axis.
type Supercell struct {
	Nx, Ny, Nz int
}

// Plane selects the two coordinate axes of the 2D transport plane,
// e.g. the yz plane is Plane{1, 2}.
type Plane [2]int

// Sites returns the number of sites in the replicated cell.
func (s Supercell) Sites(cell UnitCell) int {
	return len(cell.Atoms) * s.Nx * s.Ny * s.Nz
}

func (s Supercell) validate() error {
	if s.Nx < 1 || s.Ny < 1 || s.Nz < 1 {
		return elph.DimensionError{Field: "supercell", Message: "replication counts must be >= 1"}
	}
	return nil
}

// Build replicates the unit cell atoms across the supercell grid. Row order
// is fixed: cell offsets iterate a over [0,nx), then b over [0,ny), then c
// over [0,nz), with the unit-cell atoms innermost. Positions stay in
// fractional lattice units; the offset (a,b,c) is added per cell.
func Build(cell UnitCell, sc Supercell) ([][3]float64, error) {
	if len(cell.Atoms) == 0 {
		return nil, elph.DimensionError{Field: "atoms", Message: "unit cell has no atoms"}
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}

	positions := make([][3]float64, 0, sc.Sites(cell))
	for a := 0; a < sc.Nx; a++ {
		for b := 0; b < sc.Ny; b++ {
			for c := 0; c < sc.Nz; c++ {
				for _, atom := range cell.Atoms {
					positions = append(positions, [3]float64{
						atom[0] + float64(a),
						atom[1] + float64(b),
						atom[2] + float64(c),
					})
				}
			}
		}
	}
	return positions, nil
}
