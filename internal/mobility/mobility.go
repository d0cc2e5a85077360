package mobility

import "github.com/PuffyDucks/elph/internal/elph"

// Result carries the averaged squared localization lengths (squared
// lattice-parameter units) and the derived mobilities (cm^2/Vs).
type Result struct {
	AvgLx2      float64 `json:"avg_lx2"`
	AvgLy2      float64 `json:"avg_ly2"`
	MobilityX   float64 `json:"mobility_x"`
	MobilityY   float64 `json:"mobility_y"`
	MobilityAvg float64 `json:"mobility_avg"`
}

// Calculate converts averaged localization lengths into mobilities via the
// transient localization formula
//
//	mu = 1e-16 * e * <L^2> / (2 * tau * kB * T)
//
// with tau = hbar/Gamma and Gamma in eV.
func Calculate(avgLx2, avgLy2, gamma, temp float64) Result {
	tau := elph.ReducedPlanck * elph.JouleToEV / gamma // seconds
	scale := elph.LatticeUnitToCm2 * elph.ElementaryCharge / (2 * tau * elph.Boltzmann * temp)
	return Result{
		AvgLx2:      avgLx2,
		AvgLy2:      avgLy2,
		MobilityX:   scale * avgLx2,
		MobilityY:   scale * avgLy2,
		MobilityAvg: scale * 0.5 * (avgLx2 + avgLy2),
	}
}
