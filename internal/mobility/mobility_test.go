package mobility

import (
	"math"
	"testing"

	"github.com/PuffyDucks/elph/internal/elph"
)

func TestCalculate_SymmetricLengths(t *testing.T) {
	// Equal localization lengths must give identical mobilities on both
	// axes and for the average.
	r := Calculate(3.5, 3.5, 5e-3, 300)
	if r.MobilityX != r.MobilityY {
		t.Errorf("MobilityX = %v, MobilityY = %v, want equal", r.MobilityX, r.MobilityY)
	}
	if math.Abs(r.MobilityAvg-r.MobilityX) > 1e-15*math.Abs(r.MobilityX) {
		t.Errorf("MobilityAvg = %v, want %v", r.MobilityAvg, r.MobilityX)
	}
}

func TestCalculate_Zero(t *testing.T) {
	r := Calculate(0, 0, 5e-3, 300)
	if r.MobilityX != 0 || r.MobilityY != 0 || r.MobilityAvg != 0 {
		t.Errorf("zero lengths gave nonzero mobility: %+v", r)
	}
}

func TestCalculate_ExactFormula(t *testing.T) {
	const (
		lx2   = 120.0
		ly2   = 80.0
		gamma = 5e-3
		temp  = 300.0
	)
	tau := elph.ReducedPlanck * elph.JouleToEV / gamma
	wantX := 1e-16 * elph.ElementaryCharge * lx2 / (2 * tau * elph.Boltzmann * temp)

	r := Calculate(lx2, ly2, gamma, temp)
	if math.Abs(r.MobilityX-wantX) > 1e-15*wantX {
		t.Errorf("MobilityX = %v, want %v", r.MobilityX, wantX)
	}
	wantAvg := 1e-16 * elph.ElementaryCharge * 0.5 * (lx2 + ly2) / (2 * tau * elph.Boltzmann * temp)
	if math.Abs(r.MobilityAvg-wantAvg) > 1e-15*wantAvg {
		t.Errorf("MobilityAvg = %v, want %v", r.MobilityAvg, wantAvg)
	}
}

func TestCalculate_TauScaling(t *testing.T) {
	// Doubling Gamma halves tau, doubling the mobility for fixed lengths.
	a := Calculate(10, 10, 5e-3, 300)
	b := Calculate(10, 10, 1e-2, 300)
	if math.Abs(b.MobilityX-2*a.MobilityX) > 1e-12*a.MobilityX {
		t.Errorf("MobilityX(2*Gamma) = %v, want %v", b.MobilityX, 2*a.MobilityX)
	}
}
