package elph

// CODATA 2018 values, matching scipy.constants. The mobility formula is
// sensitive to every digit here; do not round.
const (
	ElementaryCharge = 1.602176634e-19        // C
	ReducedPlanck    = 1.0545718176461565e-34 // J*s
	Boltzmann        = 1.380649e-23           // J/K

	// JouleToEV converts Joules to electron-volts.
	JouleToEV = 6.241509074460763e+18

	// LatticeUnitToCm2 converts a squared lattice-parameter length
	// (Angstrom^2) into cm^2 for the mobility output.
	LatticeUnitToCm2 = 1e-16
)

// BoltzmannEV is the Boltzmann constant in eV/K, the unit the coupling and
// disorder parameters are expressed in.
const BoltzmannEV = Boltzmann * JouleToEV
