package elph

import "fmt"

// ConfigurationError reports a missing or malformed input parameter.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}

// DimensionError reports geometry inputs with an invalid shape, such as
// supercell replication counts below 1 or a lattice matrix that is not 3x3.
type DimensionError struct {
	Field   string
	Message string
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("dimension: %s: %s", e.Field, e.Message)
}

// NumericalError reports a failure inside the numeric pipeline, such as
// non-finite Hamiltonian entries or an eigendecomposition that did not
// converge.
type NumericalError struct {
	Op      string
	Message string
}

func (e NumericalError) Error() string {
	return fmt.Sprintf("numerical: %s: %s", e.Op, e.Message)
}
