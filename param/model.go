// SPDX-License-Identifier: MIT

package param

// Model is the capability shared by every parameterised component: it
// declares its unknowns and their seeds. Concrete models add a Run method
// whose first argument is the slice described by VariableNames.
type Model interface {
	// VariableNames returns the ordered, human-readable names of the unknowns.
	VariableNames() []string

	// VariableInitialGuesses returns one seed per name, same order.
	VariableInitialGuesses() []float64
}
