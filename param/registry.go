// SPDX-License-Identifier: MIT

package param

import "fmt"

// Range is a half-open index range [Start, End) into the flat vector.
type Range struct {
	Start, End int
}

// Len returns End - Start.
func (r Range) Len() int { return r.End - r.Start }

// Slice returns x[Start:End]. The result aliases x.
func (r Range) Slice(x []float64) []float64 { return x[r.Start:r.End:r.End] }

// Block describes one registered model.
type Block struct {
	Owner   string
	Names   []string
	Guesses []float64
	Range   Range
}

// Registry is the ordered catalogue of all unknowns of one fit. Components
// register at configuration time and receive their Range.
type Registry struct {
	blocks []Block
	total  int
}

// Register appends m's unknowns under owner and returns their Range.
// Models without unknowns still get an (empty) block so that Blocks mirrors
// the registration sequence.
func (r *Registry) Register(owner string, m Model) (Range, error) {
	if owner == "" {
		return Range{}, ErrEmptyOwner
	}
	if m == nil {
		return Range{}, fmt.Errorf("Register(%s): %w", owner, ErrNilModel)
	}
	names := m.VariableNames()
	guesses := m.VariableInitialGuesses()
	if len(names) != len(guesses) {
		return Range{}, fmt.Errorf("Register(%s): %w: %d names, %d guesses",
			owner, ErrGuessCount, len(names), len(guesses))
	}

	rg := Range{Start: r.total, End: r.total + len(names)}
	r.blocks = append(r.blocks, Block{
		Owner:   owner,
		Names:   append([]string(nil), names...),
		Guesses: append([]float64(nil), guesses...),
		Range:   rg,
	})
	r.total = rg.End

	return rg, nil
}

// Len returns the total number of registered unknowns.
func (r *Registry) Len() int { return r.total }

// Blocks returns the registered blocks in order.
func (r *Registry) Blocks() []Block { return append([]Block(nil), r.blocks...) }

// Names returns every unknown's name in vector order. Owners are available
// through Blocks.
func (r *Registry) Names() []string {
	out := make([]string, 0, r.total)
	for _, b := range r.blocks {
		out = append(out, b.Names...)
	}

	return out
}

// InitialGuesses returns the concatenated seeds in vector order.
func (r *Registry) InitialGuesses() []float64 {
	out := make([]float64, 0, r.total)
	for _, b := range r.blocks {
		out = append(out, b.Guesses...)
	}

	return out
}
