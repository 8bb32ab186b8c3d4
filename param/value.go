// SPDX-License-Identifier: MIT

package param

import "fmt"

// Value is one numeric slot of a titration configuration: either a known
// number or an unknown to be fitted, with a name and an initial guess.
// The zero Value is Known(0).
type Value struct {
	unknown bool
	v       float64 // known value, or initial guess when unknown
	name    string  // only meaningful when unknown
}

// Known returns a fixed slot holding v.
func Known(v float64) Value { return Value{v: v} }

// Unknown returns a slot to be fitted, seeded with guess.
// An empty name is allowed; owning models substitute a generated one.
func Unknown(name string, guess float64) Value {
	return Value{unknown: true, v: guess, name: name}
}

// IsKnown reports whether the slot holds a fixed value.
func (p Value) IsKnown() bool { return !p.unknown }

// Value returns the fixed value. It is meaningless for unknown slots.
func (p Value) Value() float64 { return p.v }

// Guess returns the initial guess of an unknown slot.
func (p Value) Guess() float64 { return p.v }

// Name returns the unknown's name ("" for known slots).
func (p Value) Name() string { return p.name }

// String implements fmt.Stringer.
func (p Value) String() string {
	if p.unknown {
		return fmt.Sprintf("Unknown(%s, %g)", p.name, p.v)
	}

	return fmt.Sprintf("Known(%g)", p.v)
}
