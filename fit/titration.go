// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/concentration"
	"github.com/katalvlaran/titration/contributors"
	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/matrix"
)

// Dataset is one observed signal matrix and the model that predicts it.
type Dataset struct {
	// Name identifies the dataset in results and parameter owners.
	Name string

	// Observed is points × channels.
	Observed mat.Matrix

	// Model predicts Observed from the species concentrations.
	Model contributors.Model
}

// Titration is the complete description of one fit.
type Titration struct {
	Stoichiometry *equilibrium.Stoichiometry
	Equilibrium   equilibrium.Model
	Totals        concentration.Model
	Datasets      []Dataset
}

// Validate checks that all components agree on species, constants, points
// and channels.
func (t Titration) Validate() error {
	switch {
	case t.Stoichiometry == nil:
		return fitErrorf("Validate", fmt.Errorf("%w: nil stoichiometry", ErrBadTitration))
	case t.Equilibrium == nil:
		return fitErrorf("Validate", fmt.Errorf("%w: nil equilibrium model", ErrBadTitration))
	case t.Totals == nil:
		return fitErrorf("Validate", fmt.Errorf("%w: nil concentration model", ErrBadTitration))
	case len(t.Datasets) == 0:
		return fitErrorf("Validate", fmt.Errorf("%w: no datasets", ErrBadTitration))
	}
	if got, want := t.Equilibrium.NumConstants(), t.Stoichiometry.NumBound(); got != want {
		return fitErrorf("Validate", fmt.Errorf("%w: %d constants for %d complexes", ErrBadTitration, got, want))
	}
	if got, want := t.Totals.NumSpecies(), t.Stoichiometry.NumFree(); got != want {
		return fitErrorf("Validate", fmt.Errorf("%w: totals for %d species, stoichiometry has %d", ErrBadTitration, got, want))
	}
	points := t.Totals.NumPoints()
	names := make(map[string]bool, len(t.Datasets))
	for d, ds := range t.Datasets {
		if ds.Name == "" || names[ds.Name] {
			return fitErrorf("Validate", fmt.Errorf("%w: dataset %d: empty or repeated name %q", ErrBadTitration, d, ds.Name))
		}
		names[ds.Name] = true
		if ds.Model == nil {
			return fitErrorf("Validate", fmt.Errorf("%w: dataset %q: nil model", ErrBadTitration, ds.Name))
		}
		if got, want := ds.Model.NumSpecies(), t.Stoichiometry.NumSpecies(); got != want {
			return fitErrorf("Validate", fmt.Errorf("%w: dataset %q: model over %d species, stoichiometry has %d",
				ErrBadTitration, ds.Name, got, want))
		}
		if err := matrix.ValidateShape(ds.Observed, points, ds.Model.NumChannels()); err != nil {
			return fitErrorf("Validate", fmt.Errorf("%w: dataset %q: %v", ErrBadTitration, ds.Name, err))
		}
		if err := matrix.ValidateFinite(ds.Observed); err != nil {
			return fitErrorf("Validate", fmt.Errorf("%w: dataset %q: %v", ErrBadTitration, ds.Name, err))
		}
	}

	return nil
}
