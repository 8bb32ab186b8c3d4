// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/katalvlaran/titration/concentration"
	"github.com/katalvlaran/titration/contributors"
	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/fit"
	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// Titration builds the models described by f. Constructor errors of the
// component packages are returned wrapped and keep their sentinels.
func (f *File) Titration() (fit.Titration, error) {
	var t fit.Titration
	st, err := f.stoichiometry()
	if err != nil {
		return t, err
	}
	t.Stoichiometry = st
	if t.Equilibrium, err = f.equilibrium(st); err != nil {
		return t, err
	}
	if t.Totals, err = f.totals(st); err != nil {
		return t, err
	}
	for i, ds := range f.Datasets {
		d, err := buildDataset(ds, st)
		if err != nil {
			return t, fmt.Errorf("config: dataset %d (%s): %w", i+1, ds.Name, err)
		}
		t.Datasets = append(t.Datasets, d)
	}
	if err = t.Validate(); err != nil {
		return t, fmt.Errorf("config: %w", err)
	}

	return t, nil
}

func (f *File) stoichiometry() (*equilibrium.Stoichiometry, error) {
	bound := make([]string, len(f.Species.Complexes))
	rows := make([][]int, len(f.Species.Complexes))
	for b, c := range f.Species.Complexes {
		bound[b], rows[b] = c.Name, c.Stoichiometry
	}
	st, err := equilibrium.NewStoichiometry(f.Species.Free, bound, rows)
	if err != nil {
		return nil, fmt.Errorf("config: species: %w", err)
	}

	return st, nil
}

// constantName labels the constant of complex b, "K(HG)".
func constantName(st *equilibrium.Stoichiometry, b int) string {
	return "K(" + st.BoundNames()[b] + ")"
}

func (f *File) equilibrium(st *equilibrium.Stoichiometry) (equilibrium.Model, error) {
	e := f.Equilibrium
	var (
		m   equilibrium.Model
		err error
	)
	switch e.Mode {
	case "", "all":
		names := e.Names
		if len(names) == 0 {
			names = make([]string, st.NumBound())
			for b := range names {
				names[b] = constantName(st, b)
			}
		}
		m, err = equilibrium.NewAll(names)
	case "partial":
		values := cellRow(e.Constants)
		for b, v := range values {
			if !v.IsKnown() && v.Name() == "" && b < st.NumBound() {
				values[b] = param.Unknown(constantName(st, b), v.Guess())
			}
		}
		m, err = equilibrium.NewPartial(values)
	case "custom":
		m, err = equilibrium.NewCustom(cellRow(e.Micro), e.Factors, e.Exponents)
	default:
		return nil, invalidf("equilibrium mode %q", e.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("config: equilibrium: %w", err)
	}

	return m, nil
}

func (f *File) totals(st *equilibrium.Stoichiometry) (concentration.Model, error) {
	c := f.Concentrations
	var (
		m   concentration.Model
		err error
	)
	switch c.Mode {
	case "", "table":
		m, err = concentration.NewTable(cellTable(c.Totals), st.FreeNames(), c.Linked)
	case "volumes":
		vol, verr := matrix.FromRows(c.Volumes)
		if verr != nil {
			return nil, fmt.Errorf("config: concentrations: volumes: %w", verr)
		}
		m, err = concentration.NewFromVolumes(cellTable(c.Stocks), vol, st.FreeNames(), c.StockNames, c.Linked)
	default:
		return nil, invalidf("concentrations mode %q", c.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("config: concentrations: %w", err)
	}

	return m, nil
}

func buildDataset(ds Dataset, st *equilibrium.Stoichiometry) (fit.Dataset, error) {
	var d fit.Dataset
	observed, err := matrix.FromRows(ds.Observed)
	if err != nil {
		return d, fmt.Errorf("observed: %w", err)
	}
	species := st.Species()
	index := make(map[string]int, len(species))
	for s, name := range species {
		index[name] = s
	}
	contrib := make([]int, len(ds.Contributors))
	for k, name := range ds.Contributors {
		s, ok := index[name]
		if !ok {
			return d, invalidf("unknown contributor %q", name)
		}
		contrib[k] = s
	}

	var opts []contributors.Option
	switch ds.Mode {
	case "", "projected":
	case "nonlinear":
		opts = append(opts, contributors.WithMode(contributors.Nonlinear))
	default:
		return d, invalidf("coefficient mode %q", ds.Mode)
	}
	if ds.Channels != nil {
		opts = append(opts, contributors.WithChannelNames(ds.Channels))
	}
	if ds.FractionOf != "" {
		counts, err := componentCounts(st, ds.FractionOf)
		if err != nil {
			return d, err
		}
		opts = append(opts, contributors.WithFractionOf(counts))
	}
	model, err := contributors.NewLinear(species, contrib, cellTable(ds.Coefficients), opts...)
	if err != nil {
		return d, err
	}

	return fit.Dataset{Name: ds.Name, Observed: observed, Model: model}, nil
}

// componentCounts returns how many units of the named free component each
// species (free ⧺ bound) carries.
func componentCounts(st *equilibrium.Stoichiometry, component string) ([]int, error) {
	i := -1
	for j, name := range st.FreeNames() {
		if name == component {
			i = j
		}
	}
	if i < 0 {
		return nil, invalidf("fraction_of: unknown component %q", component)
	}
	counts := make([]int, st.NumSpecies())
	counts[i] = 1
	for b := 0; b < st.NumBound(); b++ {
		counts[st.NumFree()+b] = st.Coeff(b, i)
	}

	return counts, nil
}
