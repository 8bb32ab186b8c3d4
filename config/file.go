// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/titration/param"
)

// File is the decoded titration description.
type File struct {
	Species        Species        `yaml:"species"`
	Equilibrium    Equilibrium    `yaml:"equilibrium"`
	Concentrations Concentrations `yaml:"concentrations"`
	Datasets       []Dataset      `yaml:"datasets"`
	Fit            Fit            `yaml:"fit"`
}

// Species lists the free components and the complexes they form.
type Species struct {
	Free      []string  `yaml:"free"`
	Complexes []Complex `yaml:"complexes"`
}

// Complex is one bound species and its stoichiometric coefficients, one per
// free component.
type Complex struct {
	Name          string `yaml:"name"`
	Stoichiometry []int  `yaml:"stoichiometry"`
}

// Equilibrium selects the constant parameterisation.
//
// Modes: "all" (every constant unknown, Names optional), "partial"
// (Constants, one Cell per complex), "custom" (Micro, Factors, Exponents).
type Equilibrium struct {
	Mode      string    `yaml:"mode"`
	Names     []string  `yaml:"names"`
	Constants []*Cell   `yaml:"constants"`
	Micro     []*Cell   `yaml:"micro"`
	Factors   []float64 `yaml:"factors"`
	Exponents [][]int   `yaml:"exponents"`
}

// Concentrations selects how totals are derived.
//
// Modes: "table" (Totals, points × free) and "volumes" (Stocks, free ×
// stocks, with cumulative Volumes, points × stocks).
type Concentrations struct {
	Mode       string      `yaml:"mode"`
	Linked     bool        `yaml:"linked"`
	Totals     [][]*Cell   `yaml:"totals"`
	Stocks     [][]*Cell   `yaml:"stocks"`
	StockNames []string    `yaml:"stock_names"`
	Volumes    [][]float64 `yaml:"volumes"`
}

// Dataset is one observed signal block.
type Dataset struct {
	Name         string      `yaml:"name"`
	Observed     [][]float64 `yaml:"observed"`
	Channels     []string    `yaml:"channels"`
	Contributors []string    `yaml:"contributors"`
	Coefficients [][]*Cell   `yaml:"coefficients"`
	// Mode is "projected" (default) or "nonlinear".
	Mode string `yaml:"mode"`
	// FractionOf names a free component whose mole fractions replace the
	// contributor concentrations.
	FractionOf string `yaml:"fraction_of"`
}

// Fit holds the optimizer settings. Zero values keep the fit defaults.
type Fit struct {
	Method        string        `yaml:"method"`
	MaxIterations int           `yaml:"max_iterations"`
	TimeLimit     time.Duration `yaml:"time_limit"`
	Jacobian      string        `yaml:"jacobian"`
	Weighting     string        `yaml:"weighting"`
	Penalty       float64       `yaml:"penalty"`
	Workers       int           `yaml:"workers"`
	IllPosedRcond *float64      `yaml:"ill_posed_rcond"`
}

// Cell is one entry of a value table. Tables hold *Cell: a YAML null
// decodes to nil, an unknown without a name or guess.
type Cell struct {
	Known bool
	Value float64
	Name  string
	Guess float64
}

// UnmarshalYAML accepts a number (known) or a {name, guess} mapping
// (unknown).
func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = Cell{Known: true, Value: v}
	case yaml.MappingNode:
		var u struct {
			Name  string  `yaml:"name"`
			Guess float64 `yaml:"guess"`
		}
		if err := n.Decode(&u); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = Cell{Name: u.Name, Guess: u.Guess}
	default:
		return fmt.Errorf("line %d: cell must be a number, null or {name, guess}", n.Line)
	}

	return nil
}

// Param converts c to a param.Value. A nil Cell is an unknown.
func (c *Cell) Param() param.Value {
	if c == nil {
		return param.Unknown("", 0)
	}
	if c.Known {
		return param.Known(c.Value)
	}

	return param.Unknown(c.Name, c.Guess)
}

// Load decodes a description from r. Unknown fields are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &f, nil
}

// LoadFile decodes the description stored at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return Load(fh)
}

func cellRow(cells []*Cell) []param.Value {
	out := make([]param.Value, len(cells))
	for i, c := range cells {
		out[i] = c.Param()
	}

	return out
}

func cellTable(cells [][]*Cell) [][]param.Value {
	out := make([][]param.Value, len(cells))
	for i, row := range cells {
		out[i] = cellRow(row)
	}

	return out
}
