// SPDX-License-Identifier: MIT

// Package config reads YAML titration descriptions and turns them into a
// fit.Titration plus fit options.
//
// A null cell in any value table (equilibrium constants, micro-constants,
// totals, stock concentrations, coefficients) marks an unknown. A mapping
// {name: ..., guess: ...} marks an unknown with a label and a starting value.
// Numbers are known values.
//
//	species:
//	  free: [H, G]
//	  complexes:
//	    - {name: HG, stoichiometry: [1, 1]}
//	equilibrium:
//	  mode: partial
//	  constants: [{name: K(HG), guess: 100}]
//	concentrations:
//	  mode: table
//	  totals: [[1e-4, 0], [1e-4, 2e-5]]
//	datasets:
//	  - name: uv
//	    contributors: [H, HG]
//	    coefficients: [[null], [null]]
//	    observed: [[0.1], [0.11]]
//	fit:
//	  method: lm
//	  time_limit: 30s
package config
