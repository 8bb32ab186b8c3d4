// Package titration fits equilibrium constants, unknown concentrations and
// spectroscopic coefficients to supramolecular titration data.
//
// What is in the box?
//
//	• Speciation: free and complex concentrations from totals and log K
//	  (damped Newton on the mass balance, parallel over points)
//	• Parameterisations: all/partial equilibrium constants, custom
//	  micro-constant relations, totals from tables or stock volumes
//	• Signals: linear contributor models with projected (variable
//	  projection) or nonlinear coefficients, mole-fraction mode for NMR
//	• Fitting: Levenberg–Marquardt with finite-difference Jacobians,
//	  gonum Nelder–Mead / L-BFGS, ill-posedness and feasibility checks,
//	  standard errors
//
// Packages:
//
//	param/         Known/Unknown values and the flat parameter registry
//	matrix/        validators and table helpers over gonum mat
//	equilibrium/   stoichiometry and log K models (All, Partial, Custom)
//	concentration/ total concentration models (Direct, Table, FromVolumes)
//	speciation/    per-point speciation solver
//	contributors/  signal models and per-channel projection
//	residual/      dataset weighting and the combined residual vector
//	fit/           Fitter, Levenberg–Marquardt, gonum minimisers, Result
//	synth/         seeded synthetic titrations for tests and examples
//	config/        YAML titration descriptions
//	cmd/titrationfit command-line front end
//
// Quick example (1:1 host–guest):
//
//	H + G ⇌ HG    K = [HG] / ([H][G])
//
//	go run ./cmd/titrationfit -config config/testdata/host_guest.yaml
package titration
