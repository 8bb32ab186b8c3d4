// SPDX-License-Identifier: MIT
package fit_test

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/concentration"
	"github.com/katalvlaran/titration/contributors"
	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/fit"
	"github.com/katalvlaran/titration/param"
	"github.com/katalvlaran/titration/synth"
)

// ExampleFitter_Fit recovers a 1:1 binding constant from a simulated
// UV-vis titration, solving the molar absorptivities by projection.
func ExampleFitter_Fit() {
	st, _ := equilibrium.NewStoichiometry([]string{"H", "G"}, []string{"HG"}, [][]int{{1, 1}})
	totals := synth.HostGuestTotals(10, 1e-4, 2e-4)
	data, _ := synth.Simulate(synth.Experiment{
		Stoichiometry: st,
		LogK:          []float64{3},
		Totals:        totals,
		Contributors:  []int{0, 2},
		Coefficients:  mat.NewDense(2, 1, []float64{1000, 5000}),
	})

	eq, _ := equilibrium.NewPartial([]param.Value{param.Unknown("K(HG)", 100)})
	conc, _ := concentration.NewDirect(totals)
	signal, _ := contributors.NewLinear([]string{"H", "G", "HG"}, []int{0, 2},
		[][]param.Value{{param.Unknown("", 0)}, {param.Unknown("", 0)}})

	f, err := fit.New(fit.Titration{
		Stoichiometry: st,
		Equilibrium:   eq,
		Totals:        conc,
		Datasets:      []fit.Dataset{{Name: "uv", Observed: data.Noisy, Model: signal}},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := f.Fit(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s = %.0f\n", res.Names[0], res.K[0])
	fmt.Printf("ε(HG) = %.0f\n", res.Signals[0].Coefficients.At(1, 0))
	// Output:
	// K(HG) = 1000
	// ε(HG) = 5000
}
