// SPDX-License-Identifier: MIT

// Command titrationfit fits a titration described in YAML and prints the
// fitted parameters.
//
//	titrationfit -config titration.yaml [-v] [-timeout 30s]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/katalvlaran/titration/config"
	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/fit"
	"github.com/katalvlaran/titration/matrix"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("titrationfit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", "", "titration description (YAML)")
	verbose := fs.Bool("v", false, "log fit progress at debug level")
	timeout := fs.Duration("timeout", 0, "wall-clock limit for the fit (0 = none)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *path == "" {
		fmt.Fprintln(stderr, "titrationfit: -config is required")
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	file, err := config.LoadFile(*path)
	if err != nil {
		logger.Error("failed to load description", "path", *path, "error", err)
		return 1
	}
	t, err := file.Titration()
	if err != nil {
		logger.Error("invalid titration", "error", err)
		return 1
	}
	opts, err := file.FitOptions()
	if err != nil {
		logger.Error("invalid fit options", "error", err)
		return 1
	}
	opts = append(opts, fit.WithLogger(logger))
	if *timeout > 0 {
		opts = append(opts, fit.WithTimeLimit(*timeout))
	}

	fitter, err := fit.New(t, opts...)
	if err != nil {
		logger.Error("invalid titration", "error", err)
		return 1
	}
	res, err := fitter.Fit(ctx)
	if err != nil {
		var fe *fit.Error
		if errors.As(err, &fe) {
			logger.Error("fit failed", "error", err,
				"iterations", fe.Status.Iterations, "cost", fe.Status.Cost)
		} else {
			logger.Error("fit failed", "error", err)
		}
		return 1
	}
	report(stdout, res, t.Stoichiometry)

	return 0
}

// report prints the result as plain text. Equilibrium constants are shown
// in linear scale; the speciation table has one row per titration point.
func report(w io.Writer, res *fit.Result, st *equilibrium.Stoichiometry) {
	complexes := st.BoundNames()
	fmt.Fprintf(w, "run %s\n", res.RunID)
	fmt.Fprintln(w, "constants:")
	for b, k := range res.K {
		fmt.Fprintf(w, "  %-20s %-14.6g log10 %.4f\n", "K("+complexes[b]+")", k, res.LogK[b])
	}
	if len(res.Names) > 0 {
		fmt.Fprintln(w, "parameters:")
		for i, name := range res.Names {
			fmt.Fprintf(w, "  %-20s %-14.6g ± %.3g\n", name, res.Params[i], res.StdErrors[i])
		}
	}
	status := res.Status
	fmt.Fprintf(w, "status: converged=%t iterations=%d evaluations=%d reason=%q elapsed=%s\n",
		status.Converged, status.Iterations, status.Evaluations, status.Reason, status.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "residuals: norm=%.4g rms=%.4g\n", status.ResidualNorm, status.RMS)
	for _, ds := range res.Signals {
		fmt.Fprintf(w, "  %-20s rms=%.4g\n", ds.Name, ds.RMS)
	}
	if res.Speciation == nil {
		return
	}

	fmt.Fprintf(w, "speciation: %d points\n", len(res.Speciation.Valid))
	fmt.Fprintf(w, "  %-5s", "point")
	for _, name := range st.Species() {
		fmt.Fprintf(w, " %12s", name)
	}
	fmt.Fprintln(w)
	for p, row := range matrix.ToRows(res.Speciation.Species()) {
		fmt.Fprintf(w, "  %-5d", p)
		for _, c := range row {
			fmt.Fprintf(w, " %12.5g", c)
		}
		fmt.Fprintln(w)
	}
}
