// SPDX-License-Identifier: MIT

package speciation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	armijoC       = 1e-4
	maxBacktracks = 60
)

// workspace holds the per-goroutine buffers of the Newton iteration.
type workspace struct {
	active []int     // free species with T_i > 0
	cplx   []int     // complexes present at this point
	lnK    []float64 // ln K of cplx
	sub    [][]float64

	t, u, uTry []float64
	d          []float64
	cur, try   state

	hess *mat.SymDense
	rhs  *mat.VecDense
	step *mat.VecDense
	chol mat.Cholesky
}

// state is one evaluation of the potential at u.
type state struct {
	f, c, r []float64
	gross   []float64 // f_i + Σ_b |S_bi| c_b
	g       float64   // G(u)
	err     float64   // max_i |r_i| / max(T_i, gross_i)
}

func (sv *Solver) newWorkspace() *workspace {
	return &workspace{
		active: make([]int, 0, sv.nFree),
		cplx:   make([]int, 0, sv.nBnd),
		lnK:    make([]float64, 0, sv.nBnd),
		sub:    make([][]float64, 0, sv.nBnd),
	}
}

// resize prepares buffers for n active species and m complexes.
func (ws *workspace) resize(n, m int) {
	grow := func(s []float64, k int) []float64 {
		if cap(s) < k {
			return make([]float64, k)
		}
		return s[:k]
	}
	ws.t = grow(ws.t, n)
	ws.u = grow(ws.u, n)
	ws.uTry = grow(ws.uTry, n)
	ws.d = grow(ws.d, n)
	for _, st := range []*state{&ws.cur, &ws.try} {
		st.f = grow(st.f, n)
		st.r = grow(st.r, n)
		st.gross = grow(st.gross, n)
		st.c = grow(st.c, m)
	}
	if ws.hess == nil || ws.hess.SymmetricDim() != n {
		ws.hess = mat.NewSymDense(n, nil)
		ws.rhs = mat.NewVecDense(n, nil)
		ws.step = mat.NewVecDense(n, nil)
	}
}

// solvePoint solves one titration point. freeOut and boundOut receive the
// full-length concentration rows on success.
func (sv *Solver) solvePoint(ws *workspace, logK, total, seed, freeOut, boundOut []float64) (int, bool) {
	for _, v := range total {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
	}
	for _, v := range logK {
		if math.IsNaN(v) || math.IsInf(v, 1) {
			return 0, false
		}
	}

	// Reduce the system to the components present at this point.
	ws.active = ws.active[:0]
	for i, v := range total {
		if v > 0 {
			ws.active = append(ws.active, i)
		}
	}
	ws.cplx, ws.lnK, ws.sub = ws.cplx[:0], ws.lnK[:0], ws.sub[:0]
	for b, row := range sv.s {
		if math.IsInf(logK[b], -1) {
			continue
		}
		present := true
		for i, e := range row {
			if e != 0 && total[i] == 0 {
				present = false
				break
			}
		}
		if !present {
			continue
		}
		sub := make([]float64, len(ws.active))
		for k, i := range ws.active {
			sub[k] = row[i]
		}
		ws.cplx = append(ws.cplx, b)
		ws.lnK = append(ws.lnK, logK[b]*math.Ln10)
		ws.sub = append(ws.sub, sub)
	}

	for i := range freeOut {
		freeOut[i] = 0
	}
	for b := range boundOut {
		boundOut[b] = 0
	}
	n := len(ws.active)
	if n == 0 {
		return 0, true
	}
	ws.resize(n, len(ws.cplx))

	for k, i := range ws.active {
		ws.t[k] = total[i]
		start := total[i]
		if seed != nil && seed[i] > 0 && !math.IsInf(seed[i], 0) {
			start = seed[i]
		}
		ws.u[k] = math.Log(start)
	}

	ws.eval(ws.u, &ws.cur)
	for it := 0; ; it++ {
		if ws.cur.err <= sv.opts.Tolerance {
			for k, i := range ws.active {
				freeOut[i] = ws.cur.f[k]
			}
			for m, b := range ws.cplx {
				boundOut[b] = ws.cur.c[m]
			}
			return it, true
		}
		if it == sv.opts.MaxIterations || math.IsNaN(ws.cur.err) {
			return it, false
		}
		if !ws.newtonStep(sv.opts.MaxLogStep) {
			return it + 1, false
		}
	}
}

// eval computes f, c, r, G and the relative error at u into st.
func (ws *workspace) eval(u []float64, st *state) {
	g := 0.0
	for k, uk := range u {
		st.f[k] = math.Exp(uk)
		st.r[k] = st.f[k] - ws.t[k]
		st.gross[k] = st.f[k]
		g += st.f[k] - ws.t[k]*uk
	}
	for m, sub := range ws.sub {
		c := math.Exp(ws.lnK[m] + floats.Dot(sub, u))
		st.c[m] = c
		g += c
		for k, e := range sub {
			if e != 0 {
				st.r[k] += e * c
				st.gross[k] += math.Abs(e) * c
			}
		}
	}
	st.g = g
	// Complexes with negative coefficients can cancel far above T_i; the
	// residual is then only resolvable relative to the gross terms.
	st.err = 0
	for k, r := range st.r {
		if e := math.Abs(r) / math.Max(ws.t[k], st.gross[k]); e > st.err || math.IsNaN(e) {
			st.err = e
		}
	}
}

// newtonStep performs one damped Newton update of ws.u and ws.cur.
// It reports false when no acceptable step exists.
func (ws *workspace) newtonStep(maxStep float64) bool {
	n := len(ws.u)
	cur := &ws.cur

	// H = diag(f) + Sᵀ diag(c) S
	for k := 0; k < n; k++ {
		for l := k; l < n; l++ {
			h := 0.0
			if k == l {
				h = cur.f[k]
			}
			for m, sub := range ws.sub {
				if sub[k] != 0 && sub[l] != 0 {
					h += sub[k] * sub[l] * cur.c[m]
				}
			}
			ws.hess.SetSym(k, l, h)
		}
	}
	for k, r := range cur.r {
		ws.rhs.SetVec(k, -r)
	}

	solved := false
	if ws.chol.Factorize(ws.hess) {
		if err := ws.chol.SolveVecTo(ws.step, ws.rhs); err == nil {
			solved = true
			for k := range ws.d {
				ws.d[k] = ws.step.AtVec(k)
			}
		}
	}
	gd := floats.Dot(cur.r, ws.d)
	if !solved || !(gd < 0) {
		// Diagonally scaled gradient descent.
		for k := range ws.d {
			ws.d[k] = -cur.r[k] / ws.hess.At(k, k)
		}
		gd = floats.Dot(cur.r, ws.d)
		if !(gd < 0) {
			return false
		}
	}
	if big := floats.Norm(ws.d, math.Inf(1)); big > maxStep {
		s := maxStep / big
		floats.Scale(s, ws.d)
		gd *= s
	}

	t := 1.0
	for i := 0; i < maxBacktracks; i++ {
		floats.AddScaledTo(ws.uTry, ws.u, t, ws.d)
		ws.eval(ws.uTry, &ws.try)
		if ws.try.g <= cur.g+armijoC*t*gd || ws.try.err < cur.err {
			copy(ws.u, ws.uTry)
			ws.cur, ws.try = ws.try, ws.cur
			return true
		}
		t /= 2
	}

	return false
}
