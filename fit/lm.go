// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// budget reports a cancelled context or an expired deadline.
func budget(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return ErrTimeLimit
	}

	return nil
}

// levenbergMarquardt minimises ½‖r(u)‖² from u. It returns the last accepted
// point together with the status; a non-nil error means the fit failed.
func (f *Fitter) levenbergMarquardt(ctx context.Context, obj *objective, u []float64, deadline time.Time) ([]float64, Status, error) {
	o := f.opts
	n, m := len(u), f.comb.Len()
	var st Status

	r := make([]float64, m)
	obj.residuals(r, u)
	if obj.err != nil {
		return u, st, obj.err
	}
	cost := halfSquaredNorm(r)
	st.Cost = cost
	lambda := o.lambda0

	var (
		A     = mat.NewSymDense(n, nil)
		B     = mat.NewSymDense(n, nil)
		g     = mat.NewVecDense(n, nil)
		delta = mat.NewVecDense(n, nil)
		uTry  = make([]float64, n)
		rTry  = make([]float64, m)
		chol  mat.Cholesky
	)

	for iter := 1; ; iter++ {
		if err := budget(ctx, deadline); err != nil {
			return u, st, err
		}
		if iter > o.maxIterations {
			return u, st, ErrNotConverged
		}
		st.Iterations = iter

		J := obj.jacobian(u, r)
		if obj.err != nil {
			return u, st, obj.err
		}
		A.SymOuterK(1, J.T())
		g.MulVec(J.T(), mat.NewVecDense(m, r))
		if o.gtol > 0 && mat.Norm(g, math.Inf(1)) <= o.gtol {
			st.Converged, st.Reason = true, "gradient below tolerance"
			return u, st, nil
		}

		for {
			if err := budget(ctx, deadline); err != nil {
				return u, st, err
			}
			// B = A + λ·diag(A)
			B.CopySym(A)
			for j := 0; j < n; j++ {
				d := A.At(j, j)
				if d < minLambda {
					d = minLambda
				}
				B.SetSym(j, j, A.At(j, j)+lambda*d)
			}
			ok := chol.Factorize(B)
			if ok {
				ok = chol.SolveVecTo(delta, g) == nil
			}
			if !ok {
				if lambda *= 10; lambda > maxLambda {
					st.Converged, st.Reason = true, "no further reduction"
					return u, st, nil
				}
				continue
			}
			for j := range uTry {
				uTry[j] = u[j] - delta.AtVec(j)
			}
			obj.residuals(rTry, uTry)
			if obj.err != nil {
				return u, st, obj.err
			}
			costTry := halfSquaredNorm(rTry)

			if costTry < cost {
				rel := (cost - costTry) / cost
				step := floats.Norm(delta.RawVector().Data, 2)
				small := step <= o.xtol*(floats.Norm(uTry, 2)+o.xtol)
				u, uTry = uTry, u
				r, rTry = rTry, r
				cost = costTry
				st.Cost = cost
				lambda = math.Max(lambda/10, minLambda)
				obj.log.Debug("iteration", "iter", iter, "cost", cost, "lambda", lambda)

				switch {
				case cost == 0:
					st.Converged, st.Reason = true, "zero residual"
				case o.ftol > 0 && rel <= o.ftol:
					st.Converged, st.Reason = true, "relative cost reduction below tolerance"
				case o.xtol > 0 && small:
					st.Converged, st.Reason = true, "step below tolerance"
				}
				if st.Converged {
					return u, st, nil
				}
				break
			}

			if lambda *= 10; lambda > maxLambda {
				st.Converged, st.Reason = true, "no further reduction"
				return u, st, nil
			}
		}
	}
}
