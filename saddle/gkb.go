// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/sles"
)

// gkbZeta estimates the energy-norm error of the Golub-Kahan process from
// the history of the zeta coefficients: the squared error equals the sum of
// the squared zeta still to come, which a sliding window over the last ones
// approximates from below. The window shrinks as the augmentation grows,
// since a larger gamma concentrates the energy on fewer coefficients.
type gkbZeta struct {
	window []float64
	pos    int
	total  float64
}

func newGkbZeta(gamma float64, trunc int) (o *gkbZeta) {
	size := trunc + 1
	switch {
	case gamma < 1:
	case gamma < 10:
		size = trunc
	case gamma < 100:
		size = trunc - 1
	case gamma < 1e3:
		size = trunc - 2
	case gamma < 1e4:
		size = trunc - 3
	default:
		size = trunc - 4
	}
	if size < 1 {
		size = 1
	}
	return &gkbZeta{window: make([]float64, size)}
}

// Update records one zeta and returns the relative energy-error estimate
func (o *gkbZeta) Update(zeta float64) float64 {
	z2 := zeta * zeta
	o.window[o.pos] = z2
	o.pos = (o.pos + 1) % len(o.window)
	o.total += z2

	tail := 0.0
	for _, w := range o.window {
		tail += w
	}
	return math.Sqrt(tail / o.total)
}

// solveGKB is the Golub-Kahan bidiagonalization algorithm. The velocity
// space carries the inner product of the (augmented) velocity block and the
// pressure space the one of the diagonal pressure mass; each iteration
// grows one orthonormal direction in each space and the solution expands on
// them with the zeta coefficients, whose history provides the energy-norm
// stopping criterion.
func (o *Solver) solveGKB(u, p, b1, b2 []float64) (nit int, err error) {

	ctx := o.Prms.Ctx.(*inp.GkbCtx)
	if o.Prms.XtraSles == nil {
		return 0, chk.Err("%s: GKB without transformation parameters", o.Prms.GetName())
	}

	aug := newAugSys(o.H.D, o.H.U, ctx.Gamma, o.M.CellVol)
	vol := o.M.CellVol
	n1, n2 := o.H.Nu, o.H.Np

	b1g := make([]float64, n1)
	rhs := make([]float64, n1)
	w := make([]float64, n1)
	t1 := make([]float64, n1)
	mv := make([]float64, n1)
	v := make([]float64, n1)
	du := make([]float64, n1)

	q := make([]float64, n2)
	d := make([]float64, n2)
	t2 := make([]float64, n2)
	wc := make([]float64, n2)

	// |x|_{W^{-1}} with W the diagonal pressure mass
	wNormInv := func(x []float64) float64 {
		for c := range x {
			wc[c] = x[c] / vol[c]
		}
		return math.Sqrt(o.H.RsetP.Dot(x, wc))
	}

	aug.augRhs(b1g, b1, b2)

	transfo := sles.New(o.Prms.XtraSles, aug)
	inner := o.newB11Solver(aug)

	// incremental form: du solves the system with the residuals of the
	// incoming guess as right-hand sides
	aug.MatVec(t1, u)
	o.H.U.MultTranspVec(w, p)
	for i := range rhs {
		rhs[i] = b1g[i] - t1[i] - w[i]
	}
	if _, err = transfo.Solve(du, rhs); err != nil {
		return
	}
	for i := range u {
		u[i] += du[i]
	}

	// first pressure direction: t2 = b2 - B*u, beta = |t2|_{W^{-1}}
	o.H.U.MultVec(t2, u)
	for c := range t2 {
		t2[c] = b2[c] - t2[c]
	}
	beta := wNormInv(t2)

	o.Algo.SetRes0(1) // the estimator is relative by construction
	if beta <= o.Algo.Cvg.Atol {
		return 0, nil
	}
	for c := range q {
		q[c] = t2[c] / (vol[c] * beta)
	}

	// first velocity direction: solve A_g*w = B^T*q, alpha = |w|_{A_g}
	o.H.U.MultTranspVec(rhs, q)
	for i := range w {
		w[i] = 0
	}
	if _, err = inner.Solve(w, rhs); err != nil {
		return
	}
	alpha := math.Sqrt(o.H.RsetU.Dot(w, rhs))
	if alpha <= 0 {
		return 0, chk.Err("%s: GKB breakdown (alpha=%g)", o.Prms.GetName(), alpha)
	}
	for i := range v {
		v[i] = w[i] / alpha
	}

	zeta := beta / alpha
	for c := range d {
		d[c] = q[c] / alpha
	}
	for i := range u {
		u[i] += zeta * v[i]
	}
	for c := range p {
		p[c] -= zeta * d[c]
	}

	zhist := newGkbZeta(ctx.Gamma, ctx.TruncThreshold)
	o.Algo.Update(zhist.Update(zeta))

	for o.Algo.Stat == Iterating {

		// next pressure direction: beta*W*q' = B*v - alpha*W*q
		o.H.U.MultVec(t2, v)
		for c := range t2 {
			t2[c] -= alpha * vol[c] * q[c]
		}
		beta = wNormInv(t2)
		if beta <= o.Algo.Cvg.Atol {
			o.Algo.Stat = Converged
			break
		}
		for c := range q {
			q[c] = t2[c] / (vol[c] * beta)
		}

		// next velocity direction: alpha*A_g*v' = B^T*q - beta*A_g*v
		o.H.U.MultTranspVec(rhs, q)
		for i := range w {
			w[i] = 0
		}
		if _, err = inner.Solve(w, rhs); err != nil {
			return
		}
		for i := range t1 {
			t1[i] = w[i] - beta*v[i]
		}
		aug.MatVec(mv, t1)
		a2 := o.H.RsetU.Dot(t1, mv)
		if a2 <= 0 {
			return o.Algo.Nit, chk.Err("%s: GKB breakdown (alpha^2=%g)", o.Prms.GetName(), a2)
		}
		alpha = math.Sqrt(a2)
		for i := range v {
			v[i] = t1[i] / alpha
		}

		// expansion
		zeta *= -beta / alpha
		for c := range d {
			d[c] = (q[c] - beta*d[c]) / alpha
		}
		for i := range u {
			u[i] += zeta * v[i]
		}
		for c := range p {
			p[c] -= zeta * d[c]
		}

		o.Algo.Update(zhist.Update(zeta))
	}

	nit = o.Algo.Nit
	if o.Algo.Stat == Diverged {
		err = chk.Err("%s: GKB diverged after %d iterations (res=%g)", o.Prms.GetName(), nit, o.Algo.Res)
	}
	return
}
