// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"github.com/cpmech/gosl/chk"
)

// solveUzawaCG is the Uzawa algorithm accelerated with a conjugate gradient:
// a CG on the pressure Schur complement S = B*A^{-1}*B^T, each application
// of S costing one velocity solve. The selected Schur approximation serves
// as preconditioner.
func (o *Solver) solveUzawaCG(u, p, b1, b2 []float64) (nit int, err error) {

	n1, n2 := o.H.Nu, o.H.Np
	rhs := make([]float64, n1)
	w := make([]float64, n1)
	wu := make([]float64, n1)
	r := make([]float64, n2)
	z := make([]float64, n2)
	dir := make([]float64, n2)
	sd := make([]float64, n2)

	inner := o.newB11Solver(o.H.D)

	// initial velocity solve: u = A^{-1} (b1 - B^T p), warm-started
	o.H.U.MultTranspVec(wu, p)
	for i := range rhs {
		rhs[i] = b1[i] - wu[i]
	}
	if _, err = inner.Solve(u, rhs); err != nil {
		return
	}

	// Schur residual: r = B*u - b2 = S*p - (B*A^{-1}*b1 - b2)
	o.H.U.MultVec(r, u)
	for c := range r {
		r[c] -= b2[c]
	}
	o.Algo.SetRes0(o.H.RsetP.Norm(r))

	if err = o.schur.Apply(z, r); err != nil {
		return
	}
	copy(dir, z)
	rz := o.H.RsetP.Dot(r, z)

	for o.Algo.Stat == Iterating {

		// apply the Schur complement to the direction: S*dir = B*A^{-1}*B^T*dir
		o.H.U.MultTranspVec(rhs, dir)
		for i := range w {
			w[i] = 0
		}
		if _, err = inner.Solve(w, rhs); err != nil {
			return
		}
		o.H.U.MultVec(sd, w)

		den := o.H.RsetP.Dot(dir, sd)
		if den <= 0 {
			return o.Algo.Nit, chk.Err("%s: breakdown in Uzawa-CG (d^T*S*d=%g)", o.Prms.GetName(), den)
		}
		rho := rz / den

		// descend: the velocity follows the pressure so that
		// u = A^{-1}(b1 - B^T*p) stays true
		for c := range p {
			p[c] += rho * dir[c]
			r[c] -= rho * sd[c]
		}
		for i := range u {
			u[i] -= rho * w[i]
		}

		if o.Algo.Update(o.H.RsetP.Norm(r)) != Iterating {
			break
		}

		if err = o.schur.Apply(z, r); err != nil {
			return
		}
		rzNew := o.H.RsetP.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		for c := range dir {
			dir[c] = z[c] + beta*dir[c]
		}
	}

	nit = o.Algo.Nit
	if o.Algo.Stat == Diverged {
		err = chk.Err("%s: Uzawa-CG diverged after %d iterations (res=%g)", o.Prms.GetName(), nit, o.Algo.Res)
	}
	return
}
