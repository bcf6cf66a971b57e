// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/sles"
)

// solveALU is the augmented Lagrangian Uzawa algorithm. The velocity block
// is augmented with the grad-div term scaled by gamma and each iteration
// alternates one velocity solve with an explicit pressure update; the
// augmentation makes the pressure update converge fast for large gamma at
// the price of a stiffer velocity system.
//
// The first velocity solve transforms the right-hand side and must be more
// accurate than the following ones: it runs under the auxiliary parameters
// installed by the solver selection.
func (o *Solver) solveALU(u, p, b1, b2 []float64) (nit int, err error) {

	ctx := o.Prms.Ctx.(*inp.AluCtx)
	if o.Prms.XtraSles == nil {
		return 0, chk.Err("%s: ALU without transformation parameters", o.Prms.GetName())
	}

	aug := newAugSys(o.H.D, o.H.U, ctx.Gamma, o.M.CellVol)
	n1, n2 := o.H.Nu, o.H.Np
	b1g := make([]float64, n1)
	rhs := make([]float64, n1)
	wu := make([]float64, n1)
	r2 := make([]float64, n2)
	wc := make([]float64, n2)

	aug.augRhs(b1g, b1, b2)

	transfo := sles.New(o.Prms.XtraSles, aug)
	inner := o.newB11Solver(aug)

	// transformation solve: u = A_g^{-1} (b1g - B^T p), warm-started from
	// the incoming velocity
	o.H.U.MultTranspVec(wu, p)
	for i := range rhs {
		rhs[i] = b1g[i] - wu[i]
	}
	if _, err = transfo.Solve(u, rhs); err != nil {
		return
	}

	// residual of the constraint: r2 = B u - b2
	o.H.U.MultVec(r2, u)
	for c := range r2 {
		r2[c] -= b2[c]
	}
	o.Algo.SetRes0(o.divNorm(r2, wc))

	for o.Algo.Stat == Iterating {

		// p += gamma * W^{-1} * r2
		for c := range p {
			p[c] += ctx.Gamma * r2[c] / o.M.CellVol[c]
		}

		// u = A_g^{-1} (b1g - B^T p), warm-started
		o.H.U.MultTranspVec(wu, p)
		for i := range rhs {
			rhs[i] = b1g[i] - wu[i]
		}
		if _, err = inner.Solve(u, rhs); err != nil {
			return
		}

		o.H.U.MultVec(r2, u)
		for c := range r2 {
			r2[c] -= b2[c]
		}
		o.Algo.Update(o.divNorm(r2, wc))
	}

	nit = o.Algo.Nit
	if o.Algo.Stat == Diverged {
		err = chk.Err("%s: ALU diverged after %d iterations (res=%g)", o.Prms.GetName(), nit, o.Algo.Res)
	}
	return
}
