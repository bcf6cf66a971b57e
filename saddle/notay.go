// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"github.com/mfkiwl/code-saturne/inp"
)

// solveNotay applies Notay's algebraic transformation: the pressure rows of
// the monolithic system are scaled by -alpha, which turns the zero pressure
// diagonal into a definite one without changing the solution. The scaling
// of the matrix rows is installed at assembly time through the helper, so
// only the pressure right-hand side remains to scale before the delegated
// solve.
func (o *Solver) solveNotay(u, p, b1, b2 []float64) (nit int, err error) {

	ctx := o.Prms.Ctx.(*inp.NotayCtx)
	alpha := ctx.ScalingCoef

	if err = o.fullFactor(); err != nil {
		return
	}

	n := o.H.X.Size()
	b := make([]float64, n)
	x := make([]float64, n)

	b2t := make([]float64, len(b2))
	for c := range b2 {
		b2t[c] = -alpha * b2[c]
	}
	o.packMono(b, b1, b2t)

	if _, err = o.direct.Solve(x, b); err != nil {
		return
	}
	o.unpackMono(u, p, x)
	return 0, nil
}
