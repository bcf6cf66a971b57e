// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/sles"
)

// packMono gathers the interlaced velocity and the pressure into one
// monolithic vector with the component-blocked numbering
func (o *Solver) packMono(x, u, p []float64) {
	nf := o.H.X.Nf
	for f := 0; f < nf; f++ {
		for k := 0; k < 3; k++ {
			x[k*nf+f] = u[3*f+k]
		}
	}
	copy(x[3*nf:], p)
}

// unpackMono is the inverse of packMono
func (o *Solver) unpackMono(u, p, x []float64) {
	nf := o.H.X.Nf
	for f := 0; f < nf; f++ {
		for k := 0; k < 3; k++ {
			u[3*f+k] = x[k*nf+f]
		}
	}
	copy(p, x[3*nf:])
}

// fullFactor factorizes the monolithic matrix once; the factorization is
// reused by the following solves until Reset
func (o *Solver) fullFactor() (err error) {
	if o.direct != nil {
		return
	}
	sol := sles.NewSolver(o.Prms.GetName(), 0, 0, 0, nil)
	if err = sol.InitDirect(&o.H.X.T, false); err != nil {
		return
	}
	o.direct = sol
	return
}

// solveFull hands the assembled monolithic system to one single solve with
// a direct backend. Only the full-system strategies may end up here.
func (o *Solver) solveFull(u, p, b1, b2 []float64) (nit int, err error) {

	kind := o.Prms.Solver
	if kind != inp.SolverMumps && kind != inp.SolverFgmres {
		chk.Panic("saddle.solveFull: not a full-system strategy: %v", kind)
	}
	if kind == inp.SolverFgmres {
		return 0, inp.ErrClassUnavailable
	}

	if err = o.fullFactor(); err != nil {
		return
	}

	n := o.H.X.Size()
	b := make([]float64, n)
	x := make([]float64, n)
	o.packMono(b, b1, b2)
	if _, err = o.direct.Solve(x, b); err != nil {
		return
	}
	o.unpackMono(u, p, x)
	return 0, nil
}
