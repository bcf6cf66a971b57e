// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package saddle implements the solution algorithms for saddle-point
// systems arising from the velocity-pressure coupling: the segregated
// Uzawa variants, the Golub-Kahan bidiagonalization, the block-preconditioned
// Krylov solvers and the transformations handing the full system to one
// single solve.
package saddle

import (
	"github.com/cpmech/gosl/io"

	"github.com/mfkiwl/code-saturne/inp"
)

// Status is the state of an iterative algorithm
type Status int

const (
	Iterating Status = iota
	Converged
	Diverged
	MaxIterReached
)

func (o Status) String() string {
	switch o {
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	case MaxIterReached:
		return "max. iterations reached"
	}
	return "unknown"
}

// IterAlgo tracks the convergence of one outer iterative algorithm
type IterAlgo struct {
	Name      string
	Cvg       inp.CvgParams
	Verbosity int

	Nit  int     // current iteration
	Res0 float64 // first residual norm
	Res  float64 // current residual norm
	Tol  float64 // max(Atol, Rtol*Res0)
	Stat Status
}

// NewIterAlgo returns a tracker for one solve
func NewIterAlgo(name string, cvg inp.CvgParams, verbosity int) (o *IterAlgo) {
	return &IterAlgo{Name: name, Cvg: cvg, Verbosity: verbosity, Stat: Iterating}
}

// SetRes0 records the initial residual norm and freezes the tolerance. If
// the initial residual already satisfies the absolute tolerance the status
// becomes Converged and no iteration is needed.
func (o *IterAlgo) SetRes0(res0 float64) {
	o.Res0 = res0
	o.Res = res0
	o.Tol = o.Cvg.Atol
	if o.Cvg.Rtol*res0 > o.Tol {
		o.Tol = o.Cvg.Rtol * res0
	}
	if res0 <= o.Cvg.Atol {
		o.Stat = Converged
	}
}

// Update records the residual norm of one new iteration and returns the new
// status. Divergence is detected on the growth of the residual with respect
// to the initial one.
func (o *IterAlgo) Update(res float64) Status {
	o.Nit++
	o.Res = res
	switch {
	case res <= o.Tol:
		o.Stat = Converged
	case res > o.Cvg.Dtol*o.Res0:
		o.Stat = Diverged
	case o.Nit >= o.Cvg.NmaxIt:
		o.Stat = MaxIterReached
	default:
		o.Stat = Iterating
	}
	if o.Verbosity > 1 {
		io.Pf("  %s: it=%3d res=%10.4e (%v)\n", o.Name, o.Nit, res, o.Stat)
	}
	return o.Stat
}
