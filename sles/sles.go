// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sles implements the elementary sparse linear solves underlying the
// saddle-point algorithms: an in-house preconditioned conjugate gradient for
// the iterative solves and the MUMPS/UMFPACK backends for the direct ones.
package sles

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/mpi"

	"github.com/mfkiwl/code-saturne/inp"
)

// System is the operator view required by the iterative solvers. MatVec and
// Dot must be consistent with the parallel distribution of the vectors:
// MatVec must return synchronized values on all owned entries and Dot must
// reduce the partial dot products over all processors.
type System interface {
	Size() int              // number of local rows
	MatVec(y, x []float64)  // y := A*x
	Diag() []float64        // diagonal entries, or nil when not available
	Dot(a, b []float64) float64
}

// Solver drives the solution of one elementary linear system according to a
// set of SlesParams. The same solver may be reused for several solves with
// the same matrix.
type Solver struct {
	Name    string  // name of the system; used in reports
	NmaxIt  int     // maximum number of iterations
	Atol    float64 // absolute tolerance
	Rtol    float64 // relative tolerance
	Verbose bool

	// results of the last solve
	Nit int     // number of iterations performed
	Res float64 // final residual norm

	sys    System    // iterative path
	jacobi bool      // use the diagonal as preconditioner
	lis    la.LinSol // direct path
	direct bool

	r, z, p, q []float64 // CG work vectors
}

// New returns a solver configured from a set of elementary-solver
// parameters, connected to the given operator. The AMG preconditioner of
// the Schur sub-configurations degrades to its Jacobi smoother on the
// in-house path.
func New(prms *inp.SlesParams, sys System) (o *Solver) {
	o = NewSolver(prms.Name, prms.NmaxIt, prms.Atol, prms.Rtol, sys)
	o.Verbose = prms.Verbose
	if prms.Precond == "none" {
		o.jacobi = false
	}
	return
}

// NewSolver returns a solver connected to the given operator
func NewSolver(name string, nmaxit int, atol, rtol float64, sys System) (o *Solver) {
	o = &Solver{
		Name:   name,
		NmaxIt: nmaxit,
		Atol:   atol,
		Rtol:   rtol,
		sys:    sys,
		jacobi: sys != nil && sys.Diag() != nil,
	}
	if sys != nil {
		n := sys.Size()
		o.r = make([]float64, n)
		o.z = make([]float64, n)
		o.p = make([]float64, n)
		o.q = make([]float64, n)
	}
	return
}

// InitDirect factorizes the sparse matrix with a direct backend: MUMPS when
// running under MPI, UMFPACK otherwise. The factorization is kept until Free
// is called.
func (o *Solver) InitDirect(t *la.Triplet, symmetric bool) (err error) {
	name := "umfpack"
	if mpi.IsOn() {
		name = "mumps"
	}
	o.lis = la.GetSolver(name)
	err = o.lis.InitR(t, symmetric, o.Verbose, false)
	if err != nil {
		return chk.Err("%s: cannot initialize %s: %v", o.Name, name, err)
	}
	err = o.lis.Fact()
	if err != nil {
		return chk.Err("%s: factorization failed: %v", o.Name, err)
	}
	o.direct = true
	return
}

// Solve computes x such that A*x = b. x holds the initial guess on input.
// With a direct backend the guess is ignored and the solve is exact; with
// the iterative path a preconditioned conjugate gradient runs until the
// residual norm falls below max(Atol, Rtol*|r0|) or NmaxIt is reached.
func (o *Solver) Solve(x, b []float64) (nit int, err error) {
	if o.direct {
		err = o.lis.SolveR(x, b, false)
		if err != nil {
			return 0, chk.Err("%s: direct solve failed: %v", o.Name, err)
		}
		return 0, nil
	}
	if o.sys == nil {
		return 0, chk.Err("%s: solver has no operator attached", o.Name)
	}
	return o.pcg(x, b)
}

// pcg is the Jacobi-preconditioned conjugate gradient
func (o *Solver) pcg(x, b []float64) (nit int, err error) {

	// r = b - A*x
	o.sys.MatVec(o.q, x)
	for i := range o.r {
		o.r[i] = b[i] - o.q[i]
	}

	o.applyPrec(o.z, o.r)
	copy(o.p, o.z)
	rz := o.sys.Dot(o.r, o.z)

	res0 := math.Sqrt(o.sys.Dot(o.r, o.r))
	o.Res = res0
	tol := math.Max(o.Atol, o.Rtol*res0)
	if res0 <= tol {
		o.Nit = 0
		return 0, nil
	}

	for nit = 1; nit <= o.NmaxIt; nit++ {

		o.sys.MatVec(o.q, o.p)
		den := o.sys.Dot(o.p, o.q)
		if den <= 0 {
			return nit, chk.Err("%s: breakdown in CG: p^T*A*p = %g", o.Name, den)
		}
		alpha := rz / den

		for i := range x {
			x[i] += alpha * o.p[i]
			o.r[i] -= alpha * o.q[i]
		}

		o.Res = math.Sqrt(o.sys.Dot(o.r, o.r))
		if o.Verbose {
			io.Pf("  %s: it=%3d res=%g\n", o.Name, nit, o.Res)
		}
		if o.Res <= tol {
			o.Nit = nit
			return nit, nil
		}

		o.applyPrec(o.z, o.r)
		rzNew := o.sys.Dot(o.r, o.z)
		beta := rzNew / rz
		rz = rzNew
		for i := range o.p {
			o.p[i] = o.z[i] + beta*o.p[i]
		}
	}

	// the tolerance was not met within NmaxIt iterations; this is expected
	// for the coarse auxiliary solves, so not an error
	nit = o.NmaxIt
	o.Nit = nit
	return
}

func (o *Solver) applyPrec(z, r []float64) {
	if !o.jacobi {
		copy(z, r)
		return
	}
	diag := o.sys.Diag()
	for i := range z {
		if diag[i] != 0 {
			z[i] = r[i] / diag[i]
		} else {
			z[i] = r[i]
		}
	}
}

// Free releases the resources held by a direct backend
func (o *Solver) Free() {
	if o.direct {
		o.lis.Free()
		o.direct = false
	}
}
