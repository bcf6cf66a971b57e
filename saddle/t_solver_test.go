// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/msh"
	"github.com/mfkiwl/code-saturne/sys"
)

// fillStokes assembles a Stokes-like system on m: a diagonal velocity block
// with entries in [2,6] and the geometric divergence. The same entries go
// into a dense copy with the interlaced numbering, used to manufacture the
// right-hand sides of a known solution.
func fillStokes(h *sys.Helper, m *msh.Mesh) (den *mat.Dense) {

	n1, n := h.Nu, h.Nu+h.Np
	den = mat.NewDense(n, n, nil)

	h.Start()
	for f := 0; f < m.Nfaces(); f++ {
		for k := 0; k < 3; k++ {
			i := 3*f + k
			v := 2 + float64(i%5)
			h.AddVel(f, k, f, k, v)
			den.Set(i, i, v)
		}
	}
	for c := 0; c < m.Ncells; c++ {
		for idx := m.C2f.Idx[c]; idx < m.C2f.Idx[c+1]; idx++ {
			f := m.C2f.Ids[idx]
			sgn := float64(m.C2fSgn[idx])
			for k := 0; k < 3; k++ {
				v := sgn * m.FaceArea[f] * m.FaceNormal[f][k]
				if v == 0 {
					continue
				}
				h.AddDiv(c, f, k, v)
				den.Set(n1+c, 3*f+k, v)
				den.Set(3*f+k, n1+c, v)
			}
		}
	}
	h.Assemble()
	return
}

// manufacture returns a reference solution and the matching right-hand
// sides, computed with the dense copy of the system
func manufacture(den *mat.Dense, n1, n2 int) (uref, pref, b1, b2 []float64) {

	n := n1 + n2
	xref := make([]float64, n)
	for i := range xref {
		xref[i] = 1 + float64(i%7)/3.0
	}
	b := mat.NewVecDense(n, nil)
	b.MulVec(den, mat.NewVecDense(n, xref))

	uref = xref[:n1]
	pref = xref[n1:]
	b1 = make([]float64, n1)
	b2 = make([]float64, n2)
	copy(b1, b.RawVector().Data[:n1])
	copy(b2, b.RawVector().Data[n1:])
	return
}

// tightPrms returns saddle parameters with accurate inner solves, so that
// the outer algorithms can be checked against the manufactured solution
func tightPrms(tst *testing.T, key string) (prms *inp.SaddleParams) {
	prms = inp.NewSaddleParams()
	b11 := inp.NewSlesParams("velocity")
	b11.NmaxIt = 500
	b11.Atol = 1e-14
	b11.Rtol = 1e-12
	prms.SetBlock11(b11)
	prms.Cvg.NmaxIt = 100
	prms.Cvg.Atol = 1e-10
	prms.Cvg.Rtol = 1e-9
	if err := prms.SetSolver(key); err != nil {
		tst.Errorf("SetSolver(%q): %v\n", key, err)
		return nil
	}
	return
}

// runTwoBlock solves the two-cell system with one two-block strategy and
// checks the solution
func runTwoBlock(tst *testing.T, prms *inp.SaddleParams, tol float64) {

	m := msh.NewTwoCell()
	h := sys.NewHelper(prms.Solver, m)
	den := fillStokes(h, m)
	uref, pref, b1, b2 := manufacture(den, h.Nu, h.Np)

	props := &inp.FlowProps{Rho0: 1, Steady: false, Dt: 0.1}
	sol := New(prms, props, m, h)

	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	nit, err := sol.Solve(u, p, b1, b2)
	if err != nil {
		tst.Errorf("%v: %v\n", prms.Solver, err)
		return
	}
	io.Pforan("%v: nit=%v res=%v\n", prms.Solver, nit, sol.Algo.Res)

	chk.Vector(tst, "u", tol, u, uref)
	chk.Vector(tst, "p", tol, p, pref)
	chk.IntAssert(sol.Mon.Ncalls, 1)
}

func TestSolver01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver01. Uzawa-CG")

	prms := tightPrms(tst, "uzawa_cg")
	if prms == nil {
		return
	}
	if err := prms.SetSchurApprox("diag_inv"); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	prms.SchurSles.Rtol = 1e-12
	prms.SchurSles.NmaxIt = 200
	runTwoBlock(tst, prms, 1e-6)
}

func TestSolver02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver02. augmented Lagrangian Uzawa")

	prms := tightPrms(tst, "alu")
	if prms == nil {
		return
	}
	runTwoBlock(tst, prms, 1e-6)
}

func TestSolver03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver03. Golub-Kahan bidiagonalization")

	prms := tightPrms(tst, "gkb")
	if prms == nil {
		return
	}
	prms.Cvg.Atol = 1e-8 // termination on the bidiagonalization residual
	runTwoBlock(tst, prms, 1e-6)
}

func TestSolver04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver04. block-preconditioned GCR")

	prms := tightPrms(tst, "gcr")
	if prms == nil {
		return
	}
	if err := prms.SetPrecond("diag"); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := prms.SetSchurApprox("diag_inv"); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	prms.SchurSles.Rtol = 1e-12
	prms.SchurSles.NmaxIt = 200
	runTwoBlock(tst, prms, 1e-6)
}

func TestSolver05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver05. block-preconditioned MINRES")

	prms := tightPrms(tst, "minres")
	if prms == nil {
		return
	}
	if err := prms.SetPrecond("diag"); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	if err := prms.SetSchurApprox("diag_inv"); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	prms.SchurSles.Rtol = 1e-12
	prms.SchurSles.NmaxIt = 200
	runTwoBlock(tst, prms, 1e-6)
}

func TestSolver06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver06. Notay's transformation")

	prms := tightPrms(tst, "notay")
	if prms == nil {
		return
	}
	prms.SetNotayScaling(2)

	m := msh.NewTwoCell()
	h := sys.NewHelper(prms.Solver, m)
	sol := New(prms, nil, m, h) // installs the pressure-row scaling
	chk.Scalar(tst, "PScale", 1e-15, h.X.PScale, -2)

	den := fillStokes(h, m)
	uref, pref, b1, b2 := manufacture(den, h.Nu, h.Np)

	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	nit, err := sol.Solve(u, p, b1, b2)
	if err != nil {
		tst.Errorf("notay: %v\n", err)
		return
	}
	chk.IntAssert(nit, 0)

	// the transformation does not change the solution
	chk.Vector(tst, "u", 1e-8, u, uref)
	chk.Vector(tst, "p", 1e-8, p, pref)
}

func TestSolver07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver07. full-system direct solve")

	prms := tightPrms(tst, "gcr") // placeholder selection, then forced
	if prms == nil {
		return
	}
	prms.Solver = inp.SolverMumps // serial runs fall back to UMFPACK
	prms.Ctx = nil

	m := msh.NewTwoCell()
	h := sys.NewHelper(prms.Solver, m)
	den := fillStokes(h, m)
	uref, pref, b1, b2 := manufacture(den, h.Nu, h.Np)

	sol := New(prms, nil, m, h)
	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	nit, err := sol.Solve(u, p, b1, b2)
	if err != nil {
		tst.Errorf("direct: %v\n", err)
		return
	}
	chk.IntAssert(nit, 0)
	chk.Vector(tst, "u", 1e-8, u, uref)
	chk.Vector(tst, "p", 1e-8, p, pref)

	// one more solve reuses the factorization
	if _, err = sol.Solve(u, p, b1, b2); err != nil {
		tst.Errorf("second solve: %v\n", err)
		return
	}
	chk.IntAssert(sol.Mon.Ncalls, 2)
}

func TestSolver08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver08. layout mismatch panics")

	defer func() {
		if recover() == nil {
			tst.Errorf("a layout mismatch must panic\n")
		}
	}()
	prms := tightPrms(tst, "uzawa_cg")
	if prms == nil {
		return
	}
	m := msh.NewTwoCell()
	h := sys.NewHelper(inp.SolverNotay, m) // monolithic, but uzawa_cg is two-block
	New(prms, nil, m, h)
}

func TestSolver09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver09. full-system contract")

	defer func() {
		if recover() == nil {
			tst.Errorf("handing a segregated kind to the full-system path must panic\n")
		}
	}()

	prms := tightPrms(tst, "notay")
	if prms == nil {
		return
	}
	m := msh.NewTwoCell()
	h := sys.NewHelper(prms.Solver, m)
	sol := New(prms, nil, m, h)
	fillStokes(h, m)

	// neither MUMPS nor FGMRES: the delegated single solve must refuse it
	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	sol.solveFull(u, p, make([]float64, h.Nu), make([]float64, h.Np))
}

func TestSolver10(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solver10. ALU with non-uniform cell volumes")

	prms := tightPrms(tst, "alu")
	if prms == nil {
		return
	}

	m := msh.NewTwoCell()
	m.CellVol = []float64{1, 4}
	h := sys.NewHelper(prms.Solver, m)
	sol := New(prms, nil, m, h)

	// the divergence residual norm is volume-weighted: a residual sitting
	// in the large cell weighs more than the same residual in the small one
	wc := make([]float64, h.Np)
	chk.Scalar(tst, "norm small cell", 1e-14, sol.divNorm([]float64{1, 0}, wc), 1)
	chk.Scalar(tst, "norm large cell", 1e-14, sol.divNorm([]float64{0, 1}, wc), 2)

	den := fillStokes(h, m)
	uref, pref, b1, b2 := manufacture(den, h.Nu, h.Np)

	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	nit, err := sol.Solve(u, p, b1, b2)
	if err != nil {
		tst.Errorf("alu: %v\n", err)
		return
	}
	io.Pforan("alu (non-uniform): nit=%v res=%v\n", nit, sol.Algo.Res)
	chk.Vector(tst, "u", 1e-6, u, uref)
	chk.Vector(tst, "p", 1e-6, p, pref)
}
