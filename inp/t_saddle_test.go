// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func TestSaddle01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("saddle01. defaults and naming")

	sp := NewSaddleParams()
	chk.IntAssert(int(sp.Solver), int(SolverNone))
	chk.IntAssert(int(sp.Class), int(ClassCs))
	chk.IntAssert(int(sp.Precond), int(PrecondNone))
	chk.IntAssert(int(sp.SchurApprox), int(SchurNone))
	chk.IntAssert(sp.Cvg.NmaxIt, 100)
	chk.Scalar(tst, "atol", 1e-17, sp.Cvg.Atol, 1e-12)
	chk.Scalar(tst, "rtol", 1e-12, sp.Cvg.Rtol, 1e-6)
	chk.Scalar(tst, "dtol", 1e-10, sp.Cvg.Dtol, 1e3)
	if sp.Ctx != nil {
		tst.Errorf("context must be nil when no solver is set\n")
	}

	chk.StrAssert(sp.GetName(), "Undefined")
	sp.SetBlock11(NewSlesParams("velocity"))
	chk.StrAssert(sp.GetName(), "velocity")
	sp.SetName("navsto")
	chk.StrAssert(sp.GetName(), "navsto")
}

func TestSaddle02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("saddle02. solver selection and contexts")

	sp := NewSaddleParams()
	sp.SetBlock11(NewSlesParams("velocity"))

	// unknown key leaves the configuration unchanged
	err := sp.SetSolver("banana")
	if err != ErrUnknownKey {
		tst.Errorf("expected ErrUnknownKey, got %v\n", err)
		return
	}
	chk.IntAssert(int(sp.Solver), int(SolverNone))

	// gcr
	err = sp.SetSolver("gcr")
	if err != nil {
		tst.Errorf("gcr: %v\n", err)
		return
	}
	chk.IntAssert(int(sp.Solver), int(SolverGCR))
	chk.IntAssert(int(sp.Ctx.CtxKind()), int(SolverGCR))
	kctx := sp.Ctx.(*KrylovCtx)
	chk.IntAssert(kctx.Nstored, 30)
	sp.SetRestartRange(25)
	chk.IntAssert(kctx.Nstored, 25)

	// alu resets precond and Schur approximation and prepares the
	// transformation of the RHS
	sp.SetPrecond("diag")
	err = sp.SetSolver("alu")
	if err != nil {
		tst.Errorf("alu: %v\n", err)
		return
	}
	chk.IntAssert(int(sp.Precond), int(PrecondNone))
	chk.IntAssert(int(sp.SchurApprox), int(SchurNone))
	actx := sp.Ctx.(*AluCtx)
	chk.Scalar(tst, "alu gamma", 1e-15, actx.Gamma, 100)
	chk.Scalar(tst, "alu gamma (getter)", 1e-15, sp.GetAugmentationCoef(), 100)
	if sp.XtraSles == nil {
		tst.Errorf("alu must allocate the transformation sub-configuration\n")
		return
	}
	chk.StrAssert(sp.XtraSles.Name, "velocity:Transfo")

	// with the default tolerances the transformation tolerance is driven
	// by 10*atol of the saddle-point system
	chk.Scalar(tst, "transfo rtol", 1e-25, sp.XtraSles.Rtol, 1e-11)
	chk.Scalar(tst, "transfo atol", 1e-25, sp.XtraSles.Atol, 1e-13)

	// gkb
	err = sp.SetSolver("gkb")
	if err != nil {
		tst.Errorf("gkb: %v\n", err)
		return
	}
	gctx := sp.Ctx.(*GkbCtx)
	chk.Scalar(tst, "gkb gamma", 1e-15, gctx.Gamma, 0)
	chk.IntAssert(gctx.TruncThreshold, 5)
	sp.SetAugmentationCoef(10)
	chk.Scalar(tst, "gkb gamma (set)", 1e-15, gctx.Gamma, 10)

	// notay
	err = sp.SetSolver("notay")
	if err != nil {
		tst.Errorf("notay: %v\n", err)
		return
	}
	nctx := sp.Ctx.(*NotayCtx)
	chk.Scalar(tst, "notay coef", 1e-15, nctx.ScalingCoef, 1.0)
	sp.SetNotayScaling(-0.5)
	chk.Scalar(tst, "notay coef (set)", 1e-15, nctx.ScalingCoef, -0.5)

	// augmentation setter is a warning-only no-op here
	sp.SetAugmentationCoef(3)
	chk.Scalar(tst, "no augmentation", 1e-15, sp.GetAugmentationCoef(), 0)
}

func TestSaddle03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("saddle03. unavailable solver classes")

	sp := NewSaddleParams()

	// PETSc is not compiled in; the class is set before the check fails
	err := sp.SetSolver("fgmres")
	if err != ErrClassUnavailable {
		tst.Errorf("expected ErrClassUnavailable, got %v\n", err)
		return
	}
	chk.IntAssert(int(sp.Solver), int(SolverFgmres))
	chk.IntAssert(int(sp.Class), int(ClassPetsc))
	if sp.Ctx != nil {
		tst.Errorf("no context must be allocated when the class check fails\n")
		return
	}

	// MUMPS needs the MPI build; this test runs serial
	err = sp.SetSolver("mumps")
	if err != ErrClassUnavailable {
		tst.Errorf("expected ErrClassUnavailable, got %v\n", err)
		return
	}

	err = sp.SetClass("saturne")
	if err != nil {
		tst.Errorf("saturne: %v\n", err)
		return
	}
	chk.IntAssert(int(sp.Class), int(ClassCs))

	err = sp.SetClass("hypre")
	if err != ErrUnknownKey {
		tst.Errorf("expected ErrUnknownKey, got %v\n", err)
	}
}

func TestSaddle04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("saddle04. preconditioner and Schur approximations")

	sp := NewSaddleParams()
	sp.SetBlock11(NewSlesParams("velocity"))
	err := sp.SetSolver("gcr")
	if err != nil {
		tst.Errorf("gcr: %v\n", err)
		return
	}

	// the Uzawa preconditioner picks a default Schur approximation
	err = sp.SetPrecond("uzawa")
	if err != nil {
		tst.Errorf("uzawa: %v\n", err)
		return
	}
	chk.IntAssert(int(sp.SchurApprox), int(SchurMassScaled))
	if sp.SchurSles != nil {
		tst.Errorf("mass-scaled approximation needs no Schur sub-configuration\n")
		return
	}

	// diag_inv allocates the Schur sub-configuration only
	err = sp.SetSchurApprox("diag_inv")
	if err != nil {
		tst.Errorf("diag_inv: %v\n", err)
		return
	}
	if sp.SchurSles == nil || sp.XtraSles != nil {
		tst.Errorf("diag_inv must allocate the Schur sub-configuration only\n")
		return
	}
	chk.StrAssert(sp.SchurSles.Name, "velocity_schur_approx")
	chk.StrAssert(sp.SchurSles.Solver, "fcg")
	chk.StrAssert(sp.SchurSles.Precond, "amg")
	chk.Scalar(tst, "schur rtol", 1e-15, sp.SchurSles.Rtol, 1e-4)

	// lumped and mass-scaled variants also need the auxiliary solve
	for _, key := range []string{"lumped_inv", "mass_scaled_diag_inv", "mass_scaled_lumped_inv"} {
		sp.SchurSles, sp.XtraSles = nil, nil
		err = sp.SetSchurApprox(key)
		if err != nil {
			tst.Errorf("%s: %v\n", key, err)
			return
		}
		if sp.SchurSles == nil || sp.XtraSles == nil {
			tst.Errorf("%s must allocate both sub-configurations\n", key)
			return
		}
	}
	chk.StrAssert(sp.XtraSles.Name, "velocity_b11_xtra")
	chk.Scalar(tst, "xtra rtol", 1e-15, sp.XtraSles.Rtol, 1e-3)
	chk.IntAssert(sp.XtraSles.NmaxIt, 50)

	// Ensure* are idempotent
	schurp, xtrap := sp.SchurSles, sp.XtraSles
	sp.EnsureSchurSles()
	sp.EnsureXtraSles()
	if sp.SchurSles != schurp || sp.XtraSles != xtrap {
		tst.Errorf("Ensure must keep existing sub-configurations\n")
	}
}

func TestSaddle05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("saddle05. copy")

	block11 := NewSlesParams("velocity")
	ref := NewSaddleParams()
	ref.SetName("navsto")
	ref.SetBlock11(block11)
	ref.Cvg.Rtol = 1e-8
	err := ref.SetSolver("gcr")
	if err != nil {
		tst.Errorf("gcr: %v\n", err)
		return
	}
	err = ref.SetSchurApprox("lumped_inv")
	if err != nil {
		tst.Errorf("lumped_inv: %v\n", err)
		return
	}

	dest := NewSaddleParams()
	Copy(ref, dest)

	chk.IntAssert(int(dest.Solver), int(SolverGCR))
	chk.IntAssert(int(dest.SchurApprox), int(SchurLumpedInverse))
	chk.Scalar(tst, "cvg rtol", 1e-15, dest.Cvg.Rtol, 1e-8)
	if dest.Block11 != block11 {
		tst.Errorf("the (1,1)-block parameters must be shared\n")
		return
	}
	if dest.Ctx != nil {
		tst.Errorf("the algorithm context must not be copied\n")
		return
	}

	// owned sub-configurations are re-created under a fresh name
	if dest.SchurSles == nil || dest.SchurSles == ref.SchurSles {
		tst.Errorf("the Schur sub-configuration must be an owned copy\n")
		return
	}
	chk.StrAssert(dest.GetName(), "automatic")
	chk.StrAssert(dest.SchurSles.Name, "automatic_schur_approx")
	chk.StrAssert(dest.SchurSles.Solver, ref.SchurSles.Solver)
	chk.Scalar(tst, "schur rtol", 1e-15, dest.SchurSles.Rtol, ref.SchurSles.Rtol)
	if dest.XtraSles == nil || dest.XtraSles == ref.XtraSles {
		tst.Errorf("the auxiliary sub-configuration must be an owned copy\n")
	}
}
