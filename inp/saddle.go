// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
)

// Configuration errors returned by the string-keyed setters. The state of
// the configuration is left unchanged when ErrUnknownKey is returned.
var (
	ErrUnknownKey       = chk.Err("unrecognized configuration key")
	ErrClassUnavailable = chk.Err("requested solver class is not available in this build")
)

// CvgParams gathers the parameters bounding an iterative algorithm
type CvgParams struct {
	NmaxIt int     `json:"nmaxit"` // maximum number of iterations
	Atol   float64 `json:"atol"`   // absolute tolerance
	Rtol   float64 `json:"rtol"`   // relative tolerance
	Dtol   float64 `json:"dtol"`   // divergence tolerance (on the residual growth ratio)
}

// SaddleParams holds the settings to solve one saddle-point system: the
// algorithm selection, the convergence parameters, the algorithm context and
// the sub-configurations for the auxiliary solves.
//
// Ownership: Block11 is borrowed (it belongs to the equation owning the
// (1,1)-block and may be shared by several saddle configurations and must
// outlive them); SchurSles and XtraSles are owned and allocated on demand by
// the Schur-approximation setters.
type SaddleParams struct {
	Verbosity int    // level of display
	name      string // optional name; GetName falls back to the (1,1)-block name

	Class       SolverClass // family of backends for the elementary solves
	Solver      SolverKind  // saddle-point solution strategy
	Precond     PrecondKind // block preconditioning (block-Krylov solvers)
	SchurApprox SchurKind   // approximation of the Schur complement

	Cvg CvgParams // convergence parameters of the saddle-point algorithm

	Block11   *SlesParams // borrowed: parameters for the (1,1)-block solves
	SchurSles *SlesParams // owned: parameters for the Schur system solves
	XtraSles  *SlesParams // owned: parameters for auxiliary solves

	Ctx SolverCtx // algorithm context; its kind always equals Solver
}

// NewSaddleParams returns a new set of saddle-point parameters. No solver is
// set by default.
func NewSaddleParams() (o *SaddleParams) {
	return &SaddleParams{
		Class:  ClassCs,
		Solver: SolverNone,
		Cvg: CvgParams{
			NmaxIt: 100,
			Atol:   1e-12,
			Rtol:   1e-6,
			Dtol:   1e3,
		},
	}
}

// CheckClass returns ErrClassUnavailable if the requested backend family
// cannot run in this build: MUMPS requires the MPI build and PETSc is not
// compiled in
func CheckClass(class SolverClass) error {
	switch class {
	case ClassCs:
		return nil
	case ClassMumps:
		if !mpi.IsOn() {
			return ErrClassUnavailable
		}
		return nil
	}
	return ErrClassUnavailable
}

// SetName sets the name of the saddle-point system
func (o *SaddleParams) SetName(name string) {
	o.name = name
}

// GetName returns the name of the saddle-point system, falling back to the
// name of the (1,1)-block configuration
func (o *SaddleParams) GetName() string {
	if o.name != "" {
		return o.name
	}
	if o.Block11 != nil {
		return o.Block11.Name
	}
	return "Undefined"
}

// SetBlock11 assigns (shares) the elementary-solver parameters of the
// (1,1)-block. The configuration never owns them.
func (o *SaddleParams) SetBlock11(block11 *SlesParams) {
	o.Block11 = block11
}

// initSchurSles (re)creates the owned sub-configuration for the Schur
// system: FCG iterations with algebraic multigrid preconditioning and a
// relaxed tolerance
func (o *SaddleParams) initSchurSles() {
	schurp := NewSlesParams(o.GetName() + "_schur_approx")
	schurp.Solver = "fcg"
	schurp.Precond = "amg"
	schurp.AmgType = "inhouse_k"
	schurp.Rtol = 1e-4
	o.SchurSles = schurp
}

// initXtraSles (re)creates the owned sub-configuration for the auxiliary
// solves building an approximate inverse. A coarse approximation is
// sufficient.
func (o *SaddleParams) initXtraSles() {
	xtrap := NewSlesParams(o.GetName() + "_b11_xtra")
	if o.Block11 != nil {
		xtrap.CopyFrom(o.Block11)
		xtrap.Name = o.GetName() + "_b11_xtra"
	}
	xtrap.Rtol = 1e-3
	xtrap.NmaxIt = 50
	o.XtraSles = xtrap
}

// initXtraTransfoSles (re)creates the owned sub-configuration for the
// transformation of the right-hand side performed by the ALU and GKB
// algorithms. The transformation needs a more accurate approximation.
func (o *SaddleParams) initXtraTransfoSles() {
	name := o.GetName() + ":Transfo"
	xtrap := NewSlesParams(name)
	if o.Block11 != nil {
		xtrap.CopyFrom(o.Block11)
		xtrap.Name = name
	}

	b11rtol, b11atol := xtrap.Rtol, xtrap.Atol
	tol := math.Min(0.1*b11rtol, 0.1*o.Cvg.Rtol)
	tol = math.Min(tol, 10*o.Cvg.Atol)
	tol = math.Max(tol, 1e-14) // avoid a too small tolerance when Cvg.Atol is tiny

	xtrap.Rtol = tol
	xtrap.Atol = math.Min(o.Cvg.Atol, b11atol)
	o.XtraSles = xtrap
}

// EnsureSchurSles initializes the sub-configuration for the Schur system if
// it is not allocated yet. Calling it twice leaves the sub-configuration
// untouched.
func (o *SaddleParams) EnsureSchurSles() {
	if o.SchurSles != nil {
		return
	}
	o.initSchurSles()
}

// EnsureXtraSles initializes the sub-configuration for the auxiliary solves
// if it is not allocated yet. Calling it twice leaves the sub-configuration
// untouched.
func (o *SaddleParams) EnsureXtraSles() {
	if o.XtraSles != nil {
		return
	}
	o.initXtraSles()
}

// SetSolver selects the saddle-point solution strategy from its string key.
// The matching algorithm context is allocated, replacing any previous one.
// Unknown keys return ErrUnknownKey and leave the configuration unchanged;
// keys requiring an unavailable backend family return ErrClassUnavailable.
func (o *SaddleParams) SetSolver(keyval string) (err error) {
	switch keyval {

	case "none":
		o.Solver = SolverNone
		o.Ctx = nil

	case "alu":
		o.Solver = SolverALU
		o.Class = ClassCs
		o.Precond = PrecondNone
		o.SchurApprox = SchurNone
		o.initXtraTransfoSles() // transformation of the RHS
		o.Ctx = &AluCtx{Gamma: 100}

	case "fgmres":
		o.Solver = SolverFgmres
		o.Class = ClassPetsc
		o.Ctx = nil
		if err = CheckClass(ClassPetsc); err != nil {
			return
		}
		o.Ctx = &KrylovCtx{solver: SolverFgmres, Nstored: 30}

	case "gcr":
		o.Solver = SolverGCR
		o.Class = ClassCs
		o.Ctx = &KrylovCtx{solver: SolverGCR, Nstored: 30}

	case "gkb":
		o.Solver = SolverGKB
		o.Class = ClassCs
		o.Precond = PrecondNone
		o.SchurApprox = SchurNone
		o.initXtraTransfoSles() // transformation of the RHS
		o.Ctx = &GkbCtx{Gamma: 0, TruncThreshold: 5}

	case "minres":
		o.Solver = SolverMinres
		o.Class = ClassCs
		o.Ctx = nil

	case "mumps":
		o.Solver = SolverMumps
		o.Class = ClassMumps
		o.Ctx = nil
		if err = CheckClass(ClassMumps); err != nil {
			return
		}

	case "notay":
		o.Solver = SolverNotay
		o.Class = ClassCs
		o.Ctx = &NotayCtx{ScalingCoef: 1.0}

	case "uzawa_cg":
		o.Solver = SolverUzawaCG
		o.Class = ClassCs
		o.Ctx = nil

	default:
		return ErrUnknownKey
	}
	return
}

// SetPrecond selects the block preconditioning from its string key.
// Selecting the Uzawa preconditioner expects a Schur approximation: a
// default one is chosen if none is set yet.
func (o *SaddleParams) SetPrecond(keyval string) (err error) {
	switch keyval {
	case "none":
		o.Precond = PrecondNone
	case "diag":
		o.Precond = PrecondDiag
	case "lower":
		o.Precond = PrecondLower
	case "sgs":
		o.Precond = PrecondSGS
	case "upper":
		o.Precond = PrecondUpper
	case "uzawa":
		o.Precond = PrecondUzawa
		if o.SchurApprox == SchurNone {
			o.SchurApprox = SchurMassScaled
		}
	default:
		return ErrUnknownKey
	}
	return
}

// SetSchurApprox selects the approximation of the Schur complement from its
// string key. Kinds relying on auxiliary solves additionally allocate the
// Schur and/or auxiliary sub-configurations.
func (o *SaddleParams) SetSchurApprox(keyval string) (err error) {
	switch keyval {
	case "none":
		o.SchurApprox = SchurNone
	case "diag_inv":
		o.SchurApprox = SchurDiagInverse
		o.initSchurSles()
	case "identity":
		o.SchurApprox = SchurIdentity
	case "lumped_inv":
		o.SchurApprox = SchurLumpedInverse
		o.initSchurSles()
		o.initXtraSles()
	case "mass", "mass_scaled":
		o.SchurApprox = SchurMassScaled
	case "mass_scaled_diag_inv":
		o.SchurApprox = SchurMassScaledDiagInverse
		o.initSchurSles()
		o.initXtraSles()
	case "mass_scaled_lumped_inv":
		o.SchurApprox = SchurMassScaledLumpedInverse
		o.initSchurSles()
		o.initXtraSles()
	default:
		return ErrUnknownKey
	}
	return
}

// SetClass selects the family of backends from its string key, validating
// that the family is available in the running build
func (o *SaddleParams) SetClass(keyval string) (err error) {
	switch keyval {
	case "cs", "saturne":
		o.Class = ClassCs
	case "mumps":
		o.Class = ClassMumps
		return CheckClass(ClassMumps)
	case "petsc":
		o.Class = ClassPetsc
		return CheckClass(ClassPetsc)
	default:
		return ErrUnknownKey
	}
	return
}

// SetRestartRange sets the number of directions to store before restarting
// a Krylov solver. Not relevant for the other solver kinds: a warning is
// issued and the configuration is left unchanged.
func (o *SaddleParams) SetRestartRange(restartRange int) {
	switch ctx := o.Ctx.(type) {
	case *KrylovCtx:
		ctx.Nstored = restartRange
	default:
		io.Pfyel("inp: restart range not taken into account: saddle-point solver not relevant\n")
	}
}

// SetNotayScaling sets the scaling coefficient used in Notay's
// transformation. Ignored unless the Notay solver is selected.
func (o *SaddleParams) SetNotayScaling(coef float64) {
	if ctx, ok := o.Ctx.(*NotayCtx); ok {
		ctx.ScalingCoef = coef
	}
}

// SetAugmentationCoef sets the scaling in front of the augmentation term of
// the ALU and GKB algorithms. Not relevant for the other solver kinds: a
// warning is issued and the configuration is left unchanged.
func (o *SaddleParams) SetAugmentationCoef(coef float64) {
	switch ctx := o.Ctx.(type) {
	case *AluCtx:
		ctx.Gamma = coef
	case *GkbCtx:
		ctx.Gamma = coef
	default:
		io.Pfyel("inp: augmentation coefficient not taken into account: saddle-point solver not relevant\n")
	}
}

// GetAugmentationCoef returns the scaling in front of the augmentation term,
// or zero when the active solver kind has no augmentation
func (o *SaddleParams) GetAugmentationCoef() float64 {
	switch ctx := o.Ctx.(type) {
	case *AluCtx:
		return ctx.Gamma
	case *GkbCtx:
		return ctx.Gamma
	}
	return 0
}

// Copy copies the scalar parameters of ref into dest and re-creates owned
// copies of the Schur and auxiliary sub-configurations when ref has them.
// The (1,1)-block parameters are shared, not copied, and the algorithm
// context is not copied either: call SetSolver on dest to allocate a fresh
// one. A synthetic name is assigned to dest if it has none, to avoid name
// collisions between the sub-configurations of ref and dest.
func Copy(ref, dest *SaddleParams) {
	if ref == nil || dest == nil {
		return
	}

	dest.Verbosity = ref.Verbosity
	dest.Class = ref.Class
	dest.Solver = ref.Solver
	dest.Precond = ref.Precond
	dest.SchurApprox = ref.SchurApprox
	dest.Cvg = ref.Cvg
	dest.Block11 = ref.Block11

	if ref.SchurSles != nil {
		if dest.name == "" {
			dest.SetName("automatic")
		}
		dest.EnsureSchurSles()
		dest.SchurSles.CopyFrom(ref.SchurSles)
	}

	if ref.XtraSles != nil {
		if dest.name == "" {
			dest.SetName("automatic")
		}
		dest.EnsureXtraSles()
		dest.XtraSles.CopyFrom(ref.XtraSles)
	}
}

// LogSetup prints a summary of the saddle-point settings
func (o *SaddleParams) LogSetup() {
	name := o.GetName()
	io.Pf("\n### %s | saddle-point system\n", name)
	io.Pf("  * %s | solver class: %v\n", name, o.Class)
	io.Pf("  * %s | solver: %v\n", name, o.Solver)
	if o.Solver == SolverNone {
		return
	}
	io.Pf("  * %s | preconditioner: %v\n", name, o.Precond)
	io.Pf("  * %s | Schur approximation: %v\n", name, o.SchurApprox)
	io.Pf("  * %s | maximum number of iterations: %d\n", name, o.Cvg.NmaxIt)
	io.Pf("  * %s | absolute tolerance: %g\n", name, o.Cvg.Atol)
	io.Pf("  * %s | relative tolerance: %g\n", name, o.Cvg.Rtol)
	io.Pf("  * %s | divergence tolerance: %g\n", name, o.Cvg.Dtol)

	switch ctx := o.Ctx.(type) {
	case *AluCtx:
		io.Pf("  * %s | augmentation coefficient: %g\n", name, ctx.Gamma)
	case *GkbCtx:
		io.Pf("  * %s | augmentation coefficient: %g\n", name, ctx.Gamma)
		io.Pf("  * %s | truncation threshold: %d\n", name, ctx.TruncThreshold)
	case *NotayCtx:
		io.Pf("  * %s | scaling coefficient: %g\n", name, ctx.ScalingCoef)
	case *KrylovCtx:
		io.Pf("  * %s | number of stored directions: %d\n", name, ctx.Nstored)
	}

	if o.SchurSles != nil {
		o.SchurSles.LogSetup()
	}
	if o.XtraSles != nil {
		o.XtraSles.LogSetup()
	}
}
