// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/msh"
	"github.com/mfkiwl/code-saturne/sles"
	"github.com/mfkiwl/code-saturne/sys"
)

// Solver drives the solution of one saddle-point system
//
//	| A  B^T | |u|   |b1|
//	| B   0  | |p| = |b2|
//
// according to a set of SaddleParams. The helper must have been built for
// the same solver kind; the blocks are read after each assembly, so the
// same solver serves all the solves of a computation.
type Solver struct {
	Prms  *inp.SaddleParams
	Props *inp.FlowProps
	M     *msh.Mesh
	H     *sys.Helper

	Algo *IterAlgo // tracker of the last solve
	Mon  Monitor   // accumulated over all solves

	schur  *schurPc
	direct *sles.Solver // factorized monolithic matrix
	matWu  []float64    // velocity workspace of the combined products
	setup  bool
}

// New returns a solver for the system described by prms over the blocks of
// h. The helper layout must match the solver kind. With Notay's
// transformation the scaling of the pressure rows is installed here: New
// must be called before the system is assembled.
func New(prms *inp.SaddleParams, props *inp.FlowProps, m *msh.Mesh, h *sys.Helper) (o *Solver) {
	if prms.Solver == inp.SolverNone {
		chk.Panic("saddle.New: no solver set in %q", prms.GetName())
	}
	if sys.TwoBlockKind(prms.Solver) == h.Monolithic() {
		chk.Panic("saddle.New: helper layout does not match solver %v", prms.Solver)
	}
	o = &Solver{Prms: prms, Props: props, M: m, H: h}
	o.Mon.Name = prms.GetName()
	if prms.Solver == inp.SolverNotay {
		ctx := prms.Ctx.(*inp.NotayCtx)
		h.X.PScale = -ctx.ScalingCoef
	}
	return
}

// Reset drops the setup performed on the first solve. Must be called after
// the matrix values changed.
func (o *Solver) Reset() {
	o.setup = false
	o.schur = nil
	if o.direct != nil {
		o.direct.Free()
		o.direct = nil
	}
}

// doSetup builds what the first solve needs: the Schur approximation on the
// two-block layouts
func (o *Solver) doSetup() (err error) {
	if o.setup {
		return
	}
	if !o.H.Monolithic() {
		o.schur, err = newSchurPc(o.Prms, o.Props, o.M, o.H.D, o.H.RsetP)
		if err != nil {
			return
		}
	}
	o.setup = true
	return
}

// Solve computes u and p. The arrays hold the initial guess on input and
// the solution on output; b1 and b2 are not modified. The returned count is
// the number of outer iterations (zero for the single-solve strategies).
func (o *Solver) Solve(u, p, b1, b2 []float64) (nit int, err error) {

	err = o.doSetup()
	if err != nil {
		return
	}
	o.Algo = NewIterAlgo(o.Prms.GetName(), o.Prms.Cvg, o.Prms.Verbosity)

	switch o.Prms.Solver {
	case inp.SolverALU:
		nit, err = o.solveALU(u, p, b1, b2)
	case inp.SolverGKB:
		nit, err = o.solveGKB(u, p, b1, b2)
	case inp.SolverUzawaCG:
		nit, err = o.solveUzawaCG(u, p, b1, b2)
	case inp.SolverGCR:
		nit, err = o.solveGCR(u, p, b1, b2)
	case inp.SolverMinres:
		nit, err = o.solveMinres(u, p, b1, b2)
	case inp.SolverNotay:
		nit, err = o.solveNotay(u, p, b1, b2)
	case inp.SolverMumps, inp.SolverFgmres:
		nit, err = o.solveFull(u, p, b1, b2)
	default:
		chk.Panic("saddle.Solve: unhandled solver %v", o.Prms.Solver)
	}

	if err == nil {
		o.Mon.Update(nit)
	}
	return
}

// newB11Solver returns an elementary solver on the velocity block (or on an
// augmented version of it) configured with the (1,1)-block parameters
func (o *Solver) newB11Solver(op sles.System) *sles.Solver {
	return sles.New(o.Prms.Block11, op)
}

// resNorm is the Euclidean norm of the full two-block residual
func (o *Solver) resNorm(r1, r2 []float64) float64 {
	n1 := o.H.RsetU.Dot(r1, r1)
	n2 := o.H.RsetP.Dot(r2, r2)
	return math.Sqrt(n1 + n2)
}

// divNorm is the volume-weighted (energy) norm of a residual on the
// pressure space. wc is a cell-sized workspace.
func (o *Solver) divNorm(r, wc []float64) float64 {
	for c := range r {
		wc[c] = o.M.CellVol[c] * r[c]
	}
	return math.Sqrt(o.H.RsetP.Dot(r, wc))
}

// residual computes r1 = b1 - A*u - B^T*p and r2 = b2 - B*u on the
// two-block layout. wu is a velocity-sized workspace.
func (o *Solver) residual(r1, r2, u, p, b1, b2, wu []float64) {
	o.H.D.MatVec(r1, u)
	o.H.U.MultTranspVec(wu, p)
	for i := range r1 {
		r1[i] = b1[i] - r1[i] - wu[i]
	}
	o.H.U.MultVec(r2, u)
	for c := range r2 {
		r2[c] = b2[c] - r2[c]
	}
}

// augSys is the velocity block augmented with the grad-div term
//
//	A_g = A + gamma * B^T * W^{-1} * B
//
// where W is the diagonal pressure mass (the cell volumes). The diagonal
// exposed to the Jacobi preconditioner is the one of A alone.
type augSys struct {
	d     *sys.DBlock
	u     *sys.UBlock
	gamma float64
	vol   []float64
	wc    []float64
	wf    []float64
}

func newAugSys(d *sys.DBlock, u *sys.UBlock, gamma float64, vol []float64) *augSys {
	return &augSys{
		d: d, u: u, gamma: gamma, vol: vol,
		wc: make([]float64, len(vol)),
		wf: make([]float64, d.Size()),
	}
}

func (o *augSys) Size() int                  { return o.d.Size() }
func (o *augSys) Diag() []float64            { return o.d.Diag() }
func (o *augSys) Dot(a, b []float64) float64 { return o.d.Dot(a, b) }

func (o *augSys) MatVec(y, x []float64) {
	o.d.MatVec(y, x)
	if o.gamma == 0 {
		return
	}
	o.u.MultVec(o.wc, x)
	for c := range o.wc {
		o.wc[c] /= o.vol[c]
	}
	o.u.MultTranspVec(o.wf, o.wc)
	for i := range y {
		y[i] += o.gamma * o.wf[i]
	}
}

// augRhs computes b1g = b1 + gamma * B^T * W^{-1} * b2, the velocity
// right-hand side matching the augmented operator
func (o *augSys) augRhs(b1g, b1, b2 []float64) {
	copy(b1g, b1)
	if o.gamma == 0 {
		return
	}
	for c := range o.wc {
		o.wc[c] = b2[c] / o.vol[c]
	}
	o.u.MultTranspVec(o.wf, o.wc)
	for i := range b1g {
		b1g[i] += o.gamma * o.wf[i]
	}
}
