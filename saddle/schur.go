// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/msh"
	"github.com/mfkiwl/code-saturne/sles"
	"github.com/mfkiwl/code-saturne/sys"
)

// schurSys is the cell-based approximation of the Schur complement
// B*inv(diag-like(A))*B^T, assembled from the face geometry. It implements
// the operator view of the elementary solvers.
type schurSys struct {
	n    int
	dg   []float64
	cc   *la.CCMatrix
	rset *sys.RangeSet
}

func (o *schurSys) Size() int                  { return o.n }
func (o *schurSys) Diag() []float64            { return o.dg }
func (o *schurSys) Dot(a, b []float64) float64 { return o.rset.Dot(a, b) }

func (o *schurSys) MatVec(y, x []float64) {
	for i := range y {
		y[i] = 0
	}
	la.SpMatVecMulAdd(y, 1, o.cc, x)
	o.rset.Reduce(y)
}

// buildSchurSys assembles the Schur approximation from an approximate
// inverse of the velocity block given by its interlaced diagonal (3 values
// per face). For each interior face the contribution
//
//	contrib = -area^2 * sum_k inv[3f+k] * n_k^2
//
// couples the two adjacent cells and accumulates with the opposite sign on
// their diagonals; boundary faces only reinforce the diagonal of their
// cell. The loops stay serial: two faces of one cell write to the same
// diagonal entry.
func buildSchurSys(m *msh.Mesh, inv []float64, rset *sys.RangeSet) (o *schurSys) {

	nc := m.Ncells
	o = &schurSys{n: nc, dg: make([]float64, nc), rset: rset}

	var t la.Triplet
	t.Init(nc, nc, 3*m.NintFaces+m.NbndFaces)

	diag := make([]float64, nc)
	for f := 0; f < m.NintFaces; f++ {
		nvec, area := m.FaceNvec(f)
		contrib := 0.0
		for k := 0; k < 3; k++ {
			contrib -= area * area * inv[3*f+k] * nvec[k] * nvec[k]
		}
		ci, cj := m.IfaceCells[f][0], m.IfaceCells[f][1]
		t.Put(ci, cj, contrib)
		t.Put(cj, ci, contrib)
		diag[ci] -= contrib
		diag[cj] -= contrib
	}
	for i := 0; i < m.NbndFaces; i++ {
		f := m.NintFaces + i
		nvec, area := m.FaceNvec(f)
		c := m.BfaceCell[i]
		for k := 0; k < 3; k++ {
			diag[c] += area * area * inv[3*f+k] * nvec[k] * nvec[k]
		}
	}
	for c := 0; c < nc; c++ {
		t.Put(c, c, diag[c])
		o.dg[c] = diag[c]
	}

	o.cc = t.ToMatrix(nil)
	return
}

// invDiag returns the entrywise inverse of the velocity-block diagonal
func invDiag(dg []float64) (inv []float64) {
	inv = make([]float64, len(dg))
	for i, d := range dg {
		if d != 0 {
			inv[i] = 1 / d
		}
	}
	return
}

// lumpedInv returns an approximate inverse of the velocity block lumped
// into a diagonal: the solution of A*x = 1 under a coarse tolerance
func lumpedInv(prms *inp.SlesParams, d *sys.DBlock) (inv []float64, nit int, err error) {
	n := d.Size()
	inv = make([]float64, n)
	ones := make([]float64, n)
	la.VecFill(ones, 1)
	sol := sles.New(prms, d)
	nit, err = sol.Solve(inv, ones)
	return
}

// schurPc applies the inverse of the selected Schur approximation. It is
// the pressure half of the block preconditioners and the metric of the
// Uzawa conjugate gradient.
type schurPc struct {
	kind    inp.SchurKind
	vol     []float64 // cell volumes (borrowed from the mesh)
	scaling float64   // coefficient of the scaled inverse pressure mass
	ssys    *schurSys
	sol     *sles.Solver
	z2      []float64

	// iteration counts of the auxiliary solves
	NitSchur int
	NitXtra  int
}

// newSchurPc builds the approximation selected in prms. The auxiliary
// solves needed by the lumped variants run here, once.
func newSchurPc(prms *inp.SaddleParams, props *inp.FlowProps, m *msh.Mesh, d *sys.DBlock, rsetP *sys.RangeSet) (o *schurPc, err error) {

	o = &schurPc{kind: prms.SchurApprox, vol: m.CellVol}
	if props != nil {
		o.scaling = props.SchurScaling()
	}

	var inv []float64
	switch prms.SchurApprox {

	case inp.SchurNone, inp.SchurIdentity, inp.SchurMassScaled:
		return

	case inp.SchurDiagInverse, inp.SchurMassScaledDiagInverse:
		inv = invDiag(d.Diag())

	case inp.SchurLumpedInverse, inp.SchurMassScaledLumpedInverse:
		if prms.XtraSles == nil {
			return nil, chk.Err("%s: lumped Schur approximation without auxiliary parameters", prms.GetName())
		}
		inv, o.NitXtra, err = lumpedInv(prms.XtraSles, d)
		if err != nil {
			return nil, err
		}

	default:
		return nil, chk.Err("%s: unhandled Schur approximation %v", prms.GetName(), prms.SchurApprox)
	}

	if prms.SchurSles == nil {
		return nil, chk.Err("%s: Schur approximation %v without solver parameters", prms.GetName(), prms.SchurApprox)
	}
	o.ssys = buildSchurSys(m, inv, rsetP)
	o.sol = sles.New(prms.SchurSles, o.ssys)
	o.z2 = make([]float64, m.Ncells)
	return
}

// Apply computes z = S^{-1}*r with the selected approximation. The scaled
// variants average the scaled inverse pressure mass and the solve on the
// assembled approximation.
func (o *schurPc) Apply(z, r []float64) (err error) {
	switch o.kind {

	case inp.SchurNone, inp.SchurIdentity:
		copy(z, r)

	case inp.SchurMassScaled:
		for c := range z {
			z[c] = o.scaling * r[c] / o.vol[c]
		}

	case inp.SchurDiagInverse, inp.SchurLumpedInverse:
		la.VecFill(z, 0)
		nit, e := o.sol.Solve(z, r)
		o.NitSchur += nit
		if e != nil {
			return e
		}

	case inp.SchurMassScaledDiagInverse, inp.SchurMassScaledLumpedInverse:
		la.VecFill(o.z2, 0)
		nit, e := o.sol.Solve(o.z2, r)
		o.NitSchur += nit
		if e != nil {
			return e
		}
		for c := range z {
			z[c] = 0.5*o.scaling*r[c]/o.vol[c] + 0.5*o.z2[c]
		}
	}
	return
}
