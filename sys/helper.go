// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/msh"
)

// Helper owns the structure of one saddle-point system and routes the
// assembly contributions into its blocks. Two layouts exist:
//
//   - monolithic: one square matrix gathering velocity and pressure
//     unknowns, the velocity components blocked first; used by the solvers
//     handing the full system to a single solve (Notay, MUMPS, FGMRES);
//
//   - two-block: the velocity block as a sparse matrix with interlaced
//     components plus the divergence operator kept in its cellwise form;
//     used by the segregated and block-Krylov algorithms.
//
// The layout is decided from the solver kind at construction and the
// contributions are expressed in mesh entities (faces, cells) so that the
// assembly code never depends on it.
type Helper struct {
	M  *msh.Mesh
	Nu int // number of velocity unknowns, 3*Nfaces
	Np int // number of pressure unknowns, Ncells

	RsetU *RangeSet // range set of the velocity space
	RsetP *RangeSet // range set of the pressure space

	// monolithic layout
	X *XBlock

	// two-block layout
	D *DBlock
	U *UBlock

	mono bool
}

// TwoBlockKind tells whether the given solver kind works on separate
// velocity and divergence blocks rather than on the monolithic matrix
func TwoBlockKind(kind inp.SolverKind) bool {
	switch kind {
	case inp.SolverALU, inp.SolverGCR, inp.SolverGKB, inp.SolverMinres, inp.SolverUzawaCG:
		return true
	}
	return false
}

// velMax returns an upper bound of the number of velocity-block entries:
// for each face, the 3x3 couplings with itself and with every face sharing
// one of its cells
func velMax(m *msh.Mesh) (max int) {
	nf := m.Nfaces()
	for f := 0; f < nf; f++ {
		max += 9 * (m.F2f.Degree(f) + 1)
	}
	return
}

// divMax returns an upper bound of the number of velocity-pressure
// couplings: for each face, 3 gradient and 3 divergence entries per
// adjacent cell
func divMax(m *msh.Mesh) (max int) {
	nf := m.Nfaces()
	for f := 0; f < nf; f++ {
		max += 6 * m.F2c.Degree(f)
	}
	return
}

// NewHelper builds the block structure matching the solver kind over the
// mesh m. Build must have been called on m.
func NewHelper(kind inp.SolverKind, m *msh.Mesh) (o *Helper) {
	nf := m.Nfaces()
	o = &Helper{
		M:     m,
		Nu:    3 * nf,
		Np:    m.Ncells,
		RsetU: NewRangeSet(3 * nf),
		RsetP: NewRangeSet(m.Ncells),
	}
	if TwoBlockKind(kind) {
		o.D = NewDBlock(o.Nu, velMax(m), o.RsetU)
		o.U = NewUBlock(m, o.RsetU)
		return
	}
	o.mono = true
	rset := NewRangeSet(o.Nu + o.Np)
	o.X = NewXBlock(nf, m.Ncells, velMax(m)+divMax(m)+m.Ncells, rset)
	return
}

// Monolithic tells whether the helper assembles one single matrix
func (o *Helper) Monolithic() bool { return o.mono }

// Start (re)starts the assembly of all blocks
func (o *Helper) Start() {
	if o.mono {
		o.X.Start()
		return
	}
	o.D.Start()
	o.U.Start()
}

// AddVel adds v to the coupling between the velocity components (f,k) and
// (g,l)
func (o *Helper) AddVel(f, k, g, l int, v float64) {
	if o.mono {
		o.X.Put(o.X.VelDof(f, k), o.X.VelDof(g, l), v)
		return
	}
	o.D.Put(3*f+k, 3*g+l, v)
}

// AddDiv adds v to the coupling between the pressure unknown on cell c and
// the velocity component (f,k). The transposed gradient entry is inserted
// at the same time on the monolithic layout; the two-block layout keeps the
// divergence only and applies the gradient through the transpose.
func (o *Helper) AddDiv(c, f, k int, v float64) {
	if o.mono {
		o.X.Put(o.X.PrsDof(c), o.X.VelDof(f, k), v)
		o.X.Put(o.X.VelDof(f, k), o.X.PrsDof(c), v)
		return
	}
	o.U.Put(c, f, k, v)
}

// AddPrsDiag adds v on the diagonal of the pressure unknown on cell c.
// Only meaningful on the monolithic layout, where a small diagonal may be
// needed to make the full matrix factorizable.
func (o *Helper) AddPrsDiag(c int, v float64) {
	if !o.mono {
		chk.Panic("Helper.AddPrsDiag: no pressure diagonal on the two-block layout")
	}
	o.X.Put(o.X.PrsDof(c), o.X.PrsDof(c), v)
}

// Assemble finalizes all blocks; no Put is allowed afterwards until the
// next Start
func (o *Helper) Assemble() {
	if o.mono {
		o.X.Assemble()
		return
	}
	o.D.Assemble()
}
