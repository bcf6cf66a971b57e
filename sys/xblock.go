// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// XBlock is the monolithic saddle-point matrix: velocity and pressure
// unknowns interleaved in one square matrix of size 3*Nf+Nc, the velocity
// components blocked first (all x-components, then y, then z) and the
// pressure unknowns last.
//
// A scaling may be applied to the pressure rows at insertion time; this is
// how Notay's algebraic transformation of the system is realized without
// rewriting the assembled triplet.
type XBlock struct {
	Nf int // number of faces (velocity unknowns per component)
	Nc int // number of cells (pressure unknowns)
	N  int // total size, 3*Nf+Nc

	T      la.Triplet // assembled entries
	PScale float64    // scaling applied to pressure-row entries (1 when unused)
	Rset   *RangeSet

	dg []float64
	cc *la.CCMatrix
}

// NewXBlock returns a monolithic block for nf faces and nc cells with
// space for max entries
func NewXBlock(nf, nc, max int, rset *RangeSet) (o *XBlock) {
	n := 3*nf + nc
	o = &XBlock{Nf: nf, Nc: nc, N: n, PScale: 1, Rset: rset, dg: make([]float64, n)}
	o.T.Init(n, n, max)
	return
}

// VelDof returns the row of the component k of the velocity unknown on
// face f
func (o *XBlock) VelDof(f, k int) int { return k*o.Nf + f }

// PrsDof returns the row of the pressure unknown on cell c
func (o *XBlock) PrsDof(c int) int { return 3*o.Nf + c }

// Start (re)starts the assembly, dropping all entries
func (o *XBlock) Start() {
	o.T.Start()
	for i := range o.dg {
		o.dg[i] = 0
	}
	o.cc = nil
}

// Put adds v to the entry (i,j), scaling pressure-row entries by PScale
func (o *XBlock) Put(i, j int, v float64) {
	if i >= 3*o.Nf {
		v *= o.PScale
	}
	o.T.Put(i, j, v)
	if i == j {
		o.dg[i] += v
	}
}

// Assemble compresses the triplet. Must be called once after the last Put
// and before the first MatVec.
func (o *XBlock) Assemble() {
	o.cc = o.T.ToMatrix(nil)
}

// Size returns the total number of rows
func (o *XBlock) Size() int { return o.N }

// Diag returns the accumulated diagonal entries
func (o *XBlock) Diag() []float64 { return o.dg }

// Dot returns the dot product of a and b over the whole space
func (o *XBlock) Dot(a, b []float64) float64 { return o.Rset.Dot(a, b) }

// MatVec computes y = M*x on the monolithic system
func (o *XBlock) MatVec(y, x []float64) {
	if o.cc == nil {
		chk.Panic("XBlock.MatVec: block is not assembled")
	}
	for i := range y {
		y[i] = 0
	}
	la.SpMatVecMulAdd(y, 1, o.cc, x)
	o.Rset.Reduce(y)
}
