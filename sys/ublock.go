// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/msh"
)

// UBlock is the off-diagonal coupling of the saddle-point system: the
// discrete divergence acting on the interlaced velocity unknowns. The
// gradient is its transpose and is never stored. The adjacency is borrowed
// from the mesh, never copied.
type UBlock struct {
	Adj  *msh.Adjacency // cell -> faces (borrowed)
	Vals []float64      // 3 values per adjacency entry
	Rset *RangeSet      // range set of the velocity space (borrowed)
}

// NewUBlock returns a divergence block over the cell-face adjacency of m
func NewUBlock(m *msh.Mesh, rset *RangeSet) (o *UBlock) {
	return &UBlock{
		Adj:  &m.C2f,
		Vals: make([]float64, 3*len(m.C2f.Ids)),
		Rset: rset,
	}
}

// Start zeroes all values
func (o *UBlock) Start() {
	for i := range o.Vals {
		o.Vals[i] = 0
	}
}

// Put adds v to the component k of the coupling between cell c and face f.
// The face must belong to the cell.
func (o *UBlock) Put(c, f, k int, v float64) {
	for idx := o.Adj.Idx[c]; idx < o.Adj.Idx[c+1]; idx++ {
		if o.Adj.Ids[idx] == f {
			o.Vals[3*idx+k] += v
			return
		}
	}
	chk.Panic("UBlock.Put: face %d does not belong to cell %d", f, c)
}

// MultVec computes y = B*x: the divergence of the interlaced velocity array
// x (3 components per face) into the cell-based array y
func (o *UBlock) MultVec(y, x []float64) {
	nc := len(o.Adj.Idx) - 1
	for c := 0; c < nc; c++ {
		acc := 0.0
		for idx := o.Adj.Idx[c]; idx < o.Adj.Idx[c+1]; idx++ {
			f := o.Adj.Ids[idx]
			acc += o.Vals[3*idx]*x[3*f] + o.Vals[3*idx+1]*x[3*f+1] + o.Vals[3*idx+2]*x[3*f+2]
		}
		y[c] = acc
	}
}

// MultTranspVec computes y = B^T*x: the gradient of the cell-based array x
// scattered into the interlaced velocity array y. y is zeroed first, then
// synchronized over the velocity space.
func (o *UBlock) MultTranspVec(y, x []float64) {
	for i := range y {
		y[i] = 0
	}
	nc := len(o.Adj.Idx) - 1
	for c := 0; c < nc; c++ {
		for idx := o.Adj.Idx[c]; idx < o.Adj.Idx[c+1]; idx++ {
			f := o.Adj.Ids[idx]
			y[3*f] += o.Vals[3*idx] * x[c]
			y[3*f+1] += o.Vals[3*idx+1] * x[c]
			y[3*f+2] += o.Vals[3*idx+2] * x[c]
		}
	}
	o.Rset.Reduce(y)
}
