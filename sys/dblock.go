// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// DBlock is a square diagonal block of the saddle-point system, typically
// the velocity block. The entries live in a sparse triplet; the diagonal is
// additionally accumulated aside so that the Jacobi preconditioner and the
// Schur approximations can read it without touching the compressed matrix.
type DBlock struct {
	N    int        // number of rows
	T    la.Triplet // all entries, duplicates summed on assembly
	Rset *RangeSet

	dg []float64
	cc *la.CCMatrix
}

// NewDBlock returns a block with n rows and space for max entries
func NewDBlock(n, max int, rset *RangeSet) (o *DBlock) {
	o = &DBlock{N: n, Rset: rset, dg: make([]float64, n)}
	o.T.Init(n, n, max)
	return
}

// Start (re)starts the assembly, dropping all entries
func (o *DBlock) Start() {
	o.T.Start()
	for i := range o.dg {
		o.dg[i] = 0
	}
	o.cc = nil
}

// Put adds v to the entry (i,j)
func (o *DBlock) Put(i, j int, v float64) {
	o.T.Put(i, j, v)
	if i == j {
		o.dg[i] += v
	}
}

// Assemble compresses the triplet. Must be called once after the last Put
// and before the first MatVec.
func (o *DBlock) Assemble() {
	o.cc = o.T.ToMatrix(nil)
}

// Size returns the number of local rows
func (o *DBlock) Size() int { return o.N }

// Diag returns the accumulated diagonal entries
func (o *DBlock) Diag() []float64 { return o.dg }

// Dot returns the dot product of a and b over the whole space
func (o *DBlock) Dot(a, b []float64) float64 { return o.Rset.Dot(a, b) }

// MatVec computes y = A*x
func (o *DBlock) MatVec(y, x []float64) {
	if o.cc == nil {
		chk.Panic("DBlock.MatVec: block is not assembled")
	}
	for i := range y {
		y[i] = 0
	}
	la.SpMatVecMulAdd(y, 1, o.cc, x)
	o.Rset.Reduce(y)
}
