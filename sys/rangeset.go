// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sys holds the distributed structures of one saddle-point system:
// the range sets of the velocity and pressure spaces, the matrix blocks, and
// the helper routing assembly contributions into them.
package sys

import (
	"math"

	"github.com/cpmech/gosl/mpi"
)

// RangeSet describes the set of entries of one vector space owned by this
// processor and carries the reductions over the whole space
type RangeSet struct {
	Nowned int  // number of owned entries on this processor
	Distr  bool // distributed run
	w      []float64
}

// NewRangeSet returns a range set with n owned entries
func NewRangeSet(n int) (o *RangeSet) {
	o = &RangeSet{Nowned: n}
	if mpi.IsOn() && mpi.Size() > 1 {
		o.Distr = true
		o.w = make([]float64, 1)
	}
	return
}

// Reduce sums x over all processors, in place
func (o *RangeSet) Reduce(x []float64) {
	if !o.Distr {
		return
	}
	if len(o.w) < len(x) {
		o.w = make([]float64, len(x))
	}
	mpi.AllReduceSum(x, o.w[:len(x)])
}

// Dot returns the dot product of a and b over the whole space
func (o *RangeSet) Dot(a, b []float64) (res float64) {
	for i := 0; i < o.Nowned; i++ {
		res += a[i] * b[i]
	}
	if o.Distr {
		o.w[0] = res
		buf := []float64{0}
		mpi.AllReduceSum(o.w[:1], buf)
		res = o.w[0]
	}
	return
}

// Norm returns the Euclidean norm of a over the whole space
func (o *RangeSet) Norm(a []float64) float64 {
	return math.Sqrt(o.Dot(a, a))
}
