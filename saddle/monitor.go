// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// Monitor accumulates iteration counts over the successive solves of one
// saddle-point system
type Monitor struct {
	Name   string
	Ncalls int
	NitTot int
	NitMin int
	NitMax int
}

// Update records the iteration count of one solve
func (o *Monitor) Update(nit int) {
	if o.Ncalls == 0 {
		o.NitMin = math.MaxInt
	}
	o.Ncalls++
	o.NitTot += nit
	if nit < o.NitMin {
		o.NitMin = nit
	}
	if nit > o.NitMax {
		o.NitMax = nit
	}
}

// Report prints the accumulated counts
func (o *Monitor) Report() {
	if o.Ncalls == 0 {
		io.Pf("  %-20s : no solve performed\n", o.Name)
		return
	}
	mean := float64(o.NitTot) / float64(o.Ncalls)
	io.Pf("  %-20s : %4d calls | iterations: mean=%8.1f min=%5d max=%5d\n",
		o.Name, o.Ncalls, mean, o.NitMin, o.NitMax)
}
