// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/mfkiwl/code-saturne/inp"
)

func TestIterAlgo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iteralgo01. convergence, divergence, iteration cap")

	cvg := inp.CvgParams{NmaxIt: 3, Atol: 1e-12, Rtol: 1e-6, Dtol: 1e3}

	// convergence on the relative tolerance
	ia := NewIterAlgo("cvg", cvg, 0)
	ia.SetRes0(1)
	chk.IntAssert(int(ia.Update(0.5)), int(Iterating))
	chk.IntAssert(int(ia.Update(1e-7)), int(Converged))
	chk.IntAssert(ia.Nit, 2)

	// divergence on the residual growth
	ia = NewIterAlgo("div", cvg, 0)
	ia.SetRes0(1)
	chk.IntAssert(int(ia.Update(0.5)), int(Iterating))
	chk.IntAssert(int(ia.Update(2000)), int(Diverged))

	// iteration cap
	ia = NewIterAlgo("cap", cvg, 0)
	ia.SetRes0(1)
	ia.Update(0.9)
	ia.Update(0.8)
	chk.IntAssert(int(ia.Update(0.7)), int(MaxIterReached))

	// an already converged initial residual needs no iteration
	ia = NewIterAlgo("zero", cvg, 0)
	ia.SetRes0(1e-13)
	chk.IntAssert(int(ia.Stat), int(Converged))
}

func TestIterAlgo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iteralgo02. monitor accumulation")

	var mon Monitor
	mon.Name = "navsto"
	mon.Update(10)
	mon.Update(4)
	mon.Update(7)
	chk.IntAssert(mon.Ncalls, 3)
	chk.IntAssert(mon.NitTot, 21)
	chk.IntAssert(mon.NitMin, 4)
	chk.IntAssert(mon.NitMax, 10)
}

func TestIterAlgo03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iteralgo03. GKB zeta window sizing")

	chk.IntAssert(len(newGkbZeta(0, 5).window), 6)
	chk.IntAssert(len(newGkbZeta(5, 5).window), 5)
	chk.IntAssert(len(newGkbZeta(50, 5).window), 4)
	chk.IntAssert(len(newGkbZeta(500, 5).window), 3)
	chk.IntAssert(len(newGkbZeta(5000, 5).window), 2)
	chk.IntAssert(len(newGkbZeta(1e6, 5).window), 1)
	chk.IntAssert(len(newGkbZeta(1e6, 2).window), 1) // never below one
}
