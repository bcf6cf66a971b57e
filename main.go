// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/msh"
	"github.com/mfkiwl/code-saturne/saddle"
	"github.com/mfkiwl/code-saturne/sys"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	solverKey := io.ArgToString(0, "gcr")
	precondKey := io.ArgToString(1, "diag")
	schurKey := io.ArgToString(2, "mass_scaled")
	nx := io.ArgToInt(3, 8)
	ny := io.ArgToInt(4, 8)
	nz := io.ArgToInt(5, 8)
	verbose := io.ArgToBool(6, true)

	// message
	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nGosaturne -- saddle-point solvers for the velocity-pressure coupling\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"saddle-point solver", "solver", solverKey,
			"block preconditioner", "precond", precondKey,
			"Schur approximation", "schur", schurKey,
			"cells along x", "nx", nx,
			"cells along y", "ny", ny,
			"cells along z", "nz", nz,
			"show messages", "verbose", verbose,
		))
	}

	// configuration
	prms := inp.NewSaddleParams()
	prms.SetName("demo")
	prms.SetBlock11(inp.NewSlesParams("velocity"))
	if err := prms.SetSolver(solverKey); err != nil {
		chk.Panic("cannot select solver %q: %v", solverKey, err)
	}
	if err := prms.SetPrecond(precondKey); err != nil {
		chk.Panic("cannot select preconditioner %q: %v", precondKey, err)
	}
	if err := prms.SetSchurApprox(schurKey); err != nil {
		chk.Panic("cannot select Schur approximation %q: %v", schurKey, err)
	}
	if mpi.Rank() == 0 && verbose {
		prms.LogSetup()
	}

	props := &inp.FlowProps{Rho0: 1, Visc0: 1e-3, Steady: false, Dt: 0.01}
	if prms.Solver == inp.SolverMumps || prms.Solver == inp.SolverFgmres {
		props.PressureDiag = 1e-10 // keep the full matrix factorizable
	}

	// mesh and system structure
	m := msh.NewGrid(nx, ny, nz, 1, 1, 1)
	h := sys.NewHelper(prms.Solver, m)
	sol := saddle.New(prms, props, m, h)

	assemble(h, m, props)

	// gravity-like velocity right-hand side, divergence-free target
	b1 := make([]float64, h.Nu)
	b2 := make([]float64, h.Np)
	for f := 0; f < m.Nfaces(); f++ {
		b1[3*f+2] = -props.Rho0 * m.FaceArea[f]
	}

	u := make([]float64, h.Nu)
	p := make([]float64, h.Np)
	nit, err := sol.Solve(u, p, b1, b2)
	if err != nil {
		chk.Panic("solve failed: %v", err)
	}

	if mpi.Rank() == 0 && verbose {
		io.Pf("\nsolve: %d iterations, status %v, residual %g\n", nit, sol.Algo.Stat, sol.Algo.Res)
		io.Pf("\nMONITORING\n")
		sol.Mon.Report()
	}
}

// assemble fills the system with a diffusion-like velocity block (one graph
// Laplacian per component, strictly diagonally dominant) and the geometric
// divergence
func assemble(h *sys.Helper, m *msh.Mesh, props *inp.FlowProps) {
	h.Start()
	for f := 0; f < m.Nfaces(); f++ {
		for k := 0; k < 3; k++ {
			h.AddVel(f, k, f, k, float64(m.F2f.Degree(f)+1))
		}
		for _, g := range m.F2f.Range(f) {
			for k := 0; k < 3; k++ {
				h.AddVel(f, k, g, k, -0.5)
			}
		}
	}
	for c := 0; c < m.Ncells; c++ {
		for idx := m.C2f.Idx[c]; idx < m.C2f.Idx[c+1]; idx++ {
			f := m.C2f.Ids[idx]
			sgn := float64(m.C2fSgn[idx])
			for k := 0; k < 3; k++ {
				if m.FaceNormal[f][k] != 0 {
					h.AddDiv(c, f, k, sgn*m.FaceArea[f]*m.FaceNormal[f][k])
				}
			}
		}
	}
	if h.Monolithic() && props.PressureDiag > 0 {
		for c := 0; c < m.Ncells; c++ {
			h.AddPrsDiag(c, -props.PressureDiag*m.CellVol[c])
		}
	}
	h.Assemble()
}
