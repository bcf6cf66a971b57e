// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/io"

// SlesParams holds the parameters driving one elementary linear solve: one
// block of the saddle-point system, the Schur system, or an auxiliary
// system used to build an approximate inverse
type SlesParams struct {
	Name    string      `json:"name"`    // name of the system; used in reports
	Class   SolverClass `json:"-"`       // family of backends
	Solver  string      `json:"solver"`  // elementary solver key; e.g. "cg", "fcg", "mumps"
	Precond string      `json:"precond"` // preconditioner key; e.g. "none", "jacobi", "amg"
	AmgType string      `json:"amg"`     // algebraic multigrid flavour, when Precond == "amg"
	NmaxIt  int         `json:"nmaxit"`  // maximum number of iterations
	Atol    float64     `json:"atol"`    // absolute tolerance
	Rtol    float64     `json:"rtol"`    // relative tolerance
	Verbose bool        `json:"verbose"` // verbose output from the backend
}

// NewSlesParams returns a set of elementary-solver parameters with default
// values: in-house conjugate gradient, Jacobi preconditioning
func NewSlesParams(name string) (o *SlesParams) {
	return &SlesParams{
		Name:    name,
		Class:   ClassCs,
		Solver:  "cg",
		Precond: "jacobi",
		NmaxIt:  10000,
		Atol:    1e-13,
		Rtol:    1e-6,
	}
}

// CopyFrom copies all parameters of ref into o, keeping o's name
func (o *SlesParams) CopyFrom(ref *SlesParams) {
	name := o.Name
	*o = *ref
	o.Name = name
}

// Clone returns a newly allocated copy of o
func (o *SlesParams) Clone() (clone *SlesParams) {
	clone = new(SlesParams)
	*clone = *o
	return
}

// LogSetup prints a summary of the elementary-solver settings
func (o *SlesParams) LogSetup() {
	io.Pf("\n### %s | linear system\n", o.Name)
	io.Pf("  * %s | solver class: %v\n", o.Name, o.Class)
	io.Pf("  * %s | solver: %s  preconditioner: %s\n", o.Name, o.Solver, o.Precond)
	if o.Precond == "amg" {
		io.Pf("  * %s | amg type: %s\n", o.Name, o.AmgType)
	}
	io.Pf("  * %s | max iterations: %d  atol: %g  rtol: %g\n", o.Name, o.NmaxIt, o.Atol, o.Rtol)
}
