// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the configuration model of the saddle-point
// solver subsystem: the per-system parameters, the elementary-solver
// sub-configurations and the algorithm-specific contexts
package inp

// SolverKind identifies the saddle-point solution strategy
type SolverKind int

const (
	SolverNone SolverKind = iota
	SolverALU
	SolverFgmres
	SolverGCR
	SolverGKB
	SolverMinres
	SolverMumps
	SolverNotay
	SolverUzawaCG
)

// String returns the human-readable name of the solver kind
func (o SolverKind) String() string {
	switch o {
	case SolverNone:
		return "None"
	case SolverALU:
		return "Augmented-Lagrangian Uzawa"
	case SolverFgmres:
		return "FGMRES"
	case SolverGCR:
		return "GCR"
	case SolverGKB:
		return "GKB"
	case SolverMinres:
		return "MinRES"
	case SolverMumps:
		return "MUMPS"
	case SolverNotay:
		return "Notay's transformation"
	case SolverUzawaCG:
		return "Uzawa-CG"
	}
	return "Undefined"
}

// PrecondKind identifies the block preconditioning applied by the
// block-Krylov saddle-point solvers
type PrecondKind int

const (
	PrecondNone PrecondKind = iota
	PrecondDiag
	PrecondLower
	PrecondSGS
	PrecondUpper
	PrecondUzawa
)

// String returns the human-readable name of the preconditioner kind
func (o PrecondKind) String() string {
	switch o {
	case PrecondNone:
		return "None"
	case PrecondDiag:
		return "Diagonal blocks"
	case PrecondLower:
		return "Lower triangular blocks"
	case PrecondSGS:
		return "Symm. Gauss-Seidel by block"
	case PrecondUpper:
		return "Upper triangular blocks"
	case PrecondUzawa:
		return "Uzawa-like"
	}
	return "Undefined"
}

// SchurKind identifies the approximation of the Schur complement used to
// precondition the pressure space
type SchurKind int

const (
	SchurNone SchurKind = iota
	SchurDiagInverse
	SchurIdentity
	SchurLumpedInverse
	SchurMassScaled
	SchurMassScaledDiagInverse
	SchurMassScaledLumpedInverse
)

// String returns the human-readable name of the Schur approximation kind
func (o SchurKind) String() string {
	switch o {
	case SchurNone:
		return "None"
	case SchurDiagInverse:
		return "Based on the diagonal"
	case SchurIdentity:
		return "Identity matrix"
	case SchurLumpedInverse:
		return "Lumped inverse"
	case SchurMassScaled:
		return "Scaled mass matrix"
	case SchurMassScaledDiagInverse:
		return "Based on the diagonal + scaled mass matrix"
	case SchurMassScaledLumpedInverse:
		return "Lumped inverse + scaled mass scaling"
	}
	return "Undefined"
}

// SolverClass identifies the family of numerical backends carrying out the
// elementary solves
type SolverClass int

const (
	ClassCs    SolverClass = iota // in-house iterative solvers
	ClassMumps                    // MUMPS direct solver (MPI build only)
	ClassPetsc                    // PETSc (not in this build)
)

// String returns the human-readable name of the solver class
func (o SolverClass) String() string {
	switch o {
	case ClassCs:
		return "In-house"
	case ClassMumps:
		return "MUMPS"
	case ClassPetsc:
		return "PETSc"
	}
	return "Undefined"
}
