// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// SolverCtx is the algorithm-specific part of a saddle-point configuration.
// At most one context is active at a time and its kind always equals the
// configured solver kind; solver kinds without extra parameters carry a nil
// context.
type SolverCtx interface {
	CtxKind() SolverKind
}

// AluCtx holds the parameters of the Augmented Lagrangian-Uzawa algorithm
type AluCtx struct {
	Gamma         float64 `json:"gamma"`          // scaling of the augmentation term
	DedicatedXtra bool    `json:"dedicated_xtra"` // use a dedicated solver for the transformed RHS
}

// CtxKind returns the solver kind this context belongs to
func (o *AluCtx) CtxKind() SolverKind { return SolverALU }

// GkbCtx holds the parameters of the Golub-Kahan bidiagonalization algorithm
type GkbCtx struct {
	Gamma          float64 `json:"gamma"`     // scaling of the augmentation term
	TruncThreshold int     `json:"threshold"` // number of zeta values kept for the energy-norm estimate
	DedicatedXtra  bool    `json:"dedicated_xtra"`
}

// CtxKind returns the solver kind this context belongs to
func (o *GkbCtx) CtxKind() SolverKind { return SolverGKB }

// NotayCtx holds the scaling coefficient of Notay's algebraic transformation
// ("Algebraic multigrid for Stokes equations", SIAM J. Sci. Comput. 39(5),
// 2017, where it is denoted by alpha)
type NotayCtx struct {
	ScalingCoef float64 `json:"alpha"`
}

// CtxKind returns the solver kind this context belongs to
func (o *NotayCtx) CtxKind() SolverKind { return SolverNotay }

// KrylovCtx holds the parameters shared by the restarted block-Krylov
// saddle-point solvers (FGMRES and GCR)
type KrylovCtx struct {
	solver  SolverKind
	Nstored int `json:"restart_range"` // number of directions stored before restarting
}

// CtxKind returns the solver kind this context belongs to
func (o *KrylovCtx) CtxKind() SolverKind { return o.solver }
