// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package saddle

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/mfkiwl/code-saturne/inp"
	"github.com/mfkiwl/code-saturne/sles"
)

// blockPc applies one of the block preconditioners to a combined
// velocity-pressure vector. Each application costs one velocity solve plus
// one Schur application; the triangular variants add the coupling with the
// divergence, and SGS and Uzawa add a second velocity solve.
type blockPc struct {
	s    *Solver
	kind inp.PrecondKind
	b11  *sles.Solver
	wu   []float64
	wp   []float64
}

func (o *Solver) newBlockPc() *blockPc {
	return &blockPc{
		s:    o,
		kind: o.Prms.Precond,
		b11:  o.newB11Solver(o.H.D),
		wu:   make([]float64, o.H.Nu),
		wp:   make([]float64, o.H.Np),
	}
}

// vel solves A*z1 = r1 from a zero guess
func (o *blockPc) vel(z1, r1 []float64) (err error) {
	for i := range z1 {
		z1[i] = 0
	}
	_, err = o.b11.Solve(z1, r1)
	return
}

// Apply computes z = P^{-1}*r; z and r are combined vectors
func (o *blockPc) Apply(z, r []float64) (err error) {

	n1 := o.s.H.Nu
	z1, z2 := z[:n1], z[n1:]
	r1, r2 := r[:n1], r[n1:]

	switch o.kind {

	case inp.PrecondNone:
		copy(z, r)
		return

	case inp.PrecondDiag:
		if err = o.vel(z1, r1); err != nil {
			return
		}
		return o.s.schur.Apply(z2, r2)

	case inp.PrecondLower:
		if err = o.vel(z1, r1); err != nil {
			return
		}
		o.s.H.U.MultVec(o.wp, z1)
		for c := range o.wp {
			o.wp[c] = r2[c] - o.wp[c]
		}
		return o.s.schur.Apply(z2, o.wp)

	case inp.PrecondUpper:
		if err = o.s.schur.Apply(z2, r2); err != nil {
			return
		}
		o.s.H.U.MultTranspVec(o.wu, z2)
		for i := range o.wu {
			o.wu[i] = r1[i] - o.wu[i]
		}
		return o.vel(z1, o.wu)

	case inp.PrecondSGS:
		// lower sweep, then refresh the velocity with the final pressure
		if err = o.vel(z1, r1); err != nil {
			return
		}
		o.s.H.U.MultVec(o.wp, z1)
		for c := range o.wp {
			o.wp[c] = r2[c] - o.wp[c]
		}
		if err = o.s.schur.Apply(z2, o.wp); err != nil {
			return
		}
		o.s.H.U.MultTranspVec(o.wu, z2)
		for i := range o.wu {
			o.wu[i] = r1[i] - o.wu[i]
		}
		return o.vel(z1, o.wu)

	case inp.PrecondUzawa:
		// lower sweep plus an incremental velocity correction
		if err = o.vel(z1, r1); err != nil {
			return
		}
		o.s.H.U.MultVec(o.wp, z1)
		for c := range o.wp {
			o.wp[c] = r2[c] - o.wp[c]
		}
		if err = o.s.schur.Apply(z2, o.wp); err != nil {
			return
		}
		o.s.H.U.MultTranspVec(o.wu, z2)
		du := make([]float64, n1)
		if err = o.vel(du, o.wu); err != nil {
			return
		}
		for i := range z1 {
			z1[i] -= du[i]
		}
		return
	}
	return chk.Err("%s: unhandled block preconditioner %v", o.s.Prms.GetName(), o.kind)
}

// matVec computes the combined saddle-point product y = M*x
func (o *Solver) matVec(y, x []float64) {
	n1 := o.H.Nu
	y1, y2 := y[:n1], y[n1:]
	x1, x2 := x[:n1], x[n1:]
	o.H.D.MatVec(y1, x1)
	o.H.U.MultTranspVec(o.matWu, x2)
	for i := range y1 {
		y1[i] += o.matWu[i]
	}
	o.H.U.MultVec(y2, x1)
}

// dot is the combined dot product, reduced over both spaces
func (o *Solver) dot(a, b []float64) float64 {
	n1 := o.H.Nu
	return o.H.RsetU.Dot(a[:n1], b[:n1]) + o.H.RsetP.Dot(a[n1:], b[n1:])
}

// combined residual r = [b1;b2] - M*[u;p]
func (o *Solver) combResidual(r, u, p, b1, b2 []float64) {
	n1 := o.H.Nu
	o.residual(r[:n1], r[n1:], u, p, b1, b2, o.matWu)
}

// solveGCR is a generalized conjugate residual on the two-block system,
// restarted after the stored directions are exhausted. The preconditioned
// directions and their images are kept as columns of two dense panels.
func (o *Solver) solveGCR(u, p, b1, b2 []float64) (nit int, err error) {

	ctx := o.Prms.Ctx.(*inp.KrylovCtx)
	nstored := ctx.Nstored
	n1, n := o.H.Nu, o.H.Nu+o.H.Np
	o.matWu = make([]float64, n1)

	pc := o.newBlockPc()

	// one stored direction per row: row views are contiguous
	zPanel := mat.NewDense(nstored, n, nil)
	cPanel := mat.NewDense(nstored, n, nil)

	x := make([]float64, n)
	copy(x[:n1], u)
	copy(x[n1:], p)
	r := make([]float64, n)
	z := make([]float64, n)
	c := make([]float64, n)

	o.combResidual(r, u, p, b1, b2)
	o.Algo.SetRes0(o.resNorm(r[:n1], r[n1:]))

	used := 0
	for o.Algo.Stat == Iterating {

		if err = pc.Apply(z, r); err != nil {
			return
		}
		o.matVec(c, z)

		// modified Gram-Schmidt against the stored images
		for i := 0; i < used; i++ {
			ci := cPanel.RawRowView(i)
			zi := zPanel.RawRowView(i)
			delta := o.dot(c, ci)
			for k := range c {
				c[k] -= delta * ci[k]
				z[k] -= delta * zi[k]
			}
		}

		nu := math.Sqrt(o.dot(c, c))
		if nu <= 0 {
			return o.Algo.Nit, chk.Err("%s: breakdown in GCR", o.Prms.GetName())
		}
		for k := range c {
			c[k] /= nu
			z[k] /= nu
		}
		zPanel.SetRow(used, z)
		cPanel.SetRow(used, c)
		used++
		if used == nstored {
			used = 0 // restart
		}

		alpha := o.dot(r, c)
		for k := range x {
			x[k] += alpha * z[k]
			r[k] -= alpha * c[k]
		}
		o.Algo.Update(o.resNorm(r[:n1], r[n1:]))
	}

	copy(u, x[:n1])
	copy(p, x[n1:])
	nit = o.Algo.Nit
	if o.Algo.Stat == Diverged {
		err = chk.Err("%s: GCR diverged after %d iterations (res=%g)", o.Prms.GetName(), nit, o.Algo.Res)
	}
	return
}

// solveMinres is a preconditioned MINRES on the two-block system. The
// selected block preconditioner must be symmetric positive definite for the
// short recurrence to hold, which in practice restricts the choice to the
// diagonal one.
func (o *Solver) solveMinres(u, p, b1, b2 []float64) (nit int, err error) {

	n1, n := o.H.Nu, o.H.Nu+o.H.Np
	o.matWu = make([]float64, n1)
	pc := o.newBlockPc()

	x := make([]float64, n)
	copy(x[:n1], u)
	copy(x[n1:], p)

	v := make([]float64, n)
	vOld := make([]float64, n)
	vNew := make([]float64, n)
	z := make([]float64, n)
	zNew := make([]float64, n)
	q := make([]float64, n)
	w := make([]float64, n)
	wOld := make([]float64, n)
	wNew := make([]float64, n)

	o.combResidual(v, u, p, b1, b2)
	if err = pc.Apply(z, v); err != nil {
		return
	}
	g2 := o.dot(z, v)
	if g2 < 0 {
		return 0, chk.Err("%s: the block preconditioner is not positive definite", o.Prms.GetName())
	}
	gamma := math.Sqrt(g2)
	gammaOld := 1.0

	o.Algo.SetRes0(gamma)
	eta := gamma
	s0, s1 := 0.0, 0.0
	c0, c1 := 1.0, 1.0

	for o.Algo.Stat == Iterating {

		for k := range z {
			z[k] /= gamma
		}
		o.matVec(q, z)
		delta := o.dot(q, z)

		for k := range vNew {
			vNew[k] = q[k] - (delta/gamma)*v[k] - (gamma/gammaOld)*vOld[k]
		}
		if err = pc.Apply(zNew, vNew); err != nil {
			return
		}
		g2 = o.dot(zNew, vNew)
		if g2 < 0 {
			return o.Algo.Nit, chk.Err("%s: the block preconditioner is not positive definite", o.Prms.GetName())
		}
		gammaNew := math.Sqrt(g2)

		alpha0 := c1*delta - c0*s1*gamma
		alpha1 := math.Sqrt(alpha0*alpha0 + gammaNew*gammaNew)
		alpha2 := s1*delta + c0*c1*gamma
		alpha3 := s0 * gamma
		if alpha1 <= 0 {
			return o.Algo.Nit, chk.Err("%s: breakdown in MINRES", o.Prms.GetName())
		}
		c0, c1 = c1, alpha0/alpha1
		s0, s1 = s1, gammaNew/alpha1

		for k := range wNew {
			wNew[k] = (z[k] - alpha3*wOld[k] - alpha2*w[k]) / alpha1
		}
		for k := range x {
			x[k] += c1 * eta * wNew[k]
		}
		eta = -s1 * eta

		vOld, v, vNew = v, vNew, vOld
		wOld, w, wNew = w, wNew, wOld
		z, zNew = zNew, z
		gammaOld, gamma = gamma, gammaNew

		o.Algo.Update(math.Abs(eta))
	}

	copy(u, x[:n1])
	copy(p, x[n1:])
	nit = o.Algo.Nit
	if o.Algo.Stat == Diverged {
		err = chk.Err("%s: MINRES diverged after %d iterations (res=%g)", o.Prms.GetName(), nit, o.Algo.Res)
	}
	return
}
