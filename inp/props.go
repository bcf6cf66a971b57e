// Copyright 2026 The Gosaturne Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// FlowProps holds the physical properties and time-stepping data needed to
// scale the pressure-mass approximation of the Schur complement
type FlowProps struct {
	Rho0         float64 `json:"rho0"`   // reference mass density
	Visc0        float64 `json:"visc0"`  // reference kinematic viscosity
	Steady       bool    `json:"steady"` // steady computation
	Dt           float64 `json:"dt"`     // current time-step size (unsteady case)
	PressureDiag float64 `json:"pdiag"`  // optional coefficient added on the pressure diagonal
}

// SchurScaling returns the scaling coefficient in front of the inverse of
// the pressure-mass matrix when approximating the Schur complement
func (o *FlowProps) SchurScaling() float64 {
	if o.Steady {
		return o.Rho0 * 0.01 * o.Visc0
	}
	return o.Rho0 / o.Dt
}
