// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rheology

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/geodyn/gomelt/host"
)

// constants
const (
	GasConstant   = 8.314462 // [J/K/mol]
	MinStrainRate = 1e-30    // second invariant below which only diffusion creep acts [1/s]
)

// FlowLaw holds the parameters of a power law creep mechanism
//
//   η = A^(-1/n) ε̇^((1-n)/n) d^(m/n) exp((E + p V) / (n R T))
//
type FlowLaw struct {
	A float64 // prefactor
	N float64 // stress exponent
	E float64 // activation energy [J/mol]
	V float64 // activation volume [m³/mol]
	M float64 // grain size exponent (zero for dislocation creep)
}

// Energy returns exp((E + p V) / (n R T))
func (o FlowLaw) Energy(T, p float64) float64 {
	return math.Exp((o.E + o.V*p) / (o.N * GasConstant * T))
}

// Viscosity returns the viscosity for strain rate edot, grain size d and energy term
func (o FlowLaw) Viscosity(edot, d, energy float64) float64 {
	eta := math.Pow(o.A, -1/o.N) * math.Pow(edot, (1-o.N)/o.N) * energy
	if o.M != 0 {
		eta *= math.Pow(d, o.M/o.N)
	}
	return eta
}

// Viscosities holds the result of a rheology evaluation
type Viscosities struct {
	Effective   float64 // combined viscosity
	Diffusion   float64 // diffusion creep viscosity
	Dislocation float64 // dislocation creep viscosity
}

// DislocationRate returns the part of edot accommodated by dislocation creep
func (o Viscosities) DislocationRate(edot float64) float64 {
	if o.Dislocation == 0 || math.IsInf(o.Dislocation, 1) {
		return 0
	}
	return edot * o.Effective / o.Dislocation
}

// Harmonic combines two viscosities acting in parallel
func Harmonic(a, b float64) float64 {
	return a * b / (a + b)
}

// Evaluator computes phase dependent creep viscosities
type Evaluator struct {
	Trans       *Transitions // phase transitions; may be nil
	Diffusion   []FlowLaw    // diffusion creep per phase
	Dislocation []FlowLaw    // dislocation creep per phase
	MaxTempDep  float64      // maximum temperature dependence of viscosity relative to the adiabat
	Tol         float64      // relative tolerance of the dislocation strain rate iterations
	MaxIt       int          // maximum number of iterations
}

// NewEvaluator checks and returns a new evaluator
func NewEvaluator(trans *Transitions, diffusion, dislocation []FlowLaw, maxTempDep float64) (o *Evaluator, err error) {
	n := trans.N() + 1
	if len(diffusion) != n || len(dislocation) != n {
		return nil, chk.Err("the lists of flow law parameters need to have exactly one entry more than the number of phase transitions (%d): diffusion=%d dislocation=%d",
			n, len(diffusion), len(dislocation))
	}
	for i := 0; i < n; i++ {
		if diffusion[i].A <= 0 || diffusion[i].N <= 0 || dislocation[i].A <= 0 || dislocation[i].N <= 0 {
			return nil, chk.Err("creep prefactors and exponents must be positive (phase %d)", i)
		}
	}
	if maxTempDep < 1 {
		return nil, chk.Err("maximum temperature dependence of viscosity must be at least 1; %g is invalid", maxTempDep)
	}
	return &Evaluator{trans, diffusion, dislocation, maxTempDep, 1e-3, 100}, nil
}

// Phase returns the adiabatic pressure at x (or p if there is no adiabat) and the phase index
func (o *Evaluator) Phase(ctx *host.Context, x []float64, T, p float64) (pad float64, phase int) {
	pad = p
	if ctx.AdiabatReady() {
		pad = ctx.Adiabat.Pressure(x)
	}
	if o.Trans != nil {
		phase = o.Trans.PhaseIndex(ctx, x, T, pad)
	}
	return
}

// energy returns the energy term of law clamped against the adiabat
func (o *Evaluator) energy(ctx *host.Context, law FlowLaw, x []float64, T, pad float64) float64 {
	e := law.Energy(T, pad)
	if !ctx.AdiabatReady() {
		return e
	}
	ead := law.Energy(ctx.Adiabat.Temperature(x), pad)
	return math.Min(math.Max(e, ead/o.MaxTempDep), ead*o.MaxTempDep)
}

// DiffusionViscosity returns the diffusion creep viscosity for grain size d
func (o *Evaluator) DiffusionViscosity(ctx *host.Context, x []float64, T, p, d, edot float64) float64 {
	pad, phase := o.Phase(ctx, x, T, p)
	law := o.Diffusion[phase]
	return law.Viscosity(edot, d, o.energy(ctx, law, x, T, pad))
}

// DislocationViscosity returns the dislocation creep viscosity for the dislocation strain rate edis
func (o *Evaluator) DislocationViscosity(ctx *host.Context, x []float64, T, p, edis float64) float64 {
	pad, phase := o.Phase(ctx, x, T, p)
	law := o.Dislocation[phase]
	return law.Viscosity(edis, 0, o.energy(ctx, law, x, T, pad))
}

// Viscosity computes the effective viscosity for grain size d and strain rate invariant edot.
//  The dislocation viscosity is found by iterating on the share of edot taken
//  by dislocation creep until it changes by less than Tol. Below MinStrainRate
//  the effective viscosity equals the diffusion viscosity
func (o *Evaluator) Viscosity(ctx *host.Context, x []float64, T, p, d, edot float64) (res Viscosities) {
	pad, phase := o.Phase(ctx, x, T, p)
	diff, disl := o.Diffusion[phase], o.Dislocation[phase]
	res.Diffusion = diff.Viscosity(edot, d, o.energy(ctx, diff, x, T, pad))
	if math.Abs(edot) <= MinStrainRate {
		res.Effective = res.Diffusion
		res.Dislocation = math.Inf(1)
		return
	}
	e := o.energy(ctx, disl, x, T, pad)
	eta := disl.Viscosity(edot, 0, e)
	for it := 0; it < o.MaxIt; it++ {
		edis := res.Diffusion / (res.Diffusion + eta) * edot
		next := disl.Viscosity(edis, 0, e)
		converged := math.Abs(next-eta) <= o.Tol*eta
		eta = next
		if converged {
			break
		}
	}
	res.Dislocation = eta
	res.Effective = Harmonic(res.Dislocation, res.Diffusion)
	return
}
