// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package melting

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Sobolev implements melting of pyroxenite after [2].
//
//   Tm = D1 + 273.15 + D2 p + D3 p²
//   Δ  = E1² / (4 E2²) + (T - Tm) / E2
//   F  = -E1 / (2 E2) - sqrt(Δ)
//
//  F saturates at FpxMax once Δ < 0
type Sobolev struct {
	D1, D2, D3 float64 // melting temperature coefficients [°C, °C/Pa, °C/Pa²]
	E1, E2     float64 // melt fraction coefficients
	FpxMax     float64 // maximum melt fraction of pyroxenite
}

// add model to factory
func init() {
	allocators["sobolev"] = func() Model { return NewSobolev() }
}

// NewSobolev returns a model with the coefficients of [2]
func NewSobolev() *Sobolev {
	return &Sobolev{
		D1: 976.0, D2: 1.329e-7, D3: -5.1e-18,
		E1: 663.8, E2: -611.4,
		FpxMax: 0.5429,
	}
}

// Init initialises model
func (o *Sobolev) Init(prms dbf.Params) (err error) {
	*o = *NewSobolev()
	for _, p := range prms {
		if !o.set(p) {
			return chk.Err("sobolev: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.E2 == 0 {
		return chk.Err("sobolev: E2 must not be zero")
	}
	return
}

// set sets one parameter; returns false if the name is unknown
func (o *Sobolev) set(p *dbf.P) bool {
	switch strings.ToLower(p.N) {
	case "d1":
		o.D1 = p.V
	case "d2":
		o.D2 = p.V
	case "d3":
		o.D3 = p.V
	case "e1":
		o.E1 = p.V
	case "e2":
		o.E2 = p.V
	case "fpxmax", "maximum pyroxenite melt fraction":
		o.FpxMax = p.V
	default:
		return false
	}
	return true
}

// GetPrms gets (an example) of parameters
func (o Sobolev) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "D1", V: 976.0},
		&dbf.P{N: "D2", V: 1.329e-7},
		&dbf.P{N: "D3", V: -5.1e-18},
		&dbf.P{N: "E1", V: 663.8},
		&dbf.P{N: "E2", V: -611.4},
		&dbf.P{N: "FpxMax", V: 0.5429},
	}
}

// Melting returns the melting temperature of pyroxenite
func (o Sobolev) Melting(p float64) float64 {
	T, _ := quadratic(o.D1, o.D2, o.D3, p)
	return T
}

// discriminant returns Δ
func (o Sobolev) discriminant(T, Tm float64) float64 {
	return o.E1*o.E1/(o.E2*o.E2*4) + (T-Tm)/o.E2
}

// Fraction computes the melt fraction of pyroxenite
func (o Sobolev) Fraction(T, p float64) float64 {
	Tm := o.Melting(p)
	Δ := o.discriminant(T, Tm)
	switch {
	case T < Tm || p > MaxPressure:
		return 0
	case Δ < 0:
		return o.FpxMax
	}
	return -o.E1/(2*o.E2) - math.Sqrt(Δ)
}

// Derivs computes ∂F/∂T and ∂F/∂p; both vanish once F reaches FpxMax
func (o Sobolev) Derivs(T, p float64) (dFdT, dFdp float64) {
	Tm, dTm := quadratic(o.D1, o.D2, o.D3, p)
	if !(T > Tm && p <= MaxPressure) || o.Fraction(T, p) >= o.FpxMax {
		return
	}
	Δ := o.discriminant(T, Tm)
	if Δ <= 0 {
		return
	}
	dFdT = -1 / (2 * o.E2 * math.Sqrt(Δ))
	dFdp = dTm / (2 * o.E2 * math.Sqrt(Δ))
	return
}

// Lithology blends peridotite and pyroxenite melting by the pyroxenite fraction
type Lithology struct {
	Peridotite       *Katz    // peridotite melting
	Pyroxenite       *Sobolev // pyroxenite melting
	PeridotiteDeltaS float64  // entropy change of peridotite melting [J/kg/K]
	PyroxeniteDeltaS float64  // entropy change of pyroxenite melting [J/kg/K]
}

// NewLithology returns a blend with default laws and entropy changes
func NewLithology() *Lithology {
	return &Lithology{
		Peridotite:       NewKatz(),
		Pyroxenite:       NewSobolev(),
		PeridotiteDeltaS: 300,
		PyroxeniteDeltaS: 400,
	}
}

// Fraction returns (1-c) F_peridotite + c F_pyroxenite
func (o Lithology) Fraction(T, p, c float64) float64 {
	return (1-c)*o.Peridotite.Fraction(T, p) + c*o.Pyroxenite.Fraction(T, p)
}

// EntropyDerivs returns ∂S/∂T and ∂S/∂p of the blend
func (o Lithology) EntropyDerivs(T, p, c float64) (dSdT, dSdp float64) {
	dFdT, dFdp := o.Peridotite.Derivs(T, p)
	dXdT, dXdp := o.Pyroxenite.Derivs(T, p)
	dSdT = dFdT*o.PeridotiteDeltaS*(1-c) + dXdT*o.PyroxeniteDeltaS*c
	dSdp = dFdp*o.PeridotiteDeltaS*(1-c) + dXdp*o.PyroxeniteDeltaS*c
	return
}
