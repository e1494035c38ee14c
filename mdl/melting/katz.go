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

// Katz implements anhydrous melting of peridotite after [1].
//
//   Ts   = A1 + 273.15 + A2 p + A3 p²   solidus
//   Tlh  = B1 + 273.15 + B2 p + B3 p²   lherzolite liquidus
//   Tliq = C1 + 273.15 + C2 p + C3 p²   liquidus
//
//   F = ((T - Ts) / (Tlh - Ts))^β                          while cpx remains
//   F = Fmax + (1 - Fmax) ((T - Tmax) / (Tliq - Tmax))^β    after cpx is exhausted
//
type Katz struct {
	A1, A2, A3 float64 // solidus coefficients [°C, °C/Pa, °C/Pa²]
	B1, B2, B3 float64 // lherzolite liquidus coefficients
	C1, C2, C3 float64 // liquidus coefficients
	R1, R2     float64 // cpx reaction coefficients [-, 1/Pa]
	Beta       float64 // melt fraction exponent
	Mcpx       float64 // mass fraction of clinopyroxene
}

// add model to factory
func init() {
	allocators["katz"] = func() Model { return NewKatz() }
}

// NewKatz returns a model with the coefficients of [1]
func NewKatz() *Katz {
	return &Katz{
		A1: 1085.7, A2: 1.329e-7, A3: -5.1e-18,
		B1: 1475.0, B2: 8.0e-8, B3: -3.2e-18,
		C1: 1780.0, C2: 4.5e-8, C3: -2.0e-18,
		R1: 0.5, R2: 8e-11,
		Beta: 1.5,
		Mcpx: 0.15,
	}
}

// Init initialises model
func (o *Katz) Init(prms dbf.Params) (err error) {
	*o = *NewKatz()
	for _, p := range prms {
		if !o.set(p) {
			return chk.Err("katz: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.Beta <= 0 {
		return chk.Err("katz: beta must be positive; %g is invalid", o.Beta)
	}
	return
}

// set sets one parameter; returns false if the name is unknown
func (o *Katz) set(p *dbf.P) bool {
	switch strings.ToLower(p.N) {
	case "a1":
		o.A1 = p.V
	case "a2":
		o.A2 = p.V
	case "a3":
		o.A3 = p.V
	case "b1":
		o.B1 = p.V
	case "b2":
		o.B2 = p.V
	case "b3":
		o.B3 = p.V
	case "c1":
		o.C1 = p.V
	case "c2":
		o.C2 = p.V
	case "c3":
		o.C3 = p.V
	case "r1":
		o.R1 = p.V
	case "r2":
		o.R2 = p.V
	case "beta":
		o.Beta = p.V
	case "mcpx":
		o.Mcpx = p.V
	default:
		return false
	}
	return true
}

// GetPrms gets (an example) of parameters
func (o Katz) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "A1", V: 1085.7},
		&dbf.P{N: "A2", V: 1.329e-7},
		&dbf.P{N: "A3", V: -5.1e-18},
		&dbf.P{N: "B1", V: 1475.0},
		&dbf.P{N: "B2", V: 8.0e-8},
		&dbf.P{N: "B3", V: -3.2e-18},
		&dbf.P{N: "C1", V: 1780.0},
		&dbf.P{N: "C2", V: 4.5e-8},
		&dbf.P{N: "C3", V: -2.0e-18},
		&dbf.P{N: "r1", V: 0.5},
		&dbf.P{N: "r2", V: 8e-11},
		&dbf.P{N: "beta", V: 1.5},
		&dbf.P{N: "Mcpx", V: 0.15},
	}
}

// Solidus returns the solidus temperature
func (o Katz) Solidus(p float64) float64 {
	T, _ := quadratic(o.A1, o.A2, o.A3, p)
	return T
}

// LherzLiquidus returns the lherzolite liquidus temperature
func (o Katz) LherzLiquidus(p float64) float64 {
	T, _ := quadratic(o.B1, o.B2, o.B3, p)
	return T
}

// Liquidus returns the liquidus temperature
func (o Katz) Liquidus(p float64) float64 {
	T, _ := quadratic(o.C1, o.C2, o.C3, p)
	return T
}

// CpxOut returns the melt fraction at which clinopyroxene is exhausted
func (o Katz) CpxOut(p float64) float64 {
	return o.Mcpx / (o.R1 + o.R2*math.Max(0, p))
}

// Fraction computes the equilibrium melt fraction
func (o Katz) Fraction(T, p float64) float64 {
	Ts, Tlh, Tliq := o.Solidus(p), o.LherzLiquidus(p), o.Liquidus(p)
	var F float64
	switch {
	case T < Ts || p > MaxPressure:
		F = 0
	case T > Tlh:
		F = 1
	default:
		F = math.Pow((T-Ts)/(Tlh-Ts), o.Beta)
	}
	Fmax := o.CpxOut(p)
	if F > Fmax && T < Tliq {
		Tmax := math.Pow(Fmax, 1/o.Beta)*(Tlh-Ts) + Ts
		F = Fmax + (1-Fmax)*math.Pow((T-Tmax)/(Tliq-Tmax), o.Beta)
	}
	return F
}

// Derivs computes ∂F/∂T and ∂F/∂p on the same branches as Fraction.
//  Both are zero outside solidus < T < liquidus and above MaxPressure
func (o Katz) Derivs(T, p float64) (dFdT, dFdp float64) {
	Ts, dTs := quadratic(o.A1, o.A2, o.A3, p)
	Tlh, dTlh := quadratic(o.B1, o.B2, o.B3, p)
	Tliq, dTliq := quadratic(o.C1, o.C2, o.C3, p)
	if !(T > Ts && T < Tliq && p <= MaxPressure) {
		return
	}

	// clinopyroxene present
	β := o.Beta
	x := (T - Ts) / (Tlh - Ts)
	dFdT = β * math.Pow(x, β-1) / (Tlh - Ts)
	dFdp = β * math.Pow(x, β-1) * (dTs*(T-Tlh) + dTlh*(Ts-T)) / math.Pow(Tlh-Ts, 2)

	// clinopyroxene exhausted
	Fmax := o.CpxOut(p)
	if o.Fraction(T, p) > Fmax {
		var dFmax float64
		if p > 0 {
			dFmax = -o.Mcpx * math.Pow(o.R1+o.R2*p, -2) * o.R2
		}
		Tmax := math.Pow(Fmax, 1/β)*(Tlh-Ts) + Ts
		dTmax := dTs + 1/β*math.Pow(Fmax, 1/β-1)*dFmax*(Tlh-Ts) + math.Pow(Fmax, 1/β)*(dTlh-dTs)
		y := (T - Tmax) / (Tliq - Tmax)
		dFdT = (1 - Fmax) * β * math.Pow(y, β-1) / (Tliq - Tmax)
		dFdp = dFmax - dFmax*math.Pow(y, β) +
			(1-Fmax)*β*math.Pow(y, β-1)*(dTmax*(Tmax-Tliq)-(dTliq-dTmax)*(T-Tmax))/math.Pow(Tliq-Tmax, 2)
	}
	return
}

// EntropyChange returns ΔS ∂F/∂T and ΔS ∂F/∂p for melting with entropy change ΔS.
//  Latent heat is only released while the melt fraction exceeds maxF
func (o Katz) EntropyChange(T, p, maxF, ΔS float64) (dSdT, dSdp float64) {
	if o.Fraction(T, p) < maxF {
		return
	}
	dFdT, dFdp := o.Derivs(T, p)
	return ΔS * dFdT, ΔS * dFdp
}
