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

// Linear implements a linearised melting law with a depletion dependent solidus
//
//   Ts = Ts0 + ΔTp p + max(ΔTd dep, -200)
//   Tl = Ts + 500
//   F  = (T - Ts) / (Tl - Ts)
//
type Linear struct {
	SurfaceSolidus  float64 // solidus at zero pressure [K]
	PressureChange  float64 // solidus change with pressure [K/Pa]
	DepletionChange float64 // solidus change for a depletion of 100% [K]
}

// interval between solidus and liquidus [K]
const linearInterval = 500.0

// add model to factory
func init() {
	allocators["linear"] = func() Model { return NewLinear() }
}

// NewLinear returns a model with default coefficients
func NewLinear() *Linear {
	return &Linear{SurfaceSolidus: 1300, PressureChange: 6e-8, DepletionChange: 200}
}

// Init initialises model
func (o *Linear) Init(prms dbf.Params) (err error) {
	*o = *NewLinear()
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "surface solidus", "ts0":
			o.SurfaceSolidus = p.V
		case "pressure solidus change", "dtp":
			o.PressureChange = p.V
		case "depletion solidus change", "dtd":
			o.DepletionChange = p.V
		default:
			return chk.Err("linear: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Linear) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "surface solidus", V: 1300},
		&dbf.P{N: "pressure solidus change", V: 6e-8},
		&dbf.P{N: "depletion solidus change", V: 200},
	}
}

// Solidus returns the solidus temperature of material with depletion dep
func (o Linear) Solidus(p, dep float64) float64 {
	return o.SurfaceSolidus + o.PressureChange*p + math.Max(o.DepletionChange*dep, -200)
}

// FractionDepleted computes the melt fraction of material with depletion dep
func (o Linear) FractionDepleted(T, p, dep float64) float64 {
	Ts := o.Solidus(p, dep)
	switch {
	case T < Ts:
		return 0
	case T > Ts+linearInterval:
		return 1
	}
	return (T - Ts) / linearInterval
}

// Fraction computes the melt fraction of undepleted material
func (o Linear) Fraction(T, p float64) float64 {
	return o.FractionDepleted(T, p, 0)
}

// Derivs computes ∂F/∂T and ∂F/∂p of undepleted material
func (o Linear) Derivs(T, p float64) (dFdT, dFdp float64) {
	Ts := o.Solidus(p, 0)
	if T > Ts && T < Ts+linearInterval {
		return 1 / linearInterval, -o.PressureChange / linearInterval
	}
	return
}
