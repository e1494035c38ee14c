// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/interp"
)

// Adiabat is the adiabatic reference profile
type Adiabat interface {
	Initialized() bool               // profile is available
	Pressure(x []float64) float64    // adiabatic pressure at x
	Temperature(x []float64) float64 // adiabatic temperature at x
}

// Profile is an adiabatic profile tabulated in depth
type Profile struct {
	Geometry Geometry // converts positions to depths

	// data
	depths []float64
	press  interp.PiecewiseLinear
	temp   interp.PiecewiseLinear
	ready  bool
}

// NewProfile fits a profile to tabulated values; depths must increase
func NewProfile(geo Geometry, depths, pressures, temperatures []float64) (o *Profile, err error) {
	if len(depths) < 2 || len(pressures) != len(depths) || len(temperatures) != len(depths) {
		return nil, chk.Err("adiabatic profile requires at least two depths and one pressure and temperature per depth")
	}
	o = &Profile{Geometry: geo, depths: depths}
	err = o.press.Fit(depths, pressures)
	if err != nil {
		return nil, chk.Err("cannot fit adiabatic pressure: %v", err)
	}
	err = o.temp.Fit(depths, temperatures)
	if err != nil {
		return nil, chk.Err("cannot fit adiabatic temperature: %v", err)
	}
	o.ready = true
	return
}

// NewLinearProfile computes a profile down to maxDepth with n points.
//  p(z) = p0 + ρ g z
//  T(z) = T0 exp(α g z / cp)
func NewLinearProfile(geo Geometry, p0, T0, rho, g, alpha, cp, maxDepth float64, n int) (*Profile, error) {
	if n < 2 {
		n = 2
	}
	z := utl.LinSpace(0, maxDepth, n)
	p := make([]float64, n)
	T := make([]float64, n)
	for i, d := range z {
		p[i] = p0 + rho*g*d
		T[i] = T0 * math.Exp(alpha*g*d/cp)
	}
	return NewProfile(geo, z, p, T)
}

// Initialized tells whether the profile has been fitted
func (o *Profile) Initialized() bool {
	return o != nil && o.ready
}

// Pressure returns the adiabatic pressure at x
func (o *Profile) Pressure(x []float64) float64 {
	return o.press.Predict(o.depth(x))
}

// Temperature returns the adiabatic temperature at x
func (o *Profile) Temperature(x []float64) float64 {
	return o.temp.Predict(o.depth(x))
}

// depth returns the depth of x clamped into the tabulated range
func (o *Profile) depth(x []float64) float64 {
	d := o.Geometry.Depth(x)
	return math.Min(math.Max(d, o.depths[0]), o.depths[len(o.depths)-1])
}
