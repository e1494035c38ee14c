// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rheology implements phase dependent diffusion and dislocation creep of mantle rocks
package rheology

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/geodyn/gomelt/host"
	"gonum.org/v1/gonum/floats"
)

// Transitions holds an ordered list of phase transitions.
//  Phase i is the interval above transition i; there are N()+1 phases
type Transitions struct {
	Depths       []float64 // depth of each transition [m]; strictly increasing
	Temperatures []float64 // temperature at which Depths apply [K]
	Slopes       []float64 // Clapeyron slopes [Pa/K]
	Widths       []float64 // half widths used to detect crossings [m]
	Phases       []string  // name of the phase below each transition
	RefDensity   float64   // density converting slopes into depth when no adiabat is available [kg/m³]
}

// State holds the point data needed to locate phases
type State struct {
	X   []float64 // position
	Vel []float64 // velocity
	T   float64   // temperature
	P   float64   // pressure
}

// NewTransitions checks and returns a list of transitions.
//  widths and phases may be nil
func NewTransitions(depths, temperatures, slopes, widths []float64, phases []string, refDensity float64) (o *Transitions, err error) {
	n := len(depths)
	if widths == nil {
		widths = make([]float64, n)
	}
	if phases == nil {
		phases = make([]string, n)
	}
	if len(temperatures) != n || len(slopes) != n || len(widths) != n || len(phases) != n {
		return nil, chk.Err("at least one list that gives input parameters for the phase transitions has the wrong size: depths=%d temperatures=%d slopes=%d widths=%d phases=%d",
			n, len(temperatures), len(slopes), len(widths), len(phases))
	}
	for i := 1; i < n; i++ {
		if depths[i] <= depths[i-1] {
			return nil, chk.Err("phase transition depths must be strictly increasing: %g follows %g", depths[i], depths[i-1])
		}
	}
	if n > 0 && refDensity <= 0 {
		return nil, chk.Err("reference density of phase transitions must be positive; %g is invalid", refDensity)
	}
	return &Transitions{depths, temperatures, slopes, widths, phases, refDensity}, nil
}

// N returns the number of transitions
func (o *Transitions) N() int {
	if o == nil {
		return 0
	}
	return len(o.Depths)
}

// Pressure returns the adiabatic pressure at transition k
func (o *Transitions) Pressure(ctx *host.Context, k int) float64 {
	return ctx.Adiabat.Pressure(ctx.Geometry.RepresentativePoint(o.Depths[k]))
}

// Deviation returns the pressure deviation from transition k corrected by the Clapeyron slope
func (o *Transitions) Deviation(ctx *host.Context, k int, T, p float64) float64 {
	return p - o.Pressure(ctx, k) - o.Slopes[k]*(T-o.Temperatures[k])
}

// PhaseFunction returns 1 if the material at x has undergone transition k and 0 otherwise.
//  Without an adiabat, the depth deviation is used
func (o *Transitions) PhaseFunction(ctx *host.Context, k int, x []float64, T, p float64) float64 {
	if ctx.AdiabatReady() {
		if o.Deviation(ctx, k, T, p) > 0 {
			return 1
		}
		return 0
	}
	depth := ctx.Geometry.Depth(x)
	var dev float64
	if p > 0 {
		dev = depth - o.Depths[k] - o.Slopes[k]*(depth/p)*(T-o.Temperatures[k])
	} else {
		dev = depth - o.Depths[k] - o.Slopes[k]/(host.Magnitude(ctx.Gravity, x)*o.RefDensity)*(T-o.Temperatures[k])
	}
	if dev > 0 {
		return 1
	}
	return 0
}

// PhaseIndex returns the index of the phase at x
func (o *Transitions) PhaseIndex(ctx *host.Context, x []float64, T, p float64) (idx int) {
	n := o.N()
	if n > 0 && o.PhaseFunction(ctx, n-1, x, T, p) == 1 {
		idx = n
	}
	for j := 1; j < n; j++ {
		if o.PhaseFunction(ctx, j, x, T, p) != o.PhaseFunction(ctx, j-1, x, T, p) {
			idx = j
		}
	}
	return
}

// ThermodynamicPhase returns the index of the deepest transition passed at (T, p).
//  Requires the adiabat
func (o *Transitions) ThermodynamicPhase(ctx *host.Context, T, p float64) (idx int) {
	for k := 0; k < o.N(); k++ {
		if o.Deviation(ctx, k, T, p) > 0 {
			idx = k + 1
		}
	}
	return
}

// Crossed returns the transition crossed by point i within this time step, or -1.
//  With the adiabat, the point must lie within the transition width and move
//  towards the side it is on. Otherwise, the point is compared with all other
//  points in pts: a transition is crossed if both lie in different phases and
//  i moves away from j along gravity
func (o *Transitions) Crossed(ctx *host.Context, pts []State, i int) (crossed int) {
	crossed = -1
	pi := pts[i]
	g := ctx.Gravity.Vector(pi.X)
	vg := 0.0
	if pi.Vel != nil {
		vg = floats.Dot(pi.Vel, g)
	}
	if ctx.AdiabatReady() {
		for k := 0; k < o.N(); k++ {
			plus := ctx.Geometry.RepresentativePoint(o.Depths[k] + o.Widths[k])
			minus := ctx.Geometry.RepresentativePoint(o.Depths[k] - o.Widths[k])
			width := 0.5 * (ctx.Adiabat.Pressure(plus) - ctx.Adiabat.Pressure(minus))
			dev := o.Deviation(ctx, k, pi.T, pi.P)
			if math.Abs(dev) < width && vg*dev > 0 {
				crossed = k
			}
		}
		return
	}
	dx := make([]float64, len(pi.X))
	for _, pj := range pts {
		floats.SubTo(dx, pi.X, pj.X)
		for k := 0; k < o.N(); k++ {
			if o.PhaseFunction(ctx, k, pi.X, pi.T, pi.P) != o.PhaseFunction(ctx, k, pj.X, pj.T, pj.P) &&
				vg*floats.Dot(dx, g) > 0 {
				crossed = k
			}
		}
	}
	return
}
