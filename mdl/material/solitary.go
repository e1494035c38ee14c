// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/param"
	"gonum.org/v1/gonum/interp"
)

// SolitaryWave implements the constant-property material of the magmatic
// solitary wave benchmark. Matrix viscosities scale with (1-φ) and the
// permeability with φ³
type SolitaryWave struct {

	// parameters
	RhoS float64 // reference solid density [kg/m³]
	RhoF float64 // reference melt density [kg/m³]
	Eta0 float64 // reference shear viscosity [Pa s]
	Xi0  float64 // reference compaction viscosity [Pa s]
	EtaF float64 // melt viscosity [Pa s]
	K0   float64 // reference permeability [m²]

	// initial wave
	Amplitude  float64 // peak porosity
	Background float64 // background porosity
	Offset     float64 // vertical position of the peak [m]
	NumPoints  int     // number of points of the tabulated profile

	// auxiliary
	ctx      *host.Context
	porosity int // index of porosity
}

// add model to factory
func init() {
	allocators["solitary wave"] = func() Model { return new(SolitaryWave) }
}

// Init initialises model
func (o *SolitaryWave) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	o.RhoS, o.RhoF, o.Eta0, o.Xi0, o.EtaF, o.K0 = 3000, 2500, 1e20, 1e20, 100, 5e-9
	o.Amplitude, o.Background, o.Offset, o.NumPoints = 0.01, 0.001, 150, 10000
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "reference solid density":
			o.RhoS = p.V
		case "reference melt density":
			o.RhoF = p.V
		case "reference shear viscosity":
			o.Eta0 = p.V
		case "reference compaction viscosity":
			o.Xi0 = p.V
		case "reference melt viscosity":
			o.EtaF = p.V
		case "reference permeability":
			o.K0 = p.V
		case "amplitude":
			o.Amplitude = p.V
		case "background porosity":
			o.Background = p.V
		case "offset":
			o.Offset = p.V
		case "number of profile points":
			o.NumPoints = int(p.V)
		default:
			return param.Unknown("solitary wave", p.N)
		}
	}
	if o.Amplitude <= o.Background {
		return chk.Err("solitary wave: amplitude (%g) must be larger than the background porosity (%g)", o.Amplitude, o.Background)
	}
	if o.Background <= 0 {
		return chk.Err("solitary wave: background porosity must be positive; %g is invalid", o.Background)
	}
	if o.NumPoints < 2 {
		return chk.Err("solitary wave: at least 2 profile points are needed; %d is invalid", o.NumPoints)
	}
	o.porosity, err = ctx.Require("solitary wave", Porosity)
	return
}

// GetPrms gets (an example) of parameters
func (o SolitaryWave) GetPrms(example bool) dbf.Params {
	return dbf.Params{
		&dbf.P{N: "reference solid density", V: 3000},
		&dbf.P{N: "reference melt density", V: 2500},
		&dbf.P{N: "reference shear viscosity", V: 1e20},
		&dbf.P{N: "reference compaction viscosity", V: 1e20},
		&dbf.P{N: "reference melt viscosity", V: 100},
		&dbf.P{N: "reference permeability", V: 5e-9},
		&dbf.P{N: "amplitude", V: 0.01},
		&dbf.P{N: "background porosity", V: 0.001},
		&dbf.P{N: "offset", V: 150},
		&dbf.P{N: "number of profile points", V: 10000},
	}
}

// Compressible returns false
func (o *SolitaryWave) Compressible() bool { return false }

// RefViscosity returns η0
func (o *SolitaryWave) RefViscosity() float64 { return o.Eta0 }

// RefDensity returns ρ_s
func (o *SolitaryWave) RefDensity() float64 { return o.RhoS }

// ReferenceDarcyCoefficient returns k(φ=0.01) / η_f
func (o *SolitaryWave) ReferenceDarcyCoefficient() float64 {
	return o.K0 * math.Pow(0.01, 3) / o.EtaF
}

// LengthScaling returns the compaction length at porosity φ
//  δ = sqrt(k0 φ³ (ξ0 + 4/3 η0) / η_f)
func (o *SolitaryWave) LengthScaling(φ float64) float64 {
	return math.Sqrt(o.K0 * math.Pow(φ, 3) * (o.Xi0 + 4.0/3.0*o.Eta0) / o.EtaF)
}

// VelocityScaling returns the separation flux velocity at porosity φ
//  u = k0 φ² (ρ_s - ρ_f) |g| / η_f
func (o *SolitaryWave) VelocityScaling(φ float64) float64 {
	g := host.Magnitude(o.ctx.Gravity, o.ctx.Geometry.RepresentativePoint(0))
	return o.K0 * φ * φ * (o.RhoS - o.RhoF) * g / o.EtaF
}

// EvaluateWithMelt evaluates all properties including melt outputs
func (o *SolitaryWave) EvaluateWithMelt(in *Inputs, out *Outputs) {
	evaluateWithMelt(o.ctx, o, in, out)
}

// Evaluate computes properties
func (o *SolitaryWave) Evaluate(in *Inputs, out *Outputs) {
	for i := 0; i < in.N(); i++ {
		φ := in.Composition[i][o.porosity]
		out.Viscosity[i] = o.Eta0 * (1 - φ)
		out.Density[i] = o.RhoS
		out.Expansivity[i] = 0
		out.SpecificHeat[i] = 1
		out.Conductivity[i] = 0
		out.Compressibility[i] = 0
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
		}
	}
	if out.Melt == nil {
		return
	}
	for i := 0; i < in.N(); i++ {
		φ := in.Composition[i][o.porosity]
		out.Melt.CompactionViscosity[i] = o.Xi0 * (1 - φ)
		out.Melt.FluidViscosity[i] = o.EtaF
		out.Melt.Permeability[i] = o.K0 * math.Pow(φ, 3)
		out.Melt.FluidDensity[i] = o.RhoF
		out.Melt.FluidCompressibility[i] = 0
		for k := range out.Melt.FluidDensityGradient[i] {
			out.Melt.FluidDensityGradient[i][k] = 0
		}
	}
}

// Profile computes the porosity of the initial wave tabulated over distance from its peak
func (o *SolitaryWave) Profile() (*WaveProfile, error) {
	return NewWaveProfile(o.Amplitude, o.Background, o.Offset, o.LengthScaling(o.Background), o.NumPoints)
}

// WaveProfile holds the analytical shape of a one-dimensional solitary porosity wave
type WaveProfile struct {
	Background float64 // background porosity
	Offset     float64 // vertical position of the peak [m]
	MaxDist    float64 // distance beyond which the background porosity is returned [m]
	shape      interp.PiecewiseLinear
}

// waveDistance returns the scaled distance from the peak where the scaled
// porosity is φ for a wave of scaled amplitude A
func waveDistance(φ, A float64) float64 {
	a1 := math.Sqrt(A - 1)
	aφ := math.Sqrt(math.Max(A-φ, 0))
	return math.Sqrt(A+0.5) * (2*aφ - 1/a1*math.Log((a1-aφ)/(a1+aφ)))
}

// NewWaveProfile tabulates n points of the wave with peak porosity amplitude on top of
// background; distances are scaled by the compaction length delta
func NewWaveProfile(amplitude, background, offset, delta float64, n int) (o *WaveProfile, err error) {
	if amplitude <= background || background <= 0 {
		return nil, chk.Err("wave profile: amplitude (%g) must exceed a positive background porosity (%g)", amplitude, background)
	}
	if n < 2 {
		return nil, chk.Err("wave profile: at least 2 points are needed")
	}
	A := amplitude / background
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)

	// from the peak outwards so that distances increase
	for i := n - 1; i >= 0; i-- {
		φ := 1 + 1e-10*A + float64(i)/float64(n-1)*(A*(1-1e-10)-1)
		x := waveDistance(φ, A) * delta
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if len(xs) > 0 && x <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, φ*background)
	}
	if len(xs) < 2 {
		return nil, chk.Err("wave profile: could not tabulate the wave shape with %d points", n)
	}
	o = &WaveProfile{Background: background, Offset: offset, MaxDist: xs[len(xs)-1]}
	if err = o.shape.Fit(xs, ys); err != nil {
		return nil, chk.Err("wave profile: %v", err)
	}
	return
}

// Porosity returns the porosity at vertical coordinate z
func (o *WaveProfile) Porosity(z float64) float64 {
	x := math.Abs(z - o.Offset)
	if x >= o.MaxDist {
		return o.Background
	}
	return o.shape.Predict(x)
}
