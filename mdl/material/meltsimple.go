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
	"github.com/geodyn/gomelt/mdl/melting"
	"github.com/geodyn/gomelt/mdl/param"
)

// MeltSimple implements a two-phase material with anhydrous peridotite melting after [1].
//  Porosity weakens the solid matrix as η = η0 exp(-α_φ φ) and melting
//  follows the equilibrium melt fraction at the adiabatic pressure
type MeltSimple struct {

	// parameters
	RhoS           float64 // reference solid density [kg/m³]
	RhoF           float64 // reference melt density [kg/m³]
	Tref           float64 // reference temperature [K]
	Eta0           float64 // reference shear viscosity [Pa s]
	Xi0            float64 // reference bulk viscosity [Pa s]
	EtaF           float64 // melt viscosity [Pa s]
	AlphaPhi       float64 // exponential melt weakening factor
	ThermalViscExp float64 // thermal viscosity exponent
	K              float64 // thermal conductivity [W/m/K]
	Cp             float64 // specific heat [J/kg/K]
	Alpha          float64 // thermal expansivity [1/K]
	K0             float64 // reference permeability [m²]
	DeltaS         float64 // peridotite melting entropy change [J/kg/K]

	// auxiliary
	ctx      *host.Context
	Melting  *melting.Katz // melting law
	porosity int           // index of porosity field or -1
	peridot  int           // index of peridotite field or -1
}

// add model to factory
func init() {
	allocators["melt simple"] = func() Model { return new(MeltSimple) }
}

// defaults sets default parameters
func (o *MeltSimple) defaults() {
	o.RhoS, o.RhoF, o.Tref = 3000, 2500, 293
	o.Eta0, o.Xi0, o.EtaF = 5e20, 1e22, 10
	o.AlphaPhi, o.ThermalViscExp = 27, 0
	o.K, o.Cp, o.Alpha, o.K0 = 4.7, 1250, 2e-5, 1e-8
	o.DeltaS = -300
}

// Init initialises model
func (o *MeltSimple) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.defaults()
	o.ctx = ctx
	o.Melting = melting.NewKatz()
	kp, rest := subset(prms, o.Melting.GetPrms(false))
	if err = o.Melting.Init(kp); err != nil {
		return
	}
	for _, p := range rest {
		switch strings.ToLower(p.N) {
		case "reference solid density":
			o.RhoS = p.V
		case "reference melt density":
			o.RhoF = p.V
		case "reference temperature":
			o.Tref = p.V
		case "reference shear viscosity":
			o.Eta0 = p.V
		case "reference bulk viscosity":
			o.Xi0 = p.V
		case "reference melt viscosity":
			o.EtaF = p.V
		case "exponential melt weakening factor":
			o.AlphaPhi = p.V
		case "thermal viscosity exponent":
			o.ThermalViscExp = p.V
		case "thermal conductivity":
			o.K = p.V
		case "reference specific heat":
			o.Cp = p.V
		case "thermal expansion coefficient":
			o.Alpha = p.V
		case "reference permeability":
			o.K0 = p.V
		case "peridotite melting entropy change":
			o.DeltaS = p.V
		default:
			return param.Unknown("melt simple", p.N)
		}
	}
	if o.ThermalViscExp != 0 && o.Tref == 0 {
		return chk.Err("melt simple: thermal viscosity exponent requires a non-zero reference temperature")
	}
	if ctx.MeltTransport {
		if err = requireFields(ctx, "melt simple", Porosity, Peridotite); err != nil {
			return
		}
	}
	o.porosity, o.peridot = fieldIndex(ctx, Porosity), fieldIndex(ctx, Peridotite)
	return
}

// GetPrms gets (an example) of parameters
func (o MeltSimple) GetPrms(example bool) dbf.Params {
	return append(dbf.Params{
		&dbf.P{N: "reference solid density", V: 3000},
		&dbf.P{N: "reference melt density", V: 2500},
		&dbf.P{N: "reference temperature", V: 293},
		&dbf.P{N: "reference shear viscosity", V: 5e20},
		&dbf.P{N: "reference bulk viscosity", V: 1e22},
		&dbf.P{N: "reference melt viscosity", V: 10},
		&dbf.P{N: "exponential melt weakening factor", V: 27},
		&dbf.P{N: "thermal viscosity exponent", V: 0},
		&dbf.P{N: "thermal conductivity", V: 4.7},
		&dbf.P{N: "reference specific heat", V: 1250},
		&dbf.P{N: "thermal expansion coefficient", V: 2e-5},
		&dbf.P{N: "reference permeability", V: 1e-8},
		&dbf.P{N: "peridotite melting entropy change", V: -300},
	}, melting.NewKatz().GetPrms(example)...)
}

// Compressible returns false
func (o *MeltSimple) Compressible() bool { return false }

// RefViscosity returns η0
func (o *MeltSimple) RefViscosity() float64 { return o.Eta0 }

// RefDensity returns ρ_s
func (o *MeltSimple) RefDensity() float64 { return o.RhoS }

// ReferenceDarcyCoefficient returns k(φ=0.01) / η_f
func (o *MeltSimple) ReferenceDarcyCoefficient() float64 { return darcy(o.K0, o.EtaF) }

// MeltFractions computes the equilibrium melt fraction of each point
func (o *MeltSimple) MeltFractions(in *Inputs, res []float64) {
	for i := range res {
		res[i] = o.Melting.Fraction(in.Temperature[i], math.Max(0, in.Pressure[i]))
	}
}

// EvaluateWithMelt evaluates all properties including melt outputs
func (o *MeltSimple) EvaluateWithMelt(in *Inputs, out *Outputs) {
	evaluateWithMelt(o.ctx, o, in, out)
}

// Evaluate computes properties
func (o *MeltSimple) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		x, T, p := in.Position[i], in.Temperature[i], in.Pressure[i]
		T0 := refTemperature(ctx, x, o.Tref)
		pad := adiabaticPressure(ctx, x, p)
		out.Density[i] = o.RhoS * (1 - o.Alpha*(T-T0))

		// reactions
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
			change[c] = 0
		}
		if ctx.MeltTransport {
			old := oldField(ctx, in, i, o.porosity)
			melt := ClampMelting(old, o.Melting.Fraction(T, pad)-old)
			if ctx.TimestepNumber > 0 && ctx.Timestep > 0 {
				out.ReactionTerms[i][o.peridot] = melt
				out.ReactionTerms[i][o.porosity] = melt * out.Density[i] / ctx.Timestep
			}
			change[o.peridot], change[o.porosity] = melt, melt
			applySplitting(ctx, out, i, change)
			out.Viscosity[i] = o.Eta0 * math.Exp(-o.AlphaPhi*clamp01(in.Composition[i][o.porosity]))
		} else {
			out.Viscosity[i] = o.Eta0
		}
		out.Viscosity[i] *= thermalFactor(o.ThermalViscExp, T, T0, 1e4)

		// latent heat of melting above the maximum melt fraction reached so far
		var maxF float64
		if o.peridot >= 0 {
			maxF = math.Max(in.Composition[i][o.peridot], 0)
		}
		out.EntropyDerivT[i], out.EntropyDerivP[i] = o.Melting.EntropyChange(T, pad, maxF, o.DeltaS)
		out.Expansivity[i] = o.Alpha
		out.SpecificHeat[i] = o.Cp
		out.Conductivity[i] = o.K
		out.Compressibility[i] = 0
	}
	if out.Melt == nil || o.porosity < 0 {
		return
	}
	for i := 0; i < in.N(); i++ {
		x, T := in.Position[i], in.Temperature[i]
		φ := math.Max(in.Composition[i][o.porosity], 0)
		T0 := refTemperature(ctx, x, o.Tref)
		out.Melt.FluidViscosity[i] = o.EtaF
		out.Melt.Permeability[i] = permeability(o.K0, φ)
		out.Melt.FluidDensity[i] = o.RhoF * (1 - o.Alpha*(T-T0))
		out.Melt.FluidCompressibility[i] = 0
		out.Melt.CompactionViscosity[i] = o.Xi0 * math.Exp(-o.AlphaPhi*φ) * thermalFactor(o.ThermalViscExp, T, T0, 1e4)
		for k := range out.Melt.FluidDensityGradient[i] {
			out.Melt.FluidDensityGradient[i][k] = 0
		}
	}
}
