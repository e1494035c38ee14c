// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/melting"
	"github.com/geodyn/gomelt/mdl/param"
	"gonum.org/v1/gonum/floats"
)

// PeridotiteEclogite implements melting of peridotite after [1] on top of DiffusionDislocation.
//  The peridotite field holds the maximum melt fraction reached so far
type PeridotiteEclogite struct {
	DiffusionDislocation

	// parameters
	RhoS                   float64 // reference solid density [kg/m³]
	RhoF                   float64 // reference melt density [kg/m³]
	Tref                   float64 // reference temperature [K]
	Eta0                   float64 // reference shear viscosity [Pa s]
	Xi0                    float64 // reference bulk viscosity [Pa s]
	EtaF                   float64 // melt viscosity [Pa s]
	AlphaPhi               float64 // exponential melt weakening factor
	ThermalViscExp         float64 // thermal viscosity exponent
	ThermalBulkViscExp     float64 // thermal bulk viscosity exponent
	K                      float64 // thermal conductivity [W/m/K]
	Cp                     float64 // specific heat [J/kg/K]
	Alpha                  float64 // thermal expansivity [1/K]
	K0                     float64 // reference permeability [m²]
	KappaS                 float64 // solid compressibility [1/Pa]
	KappaF                 float64 // melt compressibility [1/Pa]
	BulkModulusDeriv       float64 // melt bulk modulus derivative
	FullCompressibility    bool    // model is compressible
	Fractional             bool    // fractional instead of batch melting
	FreezingRate           float64 // [1/yr]
	DeltaRhoDepletion      float64 // density change per unit depletion [kg/m³]
	DeltaRhoLithosphere    float64 // density change per unit lithosphere [kg/m³]
	DepletionSolidusChange float64 // solidus increase per unit depletion [K]

	// auxiliary
	Melting  *melting.Katz // melting law
	porosity int           // index of porosity field or -1
	peridot  int           // index of peridotite field or -1
	litho    int           // index of lithosphere field or -1
}

// add model to factory
func init() {
	allocators["melt peridotite eclogite"] = func() Model { return new(PeridotiteEclogite) }
}

// Init initialises model
func (o *PeridotiteEclogite) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	o.RhoS, o.RhoF, o.Tref = 3000, 2500, 293
	o.Eta0, o.Xi0, o.EtaF, o.AlphaPhi = 5e20, 1e22, 10, 27
	o.K, o.Cp, o.Alpha, o.K0 = 4.7, 1250, 2e-5, 1e-8
	o.DepletionSolidusChange = 200
	o.Melting = melting.NewKatz()
	kp, rest := subset(prms, o.Melting.GetPrms(false))
	if err = o.Melting.Init(kp); err != nil {
		return
	}
	mine, rest := subset(rest, o.own())
	if rest, err = o.DiffusionDislocation.init("melt peridotite eclogite", rest); err != nil {
		return
	}
	if len(rest) > 0 {
		return param.Unknown("melt peridotite eclogite", rest[0].N)
	}
	for _, p := range mine {
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
		case "thermal bulk viscosity exponent":
			o.ThermalBulkViscExp = p.V
		case "thermal conductivity":
			o.K = p.V
		case "reference specific heat":
			o.Cp = p.V
		case "thermal expansion coefficient":
			o.Alpha = p.V
		case "reference permeability":
			o.K0 = p.V
		case "solid compressibility":
			o.KappaS = p.V
		case "melt compressibility":
			o.KappaF = p.V
		case "melt bulk modulus derivative":
			o.BulkModulusDeriv = p.V
		case "use full compressibility":
			o.FullCompressibility = param.Bool(p)
		case "use fractional melting":
			o.Fractional = param.Bool(p)
		case "freezing rate":
			o.FreezingRate = p.V
		case "depletion density change":
			o.DeltaRhoDepletion = p.V
		case "lithosphere density change":
			o.DeltaRhoLithosphere = p.V
		case "depletion solidus change":
			o.DepletionSolidusChange = p.V
		default:
			return param.Unknown("melt peridotite eclogite", p.N)
		}
	}
	if ctx.MeltTransport {
		if err = requireFields(ctx, "melt peridotite eclogite", Porosity, Peridotite); err != nil {
			return
		}
	}
	o.porosity, o.peridot = fieldIndex(ctx, Porosity), fieldIndex(ctx, Peridotite)
	o.litho = fieldIndex(ctx, Lithosphere)
	return
}

// GetPrms gets (an example) of parameters
func (o PeridotiteEclogite) GetPrms(example bool) dbf.Params {
	own := o.own()
	_, base := subset(o.DiffusionDislocation.GetPrms(example), own)
	res := append(base, own...)
	return append(res, melting.NewKatz().GetPrms(example)...)
}

// own returns the parameters of the melt part; they take precedence over the creep parameters
func (o PeridotiteEclogite) own() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "reference solid density", V: 3000},
		&dbf.P{N: "reference melt density", V: 2500},
		&dbf.P{N: "reference temperature", V: 293},
		&dbf.P{N: "reference shear viscosity", V: 5e20},
		&dbf.P{N: "reference bulk viscosity", V: 1e22},
		&dbf.P{N: "reference melt viscosity", V: 10},
		&dbf.P{N: "exponential melt weakening factor", V: 27},
		&dbf.P{N: "thermal viscosity exponent", V: 0},
		&dbf.P{N: "thermal bulk viscosity exponent", V: 0},
		&dbf.P{N: "thermal conductivity", V: 4.7},
		&dbf.P{N: "reference specific heat", V: 1250},
		&dbf.P{N: "thermal expansion coefficient", V: 2e-5},
		&dbf.P{N: "reference permeability", V: 1e-8},
		&dbf.P{N: "solid compressibility", V: 0},
		&dbf.P{N: "melt compressibility", V: 0},
		&dbf.P{N: "melt bulk modulus derivative", V: 0},
		&dbf.P{N: "use full compressibility", V: 0},
		&dbf.P{N: "use fractional melting", V: 0},
		&dbf.P{N: "freezing rate", V: 0},
		&dbf.P{N: "depletion density change", V: 0},
		&dbf.P{N: "lithosphere density change", V: 0},
		&dbf.P{N: "depletion solidus change", V: 200},
	}
}

// Compressible returns whether full compressibility is used
func (o *PeridotiteEclogite) Compressible() bool { return o.FullCompressibility }

// RefViscosity returns η0
func (o *PeridotiteEclogite) RefViscosity() float64 { return o.Eta0 }

// RefDensity returns ρ_s
func (o *PeridotiteEclogite) RefDensity() float64 { return o.RhoS }

// ReferenceDarcyCoefficient returns k(φ=0.01) / η_f
func (o *PeridotiteEclogite) ReferenceDarcyCoefficient() float64 { return darcy(o.K0, o.EtaF) }

// MeltFractions computes the equilibrium melt fraction of each point
func (o *PeridotiteEclogite) MeltFractions(in *Inputs, res []float64) {
	for i := range res {
		res[i] = o.Melting.Fraction(in.Temperature[i], math.Max(0, in.Pressure[i]))
	}
}

// EvaluateWithMelt evaluates all properties including melt outputs
func (o *PeridotiteEclogite) EvaluateWithMelt(in *Inputs, out *Outputs) {
	evaluateWithMelt(o.ctx, o, in, out)
}

// tempDependence returns 1 - α (T - T0)
func (o *PeridotiteEclogite) tempDependence(x []float64, T float64) float64 {
	return 1 - (T-refTemperature(o.ctx, x, o.Tref))*o.Alpha
}

// melting computes the melting rate of point i
func (o *PeridotiteEclogite) melting(in *Inputs, i int, oldPorosity, maxF float64) (rate float64) {
	ctx := o.ctx
	T, comp := in.Temperature[i], in.Composition[i]
	pad := adiabaticPressure(ctx, in.Position[i], in.Pressure[i])
	F := o.Melting.Fraction(T, pad)
	if o.Fractional {
		ΔT := (comp[o.peridot] - comp[o.porosity]) * o.DepletionSolidusChange
		rate = o.Melting.Fraction(T-ΔT, pad) - oldPorosity
	} else if ctx.TimestepNumber > 0 {
		rate = F - math.Max(maxF, 0)
	}

	// freezing below the solidus
	potential := F - oldPorosity
	rate += o.FreezingRate * ctx.Timestep / host.YearInSeconds * 0.5 * (potential - math.Abs(potential))
	return ClampMelting(oldPorosity, rate)
}

// Evaluate computes properties
func (o *PeridotiteEclogite) Evaluate(in *Inputs, out *Outputs) {
	o.DiffusionDislocation.Evaluate(in, out)
	ctx := o.ctx
	oldPorosity := make([]float64, in.N())
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		x, p, comp := in.Position[i], in.Pressure[i], in.Composition[i]
		rho := o.RhoS
		if o.peridot >= 0 {
			rho += o.DeltaRhoDepletion * comp[o.peridot]
		}
		if o.litho >= 0 {
			rho += o.DeltaRhoLithosphere * comp[o.litho]
		}
		out.Density[i] = rho * o.tempDependence(x, in.Temperature[i]) * math.Exp(o.KappaS*(p-ctx.SurfacePressure))

		if ctx.MeltTransport {
			oldPorosity[i] = oldField(ctx, in, i, o.porosity)
			maxF := oldField(ctx, in, i, o.peridot)
			rate := o.melting(in, i, oldPorosity[i], maxF)
			for c := range change {
				change[c] = 0
			}
			if ctx.TimestepNumber > 0 && in.StrainRate != nil && ctx.Timestep > 0 {
				// depletion is advected by volume
				out.ReactionTerms[i][o.peridot] = rate * (1 - maxF) / (1 - maxF)
				out.ReactionTerms[i][o.porosity] = rate * out.Density[i] / ctx.Timestep
			}
			change[o.peridot], change[o.porosity] = out.ReactionTerms[i][o.peridot], rate
			applySplitting(ctx, out, i, change)
			if in.StrainRate != nil {
				out.Viscosity[i] *= math.Exp(-o.AlphaPhi * clamp01(comp[o.porosity]))
			}
		}
		out.Compressibility[i] = o.KappaS
	}
	if out.Melt == nil || o.porosity < 0 {
		return
	}
	const φ0 = 0.05
	for i := 0; i < in.N(); i++ {
		x, T, p := in.Position[i], in.Temperature[i], in.Pressure[i]
		φ := math.Max(in.Composition[i][o.porosity], 0)
		out.Melt.FluidViscosity[i] = o.EtaF
		out.Melt.Permeability[i] = 0
		if oldPorosity[i] > ctx.MeltTransportThreshold {
			out.Melt.Permeability[i] = permeability(o.K0, φ)
		}
		βf := o.KappaF / (1 + p*o.BulkModulusDeriv*o.KappaF)
		ρf := o.RhoF * math.Exp(βf*(p-ctx.SurfacePressure)) * o.tempDependence(x, T)
		out.Melt.FluidDensity[i] = ρf
		out.Melt.FluidCompressibility[i] = βf
		copy(out.Melt.FluidDensityGradient[i], ctx.Gravity.Vector(x))
		floats.Scale(ρf*ρf*βf, out.Melt.FluidDensityGradient[i])
		φ = math.Max(math.Min(φ, 0.995), 1e-3)
		out.Melt.CompactionViscosity[i] = o.Xi0 * φ0 / φ
		if in.StrainRate != nil {
			out.Melt.CompactionViscosity[i] *= out.Viscosity[i] / (o.Eta0 * math.Exp(-o.AlphaPhi*φ))
		}
	}
}
