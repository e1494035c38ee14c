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

// LatentHeatMelt implements a single-phase material that takes up latent heat
// when peridotite and pyroxenite melt. The first field is the pyroxenite fraction
type LatentHeatMelt struct {

	// parameters
	Rho            float64 // reference density [kg/m³]
	Tref           float64 // reference temperature [K]
	Eta            float64 // viscosity [Pa s]
	CompViscFactor float64 // viscosity prefactor of the first field
	ThermalViscExp float64 // thermal viscosity exponent
	K              float64 // thermal conductivity [W/m/K]
	Cp             float64 // specific heat [J/kg/K]
	Alpha          float64 // thermal expansivity of solid [1/K]
	AlphaMelt      float64 // thermal expansivity of melt [1/K]
	Kappa          float64 // compressibility [1/Pa]
	DeltaRho       float64 // density differential of the first field [kg/m³]
	RelMeltDensity float64 // melt density relative to solid

	// auxiliary
	ctx  *host.Context
	Lith *melting.Lithology // melting of both lithologies
}

// add model to factory
func init() {
	allocators["latent heat melt"] = func() Model { return new(LatentHeatMelt) }
}

// Init initialises model
func (o *LatentHeatMelt) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	o.Rho, o.Tref, o.Eta, o.CompViscFactor = 3300, 293, 5e24, 1
	o.K, o.Cp, o.Alpha, o.AlphaMelt = 2.38, 1250, 4e-5, 6.8e-5
	o.Kappa, o.RelMeltDensity = 5.124e-12, 0.9
	o.Lith = melting.NewLithology()
	kp, rest := subset(prms, o.Lith.Peridotite.GetPrms(false))
	if err = o.Lith.Peridotite.Init(kp); err != nil {
		return
	}
	sp, rest := subset(rest, o.Lith.Pyroxenite.GetPrms(false))
	if err = o.Lith.Pyroxenite.Init(sp); err != nil {
		return
	}
	for _, p := range rest {
		switch strings.ToLower(p.N) {
		case "reference density":
			o.Rho = p.V
		case "reference temperature":
			o.Tref = p.V
		case "viscosity":
			o.Eta = p.V
		case "composition viscosity prefactor":
			o.CompViscFactor = p.V
		case "thermal viscosity exponent":
			o.ThermalViscExp = p.V
		case "thermal conductivity":
			o.K = p.V
		case "reference specific heat":
			o.Cp = p.V
		case "thermal expansion coefficient":
			o.Alpha = p.V
		case "thermal expansion coefficient of melt":
			o.AlphaMelt = p.V
		case "compressibility":
			o.Kappa = p.V
		case "density differential for compositional field 1":
			o.DeltaRho = p.V
		case "peridotite melting entropy change":
			o.Lith.PeridotiteDeltaS = p.V
		case "pyroxenite melting entropy change":
			o.Lith.PyroxeniteDeltaS = p.V
		case "maximum pyroxenite melt fraction":
			o.Lith.Pyroxenite.FpxMax = p.V
		case "mass fraction cpx":
			o.Lith.Peridotite.Mcpx = p.V
		case "relative density of melt":
			o.RelMeltDensity = p.V
		default:
			return param.Unknown("latent heat melt", p.N)
		}
	}
	if o.ThermalViscExp != 0 && o.Tref == 0 {
		return chk.Err("latent heat melt: thermal viscosity exponent requires a non-zero reference temperature")
	}
	return
}

// GetPrms gets (an example) of parameters
func (o LatentHeatMelt) GetPrms(example bool) dbf.Params {
	res := dbf.Params{
		&dbf.P{N: "reference density", V: 3300},
		&dbf.P{N: "reference temperature", V: 293},
		&dbf.P{N: "viscosity", V: 5e24},
		&dbf.P{N: "composition viscosity prefactor", V: 1},
		&dbf.P{N: "thermal viscosity exponent", V: 0},
		&dbf.P{N: "thermal conductivity", V: 2.38},
		&dbf.P{N: "reference specific heat", V: 1250},
		&dbf.P{N: "thermal expansion coefficient", V: 4e-5},
		&dbf.P{N: "thermal expansion coefficient of melt", V: 6.8e-5},
		&dbf.P{N: "compressibility", V: 5.124e-12},
		&dbf.P{N: "density differential for compositional field 1", V: 0},
		&dbf.P{N: "peridotite melting entropy change", V: 300},
		&dbf.P{N: "pyroxenite melting entropy change", V: 400},
		&dbf.P{N: "relative density of melt", V: 0.9},
	}
	res = append(res, melting.NewKatz().GetPrms(example)...)
	return append(res, melting.NewSobolev().GetPrms(example)...)
}

// Compressible tells whether κ is positive
func (o *LatentHeatMelt) Compressible() bool { return o.Kappa > 0 }

// RefViscosity returns η
func (o *LatentHeatMelt) RefViscosity() float64 { return o.Eta }

// RefDensity returns ρ
func (o *LatentHeatMelt) RefDensity() float64 { return o.Rho }

// pyroxenite returns the pyroxenite fraction of composition
func pyroxenite(composition []float64) float64 {
	if len(composition) > 0 {
		return composition[0]
	}
	return 0
}

// MeltFractions computes the melt fraction of each point
func (o *LatentHeatMelt) MeltFractions(in *Inputs, res []float64) {
	for i := range res {
		res[i] = o.Lith.Fraction(in.Temperature[i], in.Pressure[i], pyroxenite(in.Composition[i]))
	}
}

// viscosity returns the temperature and composition dependent viscosity
func (o *LatentHeatMelt) viscosity(T float64, composition []float64) float64 {
	td := math.Max(math.Min(math.Exp(-o.ThermalViscExp*(T-o.Tref)/o.Tref), 1e2), 1e-2)
	if math.IsNaN(td) {
		td = 1
	}
	if o.CompViscFactor != 1 && len(composition) > 0 {
		c := composition[0]
		return math.Pow(10, (1-c)*math.Log10(o.Eta*td)+c*math.Log10(o.Eta*o.CompViscFactor*td))
	}
	return td * o.Eta
}

// Evaluate computes properties
func (o *LatentHeatMelt) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	var psurf float64
	if ctx.AdiabatReady() {
		psurf = ctx.Adiabat.Pressure(ctx.Geometry.RepresentativePoint(0))
	}
	for i := 0; i < in.N(); i++ {
		x, T, p, comp := in.Position[i], in.Temperature[i], in.Pressure[i], in.Composition[i]
		c := pyroxenite(comp)
		F := o.Lith.Fraction(T, p, c)

		// expansivity of the solid-melt mixture
		α := o.Alpha
		if ctx.AdiabatReady() {
			α = o.Alpha*(1-F) + o.AlphaMelt*F
		}

		td := 1.0
		if ctx.AdiabaticHeating {
			if ctx.AdiabatReady() {
				td -= (T - ctx.Adiabat.Temperature(x)) * α
			}
		} else {
			td -= T * α
		}
		rho := o.Rho + o.DeltaRho*c
		if o.Compressible() && ctx.AdiabatReady() {
			rho += o.Kappa * (p - psurf)
		}
		out.Density[i] = rho * td * (1 - (1-o.RelMeltDensity)*F)
		out.Viscosity[i] = o.viscosity(T, comp)
		out.Expansivity[i] = α
		out.Compressibility[i] = o.Kappa
		out.SpecificHeat[i] = o.Cp
		out.Conductivity[i] = o.K
		out.EntropyDerivT[i], out.EntropyDerivP[i] = o.Lith.EntropyDerivs(T, p, c)
		for k := range out.ReactionTerms[i] {
			out.ReactionTerms[i][k] = 0
		}
	}
}
