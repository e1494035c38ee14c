// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/lookup"
	"github.com/geodyn/gomelt/mdl/melting"
	"github.com/geodyn/gomelt/mdl/param"
	"gonum.org/v1/gonum/mat"
)

// MeltGlobal implements a two-phase material with a linear, depletion dependent solidus.
//  Equilibrium melt fractions may instead be read from a table of peridotite
//  and basalt melt fractions; then a crystallized_fraction field is required
type MeltGlobal struct {

	// parameters
	RhoS               float64 // reference solid density [kg/m³]
	RhoF               float64 // reference melt density [kg/m³]
	Tref               float64 // reference temperature [K]
	Eta0               float64 // reference shear viscosity [Pa s]
	Xi0                float64 // reference bulk viscosity [Pa s]
	EtaF               float64 // melt viscosity [Pa s]
	AlphaPhi           float64 // exponential melt weakening factor
	ThermalViscExp     float64 // thermal viscosity exponent
	ThermalBulkViscExp float64 // thermal bulk viscosity exponent
	K                  float64 // thermal conductivity [W/m/K]
	Cp                 float64 // specific heat [J/kg/K]
	Alpha              float64 // thermal expansivity [1/K]
	K0                 float64 // reference permeability [m²]
	DeltaRhoDepletion  float64 // density change per unit depletion [kg/m³]
	KappaS             float64 // solid compressibility [1/Pa]
	KappaF             float64 // melt compressibility [1/Pa]
	Melting            bool    // include melting and freezing

	// melt fraction table
	FromFile bool   // read melt fractions from file
	Filename string // file in the data directory
	Interp   bool   // bilinear interpolation
	PUnit    string // pressure unit of table
	TUnit    string // temperature unit of table

	// auxiliary
	ctx      *host.Context
	Solidus  *melting.Linear   // melting law
	Table    *lookup.MeltTable // melt fraction table; nil unless FromFile
	porosity int               // index of porosity field or -1
	peridot  int               // index of peridotite field or -1
	crystal  int               // index of crystallized_fraction field or -1
}

// add model to factory
func init() {
	allocators["melt global"] = func() Model { return new(MeltGlobal) }
}

// defaults sets default parameters
func (o *MeltGlobal) defaults() {
	o.RhoS, o.RhoF, o.Tref = 3000, 2500, 293
	o.Eta0, o.Xi0, o.EtaF = 5e20, 1e22, 10
	o.AlphaPhi, o.ThermalViscExp, o.ThermalBulkViscExp = 27, 0, 0
	o.K, o.Cp, o.Alpha, o.K0 = 4.7, 1250, 2e-5, 1e-8
	o.DeltaRhoDepletion, o.KappaS, o.KappaF = 0, 0, 0
	o.Melting = true
	o.FromFile, o.Filename, o.Interp = false, "", true
	o.PUnit, o.TUnit = "Pa", "Kelvin"
}

// Init initialises model
func (o *MeltGlobal) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.defaults()
	o.ctx = ctx
	o.Solidus = melting.NewLinear()
	lp, rest := subset(prms, o.Solidus.GetPrms(false))
	if err = o.Solidus.Init(lp); err != nil {
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
		case "depletion density change":
			o.DeltaRhoDepletion = p.V
		case "solid compressibility":
			o.KappaS = p.V
		case "melt compressibility":
			o.KappaF = p.V
		case "include melting and freezing":
			o.Melting = param.Bool(p)
		case "read melt from file":
			o.FromFile = param.Bool(p)
		case "melt fraction file name":
			o.Filename = param.Text(p)
		case "interpolation":
			o.Interp = param.Bool(p)
		case "pressure unit":
			o.PUnit = param.Text(p)
		case "temperature unit":
			o.TUnit = param.Text(p)
		default:
			return param.Unknown("melt global", p.N)
		}
	}
	if (o.ThermalViscExp != 0 || o.ThermalBulkViscExp != 0) && o.Tref == 0 {
		return chk.Err("melt global: thermal viscosity exponents require a non-zero reference temperature")
	}
	if ctx.MeltTransport {
		if err = requireFields(ctx, "melt global", Porosity); err != nil {
			return
		}
		if o.Melting {
			if err = requireFields(ctx, "melt global", Peridotite); err != nil {
				return
			}
			if o.FromFile {
				if err = requireFields(ctx, "melt global", CrystallizedFraction); err != nil {
					return
				}
			}
		}
	}
	if o.FromFile {
		if o.Filename == "" {
			return chk.Err("melt global: reading melt fractions from file requires a file name")
		}
		o.Table, err = lookup.LoadMeltFraction(filepath.Join(ctx.DataDir, o.Filename), o.PUnit, o.TUnit, o.Interp)
		if err != nil {
			return
		}
	}
	o.porosity, o.peridot = fieldIndex(ctx, Porosity), fieldIndex(ctx, Peridotite)
	o.crystal = -1
	if o.FromFile {
		o.crystal = fieldIndex(ctx, CrystallizedFraction)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o MeltGlobal) GetPrms(example bool) dbf.Params {
	res := dbf.Params{
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
		&dbf.P{N: "depletion density change", V: 0},
		&dbf.P{N: "solid compressibility", V: 0},
		&dbf.P{N: "melt compressibility", V: 0},
		&dbf.P{N: "include melting and freezing", V: 1},
	}
	if example {
		res = append(res,
			&dbf.P{N: "read melt from file", V: 1},
			param.Str("melt fraction file name", "melt-fractions.txt"),
			&dbf.P{N: "interpolation", V: 1},
			param.Str("pressure unit", "GPa"),
			param.Str("temperature unit", "Kelvin"),
		)
	}
	return append(res, melting.NewLinear().GetPrms(example)...)
}

// Compressible returns false
func (o *MeltGlobal) Compressible() bool { return false }

// RefViscosity returns η0
func (o *MeltGlobal) RefViscosity() float64 { return o.Eta0 }

// RefDensity returns ρ_s
func (o *MeltGlobal) RefDensity() float64 { return o.RhoS }

// ReferenceDarcyCoefficient returns k(φ=0.01) / η_f
func (o *MeltGlobal) ReferenceDarcyCoefficient() float64 { return darcy(o.K0, o.EtaF) }

// MeltFractions computes the equilibrium melt fraction of each point
func (o *MeltGlobal) MeltFractions(in *Inputs, res []float64) {
	for i := range res {
		T, p, comp := in.Temperature[i], in.Pressure[i], in.Composition[i]
		if o.Table != nil {
			F := o.Table.PeridotiteFraction(T, p)
			if o.peridot >= 0 {
				basalt := math.Max(-comp[o.peridot], 0)
				F = (1-basalt)*F + math.Min(basalt, 1)*o.Table.BasaltFraction(T, p)
			}
			res[i] = F
			continue
		}
		var depletion float64
		if o.ctx.MeltTransport {
			depletion = comp[o.peridot] - comp[o.porosity]
		}
		res[i] = o.Solidus.FractionDepleted(T, math.Max(0, p), depletion)
	}
}

// EvaluateWithMelt evaluates all properties including melt outputs
func (o *MeltGlobal) EvaluateWithMelt(in *Inputs, out *Outputs) {
	evaluateWithMelt(o.ctx, o, in, out)
}

// melting computes the melting rate of point i and the old porosity
func (o *MeltGlobal) melting(in *Inputs, i int) (rate, oldPorosity, oldCrystal float64) {
	ctx := o.ctx
	T, p, comp := in.Temperature[i], in.Pressure[i], in.Composition[i]
	oldPorosity = oldField(ctx, in, i, o.porosity)
	if o.Table != nil {
		oldDepletion := math.Max(oldField(ctx, in, i, o.peridot), 0)
		oldCrystal = oldField(ctx, in, i, o.crystal)
		F := o.Table.PeridotiteFraction(T, p)
		eqCrystal := o.Table.BasaltFraction(T, p)
		switch {
		case F >= oldDepletion:
			rate = F - oldDepletion
		case oldCrystal > math.Max(eqCrystal, 0):
			rate = (eqCrystal - oldCrystal) / oldCrystal
		}
	} else {
		pad := adiabaticPressure(ctx, in.Position[i], p)
		rate = o.Solidus.FractionDepleted(T, pad, comp[o.peridot]-comp[o.porosity]) - oldPorosity
	}
	rate = ClampMelting(oldPorosity, rate)
	return
}

// Evaluate computes properties
func (o *MeltGlobal) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		x, T, p, comp := in.Position[i], in.Temperature[i], in.Pressure[i], in.Composition[i]
		T0 := refTemperature(ctx, x, o.Tref)
		var Δρ float64
		if o.peridot >= 0 {
			Δρ = o.DeltaRhoDepletion * comp[o.peridot]
		}
		out.Density[i] = (o.RhoS + Δρ) * (1 - o.Alpha*(T-T0)) * math.Exp(o.KappaS*(p-ctx.SurfacePressure))

		// reactions
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
			change[c] = 0
		}
		if ctx.MeltTransport && o.Melting {
			rate, _, oldCrystal := o.melting(in, i)
			if ctx.TimestepNumber > 1 && in.StrainRate != nil && ctx.Timestep > 0 {
				out.ReactionTerms[i][o.peridot] = rate - comp[o.peridot]*mat.Trace(in.StrainRate[i])*ctx.Timestep
				out.ReactionTerms[i][o.porosity] = rate * out.Density[i] / ctx.Timestep
				if o.crystal >= 0 {
					if rate > 0 || oldCrystal <= 0 {
						out.ReactionTerms[i][o.crystal] = 0
					} else {
						out.ReactionTerms[i][o.crystal] = math.Max(rate/oldCrystal, -oldCrystal)
					}
				}
			}
			change[o.peridot] = out.ReactionTerms[i][o.peridot]
			change[o.porosity] = rate
			if o.crystal >= 0 {
				change[o.crystal] = out.ReactionTerms[i][o.crystal]
			}
			applySplitting(ctx, out, i, change)
			out.Viscosity[i] = o.Eta0 * math.Exp(-o.AlphaPhi*clamp01(comp[o.porosity]))
		} else {
			out.Viscosity[i] = o.Eta0
		}
		out.Viscosity[i] *= thermalFactor(o.ThermalViscExp, T, T0, 1e4)
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		out.Expansivity[i] = o.Alpha
		out.SpecificHeat[i] = o.Cp
		out.Conductivity[i] = o.K
		out.Compressibility[i] = 0
	}
	if out.Melt == nil || o.porosity < 0 {
		return
	}
	for i := 0; i < in.N(); i++ {
		x, T, p := in.Position[i], in.Temperature[i], in.Pressure[i]
		φ := math.Max(in.Composition[i][o.porosity], 0)
		T0 := refTemperature(ctx, x, o.Tref)
		out.Melt.FluidViscosity[i] = o.EtaF
		out.Melt.Permeability[i] = permeability(o.K0, φ)
		out.Melt.FluidDensity[i] = o.RhoF * (1 - o.Alpha*(T-T0)) * math.Exp(o.KappaF*(p-ctx.SurfacePressure))
		out.Melt.FluidCompressibility[i] = o.KappaF
		out.Melt.CompactionViscosity[i] = o.Xi0 * math.Exp(-o.AlphaPhi*φ) * thermalFactor(o.ThermalBulkViscExp, T, T0, 1e4)
		for k := range out.Melt.FluidDensityGradient[i] {
			out.Melt.FluidDensityGradient[i][k] = 0
		}
	}
}
