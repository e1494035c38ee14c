// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/param"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Viscoelastic implements a Maxwell material after [3].
//  The first fields hold the independent components of the viscoelastic
//  stress; their change over a time step is returned as reaction terms
type Viscoelastic struct {

	// parameters
	Densities      []float64 // per composition [kg/m³]
	Viscosities    []float64 // per composition [Pa s]
	Expansivities  []float64 // per composition [1/K]
	SpecificHeats  []float64 // per composition [J/kg/K]
	Conductivities []float64 // per composition [W/m/K]
	ShearModuli    []float64 // per composition [Pa]
	Tref           float64   // reference temperature [K]
	Averaging      Averaging // averaging of viscosity and shear modulus
	FixedStep      bool      // use a fixed elastic time step
	ElasticStep    float64   // fixed elastic time step [yr]
	StressAverage  bool      // average stresses over the elastic time step

	// auxiliary
	ctx  *host.Context
	ncmp int // number of stress components
}

// add model to factory
func init() {
	allocators["viscoelastic"] = func() Model { return new(Viscoelastic) }
}

// StressFields returns the names of the stress fields in dim dimensions
func StressFields(dim int) []string {
	if dim == 2 {
		return []string{"stress_xx", "stress_yy", "stress_xy"}
	}
	return []string{"stress_xx", "stress_yy", "stress_zz", "stress_xy", "stress_xz", "stress_yz"}
}

// Init initialises model
func (o *Viscoelastic) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	o.ncmp = host.NumComponents(ctx.Dim)
	for i, name := range StressFields(ctx.Dim) {
		if i >= ctx.Fields.Len() || ctx.Fields.Name(i) != name {
			return chk.Err("viscoelastic: compositional field %d must be called %s", i, name)
		}
	}
	n := ctx.Fields.Len() + 1
	fill := func(v float64) []float64 { r, _ := param.Extend([]float64{v}, n, ""); return r }
	o.Densities, o.Viscosities, o.Expansivities = fill(3300), fill(1e21), fill(4e-5)
	o.SpecificHeats, o.Conductivities, o.ShearModuli = fill(1250), fill(4.7), fill(75e9)
	o.Tref, o.Averaging, o.ElasticStep = 293, Harmonic, 1e3
	o.FixedStep, o.StressAverage = false, false
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "densities":
			o.Densities, err = list(p, n)
		case "viscosities":
			o.Viscosities, err = list(p, n)
		case "thermal expansivities":
			o.Expansivities, err = list(p, n)
		case "specific heats":
			o.SpecificHeats, err = list(p, n)
		case "thermal conductivities":
			o.Conductivities, err = list(p, n)
		case "elastic shear moduli":
			o.ShearModuli, err = list(p, n)
		case "reference temperature":
			o.Tref = p.V
		case "viscosity averaging scheme":
			o.Averaging, err = NewAveraging(param.Text(p))
		case "use fixed elastic time step":
			o.FixedStep = param.Bool(p)
		case "fixed elastic time step":
			o.ElasticStep = p.V
		case "use stress averaging":
			o.StressAverage = param.Bool(p)
		default:
			return param.Unknown("viscoelastic", p.N)
		}
		if err != nil {
			return
		}
	}
	if o.StressAverage && !o.FixedStep {
		return chk.Err("viscoelastic: a fixed elastic time step must also be used with stress averaging")
	}
	if o.ElasticStep <= 0 {
		return chk.Err("viscoelastic: fixed elastic time step must be positive; %g is invalid", o.ElasticStep)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Viscoelastic) GetPrms(example bool) dbf.Params {
	return dbf.Params{
		param.List("densities", 3300),
		param.List("viscosities", 1e21),
		param.List("thermal expansivities", 4e-5),
		param.List("specific heats", 1250),
		param.List("thermal conductivities", 4.7),
		param.List("elastic shear moduli", 75e9),
		&dbf.P{N: "reference temperature", V: 293},
		param.Str("viscosity averaging scheme", "harmonic"),
		&dbf.P{N: "use fixed elastic time step", V: 0},
		&dbf.P{N: "fixed elastic time step", V: 1e3},
		&dbf.P{N: "use stress averaging", V: 0},
	}
}

// Compressible returns false
func (o *Viscoelastic) Compressible() bool { return false }

// RefViscosity returns the background viscosity
func (o *Viscoelastic) RefViscosity() float64 { return o.Viscosities[0] }

// RefDensity returns the background density
func (o *Viscoelastic) RefDensity() float64 { return o.Densities[0] }

// ElasticTimestep returns the elastic time step [s]
func (o *Viscoelastic) ElasticTimestep() float64 {
	if o.ctx.TimestepNumber > 0 && !o.FixedStep {
		return o.ctx.Timestep
	}
	return o.ElasticStep * host.YearInSeconds
}

// effective returns the averaged viscosity and shear modulus and the viscoelastic viscosity
//  η_ve = η Δt_e / (Δt_e + η/G)
func (o *Viscoelastic) effective(vf []float64, dte float64) (eta, G, etaVE float64) {
	eta = o.Averaging.Average(vf, o.Viscosities)
	G = o.Averaging.Average(vf, o.ShearModuli)
	etaVE = eta * dte / (dte + eta/G)
	return
}

// Evaluate computes properties
func (o *Viscoelastic) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	dte := o.ElasticTimestep()
	for i := 0; i < in.N(); i++ {
		T := in.Temperature[i]
		vf := VolumeFractions(in.Composition[i], o.ncmp)
		out.SpecificHeat[i] = Arithmetic.Average(vf, o.SpecificHeats)
		out.Conductivity[i] = Arithmetic.Average(vf, o.Conductivities)
		out.Expansivity[i] = Arithmetic.Average(vf, o.Expansivities)
		var rho float64
		for j, f := range vf {
			rho += f * o.Densities[j] * (1 - o.Expansivities[j]*(T-o.Tref))
		}
		out.Density[i] = rho
		out.Compressibility[i] = 0
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
		}
		_, G, etaVE := o.effective(vf, dte)
		out.Viscosity[i] = etaVE
		if out.Elastic != nil {
			out.Elastic.ShearModulus[i] = G
			for k := range out.Elastic.Force[i] {
				out.Elastic.Force[i][k] = 0
			}
		}
	}
	if ctx.TimestepNumber == 0 || in.StrainRate == nil || in.Old == nil || in.Old.VelocityGradient == nil {
		return
	}

	// stress update
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		vf := VolumeFractions(in.Composition[i], o.ncmp)
		_, G, etaVE := o.effective(vf, dte)
		old := in.Composition[i][:o.ncmp]
		σold := host.FromComponents(ctx.Dim, old)
		W := host.Rotation(in.Old.VelocityGradient[i])

		// W σ - σ W
		var wσ, σw, jaumann mat.Dense
		wσ.Mul(W, σold)
		σw.Mul(σold, W)
		jaumann.Sub(&wσ, &σw)

		σnew := host.Components(host.Deviator(in.StrainRate[i]))
		floats.Scale(2*etaVE, σnew)
		floats.AddScaled(σnew, etaVE/(G*dte), old)
		floats.AddScaled(σnew, etaVE/G, host.Components(host.Symmetrize(&jaumann)))
		if o.FixedStep && o.StressAverage {
			r := ctx.Timestep / dte
			floats.Scale(r, σnew)
			floats.AddScaled(σnew, 1-r, old)
		}
		for c := range change {
			change[c] = 0
		}
		for k := 0; k < o.ncmp; k++ {
			out.ReactionTerms[i][k] = σnew[k] - old[k]
			change[k] = out.ReactionTerms[i][k]
		}
		applySplitting(ctx, out, i, change)
		if out.Elastic != nil {
			for k := range out.Elastic.Force[i] {
				out.Elastic.Force[i][k] = -etaVE / (G * dte) * old[k]
			}
		}
	}
}
