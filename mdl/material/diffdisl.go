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
	"github.com/geodyn/gomelt/mdl/rheology"
)

// DiffusionDislocation implements combined diffusion and dislocation creep.
//  Each list parameter has one entry for the background and one per field
type DiffusionDislocation struct {

	// parameters
	Densities     []float64          // reference densities [kg/m³]
	Expansivities []float64          // thermal expansivities [1/K]
	Diffusion     []rheology.FlowLaw // diffusion creep per composition
	Dislocation   []rheology.FlowLaw // dislocation creep per composition
	GrainSize     float64            // constant grain size [m]
	MinStrainRate float64            // strain rate invariant floor [1/s]
	MinViscosity  float64            // [Pa s]
	MaxViscosity  float64            // [Pa s]
	Tref          float64            // reference temperature [K]
	K             float64            // thermal conductivity [W/m/K]
	Cp            float64            // specific heat [J/kg/K]
	Averaging     Averaging          // viscosity averaging

	// auxiliary
	ctx        *host.Context
	evaluators []*rheology.Evaluator // one per composition
}

// add model to factory
func init() {
	allocators["diffusion dislocation"] = func() Model { return new(DiffusionDislocation) }
}

// Init initialises model
func (o *DiffusionDislocation) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	rest, err := o.init("diffusion dislocation", prms)
	if err != nil {
		return
	}
	if len(rest) > 0 {
		return param.Unknown("diffusion dislocation", rest[0].N)
	}
	return
}

// init sets the parameters this model knows and returns the others
func (o *DiffusionDislocation) init(model string, prms dbf.Params) (rest dbf.Params, err error) {
	n := o.ctx.Fields.Len() + 1
	fill := func(v float64) []float64 { r, _ := param.Extend([]float64{v}, n, ""); return r }
	o.Densities, o.Expansivities = fill(3300), fill(3.5e-5)
	dA, dn, dm, dE, dV := fill(1.5e-15), fill(1), fill(3), fill(375e3), fill(6e-6)
	sA, sn, sE, sV := fill(1.1e-16), fill(3.5), fill(530e3), fill(1.4e-5)
	o.GrainSize, o.MinStrainRate = 1e-3, 1.4e-20
	o.MinViscosity, o.MaxViscosity = 1e17, 1e28
	o.Tref, o.K, o.Cp = 293, 4.7, 1250
	o.Averaging = Harmonic
	lists := map[string]*[]float64{
		"densities":                                 &o.Densities,
		"thermal expansivities":                     &o.Expansivities,
		"prefactors for diffusion creep":            &dA,
		"stress exponents for diffusion creep":      &dn,
		"grain size exponents for diffusion creep":  &dm,
		"activation energies for diffusion creep":   &dE,
		"activation volumes for diffusion creep":    &dV,
		"prefactors for dislocation creep":          &sA,
		"stress exponents for dislocation creep":    &sn,
		"activation energies for dislocation creep": &sE,
		"activation volumes for dislocation creep":  &sV,
	}
	for _, p := range prms {
		key := strings.ToLower(p.N)
		if dst, ok := lists[key]; ok {
			if *dst, err = list(p, n); err != nil {
				return
			}
			continue
		}
		switch key {
		case "grain size":
			o.GrainSize = p.V
		case "minimum strain rate":
			o.MinStrainRate = p.V
		case "minimum viscosity":
			o.MinViscosity = p.V
		case "maximum viscosity":
			o.MaxViscosity = p.V
		case "reference temperature":
			o.Tref = p.V
		case "thermal conductivity":
			o.K = p.V
		case "heat capacity":
			o.Cp = p.V
		case "viscosity averaging scheme":
			if o.Averaging, err = NewAveraging(param.Text(p)); err != nil {
				return
			}
		default:
			rest = append(rest, p)
		}
	}
	if o.MinViscosity <= 0 || o.MaxViscosity < o.MinViscosity {
		return nil, chk.Err("%s: viscosity limits [%g, %g] are invalid", model, o.MinViscosity, o.MaxViscosity)
	}
	if o.GrainSize <= 0 {
		return nil, chk.Err("%s: grain size must be positive; %g is invalid", model, o.GrainSize)
	}
	o.Diffusion = make([]rheology.FlowLaw, n)
	o.Dislocation = make([]rheology.FlowLaw, n)
	o.evaluators = make([]*rheology.Evaluator, n)
	for j := 0; j < n; j++ {
		o.Diffusion[j] = rheology.FlowLaw{A: dA[j], N: dn[j], E: dE[j], V: dV[j], M: dm[j]}
		o.Dislocation[j] = rheology.FlowLaw{A: sA[j], N: sn[j], E: sE[j], V: sV[j]}
		o.evaluators[j], err = rheology.NewEvaluator(nil, o.Diffusion[j:j+1], o.Dislocation[j:j+1], math.Inf(1))
		if err != nil {
			return nil, chk.Err("%s: composition %d: %v", model, j, err)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o DiffusionDislocation) GetPrms(example bool) dbf.Params {
	return dbf.Params{
		param.List("densities", 3300),
		param.List("thermal expansivities", 3.5e-5),
		param.List("prefactors for diffusion creep", 1.5e-15),
		param.List("stress exponents for diffusion creep", 1),
		param.List("grain size exponents for diffusion creep", 3),
		param.List("activation energies for diffusion creep", 375e3),
		param.List("activation volumes for diffusion creep", 6e-6),
		param.List("prefactors for dislocation creep", 1.1e-16),
		param.List("stress exponents for dislocation creep", 3.5),
		param.List("activation energies for dislocation creep", 530e3),
		param.List("activation volumes for dislocation creep", 1.4e-5),
		&dbf.P{N: "grain size", V: 1e-3},
		&dbf.P{N: "minimum strain rate", V: 1.4e-20},
		&dbf.P{N: "minimum viscosity", V: 1e17},
		&dbf.P{N: "maximum viscosity", V: 1e28},
		&dbf.P{N: "reference temperature", V: 293},
		&dbf.P{N: "thermal conductivity", V: 4.7},
		&dbf.P{N: "heat capacity", V: 1250},
		param.Str("viscosity averaging scheme", "harmonic"),
	}
}

// Compressible returns false
func (o *DiffusionDislocation) Compressible() bool { return false }

// RefViscosity returns 1e20 Pa s
func (o *DiffusionDislocation) RefViscosity() float64 { return 1e20 }

// RefDensity returns the background density
func (o *DiffusionDislocation) RefDensity() float64 { return o.Densities[0] }

// viscosity computes the averaged creep viscosity of point i
func (o *DiffusionDislocation) viscosity(in *Inputs, i int, vf []float64) float64 {
	edot := math.Max(host.EdotII(in.StrainRate[i]), o.MinStrainRate)
	etas := make([]float64, len(vf))
	for j, ev := range o.evaluators {
		v := ev.Viscosity(o.ctx, in.Position[i], in.Temperature[i], in.Pressure[i], o.GrainSize, edot)
		etas[j] = math.Min(math.Max(v.Effective, o.MinViscosity), o.MaxViscosity)
	}
	return o.Averaging.Average(vf, etas)
}

// Evaluate computes properties
func (o *DiffusionDislocation) Evaluate(in *Inputs, out *Outputs) {
	for i := 0; i < in.N(); i++ {
		T := in.Temperature[i]
		vf := VolumeFractions(in.Composition[i], 0)
		if in.StrainRate != nil {
			out.Viscosity[i] = o.viscosity(in, i, vf)
		}
		var rho, alpha float64
		for j, f := range vf {
			rho += f * o.Densities[j] * (1 - o.Expansivities[j]*(T-o.Tref))
			alpha += f * o.Expansivities[j]
		}
		out.Density[i] = rho
		out.Expansivity[i] = alpha
		out.SpecificHeat[i] = o.Cp
		out.Conductivity[i] = o.K
		out.Compressibility[i] = 0
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
		}
	}
}
