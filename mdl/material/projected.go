// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/param"
)

// ProjectedDensity implements a simple compressible material whose density
// is also written into the projected_density field through its reaction term
type ProjectedDensity struct {
	Rho   float64 // reference density [kg/m³]
	Eta   float64 // viscosity [Pa s]
	K     float64 // thermal conductivity [W/m/K]
	Cp    float64 // specific heat [J/kg/K]
	Alpha float64 // thermal expansivity [1/K]
	Kappa float64 // compressibility [1/Pa]
	Tref  float64 // reference temperature [K]

	// auxiliary
	ctx   *host.Context
	field int // index of projected_density
}

// add model to factory
func init() {
	allocators["projected density"] = func() Model { return new(ProjectedDensity) }
}

// Init initialises model
func (o *ProjectedDensity) Init(ctx *host.Context, prms dbf.Params) (err error) {
	o.ctx = ctx
	o.Rho, o.Eta, o.K, o.Cp = 3300, 1e21, 4.7, 1250
	o.Alpha, o.Kappa, o.Tref = 2e-5, 4e-12, 293
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "reference density":
			o.Rho = p.V
		case "viscosity":
			o.Eta = p.V
		case "thermal conductivity":
			o.K = p.V
		case "reference specific heat":
			o.Cp = p.V
		case "thermal expansion coefficient":
			o.Alpha = p.V
		case "reference compressibility":
			o.Kappa = p.V
		case "reference temperature":
			o.Tref = p.V
		default:
			return param.Unknown("projected density", p.N)
		}
	}
	o.field, err = ctx.Require("projected density", ProjectedDensityField)
	return
}

// GetPrms gets (an example) of parameters
func (o ProjectedDensity) GetPrms(example bool) dbf.Params {
	return dbf.Params{
		&dbf.P{N: "reference density", V: 3300},
		&dbf.P{N: "viscosity", V: 1e21},
		&dbf.P{N: "thermal conductivity", V: 4.7},
		&dbf.P{N: "reference specific heat", V: 1250},
		&dbf.P{N: "thermal expansion coefficient", V: 2e-5},
		&dbf.P{N: "reference compressibility", V: 4e-12},
		&dbf.P{N: "reference temperature", V: 293},
	}
}

// Compressible returns true
func (o *ProjectedDensity) Compressible() bool { return true }

// RefViscosity returns η
func (o *ProjectedDensity) RefViscosity() float64 { return o.Eta }

// RefDensity returns ρ
func (o *ProjectedDensity) RefDensity() float64 { return o.Rho }

// Evaluate computes properties
func (o *ProjectedDensity) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		x, T, p := in.Position[i], in.Temperature[i], in.Pressure[i]
		T0 := o.Tref
		if ctx.AdiabatReady() {
			T0 = ctx.Adiabat.Temperature(x)
		}
		out.Density[i] = o.Rho * math.Exp(o.Kappa*(p-ctx.SurfacePressure)) * (1 - o.Alpha*(T-T0))
		out.Viscosity[i] = o.Eta
		out.Conductivity[i] = o.K
		out.SpecificHeat[i] = o.Cp
		out.Expansivity[i] = o.Alpha
		out.Compressibility[i] = o.Kappa
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
			change[c] = 0
		}
		out.ReactionTerms[i][o.field] = out.Density[i] - in.Composition[i][o.field]
		change[o.field] = out.ReactionTerms[i][o.field]
		applySplitting(ctx, out, i, change)
	}
}
