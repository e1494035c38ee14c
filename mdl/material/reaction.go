// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"

	"github.com/geodyn/gomelt/host"
)

// field names with a meaning for the models
const (
	Porosity              = "porosity"
	Peridotite            = "peridotite"
	CrystallizedFraction  = "crystallized_fraction"
	Lithosphere           = "lithosphere"
	OlivineGrainSize      = "olivine_grain_size"
	ProjectedDensityField = "projected_density"
)

// ClampMelting limits the melting rate so that old+rate stays within [0,1]
func ClampMelting(old, rate float64) float64 {
	if old+rate < 0 {
		return -old
	}
	if old+rate > 1 {
		return 1 - old
	}
	return rate
}

// oldField returns field idx of point i as carried over from the previous time step.
//  With operator splitting, the current composition is the old one; without
//  a previous solution, zero is returned
func oldField(ctx *host.Context, in *Inputs, i, idx int) float64 {
	if idx < 0 {
		return 0
	}
	if ctx.OperatorSplitting {
		return in.Composition[i][idx]
	}
	if ctx.MeltTransport && ctx.TimestepNumber > 0 && in.Old != nil {
		return in.Old.Composition[i][idx]
	}
	return 0
}

// applySplitting moves the reactions of point i into ReactionRates when the host splits operators.
//  change holds the change of each field over one time step
func applySplitting(ctx *host.Context, out *Outputs, i int, change []float64) {
	if !ctx.OperatorSplitting {
		return
	}
	for c := range out.ReactionTerms[i] {
		if out.ReactionRates != nil {
			out.ReactionRates[i][c] = 0
			if ctx.TimestepNumber > 0 && ctx.Timestep > 0 {
				out.ReactionRates[i][c] = change[c] / ctx.Timestep
			}
		}
		out.ReactionTerms[i][c] = 0
	}
}

// adiabaticPressure returns the adiabatic pressure at x or p if there is no adiabat
func adiabaticPressure(ctx *host.Context, x []float64, p float64) float64 {
	if ctx.AdiabatReady() {
		return ctx.Adiabat.Pressure(x)
	}
	return p
}

// refTemperature returns the temperature deviations are measured from
func refTemperature(ctx *host.Context, x []float64, Tref float64) float64 {
	if ctx.AdiabaticHeating && ctx.AdiabatReady() {
		return ctx.Adiabat.Temperature(x)
	}
	return Tref
}

// thermalFactor returns exp(-e ΔT/T0) limited to [1/lim, lim]
func thermalFactor(e, T, T0, lim float64) float64 {
	if e == 0 {
		return 1
	}
	return math.Max(math.Min(math.Exp(-e*(T-T0)/T0), lim), 1/lim)
}

// permeability returns k0 φ³ (1-φ)² for non-negative φ
func permeability(k0, φ float64) float64 {
	φ = math.Max(φ, 0)
	return k0 * math.Pow(φ, 3) * math.Pow(1-φ, 2)
}

// clamp01 limits x to [0,1]
func clamp01(x float64) float64 {
	return math.Min(1, math.Max(x, 0))
}

// fieldIndex returns the index of a field or -1
func fieldIndex(ctx *host.Context, name string) int {
	if idx, ok := ctx.Fields.Index(name); ok {
		return idx
	}
	return -1
}

// darcy returns the reference Darcy coefficient k0 0.01³ / η_f
func darcy(k0, etaF float64) float64 {
	return k0 * math.Pow(0.01, 3) / etaF
}
