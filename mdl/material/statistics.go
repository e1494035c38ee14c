// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/geodyn/gomelt/host"
	"gonum.org/v1/gonum/floats"
)

// MeltStats holds statistics of the melt fraction over a set of points
type MeltStats struct {
	Min   float64 // smallest melt fraction
	Total float64 // weighted sum of melt fractions (melt volume if weights are volumes)
	Max   float64 // largest melt fraction
}

// withAdiabaticPressure returns a shallow copy of in with the pressure replaced by the adiabatic one
func withAdiabaticPressure(ctx *host.Context, in *Inputs) *Inputs {
	res := *in
	res.Pressure = make([]float64, in.N())
	for i := range res.Pressure {
		res.Pressure[i] = adiabaticPressure(ctx, in.Position[i], in.Pressure[i])
	}
	return &res
}

// MeltStatistics computes melt fractions at the adiabatic pressure of each point.
//  weights may be nil, in which case each point has weight 1
func MeltStatistics(ctx *host.Context, mdl MeltFractionModel, in *Inputs, weights []float64) (stats MeltStats, err error) {
	n := in.N()
	if n == 0 {
		return
	}
	if weights != nil && len(weights) != n {
		return stats, chk.Err("melt statistics: %d weights were given for %d points", len(weights), n)
	}
	F := make([]float64, n)
	mdl.MeltFractions(withAdiabaticPressure(ctx, in), F)
	stats.Min, stats.Max = floats.Min(F), floats.Max(F)
	if weights == nil {
		stats.Total = floats.Sum(F)
	} else {
		stats.Total = floats.Dot(F, weights)
	}
	return
}

// InitialPorosity returns the equilibrium melt fraction at the adiabatic pressure of each point
// to be used as the initial porosity
func InitialPorosity(ctx *host.Context, mdl MeltFractionModel, in *Inputs) (φ []float64, err error) {
	if !ctx.AdiabatReady() {
		return nil, chk.Err("initial porosity: the adiabatic profile is required")
	}
	φ = make([]float64, in.N())
	mdl.MeltFractions(withAdiabaticPressure(ctx, in), φ)
	for i, v := range φ {
		φ[i] = math.Max(v, 0)
	}
	return
}
