// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rheology

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

// olivine flow laws
var (
	olDiff = FlowLaw{A: 7.4e-15, N: 1, E: 3.35e5, V: 4e-6, M: 3}
	olDisl = FlowLaw{A: 4.5e-15, N: 3.5, E: 4.8e5, V: 1.1e-5}
)

// mantle returns a 2D context of 1000 km depth; with an adiabat if withAdiabat
func mantle(tst *testing.T, withAdiabat bool) *host.Context {
	ctx := host.NewContext(2)
	box := &host.Box{Dim: 2, Height: 1000e3}
	ctx.Geometry = box
	ctx.Gravity = &host.Vertical{Dim: 2, G: 10}
	if withAdiabat {
		prof, err := host.NewLinearProfile(box, 0, 1600, 3300, 10, 2e-5, 1250, 1000e3, 201)
		require.NoError(tst, err)
		ctx.Adiabat = prof
	}
	return ctx
}

func Test_creep01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("creep01")

	ctx := mantle(tst, false)
	ev, err := NewEvaluator(nil, []FlowLaw{olDiff}, []FlowLaw{olDisl}, 100)
	require.NoError(tst, err)

	x := ctx.Geometry.RepresentativePoint(100e3)
	T, p, d := 1600.0, 3.3e9, 1e-3

	// no strain rate: pure diffusion creep
	res := ev.Viscosity(ctx, x, T, p, d, 1e-31)
	chk.Float64(tst, "eta(edot=0)", 1e-15, res.Effective, res.Diffusion)
	chk.Float64(tst, "diffusion", 1e-15*res.Diffusion, res.Diffusion, olDiff.Viscosity(1e-31, d, olDiff.Energy(T, p)))
	chk.Float64(tst, "dislocation rate", 1e-15, res.DislocationRate(1e-31), 0)

	// vanishing strain rate approaches diffusion creep
	res = ev.Viscosity(ctx, x, T, p, d, 1e-22)
	io.Pforan("edot=1e-22: eta=%g diff=%g disl=%g\n", res.Effective, res.Diffusion, res.Dislocation)
	assert.InEpsilon(tst, res.Diffusion, res.Effective, 1e-6)

	// parallel combination
	edot := 1e-14
	res = ev.Viscosity(ctx, x, T, p, d, edot)
	io.Pforan("edot=1e-14: eta=%g diff=%g disl=%g\n", res.Effective, res.Diffusion, res.Dislocation)
	chk.Float64(tst, "harmonic", 1e-15*res.Effective, res.Effective, Harmonic(res.Dislocation, res.Diffusion))
	chk.Float64(tst, "symmetric", 0, Harmonic(res.Diffusion, res.Dislocation), Harmonic(res.Dislocation, res.Diffusion))
	assert.Less(tst, res.Effective, math.Min(res.Diffusion, res.Dislocation))

	// the dislocation viscosity is consistent with its share of the strain rate
	edis := res.DislocationRate(edot)
	assert.Less(tst, edis, edot)
	assert.InEpsilon(tst, olDisl.Viscosity(edis, 0, olDisl.Energy(T, p)), res.Dislocation, 5e-3)
	assert.InEpsilon(tst, ev.DislocationViscosity(ctx, x, T, p, edis), res.Dislocation, 5e-3)
	chk.Float64(tst, "diffusion viscosity", 1e-15*res.Diffusion, ev.DiffusionViscosity(ctx, x, T, p, d, edot), res.Diffusion)
}

func Test_creep02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("creep02")

	ctx := mantle(tst, true)
	ev, err := NewEvaluator(nil, []FlowLaw{olDiff}, []FlowLaw{olDisl}, 100)
	require.NoError(tst, err)

	x := ctx.Geometry.RepresentativePoint(100e3)
	pad, Tad := ctx.Adiabat.Pressure(x), ctx.Adiabat.Temperature(x)
	d, edot := 1e-3, 1e-15

	// the adiabatic pressure is used and the energy term is bounded
	cold := ev.DiffusionViscosity(ctx, x, 800, 0, d, edot)
	assert.InEpsilon(tst, olDiff.Viscosity(edot, d, 100*olDiff.Energy(Tad, pad)), cold, 1e-12)
	hot := ev.DiffusionViscosity(ctx, x, 5000, 0, d, edot)
	assert.InEpsilon(tst, olDiff.Viscosity(edot, d, olDiff.Energy(Tad, pad)/100), hot, 1e-12)
	mild := ev.DiffusionViscosity(ctx, x, Tad+10, 0, d, edot)
	assert.InEpsilon(tst, olDiff.Viscosity(edot, d, olDiff.Energy(Tad+10, pad)), mild, 1e-12)

	// configuration errors
	_, err = NewEvaluator(nil, []FlowLaw{olDiff, olDiff}, []FlowLaw{olDisl}, 100)
	assert.Error(tst, err)
	_, err = NewEvaluator(nil, []FlowLaw{olDiff}, []FlowLaw{olDisl}, 0.5)
	assert.Error(tst, err)
	_, err = NewEvaluator(nil, []FlowLaw{{N: 1}}, []FlowLaw{olDisl}, 10)
	assert.Error(tst, err)
}

func Test_transitions01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transitions01")

	_, err := NewTransitions([]float64{660e3, 410e3}, []float64{0, 0}, []float64{0, 0}, nil, nil, 3300)
	assert.Error(tst, err)
	_, err = NewTransitions([]float64{410e3, 660e3}, []float64{0}, []float64{0, 0}, nil, nil, 3300)
	assert.Error(tst, err)
	_, err = NewTransitions([]float64{410e3}, []float64{0}, []float64{0}, nil, nil, 0)
	assert.Error(tst, err)
	var none *Transitions
	chk.Int(tst, "nil transitions", none.N(), 0)

	trans, err := NewTransitions(
		[]float64{410e3, 660e3},
		[]float64{1800, 1900},
		[]float64{4e6, -2e6},
		[]float64{5e3, 5e3},
		[]string{"wadsleyite", "perovskite"}, 3300)
	require.NoError(tst, err)
	chk.Int(tst, "N", trans.N(), 2)

	// with adiabat
	ctx := mantle(tst, true)
	phase := func(depth, T float64) int {
		x := ctx.Geometry.RepresentativePoint(depth)
		return trans.PhaseIndex(ctx, x, T, ctx.Adiabat.Pressure(x))
	}
	chk.Int(tst, "phase @ 100 km", phase(100e3, 1700), 0)
	chk.Int(tst, "phase @ 500 km", phase(500e3, 1800), 1)
	chk.Int(tst, "phase @ 700 km", phase(700e3, 1900), 2)
	x := ctx.Geometry.RepresentativePoint(500e3)
	chk.Int(tst, "thermodynamic phase", trans.ThermodynamicPhase(ctx, 1800, ctx.Adiabat.Pressure(x)), 1)

	// hotter material transforms deeper with a positive slope
	x = ctx.Geometry.RepresentativePoint(411e3)
	p := ctx.Adiabat.Pressure(x)
	chk.Float64(tst, "phase function", 1e-15, trans.PhaseFunction(ctx, 0, x, 1800, p), 1)
	chk.Float64(tst, "phase function hot", 1e-15, trans.PhaseFunction(ctx, 0, x, 2000, p), 0)

	// without adiabat
	ctx2 := mantle(tst, false)
	x = ctx2.Geometry.RepresentativePoint(500e3)
	chk.Int(tst, "phase from depth", trans.PhaseIndex(ctx2, x, 1800, 3300*10*500e3), 1)
	x = ctx2.Geometry.RepresentativePoint(700e3)
	chk.Int(tst, "phase from depth (p=0)", trans.PhaseIndex(ctx2, x, 1900, 0), 2)
}

func Test_transitions02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transitions02")

	trans, err := NewTransitions([]float64{410e3}, []float64{1800}, []float64{0}, []float64{5e3}, nil, 3300)
	require.NoError(tst, err)
	down, up := []float64{0, -1}, []float64{0, 1}

	// crossing detected from the adiabat
	ctx := mantle(tst, true)
	state := func(depth float64, vel []float64) State {
		x := ctx.Geometry.RepresentativePoint(depth)
		return State{X: x, Vel: vel, T: 1800, P: ctx.Adiabat.Pressure(x)}
	}
	chk.Int(tst, "sinking below", trans.Crossed(ctx, []State{state(411e3, down)}, 0), 0)
	chk.Int(tst, "rising below", trans.Crossed(ctx, []State{state(411e3, up)}, 0), -1)
	chk.Int(tst, "rising above", trans.Crossed(ctx, []State{state(409e3, up)}, 0), 0)
	chk.Int(tst, "far away", trans.Crossed(ctx, []State{state(500e3, down)}, 0), -1)
	chk.Int(tst, "at rest", trans.Crossed(ctx, []State{state(411e3, nil)}, 0), -1)

	// crossing detected from neighbouring points
	ctx2 := mantle(tst, false)
	pts := []State{
		{X: ctx2.Geometry.RepresentativePoint(405e3), Vel: down, T: 1800, P: 3300 * 10 * 405e3},
		{X: ctx2.Geometry.RepresentativePoint(415e3), Vel: down, T: 1800, P: 3300 * 10 * 415e3},
	}
	chk.Int(tst, "leading point", trans.Crossed(ctx2, pts, 1), 0)
	chk.Int(tst, "trailing point", trans.Crossed(ctx2, pts, 0), -1)
}
