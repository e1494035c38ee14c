// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grainsize

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/rheology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

// olivine returns default olivine parameters
func olivine() Phase {
	return Phase{
		GrowthRate:        1.5e-5,
		GrowthEnergy:      3.5e5,
		GrowthVolume:      8e-6,
		GrowthExponent:    3,
		ReciprocalStrain:  10,
		BoundaryEnergy:    1,
		WorkFraction:      0.1,
		GeometricConstant: 3,
	}
}

// still returns viscosities without dislocation creep
func still(d float64) rheology.Viscosities {
	return rheology.Viscosities{Effective: 1e21, Diffusion: 1e21, Dislocation: math.Inf(1)}
}

// creeping returns viscosities with half of the strain rate taken by dislocation creep
func creeping(d float64) rheology.Viscosities {
	return rheology.Viscosities{Effective: 1e20, Diffusion: 2e20, Dislocation: 2e20}
}

func Test_evolution01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("evolution01")

	o, err := NewEvolution([]Phase{olivine()}, nil, false, 0)
	require.NoError(tst, err)
	chk.Float64(tst, "default minimum", 1e-20, o.MinGrainSize, 5e-6)

	// nothing happens without time
	delta, warn := o.Step(0, 1e-3, 1600, 1e9, 0, 0, -1, still)
	chk.Float64(tst, "delta(dt=0)", 0, delta, 0)
	assert.False(tst, warn.Any())
	delta, _ = o.Step(1e10, math.NaN(), 1600, 1e9, 0, 0, -1, still)
	chk.Float64(tst, "delta(NaN)", 0, delta, 0)

	// static growth follows d^m = d0^m + A exp(-(E+pV)/RT) t
	d0, T, dt := 1e-2, 1400.0, 1e5*host.YearInSeconds
	ph := o.Phases[0]
	k := ph.GrowthRate * math.Exp(-ph.GrowthEnergy/(rheology.GasConstant*T))
	dana := math.Pow(math.Pow(d0, 3)+k*dt, 1.0/3.0)
	delta, warn = o.Step(dt, d0, T, 0, 0, 0, -1, still)
	io.Pforan("d = %g (analytical %g) after %d sub-steps\n", d0+delta, dana, warn.Substeps)
	assert.Greater(tst, delta, 0.0)
	assert.InEpsilon(tst, dana, d0+delta, 1e-2)
	assert.False(tst, warn.Any())
	assert.Greater(tst, warn.Substeps, 1)

	// pure function
	again, _ := o.Step(dt, d0, T, 0, 0, 0, -1, still)
	chk.Float64(tst, "repeatable", 0, again, delta)
	chk.Float64(tst, "parameters untouched", 0, o.Phases[0].GrowthExponent, 3)
}

func Test_evolution02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("evolution02")

	// reduction without growth decays to the floor
	ph := olivine()
	ph.GrowthRate = 0
	o, err := NewEvolution([]Phase{ph}, nil, false, 5e-6)
	require.NoError(tst, err)
	d0 := 1e-3
	delta, warn := o.Step(1e6*host.YearInSeconds, d0, 1600, 1e9, 2e-12, 0, -1, creeping)
	io.Pforan("d = %g  warn = %+v\n", d0+delta, warn)
	assert.True(tst, warn.Clamped)
	assert.False(tst, warn.Negative)
	assert.LessOrEqual(tst, warn.Value, 5e-6)
	chk.Float64(tst, "floor", 1e-18, d0+delta, 5e-6)

	// short step: exponential decay with rate r edis
	dt := 1e3 * host.YearInSeconds
	edot := 1e-15
	delta, _ = o.Step(dt, d0, 1600, 1e9, edot, 0, -1, creeping)
	dana := d0 * math.Exp(-ph.ReciprocalStrain*0.5*edot*dt)
	io.Pforan("d = %g (analytical %g)\n", d0+delta, dana)
	assert.InEpsilon(tst, dana, d0+delta, 5e-2)

	// large time steps never go below the floor
	for _, edot := range []float64{1e-16, 1e-14, 1e-12, 1e-10} {
		for _, years := range []float64{1e3, 1e6, 1e8} {
			delta, _ := o.Step(years*host.YearInSeconds, d0, 1600, 1e9, edot, 0, -1, creeping)
			require.False(tst, math.IsNaN(delta))
			require.GreaterOrEqual(tst, d0+delta, 5e-6-1e-18, "edot=%g years=%g", edot, years)
		}
	}
}

func Test_evolution03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("evolution03")

	// paleowattmeter reduces grain size with work
	pw, err := NewEvolution([]Phase{olivine(), olivine()}, []float64{1e-4}, true, 0)
	require.NoError(tst, err)
	d0, dt := 1e-2, 1e4*host.YearInSeconds
	grow, _ := pw.Step(dt, d0, 1600, 1e9, 0, 0, -1, creeping)
	work, _ := pw.Step(dt, d0, 1600, 1e9, 1e-13, 0, -1, creeping)
	io.Pforan("growth only: %g  with work: %g\n", grow, work)
	assert.Greater(tst, grow, 0.0)
	assert.Less(tst, work, grow)

	// recrystallisation after crossing a transition
	delta, _ := pw.Step(dt, d0, 1600, 1e9, 1e-13, 1, 0, creeping)
	chk.Float64(tst, "recrystallized", 1e-18, d0+delta, 1e-4)
	delta, _ = pw.Step(dt, d0, 1600, 1e9, 1e-13, 1, -1, creeping)
	assert.NotEqual(tst, 1e-4, d0+delta)

	// configuration errors
	_, err = NewEvolution([]Phase{olivine()}, []float64{1e-4}, false, 0)
	assert.Error(tst, err)
	bad := olivine()
	bad.GeometricConstant = 0
	_, err = NewEvolution([]Phase{bad}, nil, true, 0)
	assert.Error(tst, err)
	bad = olivine()
	bad.GrowthExponent = 0
	_, err = NewEvolution([]Phase{bad}, nil, false, 0)
	assert.Error(tst, err)
}

func Test_evolution04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("evolution04. minimum grain size holds")

	tests := []struct {
		name           string
		growthRate     float64
		paleowattmeter bool
		edots          []float64
		years          []float64
	}{
		{"reduction only", 0, false, []float64{0, 1e-16, 1e-14, 1e-12, 1e-10}, []float64{1e3, 1e6, 1e8}},
		{"reduction only (paleowattmeter)", 0, true, []float64{0, 1e-16, 1e-14, 1e-12, 1e-10}, []float64{1e3, 1e6, 1e8}},
		{"slow growth", 1e-12, false, []float64{0, 1e-16, 1e-14, 1e-12, 1e-10}, []float64{1e3, 1e5, 1e6}},
		{"olivine growth", 1.5e-5, false, []float64{0, 1e-16, 1e-14, 1e-12, 1e-10}, []float64{1e3, 1e5, 1e6}},
		{"olivine growth (paleowattmeter)", 1.5e-5, true, []float64{0, 1e-16, 1e-14, 1e-12}, []float64{1e3, 1e5}},
	}
	for _, test := range tests {
		ph := olivine()
		ph.GrowthRate = test.growthRate
		o, err := NewEvolution([]Phase{ph}, nil, test.paleowattmeter, 1e-5)
		require.NoError(tst, err)
		for _, edot := range test.edots {
			for _, years := range test.years {
				for _, d0 := range []float64{2e-5, 1e-3, 1e-2} {
					delta, warn := o.Step(years*host.YearInSeconds, d0, 1600, 1e9, edot, 0, -1, creeping)
					d := d0 + delta
					require.False(tst, math.IsNaN(d), "%s: edot=%g years=%g d0=%g", test.name, edot, years, d0)
					require.False(tst, math.IsNaN(warn.Value), "%s: edot=%g years=%g d0=%g", test.name, edot, years, d0)
					require.GreaterOrEqual(tst, d, 1e-5-1e-18, "%s: edot=%g years=%g d0=%g", test.name, edot, years, d0)
				}
			}
		}
	}

	// pinned at the floor after a few sub-steps
	ph := olivine()
	ph.GrowthRate = 0
	o, err := NewEvolution([]Phase{ph}, nil, false, 1e-5)
	require.NoError(tst, err)
	delta, warn := o.Step(1e8*host.YearInSeconds, 1e-3, 1600, 1e9, 1e-10, 0, -1, creeping)
	io.Pforan("d = %g after %d sub-steps\n", 1e-3+delta, warn.Substeps)
	chk.Float64(tst, "floor", 1e-18, 1e-3+delta, 1e-5)
	assert.True(tst, warn.Clamped)
	assert.Less(tst, warn.Substeps, 1000)
}

func Test_logspace01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("logspace01")

	o, err := NewEvolution([]Phase{olivine()}, nil, false, 1e-5)
	require.NoError(tst, err)
	chk.Float64(tst, "round trip", 1e-15, o.FromLog(o.ToLog(1e-3)), 1e-3)
	chk.Float64(tst, "to log", 1e-15, o.ToLog(1e-3), -math.Log(1e-3))
	chk.Float64(tst, "to log floor", 1e-15, o.ToLog(0), -math.Log(1e-5))
	chk.Float64(tst, "from log floor", 1e-20, o.FromLog(50), 1e-5)
	chk.Float64(tst, "rate", 1e-15, LogRate(1e-4, 1e-3), -0.1)
}
