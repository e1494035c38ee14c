// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/grainsize"
	"github.com/geodyn/gomelt/mdl/param"
	"github.com/geodyn/gomelt/mdl/rheology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// uniformPerplex is a PerpleX table with constant properties over 1000-2000 K and 0-10 GPa
const uniformPerplex = `|6.6.6
uniform.tab
2
T(K)
1000
500
3
P(bar)
0
100000
2
8
T(K) P(bar) rho alpha cp vp vs h
1000 0      3300 1e-2 100 8.0 4.5 0
1500 0      3300 1e-2 100 8.0 4.5 0
2000 0      3300 1e-2 100 8.0 4.5 0
1000 100000 3300 1e-2 100 8.0 4.5 0
1500 100000 3300 1e-2 100 8.0 4.5 0
2000 100000 3300 1e-2 100 8.0 4.5 0
`

func Test_diffdisl01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffdisl01. composite creep")

	ctx := host.NewContext(2)
	o := new(DiffusionDislocation)
	require.NoError(tst, o.Init(ctx, nil))

	T, p := 1600.0, 3e9
	in := onePoint(ctx, 0, T, p)
	out := NewOutputs(1, 0)

	// no strain rate: viscosity is not computed
	o.Evaluate(in, out)
	chk.Float64(tst, "η without strain rate", 1e-15, out.Viscosity[0], 0)
	chk.Float64(tst, "ρ", 1e-10, out.Density[0], 3300*(1-3.5e-5*(T-293)))

	in.StrainRate = []*mat.SymDense{pureShear(2, 1e-15)}
	o.Evaluate(in, out)
	ev, err := rheology.NewEvaluator(nil, o.Diffusion, o.Dislocation, math.Inf(1))
	require.NoError(tst, err)
	v := ev.Viscosity(ctx, in.Position[0], T, p, 1e-3, host.EdotII(in.StrainRate[0]))
	η := math.Min(math.Max(v.Effective, 1e17), 1e28)
	io.Pforan("η = %v  (diffusion %v, dislocation %v)\n", η, v.Diffusion, v.Dislocation)
	chk.Float64(tst, "η", 1e-14*η, out.Viscosity[0], η)

	// limits
	in.StrainRate[0] = pureShear(2, 1e-30)
	o.MinViscosity, o.MaxViscosity = 1e22, 1e23
	o.Evaluate(in, out)
	chk.Float64(tst, "η min", 1e-15*1e22, out.Viscosity[0], 1e22)

	// errors
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "minimum viscosity", V: 1e22}, &dbf.P{N: "maximum viscosity", V: 1e20}}))
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "grain size", V: 0}}))
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "viscosity averaging scheme", Extra: "median"}}))
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "unknown", V: 0}}))
}

func Test_diffdisl02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("diffdisl02. two compositions")

	ctx := host.NewContext(2, "crust")
	o := new(DiffusionDislocation)
	prms := dbf.Params{
		param.List("densities", 3300, 2900),
		param.List("thermal expansivities", 3e-5, 2e-5),
		param.List("prefactors for diffusion creep", 1.5e-15, 1.5e-13),
		param.Str("viscosity averaging scheme", "arithmetic"),
	}
	require.NoError(tst, o.Init(ctx, prms))
	chk.Float64(tst, "RefDensity", 1e-15, o.RefDensity(), 3300)

	T, p := 1500.0, 2e9
	in := onePoint(ctx, 0, T, p, 0.25)
	in.StrainRate = []*mat.SymDense{pureShear(2, 1e-16)}
	out := NewOutputs(1, 1)
	o.Evaluate(in, out)
	ρ := 0.75*3300*(1-3e-5*(T-293)) + 0.25*2900*(1-2e-5*(T-293))
	chk.Float64(tst, "ρ", 1e-10, out.Density[0], ρ)
	chk.Float64(tst, "α", 1e-18, out.Expansivity[0], 0.75*3e-5+0.25*2e-5)

	// the weak composition lowers the arithmetic average
	one := NewOutputs(1, 1)
	in.Composition[0][0] = 0
	o.Evaluate(in, one)
	assert.Less(tst, out.Viscosity[0], one.Viscosity[0])

	// wrong list length
	prms = dbf.Params{param.List("densities", 3300, 2900, 2800)}
	assert.Error(tst, o.Init(ctx, prms))
}

func Test_damage01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("damage01. grain size evolution")

	ctx := host.NewContext(2, OlivineGrainSize)
	ctx.TimestepNumber, ctx.Timestep = 1, 1e3*host.YearInSeconds
	o := new(Damage)
	require.NoError(tst, o.Init(ctx, nil))

	T, p, d := 1600.0, 3e9, 1e-3
	in := onePoint(ctx, 0, T, p, d)
	in.StrainRate = []*mat.SymDense{pureShear(2, 1e-14)}
	out := NewOutputs(1, 1)
	o.Evaluate(in, out)

	x := in.Position[0]
	edot := host.EdotII(in.StrainRate[0])
	v := o.Creep.Viscosity(ctx, x, T, p, d, edot)
	chk.Float64(tst, "η", 1e-14*out.Viscosity[0], out.Viscosity[0], math.Min(math.Max(v.Effective, 1e18), 1e26))
	visc := func(dd float64) rheology.Viscosities { return o.Creep.Viscosity(ctx, x, T, p, dd, edot) }
	delta, _ := o.Evo.Step(ctx.Timestep, d, T, p, edot, 0, -1, visc)
	io.Pforan("Δd = %v\n", delta)
	chk.Float64(tst, "Δd", 1e-15, out.ReactionTerms[0][0], delta)
	chk.Float64(tst, "ρ", 1e-9, out.Density[0], (3300+100*d)*math.Exp(4e-12*p)*(1-2e-5*(T-293)))
	chk.Float64(tst, "κ", 1e-25, out.Compressibility[0], 4e-12)

	// logarithm of grain size
	require.NoError(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "advect logarithm of grain size", V: 1}}))
	in.Composition[0][0] = -math.Log(d)
	dd := o.GrainSize(in.Composition[0])
	chk.Float64(tst, "d from log", 1e-15, dd, d)
	o.Evaluate(in, out)
	delta, _ = o.Evo.Step(ctx.Timestep, dd, T, p, edot, 0, -1, func(s float64) rheology.Viscosities {
		return o.Creep.Viscosity(ctx, x, T, p, s, edot)
	})
	chk.Float64(tst, "Δ(-ln d)", 1e-12, out.ReactionTerms[0][0], grainsize.LogRate(delta, dd))

	// splitting
	ctx.OperatorSplitting = true
	out.AllocRates()
	o.Evaluate(in, out)
	chk.Float64(tst, "term with splitting", 1e-15, out.ReactionTerms[0][0], 0)
	chk.Float64(tst, "rate", 1e-20, out.ReactionRates[0][0], grainsize.LogRate(delta, dd)/ctx.Timestep)

	// seismic velocities need tables
	_, err := o.Vp(T, p, in.Composition[0])
	assert.Error(tst, err)
	require.NoError(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "reference compressibility", V: 0}}))
	_, err = o.Vs(T, p, in.Composition[0])
	assert.Error(tst, err)
	assert.False(tst, o.Compressible())
}

func Test_damage02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("damage02. recrystallisation across a phase transition")

	ctx := host.NewContext(2, OlivineGrainSize)
	box := &host.Box{Dim: 2, Height: 1000e3}
	ctx.Geometry = box
	var err error
	ctx.Adiabat, err = host.NewLinearProfile(box, 0, 1600, 3300, 9.81, 2e-5, 1250, 1000e3, 201)
	require.NoError(tst, err)
	ctx.TimestepNumber, ctx.Timestep = 1, 1e3*host.YearInSeconds

	prms := dbf.Params{
		param.List("phase transition depths", 410e3),
		param.List("phase transition temperatures", 1780),
		param.List("phase transition widths", 5e3),
		param.List("phase transition clapeyron slopes", 0),
		param.Str("corresponding phase for transition", "wadsleyite"),
		param.List("recrystallized grain size", 2e-3),
		&dbf.P{N: "lower mantle grain size scaling", V: 10},
	}
	o := new(Damage)
	require.NoError(tst, o.Init(ctx, prms))
	chk.Int(tst, "transitions", o.Trans.N(), 1)
	chk.Float64(tst, "scaled prefactor", 1e-25, o.Creep.Diffusion[1].A, 7.4e-15*1000)
	chk.Float64(tst, "scaled growth rate", 1e-20, o.Evo.Phases[1].GrowthRate, 1.5e-5/100)

	// just below the transition, moving down
	x := box.RepresentativePoint(411e3)
	T, p, d0 := 1700.0, ctx.Adiabat.Pressure(x), 1e-2
	in := onePoint(ctx, 411e3, T, p, d0)
	in.StrainRate = []*mat.SymDense{pureShear(2, 1e-15)}
	in.Velocity = [][]float64{{0, -1e-9}}
	out := NewOutputs(1, 1)
	o.Evaluate(in, out)
	chk.Float64(tst, "recrystallised", 1e-15, out.ReactionTerms[0][0], 2e-3-d0)

	// moving up: no crossing
	in.Velocity[0][1] = 1e-9
	o.Evaluate(in, out)
	_, phase := o.Creep.Phase(ctx, x, T, p)
	chk.Int(tst, "phase", phase, 1)
	edot := host.EdotII(in.StrainRate[0])
	delta, _ := o.Evo.Step(ctx.Timestep, d0, T, p, edot, phase, -1, func(d float64) rheology.Viscosities {
		return o.Creep.Viscosity(ctx, x, T, p, d, edot)
	})
	chk.Float64(tst, "growth only", 1e-15, out.ReactionTerms[0][0], delta)

	// mismatched lists
	prms[5] = param.List("recrystallized grain size", 2e-3, 1e-3)
	assert.Error(tst, o.Init(ctx, prms))
}

func Test_damage03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("damage03. table properties")

	dir := tst.TempDir()
	require.NoError(tst, os.WriteFile(filepath.Join(dir, "uniform.tab"), []byte(uniformPerplex), 0644))
	ctx := host.NewContext(2, OlivineGrainSize)
	ctx.DataDir = dir
	o := new(Damage)
	prms := dbf.Params{
		&dbf.P{N: "use table properties", V: 1},
		param.Str("material file names", "uniform.tab"),
	}
	require.NoError(tst, o.Init(ctx, prms))
	assert.True(tst, o.Compressible())

	T, p := 1600.0, 5e9
	in := onePoint(ctx, 0, T, p, 1e-3)
	out := NewOutputs(1, 1)
	o.Evaluate(in, out)
	chk.Float64(tst, "ρ", 1e-9, out.Density[0], 3300)
	chk.Float64(tst, "α clamped", 1e-15, out.Expansivity[0], 1e-3)
	chk.Float64(tst, "cp clamped", 1e-12, out.SpecificHeat[0], 500)
	chk.Float64(tst, "κ", 1e-20, out.Compressibility[0], 0)
	vp, err := o.Vp(T, p, in.Composition[0])
	require.NoError(tst, err)
	chk.Float64(tst, "vp", 1e-15, vp, 8)
	vs, err := o.Vs(T, p, in.Composition[0])
	require.NoError(tst, err)
	chk.Float64(tst, "vs", 1e-15, vs, 4.5)

	// missing file
	prms[1] = param.Str("material file names", "none.tab")
	assert.Error(tst, o.Init(ctx, prms))
}

func Test_viscoelastic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("viscoelastic01. Maxwell stress update")

	ctx := host.NewContext(2, StressFields(2)...)
	dte := 1e3 * host.YearInSeconds
	ctx.Timestep = dte
	o := new(Viscoelastic)
	require.NoError(tst, o.Init(ctx, nil))

	η, G := 1e21, 75e9
	ηve := η * dte / (dte + η/G)
	e := 1e-15

	// first step: properties only
	in := onePoint(ctx, 0, 1600, 1e9)
	in.StrainRate = []*mat.SymDense{pureShear(2, e)}
	in.Old.VelocityGradient = []*mat.Dense{mat.NewDense(2, 2, nil)}
	out := NewOutputs(1, 3)
	out.AllocElastic(2)
	o.Evaluate(in, out)
	chk.Float64(tst, "Δt_e", 1e-6, o.ElasticTimestep(), 1e3*host.YearInSeconds)
	chk.Float64(tst, "η_ve", 1e7, out.Viscosity[0], ηve)
	chk.Float64(tst, "G", 1e-3, out.Elastic.ShearModulus[0], G)
	chk.Array(tst, "terms @ 0", 1e-15, out.ReactionTerms[0], []float64{0, 0, 0})

	// stress from rest
	ctx.TimestepNumber = 1
	o.Evaluate(in, out)
	chk.Array(tst, "terms from rest", 1e-6, out.ReactionTerms[0], []float64{2 * ηve * e, -2 * ηve * e, 0})
	chk.Array(tst, "force from rest", 1e-15, out.Elastic.Force[0], []float64{0, 0, 0})

	// stress history and rotation
	a, b, c := 1e6, -1e6, 5e5
	in = onePoint(ctx, 0, 1600, 1e9, a, b, c)
	in.StrainRate = []*mat.SymDense{pureShear(2, e)}
	g := 2e-15
	in.Old.VelocityGradient = []*mat.Dense{mat.NewDense(2, 2, []float64{0, g, 0, 0})}
	o.Evaluate(in, out)
	w := g / 2
	f := ηve / (G * dte)
	σ := []float64{
		2*ηve*e + f*a + ηve/G*2*w*c,
		-2*ηve*e + f*b - ηve/G*2*w*c,
		f*c + ηve/G*w*(b-a),
	}
	chk.Array(tst, "terms", 1e-6, out.ReactionTerms[0], []float64{σ[0] - a, σ[1] - b, σ[2] - c})
	chk.Array(tst, "force", 1e-9, out.Elastic.Force[0], []float64{-f * a, -f * b, -f * c})

	// errors
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "use stress averaging", V: 1}}))
	assert.Error(tst, o.Init(ctx, dbf.Params{&dbf.P{N: "fixed elastic time step", V: -1}}))
	assert.Error(tst, o.Init(host.NewContext(2, "stress_yy", "stress_xx", "stress_xy"), nil))
}

func Test_projected01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("projected01")

	ctx := host.NewContext(2, ProjectedDensityField)
	o := new(ProjectedDensity)
	require.NoError(tst, o.Init(ctx, nil))
	assert.True(tst, o.Compressible())

	T, p := 1293.0, 1e9
	in := onePoint(ctx, 0, T, p, 3000)
	out := NewOutputs(1, 1)
	o.Evaluate(in, out)
	ρ := 3300 * math.Exp(4e-12*p) * (1 - 2e-5*1000)
	chk.Float64(tst, "ρ", 1e-9, out.Density[0], ρ)
	chk.Float64(tst, "term", 1e-9, out.ReactionTerms[0][0], ρ-3000)

	ctx.OperatorSplitting, ctx.TimestepNumber, ctx.Timestep = true, 1, 10
	out.AllocRates()
	o.Evaluate(in, out)
	chk.Float64(tst, "term with splitting", 1e-15, out.ReactionTerms[0][0], 0)
	chk.Float64(tst, "rate", 1e-10, out.ReactionRates[0][0], (ρ-3000)/10)
}
