// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func verbose() {
	chk.Verbose = true
}

// pureShear returns diag(e, -e, 0)
func pureShear(dim int, e float64) *mat.SymDense {
	s := mat.NewSymDense(dim, nil)
	s.SetSym(0, 0, e)
	s.SetSym(1, 1, -e)
	return s
}

// onePoint returns inputs for one point at depth with composition c; old values equal the current ones
func onePoint(ctx *host.Context, depth, T, p float64, c ...float64) *Inputs {
	in := NewInputs(1, ctx.Fields.Len(), ctx.Dim)
	copy(in.Position[0], ctx.Geometry.RepresentativePoint(depth))
	in.Temperature[0], in.Pressure[0] = T, p
	copy(in.Composition[0], c)
	in.Old = &Old{
		Composition: [][]float64{append([]float64{}, in.Composition[0]...)},
		Temperature: []float64{T},
	}
	return in
}

func Test_clamp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("clamp01. melting rates keep fields within [0,1]")

	chk.Float64(tst, "inside", 1e-15, ClampMelting(0.2, 0.5), 0.5)
	chk.Float64(tst, "below", 1e-15, ClampMelting(0.2, -0.5), -0.2)
	chk.Float64(tst, "above", 1e-15, ClampMelting(0.8, 0.5), 0.2)

	rnd := rand.New(rand.NewSource(1234))
	for k := 0; k < 1000; k++ {
		old := rnd.Float64()
		rate := 4*rnd.Float64() - 2
		r := ClampMelting(old, rate)
		require.True(tst, old+r >= -1e-15 && old+r <= 1+1e-15, "old=%g rate=%g => %g", old, rate, old+r)
		if old+rate >= 0 && old+rate <= 1 {
			require.Equal(tst, rate, r)
		}
	}
}

func Test_splitting01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("splitting01. reactions become rates")

	ctx := host.NewContext(2, Porosity, Peridotite)
	ctx.TimestepNumber, ctx.Timestep = 1, 10

	// no splitting: nothing changes
	out := NewOutputs(1, 2)
	out.ReactionTerms[0][0], out.ReactionTerms[0][1] = 1, 2
	applySplitting(ctx, out, 0, []float64{5, 6})
	chk.Array(tst, "terms", 1e-15, out.ReactionTerms[0], []float64{1, 2})

	// splitting
	ctx.OperatorSplitting = true
	out.AllocRates()
	applySplitting(ctx, out, 0, []float64{5, 6})
	chk.Array(tst, "terms", 1e-15, out.ReactionTerms[0], []float64{0, 0})
	chk.Array(tst, "rates", 1e-15, out.ReactionRates[0], []float64{0.5, 0.6})

	// first step: no rates
	ctx.TimestepNumber = 0
	applySplitting(ctx, out, 0, []float64{5, 6})
	chk.Array(tst, "rates @ 0", 1e-15, out.ReactionRates[0], []float64{0, 0})

	// old values
	in := onePoint(ctx, 0, 1600, 1e9, 0.1, 0.2)
	in.Old.Composition[0][0] = 0.05
	chk.Float64(tst, "old with splitting", 1e-15, oldField(ctx, in, 0, 0), 0.1)
	ctx.OperatorSplitting, ctx.MeltTransport, ctx.TimestepNumber = false, true, 3
	chk.Float64(tst, "old from previous step", 1e-15, oldField(ctx, in, 0, 0), 0.05)
	in.Old = nil
	chk.Float64(tst, "no previous step", 1e-15, oldField(ctx, in, 0, 0), 0)
	chk.Float64(tst, "missing field", 1e-15, oldField(ctx, in, 0, -1), 0)
}

func Test_average01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("average01")

	vf := VolumeFractions([]float64{0.25, 0.25}, 0)
	chk.Array(tst, "vf", 1e-15, vf, []float64{0.5, 0.25, 0.25})
	vf = VolumeFractions([]float64{1.5, 0.5, -1}, 0)
	chk.Array(tst, "vf normalised", 1e-15, vf, []float64{0, 2.0 / 3.0, 1.0 / 3.0, 0})
	vf = VolumeFractions([]float64{7, 7, 0.3}, 2)
	chk.Array(tst, "vf skip", 1e-15, vf, []float64{0.7, 0, 0, 0.3})

	vals := []float64{1, 4, 16}
	vf = []float64{0.5, 0.25, 0.25}
	chk.Float64(tst, "arithmetic", 1e-15, Arithmetic.Average(vf, vals), 0.5+1+4)
	chk.Float64(tst, "harmonic", 1e-15, Harmonic.Average(vf, vals), 1/(0.5+0.25/4+0.25/16))
	chk.Float64(tst, "geometric", 1e-14, Geometric.Average(vf, vals), math.Pow(4, 0.25)*math.Pow(16, 0.25))
	chk.Float64(tst, "maximum composition", 1e-15, MaximumComposition.Average(vf, vals), 1)

	for _, name := range []string{"arithmetic", "harmonic", "geometric", "maximum composition"} {
		a, err := NewAveraging(name)
		require.NoError(tst, err)
		assert.Equal(tst, name, a.String())
	}
	_, err := NewAveraging("normalized weighted")
	assert.Error(tst, err)
}

func Test_registry01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("registry01. all models initialise with their own parameters")

	_, err := New("nonexistent")
	assert.Error(tst, err)

	names := make([]string, 0, len(allocators))
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Len(tst, names, 9)

	fields := append(StressFields(2), Porosity, Peridotite, OlivineGrainSize, ProjectedDensityField)
	for _, name := range names {
		io.Pforan("%s\n", name)
		ctx := host.NewContext(2, fields...)
		mdl, err := New(name)
		require.NoError(tst, err, name)
		require.NoError(tst, mdl.Init(ctx, mdl.GetPrms(false)), name)
		assert.Greater(tst, mdl.RefViscosity(), 0.0, name)
		assert.Greater(tst, mdl.RefDensity(), 0.0, name)

		// every model fills all properties
		in := onePoint(ctx, 0.5, 1600, 1e9, 0, 0, 0, 0.01, 0.01, 1e-3, 3300)
		in.StrainRate = []*mat.SymDense{pureShear(2, 1e-15)}
		out := NewOutputs(1, ctx.Fields.Len())
		mdl.Evaluate(in, out)
		assert.False(tst, math.IsNaN(out.Density[0]), name)
		assert.Greater(tst, out.Viscosity[0], 0.0, name)
	}
}

func Test_registry02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("registry02. configuration errors")

	ctx := host.NewContext(2, Porosity)
	ctx.MeltTransport = true

	// missing fields
	for _, name := range []string{"melt simple", "melt peridotite eclogite", "damage rheology", "projected density", "viscoelastic"} {
		mdl, err := New(name)
		require.NoError(tst, err)
		assert.Error(tst, mdl.Init(ctx, nil), name)
	}

	// unknown parameter
	mdl, _ := New("melt simple")
	err := mdl.Init(host.NewContext(2, Porosity, Peridotite), dbf.Params{&dbf.P{N: "bogus", V: 1}})
	require.Error(tst, err)
	assert.Contains(tst, err.Error(), "bogus")
}
