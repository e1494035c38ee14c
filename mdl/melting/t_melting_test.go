// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package melting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	chk.Verbose = true
}

// checkDerivs compares analytical derivatives with central differences
func checkDerivs(tst *testing.T, o Model, T, p float64) {
	hT, hp := 1e-4, 1e2
	dFdT, dFdp := o.Derivs(T, p)
	numT := (o.Fraction(T+hT, p) - o.Fraction(T-hT, p)) / (2 * hT)
	nump := (o.Fraction(T, p+hp) - o.Fraction(T, p-hp)) / (2 * hp)
	io.Pforan("T=%g p=%g  dFdT: ana=%g num=%g  dFdp: ana=%g num=%g\n", T, p, dFdT, numT, dFdp, nump)
	assert.InEpsilon(tst, numT, dFdT, 1e-5, "dFdT @ T=%g p=%g", T, p)
	assert.InEpsilon(tst, nump, dFdp, 1e-5, "dFdp @ T=%g p=%g", T, p)
}

func Test_katz01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("katz01")

	o := NewKatz()
	F := o.Fraction(1500, 1e9)
	io.Pforan("F(1500 K, 1 GPa) = %v\n", F)
	assert.Greater(tst, F, 0.0)
	assert.Less(tst, F, 1.0)

	for _, p := range []float64{0, 1e9, 3e9, 6e9, 1.2e10} {
		chk.Float64(tst, io.Sf("F(Tliq, %g)", p), 1e-15, o.Fraction(o.Liquidus(p), p), 1.0)
		chk.Float64(tst, io.Sf("F(Ts, %g)", p), 1e-15, o.Fraction(o.Solidus(p), p), 0.0)
	}

	// monotone and bounded
	for _, p := range utl.LinSpace(0, 1.2e10, 13) {
		prev := 0.0
		for _, T := range utl.LinSpace(1200, 2800, 801) {
			F := o.Fraction(T, p)
			require.True(tst, F >= 0 && F <= 1, "F=%g out of bounds @ T=%g p=%g", F, T, p)
			require.GreaterOrEqual(tst, F, prev, "not monotone @ T=%g p=%g", T, p)
			prev = F
		}
	}

	// high pressure cutoff
	for _, T := range []float64{1500, 2500, 5000} {
		chk.Float64(tst, "F above cutoff", 1e-17, o.Fraction(T, 1.3e10+1), 0)
		dFdT, dFdp := o.Derivs(T, 1.4e10)
		chk.Float64(tst, "dFdT above cutoff", 1e-17, dFdT, 0)
		chk.Float64(tst, "dFdp above cutoff", 1e-17, dFdp, 0)
	}
}

func Test_katz02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("katz02")

	o := NewKatz()

	// cpx present
	checkDerivs(tst, o, 1550, 1e9)
	checkDerivs(tst, o, 1850, 4e9)

	// cpx exhausted
	require.Greater(tst, o.Fraction(1850, 1e9), o.CpxOut(1e9))
	checkDerivs(tst, o, 1850, 1e9)
	checkDerivs(tst, o, 2000, 2e9)

	// outside the melting interval
	dFdT, dFdp := o.Derivs(1000, 1e9)
	chk.Float64(tst, "dFdT below solidus", 1e-17, dFdT, 0)
	chk.Float64(tst, "dFdp below solidus", 1e-17, dFdp, 0)
	dFdT, _ = o.Derivs(o.Liquidus(1e9)+1, 1e9)
	chk.Float64(tst, "dFdT above liquidus", 1e-17, dFdT, 0)

	// latent heat only above threshold
	dSdT, _ := o.EntropyChange(1550, 1e9, 0.5, 300)
	chk.Float64(tst, "dSdT below maxF", 1e-17, dSdT, 0)
	dSdT, _ = o.EntropyChange(1550, 1e9, 0, 300)
	dFdT, _ = o.Derivs(1550, 1e9)
	chk.Float64(tst, "dSdT", 1e-15, dSdT, 300*dFdT)
}

func Test_sobolev01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sobolev01")

	o := NewSobolev()
	p := 1e9
	Tm := o.Melting(p)
	chk.Float64(tst, "F(Tm)", 1e-15, o.Fraction(Tm-1e-9, p), 0)
	F := o.Fraction(1450, p)
	io.Pforan("X(1450 K, 1 GPa) = %v\n", F)
	assert.True(tst, F > 0 && F < o.FpxMax)
	chk.Float64(tst, "saturated", 1e-15, o.Fraction(3000, p), o.FpxMax)
	chk.Float64(tst, "cutoff", 1e-15, o.Fraction(3000, 1.31e10), 0)

	prev := 0.0
	for _, T := range utl.LinSpace(1300, 2500, 601) {
		F := o.Fraction(T, p)
		require.GreaterOrEqual(tst, F, prev)
		require.LessOrEqual(tst, F, o.FpxMax)
		prev = F
	}

	checkDerivs(tst, o, 1450, p)
	checkDerivs(tst, o, 1700, 3e9)
	dFdT, dFdp := o.Derivs(3000, p)
	chk.Float64(tst, "dFdT saturated", 1e-17, dFdT, 0)
	chk.Float64(tst, "dFdp saturated", 1e-17, dFdp, 0)
}

func Test_lithology01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lithology01")

	o := NewLithology()
	T, p := 1600.0, 2e9
	chk.Float64(tst, "peridotite", 1e-15, o.Fraction(T, p, 0), o.Peridotite.Fraction(T, p))
	chk.Float64(tst, "pyroxenite", 1e-15, o.Fraction(T, p, 1), o.Pyroxenite.Fraction(T, p))
	mix := 0.3*o.Pyroxenite.Fraction(T, p) + 0.7*o.Peridotite.Fraction(T, p)
	chk.Float64(tst, "mix", 1e-15, o.Fraction(T, p, 0.3), mix)

	dSdT, dSdp := o.EntropyDerivs(T, p, 0.3)
	dFdT, dFdp := o.Peridotite.Derivs(T, p)
	dXdT, dXdp := o.Pyroxenite.Derivs(T, p)
	chk.Float64(tst, "dSdT", 1e-15, dSdT, 0.7*300*dFdT+0.3*400*dXdT)
	chk.Float64(tst, "dSdp", 1e-20, dSdp, 0.7*300*dFdp+0.3*400*dXdp)
}

func Test_linear01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linear01")

	o := NewLinear()
	chk.Float64(tst, "solidus", 1e-12, o.Solidus(1e9, 0), 1360)
	chk.Float64(tst, "depleted solidus", 1e-12, o.Solidus(1e9, 0.5), 1460)
	chk.Float64(tst, "solidus floor", 1e-12, o.Solidus(0, -5), 1100)
	chk.Float64(tst, "F below", 1e-15, o.Fraction(1300, 1e9), 0)
	chk.Float64(tst, "F mid", 1e-15, o.Fraction(1610, 1e9), 0.5)
	chk.Float64(tst, "F above", 1e-15, o.Fraction(2000, 1e9), 1)
	chk.Float64(tst, "F depleted", 1e-15, o.FractionDepleted(1610, 1e9, 0.5), 0.3)
	checkDerivs(tst, o, 1610, 1e9)
}

func Test_factory01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("factory01")

	for _, name := range []string{"katz", "sobolev", "linear"} {
		o, err := New(name)
		require.NoError(tst, err)
		require.NoError(tst, o.Init(o.GetPrms(true)))
	}
	_, err := New("hydrous")
	assert.Error(tst, err)

	o, err := New("katz")
	require.NoError(tst, err)
	require.NoError(tst, o.Init(dbf.Params{&dbf.P{N: "beta", V: 2}}))
	chk.Float64(tst, "beta", 1e-15, o.(*Katz).Beta, 2)
	chk.Float64(tst, "A1 default", 1e-15, o.(*Katz).A1, 1085.7)
	assert.Error(tst, o.Init(dbf.Params{&dbf.P{N: "gamma", V: 2}}))
	assert.Error(tst, o.Init(dbf.Params{&dbf.P{N: "beta", V: 0}}))
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01")

	dir := tst.TempDir()
	require.NoError(tst, PlotCurves(NewKatz(), dir, "katz.png", 1e10, 1e9, 41))
	for _, fn := range []string{"katz-curves.png", "katz-fraction.png"} {
		_, err := os.Stat(filepath.Join(dir, fn))
		assert.NoError(tst, err, fn)
	}
	assert.Error(tst, PlotCurves(NewKatz(), dir, "katz.png", 1e10, 1e9, 1))
}
