// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package melting

import (
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// curve samples y(x) at np points in [x0, x1]
func curve(x0, x1 float64, np int, y func(x float64) float64) plotter.XYs {
	X := utl.LinSpace(x0, x1, np)
	res := make(plotter.XYs, np)
	for i, x := range X {
		res[i].X, res[i].Y = x, y(x)
	}
	return res
}

// PlotCurves plots the solidus, lherzolite liquidus and liquidus of o versus
// pressure (GPa) up to pmax, and the melt fraction versus temperature along
// the isobar piso. Files are written to dirout as fnkey-curves and
// fnkey-fraction with the extension in fnkey (.png, .svg, .pdf)
func PlotCurves(o *Katz, dirout, fnkey string, pmax, piso float64, np int) (err error) {
	if np < 2 {
		return chk.Err("at least two points are needed to plot; np=%d is invalid", np)
	}
	ext := filepath.Ext(fnkey)
	if ext == "" {
		ext = ".png"
	}
	key := fnkey[:len(fnkey)-len(filepath.Ext(fnkey))]

	// melting curves
	p := plot.New()
	p.Title.Text = "anhydrous peridotite melting"
	p.X.Label.Text = "pressure [GPa]"
	p.Y.Label.Text = "temperature [K]"
	gpa := func(f func(float64) float64) func(float64) float64 {
		return func(x float64) float64 { return f(x * 1e9) }
	}
	err = plotutil.AddLines(p,
		"solidus", curve(0, pmax/1e9, np, gpa(o.Solidus)),
		"lherzolite liquidus", curve(0, pmax/1e9, np, gpa(o.LherzLiquidus)),
		"liquidus", curve(0, pmax/1e9, np, gpa(o.Liquidus)),
	)
	if err != nil {
		return
	}
	fn := filepath.Join(dirout, key+"-curves"+ext)
	if err = p.Save(6*vg.Inch, 4*vg.Inch, fn); err != nil {
		return
	}
	io.Pfblue2("file <%s> written\n", fn)

	// isobaric melt fraction
	q := plot.New()
	q.Title.Text = io.Sf("melt fraction at p = %g GPa", piso/1e9)
	q.X.Label.Text = "temperature [K]"
	q.Y.Label.Text = "F"
	T0, T1 := o.Solidus(piso)-50, o.Liquidus(piso)+50
	err = plotutil.AddLines(q,
		"F", curve(T0, T1, np, func(T float64) float64 { return o.Fraction(T, piso) }),
		"Fmax", curve(T0, T1, 2, func(float64) float64 { return o.CpxOut(piso) }),
	)
	if err != nil {
		return
	}
	fn = filepath.Join(dirout, key+"-fraction"+ext)
	if err = q.Save(6*vg.Inch, 4*vg.Inch, fn); err != nil {
		return
	}
	io.Pfblue2("file <%s> written\n", fn)
	return
}
