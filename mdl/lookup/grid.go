// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lookup implements tables of material properties on temperature-pressure grids
package lookup

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Grid defines a regular temperature-pressure grid.
//  Values are stored as v[iT][ip]
type Grid struct {
	MinT, DeltaT, MaxT float64 // temperature axis [K]
	NumT               int     // number of temperatures
	MinP, DeltaP, MaxP float64 // pressure axis [Pa]
	NumP               int     // number of pressures
}

// SetAxes sets both axes from minimum, increment and count
func (o *Grid) SetAxes(minT, deltaT float64, numT int, minP, deltaP float64, numP int) (err error) {
	if deltaT <= 0 || deltaP <= 0 {
		return chk.Err("grid increments must be positive: ΔT=%g, Δp=%g", deltaT, deltaP)
	}
	if numT < 2 || numP < 2 {
		return chk.Err("grid requires at least two temperatures and two pressures: nT=%d, np=%d", numT, numP)
	}
	if minT < 0 || minP < 0 {
		return chk.Err("grid minima must not be negative: Tmin=%g, pmin=%g", minT, minP)
	}
	o.MinT, o.DeltaT, o.NumT = minT, deltaT, numT
	o.MinP, o.DeltaP, o.NumP = minP, deltaP, numP
	o.MaxT = minT + float64(numT-1)*deltaT
	o.MaxP = minP + float64(numP-1)*deltaP
	return
}

// SetRange sets both axes from minimum, maximum and count
func (o *Grid) SetRange(minT, maxT float64, numT int, minP, maxP float64, numP int) (err error) {
	if numT < 2 || numP < 2 {
		return chk.Err("grid requires at least two temperatures and two pressures: nT=%d, np=%d", numT, numP)
	}
	err = o.SetAxes(minT, (maxT-minT)/float64(numT-1), numT, minP, (maxP-minP)/float64(numP-1), numP)
	if err != nil {
		return
	}
	o.MaxT, o.MaxP = maxT, maxP
	return
}

// Alloc allocates one property array
func (o *Grid) Alloc() [][]float64 {
	v := make([][]float64, o.NumT)
	for i := range v {
		v[i] = make([]float64, o.NumP)
	}
	return v
}

// index returns the lower cell index and the local coordinate of x on an axis.
//  x is clamped into [min, max]; the cell index is capped at n-2 so that the
//  upper edge belongs to the last cell with coordinate 1
func index(x, min, max, delta float64, n int) (i int, frac float64) {
	x = math.Min(math.Max(x, min), max)
	r := (x - min) / delta
	i = int(r)
	if i > n-2 {
		i = n - 2
	}
	frac = math.Min(math.Max(r-float64(i), 0), 1)
	return
}

// Value returns the value of v at (T, p).
//  interp == false: value at the lower-left node of the cell
//  interp == true:  bilinear interpolation of the four cell nodes
func (o *Grid) Value(T, p float64, v [][]float64, interp bool) float64 {
	iT, ξ := index(T, o.MinT, o.MaxT, o.DeltaT, o.NumT)
	ip, η := index(p, o.MinP, o.MaxP, o.DeltaP, o.NumP)
	if !interp {
		if ξ >= 1 {
			iT++
		}
		if η >= 1 {
			ip++
		}
		return v[iT][ip]
	}
	return (1-ξ)*(1-η)*v[iT][ip] +
		ξ*(1-η)*v[iT+1][ip] +
		(1-ξ)*η*v[iT][ip+1] +
		ξ*η*v[iT+1][ip+1]
}
