// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Geometry converts between positions and depths
type Geometry interface {
	Depth(x []float64) float64                   // depth below the surface
	RepresentativePoint(depth float64) []float64 // a point at given depth
}

// Gravity gives the gravity vector
type Gravity interface {
	Vector(x []float64) []float64 // gravity at x
}

// Box is a rectangular domain; the last coordinate points up
type Box struct {
	Dim    int     // space dimension
	Height float64 // extent of the last coordinate
}

// Depth returns Height - x[dim-1]
func (o *Box) Depth(x []float64) float64 {
	return math.Max(0, o.Height-x[o.Dim-1])
}

// RepresentativePoint returns a point on the left boundary
func (o *Box) RepresentativePoint(depth float64) []float64 {
	x := make([]float64, o.Dim)
	x[o.Dim-1] = o.Height - depth
	return x
}

// Sphere is a spherical shell
type Sphere struct {
	Dim         int     // space dimension
	OuterRadius float64 // radius of the surface
}

// Depth returns R - |x|
func (o *Sphere) Depth(x []float64) float64 {
	return math.Max(0, o.OuterRadius-floats.Norm(x, 2))
}

// RepresentativePoint returns a point on the last axis
func (o *Sphere) RepresentativePoint(depth float64) []float64 {
	x := make([]float64, o.Dim)
	x[o.Dim-1] = o.OuterRadius - depth
	return x
}

// Vertical is a constant gravity pointing down the last coordinate
type Vertical struct {
	Dim int     // space dimension
	G   float64 // magnitude
}

// Vector returns (0, ..., -G)
func (o *Vertical) Vector(x []float64) []float64 {
	g := make([]float64, o.Dim)
	g[o.Dim-1] = -o.G
	return g
}

// Radial is a gravity of constant magnitude pointing to the centre
type Radial struct {
	G float64 // magnitude
}

// Vector returns -G x/|x|
func (o *Radial) Vector(x []float64) []float64 {
	g := make([]float64, len(x))
	r := floats.Norm(x, 2)
	if r == 0 {
		return g
	}
	floats.ScaleTo(g, -o.G/r, x)
	return g
}

// Magnitude returns |g(x)|
func Magnitude(grav Gravity, x []float64) float64 {
	return floats.Norm(grav.Vector(x), 2)
}
