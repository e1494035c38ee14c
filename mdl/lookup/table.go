// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lookup

import (
	"github.com/cpmech/gosl/chk"
)

// Table holds rock properties on a temperature-pressure grid.
//  A Table is read once and never modified afterwards; it can be shared
//  by any number of concurrent readers
type Table struct {
	Grid

	// flags
	Interp bool // use bilinear interpolation

	// properties
	Density      [][]float64 // ρ [kg/m³]
	Expansivity  [][]float64 // α [1/K]
	SpecificHeat [][]float64 // cp [J/kg/K]
	Vp           [][]float64 // P-wave velocity [km/s]
	Vs           [][]float64 // S-wave velocity [km/s]
	Enthalpy     [][]float64 // h [J/kg]
}

// alloc allocates all property arrays
func (o *Table) alloc() {
	o.Density = o.Alloc()
	o.Expansivity = o.Alloc()
	o.SpecificHeat = o.Alloc()
	o.Vp = o.Alloc()
	o.Vs = o.Alloc()
	o.Enthalpy = o.Alloc()
}

// Rho returns the density
func (o *Table) Rho(T, p float64) float64 {
	return o.Value(T, p, o.Density, o.Interp)
}

// Alpha returns the thermal expansivity
func (o *Table) Alpha(T, p float64) float64 {
	return o.Value(T, p, o.Expansivity, o.Interp)
}

// Cp returns the specific heat
func (o *Table) Cp(T, p float64) float64 {
	return o.Value(T, p, o.SpecificHeat, o.Interp)
}

// SeismicVp returns the P-wave velocity; never interpolated
func (o *Table) SeismicVp(T, p float64) float64 {
	return o.Value(T, p, o.Vp, false)
}

// SeismicVs returns the S-wave velocity; never interpolated
func (o *Table) SeismicVs(T, p float64) float64 {
	return o.Value(T, p, o.Vs, false)
}

// H returns the enthalpy; always interpolated
func (o *Table) H(T, p float64) float64 {
	return o.Value(T, p, o.Enthalpy, true)
}

// DHdT returns ∂h/∂T by forward differences with step ΔT
func (o *Table) DHdT(T, p float64) float64 {
	h := o.Value(T, p, o.Enthalpy, o.Interp)
	dh := o.Value(T+o.DeltaT, p, o.Enthalpy, o.Interp)
	return (dh - h) / o.DeltaT
}

// DHdp returns ∂h/∂p by forward differences with step Δp
func (o *Table) DHdp(T, p float64) float64 {
	h := o.Value(T, p, o.Enthalpy, o.Interp)
	dh := o.Value(T, p+o.DeltaP, o.Enthalpy, o.Interp)
	return (dh - h) / o.DeltaP
}

// DRhodp returns ∂ρ/∂p by forward differences with step Δp
func (o *Table) DRhodp(T, p float64) float64 {
	rho := o.Value(T, p, o.Density, o.Interp)
	drho := o.Value(T, p+o.DeltaP, o.Density, o.Interp)
	return (drho - rho) / o.DeltaP
}

// Blend computes Σ c[i] f(tables[i]); a single table is used as is
func Blend(tables []*Table, c []float64, f func(t *Table) float64) (res float64) {
	if len(tables) == 1 {
		return f(tables[0])
	}
	for i, t := range tables {
		res += c[i] * f(t)
	}
	return
}

// Reader reads tables of a given format
type Reader interface {
	Load(filename, derivatives string, interp bool) (*Table, error) // reads a table from files
}

// New returns a table reader
func New(format string) (Reader, error) {
	allocator, ok := allocators[format]
	if !ok {
		return nil, chk.Err("format %q is not available in 'lookup' database", format)
	}
	return allocator(), nil
}

// allocators holds all available readers
var allocators = map[string]func() Reader{}
