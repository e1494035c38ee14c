// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package melting implements parameterisations of anhydrous mantle melting
//  References:
//   [1] Katz RF, Spiegelman M and Langmuir CH (2003) A new parameterization of hydrous
//       mantle melting. Geochemistry, Geophysics, Geosystems, 4(9), 1073
//   [2] Sobolev AV et al. (2011) Linking mantle plumes, large igneous provinces and
//       environmental catastrophes. Nature, 477, 312-316
package melting

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// constants
const (
	ZeroCelsius = 273.15 // [K]
	MaxPressure = 1.3e10 // pressure above which no melt is produced [Pa]
)

// Model implements an equilibrium melt fraction law F(T, p)
type Model interface {
	Init(prms dbf.Params) error               // initialises model
	GetPrms(example bool) dbf.Params          // gets (an example) of parameters
	Fraction(T, p float64) float64            // equilibrium melt fraction
	Derivs(T, p float64) (dFdT, dFdp float64) // derivatives of the melt fraction
}

// New returns a new melting model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'melting' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// quadratic returns c1 + 273.15 + c2 p + c3 p² and its derivative
func quadratic(c1, c2, c3, p float64) (T, dTdp float64) {
	return c1 + ZeroCelsius + c2*p + c3*p*p, c2 + 2*c3*p
}
