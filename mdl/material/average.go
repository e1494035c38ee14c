// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Averaging defines how properties of several compositions are combined
type Averaging int

// averaging schemes
const (
	Arithmetic Averaging = iota
	Harmonic
	Geometric
	MaximumComposition
)

// NewAveraging returns the averaging scheme named s
func NewAveraging(s string) (Averaging, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arithmetic":
		return Arithmetic, nil
	case "harmonic", "":
		return Harmonic, nil
	case "geometric":
		return Geometric, nil
	case "maximum composition", "maximum_composition":
		return MaximumComposition, nil
	}
	return Harmonic, chk.Err("averaging scheme %q is not available. Options are arithmetic, harmonic, geometric and maximum composition", s)
}

// String returns the name of the scheme
func (o Averaging) String() string {
	return [...]string{"arithmetic", "harmonic", "geometric", "maximum composition"}[o]
}

// VolumeFractions returns the fractions of the background and of each field.
//  Fields are limited to [0,1] and the first skip fields are ignored. If the
//  fields add up to more than one, they are normalised and the background is zero
func VolumeFractions(composition []float64, skip int) (vf []float64) {
	vf = make([]float64, len(composition)+1)
	for i, c := range composition {
		if i >= skip {
			vf[i+1] = clamp01(c)
		}
	}
	sum := floats.Sum(vf[1:])
	if sum >= 1 {
		floats.Scale(1/sum, vf[1:])
		return
	}
	vf[0] = 1 - sum
	return
}

// Average combines values with volume fractions vf
func (o Averaging) Average(vf, values []float64) (res float64) {
	switch o {
	case Arithmetic:
		return floats.Dot(vf, values)
	case Harmonic:
		for i, f := range vf {
			res += f / values[i]
		}
		return 1 / res
	case Geometric:
		for i, f := range vf {
			res += f * math.Log(values[i])
		}
		return math.Exp(res)
	}
	return values[floats.MaxIdx(vf)]
}
