// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Deviator returns dev(a) = a - tr(a)/dim I
func Deviator(a *mat.SymDense) *mat.SymDense {
	n := a.SymmetricDim()
	tr := mat.Trace(a) / float64(n)
	dev := mat.NewSymDense(n, nil)
	dev.CopySym(a)
	for i := 0; i < n; i++ {
		dev.SetSym(i, i, a.At(i, i)-tr)
	}
	return dev
}

// EdotII returns the square root of the absolute second invariant of dev(ε)
//  EdotII = sqrt(½ dev(ε):dev(ε))
func EdotII(strainRate *mat.SymDense) float64 {
	if strainRate == nil {
		return 0
	}
	dev := Deviator(strainRate)
	n := dev.SymmetricDim()
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += dev.At(i, j) * dev.At(i, j)
		}
	}
	return math.Sqrt(0.5 * sum)
}

// Rotation returns the antisymmetric part of a velocity gradient
//  W = ½ (∇v - ∇vᵀ)
func Rotation(grad mat.Matrix) *mat.Dense {
	var w mat.Dense
	w.Sub(grad, grad.T())
	w.Scale(0.5, &w)
	return &w
}

// Symmetrize returns ½ (a + aᵀ)
func Symmetrize(a mat.Matrix) *mat.SymDense {
	r, _ := a.Dims()
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}

// Components returns the independent components of a symmetric tensor
//  2D: xx, yy, xy
//  3D: xx, yy, zz, xy, xz, yz
func Components(a *mat.SymDense) []float64 {
	if a.SymmetricDim() == 2 {
		return []float64{a.At(0, 0), a.At(1, 1), a.At(0, 1)}
	}
	return []float64{a.At(0, 0), a.At(1, 1), a.At(2, 2), a.At(0, 1), a.At(0, 2), a.At(1, 2)}
}

// FromComponents assembles a symmetric tensor from its independent components
func FromComponents(dim int, c []float64) *mat.SymDense {
	a := mat.NewSymDense(dim, nil)
	if dim == 2 {
		a.SetSym(0, 0, c[0])
		a.SetSym(1, 1, c[1])
		a.SetSym(0, 1, c[2])
		return a
	}
	a.SetSym(0, 0, c[0])
	a.SetSym(1, 1, c[1])
	a.SetSym(2, 2, c[2])
	a.SetSym(0, 1, c[3])
	a.SetSym(0, 2, c[4])
	a.SetSym(1, 2, c[5])
	return a
}

// NumComponents returns the number of independent components of a symmetric tensor
func NumComponents(dim int) int {
	return dim * (dim + 1) / 2
}
