// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package material implements pointwise material models for mantle convection with melt transport
//  References:
//   [1] Katz RF, Spiegelman M and Langmuir CH (2003) A new parameterization of hydrous mantle melting.
//       Geochem. Geophys. Geosyst., 4(9)
//   [2] Dannberg J and Heister T (2016) Compressible magma/mantle dynamics: 3-D, adaptive
//       simulations in ASPECT. Geophys. J. Int., 207(3)
//   [3] Moresi L, Dufour F and Muhlhaus HB (2003) A Lagrangian integration point finite element
//       method for large deformation modeling of viscoelastic geomaterials. J. Comput. Phys., 184
package material

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"gonum.org/v1/gonum/mat"
)

// Inputs holds the state of n points
type Inputs struct {
	Position    [][]float64      // coordinates
	Temperature []float64        // temperature [K]
	Pressure    []float64        // pressure [Pa]
	Composition [][]float64      // compositional fields in the order of host.Fields
	StrainRate  []*mat.SymDense  // strain rate tensors; nil if viscosities are not needed
	Velocity    [][]float64      // velocities; may be nil
	Old         *Old             // solution of the previous time step; may be nil
}

// Old holds the solution of the previous time step at the same points
type Old struct {
	Composition      [][]float64  // compositional fields
	Temperature      []float64    // temperature
	VelocityGradient []*mat.Dense // velocity gradients
}

// NewInputs allocates inputs for n points with ncomp fields in dim dimensions
func NewInputs(n, ncomp, dim int) (o *Inputs) {
	o = &Inputs{
		Position:    make([][]float64, n),
		Temperature: make([]float64, n),
		Pressure:    make([]float64, n),
		Composition: make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		o.Position[i] = make([]float64, dim)
		o.Composition[i] = make([]float64, ncomp)
	}
	return
}

// N returns the number of points
func (o *Inputs) N() int {
	return len(o.Temperature)
}

// Outputs holds material properties at n points
type Outputs struct {
	Viscosity       []float64   // shear viscosity [Pa s]
	Density         []float64   // density [kg/m³]
	Compressibility []float64   // (1/ρ) ∂ρ/∂p [1/Pa]
	SpecificHeat    []float64   // cp [J/kg/K]
	Conductivity    []float64   // thermal conductivity [W/m/K]
	Expansivity     []float64   // thermal expansion coefficient [1/K]
	EntropyDerivT   []float64   // ∂S/∂T
	EntropyDerivP   []float64   // ∂S/∂p
	ReactionTerms   [][]float64 // change of each field
	ReactionRates   [][]float64 // rates [1/s] used by a split reaction solve; may be nil
	Melt            *MeltOutputs
	Elastic         *ElasticOutputs
}

// MeltOutputs holds properties needed by two-phase flow
type MeltOutputs struct {
	CompactionViscosity  []float64   // ξ [Pa s]
	FluidViscosity       []float64   // η_f [Pa s]
	Permeability         []float64   // k [m²]
	FluidDensity         []float64   // ρ_f [kg/m³]
	FluidCompressibility []float64   // β_f [1/Pa]
	FluidDensityGradient [][]float64 // ∇ρ_f
}

// ElasticOutputs holds properties of viscoelastic models
type ElasticOutputs struct {
	ShearModulus []float64   // G [Pa]
	Force        [][]float64 // stress history term of the momentum equation (tensor components)
}

// NewOutputs allocates outputs for n points with ncomp fields
func NewOutputs(n, ncomp int) (o *Outputs) {
	o = &Outputs{
		Viscosity:       make([]float64, n),
		Density:         make([]float64, n),
		Compressibility: make([]float64, n),
		SpecificHeat:    make([]float64, n),
		Conductivity:    make([]float64, n),
		Expansivity:     make([]float64, n),
		EntropyDerivT:   make([]float64, n),
		EntropyDerivP:   make([]float64, n),
		ReactionTerms:   make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		o.ReactionTerms[i] = make([]float64, ncomp)
	}
	return
}

// AllocRates allocates reaction rates
func (o *Outputs) AllocRates() {
	o.ReactionRates = make([][]float64, len(o.ReactionTerms))
	for i, r := range o.ReactionTerms {
		o.ReactionRates[i] = make([]float64, len(r))
	}
}

// AllocMelt allocates melt outputs
func (o *Outputs) AllocMelt(dim int) {
	n := len(o.Density)
	o.Melt = &MeltOutputs{
		CompactionViscosity:  make([]float64, n),
		FluidViscosity:       make([]float64, n),
		Permeability:         make([]float64, n),
		FluidDensity:         make([]float64, n),
		FluidCompressibility: make([]float64, n),
		FluidDensityGradient: make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		o.Melt.FluidDensityGradient[i] = make([]float64, dim)
	}
}

// AllocElastic allocates elastic outputs
func (o *Outputs) AllocElastic(dim int) {
	n := len(o.Density)
	o.Elastic = &ElasticOutputs{ShearModulus: make([]float64, n), Force: make([][]float64, n)}
	for i := 0; i < n; i++ {
		o.Elastic.Force[i] = make([]float64, host.NumComponents(dim))
	}
}

// Model defines material models evaluated point by point.
//  Evaluate only reads the model and the context; it can be called concurrently
type Model interface {
	Init(ctx *host.Context, prms dbf.Params) error // initialises model; all configuration errors are reported here
	GetPrms(example bool) dbf.Params               // gets (an example) of parameters
	Evaluate(in *Inputs, out *Outputs)             // computes properties; melt and elastic outputs are filled if allocated
	Compressible() bool                            // tells whether density depends on pressure
	RefViscosity() float64                         // reference viscosity
	RefDensity() float64                           // reference density
}

// MeltModel defines models providing the properties of two-phase flow
type MeltModel interface {
	Model
	EvaluateWithMelt(in *Inputs, out *Outputs) // allocates melt outputs if needed and evaluates
	ReferenceDarcyCoefficient() float64        // k(φ=0.01) / η_f
}

// MeltFractionModel defines models that compute equilibrium melt fractions
type MeltFractionModel interface {
	MeltFractions(in *Inputs, res []float64) // computes the melt fraction of each point
}

// SeismicModel defines models that compute seismic velocities
type SeismicModel interface {
	Vp(T, p float64, composition []float64) (float64, error) // P-wave velocity
	Vs(T, p float64, composition []float64) (float64, error) // S-wave velocity
}

// New returns a new material model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'material' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models; modelname => allocator
var allocators = map[string]func() Model{}

// evaluateWithMelt allocates melt outputs and calls Evaluate
func evaluateWithMelt(ctx *host.Context, mdl Model, in *Inputs, out *Outputs) {
	if out.Melt == nil {
		out.AllocMelt(ctx.Dim)
	}
	mdl.Evaluate(in, out)
}
