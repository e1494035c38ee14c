// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package host holds what material models are allowed to know about the simulation that drives them
package host

import (
	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"
)

// YearInSeconds converts years to seconds
const YearInSeconds = 365.25 * 24.0 * 3600.0

// Context holds simulation data shared with all material models.
//  Note: the driver changes time step data between steps only;
//        models read the context during evaluation and never write to it
type Context struct {

	// problem
	Dim      int      // space dimension
	Fields   *Fields  // compositional fields
	Geometry Geometry // geometry model
	Gravity  Gravity  // gravity model
	Adiabat  Adiabat  // adiabatic reference profile; may be nil

	// conditions
	SurfacePressure float64 // pressure at the surface [Pa]
	Timestep        float64 // current time step [s]
	TimestepNumber  int     // current time step number

	// flags
	MeltTransport          bool    // two-phase flow is solved
	MeltTransportThreshold float64 // porosity above which melt moves
	OperatorSplitting      bool    // reactions are applied by a separate solve
	AdiabaticHeating       bool    // temperature deviations are measured from the adiabat

	// auxiliary
	DataDir string             // directory with data files
	Log     logrus.FieldLogger // diagnostics
}

// NewContext returns a context with a box geometry of unit height, vertical gravity and no adiabat
func NewContext(dim int, fieldNames ...string) *Context {
	return &Context{
		Dim:      dim,
		Fields:   NewFields(fieldNames...),
		Geometry: &Box{Dim: dim, Height: 1},
		Gravity:  &Vertical{Dim: dim, G: 9.81},
		Log:      logrus.StandardLogger(),
	}
}

// AdiabatReady tells whether the adiabatic profile can be used
func (o *Context) AdiabatReady() bool {
	return o.Adiabat != nil && o.Adiabat.Initialized()
}

// Logger returns the logger or the standard logger
func (o *Context) Logger() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// Require returns the index of a field that must exist
func (o *Context) Require(model, name string) (int, error) {
	idx, ok := o.Fields.Index(name)
	if !ok {
		return -1, chk.Err("%s: compositional field %q is required", model, name)
	}
	return idx, nil
}

// Check checks the consistency of the context. The context is not modified
func (o *Context) Check() error {
	if o.Dim != 2 && o.Dim != 3 {
		return chk.Err("space dimension must be 2 or 3; %d is invalid", o.Dim)
	}
	if o.Geometry == nil {
		return chk.Err("context requires a geometry model")
	}
	if o.Gravity == nil {
		return chk.Err("context requires a gravity model")
	}
	return nil
}

// Fields holds the names of compositional fields in solution order.
//  A nil *Fields has no fields
type Fields struct {
	names []string
	index map[string]int
}

// NewFields returns a new set of fields
func NewFields(names ...string) *Fields {
	o := &Fields{names: names, index: make(map[string]int)}
	for i, n := range names {
		o.index[n] = i
	}
	return o
}

// Index returns the index of a field
func (o *Fields) Index(name string) (int, bool) {
	if o == nil {
		return -1, false
	}
	i, ok := o.index[name]
	return i, ok
}

// Has tells whether a field exists
func (o *Fields) Has(name string) bool {
	_, ok := o.Index(name)
	return ok
}

// Name returns the name of field i
func (o *Fields) Name(i int) string {
	return o.names[i]
}

// Len returns the number of fields
func (o *Fields) Len() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// Names returns a copy of all names
func (o *Fields) Names() []string {
	if o == nil {
		return []string{}
	}
	return append([]string{}, o.names...)
}
