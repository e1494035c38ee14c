// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// PathPoint is one point of a pressure-temperature path
type PathPoint struct {
	Depth float64 // depth below the surface [m]
	T     float64 // temperature [K]
	P     float64 // pressure [Pa]
}

// State holds the results at one point of a path
type State struct {
	PathPoint
	Composition  []float64 // compositional fields after reactions
	Viscosity    float64   // shear viscosity [Pa s]
	Density      float64   // density [kg/m³]
	MeltFraction float64   // equilibrium melt fraction; zero if the model does not compute it
	Permeability float64   // permeability; zero without melt transport
	Reactions    []float64 // change of each field over the step
}

// Driver marches a material model along a pressure-temperature path.
//  The reaction terms of each step are fed back into the composition
type Driver struct {

	// input
	Ctx *host.Context // context; time step data is changed by Run
	Mdl Model         // material model

	// settings
	Dt         float64 // time step [s]
	StrainRate float64 // magnitude of a pure shear strain rate [1/s]; zero means no viscosities
	Silent     bool    // do not show messages

	// results
	Res []*State // results
}

// Init initialises driver
func (o *Driver) Init(ctx *host.Context, mdl Model, dt float64) (err error) {
	if ctx == nil || mdl == nil {
		return chk.Err("driver: context and model are required")
	}
	if dt <= 0 {
		return chk.Err("driver: time step must be positive; %g is invalid", dt)
	}
	o.Ctx, o.Mdl, o.Dt = ctx, mdl, dt
	o.Silent = !chk.Verbose
	return
}

// strainRate returns diag(ė, -ė, 0)
func (o *Driver) strainRate() *mat.SymDense {
	if o.StrainRate == 0 {
		return nil
	}
	e := mat.NewSymDense(o.Ctx.Dim, nil)
	e.SetSym(0, 0, o.StrainRate)
	e.SetSym(1, 1, -o.StrainRate)
	return e
}

// Run runs simulation starting from composition c0
func (o *Driver) Run(path []PathPoint, c0 []float64) (err error) {

	// check
	ctx := o.Ctx
	nc := ctx.Fields.Len()
	if len(c0) != nc {
		return chk.Err("driver: initial composition has %d values but there are %d fields", len(c0), nc)
	}
	mm, isMelt := o.Mdl.(MeltModel)
	fm, hasF := o.Mdl.(MeltFractionModel)

	// allocate
	o.Res = make([]*State, len(path))
	in := NewInputs(1, nc, ctx.Dim)
	in.Old = &Old{Composition: [][]float64{make([]float64, nc)}, Temperature: make([]float64, 1)}
	if e := o.strainRate(); e != nil {
		in.StrainRate = []*mat.SymDense{e}
		in.Old.VelocityGradient = []*mat.Dense{mat.NewDense(ctx.Dim, ctx.Dim, nil)}
	}
	out := NewOutputs(1, nc)
	if ctx.OperatorSplitting {
		out.AllocRates()
	}
	F := make([]float64, 1)
	comp := append([]float64{}, c0...)

	// march
	for i, pt := range path {
		ctx.TimestepNumber, ctx.Timestep = i, o.Dt
		copy(in.Old.Composition[0], comp)
		copy(in.Composition[0], comp)
		copy(in.Position[0], ctx.Geometry.RepresentativePoint(pt.Depth))
		in.Temperature[0], in.Pressure[0] = pt.T, pt.P
		if isMelt && ctx.MeltTransport {
			mm.EvaluateWithMelt(in, out)
		} else {
			o.Mdl.Evaluate(in, out)
		}

		// feed back
		res := &State{PathPoint: pt, Reactions: make([]float64, nc)}
		for c := 0; c < nc; c++ {
			if ctx.OperatorSplitting {
				res.Reactions[c] = out.ReactionRates[0][c] * o.Dt
			} else {
				res.Reactions[c] = out.ReactionTerms[0][c]
			}
			comp[c] += res.Reactions[c]
		}
		res.Composition = append([]float64{}, comp...)
		res.Viscosity, res.Density = out.Viscosity[0], out.Density[0]
		if out.Melt != nil {
			res.Permeability = out.Melt.Permeability[0]
		}
		if hasF {
			fm.MeltFractions(in, F)
			res.MeltFraction = F[0]
		}
		o.Res[i] = res
		ctx.Logger().WithFields(logrus.Fields{"step": i, "T": pt.T, "p": pt.P}).Debugf("composition = %v", comp)
		if !o.Silent {
			io.Pf("%4d T=%10.3f p=%13.6e F=%8.5f c=%v\n", i, pt.T, pt.P, res.MeltFraction, comp)
		}
	}
	return
}
