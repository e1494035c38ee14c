// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grainsize implements the evolution of mean grain size by growth and dynamic recrystallisation
//  References:
//   [1] Austin NJ and Evans B (2007) Paleowattmeters: A scaling relation for dynamically
//       recrystallized grain size. Geology 35, 343-346
//   [2] Hall CE and Parmentier EM (2003) Influence of grain size evolution on convective
//       instability. Geochem. Geophys. Geosyst., 4(3)
package grainsize

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/rheology"
)

// constants
const (
	DefaultMinGrainSize = 5e-6                     // [m]
	DefaultSubstep      = 500 * host.YearInSeconds // initial sub-step [s]
)

// Phase holds grain size evolution parameters of one phase
type Phase struct {

	// growth
	GrowthRate       float64 // rate constant [m^m/s]
	GrowthEnergy     float64 // activation energy [J/mol]
	GrowthVolume     float64 // activation volume [m³/mol]
	GrowthExponent   float64 // exponent m
	ReciprocalStrain float64 // paleopiezometer: reciprocal of the strain needed for reduction

	// paleowattmeter
	BoundaryEnergy    float64 // average specific grain boundary energy [J/m²]
	WorkFraction      float64 // fraction of work changing boundary area
	GeometricConstant float64 // geometric constant
}

// Evolution computes grain size changes over a time step
type Evolution struct {
	Phases         []Phase   // parameters per phase
	Recrystallized []float64 // grain size after crossing each transition [m]; zero means no reset
	Paleowattmeter bool      // use [1] instead of [2]
	MinGrainSize   float64   // floor of grain size [m]
	Substep        float64   // initial sub-step [s]
}

// Warning reports problems found while integrating
type Warning struct {
	Negative bool    // grain size became negative; integration stopped
	Clamped  bool    // grain size was raised to the minimum
	Value    float64 // grain size before clamping
	Substeps int     // number of accepted sub-steps
}

// Any tells whether something went wrong
func (o Warning) Any() bool {
	return o.Negative || o.Clamped
}

// Viscous returns the viscosities for grain size d
type Viscous func(d float64) rheology.Viscosities

// NewEvolution checks and returns a new model.
//  There must be one more phase than recrystallised sizes
func NewEvolution(phases []Phase, recrystallized []float64, paleowattmeter bool, minGrainSize float64) (o *Evolution, err error) {
	if len(phases) != len(recrystallized)+1 {
		return nil, chk.Err("the lists of grain size evolution parameters need to have exactly one entry more than the number of phase transitions (%d): phases=%d",
			len(recrystallized), len(phases))
	}
	for i, ph := range phases {
		if ph.GrowthExponent <= 0 || ph.GrowthRate < 0 {
			return nil, chk.Err("grain growth exponent must be positive and rate constant non-negative (phase %d)", i)
		}
		if paleowattmeter && ph.GeometricConstant*ph.BoundaryEnergy <= 0 {
			return nil, chk.Err("geometric constant and grain boundary energy must be positive for the paleowattmeter (phase %d)", i)
		}
	}
	if minGrainSize <= 0 {
		minGrainSize = DefaultMinGrainSize
	}
	return &Evolution{phases, recrystallized, paleowattmeter, minGrainSize, DefaultSubstep}, nil
}

// Step integrates the grain size d0 over dt with adaptive sub-steps and returns the change.
//  phase selects the parameters, crossed is the transition crossed during this step
//  or -1, edot is the second invariant of the strain rate and visc gives the
//  viscosities used to partition edot. The result d0+delta is never below
//  MinGrainSize. The receiver and arguments are not modified
func (o *Evolution) Step(dt, d0, T, p, edot float64, phase, crossed int, visc Viscous) (delta float64, warn Warning) {
	if math.IsNaN(d0) || dt == 0 || d0 < math.SmallestNonzeroFloat64 {
		return
	}
	prm := o.Phases[phase]
	m := prm.GrowthExponent
	arrhenius := math.Exp(-(prm.GrowthEnergy + p*prm.GrowthVolume) / (rheology.GasConstant * T))

	d := d0
	sub := o.Substep
	time := 0.0
	for {
		time += sub
		if dt-time < 0 {
			sub = dt - (time - sub)
			time = dt
		}

		// Ostwald ripening
		growth := prm.GrowthRate / (m * math.Pow(d, m-1)) * arrhenius * sub

		// dynamic recrystallisation in the dislocation creep regime
		v := visc(d)
		edis := v.DislocationRate(edot)
		var reduction float64
		if o.Paleowattmeter {
			stress := 2 * edot * v.Effective
			reduction = stress * prm.WorkFraction * edis * d * d / (prm.GeometricConstant * prm.BoundaryEnergy) * sub
		} else {
			reduction = prm.ReciprocalStrain * edis * d * sub
		}

		// adapt sub-step
		change := growth - reduction
		switch {
		case (change/d < 0.001 && growth/d < 0.1 && reduction/d < 0.1) || d == 0:
			sub *= 2
			warn.Substeps++
		case change/d > 0.1 || growth/d > 0.5 || reduction/d > 0.5:
			change = 0
			time -= sub
			sub /= 2
		default:
			warn.Substeps++
		}

		// a negative grain size abandons the sub-step
		if d+change < 0 {
			warn.Negative = true
			warn.Value = d + change
			break
		}
		d += change

		// pinned at the floor
		if !(d > o.MinGrainSize) || time >= dt {
			break
		}
	}

	// limit and reset after crossing a transition
	if !warn.Negative {
		warn.Value = d
	}
	if !(d >= o.MinGrainSize) {
		warn.Clamped = true
		d = o.MinGrainSize
	}
	if crossed >= 0 && crossed < len(o.Recrystallized) && o.Recrystallized[crossed] > 0 {
		d = math.Max(o.Recrystallized[crossed], o.MinGrainSize)
	}
	return d - d0, warn
}

// ToLog converts grain size to the advected quantity -ln(d)
func (o *Evolution) ToLog(d float64) float64 {
	return -math.Log(math.Max(d, o.MinGrainSize))
}

// FromLog converts -ln(d) back to grain size
func (o *Evolution) FromLog(s float64) float64 {
	return math.Max(math.Exp(-s), o.MinGrainSize)
}

// LogRate converts a grain size change at grain size d into the change of -ln(d)
func LogRate(delta, d float64) float64 {
	return -delta / d
}
