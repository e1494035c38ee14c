// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/grainsize"
	"github.com/geodyn/gomelt/mdl/lookup"
	"github.com/geodyn/gomelt/mdl/param"
	"github.com/geodyn/gomelt/mdl/rheology"
	"github.com/sirupsen/logrus"
)

// Damage implements a grain size dependent rheology with grain size evolution
//  across phase transitions. The olivine_grain_size field is advected and
//  changed by reactions; optionally its logarithm -ln(d) is advected instead.
//  Density, expansivity and specific heat come from tables if requested
type Damage struct {

	// parameters
	Rho          float64  // reference density [kg/m³]
	Tref         float64  // reference temperature [K]
	Eta          float64  // reference viscosity [Pa s]
	DeltaRho     float64  // density difference of the first field [kg/m³]
	K            float64  // thermal conductivity [W/m/K]
	Cp           float64  // specific heat [J/kg/K]
	Alpha        float64  // thermal expansivity [1/K]
	Kappa        float64  // compressibility [1/Pa]
	MinEta       float64  // minimum viscosity [Pa s]
	MaxEta       float64  // maximum viscosity [Pa s]
	LogGrainSize bool     // the field holds -ln(d)
	UseTables    bool     // material properties from tables
	TableFormat  string   // perplex or hefesto
	Files        []string // material tables in the data directory
	Derivatives  []string // enthalpy derivatives tables; may be empty
	Interp       bool     // bilinear interpolation

	// auxiliary
	ctx    *host.Context
	Trans  *rheology.Transitions // phase transitions
	Creep  *rheology.Evaluator   // creep laws per phase
	Evo    *grainsize.Evolution  // grain size evolution
	Tables []*lookup.Table       // material tables; nil if not loaded
	grain  int                   // index of olivine_grain_size
}

// add model to factory
func init() {
	allocators["damage rheology"] = func() Model { return new(Damage) }
}

// damageLists holds the names of per-phase lists and their defaults
var damageLists = []struct {
	name string
	def  float64
}{
	{"grain growth activation energy", 3.5e5},
	{"grain growth activation volume", 8e-6},
	{"grain growth exponent", 3},
	{"grain growth rate constant", 1.5e-5},
	{"reciprocal required strain", 10},
	{"average specific grain boundary energy", 1},
	{"work fraction for boundary area change", 0.1},
	{"geometric constant", 3},
	{"dislocation creep exponent", 3.5},
	{"dislocation activation energy", 4.8e5},
	{"dislocation activation volume", 1.1e-5},
	{"dislocation creep prefactor", 4.5e-15},
	{"diffusion creep exponent", 1},
	{"diffusion activation energy", 3.35e5},
	{"diffusion activation volume", 4e-6},
	{"diffusion creep prefactor", 7.4e-15},
	{"diffusion creep grain size exponent", 3},
}

// Init initialises model
func (o *Damage) Init(ctx *host.Context, prms dbf.Params) (err error) {

	// defaults
	o.ctx = ctx
	o.Rho, o.Tref, o.Eta, o.DeltaRho = 3300, 293, 5e24, 100
	o.K, o.Cp, o.Alpha, o.Kappa = 4.7, 1250, 2e-5, 4e-12
	o.MinEta, o.MaxEta = 1e18, 1e26
	o.TableFormat, o.Files, o.Interp = "perplex", []string{"pyr-ringwood88.txt"}, true
	o.LogGrainSize, o.UseTables, o.Derivatives, o.Tables = false, false, nil, nil
	maxTempDep, minGrainSize, pvScaling := 100.0, 1e-5, 1.0
	paleowattmeter := true
	var depths, temps, widths, slopes, recr []float64
	var phases []string

	// scalars and transitions; per-phase lists are read once the number of phases is known
	lists := make(map[string]*dbf.P)
	var others dbf.Params
	for _, p := range prms {
		key := strings.ToLower(p.N)
		switch key {
		case "reference density":
			o.Rho = p.V
		case "reference temperature":
			o.Tref = p.V
		case "viscosity":
			o.Eta = p.V
		case "compositional density difference":
			o.DeltaRho = p.V
		case "thermal conductivity":
			o.K = p.V
		case "reference specific heat":
			o.Cp = p.V
		case "thermal expansion coefficient":
			o.Alpha = p.V
		case "reference compressibility":
			o.Kappa = p.V
		case "maximum temperature dependence of viscosity":
			maxTempDep = p.V
		case "minimum viscosity":
			o.MinEta = p.V
		case "maximum viscosity":
			o.MaxEta = p.V
		case "minimum grain size":
			minGrainSize = p.V
		case "lower mantle grain size scaling":
			pvScaling = p.V
		case "advect logarithm of grain size":
			o.LogGrainSize = param.Bool(p)
		case "use paleowattmeter":
			paleowattmeter = param.Bool(p)
		case "use table properties":
			o.UseTables = param.Bool(p)
		case "material file format":
			o.TableFormat = param.Text(p)
		case "material file names":
			o.Files = param.Tokens(p.Extra)
		case "derivatives file names":
			o.Derivatives = param.Tokens(p.Extra)
		case "bilinear interpolation":
			o.Interp = param.Bool(p)
		case "phase transition depths":
			depths, err = param.Optional(p)
		case "phase transition temperatures":
			temps, err = param.Optional(p)
		case "phase transition widths":
			widths, err = param.Optional(p)
		case "phase transition clapeyron slopes":
			slopes, err = param.Optional(p)
		case "corresponding phase for transition":
			phases = param.Tokens(p.Extra)
		case "recrystallized grain size":
			recr, err = param.Optional(p)
		default:
			lists[key] = p
			others = append(others, p)
		}
		if err != nil {
			return
		}
	}
	if len(recr) != len(depths) {
		return chk.Err("damage rheology: there must be one recrystallized grain size per phase transition: %d != %d", len(recr), len(depths))
	}
	if widths == nil {
		widths = make([]float64, len(depths))
	}
	if o.Trans, err = rheology.NewTransitions(depths, temps, slopes, widths, phases, o.Rho); err != nil {
		return chk.Err("damage rheology: %v", err)
	}

	// per-phase lists
	n := len(depths) + 1
	vals := make(map[string][]float64)
	for _, l := range damageLists {
		vals[l.name], _ = param.Extend([]float64{l.def}, n, l.name)
		if p, ok := lists[l.name]; ok {
			if vals[l.name], err = list(p, n); err != nil {
				return
			}
			delete(lists, l.name)
		}
	}
	for _, p := range others {
		if _, ok := lists[strings.ToLower(p.N)]; ok {
			return param.Unknown("damage rheology", p.N)
		}
	}
	last := n - 1
	m := vals["grain growth exponent"][last]
	vals["diffusion creep prefactor"][last] *= math.Pow(pvScaling, m)
	vals["grain growth rate constant"][last] /= math.Pow(pvScaling, m-1)

	diff := make([]rheology.FlowLaw, n)
	disl := make([]rheology.FlowLaw, n)
	gs := make([]grainsize.Phase, n)
	for i := 0; i < n; i++ {
		diff[i] = rheology.FlowLaw{
			A: vals["diffusion creep prefactor"][i],
			N: vals["diffusion creep exponent"][i],
			E: vals["diffusion activation energy"][i],
			V: vals["diffusion activation volume"][i],
			M: vals["diffusion creep grain size exponent"][i],
		}
		disl[i] = rheology.FlowLaw{
			A: vals["dislocation creep prefactor"][i],
			N: vals["dislocation creep exponent"][i],
			E: vals["dislocation activation energy"][i],
			V: vals["dislocation activation volume"][i],
		}
		gs[i] = grainsize.Phase{
			GrowthRate:        vals["grain growth rate constant"][i],
			GrowthEnergy:      vals["grain growth activation energy"][i],
			GrowthVolume:      vals["grain growth activation volume"][i],
			GrowthExponent:    vals["grain growth exponent"][i],
			ReciprocalStrain:  vals["reciprocal required strain"][i],
			BoundaryEnergy:    vals["average specific grain boundary energy"][i],
			WorkFraction:      vals["work fraction for boundary area change"][i],
			GeometricConstant: vals["geometric constant"][i],
		}
	}
	if o.Creep, err = rheology.NewEvaluator(o.Trans, diff, disl, maxTempDep); err != nil {
		return chk.Err("damage rheology: %v", err)
	}
	if o.Evo, err = grainsize.NewEvolution(gs, recr, paleowattmeter, minGrainSize); err != nil {
		return chk.Err("damage rheology: %v", err)
	}
	if o.MinEta <= 0 || o.MaxEta < o.MinEta {
		return chk.Err("damage rheology: viscosity limits [%g, %g] are invalid", o.MinEta, o.MaxEta)
	}

	// fields and tables
	if o.grain, err = ctx.Require("damage rheology", OlivineGrainSize); err != nil {
		return
	}
	if o.UseTables {
		if len(o.Files) == 0 {
			return chk.Err("damage rheology: table properties require at least one material file")
		}
		if o.Tables, err = loadTables(ctx, "damage rheology", o.TableFormat, o.Files, o.Derivatives, o.Interp); err != nil {
			return
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Damage) GetPrms(example bool) dbf.Params {
	res := dbf.Params{
		&dbf.P{N: "reference density", V: 3300},
		&dbf.P{N: "reference temperature", V: 293},
		&dbf.P{N: "viscosity", V: 5e24},
		&dbf.P{N: "compositional density difference", V: 100},
		&dbf.P{N: "thermal conductivity", V: 4.7},
		&dbf.P{N: "reference specific heat", V: 1250},
		&dbf.P{N: "thermal expansion coefficient", V: 2e-5},
		&dbf.P{N: "reference compressibility", V: 4e-12},
		&dbf.P{N: "maximum temperature dependence of viscosity", V: 100},
		&dbf.P{N: "minimum viscosity", V: 1e18},
		&dbf.P{N: "maximum viscosity", V: 1e26},
		&dbf.P{N: "minimum grain size", V: 1e-5},
		&dbf.P{N: "lower mantle grain size scaling", V: 1},
		&dbf.P{N: "advect logarithm of grain size", V: 0},
		&dbf.P{N: "use paleowattmeter", V: 1},
		&dbf.P{N: "use table properties", V: 0},
		param.Str("material file format", "perplex"),
		param.Str("material file names", "pyr-ringwood88.txt"),
		&dbf.P{N: "bilinear interpolation", V: 1},
	}
	if example {
		res = append(res,
			param.List("phase transition depths", 410e3, 660e3),
			param.List("phase transition temperatures", 1780, 1850),
			param.List("phase transition widths", 5e3, 5e3),
			param.List("phase transition clapeyron slopes", 1.5e6, -2.5e6),
			param.Str("corresponding phase for transition", "wadsleyite,perovskite"),
			param.List("recrystallized grain size", 1e-3, 1e-3),
		)
	}
	for _, l := range damageLists {
		res = append(res, param.List(l.name, l.def))
	}
	return res
}

// Compressible tells whether κ is non-zero or tables are used
func (o *Damage) Compressible() bool { return o.Kappa != 0 || o.UseTables }

// RefViscosity returns η
func (o *Damage) RefViscosity() float64 { return o.Eta }

// RefDensity returns ρ
func (o *Damage) RefDensity() float64 { return o.Rho }

// GrainSize returns the grain size of composition
func (o *Damage) GrainSize(composition []float64) float64 {
	if o.LogGrainSize {
		return o.Evo.FromLog(composition[o.grain])
	}
	return composition[o.grain]
}

// density computes the density of one point
func (o *Damage) density(T, p float64, composition []float64) float64 {
	if o.UseTables {
		return lookup.Blend(o.Tables, composition, func(t *lookup.Table) float64 { return t.Rho(T, p) })
	}
	var Δρ float64
	if len(composition) > 0 {
		Δρ = o.DeltaRho * composition[0]
	}
	return (o.Rho + Δρ) * math.Exp(o.Kappa*(p-o.ctx.SurfacePressure)) * (1 - o.Alpha*(T-o.Tref))
}

// seismic checks that seismic velocities can be computed
func (o *Damage) seismic() error {
	if o.Kappa == 0 && !o.UseTables {
		return chk.Err("damage rheology: seismic velocities require a compressible model")
	}
	if o.Tables == nil {
		return chk.Err("damage rheology: seismic velocities require material tables")
	}
	return nil
}

// Vp returns the P-wave velocity
func (o *Damage) Vp(T, p float64, composition []float64) (float64, error) {
	if err := o.seismic(); err != nil {
		return 0, err
	}
	return lookup.Blend(o.Tables, composition, func(t *lookup.Table) float64 { return t.SeismicVp(T, p) }), nil
}

// Vs returns the S-wave velocity
func (o *Damage) Vs(T, p float64, composition []float64) (float64, error) {
	if err := o.seismic(); err != nil {
		return 0, err
	}
	return lookup.Blend(o.Tables, composition, func(t *lookup.Table) float64 { return t.SeismicVs(T, p) }), nil
}

// Evaluate computes properties
func (o *Damage) Evaluate(in *Inputs, out *Outputs) {
	ctx := o.ctx
	states := make([]rheology.State, in.N())
	for i := range states {
		states[i] = rheology.State{X: in.Position[i], T: in.Temperature[i], P: in.Pressure[i]}
		if in.Velocity != nil {
			states[i].Vel = in.Velocity[i]
		}
	}
	change := make([]float64, ctx.Fields.Len())
	for i := 0; i < in.N(); i++ {
		x, T, p, comp := in.Position[i], in.Temperature[i], in.Pressure[i], in.Composition[i]
		d := o.GrainSize(comp)
		crossed := -1
		if o.Trans.N() > 0 {
			crossed = o.Trans.Crossed(ctx, states, i)
		}

		var edot float64
		if in.StrainRate != nil {
			edot = host.EdotII(in.StrainRate[i])
			v := o.Creep.Viscosity(ctx, x, T, p, d, edot)
			out.Viscosity[i] = math.Min(math.Max(v.Effective, o.MinEta), o.MaxEta)
		}

		out.Density[i] = o.density(T, p, comp)
		out.Conductivity[i] = o.K
		out.EntropyDerivT[i], out.EntropyDerivP[i] = 0, 0
		if o.UseTables {
			α := lookup.Blend(o.Tables, comp, func(t *lookup.Table) float64 { return t.Alpha(T, p) })
			cp := lookup.Blend(o.Tables, comp, func(t *lookup.Table) float64 { return t.Cp(T, p) })
			dρdp := lookup.Blend(o.Tables, comp, func(t *lookup.Table) float64 { return t.DRhodp(T, p) })
			out.Expansivity[i] = math.Max(math.Min(α, 1e-3), 1e-5)
			out.SpecificHeat[i] = math.Max(math.Min(cp, 6000), 500)
			out.Compressibility[i] = dρdp / out.Density[i]
		} else {
			out.Expansivity[i] = o.Alpha
			out.SpecificHeat[i] = o.Cp
			out.Compressibility[i] = o.Kappa
		}

		// grain size reactions
		for c := range out.ReactionTerms[i] {
			out.ReactionTerms[i][c] = 0
			change[c] = 0
		}
		if in.StrainRate == nil {
			continue
		}
		_, phase := o.Creep.Phase(ctx, x, T, p)
		if ctx.TimestepNumber == 0 {
			crossed = -1
		}
		visc := func(dd float64) rheology.Viscosities { return o.Creep.Viscosity(ctx, x, T, p, dd, edot) }
		delta, warn := o.Evo.Step(ctx.Timestep, d, T, p, edot, phase, crossed, visc)
		if warn.Any() {
			ctx.Logger().WithFields(logrus.Fields{
				"model":    "damage rheology",
				"negative": warn.Negative,
				"clamped":  warn.Clamped,
				"value":    warn.Value,
				"substeps": warn.Substeps,
			}).Warn("grain size evolution limited")
		}
		term := delta
		if o.LogGrainSize {
			term = grainsize.LogRate(delta, d)
		}
		out.ReactionTerms[i][o.grain] = term
		change[o.grain] = term
		applySplitting(ctx, out, i, change)
	}
}
