// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/material"
	"github.com/sirupsen/logrus"
)

// GeometryData holds the geometry and gravity models
type GeometryData struct {
	Type        string  `toml:"type"`         // "box" or "sphere"
	Height      float64 `toml:"height"`       // box height [m]
	OuterRadius float64 `toml:"outer_radius"` // sphere radius [m]
	Gravity     float64 `toml:"gravity"`      // magnitude of gravity [m/s²]
}

// AdiabatData holds the data of a linear adiabatic profile
type AdiabatData struct {
	SurfacePressure    float64 `toml:"surface_pressure"`    // [Pa]
	SurfaceTemperature float64 `toml:"surface_temperature"` // potential temperature [K]
	Density            float64 `toml:"density"`             // [kg/m³]
	Expansivity        float64 `toml:"expansivity"`         // [1/K]
	SpecificHeat       float64 `toml:"specific_heat"`       // [J/kg/K]
	MaxDepth           float64 `toml:"max_depth"`           // [m]
	Npoints            int     `toml:"npoints"`             // number of tabulated depths
}

// PathData holds a path following the adiabat between two depths
type PathData struct {
	DepthStart float64 `toml:"depth_start"` // [m]
	DepthEnd   float64 `toml:"depth_end"`   // [m]
	Npoints    int     `toml:"npoints"`     // number of points
	ExcessT    float64 `toml:"excess_t"`    // temperature added to the adiabat [K]
}

// Simulation holds the data of a path simulation read from a TOML file
type Simulation struct {

	// global information
	Desc     string `toml:"desc"`      // description of simulation
	Matfile  string `toml:"matfile"`   // materials file path; relative paths start at the directory of the TOML file
	Material string `toml:"material"`  // name of material
	DataDir  string `toml:"data_dir"`  // directory with material tables
	LogLevel string `toml:"log_level"` // logrus level; e.g. "info", "debug"

	// problem definition and options
	Dim               int       `toml:"dim"`                      // space dimension
	Fields            []string  `toml:"fields"`                   // compositional fields
	Initial           []float64 `toml:"initial"`                  // initial composition; zero if empty
	MeltTransport     bool      `toml:"melt_transport"`           // two-phase flow
	Threshold         float64   `toml:"melt_transport_threshold"` // porosity above which melt moves
	OperatorSplitting bool      `toml:"operator_splitting"`       // reactions as rates
	Dt                float64   `toml:"dt"`                       // time step [yr]
	StrainRate        float64   `toml:"strain_rate"`              // pure shear strain rate [1/s]

	// sections
	Geometry GeometryData `toml:"geometry"`
	Adiabat  AdiabatData  `toml:"adiabat"`
	Path     PathData     `toml:"path"`

	// derived
	Dir string `toml:"-"` // directory of the TOML file
}

// ReadSim reads a simulation file
func ReadSim(filename string) (o *Simulation, err error) {
	o = &Simulation{
		Dim:      2,
		LogLevel: "info",
		Dt:       1e3,
		Geometry: GeometryData{Type: "box", Height: 660e3, OuterRadius: 6371e3, Gravity: 9.81},
		Adiabat: AdiabatData{
			SurfaceTemperature: 1600,
			Density:            3300,
			Expansivity:        2e-5,
			SpecificHeat:       1250,
			MaxDepth:           660e3,
			Npoints:            101,
		},
		Path: PathData{DepthStart: 150e3, DepthEnd: 0, Npoints: 51},
	}
	if _, err = toml.DecodeFile(filename, o); err != nil {
		return nil, chk.Err("cannot parse simulation file %q:\n%v", filename, err)
	}
	o.Dir = filepath.Dir(filename)
	o.Matfile = os.ExpandEnv(o.Matfile)
	o.DataDir = os.ExpandEnv(o.DataDir)
	if o.Matfile == "" || o.Material == "" {
		return nil, chk.Err("simulation file %q must name a material file and a material", filename)
	}
	if len(o.Initial) == 0 {
		o.Initial = make([]float64, len(o.Fields))
	}
	if len(o.Initial) != len(o.Fields) {
		return nil, chk.Err("there must be one initial value per field: %d != %d", len(o.Initial), len(o.Fields))
	}
	if o.Dt <= 0 || o.Path.Npoints < 1 {
		return nil, chk.Err("time step (%g) and number of path points (%d) must be positive", o.Dt, o.Path.Npoints)
	}
	return
}

// path joins relative paths to the directory of the simulation file
func (o *Simulation) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.Dir, p)
}

// Context builds the context of the simulation
func (o *Simulation) Context() (ctx *host.Context, err error) {
	ctx = host.NewContext(o.Dim, o.Fields...)
	switch strings.ToLower(o.Geometry.Type) {
	case "box":
		ctx.Geometry = &host.Box{Dim: o.Dim, Height: o.Geometry.Height}
		ctx.Gravity = &host.Vertical{Dim: o.Dim, G: o.Geometry.Gravity}
	case "sphere":
		ctx.Geometry = &host.Sphere{Dim: o.Dim, OuterRadius: o.Geometry.OuterRadius}
		ctx.Gravity = &host.Radial{G: o.Geometry.Gravity}
	default:
		return nil, chk.Err("geometry type %q is incorrect; options are \"box\" and \"sphere\"", o.Geometry.Type)
	}
	if err = ctx.Check(); err != nil {
		return nil, err
	}
	a := o.Adiabat
	ctx.Adiabat, err = host.NewLinearProfile(ctx.Geometry, a.SurfacePressure, a.SurfaceTemperature, a.Density,
		o.Geometry.Gravity, a.Expansivity, a.SpecificHeat, a.MaxDepth, a.Npoints)
	if err != nil {
		return nil, err
	}
	ctx.SurfacePressure = a.SurfacePressure
	ctx.MeltTransport = o.MeltTransport
	ctx.MeltTransportThreshold = o.Threshold
	ctx.OperatorSplitting = o.OperatorSplitting
	ctx.DataDir = o.path(o.DataDir)
	lvl, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, chk.Err("log level %q is incorrect: %v", o.LogLevel, err)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	ctx.Log = log.WithField("simulation", o.Desc)
	return
}

// Materials reads the material database of the simulation
func (o *Simulation) Materials(ctx *host.Context) (*MatDb, error) {
	fn := o.path(o.Matfile)
	return ReadMat(filepath.Dir(fn), filepath.Base(fn), ctx)
}

// PathPoints returns the points of the path along the adiabat
func (o *Simulation) PathPoints(ctx *host.Context) (res []material.PathPoint) {
	depths := []float64{o.Path.DepthStart}
	if o.Path.Npoints > 1 {
		depths = utl.LinSpace(o.Path.DepthStart, o.Path.DepthEnd, o.Path.Npoints)
	}
	res = make([]material.PathPoint, len(depths))
	for i, d := range depths {
		x := ctx.Geometry.RepresentativePoint(d)
		res[i] = material.PathPoint{
			Depth: d,
			T:     ctx.Adiabat.Temperature(x) + o.Path.ExcessT,
			P:     ctx.Adiabat.Pressure(x),
		}
	}
	return
}

// Setup builds the context, reads the materials and initialises a driver
func (o *Simulation) Setup() (drv *material.Driver, path []material.PathPoint, err error) {
	ctx, err := o.Context()
	if err != nil {
		return
	}
	mdb, err := o.Materials(ctx)
	if err != nil {
		return
	}
	m := mdb.Get(o.Material)
	if m == nil {
		return nil, nil, chk.Err("cannot find material named %q in %q", o.Material, o.Matfile)
	}
	drv = new(material.Driver)
	if err = drv.Init(ctx, m.Mdl, o.Dt*host.YearInSeconds); err != nil {
		return
	}
	drv.StrainRate = o.StrainRate
	path = o.PathPoints(ctx)
	return
}
