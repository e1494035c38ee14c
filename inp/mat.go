// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the material database read from (.mat) JSON or YAML files
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/material"
	"gopkg.in/yaml.v3"
)

// Material holds material data
type Material struct {

	// input
	Name  string     `json:"name" yaml:"name"`   // name of material
	Type  string     `json:"type" yaml:"type"`   // type of material; "melt" or "material"
	Model string     `json:"model" yaml:"model"` // name of model; e.g. "melt global", "damage rheology"
	Extra string     `json:"extra" yaml:"extra"` // extra information about this material
	Prms  dbf.Params `json:"prms" yaml:"prms"`   // prms holds all model parameters for this material

	// derived
	Mdl material.Model `json:"-" yaml:"-"` // pointer to actual model
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {

	// input
	Materials MatsData `json:"materials" yaml:"materials"` // all materials

	// derived
	Melts map[string]*Material // subset with models computing two-phase flow properties
}

// ReadMat reads all materials data from a .mat file.
//  Files ending with .yaml or .yml are decoded as YAML; others as JSON.
//  All models are allocated and initialised with ctx
func ReadMat(dir, fn string, ctx *host.Context) (mdb *MatDb, err error) {

	// read file
	b, err := os.ReadFile(os.ExpandEnv(filepath.Join(dir, fn)))
	if err != nil {
		return nil, chk.Err("cannot read material file %q:\n%v", fn, err)
	}

	// decode
	mdb = new(MatDb)
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, mdb)
	default:
		err = json.Unmarshal(b, mdb)
	}
	if err != nil {
		return nil, chk.Err("cannot decode material file %q:\n%v", fn, err)
	}
	err = mdb.Init(ctx)
	return
}

// Init allocates and initialises all models
func (o *MatDb) Init(ctx *host.Context) (err error) {
	if err = ctx.Check(); err != nil {
		return
	}
	o.Melts = make(map[string]*Material)
	names := make(map[string]bool)
	for _, m := range o.Materials {
		if names[m.Name] {
			return chk.Err("material named %q is defined more than once", m.Name)
		}
		names[m.Name] = true
		switch m.Type {
		case "melt", "material":
		default:
			return chk.Err("material type %q is incorrect; options are \"melt\" and \"material\"", m.Type)
		}
		m.Mdl, err = material.New(m.Model)
		if err != nil {
			return
		}
		err = m.Mdl.Init(ctx, m.Prms)
		if err != nil {
			return chk.Err("cannot initialise material %q:\n%v", m.Name, err)
		}
		if _, ok := m.Mdl.(material.MeltModel); ok {
			o.Melts[m.Name] = m
		} else if m.Type == "melt" {
			return chk.Err("model %q of material %q does not compute two-phase flow properties", m.Model, m.Name)
		}
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Names returns the sorted names of all materials
func (o MatDb) Names() (names []string) {
	for _, m := range o.Materials {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return
}

// String prints one material
func (o *Material) String() string {
	l := io.Sf("    {\n      \"name\"  : %q,\n      \"type\"  : %q,\n      \"model\" : %q,\n      \"extra\" : %q,\n      \"prms\"  : [\n", o.Name, o.Type, o.Model, o.Extra)
	for i, p := range o.Prms {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("        {\"n\":%q, \"v\":%g", p.N, p.V)
		if p.Extra != "" {
			l += io.Sf(", \"extra\":%q", p.Extra)
		}
		l += "}"
	}
	return l + "\n      ]\n    }"
}

// String prints materials
func (o MatsData) String() string {
	l := "  \"materials\" : [\n"
	for i, m := range o {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("%v", m)
	}
	l += "\n  ]"
	return l
}

// String outputs all materials
func (o MatDb) String() string {
	return io.Sf("{\n%v\n}", o.Materials)
}
