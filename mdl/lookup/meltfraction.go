// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lookup

import (
	"bufio"
	"io"
	"os"

	"github.com/cpmech/gosl/chk"
)

// MeltTable holds equilibrium melt fractions of peridotite and basalt
type MeltTable struct {
	Grid

	// flags
	Interp bool // use bilinear interpolation

	// data
	Peridotite [][]float64 // melt fraction of peridotite
	Basalt     [][]float64 // melt fraction of basalt
}

// pressure units
var pressureUnits = map[string]float64{
	"GPa":  1e9,
	"kbar": 1e8,
	"bar":  1e5,
	"Pa":   1,
}

// temperature offsets
var temperatureOffsets = map[string]float64{
	"Kelvin":  0,
	"Celsius": 273.15,
}

// ReadMeltFraction reads a melt fraction table with a PerpleX-like header.
//  Rows: T p F_peridotite F_basalt (temperature changes fastest)
func ReadMeltFraction(r io.Reader, pUnit, tUnit string, interp bool) (t *MeltTable, err error) {
	pscale, ok := pressureUnits[pUnit]
	if !ok {
		return nil, chk.Err("pressure unit %q is invalid; options are GPa, kbar, bar and Pa", pUnit)
	}
	toffset, ok := temperatureOffsets[tUnit]
	if !ok {
		return nil, chk.Err("temperature unit %q is invalid; options are Kelvin and Celsius", tUnit)
	}
	sc := bufio.NewScanner(r)
	h, err := readHeader(sc)
	if err != nil {
		return
	}
	t = &MeltTable{Interp: interp}
	err = t.SetAxes(h.minT+toffset, h.deltaT, h.numT, h.minP*pscale, h.deltaP*pscale, h.numP)
	if err != nil {
		return nil, err
	}
	data, err := rows(sc, 4, nil)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumT*t.NumP {
		return nil, chk.Err("melt fraction table size is not consistent: %d rows read but header declares %d×%d", len(data), t.NumT, t.NumP)
	}
	t.Peridotite = t.Alloc()
	t.Basalt = t.Alloc()
	for i, row := range data {
		iT, ip := i%t.NumT, i/t.NumT
		t.Peridotite[iT][ip] = row[2]
		t.Basalt[iT][ip] = row[3]
	}
	return
}

// LoadMeltFraction reads a melt fraction table from file
func LoadMeltFraction(filename, pUnit, tUnit string, interp bool) (t *MeltTable, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("cannot open melt fraction table <%s>: %v", filename, err)
	}
	defer f.Close()
	return ReadMeltFraction(f, pUnit, tUnit, interp)
}

// PeridotiteFraction returns the melt fraction of peridotite
func (o *MeltTable) PeridotiteFraction(T, p float64) float64 {
	return o.Value(T, p, o.Peridotite, o.Interp)
}

// BasaltFraction returns the melt fraction of basalt
func (o *MeltTable) BasaltFraction(T, p float64) float64 {
	return o.Value(T, p, o.Basalt, o.Interp)
}
