// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lookup

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// unit conversions
const (
	barToPa    = 1e5  // [bar] to [Pa]
	gpaToPa    = 1e9  // [GPa] to [Pa]
	gccToKgm3  = 1e3  // [g/cm³] to [kg/m³]
	kjgToJkg   = 1e6  // [kJ/g] to [J/kg]
	jgkToJkgk  = 1e3  // [J/g/K] to [J/kg/K]
	alphaScale = 1e-5 // HeFESTo expansivity unit [1e-5/K]
)

// Perplex reads PerpleX tables
type Perplex struct{}

// Hefesto reads HeFESTo tables
type Hefesto struct{}

// add readers to factory
func init() {
	allocators["perplex"] = func() Reader { return new(Perplex) }
	allocators["hefesto"] = func() Reader { return new(Hefesto) }
}

// Load reads a PerpleX table; derivatives is not used
func (o *Perplex) Load(filename, derivatives string, interp bool) (t *Table, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("cannot open PerpleX table <%s>: %v", filename, err)
	}
	defer f.Close()
	t, err = ReadPerplex(f, interp)
	if err != nil {
		return nil, chk.Err("%v\n(file <%s>)", err, filename)
	}
	return
}

// Load reads a HeFESTo table and, if derivatives != "", its derivatives table
func (o *Hefesto) Load(filename, derivatives string, interp bool) (t *Table, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, chk.Err("cannot open HeFESTo table <%s>: %v", filename, err)
	}
	defer f.Close()
	var d io.Reader
	if derivatives != "" {
		g, e := os.Open(derivatives)
		if e != nil {
			return nil, chk.Err("cannot open HeFESTo derivatives table <%s>: %v", derivatives, e)
		}
		defer g.Close()
		d = g
	}
	t, err = ReadHefesto(f, d, interp)
	if err != nil {
		return nil, chk.Err("%v\n(file <%s>)", err, filename)
	}
	return
}

// header holds the axes declared in a PerpleX header
type header struct {
	minT, deltaT float64
	numT         int
	minP, deltaP float64
	numP         int
}

// readHeader reads the 13 header lines of PerpleX-like files.
//  lines 5, 6, 7:  minimum, increment and count of temperatures
//  lines 9, 10, 11: minimum, increment and count of pressures
func readHeader(sc *bufio.Scanner) (h header, err error) {
	var lines [13]string
	for i := range lines {
		if !sc.Scan() {
			return h, chk.Err("table header is incomplete: %d of 13 lines found", i)
		}
		lines[i] = sc.Text()
	}
	num := func(line int) (float64, error) {
		f := strings.Fields(lines[line-1])
		if len(f) == 0 {
			return 0, chk.Err("table header line %d is empty", line)
		}
		v, e := strconv.ParseFloat(f[0], 64)
		if e != nil {
			return 0, chk.Err("table header line %d: cannot read %q", line, f[0])
		}
		return v, nil
	}
	var vals [6]float64
	for k, line := range []int{5, 6, 7, 9, 10, 11} {
		vals[k], err = num(line)
		if err != nil {
			return
		}
	}
	h = header{vals[0], vals[1], int(vals[2]), vals[3], vals[4], int(vals[5])}
	return
}

// rows reads whitespace-separated numeric rows.
//  Missing or malformed values, and values for which bad returns true, are
//  carried forward from the previous row. Blank lines are skipped
func rows(sc *bufio.Scanner, ncol int, bad func(col int, v float64) bool) (res [][]float64, err error) {
	var prev []float64
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Fields(line)
		row := make([]float64, ncol)
		for j := 0; j < ncol; j++ {
			var v float64
			var e error
			if j < len(f) {
				v, e = strconv.ParseFloat(f[j], 64)
			} else {
				e = io.ErrUnexpectedEOF
			}
			if e != nil || (bad != nil && bad(j, v)) {
				if prev == nil {
					return nil, chk.Err("first data row is incomplete: %q", line)
				}
				v = prev[j]
			}
			row[j] = v
		}
		res = append(res, row)
		prev = row
	}
	if e := sc.Err(); e != nil {
		return nil, chk.Err("cannot read table: %v", e)
	}
	return
}

// ReadPerplex reads a PerpleX table.
//  Rows: T[K] p[bar] ρ[kg/m³] α[1/K] cp[J/kg/K] vp[km/s] vs[km/s] h[J/kg]
//  Temperatures change fastest: row i goes to [i%nT][i/nT]
func ReadPerplex(r io.Reader, interp bool) (t *Table, err error) {
	sc := bufio.NewScanner(r)
	h, err := readHeader(sc)
	if err != nil {
		return
	}
	t = &Table{Interp: interp}
	err = t.SetAxes(h.minT, h.deltaT, h.numT, h.minP*barToPa, h.deltaP*barToPa, h.numP)
	if err != nil {
		return nil, err
	}
	data, err := rows(sc, 8, nil)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumT*t.NumP {
		return nil, chk.Err("PerpleX table size is not consistent: %d rows read but header declares %d×%d", len(data), t.NumT, t.NumP)
	}
	t.alloc()
	for i, row := range data {
		iT, ip := i%t.NumT, i/t.NumT
		t.Density[iT][ip] = row[2]
		t.Expansivity[iT][ip] = row[3]
		t.SpecificHeat[iT][ip] = row[4]
		t.Vp[iT][ip] = row[5]
		t.Vs[iT][ip] = row[6]
		t.Enthalpy[iT][ip] = row[7]
	}
	return
}

// ReadHefesto reads a HeFESTo table and, if derivs != nil, its derivatives.
//  Rows:        p[GPa] depth T[K] ρ[g/cm³] vb vs[km/s] vp[km/s] vsq vpq h[kJ/g]
//  Derivatives: p[GPa] depth T[K] cp[J/g/K] α α_eff[1e-5/K] ...
//  Pressures change fastest: row i goes to [i/np][i%np]; np is found where
//  the first column stops increasing
func ReadHefesto(r, derivs io.Reader, interp bool) (t *Table, err error) {
	data, err := rows(bufio.NewScanner(r), 10, nil)
	if err != nil {
		return
	}
	if len(data) < 4 {
		return nil, chk.Err("HeFESTo table requires at least two temperatures and two pressures")
	}
	np := 1
	for np < len(data) && data[np][0] > data[np-1][0] {
		np++
	}
	nT := len(data) / np
	if nT*np != len(data) {
		return nil, chk.Err("HeFESTo table size is not consistent: %d rows is not a multiple of %d pressures", len(data), np)
	}
	minP, maxP := data[0][0]*gpaToPa, data[0][0]*gpaToPa
	minT, maxT := data[0][2], data[0][2]
	for _, row := range data {
		minP, maxP = min(minP, row[0]*gpaToPa), max(maxP, row[0]*gpaToPa)
		minT, maxT = min(minT, row[2]), max(maxT, row[2])
	}
	t = &Table{Interp: interp}
	err = t.SetRange(minT, maxT, nT, minP, maxP, np)
	if err != nil {
		return nil, err
	}
	t.alloc()
	for i, row := range data {
		iT, ip := i/np, i%np
		t.Density[iT][ip] = row[3] * gccToKgm3
		t.Vs[iT][ip] = row[5]
		t.Vp[iT][ip] = row[6]
		t.Enthalpy[iT][ip] = row[9] * kjgToJkg
	}
	if derivs == nil {
		return
	}

	// cp and α_eff; non-positive values are treated as missing
	ddata, err := rows(bufio.NewScanner(derivs), 6, func(col int, v float64) bool {
		return (col == 3 || col == 5) && v <= 0
	})
	if err != nil {
		return nil, err
	}
	if len(ddata) != len(data) {
		return nil, chk.Err("HeFESTo derivatives table has %d rows but the table has %d", len(ddata), len(data))
	}
	for i, row := range ddata {
		iT, ip := i/np, i%np
		t.SpecificHeat[iT][ip] = row[3] * jgkToJkgk
		t.Expansivity[iT][ip] = row[5] * alphaScale
	}
	return
}
