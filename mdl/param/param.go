// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package param implements helpers to read list and text parameters stored in dbf.P.Extra
package param

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/spf13/cast"
)

// Tokens splits extra data on commas and blanks
func Tokens(extra string) (res []string) {
	for _, f := range strings.FieldsFunc(extra, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if f != "" {
			res = append(res, f)
		}
	}
	return
}

// Floats returns the list of values of p.
//  Note: if Extra is empty, the list contains V only
func Floats(p *dbf.P) (vals []float64, err error) {
	toks := Tokens(p.Extra)
	if len(toks) == 0 {
		return []float64{p.V}, nil
	}
	vals = make([]float64, len(toks))
	for i, t := range toks {
		vals[i], err = cast.ToFloat64E(t)
		if err != nil {
			return nil, chk.Err("parameter %q: cannot convert %q to float: %v", p.N, t, err)
		}
	}
	return
}

// Optional returns the list of values of p; an empty Extra gives an empty list
func Optional(p *dbf.P) ([]float64, error) {
	if len(Tokens(p.Extra)) == 0 {
		return nil, nil
	}
	return Floats(p)
}

// Text returns the trimmed extra data of p
func Text(p *dbf.P) string {
	return strings.TrimSpace(p.Extra)
}

// Bool returns V as a flag
func Bool(p *dbf.P) bool {
	return p.V > 0
}

// Extend extends a one-entry list to n entries; other lengths must equal n
func Extend(vals []float64, n int, name string) ([]float64, error) {
	if len(vals) == n {
		return vals, nil
	}
	if len(vals) == 1 {
		res := make([]float64, n)
		for i := range res {
			res[i] = vals[0]
		}
		return res, nil
	}
	return nil, chk.Err("length of list %q (%d) must be one or equal to %d", name, len(vals), n)
}

// List returns a parameter holding a list of values
func List(name string, vals ...float64) *dbf.P {
	p := &dbf.P{N: name}
	if len(vals) > 0 {
		p.V = vals[0]
	}
	toks := make([]string, len(vals))
	for i, v := range vals {
		toks[i] = cast.ToString(v)
	}
	p.Extra = strings.Join(toks, ",")
	return p
}

// Str returns a parameter holding text
func Str(name, text string) *dbf.P {
	return &dbf.P{N: name, Extra: text}
}

// Unknown returns the error reported for parameters a model does not know
func Unknown(model, name string) error {
	return chk.Err("%s: parameter named %q is incorrect", model, name)
}
