// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/geodyn/gomelt/host"
	"github.com/geodyn/gomelt/mdl/lookup"
	"github.com/geodyn/gomelt/mdl/param"
)

// subset splits prms into the parameters named in names and the rest
func subset(prms, names dbf.Params) (in, rest dbf.Params) {
	known := make(map[string]bool)
	for _, p := range names {
		known[strings.ToLower(p.N)] = true
	}
	for _, p := range prms {
		if known[strings.ToLower(p.N)] {
			in = append(in, p)
		} else {
			rest = append(rest, p)
		}
	}
	return
}

// list reads a list parameter with n entries; one entry is extended to n
func list(p *dbf.P, n int) ([]float64, error) {
	vals, err := param.Floats(p)
	if err != nil {
		return nil, err
	}
	return param.Extend(vals, n, p.N)
}

// requireFields checks that the context has all named fields
func requireFields(ctx *host.Context, model string, names ...string) error {
	for _, n := range names {
		if _, err := ctx.Require(model, n); err != nil {
			return err
		}
	}
	return nil
}

// loadTables reads one table per file name; derivatives may be empty
func loadTables(ctx *host.Context, model, format string, files, derivs []string, interp bool) (tables []*lookup.Table, err error) {
	if len(derivs) > 0 && len(derivs) != len(files) {
		return nil, chk.Err("%s: there must be as many derivatives files (%d) as material files (%d)", model, len(derivs), len(files))
	}
	reader, err := lookup.New(format)
	if err != nil {
		return
	}
	tables = make([]*lookup.Table, len(files))
	for i, f := range files {
		var d string
		if len(derivs) > 0 {
			d = filepath.Join(ctx.DataDir, derivs[i])
		}
		tables[i], err = reader.Load(filepath.Join(ctx.DataDir, f), d, interp)
		if err != nil {
			return nil, err
		}
		t := tables[i]
		ctx.Logger().WithField("model", model).WithField("file", f).Debugf(
			"table loaded: T in [%g, %g] (%d), p in [%g, %g] (%d)", t.MinT, t.MaxT, t.NumT, t.MinP, t.MaxP, t.NumP)
	}
	return
}
