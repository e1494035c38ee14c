// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/geodyn/gomelt/inp"
	"github.com/geodyn/gomelt/mdl/lookup"
	"github.com/geodyn/gomelt/mdl/material"
	"github.com/geodyn/gomelt/mdl/melting"
	"github.com/spf13/cobra"
)

var (
	verbose bool // show messages

	// table
	tableFormat string
	temperature float64
	pressure    float64

	// plot
	plotPmax float64
	plotPiso float64
	plotNp   int
)

// rootCmd is the main command
var rootCmd = &cobra.Command{
	Use:   "gomelt",
	Short: "Melt transport and reactive rheology material models",
	Long: `Material models for two-phase mantle convection: melting laws, grain size
damage, creep rheology and tabulated rock properties evaluated point by point.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run <simulation.toml>",
	Short: "Evaluate a material along an adiabatic path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

var tableCmd = &cobra.Command{
	Use:   "table <file>",
	Short: "Print the properties of a PerpleX or HeFESTo table at one point",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		derivs := ""
		if len(args) > 1 {
			derivs = args[1]
		}
		return table(args[0], derivs)
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot <out.png>",
	Short: "Plot the melting curves of anhydrous peridotite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := melting.NewKatz()
		dir, fn := filepath.Split(args[0])
		if dir == "" {
			dir = "."
		}
		return melting.PlotCurves(m, dir, fn, plotPmax, plotPiso, plotNp)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", true, "show messages")
	tableCmd.Flags().StringVar(&tableFormat, "format", "perplex", "table format: perplex or hefesto")
	tableCmd.Flags().Float64VarP(&temperature, "temperature", "T", 1600, "temperature [K]")
	tableCmd.Flags().Float64VarP(&pressure, "pressure", "p", 5e9, "pressure [Pa]")
	plotCmd.Flags().Float64Var(&plotPmax, "pmax", 8e9, "maximum pressure [Pa]")
	plotCmd.Flags().Float64Var(&plotPiso, "piso", 1e9, "pressure of the isobaric melt fraction [Pa]")
	plotCmd.Flags().IntVar(&plotNp, "np", 101, "number of points")
	rootCmd.AddCommand(runCmd, tableCmd, plotCmd)
}

// run marches the material of a simulation file along its path
func run(fn string) (err error) {
	sim, err := inp.ReadSim(fn)
	if err != nil {
		return
	}
	drv, path, err := sim.Setup()
	if err != nil {
		return
	}
	drv.Silent = true
	if verbose {
		io.PfWhite("\n%s\n", sim.Desc)
		io.Pf("%v\n", io.ArgsTable("SIMULATION",
			"material file", "matfile", sim.Matfile,
			"material", "material", sim.Material,
			"fields", "fields", sim.Fields,
			"time step [yr]", "dt", sim.Dt,
			"number of points", "npoints", len(path),
		))
	}
	if err = drv.Run(path, sim.Initial); err != nil {
		return
	}
	io.Pf("%12s %10s %13s %13s %11s %10s", "depth[km]", "T[K]", "p[Pa]", "η[Pa s]", "ρ[kg/m³]", "F")
	for _, name := range sim.Fields {
		io.Pf(" %12s", name)
	}
	io.Pf("\n")
	for _, s := range drv.Res {
		io.Pf("%12.3f %10.3f %13.6e %13.6e %11.3f %10.6f", s.Depth/1e3, s.T, s.P, s.Viscosity, s.Density, s.MeltFraction)
		for _, c := range s.Composition {
			io.Pf(" %12.6e", c)
		}
		io.Pf("\n")
	}
	// equilibrium melt column of the undepleted material
	fm, ok := drv.Mdl.(material.MeltFractionModel)
	if !ok {
		return
	}
	in := material.NewInputs(len(path), len(sim.Fields), drv.Ctx.Dim)
	for i, pt := range path {
		copy(in.Position[i], drv.Ctx.Geometry.RepresentativePoint(pt.Depth))
		copy(in.Composition[i], sim.Initial)
		in.Temperature[i], in.Pressure[i] = pt.T, pt.P
	}
	stats, err := material.MeltStatistics(drv.Ctx, fm, in, nil)
	if err != nil {
		return
	}
	io.Pforan("equilibrium melt fraction along the path: min=%g max=%g sum=%g\n", stats.Min, stats.Max, stats.Total)
	return
}

// table prints the properties of a table at (temperature, pressure)
func table(fn, derivs string) (err error) {
	reader, err := lookup.New(tableFormat)
	if err != nil {
		return
	}
	t, err := reader.Load(fn, derivs, true)
	if err != nil {
		return
	}
	T, p := temperature, pressure
	io.Pf("%v\n", io.ArgsTable(io.Sf("TABLE %s", filepath.Base(fn)),
		"temperature range [K]", "T", io.Sf("[%g, %g] (%d)", t.MinT, t.MaxT, t.NumT),
		"pressure range [Pa]", "p", io.Sf("[%g, %g] (%d)", t.MinP, t.MaxP, t.NumP),
		"density [kg/m³]", "ρ", t.Rho(T, p),
		"thermal expansivity [1/K]", "α", t.Alpha(T, p),
		"specific heat [J/kg/K]", "cp", t.Cp(T, p),
		"P-wave velocity", "vp", t.SeismicVp(T, p),
		"S-wave velocity", "vs", t.SeismicVs(T, p),
		"dρ/dp", "drhodp", t.DRhodp(T, p),
	))
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
