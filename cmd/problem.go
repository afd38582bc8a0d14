/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofem/InputParameters"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
)

const exampleFile = `
########################################
Title: "Cantilever"
Analysis: elastic # topology, stokes, conduction or homogenize
Dirichlet: elimination # or penalty
Mesh: {NX: 8, NY: 4, LX: 2, LY: 1, Element: Q4}
Material: {Young: 1, Poisson: 0.3}
Solver: {Method: CG, Tolerance: 1.e-10}
Supports:
  - {Side: left, Slots: [0, 1]}
LoadCases:
  - - {At: [2, 0], Slot: 1, Value: -1}
########################################
`

func addInputFlag(c *cobra.Command) {
	c.Flags().StringP("inputConditionsFile", "I", "", "YAML problem file")
}

// processInput reads the problem file named by the -I flag and applies the
// overrides from flags, environment and config file.
func processInput(cmd *cobra.Command, analysis types.Analysis) (ip *InputParameters.InputParameters, err error) {
	var (
		fileName string
		data     []byte
	)
	if fileName, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile), example:%s", exampleFile)
		return
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	return parseInput(data, analysis)
}

func parseInput(data []byte, analysis types.Analysis) (ip *InputParameters.InputParameters, err error) {
	var (
		a types.Analysis
	)
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		return
	}
	if a, _ = types.NewAnalysis(ip.Analysis); a != analysis {
		err = fmt.Errorf("problem file describes a %s analysis, expected %s", a, analysis)
		return
	}
	if penalty := viper.GetFloat64("penalty"); penalty > 0 {
		ip.Penalty = penalty
	}
	if method := viper.GetString("solver"); len(method) != 0 {
		if _, err = solver.NewMethod(method); err != nil {
			return
		}
		ip.Solver.Method = method
	}
	if viper.GetBool("verbose") {
		ip.Print()
	}
	return
}

// solverSettings returns the configured linear solver, def when the problem
// file names none.
func solverSettings(ip *InputParameters.InputParameters, def solver.Method) (m solver.Method, s solver.Settings) {
	m = def
	if len(ip.Solver.Method) != 0 {
		m, _ = solver.NewMethod(ip.Solver.Method)
	}
	s = solver.Settings{
		MaxIterations: ip.Solver.MaxIterations,
		Tolerance:     ip.Solver.Tolerance,
		Verbose:       viper.GetBool("verbose"),
	}
	return
}

func newGrid(ip *InputParameters.InputParameters) *geometry2D.Rectangle {
	kind, _ := geometry2D.NewElementKind(ip.Mesh.Element)
	return geometry2D.NewRectangle(ip.Mesh.NX, ip.Mesh.NY, ip.Mesh.LX, ip.Mesh.LY, kind)
}

func supports(grid *geometry2D.Rectangle, ip *InputParameters.InputParameters) (bcs []fem.NodalValue) {
	for _, s := range ip.Supports {
		side, _ := geometry2D.NewSide(s.Side)
		for _, node := range grid.Boundary(side) {
			for _, slot := range s.Slots {
				bcs = append(bcs, fem.NodalValue{Node: node, Slot: slot, Value: s.Value})
			}
		}
	}
	return
}

// loadCases applies every point load to the node nearest its location. Points
// outside the grid are rejected.
func loadCases(grid *geometry2D.Rectangle, ip *InputParameters.InputParameters) (cases [][]fem.NodalValue, err error) {
	cases = make([][]fem.NodalValue, len(ip.LoadCases))
	for lc, loads := range ip.LoadCases {
		for _, l := range loads {
			if !grid.Box.PointInside(l.At) {
				err = fmt.Errorf("load case %d: point %v lies outside the mesh", lc, l.At)
				return
			}
			cases[lc] = append(cases[lc], fem.NodalValue{Node: grid.Nearest(l.At), Slot: l.Slot, Value: l.Value})
		}
	}
	return
}

// printNodes writes one row per node with its coordinates and slot values.
func printNodes(w io.Writer, title string, X [][]float64, u fem.Field, labels ...string) {
	fmt.Fprintf(w, "# %s\n# node", title)
	for k := range X[0] {
		fmt.Fprintf(w, " %12s", []string{"x", "y"}[k])
	}
	for _, label := range labels {
		fmt.Fprintf(w, " %14s", label)
	}
	fmt.Fprintln(w)
	for n, x := range X {
		fmt.Fprintf(w, "%6d", n)
		for _, xi := range x {
			fmt.Fprintf(w, " %12.6f", xi)
		}
		for _, v := range u[n] {
			fmt.Fprintf(w, " %14.6e", v)
		}
		fmt.Fprintln(w)
	}
}
