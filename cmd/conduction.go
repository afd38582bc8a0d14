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

	"github.com/spf13/cobra"

	"github.com/notargets/gofem/InputParameters"
	"github.com/notargets/gofem/equation"
	"github.com/notargets/gofem/model_problems/Conduction1D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
)

// ConductionCmd represents the conduction command
var ConductionCmd = &cobra.Command{
	Use:   "conduction",
	Short: "Nonlinear steady conduction in one dimension",
	Long: `
Solves steady conduction with conductivity K0 (1 + Beta T) between two end
temperatures using load steps and Newton iterations,

gofem conduction -I rod.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, err := processInput(cmd, types.Conduction)
		if err != nil {
			return err
		}
		return RunConduction(ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(ConductionCmd)
	addInputFlag(ConductionCmd)
}

func RunConduction(ip *InputParameters.InputParameters, w io.Writer) (err error) {
	var (
		cp = ip.Conduction
	)
	c := Conduction1D.NewConduction(cp.Elements, cp.Length, equation.Conductivity{K0: cp.K0, Beta: cp.Beta},
		cp.TLeft, cp.TRight)
	c.Steps = cp.Steps
	c.NewtonIterations = cp.NewtonIterations
	c.NewtonTolerance = cp.NewtonTolerance
	_, c.SolverSettings = solverSettings(ip, solver.MethodBiCGSTAB)
	c.Verbose = c.SolverSettings.Verbose
	T, err := c.Run()
	if err != nil {
		return err
	}
	X := make([][]float64, len(c.X))
	for i, x := range c.X {
		X[i] = []float64{x}
	}
	printNodes(w, fmt.Sprintf("%s, Newton iterations per step %v", ip.Title, c.Iterations), X, T, "T")
	return
}
