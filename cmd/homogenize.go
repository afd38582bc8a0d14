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
	"github.com/notargets/gofem/model_problems/Homogenization2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
)

// HomogenizeCmd represents the homogenize command
var HomogenizeCmd = &cobra.Command{
	Use:   "homogenize",
	Short: "Effective moduli of a periodic unit cell",
	Long: `
Computes the homogenized plane strain constitutive matrix of a periodic cell
covering the grid, optionally with a circular inclusion at its center,

gofem homogenize -I cell.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, err := processInput(cmd, types.Homogenize)
		if err != nil {
			return err
		}
		return RunHomogenize(ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(HomogenizeCmd)
	addInputFlag(HomogenizeCmd)
}

func RunHomogenize(ip *InputParameters.InputParameters, w io.Writer) error {
	var (
		mp = ip.Material
	)
	grid := newGrid(ip)
	young := Homogenization2D.Inclusion(grid, mp.InclusionRadius, mp.Young, mp.InclusionYoung)
	h := Homogenization2D.NewHomogenization(grid, young, mp.Poisson)
	h.T = mp.Thickness
	h.Method, h.SolverSettings = solverSettings(ip, solver.MethodScalingCG)
	h.Verbose = h.SolverSettings.Verbose
	CH := h.Run()
	for k, st := range h.Stats {
		if !st.Converged {
			fmt.Fprintf(w, "# warning: unit strain %d did not converge, |r| = %8.5e\n", k, st.ResidualNorm)
		}
	}
	fmt.Fprintf(w, "# %s, homogenized constitutive matrix\n", ip.Title)
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "%14.6e %14.6e %14.6e\n", CH.At(i, 0), CH.At(i, 1), CH.At(i, 2))
	}
	return nil
}
