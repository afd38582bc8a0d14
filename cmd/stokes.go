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
	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/model_problems/Stokes2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
	"github.com/notargets/gofem/utils"
)

// StokesCmd represents the stokes command
var StokesCmd = &cobra.Command{
	Use:   "stokes",
	Short: "Creeping flow in a lid driven cavity or a channel",
	Long: `
Solves Stokes flow with Q8 velocity and Q4 pressure elements, the velocity
prescribed on the whole boundary, printing (u, v, p) at the nodes,

gofem stokes -I cavity.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, err := processInput(cmd, types.Stokes)
		if err != nil {
			return err
		}
		return RunStokes(ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(StokesCmd)
	addInputFlag(StokesCmd)
}

func RunStokes(ip *InputParameters.InputParameters, w io.Writer) error {
	grid := newGrid(ip)
	if grid.Kind != geometry2D.Q8 {
		return fmt.Errorf("stokes flow needs Q8 elements, got %s", grid.Kind)
	}
	velocity := Stokes2D.Cavity(grid, ip.Stokes.Velocity)
	if ip.Stokes.Flow == "channel" {
		velocity = Stokes2D.Channel(grid, ip.Stokes.Velocity)
	}
	c := Stokes2D.NewStokes(grid, ip.Material.Viscosity, velocity)
	_, c.SolverSettings = solverSettings(ip, solver.MethodBiCGSTAB)
	c.Verbose = c.SolverSettings.Verbose
	U := c.Solve()
	if utils.IsNan([][]float64(U)) {
		return fmt.Errorf("BiCGSTAB broke down after %d iterations", c.Stats.Iterations)
	}
	if !c.Stats.Converged {
		fmt.Fprintf(w, "# warning: BiCGSTAB did not converge, |r| = %8.5e\n", c.Stats.ResidualNorm)
	}
	printNodes(w, fmt.Sprintf("%s, %s flow", ip.Title, ip.Stokes.Flow), grid.X, U, "u", "v", "p")
	return nil
}
