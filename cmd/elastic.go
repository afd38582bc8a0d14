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
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/model_problems/Elastic2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
)

// ElasticCmd represents the elastic command
var ElasticCmd = &cobra.Command{
	Use:   "elastic",
	Short: "Static plane strain analysis with one or more load cases",
	Long: `
Solves plane strain elasticity on a structured Q4 or Q8 grid. Supports are
imposed by elimination or by the penalty method, every load case prints a
table of nodal displacements,

gofem elastic -I cantilever.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, err := processInput(cmd, types.Elastic)
		if err != nil {
			return err
		}
		return RunElastic(ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(ElasticCmd)
	addInputFlag(ElasticCmd)
}

func newElastic(ip *InputParameters.InputParameters) (c *Elastic2D.Elastic, err error) {
	var (
		grid  = newGrid(ip)
		cases [][]fem.NodalValue
	)
	if cases, err = loadCases(grid, ip); err != nil {
		return
	}
	c = Elastic2D.NewElastic(grid, ip.Material.Young, ip.Material.Poisson, ip.Material.Thickness,
		supports(grid, ip), cases)
	c.BodyForce = ip.Material.BodyForce
	c.Dirichlet, _ = types.NewDirichletMethod(ip.Dirichlet)
	c.Penalty = ip.Penalty
	c.Method, c.SolverSettings = solverSettings(ip, solver.MethodCG)
	c.Verbose = c.SolverSettings.Verbose
	return
}

func RunElastic(ip *InputParameters.InputParameters, w io.Writer) error {
	c, err := newElastic(ip)
	if err != nil {
		return err
	}
	for lc, r := range c.Solve() {
		if !r.Stats.Converged {
			fmt.Fprintf(w, "# warning: load case %d did not converge, |r| = %8.5e\n", lc, r.Stats.ResidualNorm)
		}
		printNodes(w, fmt.Sprintf("%s load case %d, compliance %12.6e", ip.Title, lc, r.Compliance),
			c.Grid.X, r.U, "ux", "uy")
	}
	return nil
}
