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
	"github.com/notargets/gofem/model_problems/Topology2D"
	"github.com/notargets/gofem/topology"
	"github.com/notargets/gofem/types"
)

// TopologyCmd represents the topology command
var TopologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Minimum compliance topology optimization",
	Long: `
Distributes a limited amount of material over the grid to minimize the
harmonic mean of the load case compliances, printing the element densities,

gofem topology -I cantilever.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, err := processInput(cmd, types.Topology)
		if err != nil {
			return err
		}
		return RunTopology(ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(TopologyCmd)
	addInputFlag(TopologyCmd)
}

func RunTopology(ip *InputParameters.InputParameters, w io.Writer) error {
	var (
		tpp = ip.Topology
	)
	model, err := newElastic(ip)
	if err != nil {
		return err
	}
	tp := Topology2D.NewTopology(model, tpp.VolumeFraction, tpp.FilterRadius)
	if tp.Optimizer, err = types.NewOptimizer(tpp.Optimizer); err != nil {
		return err
	}
	tp.Model.Verbose = false
	tp.Material = topology.SIMP{E0: tpp.VoidYoung * ip.Material.Young, E1: ip.Material.Young, P: tpp.Penalization}
	tp.MaxIterations = tpp.Iterations
	tp.Tolerance = tpp.Tolerance
	tp.Verbose = tp.Model.SolverSettings.Verbose
	if tp.Filter != nil {
		tp.Filter.Beta = tpp.Beta
	}
	n, err := tp.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s: %s, %d iterations, objective %12.6e\n", ip.Title, tp.Optimizer, n, tp.History[n-1])
	fmt.Fprintf(w, "# element %12s %12s %10s\n", "x", "y", "density")
	rho := tp.Densities()
	for e, c := range tp.Model.Grid.Centroids() {
		fmt.Fprintf(w, "%9d %12.6f %12.6f %10.6f\n", e, c[0], c[1], rho[e])
	}
	return nil
}
