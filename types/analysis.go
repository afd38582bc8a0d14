package types

import (
	"fmt"
	"strings"
)

type Analysis uint8

const (
	Elastic Analysis = iota
	Topology
	Stokes
	Conduction
	Homogenize
)

var (
	AnalysisNames = map[string]Analysis{
		"elastic":        Elastic,
		"elasticity":     Elastic,
		"topology":       Topology,
		"stokes":         Stokes,
		"conduction":     Conduction,
		"homogenize":     Homogenize,
		"homogenization": Homogenize,
	}
	AnalysisPrintNames = []string{"Elastic", "Topology", "Stokes", "Conduction", "Homogenize"}
)

func (a Analysis) String() string {
	if int(a) < len(AnalysisPrintNames) {
		return AnalysisPrintNames[a]
	}
	return fmt.Sprintf("Analysis(%d)", int(a))
}

func NewAnalysis(label string) (a Analysis, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if a, ok = AnalysisNames[label]; !ok {
		err = fmt.Errorf("unknown analysis %q, choose one of %v", label, AnalysisPrintNames)
	}
	return
}

// DirichletMethod selects how prescribed values enter the system.
type DirichletMethod uint8

const (
	Elimination DirichletMethod = iota // prescribed slots leave the system, their columns move to the load
	Penalty                            // prescribed slots stay, the diagonal is scaled by the penalty factor
)

var (
	DirichletNames = map[string]DirichletMethod{
		"elimination":  Elimination,
		"condensation": Elimination,
		"penalty":      Penalty,
	}
	DirichletPrintNames = []string{"Elimination", "Penalty"}
)

func (dm DirichletMethod) String() string {
	if int(dm) < len(DirichletPrintNames) {
		return DirichletPrintNames[dm]
	}
	return fmt.Sprintf("DirichletMethod(%d)", int(dm))
}

func NewDirichletMethod(label string) (dm DirichletMethod, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return Elimination, nil
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if dm, ok = DirichletNames[label]; !ok {
		err = fmt.Errorf("unknown Dirichlet method %q, choose one of %v", label, DirichletPrintNames)
	}
	return
}

// Optimizer selects the design update of a topology optimization.
type Optimizer uint8

const (
	OptimalityCriteria Optimizer = iota
	MovingAsymptotes
)

var (
	OptimizerNames = map[string]Optimizer{
		"oc":  OptimalityCriteria,
		"mma": MovingAsymptotes,
	}
	OptimizerPrintNames = []string{"OC", "MMA"}
)

func (o Optimizer) String() string {
	if int(o) < len(OptimizerPrintNames) {
		return OptimizerPrintNames[o]
	}
	return fmt.Sprintf("Optimizer(%d)", int(o))
}

func NewOptimizer(label string) (o Optimizer, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return OptimalityCriteria, nil
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if o, ok = OptimizerNames[label]; !ok {
		err = fmt.Errorf("unknown optimizer %q, choose one of %v", label, OptimizerPrintNames)
	}
	return
}
