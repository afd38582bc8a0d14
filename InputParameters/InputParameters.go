package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofem/geometry2D"
	"github.com/notargets/gofem/solver"
	"github.com/notargets/gofem/types"
)

type MeshParameters struct {
	NX      int     `json:"NX"`
	NY      int     `json:"NY"`
	LX      float64 `json:"LX"`
	LY      float64 `json:"LY"`
	Element string  `json:"Element"` // Q4 or Q8
}

type MaterialParameters struct {
	Young     float64    `json:"Young"`
	Poisson   float64    `json:"Poisson"`
	Thickness float64    `json:"Thickness"`
	Viscosity float64    `json:"Viscosity"`
	BodyForce [2]float64 `json:"BodyForce"` // elastic and topology

	// Homogenization only: elements whose centroid lies within InclusionRadius
	// of the cell center use InclusionYoung
	InclusionRadius float64 `json:"InclusionRadius"`
	InclusionYoung  float64 `json:"InclusionYoung"`
}

type SolverParameters struct {
	Method        string  `json:"Method"`
	Tolerance     float64 `json:"Tolerance"`
	MaxIterations int     `json:"MaxIterations"`
}

// Support prescribes Value on the listed slots of every node of a side.
type Support struct {
	Side  string  `json:"Side"`
	Slots []int   `json:"Slots"`
	Value float64 `json:"Value"`
}

// PointLoad applies Value to one slot of the node closest to At.
type PointLoad struct {
	At    []float64 `json:"At"`
	Slot  int       `json:"Slot"`
	Value float64   `json:"Value"`
}

type TopologyParameters struct {
	VolumeFraction float64 `json:"VolumeFraction"`
	Iterations     int     `json:"Iterations"`
	Tolerance      float64 `json:"Tolerance"`
	Penalization   int     `json:"Penalization"`
	VoidYoung      float64 `json:"VoidYoung"`
	FilterRadius   float64 `json:"FilterRadius"` // no filter when zero
	Beta           float64 `json:"Beta"`
	Optimizer      string  `json:"Optimizer"` // oc or mma
}

type ConductionParameters struct {
	Elements         int     `json:"Elements"`
	Length           float64 `json:"Length"`
	K0               float64 `json:"K0"`
	Beta             float64 `json:"Beta"`
	TLeft            float64 `json:"TLeft"`
	TRight           float64 `json:"TRight"`
	Steps            int     `json:"Steps"`
	NewtonIterations int     `json:"NewtonIterations"`
	NewtonTolerance  float64 `json:"NewtonTolerance"`
}

type StokesParameters struct {
	Flow     string  `json:"Flow"` // cavity or channel
	Velocity float64 `json:"Velocity"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title      string               `json:"Title"`
	Analysis   string               `json:"Analysis"`
	Dirichlet  string               `json:"Dirichlet"` // elimination or penalty
	Penalty    float64              `json:"Penalty"`
	Mesh       MeshParameters       `json:"Mesh"`
	Material   MaterialParameters   `json:"Material"`
	Solver     SolverParameters     `json:"Solver"`
	Supports   []Support            `json:"Supports"`
	LoadCases  [][]PointLoad        `json:"LoadCases"`
	Topology   TopologyParameters   `json:"Topology"`
	Conduction ConductionParameters `json:"Conduction"`
	Stokes     StokesParameters     `json:"Stokes"`
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.setDefaults()
	return ip.Validate()
}

func (ip *InputParameters) setDefaults() {
	if ip.Penalty == 0 {
		ip.Penalty = 1.e10
	}
	if ip.Material.Thickness == 0 {
		ip.Material.Thickness = 1
	}
	if ip.Material.Viscosity == 0 {
		ip.Material.Viscosity = 1
	}
	tp := &ip.Topology
	if tp.Iterations == 0 {
		tp.Iterations = 100
	}
	if tp.Tolerance == 0 {
		tp.Tolerance = 1.e-5
	}
	if tp.Penalization == 0 {
		tp.Penalization = 3
	}
	if tp.VoidYoung == 0 {
		tp.VoidYoung = 1.e-3
	}
	if tp.Beta == 0 {
		tp.Beta = 1
	}
	cp := &ip.Conduction
	if cp.Steps == 0 {
		cp.Steps = 1
	}
	if cp.NewtonIterations == 0 {
		cp.NewtonIterations = 20
	}
	if cp.NewtonTolerance == 0 {
		cp.NewtonTolerance = 1.e-8
	}
	if len(ip.Stokes.Flow) == 0 {
		ip.Stokes.Flow = "cavity"
	}
	if ip.Stokes.Velocity == 0 {
		ip.Stokes.Velocity = 1
	}
}

// Validate checks the labels and the parameters the selected analysis reads.
func (ip *InputParameters) Validate() (err error) {
	var (
		analysis types.Analysis
	)
	if analysis, err = types.NewAnalysis(ip.Analysis); err != nil {
		return
	}
	if _, err = types.NewDirichletMethod(ip.Dirichlet); err != nil {
		return
	}
	if _, err = solver.NewMethod(ip.Solver.Method); err != nil {
		return
	}
	if ip.Penalty <= 0 {
		return fmt.Errorf("penalty factor must be positive, got %v", ip.Penalty)
	}
	if analysis == types.Conduction {
		cp := ip.Conduction
		switch {
		case cp.Elements < 1:
			return fmt.Errorf("conduction needs at least one element, got %d", cp.Elements)
		case cp.Length <= 0:
			return fmt.Errorf("conduction length must be positive, got %v", cp.Length)
		case cp.K0 <= 0:
			return fmt.Errorf("conductivity K0 must be positive, got %v", cp.K0)
		}
		return
	}
	if _, err = geometry2D.NewElementKind(ip.Mesh.Element); err != nil {
		return
	}
	if ip.Mesh.NX < 1 || ip.Mesh.NY < 1 || ip.Mesh.LX <= 0 || ip.Mesh.LY <= 0 {
		return fmt.Errorf("mesh needs positive sizes, got %d x %d elements over %v x %v",
			ip.Mesh.NX, ip.Mesh.NY, ip.Mesh.LX, ip.Mesh.LY)
	}
	switch analysis {
	case types.Stokes:
		if ip.Stokes.Flow != "cavity" && ip.Stokes.Flow != "channel" {
			return fmt.Errorf("unknown Stokes flow %q, choose cavity or channel", ip.Stokes.Flow)
		}
		return
	case types.Homogenize:
		if ip.Material.Young <= 0 {
			return fmt.Errorf("elastic modulus must be positive, got %v", ip.Material.Young)
		}
		if ip.Material.InclusionRadius > 0 && ip.Material.InclusionYoung <= 0 {
			return fmt.Errorf("inclusion modulus must be positive, got %v", ip.Material.InclusionYoung)
		}
		return
	}
	if ip.Material.Young <= 0 {
		return fmt.Errorf("elastic modulus must be positive, got %v", ip.Material.Young)
	}
	if len(ip.LoadCases) == 0 {
		return fmt.Errorf("%s analysis needs at least one load case", analysis)
	}
	for _, s := range ip.Supports {
		if _, err = geometry2D.NewSide(s.Side); err != nil {
			return
		}
		for _, slot := range s.Slots {
			if slot < 0 || slot > 1 {
				return fmt.Errorf("support slot %d out of range, displacements use slots 0 and 1", slot)
			}
		}
	}
	for lc, loads := range ip.LoadCases {
		for _, l := range loads {
			if len(l.At) != 2 || l.Slot < 0 || l.Slot > 1 {
				return fmt.Errorf("load case %d: load needs a 2D location and slot 0 or 1, got %v slot %d", lc, l.At, l.Slot)
			}
		}
	}
	if analysis == types.Topology {
		if vf := ip.Topology.VolumeFraction; vf <= 0 || vf > 1 {
			return fmt.Errorf("volume fraction must be in (0,1], got %v", vf)
		}
		if _, err = types.NewOptimizer(ip.Topology.Optimizer); err != nil {
			return
		}
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Analysis\n", ip.Analysis)
	if ip.Analysis == "conduction" {
		cp := ip.Conduction
		fmt.Printf("[%d]\t\t\t= Elements\n", cp.Elements)
		fmt.Printf("%8.5f\t\t= Length\n", cp.Length)
		fmt.Printf("k(T) = %g (1 + %g T)\n", cp.K0, cp.Beta)
		fmt.Printf("T = [%g, %g] in %d steps\n", cp.TLeft, cp.TRight, cp.Steps)
		return
	}
	fmt.Printf("[%d x %d %s]\t\t= Mesh over %g x %g\n", ip.Mesh.NX, ip.Mesh.NY, ip.Mesh.Element, ip.Mesh.LX, ip.Mesh.LY)
	fmt.Printf("E = %g, nu = %g, t = %g\n", ip.Material.Young, ip.Material.Poisson, ip.Material.Thickness)
	fmt.Printf("[%s]\t\t= Dirichlet, penalty = %g\n", ip.Dirichlet, ip.Penalty)
	fmt.Printf("[%s]\t\t= Linear solver\n", ip.Solver.Method)
	for _, s := range ip.Supports {
		fmt.Printf("Support[%s] slots %v = %g\n", s.Side, s.Slots, s.Value)
	}
	for lc, loads := range ip.LoadCases {
		fmt.Printf("LoadCase[%d] = %v\n", lc, loads)
	}
}
