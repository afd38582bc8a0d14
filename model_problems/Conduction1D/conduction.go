package Conduction1D

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofem/equation"
	"github.com/notargets/gofem/fem"
	"github.com/notargets/gofem/solver"
)

/*
Conduction solves steady 1D conduction with a temperature dependent
conductivity between two prescribed end temperatures. The right end value is
reached in Steps equal increments, each followed by Newton iterations on the
out of balance flux. The increment of the prescribed value enters the first
Newton system through static condensation of the temperature correction.
*/
type Conduction struct {
	X                []float64
	Elements         [][]int
	C                equation.Conductivity
	TLeft, TRight    float64
	Steps            int
	NewtonIterations int
	NewtonTolerance  float64
	SolverSettings   solver.Settings
	Verbose          bool
	DM               *fem.DOFMap
	T                fem.Field
	Iterations       []int // Newton iterations per step
}

// NewConduction builds a uniform mesh of K two node elements over [0, L].
func NewConduction(K int, L float64, c equation.Conductivity, TLeft, TRight float64) (cd *Conduction) {
	if K < 1 || L <= 0 {
		panic(fmt.Errorf("conduction mesh needs K > 0 and L > 0, got %d and %v", K, L))
	}
	cd = &Conduction{
		X:                make([]float64, K+1),
		Elements:         make([][]int, K),
		C:                c,
		TLeft:            TLeft,
		TRight:           TRight,
		Steps:            1,
		NewtonIterations: 20,
		NewtonTolerance:  1.e-8,
	}
	for i := range cd.X {
		cd.X[i] = L * float64(i) / float64(K)
	}
	for k := range cd.Elements {
		cd.Elements[k] = []int{k, k + 1}
	}
	return
}

func (cd *Conduction) coordinates() (x [][]float64) {
	x = make([][]float64, len(cd.X))
	for i, xi := range cd.X {
		x[i] = []float64{xi}
	}
	return
}

// Run returns the temperatures at the nodes. A step that does not converge
// ends the run with an error and the state reached so far.
func (cd *Conduction) Run() (T fem.Field, err error) {
	var (
		start = time.Now()
		x     = cd.coordinates()
		last  = len(cd.X) - 1
	)
	cd.DM = fem.NewDOFMap(len(cd.X), 1)
	cd.T = fem.NewFieldFromMap(cd.DM)
	for i := range cd.T {
		cd.T[i][0] = cd.TLeft
	}
	cd.DM.Fix(0, 0)
	cd.DM.Fix(last, 0)
	n := cd.DM.Renumber()
	cd.Iterations = nil
	for step := 1; step <= cd.Steps; step++ {
		var (
			target = cd.TLeft + (cd.TRight-cd.TLeft)*float64(step)/float64(cd.Steps)
			dT     = fem.NewFieldFromMap(cd.DM)
			it     int
			norm   float64
		)
		dT[last][0] = target - cd.T[last][0]
		for it = 0; it < cd.NewtonIterations; it++ {
			sys := fem.NewSystem(n)
			for _, element := range cd.Elements {
				Ke, Re, lm := equation.Conduction1D(x, element, 0, cd.C, cd.T)
				sys.Assemble(Ke, Re, dT, cd.DM, lm, element)
			}
			if norm = floats.Norm(sys.F, 2); norm < cd.NewtonTolerance && dT[last][0] == 0 {
				break
			}
			res := solver.BiCGSTAB(sys.Compress(), sys.F, cd.SolverSettings)
			fem.Disassemble(dT, res.X, cd.DM)
			cd.T.Add(dT)
			dT[last][0] = 0
		}
		if it == cd.NewtonIterations {
			err = fmt.Errorf("step %d: Newton did not converge in %d iterations, |R| = %8.5e", step, it, norm)
			return cd.T, err
		}
		cd.Iterations = append(cd.Iterations, it)
		if cd.Verbose {
			fmt.Printf("step %d: T(L) = %8.5f, Newton iterations = %d, |R| = %8.5e\n", step, target, it, norm)
		}
	}
	if cd.Verbose {
		fmt.Printf("Conduction time = %v\n", time.Since(start))
	}
	return cd.T, nil
}
