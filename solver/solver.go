package solver

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Operator is the read-only matrix view the iterative methods need.
// utils.CSR satisfies it.
type Operator interface {
	Rows() int
	MulVec(dst, x []float64)
	Diagonal() []float64
}

const (
	DefaultTolerance = 1.e-10
)

type Settings struct {
	MaxIterations int       // 2*dim when zero
	Tolerance     float64   // absolute bound on |b - A x|, DefaultTolerance when zero
	X0            []float64 // initial guess, zero when nil
	Verbose       bool
}

type Stats struct {
	Iterations   int
	MatVec       int
	ResidualNorm float64
	Converged    bool
	StartTime    time.Time
	Runtime      time.Duration
}

// Result carries the last iterate. Not reaching the tolerance within the
// iteration budget is reported through Stats.Converged, never as an error.
type Result struct {
	X     []float64
	Stats Stats
}

type Method uint8

const (
	MethodCG Method = iota
	MethodScalingCG
	MethodBiCGSTAB
)

var (
	MethodNames = map[string]Method{
		"cg":        MethodCG,
		"scalingcg": MethodScalingCG,
		"bicgstab":  MethodBiCGSTAB,
	}
	MethodPrintNames = []string{"CG", "ScalingCG", "BiCGSTAB"}
)

func (m Method) String() string {
	if int(m) < len(MethodPrintNames) {
		return MethodPrintNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func NewMethod(label string) (m Method, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return MethodCG, nil
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if m, ok = MethodNames[label]; !ok {
		err = fmt.Errorf("unable to use linear solver named %s, choose one of %v", label, MethodPrintNames)
	}
	return
}

func Solve(m Method, A Operator, b []float64, s Settings) Result {
	switch m {
	case MethodCG:
		return CG(A, b, s)
	case MethodScalingCG:
		return ScalingCG(A, b, s)
	case MethodBiCGSTAB:
		return BiCGSTAB(A, b, s)
	default:
		panic(fmt.Errorf("unknown solver method %v", m))
	}
}

func (s *Settings) defaults(dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 2 * dim
	}
}

// start validates the inputs and returns the initial iterate and residual.
func start(A Operator, b []float64, s *Settings, stats *Stats) (x, r []float64) {
	dim := A.Rows()
	switch {
	case len(b) != dim:
		panic(fmt.Errorf("load vector length %d does not match operator rows %d", len(b), dim))
	case s.X0 != nil && len(s.X0) != dim:
		panic(fmt.Errorf("initial guess length %d does not match operator rows %d", len(s.X0), dim))
	}
	s.defaults(dim)
	stats.StartTime = time.Now()
	x = make([]float64, dim)
	r = make([]float64, dim)
	if s.X0 != nil {
		copy(x, s.X0)
		A.MulVec(r, x)
		stats.MatVec++
		floats.AddScaledTo(r, b, -1, r) // r = b - Ax
	} else {
		copy(r, b) // r = b
	}
	stats.ResidualNorm = floats.Norm(r, 2)
	stats.Converged = stats.ResidualNorm < s.Tolerance
	return
}

func (s Settings) report(name string, stats *Stats) {
	if s.Verbose {
		fmt.Printf("%s iter = %d, |r| = %8.5e\n", name, stats.Iterations, stats.ResidualNorm)
	}
}

func finish(x []float64, stats Stats) Result {
	stats.Runtime = time.Since(stats.StartTime)
	return Result{
		X:     x,
		Stats: stats,
	}
}
