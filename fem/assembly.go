package fem

import (
	"fmt"

	"github.com/notargets/gofem/utils"
)

// LocalDOF ties one slot of an element node to a row/column of the local
// element matrix.
type LocalDOF struct {
	Slot, Local int
}

// LocalMap lists, per local element node, the slots it contributes and
// where they sit in Ke. It is produced by the physics kernel with Ke.
type LocalMap [][]LocalDOF

// System is the global sparse system K x = F being accumulated.
type System struct {
	K *utils.DOK
	F []float64
}

func NewSystem(KDEGREE int) (s *System) {
	s = &System{
		K: utils.NewDOK(KDEGREE, KDEGREE),
		F: make([]float64, KDEGREE),
	}
	return
}

func (s *System) Size() int { return len(s.F) }

// Compress freezes the store and returns the row-compressed view used by the
// solvers. Further contributions need a new System.
func (s *System) Compress() utils.CSR {
	s.K.SetReadOnly("K")
	return s.K.ToCSR()
}

// dofRef is one local row/column of an element resolved against the DOF map.
// node is the periodic root, which holds the value of a prescribed slot.
type dofRef struct {
	node, slot, local, global int
}

func (s *System) resolve(dm *DOFMap, lm LocalMap, element []int, nLocal int, refs []dofRef) []dofRef {
	if len(lm) != len(element) {
		panic(fmt.Errorf("local map has %d nodes, element has %d", len(lm), len(element)))
	}
	for i, node := range element {
		for _, ld := range lm[i] {
			if ld.Local < 0 || ld.Local >= nLocal {
				panic(fmt.Errorf("local index %d out of range for element matrix of size %d", ld.Local, nLocal))
			}
			g := dm.Global(node, ld.Slot)
			if g >= s.Size() {
				panic(fmt.Errorf("equation %d of node %d slot %d exceeds system size %d", g, node, ld.Slot, s.Size()))
			}
			refs = append(refs, dofRef{dm.Root(node), ld.Slot, ld.Local, g})
		}
	}
	return refs
}

func checkSquare(Ke utils.Matrix) (n int) {
	nr, nc := Ke.Dims()
	if nr != nc {
		panic(fmt.Errorf("element matrix must be square, got [%d x %d]", nr, nc))
	}
	return nr
}

// scatter adds the coupling of every free row with every column: free
// columns go into K when withMatrix, prescribed columns are condensed into F
// when withCondensation.
func (s *System) scatter(Ke utils.Matrix, u Field, refs []dofRef, withMatrix, withCondensation bool) {
	for _, ri := range refs {
		if ri.global == Fixed {
			continue
		}
		for _, rj := range refs {
			kij := Ke.At(ri.local, rj.local)
			if kij == 0 {
				continue
			}
			switch {
			case rj.global != Fixed:
				if withMatrix {
					s.K.Add(ri.global, rj.global, kij)
				}
			case withCondensation:
				if u == nil {
					panic(fmt.Errorf("prescribed node %d slot %d needs a value field for condensation", rj.node, rj.slot))
				}
				u.checkSlot(rj.node, rj.slot)
				s.F[ri.global] -= kij * u[rj.node][rj.slot]
			}
		}
	}
}

func (s *System) scatterVector(Fe []float64, refs []dofRef) {
	for _, ri := range refs {
		if ri.global != Fixed {
			s.F[ri.global] += Fe[ri.local]
		}
	}
}

// Assemble scatters Ke into K and Fe into F, folding the columns of
// prescribed slots into F with the values held in u. Fe may be nil.
func (s *System) Assemble(Ke utils.Matrix, Fe []float64, u Field, dm *DOFMap, lm LocalMap, element []int) {
	n := checkSquare(Ke)
	if Fe != nil && len(Fe) != n {
		panic(fmt.Errorf("element vector length %d does not match element matrix size %d", len(Fe), n))
	}
	refs := s.resolve(dm, lm, element, n, nil)
	s.scatter(Ke, u, refs, true, true)
	if Fe != nil {
		s.scatterVector(Fe, refs)
	}
}

// AssembleMatrix scatters Ke into K only. Couplings to prescribed slots
// are dropped.
func (s *System) AssembleMatrix(Ke utils.Matrix, dm *DOFMap, lm LocalMap, element []int) {
	n := checkSquare(Ke)
	refs := s.resolve(dm, lm, element, n, nil)
	s.scatter(Ke, nil, refs, true, false)
}

// AssembleVector scatters a bare element load vector into F.
func (s *System) AssembleVector(Fe []float64, dm *DOFMap, lm LocalMap, element []int) {
	refs := s.resolve(dm, lm, element, len(Fe), nil)
	s.scatterVector(Fe, refs)
}

// AssembleCondensation adds only the prescribed value terms of Ke to F, so
// several right hand sides can share one matrix assembled by AssembleMatrix.
func (s *System) AssembleCondensation(u Field, Ke utils.Matrix, dm *DOFMap, lm LocalMap, element []int) {
	n := checkSquare(Ke)
	refs := s.resolve(dm, lm, element, n, nil)
	s.scatter(Ke, u, refs, false, true)
}

// AssembleGroups assembles one element matrix whose rows span several node
// groups, each with its own local map, e.g. velocity and pressure nodes of a
// mixed element.
func (s *System) AssembleGroups(Ke utils.Matrix, u Field, dm *DOFMap, lms []LocalMap, elements [][]int) {
	if len(lms) != len(elements) {
		panic(fmt.Errorf("got %d local maps for %d element groups", len(lms), len(elements)))
	}
	var (
		n    = checkSquare(Ke)
		refs []dofRef
	)
	for g := range elements {
		refs = s.resolve(dm, lms[g], elements[g], n, refs)
	}
	s.scatter(Ke, u, refs, true, true)
}

// AssembleNeumann adds nodal loads directly into F. Loads on prescribed
// slots are ignored.
func (s *System) AssembleNeumann(loads []NodalValue, dm *DOFMap) {
	for _, l := range loads {
		if g := dm.Global(l.Node, l.Slot); g != Fixed {
			s.F[g] += l.Value
		}
	}
}
