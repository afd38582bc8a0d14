package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{
		tokens := []string{"Elastic", "topology", " STOKES ", "conduction", "Homogenization"}
		kinds := []Analysis{Elastic, Topology, Stokes, Conduction, Homogenize}
		for i, token := range tokens {
			a, err := NewAnalysis(token)
			assert.NoError(t, err)
			assert.Equal(t, kinds[i], a)
		}
		_, err := NewAnalysis("euler")
		assert.Error(t, err)
		assert.Equal(t, "Conduction", Conduction.String())
		assert.Equal(t, "Analysis(9)", Analysis(9).String())
	}
	{
		dm, err := NewDirichletMethod("")
		assert.NoError(t, err)
		assert.Equal(t, Elimination, dm)
		dm, err = NewDirichletMethod("Penalty")
		assert.NoError(t, err)
		assert.Equal(t, Penalty, dm)
		_, err = NewDirichletMethod("lagrange")
		assert.Error(t, err)
	}
	{
		o, err := NewOptimizer("")
		assert.NoError(t, err)
		assert.Equal(t, OptimalityCriteria, o)
		o, err = NewOptimizer(" MMA")
		assert.NoError(t, err)
		assert.Equal(t, MovingAsymptotes, o)
		assert.Equal(t, "MMA", o.String())
		_, err = NewOptimizer("sqp")
		assert.Error(t, err)
	}
}
