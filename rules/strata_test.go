package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleGraphIsBuiltOnceAndPopulated(t *testing.T) {
	g := RuleGraph()
	require.NotEmpty(t, g.Strata)
	assert.Len(t, g.Strata, 4)
	assert.Len(t, g.Strata[0].Rules, 4)
	assert.Len(t, g.Strata[3].Rules, 4)
}

func TestValidateGraphAcceptsTheBuiltGraph(t *testing.T) {
	assert.NoError(t, validateGraph(buildGraph()))
}

func TestValidateGraphRejectsSameStratumAntijoin(t *testing.T) {
	bad := Graph{Strata: []Stratum{
		{Rules: []Rule{
			{Produces: RelNameInScope},
			{Produces: RelNoUndef, Antijoin: []Relation{RelNameInScope}},
		}},
	}}
	err := validateGraph(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same stratum")
}
