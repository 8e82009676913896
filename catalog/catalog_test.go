package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputAndInputRelationCounts(t *testing.T) {
	assert.Len(t, outputNames, 11, "spec.md §6 lists 11 output relations")
	assert.Len(t, inputKinds, 51, "spec.md §6 lists 51 inputs::<Kind> relations")
}

func TestNameLookupRoundTrips(t *testing.T) {
	name, ok := Name(ChildScope)
	require.True(t, ok)
	assert.Equal(t, "ChildScope", name)

	id, ok := Lookup("ChildScope")
	require.True(t, ok)
	assert.Equal(t, ChildScope, id)

	name, ok = Name(InputFunction)
	require.True(t, ok)
	assert.Equal(t, "inputs::Function", name)
}

func TestUnknownRelationIsReported(t *testing.T) {
	_, ok := Name(RelationID(999999))
	assert.False(t, ok)
	_, ok = Lookup("NotARelation")
	assert.False(t, ok)
}

func TestIsInputAndIsOutputArePartition(t *testing.T) {
	assert.True(t, IsInput(InputFunction))
	assert.False(t, IsOutput(InputFunction))
	assert.True(t, IsOutput(ChildScope))
	assert.False(t, IsInput(ChildScope))
}

func TestIndexBindingsResolve(t *testing.T) {
	name, ok := IndexName(IndexChildScopeByParent)
	require.True(t, ok)
	assert.Equal(t, "ChildScopeByParent", name)

	binding, ok := Binding(IndexVariablesForScope)
	require.True(t, ok)
	assert.Equal(t, NameInScope, binding.Relation)
	assert.Equal(t, 1, binding.Arrangement)
}

func TestRegisterPanicsOnIDCollision(t *testing.T) {
	assert.Panics(t, func() {
		register(ChildScope, "SomethingElse", false)
	})
}

func TestRegisterPanicsOnNameCollision(t *testing.T) {
	assert.Panics(t, func() {
		register(RelationID(987654), "ChildScope", false)
	})
}
