package tsfacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/relscope/driver"
	"github.com/viant/relscope/ir"
)

func TestProduceFunctionDeclarationEmitsScopeAndNameRef(t *testing.T) {
	src := []byte(`function add(a, b) {
  return a + b;
}
`)
	interner := ir.NewInterner()
	facts, err := Produce("add.js", src, 1, interner)
	require.NoError(t, err)

	assert.Equal(t, ir.FileId(1), facts.File.Id)
	require.Len(t, facts.Functions, 1)
	name, ok := facts.Functions[0].Name.Get()
	require.True(t, ok)
	assert.Equal(t, "add", interner.Text(name))

	require.Len(t, facts.FunctionArgs, 2)
	assert.Equal(t, "a", interner.Text(facts.FunctionArgs[0].Pattern))
	assert.Equal(t, "b", interner.Text(facts.FunctionArgs[1].Pattern))

	require.NotEmpty(t, facts.BinOps)
	assert.Equal(t, "+", facts.BinOps[0].Op)

	require.NotEmpty(t, facts.InputScope)
	require.NotEmpty(t, facts.NameRefs)
}

func TestProduceLetDeclarationAndMemberAccess(t *testing.T) {
	src := []byte(`let user = window.current;
`)
	facts, err := Produce("u.ts", src, 2, ir.NewInterner())
	require.NoError(t, err)

	require.Len(t, facts.LetDecls, 1)
	require.Len(t, facts.DotAccesses, 1)
}

func TestProduceTypeofExpression(t *testing.T) {
	src := []byte(`const isFn = typeof handler;
`)
	facts, err := Produce("t.js", src, 3, ir.NewInterner())
	require.NoError(t, err)

	require.Len(t, facts.ConstDecls, 1)
	require.Len(t, facts.UnaryOps, 1)
	assert.Equal(t, int(0), int(facts.UnaryOps[0].Op)) // OpTypeof is the zero value
}

func TestFactsUpdatesProducesInsertsForEveryRelation(t *testing.T) {
	src := []byte(`function f() { return 1; }`)
	facts, err := Produce("f.js", src, 4, ir.NewInterner())
	require.NoError(t, err)

	updates := facts.Updates()
	require.NotEmpty(t, updates)
	for _, u := range updates {
		assert.Equal(t, driver.Insert, u.Kind)
		assert.NotNil(t, u.Tuple)
	}
}

func TestTypeScriptExtensionUsesTypeScriptGrammar(t *testing.T) {
	src := []byte(`const x: number = 1;`)
	facts, err := Produce("x.ts", src, 5, ir.NewInterner())
	require.NoError(t, err)
	assert.Equal(t, "x.ts", facts.File.Path)
}
