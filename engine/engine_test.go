package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/relscope/catalog"
	"github.com/viant/relscope/driver"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/relation"
	"github.com/viant/relscope/relerr"
)

func TestEngineCommitAndQueryChildScopeByParent(t *testing.T) {
	e := New()
	require.NoError(t, e.TransactionStart())
	require.NoError(t, e.ApplyUpdates([]driver.Update{
		{Kind: driver.Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}},
		{Kind: driver.Insert, Relation: catalog.InputInputScope, Tuple: inputs.InputScope{Parent: 100, Child: 200, File: 1}},
		{Kind: driver.Insert, Relation: catalog.InputInputScope, Tuple: inputs.InputScope{Parent: 200, Child: 300, File: 1}},
	}))
	_, err := e.TransactionCommit()
	require.NoError(t, err)

	results, err := e.QueryIndex(catalog.IndexChildScopeByParent, QueryKey{Parent: 100, File: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngineDumpTableByName(t *testing.T) {
	e := New()
	require.NoError(t, e.TransactionStart())
	require.NoError(t, e.ApplyUpdates([]driver.Update{
		{Kind: driver.Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}},
	}))
	_, err := e.TransactionCommit()
	require.NoError(t, err)

	rows, err := e.DumpTable("inputs::File")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = e.DumpTable("bogus")
	assert.Error(t, err)
}

func TestEngineSubscribeFiresOnCommit(t *testing.T) {
	e := New()
	var seen []relation.Tuple
	require.NoError(t, e.Subscribe("inputs::File", func(tuple relation.Tuple, delta int32) {
		if delta > 0 {
			seen = append(seen, tuple)
		}
	}))

	require.NoError(t, e.TransactionStart())
	require.NoError(t, e.ApplyUpdates([]driver.Update{
		{Kind: driver.Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}},
	}))
	_, err := e.TransactionCommit()
	require.NoError(t, err)

	assert.Len(t, seen, 1)
}

func TestEngineStopRejectsTransactionsUntilStart(t *testing.T) {
	e := New()
	require.NoError(t, e.Stop())
	err := e.TransactionStart()
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.TransactionState))

	require.NoError(t, e.Start())
	require.NoError(t, e.TransactionStart())
}
