package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/relscope/catalog"
	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
	"github.com/viant/relscope/relerr"
)

func TestStartTransactionRejectedOutsideIdle(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	err := d.StartTransaction()
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.TransactionState))
}

func TestApplyRejectsUnknownRelation(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	err := d.Apply(Update{Kind: Insert, Relation: catalog.RelationID(999999), Tuple: inputs.File{Id: 1, Path: "a.ts"}})
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.UnknownRelation))
}

func TestApplyRejectsSchemaMismatch(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	err := d.Apply(Update{Kind: Insert, Relation: catalog.InputFile, Tuple: inputs.EveryScope{Scope: 1, File: 1}})
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.SchemaMismatch))
}

func TestApplyRejectsDeleteKeyAndModify(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	tuple := inputs.File{Id: 1, Path: "a.ts", Scope: 1}
	err := d.Apply(Update{Kind: DeleteKey, Relation: catalog.InputFile, Tuple: tuple, Key: "a.ts"})
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.UnsupportedUpdate))

	err = d.Apply(Update{Kind: Modify, Relation: catalog.InputFile, Tuple: tuple})
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.UnsupportedUpdate))
}

func TestCommitDerivesChildScopeFromInputScope(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	require.NoError(t, d.Apply(Update{Kind: Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}}))
	require.NoError(t, d.Apply(Update{Kind: Insert, Relation: catalog.InputInputScope, Tuple: inputs.InputScope{Parent: 100, Child: 200, File: 1}}))
	require.NoError(t, d.Apply(Update{Kind: Insert, Relation: catalog.InputInputScope, Tuple: inputs.InputScope{Parent: 200, Child: 300, File: 1}}))

	result, err := d.Commit()
	require.NoError(t, err)
	assert.Equal(t, Idle, d.State())

	foundTransitive := false
	for _, cs := range result.ChildScope {
		if cs.Parent == ir.ScopeId(100) && cs.Child == ir.ScopeId(300) {
			foundTransitive = true
		}
	}
	assert.True(t, foundTransitive, "expected transitive closure 100->300")
}

func TestRollbackDiscardsBufferWithoutMutatingTables(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	require.NoError(t, d.Apply(Update{Kind: Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}}))
	require.NoError(t, d.Rollback())
	assert.Equal(t, Idle, d.State())

	table, ok := d.Store().Table(catalog.InputFile)
	require.True(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestCommitOutsideTransactionRejected(t *testing.T) {
	d := New()
	_, err := d.Commit()
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.TransactionState))
}

func TestStopRejectsFurtherTransactionsUntilStart(t *testing.T) {
	d := New()
	require.NoError(t, d.Stop())
	err := d.StartTransaction()
	require.Error(t, err)
	assert.True(t, relerr.Is(err, relerr.TransactionState))

	require.NoError(t, d.Start())
	require.NoError(t, d.StartTransaction())
}

func TestStopDiscardsPendingTransactionAndReturnsToIdle(t *testing.T) {
	d := New()
	require.NoError(t, d.StartTransaction())
	require.NoError(t, d.Apply(Update{Kind: Insert, Relation: catalog.InputFile, Tuple: inputs.File{Id: 1, Path: "a.ts", Scope: 100}}))
	require.NoError(t, d.Stop())
	assert.Equal(t, Idle, d.State())
}
