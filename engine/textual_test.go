package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

func TestDecodeYAMLParsesUpdateList(t *testing.T) {
	doc := []byte(`
- relation: "inputs::File"
  kind: insert
  tuple: {Id: 1, Path: a.ts, Scope: 100}
`)
	updates, err := DecodeYAML(doc)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "inputs::File", updates[0].Relation)
	assert.Equal(t, "insert", updates[0].Kind)
}

func TestDecodePlainStruct(t *testing.T) {
	rec, err := ir.ParseRecord(map[string]any{"Id": 1, "Path": "a.ts", "Scope": 100})
	require.NoError(t, err)

	var f inputs.File
	interner := ir.NewInterner()
	require.NoError(t, Decode(rec, &f, interner))
	assert.Equal(t, ir.FileId(1), f.Id)
	assert.Equal(t, "a.ts", f.Path)
	assert.Equal(t, ir.ScopeId(100), f.Scope)
}

func TestDecodeOptAbsentAndPresent(t *testing.T) {
	recAbsent, err := ir.ParseRecord(map[string]any{"Id": 1, "File": 1, "Scope": 1, "Name": nil})
	require.NoError(t, err)
	var fn inputs.Function
	interner := ir.NewInterner()
	require.NoError(t, Decode(recAbsent, &fn, interner))
	_, ok := fn.Name.Get()
	assert.False(t, ok)

	recPresent, err := ir.ParseRecord(map[string]any{"Id": 1, "File": 1, "Scope": 1, "Name": "foo"})
	require.NoError(t, err)
	var fn2 inputs.Function
	require.NoError(t, Decode(recPresent, &fn2, interner))
	name, ok := fn2.Name.Get()
	require.True(t, ok)
	assert.Equal(t, "foo", interner.Text(name))
}

func TestDecodeAnyIdConstructor(t *testing.T) {
	rec, err := ir.ParseRecord(map[string]any{"func": 7})
	require.NoError(t, err)
	var id ir.AnyId
	require.NoError(t, Decode(rec, &id, nil))
	assert.Equal(t, ir.AnyIdFunc(ir.FuncId(7)), id)
}

func TestDecodeSpan(t *testing.T) {
	rec, err := ir.ParseRecord(map[string]any{"Start": 3, "End": 9})
	require.NoError(t, err)
	var span ir.Span
	require.NoError(t, Decode(rec, &span, nil))
	assert.Equal(t, ir.Span{Start: 3, End: 9}, span)
}
