package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternerStableHandles(t *testing.T) {
	pool := NewInterner()
	a := pool.Intern("foo")
	b := pool.Intern("bar")
	c := pool.Intern("foo")

	assert.Equal(t, a, c, "interning the same text twice must return the same handle")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "foo", pool.Text(a))
	assert.Equal(t, "bar", pool.Text(b))
}

func TestInternerConcurrentIntern(t *testing.T) {
	pool := NewInterner()
	done := make(chan Name, 32)
	for i := 0; i < 32; i++ {
		go func() { done <- pool.Intern("shared") }()
	}
	first := <-done
	for i := 1; i < 32; i++ {
		assert.Equal(t, first, <-done)
	}
}

func TestAnyIdConstructors(t *testing.T) {
	cases := []struct {
		id   AnyId
		kind AnyKind
	}{
		{AnyIdFunc(1), AnyFunc},
		{AnyIdClass(2), AnyClass},
		{AnyIdStmt(3), AnyStmt},
		{AnyIdExpr(4), AnyExpr},
		{AnyIdFile(5), AnyFile},
		{AnyIdImport(6), AnyImport},
		{AnyIdGlobal(7), AnyGlobal},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.id.Kind)
	}
}

func TestParseRecordStructVsCtor(t *testing.T) {
	rec, err := ParseRecord(map[string]any{
		"file":  "f1",
		"scope": "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, TagStruct, rec.Tag)
	assert.Equal(t, []string{"file", "scope"}, rec.Keys())

	seq, err := ParseRecord(map[string]any{
		"Sequence": []any{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, TagCtor, seq.Tag)
	assert.Equal(t, "Sequence", seq.Ctor)
	assert.Len(t, seq.Items, 2)
}

func TestParseRecordTupleAndScalar(t *testing.T) {
	rec, err := ParseRecord([]any{int64(1), "x", true})
	require.NoError(t, err)
	assert.Equal(t, TagTuple, rec.Tag)
	assert.Equal(t, TagScalar, rec.Items[1].Tag)
	assert.Equal(t, "x", rec.Items[1].Scalar)
}
