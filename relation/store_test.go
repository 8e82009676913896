package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRegisterAndDispatch(t *testing.T) {
	store := NewStore[int]()
	table := NewTable[fact]("facts", true, true, false)
	store.Register(1, table)

	got, ok := store.Table(1)
	require.True(t, ok)
	assert.Equal(t, "facts", got.Name())

	err := got.ApplyDeltaAny(fact{ID: 1, Name: "a"}, +1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Len(t, got.SnapshotAny(), 1)

	_, ok = store.Table(2)
	assert.False(t, ok)
}

func TestStoreRegisterCollisionPanics(t *testing.T) {
	store := NewStore[int]()
	store.Register(1, NewTable[fact]("a", true, true, false))
	assert.Panics(t, func() {
		store.Register(1, NewTable[fact]("b", true, true, false))
	})
}
