package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fact struct {
	ID   int
	Name string
}

func (f fact) Key() string { return StructKey(f) }

func TestApplyDeltaDistinctClampsAndFiresOnFlip(t *testing.T) {
	table := NewTable[fact]("facts", true, true, false)
	var events []int32
	table.OnChange(func(f fact, delta int32) { events = append(events, delta) })

	f := fact{ID: 1, Name: "a"}
	table.ApplyDelta(f, +1)
	table.ApplyDelta(f, +1) // duplicate insert, distinct: no-op
	assert.Equal(t, []int32{+1}, events)
	assert.True(t, table.Contains(f))

	table.ApplyDelta(f, -1)
	assert.Equal(t, []int32{+1, -1}, events)
	assert.False(t, table.Contains(f))
}

func TestApplyDeltaNonDistinctAccumulates(t *testing.T) {
	table := NewTable[fact]("facts", true, false, false)
	var events []int32
	table.OnChange(func(f fact, delta int32) { events = append(events, delta) })

	f := fact{ID: 1, Name: "a"}
	table.ApplyDelta(f, +1)
	table.ApplyDelta(f, +1)
	table.ApplyDelta(f, -1)
	assert.True(t, table.Contains(f), "count is 1, still present")
	assert.Equal(t, []int32{+1}, events, "only the first insert flips presence")

	table.ApplyDelta(f, -1)
	assert.False(t, table.Contains(f))
	assert.Equal(t, []int32{+1, -1}, events)
}

func TestReplaceWithFiresDiffOnly(t *testing.T) {
	table := NewTable[fact]("derived", false, true, false)
	var events []struct {
		f     fact
		delta int32
	}
	table.OnChange(func(f fact, delta int32) {
		events = append(events, struct {
			f     fact
			delta int32
		}{f, delta})
	})

	a := fact{ID: 1, Name: "a"}
	b := fact{ID: 2, Name: "b"}
	table.ReplaceWith(map[string]fact{a.Key(): a})
	assert.Len(t, events, 1)
	assert.Equal(t, int32(+1), events[0].delta)

	table.ReplaceWith(map[string]fact{b.Key(): b})
	assert.Len(t, events, 3)
	assert.Equal(t, int32(-1), events[1].delta)
	assert.Equal(t, int32(+1), events[2].delta)
	assert.Equal(t, 1, table.Len())
}

func TestApplyDeltaAnySchemaMismatch(t *testing.T) {
	table := NewTable[fact]("facts", true, true, false)
	err := table.ApplyDeltaAny(wrongTuple{}, +1)
	assert.Error(t, err)

	err = table.ApplyDeltaAny(fact{ID: 1}, +1)
	assert.NoError(t, err)
}

type wrongTuple struct{}

func (wrongTuple) Key() string { return "wrong" }
