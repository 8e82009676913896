package arrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	Key   int
	Value string
}

func TestMapArrangementApplyAndLookup(t *testing.T) {
	m := NewMapArrangement(func(p pair) (int, string, bool) { return p.Key, p.Value, true })
	valueKey := func(v string) string { return v }

	m.Apply(pair{Key: 1, Value: "a"}, +1, valueKey)
	m.Apply(pair{Key: 1, Value: "b"}, +1, valueKey)
	assert.ElementsMatch(t, []string{"a", "b"}, m.Lookup(1))
	assert.Empty(t, m.Lookup(2))

	m.Apply(pair{Key: 1, Value: "a"}, -1, valueKey)
	assert.Equal(t, []string{"b"}, m.Lookup(1))
}

func TestMapArrangementRebuild(t *testing.T) {
	m := NewMapArrangement(func(p pair) (int, string, bool) { return p.Key, p.Value, true })
	m.Apply(pair{Key: 1, Value: "stale"}, +1, func(v string) string { return v })

	m.Rebuild([]pair{{Key: 2, Value: "fresh"}}, func(v string) string { return v })
	assert.Empty(t, m.Lookup(1))
	assert.Equal(t, []string{"fresh"}, m.Lookup(2))
}

func TestSetArrangementDistinctCollapsesMultiplicity(t *testing.T) {
	s := NewSetArrangement(func(p pair) (int, bool) { return p.Key, true }, true)
	s.Apply(pair{Key: 1}, +1)
	s.Apply(pair{Key: 1}, +1)
	assert.True(t, s.Contains(1))

	s.Apply(pair{Key: 1}, -1)
	assert.False(t, s.Contains(1), "distinct collapses to presence/absence, one delete clears it")
}

func TestSetArrangementNonDistinctTracksCount(t *testing.T) {
	s := NewSetArrangement(func(p pair) (int, bool) { return p.Key, true }, false)
	s.Apply(pair{Key: 1}, +1)
	s.Apply(pair{Key: 1}, +1)
	s.Apply(pair{Key: 1}, -1)
	assert.True(t, s.Contains(1), "count is 1, still present")
	s.Apply(pair{Key: 1}, -1)
	assert.False(t, s.Contains(1))
}

func TestHashKeyIsStableAndWellDistributed(t *testing.T) {
	a := HashKey("alpha")
	b := HashKey("alpha")
	c := HashKey("beta")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBucketOfIsWithinRange(t *testing.T) {
	for _, text := range []string{"a", "bb", "ccc", "dddd"} {
		b := BucketOf(text, 7)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 7)
	}
}
