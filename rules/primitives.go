package rules

import (
	"github.com/viant/relscope/arrange"
	"github.com/viant/relscope/relation"
)

// FilterMap applies f to every element of in, keeping the outputs for
// which f reports ok. This is the filter-map primitive of spec.md §4.4:
// zero or one output tuple per input tuple.
func FilterMap[In, Out any](in []In, f func(In) (Out, bool)) []Out {
	out := make([]Out, 0, len(in))
	for _, x := range in {
		if y, ok := f(x); ok {
			out = append(out, y)
		}
	}
	return out
}

// FlatMap produces a finite ordered sequence of outputs per input. Order
// relative to other rules does not matter for correctness, but the order
// within one FlatMap call is always the input order followed by f's own
// (deterministic) output order, matching spec.md §4.4's determinism
// requirement.
func FlatMap[In, Out any](in []In, f func(In) []Out) []Out {
	var out []Out
	for _, x := range in {
		out = append(out, f(x)...)
	}
	return out
}

// Arrange groups ts by a projected key, the arrange primitive of spec.md
// §4.4 used internally by Join below and directly by several Derive*
// functions to look up edges by endpoint. It builds on package arrange's
// maintained map-arrangement (C3) rather than a bare Go map, so the same
// indexing code backs both a one-shot stratum computation here and the
// arrangements QueryIndex exposes, which engine.Engine rebuilds on every
// commit.
func Arrange[T relation.Tuple, K comparable](ts []T, keyOf func(T) (K, bool)) *arrange.MapArrangement[T, K, T] {
	idx := arrange.NewMapArrangement(func(t T) (K, T, bool) {
		k, ok := keyOf(t)
		return k, t, ok
	})
	idx.Rebuild(ts, func(v T) string { return v.Key() })
	return idx
}

// Join emits combine(l, r) for every pair of left/right tuples that share a key.
func Join[L any, R relation.Tuple, K comparable, Out any](left []L, right []R, leftKey func(L) (K, bool), rightKey func(R) (K, bool), combine func(L, R) Out) []Out {
	rightIdx := Arrange(right, rightKey)
	var out []Out
	for _, l := range left {
		k, ok := leftKey(l)
		if !ok {
			continue
		}
		for _, r := range rightIdx.Lookup(k) {
			out = append(out, combine(l, r))
		}
	}
	return out
}

// KeySet collapses ts' projected keys into a set - the distinct-valued
// set-arrangement of spec.md §4.3, backed by package arrange's
// SetArrangement rather than a bare map for the same reason Arrange is.
func KeySet[T relation.Tuple, K comparable](ts []T, keyOf func(T) (K, bool)) *arrange.SetArrangement[T, K] {
	s := arrange.NewSetArrangement(keyOf, true)
	s.Rebuild(ts)
	return s
}

// keyPresence is satisfied by *arrange.SetArrangement[_, K] regardless of
// the tuple type it was built over, letting Semijoin/Antijoin test
// membership in a set keyed differently from the slice they filter.
type keyPresence[K comparable] interface {
	Contains(K) bool
}

// Semijoin emits elements of in whose key is present in keys.
func Semijoin[T any, K comparable](in []T, keys keyPresence[K], keyOf func(T) (K, bool)) []T {
	return FilterMap(in, func(t T) (T, bool) {
		k, ok := keyOf(t)
		if !ok {
			return t, false
		}
		return t, keys.Contains(k)
	})
}

// Antijoin emits elements of in whose key is absent from keys. relscope
// always builds keys via KeySet (i.e. distinct = true) before an antijoin
// - see DESIGN.md's note on the open question of §9.
func Antijoin[T any, K comparable](in []T, keys keyPresence[K], keyOf func(T) (K, bool)) []T {
	return FilterMap(in, func(t T) (T, bool) {
		k, ok := keyOf(t)
		if !ok {
			return t, true
		}
		return t, !keys.Contains(k)
	})
}

// ToSet converts a slice of comparable tuples to a keyed set, the shape
// every recursive stratum's fixed-point loop accumulates into.
func ToSet[T any](ts []T, keyOf func(T) string) map[string]T {
	out := make(map[string]T, len(ts))
	for _, t := range ts {
		out[keyOf(t)] = t
	}
	return out
}

// FixedPoint repeatedly applies step to the accumulated set (keyed by
// keyOf) until a round adds nothing new, implementing spec.md §4.4's
// fixed-point algorithm for a recursive stratum. step receives the tuples
// added in the previous round (seed on the first call) plus the full
// accumulated set, and returns newly derivable tuples; duplicates against
// the accumulated set are ignored.
func FixedPoint[T any](seed []T, keyOf func(T) string, step func(delta []T, all map[string]T) []T) map[string]T {
	all := ToSet(seed, keyOf)
	delta := seed
	for len(delta) > 0 {
		next := step(delta, all)
		var fresh []T
		for _, t := range next {
			k := keyOf(t)
			if _, ok := all[k]; !ok {
				all[k] = t
				fresh = append(fresh, t)
			}
		}
		delta = fresh
	}
	return all
}
