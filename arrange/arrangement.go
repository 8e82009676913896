// Package arrange implements the arrangement index (C3): maintained,
// per-relation indices keyed by a projection of a tuple, used by join,
// semijoin and antijoin (package rules) and by the public QueryIndex API
// (package engine).
package arrange

import (
	"encoding/binary"
	"sync"

	"github.com/minio/highwayhash"
)

// engineHashKey is a fixed key shared by every arrangement in the engine;
// it only needs to be stable for the life of one process, so a constant
// key is sufficient (no
// keyed-hash secrecy property is required here - highwayhash is used
// purely as a fast, well-distributed bucket hash, not for authentication).
var engineHashKey = [32]byte{
	0x1f, 0x9a, 0x2e, 0x77, 0x4b, 0xd0, 0x6c, 0x53,
	0x8e, 0x11, 0xac, 0x3d, 0x90, 0x27, 0x64, 0xbb,
	0x05, 0xf3, 0x8a, 0x42, 0x7d, 0x19, 0xe6, 0x58,
	0x2b, 0x9c, 0x44, 0x0e, 0x71, 0xd8, 0x33, 0xaa,
}

// HashKey hashes an arbitrary key's textual form into a uint64 bucket id.
// Kept alongside MapArrangement/SetArrangement as the bucket-assignment
// primitive a sharded arrangement would use to spread writes across
// multiple locks; relscope's arrangements are single-locked (one
// sync.RWMutex per arrangement, see MapArrangement/SetArrangement below)
// because the full re-derivation-per-commit strategy already serializes
// every Rebuild call, so there is no concurrent-write contention for
// sharding to relieve yet - see DESIGN.md.
func HashKey(text string) uint64 {
	sum := highwayhash.Sum64([]byte(text), engineHashKey[:])
	return sum
}

// bucketOf is a tiny helper kept alongside HashKey for callers that need a
// bounded shard index rather than a raw 64-bit hash.
func bucketOf(text string, buckets int) int {
	if buckets <= 0 {
		return 0
	}
	h := HashKey(text)
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], h)
	return int(h % uint64(buckets))
}

// BucketOf shards text into one of n buckets.
func BucketOf(text string, n int) int { return bucketOf(text, n) }

// MapArrangement is a key -> multiset-of-values index, used for join and
// for external point queries (QueryIndex). Built from a filter-map function
// projecting a tuple to an optional (key, value) pair.
type MapArrangement[T any, K comparable, V any] struct {
	mu     sync.RWMutex
	filter func(T) (K, V, bool)
	index  map[K]map[string]entry[V]
}

type entry[V any] struct {
	value V
	count int32
}

// NewMapArrangement builds an arrangement lazily - no work happens until
// the first Apply or Lookup - matching spec.md §4.3's "materialized
// lazily but maintained incrementally once created".
func NewMapArrangement[T any, K comparable, V any](filter func(T) (K, V, bool)) *MapArrangement[T, K, V] {
	return &MapArrangement[T, K, V]{filter: filter, index: make(map[K]map[string]entry[V])}
}

// Apply folds one tuple's delta into the arrangement.
func (m *MapArrangement[T, K, V]) Apply(t T, delta int32, valueKey func(V) string) {
	k, v, ok := m.filter(t)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.index[k]
	if bucket == nil {
		bucket = make(map[string]entry[V])
		m.index[k] = bucket
	}
	vk := valueKey(v)
	e := bucket[vk]
	e.value = v
	e.count += delta
	if e.count <= 0 {
		delete(bucket, vk)
		if len(bucket) == 0 {
			delete(m.index, k)
		}
	} else {
		bucket[vk] = e
	}
}

// Lookup returns every value currently arranged under key k.
func (m *MapArrangement[T, K, V]) Lookup(k K) []V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket := m.index[k]
	out := make([]V, 0, len(bucket))
	for _, e := range bucket {
		out = append(out, e.value)
	}
	return out
}

// Rebuild replaces the arrangement's contents from scratch, used by the
// rule engine's full-re-derivation commit strategy (see driver.Driver).
func (m *MapArrangement[T, K, V]) Rebuild(tuples []T, valueKey func(V) string) {
	idx := make(map[K]map[string]entry[V])
	for _, t := range tuples {
		k, v, ok := m.filter(t)
		if !ok {
			continue
		}
		bucket := idx[k]
		if bucket == nil {
			bucket = make(map[string]entry[V])
			idx[k] = bucket
		}
		vk := valueKey(v)
		e := bucket[vk]
		e.value = v
		e.count++
		bucket[vk] = e
	}
	m.mu.Lock()
	m.index = idx
	m.mu.Unlock()
}

// SetArrangement is a key-set index, used for semijoin and antijoin.
// Distinct collapses multiplicities to presence/absence before lookup;
// spec.md §9 leaves open whether antijoin inputs collapse to a set first,
// noting both choices are consistent with the output invariants - relscope
// always sets Distinct true for antijoin-consumed arrangements (see
// DESIGN.md).
type SetArrangement[T any, K comparable] struct {
	mu       sync.RWMutex
	filter   func(T) (K, bool)
	counts   map[K]int32
	Distinct bool
}

func NewSetArrangement[T any, K comparable](filter func(T) (K, bool), distinct bool) *SetArrangement[T, K] {
	return &SetArrangement[T, K]{filter: filter, counts: make(map[K]int32), Distinct: distinct}
}

func (s *SetArrangement[T, K]) Apply(t T, delta int32) {
	k, ok := s.filter(t)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Distinct {
		switch {
		case delta > 0:
			s.counts[k] = 1
		case delta < 0:
			delete(s.counts, k)
		}
		return
	}
	n := s.counts[k] + delta
	if n <= 0 {
		delete(s.counts, k)
	} else {
		s.counts[k] = n
	}
}

func (s *SetArrangement[T, K]) Contains(k K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[k] > 0
}

func (s *SetArrangement[T, K]) Rebuild(tuples []T) {
	counts := make(map[K]int32)
	for _, t := range tuples {
		k, ok := s.filter(t)
		if !ok {
			continue
		}
		if s.Distinct {
			counts[k] = 1
		} else {
			counts[k]++
		}
	}
	s.mu.Lock()
	s.counts = counts
	s.mu.Unlock()
}
