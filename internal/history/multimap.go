package history

import (
	"cmp"
	"iter"
	"slices"
)

// MultiMap is an ordered multi-valued map. Keys iterate in ascending order
// and the values under one key keep their insertion order. Keys are sorted
// lazily, so Insert is amortized O(1).
type MultiMap[K cmp.Ordered, V any] struct {
	values map[K][]V
	keys   []K
	sorted bool
	count  int
}

// NewMultiMap creates an empty MultiMap.
func NewMultiMap[K cmp.Ordered, V any]() *MultiMap[K, V] {
	return &MultiMap[K, V]{
		values: make(map[K][]V),
		sorted: true,
	}
}

// Insert appends v to the values stored under k.
func (m *MultiMap[K, V]) Insert(k K, v V) {
	vs, ok := m.values[k]
	if !ok {
		m.keys = append(m.keys, k)
		m.sorted = false
	}
	m.values[k] = append(vs, v)
	m.count++
}

// Get returns the values stored under k in insertion order.
func (m *MultiMap[K, V]) Get(k K) []V {
	return m.values[k]
}

// Keys returns the distinct keys in ascending order.
func (m *MultiMap[K, V]) Keys() []K {
	m.sortKeys()
	return slices.Clone(m.keys)
}

// Len returns the total number of values.
func (m *MultiMap[K, V]) Len() int {
	return m.count
}

// All yields every (key, value) pair, keys ascending, values in insertion
// order within a key.
func (m *MultiMap[K, V]) All() iter.Seq2[K, V] {
	m.sortKeys()
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			for _, v := range m.values[k] {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

func (m *MultiMap[K, V]) sortKeys() {
	if !m.sorted {
		slices.Sort(m.keys)
		m.sorted = true
	}
}
