package set

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Set is a set of comparable items. It is not safe for concurrent use.
type Set[T comparable] struct {
	items map[T]struct{}
}

// New creates a new Set holding elems
func New[T comparable](elems ...T) Set[T] {
	s := Set[T]{
		items: make(map[T]struct{}, len(elems)),
	}
	s.Append(elems...)
	return s
}

// Append inserts elements into the set
func (s Set[T]) Append(elems ...T) {
	for _, elem := range elems {
		s.items[elem] = struct{}{}
	}
}

// Contains checks if an element is in the set
func (s Set[T]) Contains(elem T) bool {
	_, ok := s.items[elem]
	return ok
}

func (s Set[T]) Len() int {
	return len(s.items)
}

// Values returns all elements in the set as an unsorted slice
func (s Set[T]) Values() []T {
	v := make([]T, 0, len(s.items))
	for elem := range s.items {
		v = append(v, elem)
	}
	return v
}

// Ordered is a set of ordered elements whose Values are sorted
type Ordered[T constraints.Ordered] struct {
	Set[T]
}

// NewOrdered creates a new Ordered set holding elems
func NewOrdered[T constraints.Ordered](elems ...T) Ordered[T] {
	return Ordered[T]{
		Set: New[T](elems...),
	}
}

// Values returns all elements in the set in ascending order
func (s Ordered[T]) Values() []T {
	v := s.Set.Values()
	sort.Slice(v, func(i, j int) bool {
		return v[i] < v[j]
	})
	return v
}
