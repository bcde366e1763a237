package sets

import (
	"cmp"
	"slices"
)

// Set is a simple generic hash set for comparable keys.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// AddNew inserts v and reports whether it was absent before the call.
func (s Set[T]) AddNew(v T) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int { return len(s) }

// Sorted returns the members of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	out := make([]T, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
