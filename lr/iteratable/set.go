package iteratable

import (
	"fmt"
	"strings"
)

// Keyer is implemented by set elements which are not comparable Go values
// themselves, or which should be deduplicated by a part of their content.
// Key must return a comparable value.
type Keyer interface {
	Key() interface{}
}

// Set is a set type for elements which are deduplicated by content.
// Elements have to be comparable Go values (structs of scalars, strings,
// pointers, …) or implement Keyer.
//
// Sets keep their elements in insertion order. This makes iteration
// deterministic and enables the worklist iteration of IterateOnce/Next:
// elements added while iterating will be visited during the same iteration.
//
//     S := NewSet(0)
//     S.Add(start)
//     S.IterateOnce()
//     for S.Next() {
//         x := S.Item()
//         S.Add(successors(x)...)   // will be visited, too
//     }
//
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	cursor int
}

// NewSet creates an empty set with an initial capacity.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		index:  make(map[interface{}]int, capacity),
		cursor: -1,
	}
}

func keyOf(item interface{}) interface{} {
	if k, ok := item.(Keyer); ok {
		return k.Key()
	}
	return item
}

// Add adds items to the set. It returns true if at least one of the items
// has not been in the set before.
func (s *Set) Add(items ...interface{}) bool {
	changed := false
	for _, item := range items {
		k := keyOf(item)
		if _, found := s.index[k]; found {
			continue
		}
		s.index[k] = len(s.items)
		s.items = append(s.items, item)
		changed = true
	}
	return changed
}

// Contains is a predicate: is item an element of s?
func (s *Set) Contains(item interface{}) bool {
	if s == nil {
		return false
	}
	_, found := s.index[keyOf(item)]
	return found
}

// Size returns the number of elements in s.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty is a predicate: is s empty?
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// Values returns the elements of s in insertion order. The slice must not be
// modified by clients.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	return s.items
}

// First returns the first element of s, or nil.
func (s *Set) First() interface{} {
	if s.Empty() {
		return nil
	}
	return s.items[0]
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	c.Add(s.Values()...)
	return c
}

// Union adds all elements of other to s. It returns s.
// This operation is destructive!
func (s *Set) Union(other *Set) *Set {
	s.Add(other.Values()...)
	return s
}

// Difference returns a new set containing the elements of s which are not
// contained in other.
func (s *Set) Difference(other *Set) *Set {
	d := NewSet(0)
	for _, x := range s.Values() {
		if !other.Contains(x) {
			d.Add(x)
		}
	}
	return d
}

// Subset returns a new set containing the elements of s for which predicate
// holds.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	r := NewSet(0)
	for _, x := range s.Values() {
		if predicate(x) {
			r.Add(x)
		}
	}
	return r
}

// Equals is a predicate: do s and other contain the same elements,
// regardless of order?
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	for _, x := range s.Values() {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Each calls f for every element of s, in insertion order.
func (s *Set) Each(f func(interface{})) {
	for _, x := range s.Values() {
		f(x)
	}
}

// --- Worklist iteration ----------------------------------------------------

// IterateOnce starts an iteration over s. Elements added during the
// iteration will be visited, too.
func (s *Set) IterateOnce() {
	s.cursor = -1
}

// Next moves to the next element of an iteration. It returns false if all
// elements have been visited.
func (s *Set) Next() bool {
	if s.cursor+1 >= len(s.items) {
		s.cursor = len(s.items)
		return false
	}
	s.cursor++
	return true
}

// Item returns the current element of an iteration.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}

func (s *Set) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, x := range s.Values() {
		if i > 0 {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%v", x)
	}
	b.WriteString(" }")
	return b.String()
}
