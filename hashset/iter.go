package hashset

import (
	"fmt"
	"iter"
)

// Iterator walks the elements of a set in table order. It is invalidated by
// any structural change to the set made after it was created; Next then
// returns false and Err reports ErrConcurrentModification.
//
//	it := s.Iterator()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator[T any] struct {
	set     *Set[T]
	version uint64
	index   int
	value   T
	done    bool
	err     error
}

// Iterator returns a fresh iterator positioned before the first element.
func (s *Set[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{set: s, version: s.version, index: -1}
}

// Next advances to the next element and reports whether there is one.
func (it *Iterator[T]) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	var zero T
	if it.version != it.set.version {
		it.err = ErrConcurrentModification
		it.value = zero
		return false
	}
	slots := it.set.slots
	for it.index++; it.index < len(slots); it.index++ {
		if slots[it.index].state == slotFull {
			it.value = slots[it.index].value
			return true
		}
	}
	it.done = true
	it.value = zero
	return false
}

// Value returns the current element.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Err returns ErrConcurrentModification if iteration stopped because the set
// changed.
func (it *Iterator[T]) Err() error {
	return it.err
}

// All returns a sequence over the elements for use with range. Like a Go map
// written during iteration, modifying the set inside the loop body is a
// programming error: the sequence panics with an error wrapping
// ErrConcurrentModification.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := s.Iterator()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
		if err := it.Err(); err != nil {
			panic(fmt.Errorf("hashset: %w", err))
		}
	}
}
