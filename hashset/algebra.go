package hashset

import (
	"fmt"
	"iter"
)

// The bulk operations below consume seq once, left to right. A nil seq is
// rejected with ErrMissingArgument before the set is touched. Mutating
// operations drain and hash all of seq before changing the table, so an
// element that cannot be hashed leaves the set as it was, and the receiver's
// own All may be passed in.

func missing(op string) error {
	return fmt.Errorf("%s: %w", op, ErrMissingArgument)
}

type hashed[T any] struct {
	value T
	hash  int
}

// collect drains seq and hashes every element.
func (s *Set[T]) collect(seq iter.Seq[T]) ([]hashed[T], error) {
	var out []hashed[T]
	for v := range seq {
		h, err := s.hashOf(v)
		if err != nil {
			return nil, err
		}
		out = append(out, hashed[T]{value: v, hash: h})
	}
	return out, nil
}

// UnionWith adds every element of seq.
func (s *Set[T]) UnionWith(seq iter.Seq[T]) error {
	if seq == nil {
		return missing("UnionWith")
	}
	elems, err := s.collect(seq)
	if err != nil {
		return err
	}
	for _, e := range elems {
		s.insert(e.value, e.hash)
	}
	return nil
}

// ExceptWith removes every element of seq.
func (s *Set[T]) ExceptWith(seq iter.Seq[T]) error {
	if seq == nil {
		return missing("ExceptWith")
	}
	elems, err := s.collect(seq)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if index := s.find(e.value, e.hash); index >= 0 {
			s.evict(index)
		}
	}
	return nil
}

// SymmetricExceptWith toggles the membership of every element of seq. The
// toggles are applied one by one, so an element repeated in seq cancels out.
func (s *Set[T]) SymmetricExceptWith(seq iter.Seq[T]) error {
	if seq == nil {
		return missing("SymmetricExceptWith")
	}
	elems, err := s.collect(seq)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if index := s.find(e.value, e.hash); index >= 0 {
			s.evict(index)
			continue
		}
		s.insert(e.value, e.hash)
	}
	return nil
}

// IntersectWith keeps only the elements that also occur in seq. seq is
// consumed completely before anything is removed.
func (s *Set[T]) IntersectWith(seq iter.Seq[T]) error {
	if seq == nil {
		return missing("IntersectWith")
	}
	if s.count == 0 {
		return nil
	}
	keep, _, err := s.locateAll(seq, false)
	if err != nil {
		return err
	}
	for i := range s.slots {
		if s.slots[i].state != slotFull {
			continue
		}
		// int hashing cannot fail.
		if ok, _ := keep.Contains(i); !ok {
			s.evict(i)
		}
	}
	return nil
}

// locateAll collects the distinct slot indices of the elements of seq that
// are in the set and counts those that are not. With stopOnMissing it returns
// at the first element that is not found.
func (s *Set[T]) locateAll(seq iter.Seq[T], stopOnMissing bool) (*Set[int], int, error) {
	found := New[int](WithCapacity(s.count), WithLogger(s.cfg.logger))
	absent := 0
	for v := range seq {
		index, err := s.locate(v)
		if err != nil {
			return nil, 0, err
		}
		if index < 0 {
			absent++
			if stopOnMissing {
				break
			}
			continue
		}
		if _, err := found.Add(index); err != nil {
			return nil, 0, err
		}
	}
	return found, absent, nil
}

// IsSubsetOf reports whether every element of the set occurs in seq.
func (s *Set[T]) IsSubsetOf(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("IsSubsetOf")
	}
	found, _, err := s.locateAll(seq, false)
	if err != nil {
		return false, err
	}
	return found.Count() == s.count, nil
}

// IsProperSubsetOf reports whether the set is a subset of seq and seq holds
// at least one element the set does not.
func (s *Set[T]) IsProperSubsetOf(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("IsProperSubsetOf")
	}
	found, absent, err := s.locateAll(seq, false)
	if err != nil {
		return false, err
	}
	return found.Count() == s.count && absent > 0, nil
}

// IsSupersetOf reports whether every element of seq is in the set.
func (s *Set[T]) IsSupersetOf(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("IsSupersetOf")
	}
	for v := range seq {
		ok, err := s.Contains(v)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// IsProperSupersetOf reports whether the set is a superset of seq and holds
// at least one element seq does not.
func (s *Set[T]) IsProperSupersetOf(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("IsProperSupersetOf")
	}
	found, absent, err := s.locateAll(seq, true)
	if err != nil {
		return false, err
	}
	return absent == 0 && found.Count() < s.count, nil
}

// Overlaps reports whether the set and seq share at least one element.
func (s *Set[T]) Overlaps(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("Overlaps")
	}
	for v := range seq {
		ok, err := s.Contains(v)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// SetEquals reports whether the set and seq hold the same elements,
// ignoring duplicates in seq.
func (s *Set[T]) SetEquals(seq iter.Seq[T]) (bool, error) {
	if seq == nil {
		return false, missing("SetEquals")
	}
	found, absent, err := s.locateAll(seq, true)
	if err != nil {
		return false, err
	}
	return absent == 0 && found.Count() == s.count, nil
}
