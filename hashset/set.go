package hashset

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotDeleted
	slotFull
)

// slot is one cell of the table. The zero slot is empty.
type slot[T any] struct {
	value T
	hash  int
	state slotState
}

// Set is an unordered collection of unique elements stored in an
// open-addressing table with double hashing. The table length is always
// prime, so every probe sequence visits each slot exactly once.
//
// A Set is not safe for concurrent use.
type Set[T any] struct {
	slots    []slot[T]
	count    int
	deleted  int // tombstones
	limit    int // count+deleted that triggers growth
	version  uint64
	strategy Strategy[T]
	cfg      config
}

// New returns an empty set using the natural equality of T.
func New[T comparable](opts ...Option) *Set[T] {
	return NewWithStrategy(Comparable[T](), opts...)
}

// NewWithStrategy returns an empty set hashing and comparing elements with
// strategy.
func NewWithStrategy[T any](strategy Strategy[T], opts ...Option) *Set[T] {
	if strategy == nil {
		panic("hashset: nil strategy")
	}
	s := &Set[T]{
		strategy: strategy,
		cfg:      newConfig(opts),
	}
	s.init(s.cfg.capacity)
	return s
}

func (s *Set[T]) init(capacity int) {
	length := Plan(int(math.RoundToEven(float64(capacity) / s.cfg.loadFactor)))
	s.slots = make([]slot[T], length)
	s.count = 0
	s.deleted = 0
	s.limit = s.threshold(length)
}

func (s *Set[T]) threshold(length int) int {
	limit := int(math.RoundToEven(float64(length) * s.cfg.loadFactor))
	if limit < 1 {
		limit = 1
	}
	if limit > length {
		limit = length
	}
	return limit
}

// Count returns the number of elements in the set.
func (s *Set[T]) Count() int {
	return s.count
}

// Capacity returns the length of the backing table.
func (s *Set[T]) Capacity() int {
	return len(s.slots)
}

// LoadFactor returns the effective load factor after clamping.
func (s *Set[T]) LoadFactor() float64 {
	return s.cfg.loadFactor
}

// Strategy returns the strategy the set hashes and compares with.
func (s *Set[T]) Strategy() Strategy[T] {
	return s.strategy
}

func (s *Set[T]) hashOf(v T) (int, error) {
	h, err := s.strategy.Hash(v)
	if err != nil {
		return 0, err
	}
	return h & 0x7FFFFFFF, nil
}

// probeStart returns the first index and the step of the probe sequence for
// hash h. The step lies in [1, len-1].
func (s *Set[T]) probeStart(h int) (index, step int) {
	n := len(s.slots)
	index = h % n
	step = 1 + index%(n-1)
	return index, step
}

// Add inserts v. It reports whether v was not already present.
func (s *Set[T]) Add(v T) (bool, error) {
	h, err := s.hashOf(v)
	if err != nil {
		return false, err
	}
	return s.insert(v, h), nil
}

// insert stores v under its normalized hash h.
func (s *Set[T]) insert(v T, h int) bool {
	for s.count+s.deleted >= s.limit {
		s.grow()
	}

	n := len(s.slots)
	index, step := s.probeStart(h)
	target := -1
	for probes := 1; probes <= n; probes++ {
		sl := &s.slots[index]
		switch sl.state {
		case slotEmpty:
			s.cfg.observer.Probed(probes)
			if target < 0 {
				target = index
			}
			s.place(target, v, h)
			return true
		case slotDeleted:
			if target < 0 {
				target = index
			}
		case slotFull:
			if sl.hash == h && s.strategy.Equal(sl.value, v) {
				s.cfg.observer.Probed(probes)
				return false
			}
		}
		index = (index + step) % n
	}
	s.cfg.observer.Probed(n)

	if target < 0 {
		// Only reachable with a load factor of 1 and a full table.
		s.rehash(Plan(2 * n))
		return s.insert(v, h)
	}
	s.place(target, v, h)
	return true
}

func (s *Set[T]) place(index int, v T, h int) {
	if s.slots[index].state == slotDeleted {
		s.deleted--
	}
	s.slots[index] = slot[T]{value: v, hash: h, state: slotFull}
	s.count++
	s.version++
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) (bool, error) {
	index, err := s.locate(v)
	if err != nil {
		return false, err
	}
	return index >= 0, nil
}

// locate returns the slot index holding v, or -1.
func (s *Set[T]) locate(v T) (int, error) {
	h, err := s.hashOf(v)
	if err != nil {
		return -1, err
	}
	return s.find(v, h), nil
}

// find returns the slot index holding v under hash h, or -1.
func (s *Set[T]) find(v T, h int) int {
	n := len(s.slots)
	index, step := s.probeStart(h)
	for probes := 1; probes <= n; probes++ {
		sl := &s.slots[index]
		switch sl.state {
		case slotEmpty:
			s.cfg.observer.Probed(probes)
			return -1
		case slotFull:
			if sl.hash == h && s.strategy.Equal(sl.value, v) {
				s.cfg.observer.Probed(probes)
				return index
			}
		}
		index = (index + step) % n
	}
	s.cfg.observer.Probed(n)
	return -1
}

// Remove deletes v. It reports whether v was present.
func (s *Set[T]) Remove(v T) (bool, error) {
	index, err := s.locate(v)
	if err != nil || index < 0 {
		return false, err
	}
	s.evict(index)
	return true, nil
}

// evict leaves a tombstone so probe sequences running through the slot
// still reach elements stored further along.
func (s *Set[T]) evict(index int) {
	s.slots[index] = slot[T]{state: slotDeleted}
	s.count--
	s.deleted++
	s.version++
}

// RemoveWhere deletes every element for which pred returns true and returns
// how many were removed.
func (s *Set[T]) RemoveWhere(pred func(T) bool) int {
	removed := 0
	for i := range s.slots {
		if s.slots[i].state == slotFull && pred(s.slots[i].value) {
			s.evict(i)
			removed++
		}
	}
	return removed
}

// Clear removes all elements and shrinks the table to its minimum size.
func (s *Set[T]) Clear() {
	s.init(0)
	s.version++
}

// grow makes room for one more element. A table clogged with tombstones is
// rehashed at its current length, anything else doubles.
func (s *Set[T]) grow() {
	oldLen := len(s.slots)
	if s.deleted > 0 && s.deleted >= s.count {
		reclaimed := s.deleted
		s.rehash(oldLen)
		s.cfg.logger.Debug("hashset compacted",
			zap.Int("length", oldLen),
			zap.Int("reclaimed", reclaimed),
			zap.Int("count", s.count))
		s.cfg.observer.Compacted(oldLen, reclaimed)
		return
	}
	s.rehash(Plan(2 * oldLen))
	s.cfg.logger.Debug("hashset resized",
		zap.Int("from", oldLen),
		zap.Int("to", len(s.slots)),
		zap.Int("count", s.count))
	s.cfg.observer.Resized(oldLen, len(s.slots), s.count)
}

// rehash moves every live element into a fresh table of the given length.
// Cached hashes are reused.
func (s *Set[T]) rehash(length int) {
	old := s.slots
	s.slots = make([]slot[T], length)
	for i := range old {
		if old[i].state != slotFull {
			continue
		}
		index, step := s.probeStart(old[i].hash)
		for s.slots[index].state != slotEmpty {
			index = (index + step) % length
		}
		s.slots[index] = old[i]
	}
	s.deleted = 0
	s.limit = s.threshold(length)
	s.version++
}

// CopyTo copies the elements into dst starting at offset, in table order.
func (s *Set[T]) CopyTo(dst []T, offset int) error {
	if offset < 0 || offset > len(dst) {
		return fmt.Errorf("%w: offset %d outside destination of length %d",
			ErrInvalidDestination, offset, len(dst))
	}
	if len(dst)-offset < s.count {
		return fmt.Errorf("%w: %d elements do not fit in %d slots from offset %d",
			ErrInvalidDestination, s.count, len(dst)-offset, offset)
	}
	for i := range s.slots {
		if s.slots[i].state == slotFull {
			dst[offset] = s.slots[i].value
			offset++
		}
	}
	return nil
}

// Slice returns the elements in table order.
func (s *Set[T]) Slice() []T {
	out := make([]T, 0, s.count)
	for i := range s.slots {
		if s.slots[i].state == slotFull {
			out = append(out, s.slots[i].value)
		}
	}
	return out
}

// Clone returns an independent copy sharing the strategy and options.
func (s *Set[T]) Clone() *Set[T] {
	c := *s
	c.slots = make([]slot[T], len(s.slots))
	copy(c.slots, s.slots)
	c.version = 0
	return &c
}

func (s *Set[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i := range s.slots {
		if s.slots[i].state != slotFull {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprint(&b, s.slots[i].value)
	}
	b.WriteByte('}')
	return b.String()
}
