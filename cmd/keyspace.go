package cmd

import (
	"iter"
	"maps"
	"slices"

	"github.com/fzft/go-hashset/hashset"
)

// Keyspace maps names to string sets.
type Keyspace struct {
	sets map[string]*hashset.Set[string]
	opts []hashset.Option
}

// NewKeyspace returns an empty keyspace creating sets with opts.
func NewKeyspace(opts ...hashset.Option) *Keyspace {
	return &Keyspace{
		sets: make(map[string]*hashset.Set[string]),
		opts: opts,
	}
}

func (ks *Keyspace) Lookup(key string) (*hashset.Set[string], bool) {
	s, ok := ks.sets[key]
	return s, ok
}

// LookupOrCreate returns the set stored at key, creating an empty one if
// the key does not exist.
func (ks *Keyspace) LookupOrCreate(key string) *hashset.Set[string] {
	s, ok := ks.sets[key]
	if !ok {
		s = hashset.New[string](ks.opts...)
		ks.sets[key] = s
	}
	return s
}

// Members returns the elements of the set at key. A missing key reads as
// the empty set.
func (ks *Keyspace) Members(key string) iter.Seq[string] {
	s, ok := ks.sets[key]
	if !ok {
		return func(func(string) bool) {}
	}
	return s.All()
}

// DropEmpty deletes key if its set has no elements left. Empty sets are
// never listed.
func (ks *Keyspace) DropEmpty(key string) {
	if s, ok := ks.sets[key]; ok && s.Count() == 0 {
		delete(ks.sets, key)
	}
}

// Delete removes keys and returns how many existed.
func (ks *Keyspace) Delete(keys ...string) int {
	n := 0
	for _, k := range keys {
		if _, ok := ks.sets[k]; ok {
			delete(ks.sets, k)
			n++
		}
	}
	return n
}

// Keys returns the key names in sorted order.
func (ks *Keyspace) Keys() []string {
	return slices.Sorted(maps.Keys(ks.sets))
}

// Elements returns the total number of elements across all sets.
func (ks *Keyspace) Elements() int {
	n := 0
	for _, s := range ks.sets {
		n += s.Count()
	}
	return n
}
