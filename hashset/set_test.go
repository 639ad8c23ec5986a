package hashset

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd[T any](t *testing.T, s *Set[T], values ...T) {
	t.Helper()
	for _, v := range values {
		_, err := s.Add(v)
		require.NoError(t, err)
	}
}

func has[T any](t *testing.T, s *Set[T], v T) bool {
	t.Helper()
	ok, err := s.Contains(v)
	require.NoError(t, err)
	return ok
}

func sorted(values []int) []int {
	slices.Sort(values)
	return values
}

// collide sends every element to the same first slot with the same step.
func collide() Strategy[int] {
	return Funcs(func(int) (int, error) { return 0, nil }, func(a, b int) bool { return a == b })
}

func TestNewDefaults(t *testing.T) {
	s := New[int]()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 5, s.Capacity())
	assert.Equal(t, DefaultLoadFactor, s.LoadFactor())
	assert.Equal(t, 4, s.limit)
}

func TestNewWithCapacity(t *testing.T) {
	s := New[int](WithCapacity(100))
	assert.Equal(t, 131, s.Capacity())
	assert.Equal(t, 3, New[int](WithCapacity(-1)).Capacity())
}

func TestLoadFactorIsClamped(t *testing.T) {
	assert.Equal(t, 0.1, New[int](WithLoadFactor(0)).LoadFactor())
	assert.Equal(t, 1.0, New[int](WithLoadFactor(3)).LoadFactor())
}

func TestNilStrategyPanics(t *testing.T) {
	assert.Panics(t, func() { NewWithStrategy[int](nil) })
}

func TestAddContainsRemove(t *testing.T) {
	s := New[int]()
	for i := 1; i <= 5; i++ {
		added, err := s.Add(i)
		require.NoError(t, err)
		assert.True(t, added)
	}
	assert.Equal(t, 5, s.Count())
	assert.True(t, has(t, s, 3))
	assert.False(t, has(t, s, 9))

	removed, err := s.Remove(3)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 4, s.Count())
	assert.False(t, has(t, s, 3))

	removed, err = s.Remove(3)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 4, s.Count())
}

func TestAddDuplicate(t *testing.T) {
	s := New[string]()
	added, err := s.Add("a")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Add("a")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, s.Count())
}

func TestResizePreservesMembership(t *testing.T) {
	s := New[int]()
	for i := 0; i < 50; i++ {
		mustAdd(t, s, i)
	}
	assert.Equal(t, 50, s.Count())
	assert.Greater(t, s.Capacity(), 50)
	for i := 0; i < 50; i++ {
		assert.True(t, has(t, s, i), "lost %d after resize", i)
	}
}

func TestRemoveKeepsCollidingElementsReachable(t *testing.T) {
	s := NewWithStrategy(collide())
	mustAdd(t, s, 1, 2, 3)

	removed, err := s.Remove(1)
	require.NoError(t, err)
	require.True(t, removed)

	assert.True(t, has(t, s, 2))
	assert.True(t, has(t, s, 3))
	assert.Equal(t, slotDeleted, s.slots[0].state)
}

func TestAddReusesTombstone(t *testing.T) {
	s := NewWithStrategy(collide())
	mustAdd(t, s, 1, 2)
	_, err := s.Remove(1)
	require.NoError(t, err)

	// 2 sits behind the tombstone; adding it again must not duplicate it.
	added, err := s.Add(2)
	require.NoError(t, err)
	assert.False(t, added)

	mustAdd(t, s, 4)
	assert.Equal(t, slotFull, s.slots[0].state)
	assert.Equal(t, 4, s.slots[0].value)
	assert.Equal(t, 0, s.deleted)
	assert.Equal(t, 2, s.Count())
}

func TestTombstonesTriggerCompaction(t *testing.T) {
	s := New[int]()
	length := s.Capacity()
	for i := 0; i < 100; i++ {
		mustAdd(t, s, i)
		_, err := s.Remove(i)
		require.NoError(t, err)
	}
	assert.Equal(t, length, s.Capacity())
	assert.Equal(t, 0, s.Count())
	assert.LessOrEqual(t, s.deleted, s.limit)
}

func TestFullTableWithLoadFactorOne(t *testing.T) {
	s := New[int](WithLoadFactor(1), WithCapacity(3))
	require.Equal(t, 3, s.Capacity())
	mustAdd(t, s, 1, 2, 3)
	assert.Equal(t, 3, s.Count())
	assert.False(t, has(t, s, 42))

	mustAdd(t, s, 4)
	assert.Equal(t, 4, s.Count())
	assert.Greater(t, s.Capacity(), 3)
}

func TestClear(t *testing.T) {
	s := New[int](WithCapacity(100))
	mustAdd(t, s, 1, 2, 3)
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, MinCapacity(), s.Capacity())
	assert.False(t, has(t, s, 1))
	mustAdd(t, s, 1)
	assert.True(t, has(t, s, 1))
}

func TestRemoveWhere(t *testing.T) {
	s := New[int]()
	for i := 0; i < 20; i++ {
		mustAdd(t, s, i)
	}
	n := s.RemoveWhere(func(v int) bool { return v%2 == 0 })
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, s.Count())
	assert.False(t, has(t, s, 4))
	assert.True(t, has(t, s, 5))
}

func TestCopyTo(t *testing.T) {
	s := New[int]()
	mustAdd(t, s, 1, 2, 3)

	dst := make([]int, 5)
	require.NoError(t, s.CopyTo(dst, 2))
	assert.Equal(t, []int{0, 0}, dst[:2])
	if diff := cmp.Diff([]int{1, 2, 3}, sorted(dst[2:])); diff != "" {
		t.Errorf("CopyTo mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyToInvalidDestination(t *testing.T) {
	s := New[int]()
	mustAdd(t, s, 1, 2, 3)
	dst := make([]int, 4)

	err := s.CopyTo(dst, 2)
	assert.True(t, errors.Is(err, ErrInvalidDestination))
	err = s.CopyTo(dst, 5)
	assert.True(t, errors.Is(err, ErrInvalidDestination))
	err = s.CopyTo(dst, -1)
	assert.True(t, errors.Is(err, ErrInvalidDestination))
	assert.Equal(t, []int{0, 0, 0, 0}, dst)
}

func TestSliceAndClone(t *testing.T) {
	s := New[int]()
	mustAdd(t, s, 5, 6, 7)

	c := s.Clone()
	mustAdd(t, c, 8)
	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 4, c.Count())
	assert.False(t, has(t, s, 8))
	assert.Equal(t, []int{5, 6, 7}, sorted(s.Slice()))
}

func TestString(t *testing.T) {
	s := New[int]()
	assert.Equal(t, "{}", s.String())
	mustAdd(t, s, 7)
	assert.Equal(t, "{7}", s.String())
}

func TestInvalidElementLeavesTableAlone(t *testing.T) {
	boom := errors.New("boom")
	s := NewWithStrategy(Funcs(func(v int) (int, error) {
		if v < 0 {
			return 0, boom
		}
		return v, nil
	}, func(a, b int) bool { return a == b }))
	mustAdd(t, s, 1, 2, 3, 4)
	version, capacity := s.version, s.Capacity()

	added, err := s.Add(-1)
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrInvalidElement)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, version, s.version)
	assert.Equal(t, capacity, s.Capacity())

	_, err = s.Contains(-1)
	assert.ErrorIs(t, err, ErrInvalidElement)
	_, err = s.Remove(-1)
	assert.ErrorIs(t, err, ErrInvalidElement)
	assert.Equal(t, 4, s.Count())
}

func TestMatchesReferenceSet(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := New[int]()
	ref := mapset.NewThreadUnsafeSet[int]()

	for i := 0; i < 20000; i++ {
		v := rnd.Intn(500)
		switch rnd.Intn(3) {
		case 0, 1:
			added, err := s.Add(v)
			require.NoError(t, err)
			require.Equal(t, ref.Add(v), added, "Add(%d)", v)
		default:
			removed, err := s.Remove(v)
			require.NoError(t, err)
			require.Equal(t, ref.Contains(v), removed, "Remove(%d)", v)
			ref.Remove(v)
		}
		require.Equal(t, ref.Cardinality(), s.Count())
	}

	for v := 0; v < 500; v++ {
		assert.Equal(t, ref.Contains(v), has(t, s, v), "Contains(%d)", v)
	}
	if diff := cmp.Diff(sorted(ref.ToSlice()), sorted(s.Slice())); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchesReferenceSetUnderCollisions(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s := NewWithStrategy(Funcs(func(v int) (int, error) { return v % 3, nil }, func(a, b int) bool { return a == b }))
	ref := mapset.NewThreadUnsafeSet[int]()

	for i := 0; i < 3000; i++ {
		v := rnd.Intn(60)
		if rnd.Intn(2) == 0 {
			added, err := s.Add(v)
			require.NoError(t, err)
			require.Equal(t, ref.Add(v), added)
		} else {
			removed, err := s.Remove(v)
			require.NoError(t, err)
			require.Equal(t, ref.Contains(v), removed)
			ref.Remove(v)
		}
	}
	for v := 0; v < 60; v++ {
		assert.Equal(t, ref.Contains(v), has(t, s, v), "Contains(%d)", v)
	}
}
