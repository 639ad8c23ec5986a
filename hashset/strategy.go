package hashset

import (
	"fmt"
	"hash/maphash"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/cnf/structhash"
)

// Strategy decides how elements of a Set are hashed and compared. Equal
// values must hash alike. Hash returns an error for values it cannot hash;
// the set reports those as ErrInvalidElement and leaves its table alone.
type Strategy[T any] interface {
	Hash(v T) (int, error)
	Equal(a, b T) bool
}

type comparableStrategy[T comparable] struct {
	seed maphash.Seed
}

// Comparable returns the natural strategy for comparable types: the runtime
// hash of the value and ==. Interface values holding an uncomparable dynamic
// type are rejected.
func Comparable[T comparable]() Strategy[T] {
	return comparableStrategy[T]{seed: maphash.MakeSeed()}
}

func (s comparableStrategy[T]) Hash(v T) (h int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidElement, r)
		}
	}()
	return int(maphash.Comparable(s.seed, v)), nil
}

func (s comparableStrategy[T]) Equal(a, b T) bool {
	return a == b
}

type deepStrategy[T any] struct{}

// Deep returns a strategy for values compared by content, slices and maps
// included. Values are compared with reflect.DeepEqual and hashed from their
// structhash digest. Funcs and channels have no content to compare and are
// rejected; a func or channel nested inside a value never equals anything,
// not even itself.
func Deep[T any]() Strategy[T] {
	return deepStrategy[T]{}
}

func (deepStrategy[T]) Hash(v T) (h int, err error) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return 0, fmt.Errorf("%w: nil interface value", ErrInvalidElement)
	case rv.Kind() == reflect.Func, rv.Kind() == reflect.Chan:
		return 0, fmt.Errorf("%w: %s value", ErrInvalidElement, rv.Kind())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidElement, r)
		}
	}()
	digest, err := structhash.Hash(v, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}
	return int(xxhash.Sum64String(digest)), nil
}

func (deepStrategy[T]) Equal(a, b T) bool {
	return reflect.DeepEqual(a, b)
}

type funcStrategy[T any] struct {
	hash  func(T) (int, error)
	equal func(a, b T) bool
}

// Funcs builds a Strategy from a hash and an equality function.
func Funcs[T any](hash func(T) (int, error), equal func(a, b T) bool) Strategy[T] {
	return funcStrategy[T]{hash: hash, equal: equal}
}

func (s funcStrategy[T]) Hash(v T) (int, error) {
	h, err := s.hash(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidElement, err)
	}
	return h, nil
}

func (s funcStrategy[T]) Equal(a, b T) bool {
	return s.equal(a, b)
}
