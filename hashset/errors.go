package hashset

import "errors"

var (
	// ErrMissingArgument is returned when a bulk operation receives a nil sequence.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidDestination is returned by CopyTo when the destination cannot
	// hold the set's elements from the given offset.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrInvalidElement is returned when the equality strategy cannot hash a value.
	ErrInvalidElement = errors.New("invalid element")

	// ErrConcurrentModification is reported by an iterator whose set was
	// structurally modified after the iterator was created.
	ErrConcurrentModification = errors.New("set was modified during iteration")
)
