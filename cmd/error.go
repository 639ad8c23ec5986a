package cmd

import (
	"errors"
	"strings"
)

// MultiError collects the failures of a piped session.
type MultiError []error

func (m MultiError) Error() string {
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, err := range m {
		b.WriteString("\n- " + err.Error())
	}
	return b.String()
}

func (m MultiError) Unwrap() []error {
	return m
}

var (
	ErrInvalidArguments = errors.New("invalid argument(s)")
	errQuit             = errors.New("quit")
)
