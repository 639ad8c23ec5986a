package hashset

import (
	"math"

	"go.uber.org/zap"

	"github.com/fzft/go-hashset/log"
)

const (
	// DefaultCapacity is the number of elements a new Set holds before its
	// first resize.
	DefaultCapacity = 4
	// DefaultLoadFactor is the target ratio of live elements to table length.
	DefaultLoadFactor = 0.8

	minLoadFactor = 0.1
	maxLoadFactor = 1.0
)

// Observer is told about table maintenance. Implementations must be cheap;
// they run inside Add.
type Observer interface {
	// Resized is called after the table grew from oldLen to newLen slots.
	Resized(oldLen, newLen, count int)
	// Compacted is called after tombstones were reclaimed without growing.
	Compacted(length, reclaimed int)
	// Probed reports how many slots an insert or lookup examined.
	Probed(n int)
}

type nopObserver struct{}

func (nopObserver) Resized(int, int, int) {}
func (nopObserver) Compacted(int, int)    {}
func (nopObserver) Probed(int)            {}

type config struct {
	capacity   int
	loadFactor float64
	logger     *zap.Logger
	observer   Observer
}

// Option configures a Set at construction.
type Option func(*config)

// WithCapacity sizes the initial table to hold n elements without resizing.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithLoadFactor sets the ratio of live elements to slots that triggers a
// resize. Values are clamped to [0.1, 1.0].
func WithLoadFactor(f float64) Option {
	return func(c *config) {
		c.loadFactor = f
	}
}

// WithLogger overrides the package logger for one set.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithObserver registers o for table maintenance events.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

func newConfig(opts []Option) config {
	c := config{
		capacity:   DefaultCapacity,
		loadFactor: DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.capacity < 0 {
		c.capacity = 0
	}
	switch {
	case math.IsNaN(c.loadFactor):
		c.loadFactor = DefaultLoadFactor
	case c.loadFactor < minLoadFactor:
		c.loadFactor = minLoadFactor
	case c.loadFactor > maxLoadFactor:
		c.loadFactor = maxLoadFactor
	}
	if c.logger == nil {
		c.logger = log.Logger
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	return c
}
