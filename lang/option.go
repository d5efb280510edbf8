package lang

import (
	"github.com/ardnew/permute/log"
)

// DefaultMaxCombinations is the default bound on the number of combinations
// a single for item may hold at once. Zero means unbounded.
// Users may modify this before creating an [Evaluator].
var DefaultMaxCombinations = 0

// options holds parse and evaluation configuration.
type options struct {
	maxCombinations int
	logger          log.Logger // zero value discards
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxCombinations bounds the number of combinations one for item may
// produce. Exceeding it fails with [ErrTooManyCombinations].
// A value of zero or less removes the bound.
func WithMaxCombinations(n int) Option {
	return func(o *options) {
		o.maxCombinations = max(n, 0)
	}
}

// makeOptions returns the defaults overridden by opts.
func makeOptions(opts ...Option) options {
	o := options{maxCombinations: DefaultMaxCombinations}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
