package store

import (
	"log/slog"

	"github.com/aretw0/cell/pkg/core"
)

// options holds the configuration of a Store.
// Typed settings are kept as 'any' so that Option stays non-generic; New checks
// them against the store's value type.
type options struct {
	name      string
	logger    *slog.Logger
	observer  core.Observer
	persister any
	clone     any
	equal     any
}

// Option defines a functional option for configuring a Store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		name:     "store",
		logger:   nil,
		observer: nil,
	}
}

// WithName sets the name used in logs, events, errors and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers a metrics hook notified on the commit path.
func WithObserver(obs core.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithPersister makes every commit go through p.Save before it becomes visible.
// A failing Save aborts the commit and Update returns core.ErrPersistFailed.
func WithPersister[T any](p core.Persister[T]) Option {
	return func(o *options) {
		o.persister = p
	}
}

// WithClone sets the function used to copy values crossing the store boundary.
// It is needed when T holds references (maps, slices, pointers) so that callers
// never alias the committed value. Value types need no clone.
func WithClone[T any](fn func(T) T) Option {
	return func(o *options) {
		o.clone = fn
	}
}

// WithEqual lets Update skip the commit when the transform returns a value equal
// to the current one. Subscribers are not notified and the version does not move.
func WithEqual[T any](fn func(a, b T) bool) Option {
	return func(o *options) {
		o.equal = fn
	}
}
