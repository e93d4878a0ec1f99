package cell

import (
	"context"
	"log/slog"

	"github.com/aretw0/cell/internal/platform"
	"github.com/aretw0/cell/pkg/core"
	"github.com/aretw0/cell/pkg/store"
)

// --- Types ---

// Store is a public alias for the reactive single-value store.
type Store[T any] = store.Store[T]

// LocationResource is a public alias for the location record.
type LocationResource = core.LocationResource

// PriceResource is a public alias for the price record.
type PriceResource = core.PriceResource

// StoreOption configures a Store built with New or NewMemory.
type StoreOption = store.Option

// --- Configuration ---

// Option configures a file-backed Store built with Open.
type Option = platform.Option

// WithLogger sets the logger for the persister and the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithObserver sets the observer notified of store activity.
func WithObserver(obs core.Observer) Option {
	return platform.WithObserver(obs)
}

// WithFormat selects the record file format ("yaml", "yml" or "json").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithStrict rejects unknown fields when loading records.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly opens the record without ever writing it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist fails instead of creating a missing directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temporary sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithReload commits external edits of the record file into the store.
func WithReload(enabled bool) Option {
	return platform.WithReload(enabled)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Store holding initial.
func New[T any](initial T, opts ...StoreOption) *Store[T] {
	return store.New(initial, opts...)
}

// NewMemory creates a Store with no backing persistence.
func NewMemory[T any](initial T, opts ...StoreOption) *Store[T] {
	return store.NewMemory(initial, opts...)
}

// Open creates a Store backed by <dir>/<kind>.<format>, seeding the record with
// seed() when the file does not exist yet.
func Open[T any](ctx context.Context, dir, kind string, seed func() T, opts ...Option) (*Store[T], error) {
	return platform.Open(ctx, dir, kind, seed, opts...)
}

// OpenLocation opens the location store, seeded with the default location.
func OpenLocation(ctx context.Context, dir string, opts ...Option) (*Store[LocationResource], error) {
	return Open(ctx, dir, core.LocationResource{}.Kind(), core.DefaultLocationResource, opts...)
}

// OpenPrice opens the price store, seeded with the default price.
func OpenPrice(ctx context.Context, dir string, opts ...Option) (*Store[PriceResource], error) {
	return Open(ctx, dir, core.PriceResource{}.Kind(), core.DefaultPriceResource, opts...)
}
