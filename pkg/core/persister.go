package core

import (
	"context"
	"time"
)

// Persister defines the contract for storing and retrieving a single record.
// Stores call Save on their commit path; loaders call Load once at startup.
// Adhering to this interface keeps stores independent of the storage mechanism.
type Persister[T any] interface {
	// Load retrieves the persisted record. It returns ErrNotFound when none exists yet.
	Load(ctx context.Context) (T, error)

	// Save persists the record, replacing any previous one.
	Save(ctx context.Context, v T) error
}

// Watchable defines an interface for persisters that can report external changes.
type Watchable interface {
	// Watch observes changes matching the glob pattern.
	// The channel closes when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Observer receives store activity. Implementations must be safe for concurrent use
// and must not block.
type Observer interface {
	Committed(store string, seq uint64)
	TransformFailed(store string)
	PersistFailed(store string)
	Subscribers(store string, n int)
	UpdateWaited(store string, d time.Duration)
}
