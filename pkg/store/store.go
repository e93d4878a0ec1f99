// Package store provides Store, a reactive holder for a single value.
//
// A Store is the single source of truth for one value of type T:
//
//   - Snapshot returns the latest committed value without blocking.
//   - Subscribe streams the current value and then every commit, in commit order.
//   - Update applies a transform to the latest value and commits the result.
//
// Updates are serialized: at most one transform runs per store at a time, each
// transform sees the result of the previous commit, and all subscribers observe
// the same total order of commits.
//
// Subscribers have a single slot each. A subscriber that has not consumed the
// previous value only receives the latest one; intermediate commits are dropped
// for that subscriber and the commit path never waits on it.
//
// Transforms must not call Update on the same store: the nested call waits for
// the turn held by its caller and never returns.
//
// A value type holding maps, slices, pointers or interfaces would be shared
// with every caller. Such stores require WithClone.
package store

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cell/pkg/core"
)

// snapshot is an immutable committed value.
type snapshot[T any] struct {
	value T
	seq   uint64
	at    time.Time
}

// Store holds one value of type T and publishes every change to its subscribers.
type Store[T any] struct {
	name      string
	logger    *slog.Logger
	observer  core.Observer
	persister core.Persister[T]
	clone     func(T) T
	equal     func(a, b T) bool

	// turn has capacity 1; its holder owns the commit path.
	turn chan struct{}

	current atomic.Pointer[snapshot[T]]

	// mu guards subscriber registration against the publish step so a new
	// subscriber sees each commit exactly once.
	mu      sync.Mutex
	subs    map[uint64]*mailbox[*snapshot[T]]
	nextSub uint64
}

// New creates a Store holding initial.
// It panics if a typed option (WithPersister, WithClone, WithEqual) was built
// for a type other than T, or if T can alias memory and no WithClone was given.
func New[T any](initial T, opts ...Option) *Store[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newStore(initial, o)
}

// NewMemory creates a Store with no backing persistence.
// It is the same Store type; any WithPersister option is ignored.
func NewMemory[T any](initial T, opts ...Option) *Store[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.persister = nil
	return newStore(initial, o)
}

func newStore[T any](initial T, o *options) *Store[T] {
	s := &Store[T]{
		name:     o.name,
		logger:   o.logger,
		observer: o.observer,
		turn:     make(chan struct{}, 1),
		subs:     make(map[uint64]*mailbox[*snapshot[T]]),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}

	if o.persister != nil {
		p, ok := o.persister.(core.Persister[T])
		if !ok {
			panic(fmt.Sprintf("store %s: persister %T does not persist %T", o.name, o.persister, initial))
		}
		s.persister = p
	}
	if o.clone != nil {
		fn, ok := o.clone.(func(T) T)
		if !ok {
			panic(fmt.Sprintf("store %s: clone %T does not copy %T", o.name, o.clone, initial))
		}
		s.clone = fn
	}
	if o.equal != nil {
		fn, ok := o.equal.(func(a, b T) bool)
		if !ok {
			panic(fmt.Sprintf("store %s: equal %T does not compare %T", o.name, o.equal, initial))
		}
		s.equal = fn
	}
	if s.clone == nil {
		if t := reflect.TypeFor[T](); sharesMemory(t) {
			panic(fmt.Sprintf("store %s: %s shares memory with its copies, use WithClone", o.name, t))
		}
	}

	s.current.Store(&snapshot[T]{value: s.copy(initial), at: time.Now()})
	return s
}

// Name returns the store name.
func (s *Store[T]) Name() string {
	return s.name
}

// Snapshot returns the most recently committed value. It never blocks.
func (s *Store[T]) Snapshot() T {
	return s.copy(s.current.Load().value)
}

// Version returns the number of commits since construction.
func (s *Store[T]) Version() uint64 {
	return s.current.Load().seq
}

// Update waits for its turn, applies fn to the latest value and commits the result.
//
// If fn returns an error or panics, nothing is committed and the error is returned
// as a *core.TransformError. If the persister rejects the value, nothing is
// committed and the error matches core.ErrPersistFailed. If ctx ends before the
// turn is acquired, Update returns ctx.Err() and other updates are unaffected.
func (s *Store[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	var zero T

	start := time.Now()
	select {
	case s.turn <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-s.turn }()

	s.observer.UpdateWaited(s.name, time.Since(start))

	// Both select cases may have been ready; do not run work for an abandoned call.
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	prev := s.current.Load()
	next, err := apply(fn, s.copy(prev.value))
	if err != nil {
		s.observer.TransformFailed(s.name)
		s.logger.Warn("transform failed", "store", s.name, "seq", prev.seq, "error", err)
		return zero, &core.TransformError{Store: s.name, Cause: err}
	}

	if s.equal != nil && s.equal(prev.value, next) {
		s.logger.Debug("update skipped, value unchanged", "store", s.name, "seq", prev.seq)
		return s.copy(prev.value), nil
	}

	next = s.copy(next)

	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			s.observer.PersistFailed(s.name)
			s.logger.Error("persist failed", "store", s.name, "seq", prev.seq, "error", err)
			return zero, fmt.Errorf("store %s: %w: %w", s.name, core.ErrPersistFailed, err)
		}
	}

	snap := s.commit(next)
	s.observer.Committed(s.name, snap.seq)
	s.logger.Debug("committed", "store", s.name, "seq", snap.seq)

	return s.copy(snap.value), nil
}

// Set commits v, replacing the current value.
func (s *Store[T]) Set(ctx context.Context, v T) (T, error) {
	return s.Update(ctx, func(T) (T, error) {
		return v, nil
	})
}

// apply runs fn and turns a panic into an error so the turn is always released
// with the value untouched.
func apply[T any](fn func(T) (T, error), v T) (next T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			next = zero
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()
	return fn(v)
}

// commit replaces the current value and hands it to every subscriber.
// Only the holder of the turn calls it.
func (s *Store[T]) commit(v T) *snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	snap := &snapshot[T]{value: v, seq: prev.seq + 1, at: time.Now()}
	s.current.Store(snap)

	for _, box := range s.subs {
		box.put(snap)
	}
	return snap
}

// Subscribe returns a stream that starts with the current value and then carries
// every commit in commit order. A slow reader only receives the latest value.
// The channel is closed once ctx is done.
func (s *Store[T]) Subscribe(ctx context.Context) (<-chan T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, box := s.register(true)
	out := make(chan T)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.unregister(id)
		pump(ctx, box, out, func(snap *snapshot[T]) T {
			return s.copy(snap.value)
		})
		return nil
	})

	return out, nil
}

// Values returns Subscribe as an iterator. The subscription starts when iteration
// starts and ends when the loop breaks or ctx is done.
func (s *Store[T]) Values(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		values, err := s.Subscribe(ctx)
		if err != nil {
			return
		}
		for v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

// Watch streams a core.Event for every commit made after the call, with the same
// latest-only policy as Subscribe. The channel is closed once ctx is done.
func (s *Store[T]) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, box := s.register(false)
	out := make(chan core.Event)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.unregister(id)
		pump(ctx, box, out, func(snap *snapshot[T]) core.Event {
			return core.Event{
				Type:      core.EventCommit,
				ID:        s.name,
				Seq:       snap.seq,
				Timestamp: snap.at.UnixMilli(),
			}
		})
		return nil
	})

	return out, nil
}

func (s *Store[T]) register(withCurrent bool) (uint64, *mailbox[*snapshot[T]]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	box := newMailbox[*snapshot[T]]()
	if withCurrent {
		box.put(s.current.Load())
	}

	s.nextSub++
	id := s.nextSub
	s.subs[id] = box
	s.observer.Subscribers(s.name, len(s.subs))

	return id, box
}

func (s *Store[T]) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, id)
	s.observer.Subscribers(s.name, len(s.subs))
}

// sharesMemory reports whether a plain assignment of a t value leaves both
// copies pointing at the same mutable memory.
func sharesMemory(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.UnsafePointer, reflect.Interface:
		return true
	case reflect.Array:
		return sharesMemory(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if sharesMemory(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

func (s *Store[T]) copy(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

type nopObserver struct{}

func (nopObserver) Committed(string, uint64) {}
func (nopObserver) TransformFailed(string) {}
func (nopObserver) PersistFailed(string) {}
func (nopObserver) Subscribers(string, int) {}
func (nopObserver) UpdateWaited(string, time.Duration) {}
