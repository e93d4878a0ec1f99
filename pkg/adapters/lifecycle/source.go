// Package lifecycle exposes store commits to aretw0/lifecycle supervisors.
package lifecycle

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cell/pkg/core"
)

// Committer is the part of a store a commit source needs. *store.Store[T]
// implements it for every T.
type Committer interface {
	Name() string
	Watch(ctx context.Context) (<-chan core.Event, error)
}

type commitSource struct {
	store   Committer
	out     chan lifecycle.Event
	started atomic.Bool
}

// NewSource creates a lifecycle.Source emitting one event per commit of store.
// The subscription is taken by Start, so only commits made after Start are
// reported. The Events channel closes once the start context ends.
func NewSource(store Committer) lifecycle.Source {
	return &commitSource{
		store: store,
		out:   make(chan lifecycle.Event),
	}
}

func (s *commitSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *commitSource) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("commit source %s already started", s.store.Name())
	}

	commits, err := s.store.Watch(ctx)
	if err != nil {
		close(s.out)
		return fmt.Errorf("commit source %s: %w", s.store.Name(), err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for e := range commits {
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	return nil
}
