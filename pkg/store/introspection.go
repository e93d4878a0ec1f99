package store

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Name        string    `json:"name"`
	Version     uint64    `json:"version"`
	Subscribers int       `json:"subscribers"`
	Persistent  bool      `json:"persistent"`
	LastCommit  time.Time `json:"last_commit"`
}

// State implements introspection.Introspectable.
func (s *Store[T]) State() any {
	s.mu.Lock()
	subscribers := len(s.subs)
	s.mu.Unlock()

	snap := s.current.Load()
	return StoreState{
		Name:        s.name,
		Version:     snap.seq,
		Subscribers: subscribers,
		Persistent:  s.persister != nil,
		LastCommit:  snap.at,
	}
}

// ComponentType implements introspection.Component.
func (s *Store[T]) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store[int])(nil)
var _ introspection.Component = (*Store[int])(nil)
