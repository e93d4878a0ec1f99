package fs

import (
	"path/filepath"
	"time"

	"github.com/aretw0/introspection"
)

// PersisterState exposes internal state for observability.
type PersisterState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	ReadOnly      bool       `json:"read_only"`
	Strict        bool       `json:"strict"`
	WatcherActive bool       `json:"watcher_active"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (p *Persister[T]) State() any {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PersisterState{
		Path:          p.Path,
		Format:        filepath.Ext(p.Path)[1:],
		ReadOnly:      p.config.ReadOnly,
		Strict:        p.config.Strict,
		WatcherActive: p.watcherActive,
		LastSave:      p.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (p *Persister[T]) ComponentType() string {
	return "persister"
}

var _ introspection.Introspectable = (*Persister[any])(nil)
var _ introspection.Component = (*Persister[any])(nil)
