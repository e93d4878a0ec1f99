package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/cell/pkg/core"
)

// Config holds the configuration for a file persister.
type Config struct {
	Dir          string // directory holding the record file
	Name         string // file stem, e.g. "location"
	Format       string // extension without dot: "yaml" (default), "yml" or "json"
	Strict       bool   // reject unknown fields when loading
	ReadOnly     bool
	MustExist    bool // Initialize fails instead of creating Dir
	Logger       *slog.Logger
	ErrorHandler func(error)           // called for watcher runtime errors
	Serializers  map[string]Serializer // overrides DefaultSerializers per extension
}

// Persister implements core.Persister by keeping one record per file.
type Persister[T any] struct {
	Path       string
	config     Config
	serializer Serializer

	mu            sync.RWMutex
	lastWritten   []byte
	lastSave      *time.Time
	watcherActive bool
}

// NewPersister creates a persister for <Dir>/<Name>.<Format>.
func NewPersister[T any](config Config) (*Persister[T], error) {
	if config.Name == "" {
		return nil, fmt.Errorf("persister has no name")
	}
	if config.Format == "" {
		config.Format = "yaml"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	ext := "." + strings.TrimPrefix(config.Format, ".")
	serializers := DefaultSerializers(config.Strict)
	for k, s := range config.Serializers {
		serializers[k] = s
	}
	serializer, ok := serializers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", config.Format)
	}

	return &Persister[T]{
		Path:       filepath.Join(config.Dir, config.Name+ext),
		config:     config,
		serializer: serializer,
	}, nil
}

// Initialize ensures the record directory exists.
func (p *Persister[T]) Initialize(ctx context.Context) error {
	if p.config.MustExist || p.config.ReadOnly {
		info, err := os.Stat(p.config.Dir)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory does not exist: %s", p.config.Dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", p.config.Dir)
		}
		return nil
	}

	if err := os.MkdirAll(p.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Load reads and decodes the record file.
// It returns core.ErrNotFound when the file does not exist yet.
func (p *Persister[T]) Load(ctx context.Context) (T, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, err
	}

	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return v, fmt.Errorf("%s: %w", p.Path, core.ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("failed to read %s: %w", p.Path, err)
	}

	if err := p.serializer.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", p.Path, err)
	}

	p.config.Logger.Debug("record loaded", "path", p.Path)
	return v, nil
}

// Save encodes v and writes it atomically, replacing the previous record.
// Records implementing core.Resource are validated first.
func (p *Persister[T]) Save(ctx context.Context, v T) error {
	if p.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if r, ok := any(v).(core.Resource); ok {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	data, err := p.serializer.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.Path, err)
	}

	// Hold the lock across the write so a watcher comparing against lastWritten
	// never sees the new file with the old bytes.
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := writeFileAtomic(p.Path, data, 0644); err != nil {
		return err
	}

	now := time.Now()
	p.lastWritten = data
	p.lastSave = &now

	p.config.Logger.Debug("record saved", "path", p.Path, "bytes", len(data))
	return nil
}

// Delete removes the record file. Deleting a missing record is not an error.
func (p *Persister[T]) Delete(ctx context.Context) error {
	if p.config.ReadOnly {
		return core.ErrReadOnly
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", p.Path, err)
	}
	p.lastWritten = nil
	return nil
}

// Watch observes the record directory and emits events for files matching the
// doublestar pattern (relative to the directory). An empty pattern watches this
// persister's own file. Writes made by Save are not reported.
func (p *Persister[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = filepath.Base(p.Path)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(p.config.Dir, pattern, events, p)
	w.closeEvents = true
	if err := w.Start(ctx); err != nil {
		close(events)
		return nil, err
	}
	return events, nil
}

// ownWrite reports whether the file at path still holds exactly what Save wrote.
func (p *Persister[T]) ownWrite(path string) bool {
	if filepath.Clean(path) != filepath.Clean(p.Path) {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.lastWritten == nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Equal(data, p.lastWritten)
}

func (p *Persister[T]) logger() *slog.Logger {
	return p.config.Logger
}

func (p *Persister[T]) errorHandler() func(error) {
	return p.config.ErrorHandler
}

func (p *Persister[T]) setWatcherActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watcherActive = active
}

var _ core.Persister[core.LocationResource] = (*Persister[core.LocationResource])(nil)
var _ core.Watchable = (*Persister[core.PriceResource])(nil)
