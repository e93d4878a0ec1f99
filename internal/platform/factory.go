package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cell/pkg/adapters/fs"
	"github.com/aretw0/cell/pkg/core"
	"github.com/aretw0/cell/pkg/store"
)

// Open returns a Store backed by the record file <dir>/<kind>.<format>.
//
// The record is loaded once. When it does not exist yet, seed is called exactly
// once and its value is saved before the store is built. Every later commit goes
// through the file persister. With WithReload, external edits of the file are
// committed into the store until ctx is done.
func Open[T any](ctx context.Context, dir, kind string, seed func() T, opts ...Option) (*store.Store[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Read-only mode is inherently safe and uses the real path.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolveDir(dir, useTemp)

	if IsDevRun() {
		if bypassSafety {
			logger.Debug("dev sandbox bypassed", "path", resolved, "read_only", o.readOnly)
		} else {
			logger.Debug("dev sandbox enabled", "original_path", dir, "resolved_path", resolved)
		}
	}

	p, err := fs.NewPersister[T](fs.Config{
		Dir:          resolved,
		Name:         kind,
		Format:       o.format,
		Strict:       o.strict,
		ReadOnly:     o.readOnly,
		MustExist:    o.mustExist,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	})
	if err != nil {
		return nil, err
	}
	if err := p.Initialize(ctx); err != nil {
		return nil, err
	}

	initial, err := p.Load(ctx)
	switch {
	case errors.Is(err, core.ErrNotFound):
		if seed == nil {
			return nil, fmt.Errorf("no seed for %s: %w", kind, err)
		}
		initial = seed()
		if !o.readOnly {
			if err := p.Save(ctx, initial); err != nil {
				return nil, fmt.Errorf("failed to seed %s: %w", kind, err)
			}
		}
		logger.Info("record seeded", "kind", kind, "path", p.Path, "persisted", !o.readOnly)
	case err != nil:
		return nil, err
	}

	storeOpts := []store.Option{
		store.WithName(kind),
		store.WithLogger(logger),
		store.WithPersister[T](p),
	}
	if o.observer != nil {
		storeOpts = append(storeOpts, store.WithObserver(o.observer))
	}
	s := store.New(initial, storeOpts...)

	if o.reload {
		if err := reload(ctx, s, p, logger); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// reload commits every external modification of the record file into s.
// A removed file keeps the last committed value; the next commit recreates it.
func reload[T any](ctx context.Context, s *store.Store[T], p *fs.Persister[T], logger *slog.Logger) error {
	events, err := p.Watch(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", p.Path, err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range events {
			if e.Type == core.EventDelete {
				logger.Warn("record file removed, keeping last value", "store", s.Name(), "path", p.Path)
				continue
			}

			if err := reloadRecord(ctx, s, p.Load); err != nil {
				logger.Warn("reload failed", "store", s.Name(), "path", p.Path, "error", err)
				continue
			}
			logger.Info("record reloaded", "store", s.Name(), "event", e.String(), "seq", s.Version())
		}
		return nil
	})

	return nil
}

// reloadRecord commits the value returned by load. load runs while the store's
// turn is held: no local commit lands between the read and the commit.
func reloadRecord[T any](ctx context.Context, s *store.Store[T], load func(context.Context) (T, error)) error {
	_, err := s.Update(ctx, func(T) (T, error) {
		return load(ctx)
	})
	return err
}
