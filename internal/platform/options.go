package platform

import (
	"log/slog"

	"github.com/aretw0/cell/pkg/core"
)

// options holds the configuration used by Open.
type options struct {
	logger       *slog.Logger
	observer     core.Observer
	format       string
	strict       bool
	readOnly     bool
	mustExist    bool
	forceTemp    bool
	devSafety    bool
	reload       bool
	errorHandler func(error)
}

// Option configures Open.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		format:    "yaml",
		devSafety: true,
	}
}

// WithLogger sets the logger shared by the persister and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets the store observer (e.g. the Prometheus adapter).
func WithObserver(obs core.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithFormat selects the record file format: "yaml" (default), "yml" or "json".
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithStrict rejects unknown fields when loading records.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Updates fail with core.ErrPersistFailed wrapping core.ErrReadOnly.
// 2. A missing record is seeded in memory only.
// 3. Dev safety is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist makes Open fail when the directory does not exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp re-roots the directory under the dev sandbox even outside `go run`.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the directory is re-rooted under a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithReload commits external edits of the record file into the store.
func WithReload(enabled bool) Option {
	return func(o *options) {
		o.reload = enabled
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied), which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
