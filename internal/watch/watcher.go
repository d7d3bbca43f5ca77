// Package watch regenerates a router whenever its routing table changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/danmuck/approuter/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultDebounce = 150 * time.Millisecond

type LoadFunc func(path string) (*config.Spec, error)

type RegenerateFunc func(spec *config.Spec) error

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher reloads a routing table after it changes on disk and hands the
// result to a regenerate callback. Failures are logged and watching goes on.
type Watcher struct {
	path       string
	load       LoadFunc
	regenerate RegenerateFunc
	debounce   time.Duration
	logger     zerolog.Logger
}

func New(path string, load LoadFunc, regenerate RegenerateFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:       filepath.Clean(path),
		load:       load,
		regenerate: regenerate,
		debounce:   DefaultDebounce,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run generates once, then on every change until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	defer fsWatcher.Close()

	// Editors often replace the file, so watch its directory.
	dir := filepath.Dir(w.path)
	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.reload()

	// Stop leaves no stale tick behind on go1.23+ timers, so no drain.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("table", w.path).Str("op", event.Op.String()).Msg("table changed")
			timer.Reset(w.debounce)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Str("table", w.path).Msg("watch error")
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	spec, err := w.load(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("table", w.path).Msg("table reload failed")
		return
	}
	if err := w.regenerate(spec); err != nil {
		w.logger.Error().Err(err).Str("table", w.path).Msg("regenerate failed")
		return
	}
	w.logger.Info().
		Str("table", w.path).
		Int("routes", len(spec.Routes)).
		Msg("router regenerated")
}
