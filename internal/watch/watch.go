// Package watch regenerates the map whenever the area files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/mud-mapgen/internal/areafile"
)

// ErrClosed is returned when the underlying file watcher shuts down on its own.
var ErrClosed = errors.New("file watcher closed")

// RegenerateFunc performs one regeneration. Its error is logged and the
// watcher keeps running.
type RegenerateFunc func(ctx context.Context) error

// Watcher calls a RegenerateFunc after area files in a directory change.
// Bursts of events closer together than the debounce interval trigger a
// single regeneration.
type Watcher struct {
	dir        string
	manifest   string
	debounce   time.Duration
	logger     *zap.Logger
	regenerate RegenerateFunc

	// entries holds the cleaned paths of the files the manifest lists. It is
	// only touched by the event loop.
	entries mapset.Set[string]
}

// New constructs a Watcher over dir. Events on the manifest, on files it
// lists and on any file ending in ".are" are considered; everything else is
// ignored. manifest may live outside dir.
//
// Precondition: dir must exist; logger and fn must be non-nil.
// Postcondition: returns a non-nil Watcher.
func New(dir, manifest string, debounce time.Duration, logger *zap.Logger, fn RegenerateFunc) *Watcher {
	return &Watcher{
		dir:        filepath.Clean(dir),
		manifest:   filepath.Clean(manifest),
		debounce:   debounce,
		logger:     logger,
		regenerate: fn,
		entries:    mapset.New[string](),
	}
}

// Run watches until ctx is cancelled.
//
// Postcondition: Returns ctx.Err() on cancellation, or a wrapped error if the
// area directory cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	if mdir := filepath.Dir(w.manifest); mdir != w.dir {
		if err := fw.Add(mdir); err != nil {
			return fmt.Errorf("watching manifest directory %s: %w", mdir, err)
		}
	}
	w.refreshEntries(fw)
	w.logger.Info("watching area directory",
		zap.String("dir", w.dir),
		zap.String("manifest", w.manifest),
		zap.Int("entries", w.entries.Size()),
		zap.Duration("debounce", w.debounce),
	)

	changes := make(chan string, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case ev, ok := <-fw.Events:
				if !ok {
					return ErrClosed
				}
				if !w.Relevant(ev) {
					continue
				}
				if filepath.Clean(ev.Name) == w.manifest {
					w.refreshEntries(fw)
				}
				select {
				case changes <- ev.Name:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return ErrClosed
				}
				w.logger.Warn("file watcher error", zap.Error(err))
			}
		}
	})
	g.Go(func() error {
		return w.debounceLoop(gctx, changes)
	})
	return g.Wait()
}

// Relevant reports whether ev should trigger a regeneration.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == w.manifest || w.entries.Has(name) {
		return true
	}
	return filepath.Dir(name) == w.dir && strings.EqualFold(filepath.Ext(name), ".are")
}

// refreshEntries rereads the manifest and watches the directory of every
// listed file. An unreadable manifest leaves the previous entries in place.
func (w *Watcher) refreshEntries(fw *fsnotify.Watcher) {
	entries, err := areafile.ReadManifest(w.manifest)
	if err != nil {
		w.logger.Warn("manifest not readable, keeping previous entries", zap.Error(err))
		return
	}
	w.entries.Clear()
	for _, entry := range entries {
		path := filepath.Join(w.dir, entry)
		w.entries.Put(path)
		if edir := filepath.Dir(path); edir != w.dir && edir != filepath.Dir(w.manifest) {
			if err := fw.Add(edir); err != nil {
				w.logger.Debug("not watching entry directory", zap.String("dir", edir), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context, changes <-chan string) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name := <-changes:
			w.logger.Debug("area file changed", zap.String("file", name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.regenerate(ctx); err != nil {
				w.logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}
