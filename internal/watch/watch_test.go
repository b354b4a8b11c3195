package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type runner struct {
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, w *Watcher) *runner {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{cancel: cancel, done: make(chan error, 1)}
	go func() { r.done <- w.Run(ctx) }()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	t.Cleanup(r.stop)
	return r
}

func (r *runner) stop() {
	r.cancel()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
	}
}

func TestWatcher_RegeneratesOnAreaChange(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := New(dir, filepath.Join(dir, "area.lst"), 50*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "town.are"), []byte("#AREADATA\n"), 0644))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := New(dir, filepath.Join(dir, "area.lst"), 300*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	path := filepath.Join(dir, "town.are")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := New(dir, filepath.Join(dir, "area.lst"), 20*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "areas.json"), []byte("{}"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_RegenerationErrorIsLogged(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.ErrorLevel)
	w := New(dir, filepath.Join(dir, "area.lst"), 20*time.Millisecond, zap.New(core), func(context.Context) error {
		return errors.New("disk full")
	})
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "area.lst"), []byte("town.are\n"), 0644))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("regeneration failed").Len() > 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, filepath.Join(dir, "area.lst"), time.Second, zaptest.NewLogger(t), func(context.Context) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "absent")
	w := New(absent, filepath.Join(absent, "area.lst"), time.Second, zaptest.NewLogger(t), func(context.Context) error { return nil })
	err := w.Run(context.Background())
	assert.Error(t, err)
}

func TestWatcher_Relevant(t *testing.T) {
	w := New("/area", "/area/area.lst", time.Second, zaptest.NewLogger(t), nil)
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/area/town.are", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/area/TOWN.ARE", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/area/town.are", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/area/area.lst", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/area/town.are", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/area/notes.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/area/sub/town.are", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/elsewhere/area.lst", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, w.Relevant(tc.ev), "%s", tc.ev)
	}
}

func TestWatcher_RegeneratesOnListedNonAreaFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "area.lst"), []byte("town.txt\n$\n"), 0644))
	var calls atomic.Int32
	w := New(dir, filepath.Join(dir, "area.lst"), 20*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	require.Zero(t, calls.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "town.txt"), []byte("#AREADATA\n"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_ManifestOutsideAreaDirectory(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "world.lst")
	require.NoError(t, os.WriteFile(manifest, []byte("town.are\n$\n"), 0644))
	var calls atomic.Int32
	w := New(dir, manifest, 20*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	require.NoError(t, os.WriteFile(manifest, []byte("town.are\nkeep.are\n$\n"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_MissingManifestStillWatchesAreaFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w := New(dir, filepath.Join(dir, "area.lst"), 20*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls.Add(1)
		return nil
	})
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "town.are"), []byte("#AREADATA\n"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}
