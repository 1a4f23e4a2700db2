package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgbench/internal/errors"
	"imgbench/pkg/testutils"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFsnotify(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err, "New watcher creation failed")
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.AddDirectory(tempDir), "adding twice is fine")
	assert.Equal(t, []string{tempDir}, w.Directories())

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start must fail")

	events := w.Events()

	// fsnotify may need a moment to register the watch.
	time.Sleep(100 * time.Millisecond)

	path := testutils.CreateTestPNG(t, tempDir, "new.png")

	select {
	case ev, ok := <-events:
		require.True(t, ok, "Event channel closed unexpectedly")
		assert.Equal(t, path, ev.Path)
		assert.True(t, ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write))
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for CREATE event")
	}

	// Directories are not reported.
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "sub"), 0755))

	w.Stop()
	assert.False(t, w.IsRunning())

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			assert.NotEqual(t, filepath.Join(tempDir, "sub"), ev.Path)
		case <-time.After(time.Second):
			t.Fatal("Timeout waiting for event channel to close after stop")
		}
	}
}

func TestWatcherAddDirectoryErrors(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.AddDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsFileNotFound(err))

	file := testutils.CreateTestPNG(t, t.TempDir(), "a.png")
	err = w.AddDirectory(file)
	assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
}

func TestWatcherCannotRestart(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
	assert.Error(t, w.Start())
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(t.TempDir()))
	require.NoError(t, w.Close())

	// The fsnotify handle is gone, so nothing more can be watched.
	assert.Error(t, w.AddDirectory(t.TempDir()))

	running, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, running.AddDirectory(t.TempDir()))
	require.NoError(t, running.Start())
	assert.Error(t, running.Close(), "running watchers are released by Stop")
	running.Stop()
}
