package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgbench/internal/client"
	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/watch"
	"imgbench/internal/workbench"
	"imgbench/pkg/testutils"
	"imgbench/pkg/types"

	"github.com/alecthomas/assert"
	"github.com/stretchr/testify/require"
)

func startDaemon(t *testing.T, cfg *config.Config) (*watch.Daemon, <-chan watch.Result) {
	t.Helper()
	cfg.Watch.Settle = 100 * time.Millisecond
	wb, err := workbench.New(cfg)
	require.NoError(t, err)
	d, err := watch.NewDaemon(cfg, wb)
	require.NoError(t, err)

	results := make(chan watch.Result, 8)
	d.SetCallback(func(r watch.Result) { results <- r })
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)

	// fsnotify may need a moment to register the watch.
	time.Sleep(100 * time.Millisecond)
	return d, results
}

func waitResult(t *testing.T, results <-chan watch.Result) watch.Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for daemon result")
		return watch.Result{}
	}
}

func TestDaemonAutoUpload(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	watchDir := t.TempDir()
	cfg := config.NewTestConfig(srv.URL)
	cfg.Watch.Directories = []string{watchDir}
	cfg.Picker.Accept = []string{"*.png"}

	d, results := startDaemon(t, cfg)

	testutils.CreateTestFilesWithContent(t, watchDir, map[string]string{"notes.txt": "ignored"})
	path := testutils.CreateTestPNG(t, watchDir, "cat.png")

	r := waitResult(t, results)
	assert.Equal(t, path, r.Path)
	assert.True(t, r.Uploaded)
	assert.Equal(t, nil, r.Err)
	assert.Equal(t, "saved", r.Ack.String())

	uploads := srv.Uploads()
	assert.Equal(t, 1, len(uploads))
	assert.Equal(t, "cat.png", uploads[0].Filename)

	status := d.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.FilesUploaded)
	assert.Equal(t, 0, status.Failures)
	assert.Equal(t, []string{watchDir}, status.WatchDirectories)

	d.Stop()
	assert.True(t, !d.Status().Running)
}

func TestDaemonPickOnly(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	watchDir := t.TempDir()
	cfg := config.NewTestConfig(srv.URL)
	cfg.Watch.Directories = []string{watchDir}
	cfg.Watch.AutoUpload = false

	_, results := startDaemon(t, cfg)
	path := testutils.CreateTestPNG(t, watchDir, "dog.png")

	r := waitResult(t, results)
	assert.Equal(t, path, r.Path)
	assert.True(t, !r.Uploaded)
	assert.Equal(t, 0, srv.Hits())
}

func TestDaemonReportsUnreachableServer(t *testing.T) {
	watchDir := t.TempDir()
	cfg := config.NewTestConfig(testutils.UnreachableURL(t))
	cfg.Watch.Directories = []string{watchDir}

	d, results := startDaemon(t, cfg)
	testutils.CreateTestPNG(t, watchDir, "cat.png")

	r := waitResult(t, results)
	assert.True(t, errors.IsServerUnreachable(r.Err))
	assert.Equal(t, 1, d.Status().Failures)
}

// pickingTransport runs onSave inside the upload request, before answering.
type pickingTransport struct {
	onSave func()
	sent   chan string
}

func (p *pickingTransport) Save(ctx context.Context, file types.LocalImage) (client.Ack, error) {
	p.onSave()
	p.sent <- file.Name
	return client.ParseAck([]byte(`"stored"`))
}

func (p *pickingTransport) List(context.Context) ([]types.RemoteImage, error) {
	return nil, nil
}

func (p *pickingTransport) ResolveImageURL(path string) string { return path }

func TestDaemonReportsTheFileItSent(t *testing.T) {
	watchDir := t.TempDir()
	userFile := testutils.CreateTestPNG(t, t.TempDir(), "user.png")
	cfg := config.NewTestConfig("http://localhost:1")
	cfg.Watch.Directories = []string{watchDir}
	cfg.Watch.Settle = 100 * time.Millisecond

	tr := &pickingTransport{sent: make(chan string, 4)}
	wb, err := workbench.NewWithTransport(cfg, tr)
	require.NoError(t, err)
	tr.onSave = func() {
		// The user picks another file while the daemon's upload runs.
		_, err := wb.PickPath(userFile)
		assert.Equal(t, nil, err)
	}

	d, err := watch.NewDaemon(cfg, wb)
	require.NoError(t, err)
	results := make(chan watch.Result, 4)
	d.SetCallback(func(r watch.Result) { results <- r })
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
	time.Sleep(100 * time.Millisecond)

	path := testutils.CreateTestPNG(t, watchDir, "cat.png")

	r := waitResult(t, results)
	assert.Equal(t, path, r.Path)
	assert.True(t, r.Uploaded)
	assert.Equal(t, "cat.png", <-tr.sent)
	assert.Equal(t, 1, d.Status().FilesUploaded)

	selected, ok := wb.SelectedFile()
	assert.True(t, ok)
	assert.Equal(t, userFile, selected.Path)
}

func TestDaemonRequiresDirectories(t *testing.T) {
	cfg := config.NewTestConfig("http://localhost:1")
	wb, err := workbench.New(cfg)
	require.NoError(t, err)
	d, err := watch.NewDaemon(cfg, wb)
	require.NoError(t, err)

	err = d.Start(context.Background())
	assert.True(t, errors.IsInvalidConfig(err))

	cfg.Watch.Directories = []string{filepath.Join(os.TempDir(), "imgbench-does-not-exist")}
	err = d.Start(context.Background())
	assert.True(t, errors.IsFileNotFound(err))
	assert.True(t, !d.Status().Running)

	// A failed start leaves nothing behind, so the daemon can be started again.
	cfg.Watch.Directories = []string{t.TempDir()}
	assert.NoError(t, d.Start(context.Background()))
	assert.True(t, d.Status().Running)
	d.Stop()
}
