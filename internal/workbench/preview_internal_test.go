package workbench

import (
	"context"
	"testing"

	"imgbench/internal/client"
	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/pkg/testutils"
	"imgbench/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTransport struct{}

func (nopTransport) Save(context.Context, types.LocalImage) (client.Ack, error) {
	return client.Ack{}, nil
}

func (nopTransport) List(context.Context) ([]types.RemoteImage, error) { return nil, nil }

func (nopTransport) ResolveImageURL(path string) string { return path }

func TestLoadPreviewDropsResultForReplacedFile(t *testing.T) {
	dir := t.TempDir()
	first := testutils.CreateTestPNG(t, dir, "first.png")
	second := testutils.CreateTestPNG(t, dir, "second.png")

	wb, err := NewWithTransport(config.New(), nopTransport{})
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	wb.render = func(ctx context.Context, file types.LocalImage) (string, error) {
		if file.Name == "first.png" {
			close(entered)
			<-release
		}
		return RenderPreview(ctx, file)
	}

	_, err = wb.PickPath(first)
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() {
		_, err := wb.LoadPreview(context.Background())
		result <- err
	}()

	<-entered
	_, err = wb.PickPath(second)
	require.NoError(t, err)
	close(release)

	err = <-result
	assert.True(t, errors.Is(err, errors.ErrStalePreview))
	assert.False(t, wb.Snapshot().HasPreview(), "first file's preview must not be shown")

	preview, err := wb.LoadPreview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, preview, wb.Snapshot().Preview)
	selected, _ := wb.SelectedFile()
	assert.Equal(t, "second.png", selected.Name)
}

func TestAcceptFilter(t *testing.T) {
	f, err := newAcceptFilter(nil)
	require.NoError(t, err)
	assert.True(t, f.Match("anything"))

	f, err = newAcceptFilter([]string{"*.PNG", "*.webp"})
	require.NoError(t, err)
	assert.True(t, f.Match("Cat.png"))
	assert.True(t, f.Match("dog.WEBP"))
	assert.False(t, f.Match("x.jpg"))

	_, err = newAcceptFilter([]string{"*.{png"})
	assert.True(t, errors.IsInvalidConfig(err))
}
