package client_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"imgbench/internal/client"
	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/pkg/testutils"
	"imgbench/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T) types.LocalImage {
	t.Helper()
	path := testutils.CreateTestPNG(t, t.TempDir(), "cat.png")
	return types.LocalImage{Path: path, Name: "cat.png", MediaType: "image/png"}
}

func TestSave(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	c := client.New(config.NewTestConfig(srv.URL))
	img := pngImage(t)

	ack, err := c.Save(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "saved", ack.Message())
	assert.Equal(t, `{"message":"saved"}`, ack.Raw())

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "cat.png", uploads[0].Filename)
	assert.Equal(t, testutils.PNGBytes(t, 4, 3), uploads[0].Data)
	assert.NotEmpty(t, uploads[0].RequestID)
}

func TestSaveErrors(t *testing.T) {
	t.Run("server unreachable", func(t *testing.T) {
		c := client.New(config.NewTestConfig(testutils.UnreachableURL(t)))
		_, err := c.Save(context.Background(), pngImage(t))
		require.Error(t, err)
		assert.True(t, errors.IsServerUnreachable(err))
		assert.False(t, errors.IsDecodeError(err))
	})

	t.Run("non-JSON acknowledgement", func(t *testing.T) {
		srv := testutils.NewFakeServer(t)
		srv.SetAck("<html>ok</html>")
		c := client.New(config.NewTestConfig(srv.URL))

		_, err := c.Save(context.Background(), pngImage(t))
		require.Error(t, err)
		assert.True(t, errors.IsDecodeError(err))
		assert.True(t, errors.IsServerUnreachable(err))
	})

	t.Run("server error status", func(t *testing.T) {
		srv := testutils.NewFakeServer(t)
		srv.SetStatus(http.StatusInternalServerError)
		srv.SetAck(`{"message":"disk full"}`)
		c := client.New(config.NewTestConfig(srv.URL))

		_, err := c.Save(context.Background(), pngImage(t))
		require.Error(t, err)
		assert.True(t, errors.IsServerUnreachable(err))

		var te *errors.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusInternalServerError, te.Status())
		assert.Equal(t, "disk full", te.Detail())
		assert.Equal(t, "The image server rejected the request (status 500): disk full", errors.UserMessage(err))
	})

	t.Run("missing file", func(t *testing.T) {
		srv := testutils.NewFakeServer(t)
		c := client.New(config.NewTestConfig(srv.URL))

		_, err := c.Save(context.Background(), types.LocalImage{Path: filepath.Join(t.TempDir(), "gone.png"), Name: "gone.png"})
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
		assert.Equal(t, 0, srv.Hits())
	})
}

func TestList(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	srv.SetImages(
		types.RemoteImage{Name: "a.png", Path: "/imgs/a.png"},
		types.RemoteImage{Name: "b.png", Path: "/imgs/b.png"},
	)
	c := client.New(config.NewTestConfig(srv.URL))

	images, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.RemoteImage{
		{Name: "a.png", Path: "/imgs/a.png"},
		{Name: "b.png", Path: "/imgs/b.png"},
	}, images)

	t.Run("null listing is empty", func(t *testing.T) {
		srv.SetListBody("null")
		images, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, images)
		assert.NotNil(t, images)
	})

	t.Run("object instead of array", func(t *testing.T) {
		srv.SetListBody(`{"images":[]}`)
		_, err := c.List(context.Background())
		assert.True(t, errors.IsDecodeError(err))
	})
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:8000", "/imgs/a.png", "http://localhost:8000/imgs/a.png"},
		{"http://localhost:8000/", "imgs/a.png", "http://localhost:8000/imgs/a.png"},
		{"http://localhost:8000/api", "imgs/a.png", "http://localhost:8000/api/imgs/a.png"},
		{"http://localhost:8000", "https://cdn.example/a.png", "https://cdn.example/a.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, client.ResolveImageURL(tt.base, tt.path), tt.path)
	}
}
