package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/workbench"
	"imgbench/pkg/testutils"
	"imgbench/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against server with a throwaway config.
func execute(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	full := append([]string{"--config", cfgPath}, args...)
	if server != "" {
		full = append(full, "--server", server)
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return testutils.StripANSI(out.String()), err
}

func TestUploadCommand(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	srv.SetAck(`{"message":"Image saved","id":7}`)
	path := testutils.CreateTestPNG(t, t.TempDir(), "cat.png")

	out, err := execute(t, srv.URL, "upload", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploading cat.png (image/png")
	assert.Contains(t, out, "4x3")
	assert.Contains(t, out, "Saved: Image saved")

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "cat.png", uploads[0].Filename)

	out, err = execute(t, srv.URL, "upload", "--raw", path)
	require.NoError(t, err)
	assert.Contains(t, out, `{"message":"Image saved","id":7}`)
}

func TestUploadCommandErrors(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"notes.txt": "hello"})
	srv := testutils.NewFakeServer(t)

	_, err := execute(t, srv.URL, "upload", filepath.Join(dir, "notes.txt"))
	assert.True(t, errors.IsNotAnImage(err))
	assert.Equal(t, 0, srv.Hits())

	png := testutils.CreateTestPNG(t, dir, "cat.png")
	_, err = execute(t, testutils.UnreachableURL(t), "upload", png)
	assert.True(t, errors.IsServerUnreachable(err))

	_, err = execute(t, srv.URL, "upload", "")
	assert.True(t, errors.IsNoFileSelected(err))
	assert.Equal(t, 0, srv.Hits())
}

func TestDescribeUploadWarnsOnPreviewFailure(t *testing.T) {
	wb, err := workbench.New(config.NewTestConfig(testutils.NewFakeServer(t).URL))
	require.NoError(t, err)

	path := testutils.CreateTestPNG(t, t.TempDir(), "cat.png")
	file, err := wb.PickPath(path)
	require.NoError(t, err)

	var out bytes.Buffer
	line := describeUpload(context.Background(), wb, &out, file)
	assert.True(t, strings.HasPrefix(line, "cat.png (image/png, "), line)
	assert.True(t, strings.HasSuffix(line, ") 4x3"), line)
	assert.Empty(t, out.String())

	// The file disappears between the pick and the preview.
	file, err = wb.PickPath(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	out.Reset()
	line = describeUpload(context.Background(), wb, &out, file)
	assert.Contains(t, line, "cat.png (image/png")
	assert.NotContains(t, line, "4x3")
	assert.Contains(t, testutils.StripANSI(out.String()),
		"Warning: The preview could not be rendered; you can still upload the file.")
	assert.False(t, wb.Snapshot().HasPreview())
}

func TestListCommand(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	out, err := execute(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No images on the server.")

	srv.SetImages(
		types.RemoteImage{Name: "a.png", Path: "/imgs/a.png"},
		types.RemoteImage{Name: "b.png", Path: "/imgs/b.png"},
	)
	out, err = execute(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "/imgs/b.png")

	out, err = execute(t, srv.URL, "list", "--json")
	require.NoError(t, err)
	var images []types.RemoteImage
	require.NoError(t, json.Unmarshal([]byte(out), &images))
	assert.Len(t, images, 2)
	assert.Equal(t, "a.png", images[0].Name)
}

func TestListCommandDecodeError(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	srv.SetListBody(`{"not":"a list"}`)

	_, err := execute(t, srv.URL, "list")
	assert.True(t, errors.IsDecodeError(err))
	assert.True(t, errors.IsServerUnreachable(err))
}

func TestViewCommand(t *testing.T) {
	srv := testutils.NewFakeServer(t)
	srv.SetImages(types.RemoteImage{Name: "a.png", Path: "/imgs/a.png"})

	out, err := execute(t, srv.URL, "view", "/imgs/a.png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/imgs/a.png\n", out)

	_, err = execute(t, srv.URL, "view", "/imgs/missing.png")
	assert.True(t, errors.IsNoSelection(err))
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "imgbench", "config.yaml")
	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := cmd.Execute()
		return testutils.StripANSI(out.String()), err
	}

	out, err := run("config", "init", "--theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+cfgPath)
	_, err = os.Stat(cfgPath)
	require.NoError(t, err)

	_, err = run("config", "init")
	assert.True(t, errors.IsInvalidConfig(err))

	_, err = run("config", "init", "--force")
	assert.NoError(t, err)

	out, err = run("--server", "http://images.example:9000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://images.example:9000")
	assert.Contains(t, out, "save_path: /image-save")
}

func TestInvalidServerFlag(t *testing.T) {
	_, err := execute(t, "ftp://nowhere", "list")
	assert.True(t, errors.IsInvalidConfig(err))
}
