package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgbench/internal/config"
	"imgbench/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
server:
  base_url: "http://images.local:9000/"
  list_path: "/api/images"
  timeout: 5s
picker:
  start_dir: "/home/test/Pictures"
  accept: ["*.png", "*.{jpg,jpeg}"]
watch:
  directories: ["/home/test/Screenshots"]
  auto_upload: true
  settle: 2s
theme:
  name: dark
`
	invalidSyntaxYAML = `
server:
  base_url: "http://localhost
picker: [
`
	invalidURLYAML = `
server:
  base_url: "ftp://localhost"
`
	invalidGlobYAML = `
picker:
  accept: ["*.{png"]
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)

		assert.Equal(t, "http://images.local:9000/", cfg.Server.BaseURL)
		assert.Equal(t, "/image-save", cfg.Server.SavePath, "unset fields keep defaults")
		assert.Equal(t, "/api/images", cfg.Server.ListPath)
		assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
		assert.Equal(t, []string{"*.png", "*.{jpg,jpeg}"}, cfg.Picker.Accept)
		assert.Equal(t, []string{"/home/test/Screenshots"}, cfg.Watch.Directories)
		assert.Equal(t, 2*time.Second, cfg.Watch.Settle)
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, "105", cfg.Theme.Primary)

		assert.Equal(t, "http://images.local:9000/image-save", cfg.SaveURL())
		assert.Equal(t, "http://images.local:9000/api/images", cfg.ListURL())
	})

	t.Run("auto upload keeps its default unless set", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "watch:\n  settle: 1s\n"))
		require.NoError(t, err)
		assert.True(t, cfg.Watch.AutoUpload)

		cfg, err = config.LoadConfigFile(createTestYAML(t, "watch:\n  auto_upload: false\n"))
		require.NoError(t, err)
		assert.False(t, cfg.Watch.AutoUpload)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err, "a missing file falls back to defaults")

		defaults := config.New()
		assert.Equal(t, defaults.Server, cfg.Server)
		assert.Equal(t, "http://localhost:8000/image-save", cfg.SaveURL())
		assert.Equal(t, "http://localhost:8000/images", cfg.ListURL())
	})

	t.Run("invalid YAML syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
	})

	t.Run("invalid server url", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidURLYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.True(t, errors.IsInvalidConfig(err))

		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "server.base_url", ce.Param())
	})

	t.Run("invalid accept glob", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidGlobYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IMGBENCH_SERVER_BASE_URL", "https://override.example")
	t.Setenv("IMGBENCH_SERVER_TIMEOUT", "3s")
	t.Setenv("IMGBENCH_LOG_DEBUG", "true")

	cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "/api/images", cfg.Server.ListPath, "file values without env override survive")
}

func TestValidate(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Server.SavePath = "image-save"
	assert.Error(t, cfg.Validate())

	cfg = config.New()
	cfg.Server.Timeout = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = config.New()
	cfg.Watch.Directories = []string{""}
	assert.Error(t, cfg.Validate())

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.NewTestConfig("http://127.0.0.1:8080")
	cfg.Picker.Accept = []string{"*.png"}
	cfg.Server.Timeout = 10 * time.Second
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", loaded.Server.BaseURL)
	assert.Equal(t, []string{"*.png"}, loaded.Picker.Accept)
	assert.Equal(t, 10*time.Second, loaded.Server.Timeout)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))

	cfg := config.New()
	cfg.ApplyTheme("light")
	assert.Equal(t, "light", cfg.Theme.Name)
	assert.Equal(t, "135", cfg.Theme.Primary)
	assert.Contains(t, config.ListThemes(), "monochrome")
}
