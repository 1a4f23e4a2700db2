package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imgbench/internal/errors"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. IMGBENCH_SERVER_BASE_URL.
const EnvPrefix = "IMGBENCH"

// Config represents the application configuration structure.
type Config struct {
	Server struct {
		BaseURL  string        `yaml:"base_url"`  // Root of the image server
		SavePath string        `yaml:"save_path"` // Upload endpoint, relative to base_url
		ListPath string        `yaml:"list_path"` // Listing endpoint, relative to base_url
		Timeout  time.Duration `yaml:"timeout"`   // 0 means no timeout
	} `yaml:"server"`
	Picker struct {
		StartDir   string   `yaml:"start_dir"`   // Directory the file picker opens in
		Accept     []string `yaml:"accept"`      // Glob patterns a picked file name must match
		ShowHidden bool     `yaml:"show_hidden"` // Show dot files in the picker
	} `yaml:"picker"`
	Watch struct {
		Directories []string      `yaml:"directories"` // Directories watched for new images
		AutoUpload  bool          `yaml:"auto_upload"` // Upload images as they appear
		Settle      time.Duration `yaml:"settle"`      // Wait after the last write before uploading
	} `yaml:"watch"`
	Log struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"` // Where the TUI writes its log
	} `yaml:"log"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/imgbench/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imgbench", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path, then applies
// environment overrides. If the file doesn't exist, defaults are used.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err == nil {
		// Unmarshal into a temporary config to preserve defaults for unset fields
		var tempCfg Config
		if err := yaml.Unmarshal(data, &tempCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		cfg.merge(&tempCfg)

		// auto_upload defaults to true, so only an explicit value may change it.
		var explicit struct {
			Watch struct {
				AutoUpload *bool `yaml:"auto_upload"`
			} `yaml:"watch"`
		}
		if err := yaml.Unmarshal(data, &explicit); err == nil && explicit.Watch.AutoUpload != nil {
			cfg.Watch.AutoUpload = *explicit.Watch.AutoUpload
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Server.BaseURL != "" {
		c.Server.BaseURL = o.Server.BaseURL
	}
	if o.Server.SavePath != "" {
		c.Server.SavePath = o.Server.SavePath
	}
	if o.Server.ListPath != "" {
		c.Server.ListPath = o.Server.ListPath
	}
	c.Server.Timeout = o.Server.Timeout

	if o.Picker.StartDir != "" {
		c.Picker.StartDir = o.Picker.StartDir
	}
	if len(o.Picker.Accept) > 0 {
		c.Picker.Accept = o.Picker.Accept
	}
	c.Picker.ShowHidden = o.Picker.ShowHidden

	if len(o.Watch.Directories) > 0 {
		c.Watch.Directories = o.Watch.Directories
	}
	if o.Watch.Settle > 0 {
		c.Watch.Settle = o.Watch.Settle
	}

	c.Log.Debug = o.Log.Debug
	c.Log.JSON = o.Log.JSON
	if o.Log.File != "" {
		c.Log.File = o.Log.File
	}

	if o.Theme.Name != "" {
		c.ApplyTheme(o.Theme.Name)
	}
	overrideColor(&c.Theme.Primary, o.Theme.Primary)
	overrideColor(&c.Theme.Success, o.Theme.Success)
	overrideColor(&c.Theme.Warning, o.Theme.Warning)
	overrideColor(&c.Theme.Error, o.Theme.Error)
	overrideColor(&c.Theme.Info, o.Theme.Info)
	overrideColor(&c.Theme.Emphasis, o.Theme.Emphasis)
	overrideColor(&c.Theme.Border, o.Theme.Border)
}

func overrideColor(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ApplyEnv overrides settings from IMGBENCH_* environment variables.
func (c *Config) ApplyEnv() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("server.base_url"); s != "" {
		c.Server.BaseURL = s
	}
	if s := v.GetString("server.save_path"); s != "" {
		c.Server.SavePath = s
	}
	if s := v.GetString("server.list_path"); s != "" {
		c.Server.ListPath = s
	}
	if v.IsSet("server.timeout") {
		c.Server.Timeout = v.GetDuration("server.timeout")
	}
	if s := v.GetString("picker.start_dir"); s != "" {
		c.Picker.StartDir = s
	}
	if v.IsSet("log.debug") {
		c.Log.Debug = v.GetBool("log.debug")
	}
	if v.IsSet("log.json") {
		c.Log.JSON = v.GetBool("log.json")
	}
	if s := v.GetString("log.file"); s != "" {
		c.Log.File = s
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.BaseURL = "http://localhost:8000"
	cfg.Server.SavePath = "/image-save"
	cfg.Server.ListPath = "/images"
	cfg.Server.Timeout = 0

	cfg.Picker.StartDir = "."
	cfg.Picker.Accept = []string{"*"}
	cfg.Picker.ShowHidden = false

	cfg.Watch.Directories = []string{}
	cfg.Watch.AutoUpload = true
	cfg.Watch.Settle = 500 * time.Millisecond

	cfg.Log.File = filepath.Join(os.TempDir(), "imgbench.log")

	cfg.ApplyTheme("default")
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return errors.NewConfigError("invalid server url", "server.base_url", errors.InvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewConfigError("server url must be http or https", "server.base_url", errors.InvalidConfig, nil)
	}
	if u.Host == "" {
		return errors.NewConfigError("server url has no host", "server.base_url", errors.InvalidConfig, nil)
	}

	for param, p := range map[string]string{"server.save_path": c.Server.SavePath, "server.list_path": c.Server.ListPath} {
		if !strings.HasPrefix(p, "/") {
			return errors.NewConfigError("endpoint path must start with /", param, errors.InvalidConfig, nil)
		}
	}

	if c.Server.Timeout < 0 {
		return errors.NewConfigError("timeout must be >= 0", "server.timeout", errors.InvalidConfig, nil)
	}
	if c.Watch.Settle < 0 {
		return errors.NewConfigError("settle must be >= 0", "watch.settle", errors.InvalidConfig, nil)
	}

	for i, pattern := range c.Picker.Accept {
		if pattern == "" {
			return errors.NewConfigError(fmt.Sprintf("accept pattern %d is empty", i), "picker.accept", errors.InvalidConfig, nil)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("accept pattern %q", pattern), "picker.accept", errors.InvalidConfig, err)
		}
	}

	for _, dir := range c.Watch.Directories {
		if dir == "" {
			return errors.NewConfigError("watch directory cannot be empty", "watch.directories", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// New returns a configuration with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration pointing at a test server.
func NewTestConfig(baseURL string) *Config {
	cfg := defaultConfig()
	cfg.Server.BaseURL = baseURL
	cfg.Watch.Settle = 10 * time.Millisecond
	return cfg
}

// SaveURL is the absolute URL of the upload endpoint.
func (c *Config) SaveURL() string {
	return joinURL(c.Server.BaseURL, c.Server.SavePath)
}

// ListURL is the absolute URL of the listing endpoint.
func (c *Config) ListURL() string {
	return joinURL(c.Server.BaseURL, c.Server.ListPath)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme colours from a named preset.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
