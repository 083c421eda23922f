package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	configDir  = ".config/treeside"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Pointers and strings
// tell unset fields apart from zero values.
type rawConfig struct {
	Store   StoreConfig      `json:"store"`
	GitHub  rawGitHubConfig  `json:"github"`
	Local   rawLocalConfig   `json:"local"`
	Plugins rawPluginsConfig `json:"plugins"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      rawUIConfig      `json:"ui"`
}

type rawGitHubConfig struct {
	APIURL            string   `json:"apiURL"`
	Timeout           string   `json:"timeout"`
	RequestsPerSecond *float64 `json:"requestsPerSecond"`
}

type rawLocalConfig struct {
	Debounce string `json:"debounce"`
}

type rawPluginsConfig struct {
	Clipboard rawPluginConfig `json:"clipboard"`
	Filter    rawPluginConfig `json:"filter"`
	Watch     rawPluginConfig `json:"watch"`
}

type rawPluginConfig struct {
	Enabled *bool `json:"enabled"`
}

type rawUIConfig struct {
	MinWidth *int              `json:"minWidth"`
	MaxWidth *int              `json:"maxWidth"`
	Theme    string            `json:"theme"`
	Colors   map[string]string `json:"colors"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/treeside/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			cfg.Store.Path = ExpandPath(cfg.Store.Path)
			return cfg, nil // Return defaults on error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Store.Path = ExpandPath(cfg.Store.Path)
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)
	cfg.Store.Path = ExpandPath(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}

	// GitHub
	if raw.GitHub.APIURL != "" {
		cfg.GitHub.APIURL = strings.TrimRight(raw.GitHub.APIURL, "/")
	}
	if raw.GitHub.Timeout != "" {
		if d, err := time.ParseDuration(raw.GitHub.Timeout); err == nil {
			cfg.GitHub.Timeout = d
		}
	}
	if raw.GitHub.RequestsPerSecond != nil {
		cfg.GitHub.RequestsPerSecond = *raw.GitHub.RequestsPerSecond
	}

	// Local
	if raw.Local.Debounce != "" {
		if d, err := time.ParseDuration(raw.Local.Debounce); err == nil {
			cfg.Local.Debounce = d
		}
	}

	// Plugins
	mergePlugin(&cfg.Plugins.Clipboard, raw.Plugins.Clipboard)
	mergePlugin(&cfg.Plugins.Filter, raw.Plugins.Filter)
	mergePlugin(&cfg.Plugins.Watch, raw.Plugins.Watch)

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}

	// UI
	if raw.UI.MinWidth != nil {
		cfg.UI.MinWidth = *raw.UI.MinWidth
	}
	if raw.UI.MaxWidth != nil {
		cfg.UI.MaxWidth = *raw.UI.MaxWidth
	}
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
	for k, v := range raw.UI.Colors {
		cfg.UI.Colors[k] = v
	}
}

func mergePlugin(dst *PluginConfig, raw rawPluginConfig) {
	if raw.Enabled != nil {
		dst.Enabled = *raw.Enabled
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
