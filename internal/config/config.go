package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Store   StoreConfig   `json:"store"`
	GitHub  GitHubConfig  `json:"github"`
	Local   LocalConfig   `json:"local"`
	Plugins PluginsConfig `json:"plugins"`
	Keymap  KeymapConfig  `json:"keymap"`
	UI      UIConfig      `json:"ui"`
}

// StoreConfig locates the settings database.
type StoreConfig struct {
	Path string `json:"path"`
}

// GitHubConfig configures the GitHub API client.
type GitHubConfig struct {
	APIURL            string        `json:"apiURL"`
	Timeout           time.Duration `json:"timeout"`
	RequestsPerSecond float64       `json:"requestsPerSecond"`
}

// LocalConfig configures the local checkout adapter.
type LocalConfig struct {
	Debounce time.Duration `json:"debounce"` // HEAD watcher debounce
}

// PluginsConfig holds per-plugin configuration.
type PluginsConfig struct {
	Clipboard PluginConfig `json:"clipboard"`
	Filter    PluginConfig `json:"filter"`
	Watch     PluginConfig `json:"watch"`
}

// PluginConfig enables or disables a built-in plugin.
type PluginConfig struct {
	Enabled bool `json:"enabled"`
}

// KeymapConfig holds key binding overrides, keyed "context:key" or "key"
// for the global context. An empty command disables the key.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	MinWidth int               `json:"minWidth"`
	MaxWidth int               `json:"maxWidth"`
	Theme    string            `json:"theme"`
	Colors   map[string]string `json:"colors,omitempty"` // palette overrides
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "~/.config/treeside/settings.db",
		},
		GitHub: GitHubConfig{
			APIURL:            "https://api.github.com",
			Timeout:           20 * time.Second,
			RequestsPerSecond: 5,
		},
		Local: LocalConfig{
			Debounce: 150 * time.Millisecond,
		},
		Plugins: PluginsConfig{
			Clipboard: PluginConfig{Enabled: true},
			Filter:    PluginConfig{Enabled: true},
			Watch:     PluginConfig{Enabled: true},
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			MinWidth: 20,
			MaxWidth: 80,
			Theme:    "default",
			Colors:   make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors, resetting out-of-range
// values to their defaults.
func (c *Config) Validate() error {
	def := Default()
	if c.GitHub.Timeout <= 0 {
		c.GitHub.Timeout = def.GitHub.Timeout
	}
	if c.GitHub.RequestsPerSecond <= 0 {
		c.GitHub.RequestsPerSecond = def.GitHub.RequestsPerSecond
	}
	if c.Local.Debounce < 0 {
		c.Local.Debounce = def.Local.Debounce
	}
	if c.UI.MinWidth <= 0 {
		c.UI.MinWidth = def.UI.MinWidth
	}
	if c.UI.MaxWidth < c.UI.MinWidth {
		c.UI.MaxWidth = max(def.UI.MaxWidth, c.UI.MinWidth)
	}
	return nil
}
