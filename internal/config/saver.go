package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Store   StoreConfig      `json:"store"`
	GitHub  saveGitHubConfig `json:"github"`
	Local   saveLocalConfig  `json:"local"`
	Plugins PluginsConfig    `json:"plugins"`
	Keymap  KeymapConfig     `json:"keymap"`
	UI      UIConfig         `json:"ui"`
}

type saveGitHubConfig struct {
	APIURL            string  `json:"apiURL"`
	Timeout           string  `json:"timeout"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

type saveLocalConfig struct {
	Debounce string `json:"debounce"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Store: cfg.Store,
		GitHub: saveGitHubConfig{
			APIURL:            cfg.GitHub.APIURL,
			Timeout:           cfg.GitHub.Timeout.String(),
			RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		},
		Local: saveLocalConfig{
			Debounce: cfg.Local.Debounce.String(),
		},
		Plugins: cfg.Plugins,
		Keymap:  cfg.Keymap,
		UI:      cfg.UI,
	}
}

// Save writes cfg to path, or to ~/.config/treeside/config.json when path
// is empty. Top-level keys treeside does not manage are kept.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// An unreadable file is overwritten rather than blocking the save.
		_ = json.Unmarshal(existing, &merged)
		if merged == nil {
			merged = make(map[string]json.RawMessage)
		}
	}

	data, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var managed map[string]json.RawMessage
	if err := json.Unmarshal(data, &managed); err != nil {
		return err
	}
	for k, v := range managed {
		merged[k] = v
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
