// Package filter hides tree entries matching the hidden-patterns setting.
package filter

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/settings"
)

const (
	pluginID   = "filter"
	pluginName = "Hidden files"
)

// Plugin implements plugin.Plugin.
type Plugin struct {
	mu       sync.RWMutex
	patterns []string
	invalid  []string
	logger   *slog.Logger
}

// New creates the filter plugin.
func New() *Plugin { return &Plugin{logger: slog.Default()} }

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return pluginID }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return pluginName }

// Activate implements plugin.Plugin.
func (p *Plugin) Activate(_ context.Context, pc *plugin.Context) error {
	if pc.Logger != nil {
		p.logger = pc.Logger
	}
	p.set(settings.String(pc.Store, settings.HiddenPatterns))
	if pc.TreeView != nil {
		pc.TreeView.SetFilter(p.Hidden)
	}
	return nil
}

// ApplyOptions implements plugin.Plugin. A pattern change needs a reload
// so the tree is rebuilt without the hidden entries.
func (p *Plugin) ApplyOptions(_ context.Context, changes settings.Changes) (bool, error) {
	c, ok := changes[settings.HiddenPatterns]
	if !ok {
		return false, nil
	}
	s, _ := c.New().(string)
	p.set(s)
	return true, nil
}

// Hidden reports whether the slash-separated path p matches a pattern,
// either as a whole or by its last element.
func (p *Plugin) Hidden(rel string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	base := path.Base(rel)
	for _, pat := range p.patterns {
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// Diagnostics implements plugin.DiagnosticProvider.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.invalid) == 0 {
		return nil
	}
	return []plugin.Diagnostic{{
		ID:     pluginID,
		Status: "warning",
		Detail: "invalid patterns ignored: " + strings.Join(p.invalid, ", "),
	}}
}

// ParsePatterns splits a setting value on newlines and commas.
func ParsePatterns(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == ',' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.TrimSuffix(f, "/"))
		}
	}
	return out
}

func (p *Plugin) set(s string) {
	var valid, invalid []string
	for _, pat := range ParsePatterns(s) {
		if _, err := path.Match(pat, ""); err != nil {
			invalid = append(invalid, pat)
			continue
		}
		valid = append(valid, pat)
	}
	if len(invalid) > 0 {
		p.logger.Warn("filter: invalid patterns", "patterns", invalid)
	}
	p.mu.Lock()
	p.patterns, p.invalid = valid, invalid
	p.mu.Unlock()
}
