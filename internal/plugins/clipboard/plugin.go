// Package clipboard copies the selected tree path or its page URL to the
// system clipboard.
package clipboard

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/msg"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/settings"
)

const (
	pluginID   = "clipboard"
	pluginName = "Clipboard"

	toastDuration = 2 * time.Second
)

// Plugin implements plugin.Plugin.
type Plugin struct {
	tree  plugin.TreeView
	write func(string) error
}

// New creates the clipboard plugin.
func New() *Plugin {
	return &Plugin{write: clipboard.WriteAll}
}

// ID implements plugin.Plugin.
func (p *Plugin) ID() string { return pluginID }

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return pluginName }

// Activate implements plugin.Plugin.
func (p *Plugin) Activate(_ context.Context, pc *plugin.Context) error {
	p.tree = pc.TreeView
	return nil
}

// ApplyOptions implements plugin.Plugin.
func (p *Plugin) ApplyOptions(context.Context, settings.Changes) (bool, error) {
	return false, nil
}

// HandleCommand implements plugin.CommandHandler.
func (p *Plugin) HandleCommand(name string) (tea.Cmd, bool) {
	if p.tree == nil {
		return nil, false
	}
	var text string
	switch name {
	case "yank":
		item, ok := p.tree.Selected()
		if !ok {
			return nil, true
		}
		text = item.Path
	case "yank-url":
		text = p.tree.SelectedURL()
		if text == "" {
			return nil, true
		}
	default:
		return nil, false
	}
	if err := p.write(text); err != nil {
		return msg.ShowError("Failed to copy", toastDuration), true
	}
	return msg.ShowToast("Copied: "+text, toastDuration), true
}
