// Package options is the settings panel. Saving writes the changed keys to
// the store and reports them as one change set.
package options

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/huh"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/views"
)

// values are the form-bound copies of the editable settings.
type values struct {
	token      string
	hotkeys    string
	enterprise string
	hidden     string
	loadAll    bool
	icons      bool
	prs        bool
	remember   bool
	watch      bool
}

func (v *values) fields() map[settings.Key]settings.Value {
	return map[settings.Key]settings.Value{
		settings.Token:          v.token,
		settings.Hotkeys:        v.hotkeys,
		settings.EnterpriseURLs: v.enterprise,
		settings.HiddenPatterns: v.hidden,
		settings.LoadAll:        v.loadAll,
		settings.Icons:          v.icons,
		settings.PullRequests:   v.prs,
		settings.Remember:       v.remember,
		settings.WatchRepo:      v.watch,
	}
}

func read(s settings.Store) *values {
	return &values{
		token:      settings.String(s, settings.Token),
		hotkeys:    settings.String(s, settings.Hotkeys),
		enterprise: settings.String(s, settings.EnterpriseURLs),
		hidden:     settings.String(s, settings.HiddenPatterns),
		loadAll:    settings.Bool(s, settings.LoadAll),
		icons:      settings.Bool(s, settings.Icons),
		prs:        settings.Bool(s, settings.PullRequests),
		remember:   settings.Bool(s, settings.Remember),
		watch:      settings.Bool(s, settings.WatchRepo),
	}
}

// savedMsg reports the outcome of persisting a change set.
type savedMsg struct {
	changes settings.Changes
	err     error
}

// Model is the options panel.
type Model struct {
	store  settings.Store
	logger *slog.Logger

	form   *huh.Form
	values *values
	saving bool
}

// New creates the options panel.
func New(store settings.Store, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{store: store, logger: logger}
}

// ID implements views.Panel.
func (m *Model) ID() views.ID { return views.Options }

// IsOpen reports whether the form is being edited.
func (m *Model) IsOpen() bool { return m.form != nil }

// Open loads the current settings into a fresh form and reports the panel
// ready.
func (m *Model) Open() tea.Cmd {
	m.values = read(m.store)
	m.saving = false
	m.form = newForm(m.values)
	return tea.Batch(m.form.Init(), event.Ready(views.Options))
}

func newForm(v *values) *huh.Form {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access token").
				Description("Raises API limits and unlocks private repositories").
				EchoMode(huh.EchoModePassword).
				Value(&v.token),
			huh.NewInput().
				Title("Toggle hotkeys").
				Description("Comma separated, e.g. ctrl+b,alt+b").
				Value(&v.hotkeys).
				Validate(func(s string) error {
					if len(keymap.ParseCombo(s)) == 0 {
						return errors.New("at least one key is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Enterprise URLs").
				Description("One origin per line; takes effect on restart").
				Lines(3).
				Value(&v.enterprise),
			huh.NewText().
				Title("Hidden patterns").
				Description("Glob patterns, one per line").
				Lines(3).
				Value(&v.hidden),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Load entire tree at once").Value(&v.loadAll),
			huh.NewConfirm().Title("Show file icons").Value(&v.icons),
			huh.NewConfirm().Title("Show pull request changes").Value(&v.prs),
			huh.NewConfirm().Title("Remember sidebar visibility").Value(&v.remember),
			huh.NewConfirm().Title("Follow local branch switches").Value(&v.watch),
		),
	).WithShowHelp(true)
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return form
}

// Close discards the form and reports the panel closed.
func (m *Model) Close() tea.Cmd {
	m.form = nil
	m.values = nil
	return event.Closed(views.Options)
}

// Update implements views.Panel.
func (m *Model) Update(message tea.Msg) tea.Cmd {
	if saved, ok := message.(savedMsg); ok {
		m.saving = false
		if saved.err != nil {
			m.form = nil
			return event.Failed(views.Options, saved.err)
		}
		return tea.Sequence(m.finished(saved.changes)...)
	}
	if m.form == nil || m.saving {
		return nil
	}
	if key, ok := message.(tea.KeyMsg); ok && key.String() == "esc" {
		return m.Close()
	}

	model, cmd := m.form.Update(message)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		return m.Close()
	}
	return cmd
}

// submit persists every key whose value differs from the store.
func (m *Model) submit() tea.Cmd {
	m.saving = true
	changes := diff(m.store, m.values.fields())
	store := m.store
	return func() tea.Msg {
		ctx := context.Background()
		for k, c := range changes {
			if err := store.Set(ctx, k, c.New()); err != nil {
				return savedMsg{err: fmt.Errorf("save %s: %w", k, err)}
			}
		}
		return savedMsg{changes: changes}
	}
}

// diff compares edited values with the store.
func diff(s settings.Store, edited map[settings.Key]settings.Value) settings.Changes {
	changes := settings.Changes{}
	for k, v := range edited {
		if old := s.Get(k); old != v {
			changes[k] = settings.Change{old, v}
		}
	}
	return changes
}

// finished reports the saved change set and then closes the panel. An
// empty change set only closes.
func (m *Model) finished(changes settings.Changes) []tea.Cmd {
	m.form = nil
	m.values = nil
	var cmds []tea.Cmd
	if len(changes) > 0 {
		cmds = append(cmds, event.Emit(event.Event{Kind: event.OptionsChanged, View: views.Options, Changes: changes}))
	}
	return append(cmds, event.Closed(views.Options))
}

// View implements views.Panel.
func (m *Model) View(width, height int) string {
	if m.form == nil {
		return ""
	}
	if m.saving {
		return "Saving…"
	}
	return m.form.WithWidth(width).WithHeight(height).View()
}
