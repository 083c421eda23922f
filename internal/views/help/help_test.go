package help

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/keymap"
	"github.com/marcus/treeside/internal/settings"
)

func seeded(t *testing.T) *settings.MemoryStore {
	t.Helper()
	s := settings.NewMemory()
	if err := settings.SeedDefaults(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInitShowsOnceUntilSeen(t *testing.T) {
	s := seeded(t)
	m := New(s, nil, nil)

	m.Init()
	if !m.Visible() {
		t.Fatal("first Init should show the popup")
	}

	cmd := m.Dismiss()
	if cmd == nil {
		t.Fatal("Dismiss should persist")
	}
	m.Update(cmd())
	if !settings.Bool(s, settings.PopupSeen) {
		t.Error("dismissal not stored")
	}

	// Init is idempotent: it never reopens.
	m.Init()
	if m.Visible() {
		t.Error("second Init reopened the popup")
	}
}

func TestInitRespectsSeen(t *testing.T) {
	s := seeded(t)
	_ = s.Set(context.Background(), settings.PopupSeen, true)
	m := New(s, nil, nil)
	m.Init()
	if m.Visible() {
		t.Error("popup shown although already seen")
	}
	m.Open()
	if !m.Visible() {
		t.Error("Open should show the popup")
	}
	if m.Dismiss() != nil {
		t.Error("dismissing a seen popup should not persist again")
	}
}

func TestMarkdownListsKeys(t *testing.T) {
	m := New(seeded(t), keymap.NewRegistry(keymap.DefaultBindings()), nil)
	md := m.Markdown("ctrl+b, alt+b")
	for _, want := range []string{"`ctrl+b` or `alt+b`", "| `ctrl+r` | reload |", "| `j` | cursor-down |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestViewRendersWhenVisible(t *testing.T) {
	m := New(seeded(t), nil, nil)
	if m.View(40, 10) != "" {
		t.Error("hidden popup rendered")
	}
	m.Open()
	out := ansi.Strip(m.View(40, 5))
	if !strings.Contains(out, "treeside") {
		t.Errorf("view = %q", out)
	}
	if n := len(strings.Split(out, "\n")); n > 5 {
		t.Errorf("view has %d lines", n)
	}
}
