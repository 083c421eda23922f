package errorview

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/views"
)

func TestShowEmitsReady(t *testing.T) {
	m := New()
	cmd := m.Show(adapter.StatusError(401, errors.New("bad credentials")))

	ev, ok := cmd().(event.Event)
	if !ok || ev.Kind != event.ViewReady || ev.View != views.Error {
		t.Fatalf("Show() = %+v, want error ready", ev)
	}
	if m.Title() != "Invalid token" {
		t.Errorf("Title() = %q", m.Title())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
		wantMsg   string
	}{
		{"adapter error", &adapter.Error{Title: "Missing", Message: "gone"}, "Missing", "gone"},
		{"wrapped adapter error", errors.Join(errors.New("x"), &adapter.Error{Title: "T", Message: "M"}), "T", "M"},
		{"plain error", errors.New("boom"), "Error", "boom"},
		{"nil", nil, "Error", "Something went wrong."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, msg, _ := describe(tt.err)
			if title != tt.wantTitle || msg != tt.wantMsg {
				t.Errorf("describe() = %q, %q; want %q, %q", title, msg, tt.wantTitle, tt.wantMsg)
			}
		})
	}
}

func TestRetryPostsForceReload(t *testing.T) {
	m := New()
	ev, ok := m.Command("retry")().(event.Event)
	if !ok || ev.Kind != event.ForceReload {
		t.Errorf("retry = %+v", ev)
	}
	if m.Command("other") != nil {
		t.Error("unknown command produced a cmd")
	}
}

func TestView(t *testing.T) {
	m := New()
	m.Show(adapter.StatusError(404, errors.New("not found")))
	out := ansi.Strip(m.View(30, 20))
	if !strings.Contains(out, "Private or missing repository") {
		t.Errorf("view missing title:\n%s", out)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("view missing detail:\n%s", out)
	}
	if got := len(strings.Split(m.View(30, 3), "\n")); got != 3 {
		t.Errorf("view clipped to %d lines, want 3", got)
	}
}
