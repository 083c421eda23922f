package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestMaxLineWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"single", []string{"hello"}, 5},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"wide runes", []string{"日本"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxLineWidth(tt.lines); got != tt.want {
				t.Errorf("maxLineWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlayModal_Centered(t *testing.T) {
	bg := strings.Repeat("..........\n", 5)
	out := OverlayModal(strings.TrimSuffix(bg, "\n"), "[M]", 10, 5)

	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	row := ansi.Strip(lines[2])
	if !strings.Contains(row, "[M]") {
		t.Errorf("middle row %q missing modal", row)
	}
	if idx := strings.Index(row, "[M]"); idx != 3 {
		t.Errorf("modal at column %d, want 3", idx)
	}
}

func TestOverlayLeft(t *testing.T) {
	bg := "abcdefghij\nabcdefghij\nabcdefghij"
	out := OverlayLeft(bg, "XY\nZ", 4, 10, 3)

	want := []string{"XY  efghij", "Z   efghij", "    efghij"}
	lines := strings.Split(out, "\n")
	for i, w := range want {
		if got := ansi.Strip(lines[i]); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestOverlayLeft_TruncatesPanel(t *testing.T) {
	out := OverlayLeft("0123456789", "ABCDEFG", 3, 10, 1)
	if got := ansi.Strip(out); got != "ABC3456789" {
		t.Errorf("got %q", got)
	}
}

func TestRenderScrollbar(t *testing.T) {
	if got := RenderScrollbar(3, 0, 5); strings.TrimSpace(got) != "" {
		t.Errorf("fitting content should render blank track, got %q", got)
	}
	bar := strings.Split(ansi.Strip(RenderScrollbar(100, 90, 10)), "\n")
	if len(bar) != 10 {
		t.Fatalf("got %d rows", len(bar))
	}
	if bar[9] != "┃" {
		t.Errorf("thumb should reach the bottom near the end, got %v", bar)
	}
	if RenderScrollbar(10, 0, 0) != "" {
		t.Error("zero height should render nothing")
	}
}
