package shell

import (
	"testing"
	"time"

	"github.com/marcus/treeside/internal/views"
)

func TestWaitGone_AbsentResolvesImmediately(t *testing.T) {
	doc := NewDocument("file:///tmp")
	select {
	case <-doc.WaitGone(ProgressiveLoader):
	default:
		t.Fatal("wait on an absent fragment should already be resolved")
	}
	if n := doc.observerCount(); n != 0 {
		t.Errorf("observers = %d, want 0", n)
	}
}

func TestWaitGone_ResolvesOnRemovalAndDisconnects(t *testing.T) {
	doc := NewDocument("file:///tmp")
	doc.AddFragment(ProgressiveLoader)

	done := doc.WaitGone(ProgressiveLoader)
	doc.AddFragment("unrelated")
	select {
	case <-done:
		t.Fatal("resolved while the fragment is still present")
	default:
	}

	doc.RemoveFragment(ProgressiveLoader)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not resolve after removal")
	}
	if n := doc.observerCount(); n != 0 {
		t.Errorf("observer still connected after resolving (%d)", n)
	}

	// A later reappearance does not affect the resolved wait.
	doc.AddFragment(ProgressiveLoader)
	doc.RemoveFragment(ProgressiveLoader)
}

func TestMarginNeverNegative(t *testing.T) {
	doc := NewDocument("")
	doc.SetMargin(-4)
	if got := doc.Margin(); got != 0 {
		t.Errorf("Margin() = %d, want 0", got)
	}
}

func TestSidebarWidthClamped(t *testing.T) {
	s := New(NewDocument(""), 5, 20, 60)
	if got := s.Sidebar.Width(); got != 20 {
		t.Errorf("width = %d, want clamped 20", got)
	}
	if !s.Sidebar.Resize(10) {
		t.Error("Resize(+10) should change the width")
	}
	s.Sidebar.SetWidth(60)
	if s.Sidebar.Resize(1) {
		t.Error("Resize past max should report no change")
	}
}

func TestFlipSidebar(t *testing.T) {
	s := New(NewDocument(""), 30, 0, 0)
	if s.SidebarVisible() {
		t.Fatal("sidebar starts hidden")
	}
	if !s.FlipSidebar() || !s.SidebarVisible() {
		t.Error("flip should show the sidebar")
	}
	if s.FlipSidebar() {
		t.Error("second flip should hide it")
	}
}

func TestPanels_OneCurrent(t *testing.T) {
	p := NewPanels(views.Tree, views.Options, views.Error)
	if p.Current() != views.None {
		t.Fatalf("Current() = %v before any show", p.Current())
	}
	p.Show(views.Error)
	p.Show(views.Options)
	if p.Current() != views.Options {
		t.Errorf("Current() = %v, want options", p.Current())
	}
	marked := 0
	for _, r := range p.Roots() {
		if p.current[r] {
			marked++
		}
	}
	if marked != 1 {
		t.Errorf("%d panels marked current, want 1", marked)
	}
	p.Show(views.Help)
	if p.Current() != views.Options {
		t.Errorf("showing the help overlay changed the current panel to %v", p.Current())
	}
}
