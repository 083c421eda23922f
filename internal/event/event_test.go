package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marcus/treeside/internal/views"
)

func TestKindString(t *testing.T) {
	if got := ForceReload.String(); got != "force-reload" {
		t.Errorf("ForceReload.String() = %q", got)
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q, want unknown", got)
	}
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{RequestStart, true},
		{RequestEnd, true},
		{LayoutChange, true},
		{Toggle, true},
		{LocationChange, true},
		{ForceReload, true},
		{ViewReady, false},
		{Hotkey, false},
		{Resize, false},
		{SidebarResized, false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsDocument(); got != tt.want {
			t.Errorf("%s.IsDocument() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	ev := Ready(views.Tree)().(Event)
	if ev.Kind != ViewReady || ev.View != views.Tree {
		t.Errorf("Ready = %+v", ev)
	}
	boom := errors.New("boom")
	ev = Failed(views.Tree, boom)().(Event)
	if ev.Kind != FetchError || !errors.Is(ev.Err, boom) {
		t.Errorf("Failed = %+v", ev)
	}
}

func TestBus_PostListen(t *testing.T) {
	b := NewBus(2)
	defer b.Close()

	if !b.Post(Event{Kind: LocationChange, Location: "file:///tmp"}) {
		t.Fatal("Post on open bus returned false")
	}
	msg := b.Listen()()
	posted, ok := msg.(Posted)
	if !ok {
		t.Fatalf("Listen returned %T, want Posted", msg)
	}
	if posted.Event.Kind != LocationChange || posted.Event.Location != "file:///tmp" {
		t.Errorf("unexpected event %+v", posted.Event)
	}
}

func TestBus_Close(t *testing.T) {
	b := NewBus(1)
	done := make(chan any)
	go func() { done <- b.Listen()() }()

	b.Close()
	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("listener after close got %v, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not return after Close")
	}
	if b.Post(Event{Kind: Toggle}) {
		t.Error("Post after Close should return false")
	}
}

func TestBus_PostContextGivesUpOnFullBus(t *testing.T) {
	b := NewBus(1)
	defer b.Close()
	if !b.Post(Event{Kind: Toggle}) {
		t.Fatal("Post on open bus returned false")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() { done <- b.PostContext(ctx, Event{Kind: LocationChange}) }()
	cancel()
	select {
	case ok := <-done:
		if ok {
			t.Error("PostContext should fail once its context is done")
		}
	case <-time.After(time.Second):
		t.Fatal("PostContext did not return after cancel")
	}
}
