package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/shell"
)

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi\n"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0, 1, 2}, 0644)
	_ = os.Mkdir(filepath.Join(dir, "sub"), 0755)

	tests := []struct {
		name string
		path string
		kind Kind
	}{
		{"source", "main.go", KindText},
		{"markdown", "README.md", KindMarkdown},
		{"binary", "blob.bin", KindBinary},
		{"directory", "", KindDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := "file://" + filepath.ToSlash(filepath.Join(dir, tt.path))
			c, err := FileFetcher{}.Fetch(context.Background(), loc)
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if c.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.kind)
			}
		})
	}

	c, _ := FileFetcher{}.Fetch(context.Background(), "file://"+filepath.ToSlash(dir))
	if c.Body != "sub/\nREADME.md\nblob.bin\nmain.go" {
		t.Errorf("directory body = %q", c.Body)
	}
	if _, err := (FileFetcher{}).Fetch(context.Background(), "file:///does/not/exist"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestClassifyTruncates(t *testing.T) {
	c := classify("x", "big.txt", []byte(strings.Repeat("a", maxBytes+10)))
	if !c.Truncated || len(c.Body) != maxBytes {
		t.Errorf("Truncated = %v, len = %d", c.Truncated, len(c.Body))
	}
}

func TestWebFetcher_RawFile(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAuth = r.URL.Path, r.Header.Get("Authorization")
		_, _ = w.Write([]byte("package main\n"))
	}))
	defer srv.Close()

	f := &WebFetcher{Client: srv.Client(), Token: func() string { return "tok" }, RawBase: srv.URL}
	c, err := f.Fetch(context.Background(), "https://github.com/octo/tree/blob/main/cmd/main.go")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/octo/tree/main/cmd/main.go" {
		t.Errorf("raw path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if c.Kind != KindText || c.Name != "main.go" {
		t.Errorf("content = %+v", c)
	}
}

func TestWebFetcher_Summary(t *testing.T) {
	f := &WebFetcher{Client: http.DefaultClient}
	c, err := f.Fetch(context.Background(), "https://github.com/octo/tree/pull/7")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if c.Kind != KindSummary || !strings.Contains(c.Body, "Pull request #7") {
		t.Errorf("content = %+v", c)
	}
}

func TestWebFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	f := &WebFetcher{Client: srv.Client(), RawBase: srv.URL}
	if _, err := f.Fetch(context.Background(), "https://github.com/o/r/blob/main/x.go"); err == nil {
		t.Error("404 should fail")
	}
}

func TestNormalizeLocation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"https://github.com/o/r", "https://github.com/o/r"},
		{"github.com/o/r", "https://github.com/o/r"},
		{dir, "file://" + filepath.ToSlash(dir)},
	}
	for _, tt := range tests {
		if got := NormalizeLocation(tt.in); got != tt.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubFetcher struct {
	content Content
	err     error
}

func (s stubFetcher) Fetch(_ context.Context, location string) (Content, error) {
	c := s.content
	c.Location = location
	return c, s.err
}

func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	m := cmd()
	if batch, ok := m.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, messages(c)...)
		}
		return out
	}
	return []tea.Msg{m}
}

func split(msgs []tea.Msg) (fetched *fetchedMsg, events []event.Event) {
	for _, m := range msgs {
		switch m := m.(type) {
		case fetchedMsg:
			fetched = &m
		case event.Event:
			events = append(events, m)
		}
	}
	return fetched, events
}

func TestNavigate(t *testing.T) {
	doc := shell.NewDocument("file:///a")
	m := New(doc, stubFetcher{content: Content{Kind: KindText, Body: "x"}}, nil)

	fetched, events := split(messages(m.Navigate("file:///b")))
	if doc.Location() != "file:///b" {
		t.Errorf("location = %q", doc.Location())
	}
	if !doc.Has(shell.ProgressiveLoader) || !m.Loading() {
		t.Error("loader fragment not raised")
	}
	if len(events) != 1 || events[0].Kind != event.LocationChange || events[0].Location != "file:///b" {
		t.Errorf("events = %+v", events)
	}
	m.Update(*fetched)
	if doc.Has(shell.ProgressiveLoader) || m.Loading() {
		t.Error("loader fragment not removed")
	}

	if m.Navigate("file:///b") != nil {
		t.Error("navigating to the current location should do nothing")
	}

	_, events = split(messages(m.Back()))
	if doc.Location() != "file:///a" || len(events) != 1 {
		t.Errorf("Back: location = %q events = %v", doc.Location(), events)
	}
	if m.Back() != nil {
		t.Error("empty history should do nothing")
	}
}

func TestStaleFetchIgnored(t *testing.T) {
	doc := shell.NewDocument("file:///a")
	m := New(doc, stubFetcher{content: Content{Kind: KindText, Body: "x"}}, nil)

	first, _ := split(messages(m.Navigate("file:///b")))
	second, _ := split(messages(m.Navigate("file:///c")))
	m.Update(*first)
	if !doc.Has(shell.ProgressiveLoader) {
		t.Error("stale result cleared the loader")
	}
	m.Update(*second)
	if m.Content().Location != "file:///c" {
		t.Errorf("content = %q", m.Content().Location)
	}
}

func TestReloadPostsForceReload(t *testing.T) {
	doc := shell.NewDocument("file:///a")
	m := New(doc, stubFetcher{}, nil)
	fetched, events := split(messages(m.Reload()))
	if fetched == nil || len(events) != 1 || events[0].Kind != event.ForceReload {
		t.Errorf("Reload: fetched = %v events = %+v", fetched, events)
	}

	// The forced reload waits for the page to finish.
	gone := doc.WaitGone(shell.ProgressiveLoader)
	m.Update(*fetched)
	select {
	case <-gone:
	case <-time.After(time.Second):
		t.Fatal("loader never went away")
	}
}

func TestViewScrollsAndClamps(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 50; i++ {
		body.WriteString("line\n")
	}
	doc := shell.NewDocument("file:///a.txt")
	m := New(doc, stubFetcher{content: Content{Kind: KindSummary, Body: strings.TrimSuffix(body.String(), "\n")}}, nil)
	fetched, _ := split(messages(m.Load()))
	m.Update(*fetched)

	if got := len(strings.Split(m.View(20, 10), "\n")); got != 10 {
		t.Errorf("view lines = %d", got)
	}
	m.Command("scroll-bottom", 10)
	m.View(20, 10)
	if m.scroll != 40 {
		t.Errorf("scroll = %d, want clamped to 40", m.scroll)
	}
	m.Command("page-up", 10)
	m.Command("scroll-top", 10)
	m.View(20, 10)
	if m.scroll != 0 {
		t.Errorf("scroll = %d", m.scroll)
	}
}

func TestViewShowsError(t *testing.T) {
	m := New(shell.NewDocument("file:///x"), stubFetcher{err: errors.New("nope")}, nil)
	fetched, _ := split(messages(m.Load()))
	m.Update(*fetched)
	if out := ansi.Strip(m.View(40, 5)); !strings.Contains(out, "nope") {
		t.Errorf("view = %q", out)
	}
}

func TestHighlight(t *testing.T) {
	out := highlight("main.go", "package main\n")
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("no escape codes in %q", out)
	}
	if !strings.Contains(ansi.Strip(out), "package main") {
		t.Errorf("stripped = %q", ansi.Strip(out))
	}
}

func TestLocationBar(t *testing.T) {
	doc := shell.NewDocument("file:///a")
	m := New(doc, stubFetcher{}, nil)
	m.OpenBar()
	if !m.Editing() {
		t.Fatal("bar not focused")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Editing() || doc.Location() != "file:///a" {
		t.Error("esc should cancel without navigating")
	}

	m.OpenBar()
	m.bar.SetValue("https://github.com/o/r")
	_, events := split(messages(m.Update(tea.KeyMsg{Type: tea.KeyEnter})))
	if doc.Location() != "https://github.com/o/r" || len(events) != 1 {
		t.Errorf("enter: location = %q events = %v", doc.Location(), events)
	}
}
