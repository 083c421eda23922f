package clipboard

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/msg"
	"github.com/marcus/treeside/internal/plugin"
	"github.com/marcus/treeside/internal/views"
)

type fakeTree struct {
	item adapter.TreeItem
	ok   bool
	url  string
}

func (f *fakeTree) ID() views.ID { return views.Tree }
func (f *fakeTree) Update(tea.Msg) tea.Cmd { return nil }
func (f *fakeTree) View(int, int) string { return "" }
func (f *fakeTree) Show(*adapter.Repo, string) tea.Cmd { return nil }
func (f *fakeTree) SyncSelection() tea.Cmd { return nil }
func (f *fakeTree) Selected() (adapter.TreeItem, bool) { return f.item, f.ok }
func (f *fakeTree) SelectedURL() string { return f.url }
func (f *fakeTree) Repo() *adapter.Repo { return nil }
func (f *fakeTree) SetFilter(func(string) bool) {}

func newPlugin(t *testing.T, tree *fakeTree) (*Plugin, *[]string) {
	t.Helper()
	var copied []string
	p := New()
	p.write = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	if err := p.Activate(context.Background(), &plugin.Context{TreeView: tree}); err != nil {
		t.Fatal(err)
	}
	return p, &copied
}

func TestYank(t *testing.T) {
	tree := &fakeTree{item: adapter.TreeItem{Path: "src/main.go"}, ok: true, url: "https://x/src/main.go"}
	p, copied := newPlugin(t, tree)

	cmd, handled := p.HandleCommand("yank")
	if !handled || cmd == nil {
		t.Fatal("yank not handled")
	}
	if toast, ok := cmd().(msg.ToastMsg); !ok || toast.IsError {
		t.Errorf("toast = %+v", toast)
	}
	p.HandleCommand("yank-url")

	want := []string{"src/main.go", "https://x/src/main.go"}
	if len(*copied) != 2 || (*copied)[0] != want[0] || (*copied)[1] != want[1] {
		t.Errorf("copied = %v, want %v", *copied, want)
	}
}

func TestYank_NothingSelected(t *testing.T) {
	p, copied := newPlugin(t, &fakeTree{})
	cmd, handled := p.HandleCommand("yank")
	if !handled || cmd != nil || len(*copied) != 0 {
		t.Errorf("handled=%v cmd=%v copied=%v", handled, cmd != nil, *copied)
	}
	if _, handled := p.HandleCommand("reload"); handled {
		t.Error("foreign command handled")
	}
}

func TestYank_WriteFailure(t *testing.T) {
	p, _ := newPlugin(t, &fakeTree{item: adapter.TreeItem{Path: "a"}, ok: true})
	p.write = func(string) error { return errors.New("no clipboard") }
	cmd, _ := p.HandleCommand("yank")
	if toast, ok := cmd().(msg.ToastMsg); !ok || !toast.IsError {
		t.Errorf("toast = %+v", toast)
	}
}
