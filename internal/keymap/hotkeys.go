package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ParseCombo splits a hotkey setting ("ctrl+b, Alt+B") into normalized
// key names.
func ParseCombo(spec string) []string {
	var keys []string
	for _, part := range strings.Split(spec, ",") {
		k := strings.TrimSpace(part)
		if k == "" {
			continue
		}
		// Modifier names are case-insensitive. A lone rune keeps its case
		// (shift is expressed by case) except under ctrl, which has none.
		if i := strings.LastIndex(k, "+"); i > 0 && i < len(k)-1 {
			mods := strings.ToLower(k[:i+1])
			if strings.Contains(mods, "ctrl") {
				k = strings.ToLower(k)
			} else {
				k = mods + normalizeKey(k[i+1:])
			}
		} else {
			k = normalizeKey(k)
		}
		keys = append(keys, k)
	}
	return keys
}

func normalizeKey(k string) string {
	if len([]rune(k)) == 1 {
		return k
	}
	return strings.ToLower(k)
}

type hotkey struct {
	binding key.Binding
	persist bool
}

// Hotkeys are the sidebar toggle combos. They only fire while the filter
// reports true.
type Hotkeys struct {
	keys   []hotkey
	filter func() bool
}

// NewHotkeys creates an empty set gated by filter (nil means always).
func NewHotkeys(filter func() bool) *Hotkeys {
	return &Hotkeys{filter: filter}
}

// Bind binds every combo in spec. persist selects the toggle-and-save
// variant.
func (h *Hotkeys) Bind(spec string, persist bool) {
	keys := ParseCombo(spec)
	if len(keys) == 0 {
		return
	}
	h.keys = append(h.keys, hotkey{
		binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), "toggle sidebar")),
		persist: persist,
	})
}

// Unbind removes every combo in spec, whichever variant it was bound to.
func (h *Hotkeys) Unbind(spec string) {
	drop := make(map[string]bool)
	for _, k := range ParseCombo(spec) {
		drop[k] = true
	}
	kept := h.keys[:0]
	for _, hk := range h.keys {
		var left []string
		for _, k := range hk.binding.Keys() {
			if !drop[k] {
				left = append(left, k)
			}
		}
		if len(left) == 0 {
			continue
		}
		hk.binding.SetKeys(left...)
		hk.binding.SetHelp(strings.Join(left, "/"), "toggle sidebar")
		kept = append(kept, hk)
	}
	h.keys = kept
}

// Match reports whether msg is a bound hotkey and which variant it fires.
// Later bindings win over earlier ones for the same combo.
func (h *Hotkeys) Match(msg tea.KeyMsg) (persist, ok bool) {
	if h.filter != nil && !h.filter() {
		return false, false
	}
	for i := len(h.keys) - 1; i >= 0; i-- {
		if key.Matches(msg, h.keys[i].binding) {
			return h.keys[i].persist, true
		}
	}
	return false, false
}

// Help returns the short help of every bound combo.
func (h *Hotkeys) Help() []key.Binding {
	out := make([]key.Binding, len(h.keys))
	for i, hk := range h.keys {
		out[i] = hk.binding
	}
	return out
}
