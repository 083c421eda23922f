// Package keymap resolves key presses to commands per focus context and
// manages the rebindable sidebar toggle hotkeys.
package keymap

import (
	"sort"
	"strings"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry holds bindings and user overrides.
type Registry struct {
	bindings  map[string]map[string]string // context -> key -> command
	overrides map[string]string            // "context/key" -> command
}

// NewRegistry builds a registry from bindings.
func NewRegistry(bindings []Binding) *Registry {
	r := &Registry{
		bindings:  make(map[string]map[string]string),
		overrides: make(map[string]string),
	}
	for _, b := range bindings {
		r.Register(b)
	}
	return r
}

// Register adds or replaces a binding.
func (r *Registry) Register(b Binding) {
	ctx := r.bindings[b.Context]
	if ctx == nil {
		ctx = make(map[string]string)
		r.bindings[b.Context] = ctx
	}
	ctx[b.Key] = b.Command
}

// SetUserOverride rebinds key within context. An empty command disables
// the key there.
func (r *Registry) SetUserOverride(context, key, command string) {
	r.overrides[context+"/"+key] = command
}

// Lookup returns the command bound to key in context, falling back to the
// global context.
func (r *Registry) Lookup(context, key string) string {
	for _, c := range []string{context, "global"} {
		if cmd, ok := r.overrides[c+"/"+key]; ok {
			return cmd
		}
		if cmd, ok := r.bindings[c][key]; ok {
			return cmd
		}
	}
	return ""
}

// BindingsForContext returns the effective bindings of context sorted by
// command then key.
func (r *Registry) BindingsForContext(context string) []Binding {
	var out []Binding
	for key, cmd := range r.bindings[context] {
		if o, ok := r.overrides[context+"/"+key]; ok {
			cmd = o
		}
		if cmd == "" {
			continue
		}
		out = append(out, Binding{Key: key, Command: cmd, Context: context})
	}
	for ck, cmd := range r.overrides {
		c, key, _ := strings.Cut(ck, "/")
		if c != context || cmd == "" {
			continue
		}
		if _, ok := r.bindings[context][key]; ok {
			continue
		}
		out = append(out, Binding{Key: key, Command: cmd, Context: context})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Command != out[j].Command {
			return out[i].Command < out[j].Command
		}
		return out[i].Key < out[j].Key
	})
	return out
}
