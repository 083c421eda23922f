package keymap

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "q", Command: "quit", Context: "global"},
		{Key: "ctrl+r", Command: "reload", Context: "global"},
		{Key: "ctrl+l", Command: "location", Context: "global"},
		{Key: "?", Command: "help", Context: "global"},
		{Key: ",", Command: "options", Context: "global"},
		{Key: "tab", Command: "switch-pane", Context: "global"},
		{Key: "shift+tab", Command: "switch-pane", Context: "global"},
		{Key: "[", Command: "sidebar-narrower", Context: "global"},
		{Key: "]", Command: "sidebar-wider", Context: "global"},

		// Tree context (sidebar focused, tree panel current)
		{Key: "j", Command: "cursor-down", Context: "tree"},
		{Key: "down", Command: "cursor-down", Context: "tree"},
		{Key: "k", Command: "cursor-up", Context: "tree"},
		{Key: "up", Command: "cursor-up", Context: "tree"},
		{Key: "g", Command: "cursor-top", Context: "tree"},
		{Key: "G", Command: "cursor-bottom", Context: "tree"},
		{Key: "ctrl+d", Command: "page-down", Context: "tree"},
		{Key: "ctrl+u", Command: "page-up", Context: "tree"},
		{Key: "enter", Command: "select", Context: "tree"},
		{Key: "l", Command: "expand", Context: "tree"},
		{Key: "right", Command: "expand", Context: "tree"},
		{Key: "h", Command: "collapse", Context: "tree"},
		{Key: "left", Command: "collapse", Context: "tree"},
		{Key: "y", Command: "yank", Context: "tree"},
		{Key: "Y", Command: "yank-url", Context: "tree"},

		// Error context
		{Key: "enter", Command: "retry", Context: "error"},
		{Key: "r", Command: "retry", Context: "error"},
		{Key: "o", Command: "options", Context: "error"},

		// Page context (page pane focused)
		{Key: "j", Command: "scroll-down", Context: "page"},
		{Key: "down", Command: "scroll-down", Context: "page"},
		{Key: "k", Command: "scroll-up", Context: "page"},
		{Key: "up", Command: "scroll-up", Context: "page"},
		{Key: "g", Command: "scroll-top", Context: "page"},
		{Key: "G", Command: "scroll-bottom", Context: "page"},
		{Key: "ctrl+d", Command: "page-down", Context: "page"},
		{Key: "ctrl+u", Command: "page-up", Context: "page"},
		{Key: "backspace", Command: "back", Context: "page"},

		// Help overlay
		{Key: "esc", Command: "close", Context: "help"},
		{Key: "enter", Command: "close", Context: "help"},
		{Key: "?", Command: "close", Context: "help"},
	}
}
