package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/mouse"
	"github.com/marcus/treeside/internal/msg"
	"github.com/marcus/treeside/internal/views"
	"github.com/marcus/treeside/internal/views/tree"
)

// sidebarStep is how many columns one narrower/wider command moves.
const sidebarStep = 2

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleStartup(message); ok {
		return m, cmd
	}

	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.MouseMsg:
		return m.handleMouseMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		if m.ctrl == nil {
			return m, nil
		}
		return m, m.ctrl.dispatch(event.Event{Kind: event.Resize, Width: message.Width, Height: message.Height})

	case event.Posted:
		return m, tea.Batch(m.handleEvent(message.Event), m.bus.Listen())

	case event.Event:
		return m, m.handleEvent(message)

	case msg.NavigateMsg:
		return m, m.page.Navigate(message.Location)

	case msg.ToastMsg:
		return m, m.ShowToast(message.Message, message.Duration, message.IsError)

	case toastExpiredMsg:
		m.ClearToast(message.id)
		return m, nil
	}

	if m.ctrl != nil {
		if cmd, ok := m.ctrl.Update(message); ok {
			return m, cmd
		}
	}

	// Forward everything else to the panes; each ignores what is not its own.
	cmds := []tea.Cmd{m.page.Update(message)}
	if m.phase >= phaseActivate {
		cmds = append(cmds,
			m.tree.Update(message),
			m.options.Update(message),
			m.errView.Update(message),
			m.help.Update(message),
		)
	}
	return m, tea.Batch(cmds...)
}

// handleEvent dispatches ev once the controller exists. Earlier events are
// dropped; the first repo-load attempt reads the state they reported.
func (m *Model) handleEvent(ev event.Event) tea.Cmd {
	if m.ctrl == nil {
		m.logger.Debug("app: event before startup", "kind", ev.Kind)
		return nil
	}
	return m.ctrl.dispatch(ev)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := k.String()
	if key == "ctrl+c" {
		return m, m.shutdown()
	}

	// The location bar takes every key while it is open.
	if m.page.Editing() {
		return m, m.page.Update(k)
	}

	if m.phase != phaseReady {
		context := "page"
		return m, m.runCommand(context, m.keys.Lookup(context, key))
	}

	if persist, ok := m.hotkeys.Match(k); ok {
		return m, m.ctrl.dispatch(event.Event{Kind: event.Hotkey, Persist: persist})
	}

	if m.help.Visible() {
		switch m.keys.Lookup("help", key) {
		case "close":
			return m, m.help.Dismiss()
		case "quit":
			return m, m.shutdown()
		}
		return m, nil
	}

	// The options form takes every key while it is focused.
	if m.sidebarFocused() && m.shell.Panels.Current() == views.Options && m.options.IsOpen() {
		return m, m.options.Update(k)
	}

	context := m.keyContext()
	return m, m.runCommand(context, m.keys.Lookup(context, key))
}

// keyContext returns the keymap context of the focused pane.
func (m *Model) keyContext() string {
	if !m.sidebarFocused() {
		return "page"
	}
	switch m.shell.Panels.Current() {
	case views.Tree:
		return "tree"
	case views.Error:
		return "error"
	default:
		return "global"
	}
}

// sidebarFocused reports whether keys go to the sidebar.
func (m *Model) sidebarFocused() bool {
	return m.focusSidebar && m.shell != nil && m.shell.SidebarVisible()
}

// runCommand executes a keymap command in context.
func (m *Model) runCommand(context, name string) tea.Cmd {
	switch name {
	case "":
		return nil
	case "quit":
		return m.shutdown()
	case "reload":
		return m.page.Reload()
	case "location":
		return m.page.OpenBar()
	case "help":
		if m.help != nil {
			m.help.Open()
		}
		return nil
	case "options":
		return m.openOptions()
	case "switch-pane":
		if m.shell != nil && m.shell.SidebarVisible() {
			m.focusSidebar = !m.focusSidebar
		}
		return nil
	case "sidebar-narrower":
		return m.resizeSidebar(-sidebarStep)
	case "sidebar-wider":
		return m.resizeSidebar(sidebarStep)
	}

	switch context {
	case "tree":
		if cmd, ok := m.plugins.HandleCommand(name); ok {
			return cmd
		}
		return m.tree.Command(name, m.contentHeight()-tree.HeaderHeight)
	case "error":
		return m.errView.Command(name)
	case "page":
		return m.page.Command(name, m.contentHeight())
	}
	return nil
}

// openOptions opens the options panel, showing the sidebar if needed.
func (m *Model) openOptions() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	m.focusSidebar = true
	return tea.Batch(m.ctrl.ShowSidebar(), m.options.Open())
}

// resizeSidebar changes the sidebar width by delta and persists it.
func (m *Model) resizeSidebar(delta int) tea.Cmd {
	if m.shell == nil || !m.shell.SidebarVisible() {
		return nil
	}
	if !m.shell.Sidebar.Resize(delta) {
		return nil
	}
	return m.ctrl.dispatch(event.Event{Kind: event.SidebarResized})
}

// Hit regions, topmost last.
const (
	regionPage    = "page"
	regionToggler = "toggler"
	regionSidebar = "sidebar"
	regionDivider = "divider"
)

// updateHitRegions lays out the clickable regions of the current frame.
func (m *Model) updateHitRegions() {
	h := m.contentHeight()
	hm := m.mouse.HitMap
	hm.Clear()
	hm.AddRect(regionPage, 0, 0, m.width, h, nil)
	switch {
	case m.shell.SidebarVisible():
		w := m.shell.Sidebar.Width()
		hm.AddRect(regionSidebar, 0, 0, w-1, h, nil)
		hm.AddRect(regionDivider, w-1, 0, 1, h, nil)
	case m.shell.Toggler.Visible():
		hm.AddRect(regionToggler, 0, 0, 1, h, nil)
	}
}

// handleMouseMsg routes clicks to the toggler, the tree, or the page, and
// drags of the sidebar border to a resize.
func (m Model) handleMouseMsg(mm tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseReady {
		return m, nil
	}
	m.updateHitRegions()
	dragging, startWidth := m.mouse.DragRegion(), m.mouse.DragStartValue()
	action := m.mouse.HandleMouse(mm)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		switch action.Region.ID {
		case regionToggler:
			return m, m.ctrl.TogglerClicked()
		case regionDivider:
			m.mouse.StartDrag(mm.X, mm.Y, regionDivider, m.shell.Sidebar.Width())
		case regionSidebar:
			m.focusSidebar = true
			if m.shell.Panels.Current() == views.Tree {
				return m, m.tree.Click(mm.Y - tree.HeaderHeight)
			}
		case regionPage:
			m.focusSidebar = false
		}

	case mouse.ActionDrag:
		if dragging != regionDivider {
			return m, nil
		}
		width := startWidth + action.DragDX
		if !m.shell.Sidebar.Resize(width - m.shell.Sidebar.Width()) {
			return m, nil
		}
		return m, m.ctrl.dispatch(event.Event{Kind: event.Resize, Width: m.width, Height: m.height})

	case mouse.ActionDragEnd:
		if dragging == regionDivider && startWidth != m.shell.Sidebar.Width() {
			return m, m.ctrl.dispatch(event.Event{Kind: event.SidebarResized})
		}

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region == nil {
			return m, nil
		}
		dir, steps := "down", action.Delta
		if steps < 0 {
			dir, steps = "up", -steps
		}
		var cmds []tea.Cmd
		for range steps {
			switch {
			case action.Region.ID == regionSidebar && m.shell.Panels.Current() == views.Tree:
				cmds = append(cmds, m.tree.Command("cursor-"+dir, 1))
			case action.Region.ID == regionPage:
				cmds = append(cmds, m.page.Command("scroll-"+dir, 1))
			}
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// contentHeight is the height above the status line.
func (m *Model) contentHeight() int {
	return max(m.height-1, 1)
}
