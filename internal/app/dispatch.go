package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/treeside/internal/event"
	"github.com/marcus/treeside/internal/views"
)

// dispatch maps every event kind onto its policy. Document events are
// forwarded to the plugins afterwards.
func (c *Controller) dispatch(ev event.Event) tea.Cmd {
	cmd := c.route(ev)
	if ev.Kind.IsDocument() && c.plugins != nil {
		return tea.Batch(cmd, c.plugins.HandleEvent(ev))
	}
	return cmd
}

func (c *Controller) route(ev event.Event) tea.Cmd {
	switch ev.Kind {
	case event.Resize:
		return c.layoutChanged(false)

	case event.Hotkey:
		if !c.shell.Toggler.Visible() {
			return nil
		}
		if ev.Persist {
			return c.toggleSidebarAndSave()
		}
		return c.toggleSidebar(nil)

	case event.ViewReady:
		var cmd tea.Cmd
		if ev.View != views.Options {
			cmd = c.dispatch(event.Event{Kind: event.RequestEnd})
		}
		c.showView(ev.View)
		return cmd

	case event.ViewClosed:
		if c.state.HasError {
			c.showView(views.Error)
		} else {
			c.showView(views.Tree)
		}
		return nil

	case event.OptionsChanged:
		return c.optionsChanged(ev.Changes)

	case event.FetchError:
		return c.showError(ev.Err)

	case event.RequestStart:
		c.shell.Toggler.SetLoading(true)
		return nil

	case event.RequestEnd:
		c.shell.Toggler.SetLoading(false)
		return nil

	case event.LayoutChange, event.Toggle:
		return c.layoutChanged(false)

	case event.LocationChange:
		return c.tryLoadRepo(false)

	case event.ForceReload:
		return c.waitForPage()

	case event.SidebarResized:
		return c.layoutChanged(true)

	default:
		c.logger.Debug("app: unhandled event", "kind", ev.Kind)
		return nil
	}
}
