// Package event defines the closed set of events the controller reacts to.
// Every event is an Event value tagged with a Kind; the controller handles
// them in one switch.
package event

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/treeside/internal/settings"
	"github.com/marcus/treeside/internal/views"
)

// Kind tags an Event.
type Kind int

const (
	// Resize is a terminal resize.
	Resize Kind = iota
	// Hotkey is a press of the configured sidebar hotkey.
	Hotkey
	// ViewReady is sent by a panel that finished showing its content.
	ViewReady
	// ViewClosed is sent by a panel the user dismissed.
	ViewClosed
	// OptionsChanged carries the settings a panel saved.
	OptionsChanged
	// FetchError carries a failure a panel hit while loading.
	FetchError
	// RequestStart marks the beginning of a tree load.
	RequestStart
	// RequestEnd marks the end of a tree load.
	RequestEnd
	// LayoutChange asks for the layout to be recomputed.
	LayoutChange
	// Toggle reports a sidebar visibility change.
	Toggle
	// LocationChange reports that the page moved to another location.
	LocationChange
	// ForceReload asks for a full reload once the page finished loading.
	ForceReload
	// SidebarResized reports that the user changed the sidebar width.
	SidebarResized
)

var kindNames = [...]string{
	Resize:         "resize",
	Hotkey:         "hotkey",
	ViewReady:      "view-ready",
	ViewClosed:     "view-closed",
	OptionsChanged: "options-changed",
	FetchError:     "fetch-error",
	RequestStart:   "request-start",
	RequestEnd:     "request-end",
	LayoutChange:   "layout-change",
	Toggle:         "toggle",
	LocationChange: "location-change",
	ForceReload:    "force-reload",
	SidebarResized: "sidebar-resized",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsDocument reports whether the kind is a document-level event, the kind
// plugins may observe and post.
func (k Kind) IsDocument() bool {
	switch k {
	case RequestStart, RequestEnd, LayoutChange, Toggle, LocationChange, ForceReload:
		return true
	default:
		return false
	}
}

// Event is a single notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind

	// View is the emitting panel for panel events.
	View views.ID

	// Visible is the new sidebar visibility for Toggle.
	Visible bool

	// Persist is set on Hotkey when the toggle should also be saved.
	Persist bool

	// Changes is the saved settings for OptionsChanged.
	Changes settings.Changes

	// Err is the failure for FetchError.
	Err error

	// Width and Height are the new terminal size for Resize.
	Width, Height int

	// Location is the new page location for LocationChange, if known.
	Location string
}

// Emit returns a command that delivers ev to the update loop.
func Emit(ev Event) tea.Cmd {
	return func() tea.Msg { return ev }
}

// Ready returns the ready event of a panel.
func Ready(id views.ID) tea.Cmd {
	return Emit(Event{Kind: ViewReady, View: id})
}

// Closed returns the closed event of a panel.
func Closed(id views.ID) tea.Cmd {
	return Emit(Event{Kind: ViewClosed, View: id})
}

// Failed returns the fetch-error event of a panel.
func Failed(id views.ID, err error) tea.Cmd {
	return Emit(Event{Kind: FetchError, View: id, Err: err})
}
