// Package msg holds messages shared between panels, plugins, and the app
// model that are not orchestration events.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowError returns a command to show an error toast.
func ShowError(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
			IsError:  true,
		}
	}
}

// NavigateMsg asks the page pane to open Location.
type NavigateMsg struct {
	Location string
}

// Navigate returns a command that opens location in the page pane.
func Navigate(location string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Location: location} }
}
