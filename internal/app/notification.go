package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/nateberkopec/toastdemo/internal/toast"
)

// desktopNotify mirrors a toast as a system notification. Errors use Alert,
// which includes a system sound.
var desktopNotify = func(msg toast.Message) error {
	if msg.Category == toast.CategoryError {
		return beeep.Alert(msg.Title, msg.Body, "")
	}
	return beeep.Notify(msg.Title, msg.Body, "")
}

// desktopCmd sends the notification off the event loop. Failures come back as
// desktopErrMsg and are only logged.
func desktopCmd(msg toast.Message) tea.Cmd {
	return func() tea.Msg {
		if err := desktopNotify(msg); err != nil {
			return desktopErrMsg{Err: err}
		}
		return nil
	}
}
