package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	clientsync "github.com/turndownhq/turndown/client/sync"
)

type boardUpdateMsg struct {
	update clientsync.Update
}

type controllerErrMsg struct {
	err error
}

type boundMsg struct {
	code string
	date string
}

type bindFailedMsg struct {
	err error
}

type propertyCreatedMsg struct {
	code string
	name string
}

type roomCreatedMsg struct {
	number string
}

type roomUpdateFailedMsg struct {
	err error
}

// waitForController turns the controller's channels into tea messages.
// The returned command is re-armed after every delivery.
func waitForController(controller *clientsync.Controller) tea.Cmd {
	return func() tea.Msg {
		select {
		case update, ok := <-controller.Updates():
			if !ok {
				return nil
			}
			return boardUpdateMsg{update: update}
		case err, ok := <-controller.Notifications():
			if !ok {
				return nil
			}
			return controllerErrMsg{err: err}
		}
	}
}
