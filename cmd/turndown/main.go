package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turndownhq/turndown/client/prefs"
	clientsync "github.com/turndownhq/turndown/client/sync"
	turndown "github.com/turndownhq/turndown/sdk"
	"github.com/turndownhq/turndown/tui"
)

func main() {
	log, err := os.Create("output.log")
	if err != nil {
		panic(err)
	}
	defer log.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(log, &slog.HandlerOptions{})))

	client := turndown.NewClient()
	controller := clientsync.NewController(clientsync.NewGateway(client))

	model, err := tui.NewModel(lipgloss.DefaultRenderer(), client, controller, prefs.NewManager())
	if err != nil {
		panic(err)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
