// Package tui is the terminal front end for the housekeeping board.
package tui

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turndownhq/turndown/client/prefs"
	"github.com/turndownhq/turndown/client/render"
	clientsync "github.com/turndownhq/turndown/client/sync"
	turndown "github.com/turndownhq/turndown/sdk"
	"github.com/turndownhq/turndown/tui/theme"
)

type page = int
type size = int

const (
	setupPage page = iota
	boardPage
)

const (
	undersized size = iota
	small
	medium
	large
)

type state struct {
	setup setupState
	board boardState
}

type visibleError struct {
	message string
}

type model struct {
	switched        bool
	renderer        *lipgloss.Renderer
	page            page
	state           state
	context         context.Context
	client          *turndown.Client
	controller      *clientsync.Controller
	prefs           prefs.Manager
	error           *visibleError
	viewportWidth   int
	viewportHeight  int
	widthContainer  int
	heightContainer int
	widthContent    int
	heightContent   int
	size            size
	theme           theme.Theme

	property *turndown.PropertySnapshotData
	rooms    []turndown.Room
	employee string
}

func NewModel(renderer *lipgloss.Renderer, client *turndown.Client, controller *clientsync.Controller, prefsManager prefs.Manager) (tea.Model, error) {
	ctx := context.Background()

	m := model{
		context:    ctx,
		page:       setupPage,
		renderer:   renderer,
		client:     client,
		controller: controller,
		prefs:      prefsManager,
		state: state{
			setup: newSetupState(prefsManager.Get()),
			board: newBoardState(),
		},
		theme: theme.BasicTheme(renderer),
	}

	return m, nil
}

func (m model) Init() tea.Cmd {
	saved := m.prefs.Get()
	if saved.PropertyCode != "" && saved.Date != "" {
		// Rebind to the last session's board straight away
		return tea.Batch(
			m.bindBoard(saved.PropertyCode, saved.Date, saved.Employee),
			waitForController(m.controller),
		)
	}
	return tea.Batch(textBlink(m), waitForController(m.controller))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}

	switch msg := msg.(type) {
	case visibleError:
		m.error = &msg
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height

		switch {
		case m.viewportWidth < 20 || m.viewportHeight < 10:
			m.size = undersized
			m.widthContainer = m.viewportWidth
			m.heightContainer = m.viewportHeight
		case m.viewportWidth < 50:
			m.size = small
			m.widthContainer = m.viewportWidth
			m.heightContainer = m.viewportHeight
		case m.viewportWidth < 80:
			m.size = medium
			m.widthContainer = 50
			m.heightContainer = int(math.Min(float64(msg.Height), 30))
		default:
			m.size = large
			m.widthContainer = 80
			m.heightContainer = int(math.Min(float64(msg.Height), 30))
		}

		m.widthContent = m.widthContainer - 2
		m.heightContent = m.heightContainer

	case boardUpdateMsg:
		m = m.applyUpdate(msg.update)
		cmds = append(cmds, waitForController(m.controller))

	case controllerErrMsg:
		m.state.board.notice = msg.err.Error()
		cmds = append(cmds, waitForController(m.controller))

	case boundMsg:
		m.page = boardPage
		m.state.board.notice = ""

	case bindFailedMsg:
		m.page = setupPage
		m.state.setup.error = msg.err.Error()
		m.state.setup.binding = false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.controller.Close()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case setupPage:
		m, cmd = m.SetupUpdate(msg)
	case boardPage:
		m, cmd = m.BoardUpdate(msg)
	}

	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if m.switched {
		m.switched = false
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.size == undersized {
		return m.theme.TextError().Render("Terminal too small")
	}

	var content string
	switch m.page {
	case setupPage:
		content = m.SetupView()
	case boardPage:
		content = m.BoardView()
	}

	if m.error != nil {
		content = strings.Join([]string{
			content,
			m.theme.TextError().Render("⚠ " + m.error.message),
		}, "\n")
	}

	return m.renderer.Place(
		m.viewportWidth,
		m.viewportHeight,
		lipgloss.Center,
		lipgloss.Center,
		m.theme.Base().
			MaxWidth(m.widthContainer).
			MaxHeight(m.heightContainer).
			Render(content),
	)
}

func (m model) SwitchPage(page page) model {
	m.page = page
	m.switched = true
	return m
}

func (m model) applyUpdate(update clientsync.Update) model {
	if update.Generation != m.controller.Generation() {
		// Stale snapshot from a binding that was torn down
		return m
	}

	if update.Property != nil {
		m.property = update.Property
		m = m.reconcileEmployee()
	}
	if update.Rooms != nil {
		m.rooms = update.Rooms.Rooms
		m.state.board.clampSelection(len(m.visibleRooms()))
	}

	return m
}

// reconcileEmployee drops a filter that no longer matches the roster.
// A saved name that was removed falls back to the first entry, or to
// everyone when the roster is empty. Manager always survives.
func (m model) reconcileEmployee() model {
	if m.employee == "" || m.employee == render.Manager || m.property == nil {
		return m
	}

	for _, name := range m.property.Employees {
		if name == m.employee {
			return m
		}
	}

	if len(m.property.Employees) > 0 {
		m.employee = m.property.Employees[0]
	} else {
		m.employee = ""
	}
	m.controller.SetEmployee(m.employee)
	return m
}

func (m model) visibleRooms() []turndown.Room {
	return render.Visible(m.rooms, m.employee)
}

// bindBoard tears down the old subscriptions and opens new ones for
// (code, date). The controller guarantees teardown happens first.
func (m model) bindBoard(code, date, employee string) tea.Cmd {
	controller := m.controller
	ctx := m.context

	return func() tea.Msg {
		if err := controller.SetParams(ctx, code, date); err != nil {
			return bindFailedMsg{err: err}
		}
		controller.SetEmployee(employee)
		return boundMsg{code: code, date: date}
	}
}
