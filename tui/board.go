package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turndownhq/turndown/client/prefs"
	"github.com/turndownhq/turndown/client/render"
	turndown "github.com/turndownhq/turndown/sdk"
)

type boardState struct {
	selected int
	notice   string

	// notes editing. The draft lives in pending until committed so a
	// snapshot push cannot wipe what the user is typing.
	editing    bool
	editNumber string
	notesInput textinput.Model
	pending    map[string]string

	// add-room form
	adding        bool
	addFocus      int
	numberInput   textinput.Model
	assigneeInput textinput.Model
}

func newBoardState() boardState {
	notes := textinput.New()
	notes.Placeholder = "notes"
	notes.CharLimit = 500
	notes.Width = 40

	number := textinput.New()
	number.Placeholder = "101"
	number.CharLimit = 10
	number.Width = 10

	assignee := textinput.New()
	assignee.Placeholder = "assignee"
	assignee.CharLimit = 60
	assignee.Width = 30

	return boardState{
		notesInput:    notes,
		numberInput:   number,
		assigneeInput: assignee,
		pending:       map[string]string{},
	}
}

func (s *boardState) clampSelection(visible int) {
	if visible == 0 {
		s.selected = 0
		return
	}
	if s.selected >= visible {
		s.selected = visible - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (m model) BoardUpdate(msg tea.Msg) (model, tea.Cmd) {
	s := &m.state.board

	switch msg := msg.(type) {
	case roomCreatedMsg:
		s.notice = "room " + msg.number + " added"
		s.adding = false
		s.numberInput.SetValue("")
		s.assigneeInput.SetValue("")
		return m, nil

	case roomUpdateFailedMsg:
		s.notice = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if s.editing {
			return m.notesUpdate(msg)
		}
		if s.adding {
			return m.addRoomUpdate(msg)
		}

		rows := m.boardRows()

		switch {
		case key.Matches(msg, keys.Up):
			if s.selected > 0 {
				s.selected--
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if s.selected < len(rows)-1 {
				s.selected++
			}
			return m, nil

		case key.Matches(msg, keys.CycleStatus):
			if len(rows) == 0 {
				return m, nil
			}
			row := rows[s.selected]
			return m, m.setStatus(row.Number, render.NextStatus(row.Status))

		case key.Matches(msg, keys.EditNotes):
			if len(rows) == 0 {
				return m, nil
			}
			row := rows[s.selected]
			s.editing = true
			s.editNumber = row.Number
			s.notesInput.SetValue(row.Notes)
			s.pending[row.Number] = row.Notes
			return m, s.notesInput.Focus()

		case key.Matches(msg, keys.AddRoom):
			s.adding = true
			s.addFocus = 0
			s.assigneeInput.Blur()
			return m, s.numberInput.Focus()

		case key.Matches(msg, keys.Filter):
			m = m.cycleFilter()
			return m, nil

		case key.Matches(msg, keys.Setup):
			m.state.setup.binding = false
			return m.SwitchPage(setupPage), textinput.Blink
		}
	}

	return m, nil
}

func (m model) notesUpdate(msg tea.KeyMsg) (model, tea.Cmd) {
	s := &m.state.board

	switch {
	case key.Matches(msg, keys.Enter):
		number := s.editNumber
		notes := s.notesInput.Value()
		s.editing = false
		s.notesInput.Blur()
		delete(s.pending, number)
		return m, m.setNotes(number, notes)

	case key.Matches(msg, keys.Back):
		// Cancel drops the draft without writing anything
		delete(s.pending, s.editNumber)
		s.editing = false
		s.notesInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	s.notesInput, cmd = s.notesInput.Update(msg)
	s.pending[s.editNumber] = s.notesInput.Value()
	return m, cmd
}

func (m model) addRoomUpdate(msg tea.KeyMsg) (model, tea.Cmd) {
	s := &m.state.board

	switch {
	case key.Matches(msg, keys.Tab):
		if s.addFocus == 0 {
			s.addFocus = 1
			s.numberInput.Blur()
			return m, s.assigneeInput.Focus()
		}
		s.addFocus = 0
		s.assigneeInput.Blur()
		return m, s.numberInput.Focus()

	case key.Matches(msg, keys.Enter):
		number := strings.TrimSpace(s.numberInput.Value())
		assignee := strings.TrimSpace(s.assigneeInput.Value())
		if number == "" {
			s.notice = "room number is required"
			return m, nil
		}
		if assignee == "" {
			// Fall back to the active employee filter so a housekeeper
			// can add their own rooms without retyping their name
			if m.employee != "" && m.employee != render.Manager {
				assignee = m.employee
			} else {
				s.notice = "assignee is required"
				return m, nil
			}
		}
		return m, m.createRoom(number, assignee)

	case key.Matches(msg, keys.Back):
		s.adding = false
		s.numberInput.Blur()
		s.assigneeInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	if s.addFocus == 0 {
		s.numberInput, cmd = s.numberInput.Update(msg)
	} else {
		s.assigneeInput, cmd = s.assigneeInput.Update(msg)
	}
	return m, cmd
}

// cycleFilter walks the employee filter through the roster, then
// Manager, then everyone. The controller re-emits the cached board so
// the table updates without a round trip.
func (m model) cycleFilter() model {
	options := []string{""}
	if m.property != nil {
		options = append(options, m.property.Employees...)
	}
	options = append(options, render.Manager)

	next := 0
	for i, option := range options {
		if option == m.employee {
			next = (i + 1) % len(options)
			break
		}
	}

	m.employee = options[next]
	m.controller.SetEmployee(m.employee)
	m.state.board.clampSelection(len(m.visibleRooms()))

	code, date, _ := m.controller.Params()
	if err := m.prefs.Set(&prefs.Preferences{
		PropertyCode: code,
		Date:         date,
		Employee:     m.employee,
	}); err != nil {
		m.state.board.notice = err.Error()
	}

	return m
}

func (m model) boardRows() []render.Row {
	s := m.state.board
	rows := render.Render(m.rooms, render.Options{
		Employee:     m.employee,
		PendingNotes: s.pending,
	})
	if len(rows) > 0 {
		idx := s.selected
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		rows[idx].Selected = true
	}
	return rows
}

func (m model) setStatus(number, status string) tea.Cmd {
	client := m.client
	ctx := m.context
	code, date, _ := m.controller.Params()

	return func() tea.Msg {
		if err := client.Rooms.SetStatus(ctx, code, date, number, status); err != nil {
			return roomUpdateFailedMsg{err: err}
		}
		return nil
	}
}

func (m model) setNotes(number, notes string) tea.Cmd {
	client := m.client
	ctx := m.context
	code, date, _ := m.controller.Params()

	return func() tea.Msg {
		if err := client.Rooms.SetNotes(ctx, code, date, number, notes); err != nil {
			return roomUpdateFailedMsg{err: err}
		}
		return nil
	}
}

func (m model) createRoom(number, assignee string) tea.Cmd {
	client := m.client
	ctx := m.context
	code, date, _ := m.controller.Params()

	return func() tea.Msg {
		room, err := client.Rooms.New(ctx, code, date, turndown.RoomNewParams{
			Number:     number,
			AssignedTo: assignee,
		})
		if err != nil {
			return roomUpdateFailedMsg{err: err}
		}
		return roomCreatedMsg{number: room.Number}
	}
}

func (m model) BoardView() string {
	s := m.state.board
	t := m.theme
	code, date, _ := m.controller.Params()

	var b strings.Builder

	title := code
	if m.property != nil && m.property.Name != "" {
		title = m.property.Name + " (" + code + ")"
	}
	b.WriteString(t.TextBrand().Bold(true).Render(title))
	b.WriteString("  ")
	b.WriteString(t.TextBody().Render(date))
	b.WriteString("\n")

	filter := m.employee
	if filter == "" {
		filter = "all rooms"
	}
	b.WriteString(t.TextAccent().Render("filter: " + filter))
	b.WriteString("\n\n")

	rows := m.boardRows()
	if len(rows) == 0 {
		b.WriteString(t.TextBody().Render("no rooms yet. press a to add one."))
	} else {
		b.WriteString(m.renderTable(rows))
	}

	b.WriteString("\n")
	b.WriteString(m.renderCounts())

	if s.editing {
		b.WriteString("\n\n")
		b.WriteString(t.TextAccent().Render("notes for " + s.editNumber))
		b.WriteString("\n")
		b.WriteString(s.notesInput.View())
		b.WriteString("\n")
		b.WriteString(t.TextBody().Render("enter save · esc cancel"))
	} else if s.adding {
		b.WriteString("\n\n")
		b.WriteString(t.TextAccent().Render("add room"))
		b.WriteString("\n")
		b.WriteString(s.numberInput.View())
		b.WriteString("  ")
		b.WriteString(s.assigneeInput.View())
		b.WriteString("\n")
		b.WriteString(t.TextBody().Render("enter add · tab switch · esc cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(t.TextBody().Render("space status · e notes · a add · f filter · s board · ctrl+c quit"))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(t.TextHighlight().Render(s.notice))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m model) renderTable(rows []render.Row) string {
	t := m.theme

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, t.TextBody().Bold(true).Render(
		fmt.Sprintf("%-6s %-12s %-14s %-6s %s", "ROOM", "STATUS", "ASSIGNED", "UPD", "NOTES"),
	))

	for _, row := range rows {
		notes := row.Notes
		if row.PendingNotes {
			notes += " *"
		}
		line := fmt.Sprintf("%-6s %-12s %-14s %-6s %s",
			row.Number, row.Status, row.AssignedTo, row.LastUpdated, notes)

		style := t.TextBody()
		if row.Selected {
			style = t.TextHighlight().Bold(true)
			line = "> " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, style.Render(line))
	}

	return strings.Join(lines, "\n")
}

func (m model) renderCounts() string {
	counts := render.CountByStatus(m.rooms, m.employee)

	parts := make([]string, 0, len(render.Statuses))
	for _, status := range render.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", status, counts[status]))
	}
	return m.theme.TextBody().Render(strings.Join(parts, " · "))
}
