package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/turndownhq/turndown/client/prefs"
	turndown "github.com/turndownhq/turndown/sdk"
)

type setupMode int

const (
	joinMode setupMode = iota
	createMode
	employeeMode
)

type setupState struct {
	mode    setupMode
	focus   int
	error   string
	binding bool

	code     textinput.Model
	date     textinput.Model
	employee textinput.Model

	// createMode input
	name textinput.Model

	// employeeMode input
	newEmployee textinput.Model
}

func newSetupState(saved *prefs.Preferences) setupState {
	code := textinput.New()
	code.Placeholder = "ABC234"
	code.CharLimit = 6
	code.Width = 20
	code.SetValue(saved.PropertyCode)
	code.Focus()

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	date.Width = 20
	if saved.Date != "" {
		date.SetValue(saved.Date)
	} else {
		date.SetValue(time.Now().Format("2006-01-02"))
	}

	employee := textinput.New()
	employee.Placeholder = "your name (blank = all rooms)"
	employee.CharLimit = 60
	employee.Width = 30
	employee.SetValue(saved.Employee)

	name := textinput.New()
	name.Placeholder = "property name"
	name.CharLimit = 100
	name.Width = 30

	newEmployee := textinput.New()
	newEmployee.Placeholder = "employee name"
	newEmployee.CharLimit = 60
	newEmployee.Width = 30

	return setupState{
		mode:        joinMode,
		code:        code,
		date:        date,
		employee:    employee,
		name:        name,
		newEmployee: newEmployee,
	}
}

// fields returns the focusable inputs for the current mode, in order.
func (s *setupState) fields() []*textinput.Model {
	switch s.mode {
	case createMode:
		return []*textinput.Model{&s.name}
	case employeeMode:
		return []*textinput.Model{&s.newEmployee}
	}
	return []*textinput.Model{&s.code, &s.date, &s.employee}
}

func (s *setupState) focusField(idx int) tea.Cmd {
	fields := s.fields()
	if len(fields) == 0 {
		return nil
	}
	s.focus = ((idx % len(fields)) + len(fields)) % len(fields)

	var cmd tea.Cmd
	for i, field := range fields {
		if i == s.focus {
			cmd = field.Focus()
		} else {
			field.Blur()
		}
	}
	return cmd
}

func (s *setupState) switchMode(mode setupMode) tea.Cmd {
	s.mode = mode
	s.error = ""
	return s.focusField(0)
}

func textBlink(m model) tea.Cmd {
	return textinput.Blink
}

func (m model) SetupUpdate(msg tea.Msg) (model, tea.Cmd) {
	s := &m.state.setup

	switch msg := msg.(type) {
	case propertyCreatedMsg:
		// Drop back to the join form with the fresh code filled in
		s.code.SetValue(msg.code)
		s.error = ""
		return m, s.switchMode(joinMode)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tab):
			if msg.String() == "shift+tab" {
				return m, s.focusField(s.focus - 1)
			}
			return m, s.focusField(s.focus + 1)

		case key.Matches(msg, keys.Back):
			if s.mode != joinMode {
				return m, s.switchMode(joinMode)
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			return m.setupSubmit()

		case msg.String() == "ctrl+n":
			return m, s.switchMode(createMode)

		case msg.String() == "ctrl+e":
			return m, s.switchMode(employeeMode)
		}
	}

	cmds := make([]tea.Cmd, 0, 3)
	for _, field := range s.fields() {
		var cmd tea.Cmd
		*field, cmd = field.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m model) setupSubmit() (model, tea.Cmd) {
	s := &m.state.setup

	switch s.mode {
	case createMode:
		name := strings.TrimSpace(s.name.Value())
		if name == "" {
			s.error = "property name is required"
			return m, nil
		}
		return m, m.createProperty(name)

	case employeeMode:
		code := strings.ToUpper(strings.TrimSpace(s.code.Value()))
		employee := strings.TrimSpace(s.newEmployee.Value())
		if code == "" {
			s.error = "enter a property code on the join form first"
			return m, nil
		}
		if employee == "" {
			s.error = "employee name is required"
			return m, nil
		}
		return m, m.addEmployee(code, employee)
	}

	code := strings.ToUpper(strings.TrimSpace(s.code.Value()))
	date := strings.TrimSpace(s.date.Value())
	employee := strings.TrimSpace(s.employee.Value())

	if len(code) != 6 {
		s.error = "property code must be 6 characters"
		return m, nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		s.error = "date must be YYYY-MM-DD"
		return m, nil
	}

	if err := m.prefs.Set(&prefs.Preferences{
		PropertyCode: code,
		Date:         date,
		Employee:     employee,
	}); err != nil {
		s.error = err.Error()
		return m, nil
	}

	s.error = ""
	s.binding = true
	m.employee = employee
	return m, m.bindBoard(code, date, employee)
}

func (m model) createProperty(name string) tea.Cmd {
	client := m.client
	ctx := m.context

	return func() tea.Msg {
		property, err := client.Properties.New(ctx, turndown.PropertyNewParams{Name: name})
		if err != nil {
			return visibleError{message: err.Error()}
		}
		return propertyCreatedMsg{code: property.Code, name: property.Name}
	}
}

func (m model) addEmployee(code, employee string) tea.Cmd {
	client := m.client
	ctx := m.context

	return func() tea.Msg {
		if _, err := client.Properties.AddEmployee(ctx, code, turndown.AddEmployeeParams{Name: employee}); err != nil {
			return visibleError{message: err.Error()}
		}
		return propertyCreatedMsg{code: code}
	}
}

func (m model) SetupView() string {
	s := m.state.setup
	t := m.theme

	var b strings.Builder
	b.WriteString(t.TextBrand().Bold(true).Render("Turndown"))
	b.WriteString("\n")
	b.WriteString(t.TextBody().Render("housekeeping board"))
	b.WriteString("\n\n")

	switch s.mode {
	case createMode:
		b.WriteString(t.TextAccent().Render("Create a property"))
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("Name"))
		b.WriteString("\n")
		b.WriteString(s.name.View())
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("enter create · esc back"))

	case employeeMode:
		b.WriteString(t.TextAccent().Render("Add an employee"))
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("Name"))
		b.WriteString("\n")
		b.WriteString(s.newEmployee.View())
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("enter add · esc back"))

	default:
		b.WriteString(t.TextAccent().Render("Join a board"))
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("Property code"))
		b.WriteString("\n")
		b.WriteString(s.code.View())
		b.WriteString("\n")
		b.WriteString(t.TextBody().Render("Date"))
		b.WriteString("\n")
		b.WriteString(s.date.View())
		b.WriteString("\n")
		b.WriteString(t.TextBody().Render("Employee"))
		b.WriteString("\n")
		b.WriteString(s.employee.View())
		b.WriteString("\n\n")
		b.WriteString(t.TextBody().Render("enter join · tab next field · ctrl+n new property · ctrl+e add employee"))
	}

	if s.binding {
		b.WriteString("\n\n")
		b.WriteString(t.TextHighlight().Render("connecting..."))
	}
	if s.error != "" {
		b.WriteString("\n\n")
		b.WriteString(t.TextError().Render(s.error))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
