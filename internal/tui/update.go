package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/taxpro/internal/domain"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Left   key.Binding
	Right  key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab/↓", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "previous field")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle option")),
	Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous option")),
	Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset form")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		cmd := m.setConfig(msg.Config)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	if len(m.fields) == 0 {
		return m, nil
	}

	field := m.fields[m.focused]

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Next):
		cmd = m.focusField(m.focused + 1)
		return m, cmd

	case key.Matches(msg, keys.Prev):
		cmd = m.focusField(m.focused - 1)
		return m, cmd

	case key.Matches(msg, keys.Reset):
		cmd = m.setConfig(m.config)
		return m, cmd

	case field.kind == choiceField && key.Matches(msg, keys.Toggle, keys.Right):
		m.cycle(field, 1)
		return m, nil

	case field.kind == choiceField && key.Matches(msg, keys.Left):
		m.cycle(field, -1)
		return m, nil
	}

	if field.kind != numberField {
		return m, nil
	}

	before := field.input.Value()
	field.input, cmd = field.input.Update(msg)
	if field.input.Value() != before {
		field.edited = true
		m.recalculate()
	}
	return m, cmd
}

func (m *Model) cycle(field *formField, delta int) {
	previous := field.Value()
	field.Cycle(delta)
	if field.key == "entity_regime" {
		syncEntityRate(m.fields, domain.EntityRegime(previous))
	}
	m.recalculate()
}
