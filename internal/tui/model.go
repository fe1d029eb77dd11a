package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
)

// Model is the calculator state: the editable form on the left and the
// settlement it produces on the right
type Model struct {
	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration
	parser     *config.InputParser

	engine *calculation.SettlementEngine

	fields  []*formField
	focused int

	// report is the last valid settlement; it stays on screen while the
	// form holds an invalid value
	report *domain.Report

	// inputErr describes why the current form values cannot be settled
	inputErr error

	// Fatal error state
	err error
}

// NewModel creates the application model. An empty configPath starts from
// the example configuration.
func NewModel(configPath string) Model {
	return Model{
		configPath: configPath,
		parser:     config.NewInputParser(),
		width:      120,
		height:     40,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return ConfigLoadedMsg{Config: config.CreateExampleConfiguration()}
		}

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		return ConfigLoadedMsg{
			Config: cfg,
		}
	}
}

// setConfig rebuilds the form from cfg and settles it
func (m *Model) setConfig(cfg *domain.Configuration) tea.Cmd {
	if err := m.parser.ApplyDefaults(cfg); err != nil {
		m.err = err
		return nil
	}
	m.config = cfg
	m.engine = calculation.NewSettlementEngineWithRules(*cfg.Rules)
	m.fields = buildFields(cfg)
	m.focused = 0
	cmd := m.focusField(0)
	m.recalculate()
	return cmd
}

// recalculate settles the current form values. Invalid input keeps the
// previous report and records why.
func (m *Model) recalculate() {
	if m.config == nil {
		return
	}
	in, err := applyFields(m.config.Taxpayer, m.fields)
	if err == nil {
		err = m.parser.ValidateInputs(&in)
	}
	if err != nil {
		m.inputErr = err
		return
	}

	m.inputErr = nil
	m.report = m.engine.Report(in)
}

func (m *Model) focusField(i int) tea.Cmd {
	if len(m.fields) == 0 {
		return nil
	}
	n := len(m.fields)
	i = ((i % n) + n) % n

	if f := m.fields[m.focused]; f.kind == numberField {
		f.input.Blur()
	}
	m.focused = i
	if f := m.fields[i]; f.kind == numberField {
		return f.input.Focus()
	}
	return nil
}

// Report returns the settlement currently shown
func (m Model) Report() *domain.Report {
	return m.report
}
