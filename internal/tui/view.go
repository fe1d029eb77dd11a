package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/rgehrsitz/taxpro/internal/tui/components"
)

const formWidth = 46

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}
	if m.config == nil {
		return m.renderApp(BorderStyle.Render("⠋ Loading configuration..."))
	}

	panelWidth := m.width - formWidth - 4
	if panelWidth < 40 {
		panelWidth = 40
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderForm(),
		"  ",
		m.renderSettlement(panelWidth),
	)
	return m.renderApp(body)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("TaxPro")
	subtitle := "Annual income tax settlement"
	if m.engine != nil {
		subtitle = fmt.Sprintf("%s (AT %d)", subtitle, m.engine.Rules.Metadata.TaxYear)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(subtitle))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut(keys.Next),
		formatShortcut(keys.Prev),
		formatShortcut(keys.Toggle),
		formatShortcut(keys.Reset),
		formatShortcut(keys.Quit),
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a key binding with its help text
func formatShortcut(b key.Binding) string {
	h := b.Help()
	return StatusKeyStyle.Render(h.Key) + " " + h.Desc
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i, f := range m.fields {
		labelStyle := FieldLabelStyle
		marker := "  "
		if i == m.focused {
			labelStyle = FocusedFieldLabelStyle
			marker = "▸ "
		}
		label := labelStyle.Width(26).Render(f.label)

		var value string
		if f.kind == choiceField {
			value = "‹ " + f.Value() + " ›"
		} else {
			value = f.input.View()
		}
		b.WriteString(marker + label + value + "\n")
	}

	if m.inputErr != nil {
		b.WriteString("\n" + ErrorStyle.Width(formWidth-4).Render(m.inputErr.Error()))
	}

	return ActiveBorderStyle.Width(formWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderSettlement(width int) string {
	if m.report == nil {
		return BorderStyle.Width(width).Render("Enter your data in the form to see your settlement.")
	}
	r := &m.report.Result

	cardWidth := (width - 2) / 3
	summary := components.MetricGrid([]*components.MetricCard{
		components.NewMetricCard("Gross income", output.FormatPesos(r.GrossIncome)).WithWidth(cardWidth),
		components.NewMetricCard("Taxable base", output.FormatPesos(r.TaxableBase)).
			WithNote(output.BandLabel(r.MarginalRate)).
			WithWidth(cardWidth),
		components.NewBalanceCard(r).WithWidth(cardWidth),
	}, 3)

	return lipgloss.JoinVertical(lipgloss.Left, summary, output.RenderCards(m.report, width))
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress Esc to quit.", m.err.Error()),
	)
	return m.renderApp(content)
}
