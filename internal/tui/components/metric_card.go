package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/rgehrsitz/taxpro/internal/tui/tuistyles"
)

// Outcome tints a card by which way the settlement goes
type Outcome int

const (
	// NoOutcome is a plain figure such as gross income
	NoOutcome Outcome = iota
	Refund
	Payable
)

// MetricCard shows one settlement figure. Cards built from the balance carry
// an outcome: the amount is shown unsigned and the caption says whether the
// treasury pays it back or the taxpayer owes it.
type MetricCard struct {
	Label   string
	Value   string
	Caption string
	Note    string
	Outcome Outcome
	Width   int
}

// NewMetricCard creates a plain figure card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// NewBalanceCard creates the card for the final pocket balance
func NewBalanceCard(r *domain.SettlementResult) *MetricCard {
	card := NewMetricCard("Balance", output.FormatPesos(r.PocketBalance.Abs()))
	card.Caption = output.OutcomeLabel(r)
	card.Outcome = Payable
	if r.IsRefund() {
		card.Outcome = Refund
	}
	return card
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

func (m *MetricCard) valueStyle() lipgloss.Style {
	switch m.Outcome {
	case Refund:
		return tuistyles.MetricPositiveStyle
	case Payable:
		return tuistyles.MetricNegativeStyle
	}
	return tuistyles.MetricValueStyle
}

func (m *MetricCard) borderColor() lipgloss.Color {
	switch m.Outcome {
	case Refund:
		return tuistyles.ColorSuccess
	case Payable:
		return tuistyles.ColorDanger
	}
	return tuistyles.ColorBorder
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	lines := []string{
		tuistyles.MetricLabelStyle.Render(m.Label),
		m.valueStyle().Render(m.Value),
	}
	if m.Caption != "" {
		lines = append(lines, m.valueStyle().Render(tuistyles.OutcomeMarker(m.Outcome == Refund)+" "+m.Caption))
	}
	if m.Note != "" {
		lines = append(lines, tuistyles.SubtitleStyle.Render(m.Note))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor()).
		Padding(0, 1).
		Width(m.Width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderCompact returns a one-line version; outcome cards lead with the
// caption so "REFUND DUE: $411.254" reads on its own.
func (m *MetricCard) RenderCompact() string {
	label := m.Label
	if m.Caption != "" {
		label = m.Caption
	}
	return tuistyles.MetricLabelStyle.Render(label+":") + " " + m.valueStyle().Render(m.Value)
}

// MetricGrid lays cards out in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		row := make([]string, 0, end-start)
		for _, card := range cards[start:end] {
			row = append(row, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
