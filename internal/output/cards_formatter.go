package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/tui/tuistyles"
)

// CardsFormatter renders each stage as a bordered terminal card with
// colour-coded amounts
type CardsFormatter struct {
	Width int
}

func (c CardsFormatter) Name() string { return "cards" }

func (c CardsFormatter) Format(report *domain.Report) ([]byte, error) {
	return []byte(RenderCards(report, c.Width) + "\n"), nil
}

// RenderCards lays the four stage cards out vertically. The TUI reuses it
// for its live settlement panel.
func RenderCards(report *domain.Report, width int) string {
	if width < 40 {
		width = 40
	}
	stages := LineItems(report)
	cards := make([]string, 0, len(stages))
	for _, s := range stages {
		if s.Number == len(stages) {
			cards = append(cards, renderOutcomeCard(s, &report.Result, width))
			continue
		}
		cards = append(cards, renderStageCard(s, &report.Result, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderStageCard(s Stage, r *domain.SettlementResult, width int) string {
	inner := width - 4
	var b strings.Builder

	b.WriteString(tuistyles.StepStyle.Render(stepHeading(s)))
	b.WriteString("\n")
	b.WriteString(tuistyles.CardTitleStyle.Render(s.Question))
	b.WriteString("\n")

	if s.Number == 3 {
		b.WriteString(tuistyles.BandStyle(r.MarginalRate.IsZero()).Render(BandLabel(r.MarginalRate)))
		b.WriteString("\n")
	}

	for _, item := range s.Items {
		b.WriteString(renderRow(item, inner))
		b.WriteString("\n")
	}

	if s.Note != "" {
		b.WriteString(tuistyles.NoteStyle.Width(inner).Render(s.Note))
	}

	return tuistyles.BorderStyle.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func renderOutcomeCard(s Stage, r *domain.SettlementResult, width int) string {
	amountStyle := tuistyles.MetricTrendStyle(r.IsRefund())
	content := lipgloss.JoinVertical(lipgloss.Center,
		tuistyles.StepStyle.Render(s.Title),
		amountStyle.Render(FormatPesos(r.PocketBalance.Abs())),
		tuistyles.CardTitleStyle.Render(OutcomeLabel(r)),
	)
	return tuistyles.ActiveBorderStyle.
		Width(width - 2).
		Align(lipgloss.Center).
		Render(content)
}

func renderRow(item LineItem, width int) string {
	label := tuistyles.MetricLabelStyle.Render(item.Label)
	amount := amountStyle(item).Render(item.Display())
	if item.Kind == TotalItem {
		label = tuistyles.MetricValueStyle.Render(item.Label)
	}
	gap := width - lipgloss.Width(label) - lipgloss.Width(amount)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + amount
}

func amountStyle(item LineItem) lipgloss.Style {
	switch item.Kind {
	case ChargeItem:
		return tuistyles.MetricNegativeStyle
	case BenefitItem:
		return tuistyles.MetricPositiveStyle
	case BalanceItem:
		return tuistyles.MetricTrendStyle(!item.Amount.IsNegative())
	case TotalItem:
		return tuistyles.MetricValueStyle
	default:
		return tuistyles.TableCellStyle
	}
}

func stepHeading(s Stage) string {
	return fmt.Sprintf("STEP %d: %s", s.Number, s.Title)
}
