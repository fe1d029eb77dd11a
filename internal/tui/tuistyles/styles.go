// Package tuistyles holds the lipgloss palette and styles shared by the
// terminal views. It sits below both tui and output so neither has to import
// the other.
package tuistyles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#FF9500")
	ColorSecondary = lipgloss.Color("#FFDBB3")
	ColorAccent    = lipgloss.Color("#FFB340")
	ColorSuccess   = lipgloss.Color("#34C759")
	ColorDanger    = lipgloss.Color("#FF3B30")
	ColorInfo      = lipgloss.Color("#007AFF")

	ColorBackground = lipgloss.Color("#F5F5F7")
	ColorForeground = lipgloss.Color("#1D1D1F")
	ColorMuted      = lipgloss.Color("#86868B")
	ColorBorder     = lipgloss.Color("#E5E5EA")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	StepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	CardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground)

	NoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorMuted)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)

	MetricNegativeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorDanger)

	ExemptBandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorBorder).
			Padding(0, 1)

	TaxedBandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	FocusedFieldLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	TableCellStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	TableHighlightStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)
)

// MetricTrendStyle colours a value by direction
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// OutcomeMarker prefixes a refund or payable caption
func OutcomeMarker(refund bool) string {
	if refund {
		return "✓"
	}
	return "!"
}

// BandStyle picks the badge style for a marginal-rate band
func BandStyle(exempt bool) lipgloss.Style {
	if exempt {
		return ExemptBandStyle
	}
	return TaxedBandStyle
}
