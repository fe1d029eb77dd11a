package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
)

const tableWidth = 86

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("SETTLEMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 26
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Taxable Base",
		numWidth, "Final Tax",
		numWidth, "Credits",
		numWidth, "Balance"))
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	sb.WriteString("A negative balance is a refund.\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s: %s\n", alt.ScenarioName, alt.Description))
			sb.WriteString(fmt.Sprintf("  Settlement:       %s\n", tf.balanceImpact(alt.BalanceDiffFromBase)))

			if !alt.TaxDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Tax Impact:       %s\n", output.FormatSignedPesos(alt.TaxDiffFromBase)))
			}
			if !alt.DebtDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Social Security:  %s\n", output.FormatSignedPesos(alt.DebtDiffFromBase)))
			}
			if alt.BandChanged {
				sb.WriteString(fmt.Sprintf("  Bracket:          %s\n", output.BandLabel(alt.MarginalRate)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", tableWidth) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, output.FormatPesos(result.TaxableBase),
		numWidth, output.FormatPesos(result.FinalTax),
		numWidth, output.FormatPesos(result.TotalCredits),
		numWidth, output.FormatPesos(result.PocketBalance))
}

// balanceImpact describes a balance difference from the taxpayer's side
func (tf *TableFormatter) balanceImpact(diff decimal.Decimal) string {
	switch {
	case diff.IsNegative():
		return "better by " + output.FormatPesos(diff.Abs())
	case diff.IsPositive():
		return "worse by " + output.FormatPesos(diff)
	default:
		return "unchanged"
	}
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.BalanceDiffFromBase.IsZero() {
			change = output.FormatSignedPesos(alt.BalanceDiffFromBase)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
