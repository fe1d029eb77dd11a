package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Gross Income",
		"Social Security Debt",
		"Taxable Base",
		"Final Tax",
		"Marginal Rate",
		"Total Credits",
		"Pocket Balance",
		"Balance Diff from Base",
		"Tax Diff from Base",
		"Band Changed",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.GrossIncome.StringFixed(2),
		result.SocialSecurityDebt.StringFixed(2),
		result.TaxableBase.StringFixed(2),
		result.FinalTax.StringFixed(2),
		result.MarginalRate.String(),
		result.TotalCredits.StringFixed(2),
		result.PocketBalance.StringFixed(2),
		result.BalanceDiffFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		strconv.FormatBool(result.BandChanged),
	}
}
