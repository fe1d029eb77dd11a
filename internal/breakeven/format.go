package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder
	p := result.Request.Parameter

	sb.WriteString("BREAK-EVEN SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Parameter:           %s\n", p))
	sb.WriteString(fmt.Sprintf("Metric:              %s\n", result.Request.Metric))
	sb.WriteString(fmt.Sprintf("Goal:                %s\n", result.Request.Goal))
	if t := result.Request.Constraints.Target; t != nil {
		sb.WriteString(fmt.Sprintf("Target:              %s\n", output.FormatPesos(*t)))
	}
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%s:%s%s (now %s)\n", p, tf.pad(p, 21),
		output.FormatParameterValue(p, result.OptimalValue), output.FormatParameterValue(p, result.BaseValue)))
	sb.WriteString(fmt.Sprintf("Final Tax:           %s\n", output.FormatPesos(result.FinalTax)))
	sb.WriteString(fmt.Sprintf("Marginal Bracket:    %s\n", output.BandLabel(result.MarginalRate)))
	sb.WriteString(fmt.Sprintf("Pocket Balance:      %s\n", output.FormatPesos(result.PocketBalance)))
	sb.WriteString("\n")

	if !result.MetricDiffFromBase.IsZero() {
		sb.WriteString("COMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("%s change: %s%s\n", result.Request.Metric,
			tf.deltaSymbol(result.MetricDiffFromBase), output.FormatPesos(result.MetricDiffFromBase)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-LEVER SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("SUMMARY (%s, %s)\n", result.Goal, result.Metric))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %15s %15s %14s %14s\n",
		"Lever", "Value", "Metric", "Final Tax", "Balance"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		p := res.Request.Parameter
		sb.WriteString(fmt.Sprintf("%-18s %15s %15s %14s %14s\n",
			tf.truncate(p, 18),
			output.FormatParameterValue(p, res.OptimalValue),
			tf.formatShort(res.MetricValue),
			tf.formatShort(res.FinalTax),
			tf.formatShort(res.PocketBalance)))
	}
	sb.WriteString("\n")

	sb.WriteString("BEST LEVERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.BestByMetric != nil {
		sb.WriteString(fmt.Sprintf("Lowest %s: %s (%s)\n", result.Metric,
			result.BestByMetric.Request.Parameter, output.FormatPesos(result.BestByMetric.MetricValue)))
	}
	if result.BestByTax != nil {
		sb.WriteString(fmt.Sprintf("Lowest tax:    %s (%s)\n",
			result.BestByTax.Request.Parameter, output.FormatPesos(result.BestByTax.FinalTax)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

// formatShort abbreviates pesos to thousands or millions
func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	abs := d.Abs()
	if abs.GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return sign + "$" + abs.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if abs.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return sign + "$" + abs.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return sign + "$" + abs.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) pad(label string, width int) string {
	if n := width - len(label) - 1; n > 0 {
		return strings.Repeat(" ", n)
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
