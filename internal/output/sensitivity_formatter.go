package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// SweepFormatter renders a parameter sweep
type SweepFormatter interface {
	Name() string
	FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error)
}

// percentParameters are sweep inputs expressed in percent rather than pesos
var percentParameters = map[string]bool{
	"withholding_rate": true,
	"afp_commission":   true,
	"coverage_factor":  true,
}

// FormatParameterValue renders a value of the named sweepable input as
// pesos or as a percentage
func FormatParameterValue(parameter string, v decimal.Decimal) string {
	if percentParameters[parameter] {
		return FormatPercent(v)
	}
	return FormatPesos(v)
}

// SweepConsoleFormatter prints the sweep as an aligned table
type SweepConsoleFormatter struct{}

func (s SweepConsoleFormatter) Name() string { return "console" }

func (s SweepConsoleFormatter) FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error) {
	if len(analysis.Points) == 0 {
		return nil, errors.New("no points in sweep")
	}
	var buf bytes.Buffer
	p := analysis.Parameter

	fmt.Fprintf(&buf, "PARAMETER SWEEP: %s\n", strings.ToUpper(strings.ReplaceAll(p.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 84))
	fmt.Fprintf(&buf, "Base Case: %s\n", FormatParameterValue(p.Name, analysis.Baseline.Value))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n", FormatParameterValue(p.Name, p.From), FormatParameterValue(p.Name, p.To), p.Steps)
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-22s %-16s %-14s %-8s %-16s\n", p.Name, "Taxable Base", "Final Tax", "Band", "Balance")
	fmt.Fprintln(&buf, strings.Repeat("-", 84))
	for _, pt := range analysis.Points {
		value := FormatParameterValue(p.Name, pt.Value)
		if pt.Value.Equal(analysis.Baseline.Value) {
			value += " ← BASE"
		}
		fmt.Fprintf(&buf, "%-22s %-16s %-14s %-8s %-16s\n",
			value,
			FormatPesos(pt.TaxableBase),
			FormatPesos(pt.FinalTax),
			FormatRate(pt.MarginalRate),
			FormatPesos(pt.PocketBalance))
	}
	fmt.Fprintln(&buf)

	first := analysis.Points[0]
	last := analysis.Points[len(analysis.Points)-1]
	fmt.Fprintf(&buf, "Balance moves from %s to %s across the range (baseline %s).\n",
		FormatPesos(first.PocketBalance), FormatPesos(last.PocketBalance), FormatPesos(analysis.Baseline.PocketBalance))

	return buf.Bytes(), nil
}

// SweepCSVFormatter writes one row per sweep point
type SweepCSVFormatter struct{}

func (s SweepCSVFormatter) Name() string { return "csv" }

func (s SweepCSVFormatter) FormatSweep(analysis *domain.SweepAnalysis) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{analysis.Parameter.Name, "TaxableBase", "FinalTax", "MarginalRate", "TotalCredits", "PocketBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, pt := range analysis.Points {
		row := []string{
			pt.Value.String(),
			pt.TaxableBase.StringFixed(2),
			pt.FinalTax.StringFixed(2),
			pt.MarginalRate.String(),
			pt.TotalCredits.StringFixed(2),
			pt.PocketBalance.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// GetSweepFormatterByName returns the sweep formatter for name, or nil
func GetSweepFormatterByName(name string) SweepFormatter {
	switch name {
	case "console", "text":
		return SweepConsoleFormatter{}
	case "csv":
		return SweepCSVFormatter{}
	}
	return nil
}
