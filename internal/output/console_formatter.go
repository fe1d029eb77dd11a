package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/domain"
)

const consoleWidth = 64

// ConsoleFormatter renders the four-stage settlement as plain text
type ConsoleFormatter struct {
	// ShowAssumptions appends the rule set the settlement was computed with
	ShowAssumptions bool
}

func (c ConsoleFormatter) Name() string {
	if c.ShowAssumptions {
		return "console-verbose"
	}
	return "console"
}

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	r := &report.Result

	fmt.Fprintln(&buf, strings.Repeat("=", consoleWidth))
	fmt.Fprintf(&buf, "ANNUAL INCOME TAX SETTLEMENT (AT %d)\n", report.Rules.Metadata.TaxYear)
	fmt.Fprintln(&buf, strings.Repeat("=", consoleWidth))
	fmt.Fprintln(&buf)

	for _, stage := range LineItems(report) {
		fmt.Fprintf(&buf, "STEP %d: %s\n", stage.Number, stage.Title)
		fmt.Fprintln(&buf, stage.Question)
		fmt.Fprintln(&buf, strings.Repeat("-", consoleWidth))
		if stage.Number == 3 {
			fmt.Fprintf(&buf, "[%s]\n", BandLabel(r.MarginalRate))
		}
		for _, item := range stage.Items {
			writeConsoleRow(&buf, item)
		}
		if stage.Note != "" {
			fmt.Fprintln(&buf, stage.Note)
		}
		fmt.Fprintln(&buf)
	}

	if c.ShowAssumptions {
		fmt.Fprintln(&buf, "RULES APPLIED:")
		for _, a := range Assumptions(report.Rules, report.Inputs) {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	return buf.Bytes(), nil
}

func writeConsoleRow(buf *bytes.Buffer, item LineItem) {
	amount := item.Display()
	pad := consoleWidth - len([]rune(item.Label)) - len(amount)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(buf, "%s%s%s\n", item.Label, strings.Repeat(" ", pad), amount)
}
