package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rgehrsitz/taxpro/internal/domain"
)

// Formatter renders a settlement report in one output format
type Formatter interface {
	Name() string
	Format(report *domain.Report) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *domain.Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.Report) ([]byte, error) { return f.F(report) }

// JSONFormatter emits the inputs, result and staged line items as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.Report) ([]byte, error) {
	doc := struct {
		*domain.Report
		TaxYear int     `json:"tax_year"`
		Band    string  `json:"band"`
		Outcome string  `json:"outcome"`
		Stages  []Stage `json:"stages"`
	}{
		Report:  report,
		TaxYear: report.Rules.Metadata.TaxYear,
		Band:    BandLabel(report.Result.MarginalRate),
		Outcome: OutcomeLabel(&report.Result),
		Stages:  LineItems(report),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to encode report")
	}
	return buf.Bytes(), nil
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleFormatter{ShowAssumptions: true},
	CardsFormatter{Width: 64},
	JSONFormatter{},
	CSVFormatter{},
	HTMLFormatter{},
	PDFFormatter{},
}

var formatAliases = map[string]string{
	"text":    "console",
	"plain":   "console",
	"verbose": "console-verbose",
	"styled":  "cards",
	"pretty":  "cards",
}

// GetFormatterByName returns the formatter for a name or alias, or nil
func GetFormatterByName(name string) Formatter {
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// AvailableFormats lists the registered formatter names
func AvailableFormats() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the alternative names GetFormatterByName accepts
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders report and writes it to a timestamped file in the
// working directory, returning the file name
func WriteFormatted(f Formatter, report *domain.Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", errors.Wrapf(err, "%s formatter", f.Name())
	}
	filename := fmt.Sprintf("tax_settlement_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", filename)
	}
	return filename, nil
}
