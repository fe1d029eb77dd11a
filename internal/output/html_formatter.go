package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/pkg/errors"
	"github.com/rgehrsitz/taxpro/internal/domain"
)

// HTMLFormatter produces a standalone HTML page with the four stage cards
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pesos": FormatPesos,
	"rate":  FormatRate,
	"kindClass": func(k ItemKind) string {
		switch k {
		case ChargeItem:
			return "charge"
		case BenefitItem:
			return "benefit"
		case BalanceItem:
			return "balance"
		case TotalItem:
			return "total"
		}
		return ""
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.Report
		Stages      []Stage
		Band        string
		Exempt      bool
		Outcome     string
		Refund      bool
		Assumptions []string
	}{
		Report:      report,
		Stages:      LineItems(report),
		Band:        BandLabel(report.Result.MarginalRate),
		Exempt:      report.Result.MarginalRate.IsZero(),
		Outcome:     OutcomeLabel(&report.Result),
		Refund:      report.Result.IsRefund(),
		Assumptions: Assumptions(report.Rules, report.Inputs),
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to render HTML report")
	}
	return buf.Bytes(), nil
}
