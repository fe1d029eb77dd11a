package compare

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
)

// JSONFormatter formats comparison results as JSON. Amounts are whole
// pesos, the unit the annual return is filed in; each one carries a
// formatted twin for display.
type JSONFormatter struct {
	Pretty bool
}

type jsonComparison struct {
	Source           string         `json:"configPath"`
	BaseScenarioName string         `json:"baseScenarioName"`
	Base             *jsonScenario  `json:"baseResult"`
	Alternatives     []jsonScenario `json:"alternativeResults"`
	Recommendations  []string       `json:"recommendations"`
}

type jsonScenario struct {
	Name        string `json:"scenarioName"`
	Description string `json:"description,omitempty"`
	Band        string `json:"band"`
	Outcome     string `json:"outcome"`

	GrossIncome        jsonPesos `json:"grossIncome"`
	SocialSecurityDebt jsonPesos `json:"socialSecurityDebt"`
	TaxableBase        jsonPesos `json:"taxableBase"`
	FinalTax           jsonPesos `json:"finalTax"`
	TotalCredits       jsonPesos `json:"totalCredits"`
	PocketBalance      jsonPesos `json:"pocketBalance"`
	MarginalRate       string    `json:"marginalRate"`

	Diff *jsonDiff `json:"diffFromBase,omitempty"`
}

type jsonDiff struct {
	Balance     jsonPesos `json:"balance"`
	Tax         jsonPesos `json:"finalTax"`
	Debt        jsonPesos `json:"socialSecurityDebt"`
	BandChanged bool      `json:"bandChanged"`
}

type jsonPesos struct {
	Pesos   int64  `json:"pesos"`
	Display string `json:"display"`
}

func pesos(amount decimal.Decimal) jsonPesos {
	return jsonPesos{Pesos: amount.Round(0).IntPart(), Display: output.FormatPesos(amount)}
}

// outcomeOf labels a balance the same way a settlement does: zero or below
// is a refund.
func outcomeOf(balance decimal.Decimal) string {
	if balance.LessThanOrEqual(decimal.Zero) {
		return "REFUND DUE"
	}
	return "AMOUNT PAYABLE"
}

func newJSONScenario(r ComparisonResult, withDiff bool) jsonScenario {
	s := jsonScenario{
		Name:               r.ScenarioName,
		Description:        r.Description,
		Band:               output.BandLabel(r.MarginalRate),
		Outcome:            outcomeOf(r.PocketBalance),
		GrossIncome:        pesos(r.GrossIncome),
		SocialSecurityDebt: pesos(r.SocialSecurityDebt),
		TaxableBase:        pesos(r.TaxableBase),
		FinalTax:           pesos(r.FinalTax),
		TotalCredits:       pesos(r.TotalCredits),
		PocketBalance:      pesos(r.PocketBalance),
		MarginalRate:       output.FormatRate(r.MarginalRate),
	}
	if withDiff {
		s.Diff = &jsonDiff{
			Balance:     pesos(r.BalanceDiffFromBase),
			Tax:         pesos(r.TaxDiffFromBase),
			Debt:        pesos(r.DebtDiffFromBase),
			BandChanged: r.BandChanged,
		}
	}
	return s
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	doc := jsonComparison{
		Source:           compSet.ConfigPath,
		BaseScenarioName: compSet.BaseScenarioName,
		Alternatives:     make([]jsonScenario, 0, len(compSet.AlternativeResults)),
		Recommendations:  compSet.Recommendations,
	}
	if compSet.BaseResult != nil {
		base := newJSONScenario(*compSet.BaseResult, false)
		doc.Base = &base
	}
	for _, alt := range compSet.AlternativeResults {
		doc.Alternatives = append(doc.Alternatives, newJSONScenario(alt, true))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return "", errors.Wrap(err, "failed to encode comparison")
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
