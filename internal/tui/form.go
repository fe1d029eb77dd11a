package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

type fieldKind int

const (
	numberField fieldKind = iota
	choiceField
)

const customAFP = "custom"

// formField is one editable row of the calculator form. Number fields wrap
// a text input; choice fields cycle through fixed options.
type formField struct {
	key     string
	label   string
	kind    fieldKind
	input   textinput.Model
	options []string
	choice  int
	edited  bool // typed into since the form was built
}

func newNumberField(key, label string, value decimal.Decimal) *formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 16
	ti.Width = 14
	ti.SetValue(value.String())
	return &formField{key: key, label: label, kind: numberField, input: ti}
}

func newChoiceField(key, label string, options []string, selected string) *formField {
	f := &formField{key: key, label: label, kind: choiceField, options: options}
	for i, o := range options {
		if o == selected {
			f.choice = i
		}
	}
	return f
}

// Value is the field's current text
func (f *formField) Value() string {
	if f.kind == choiceField {
		return f.options[f.choice]
	}
	return f.input.Value()
}

// Cycle moves a choice field by delta, wrapping around
func (f *formField) Cycle(delta int) {
	if f.kind != choiceField || len(f.options) == 0 {
		return
	}
	n := len(f.options)
	f.choice = ((f.choice+delta)%n + n) % n
}

// fieldByKey finds a field, or nil
func fieldByKey(fields []*formField, key string) *formField {
	for _, f := range fields {
		if f.key == key {
			return f
		}
	}
	return nil
}

// syncEntityRate follows a regime change with the entity rate field. A rate
// typed by hand, or one that is neither blank nor the previous regime's
// default, is left alone.
func syncEntityRate(fields []*formField, previous domain.EntityRegime) {
	regime, rate := fieldByKey(fields, "entity_regime"), fieldByKey(fields, "entity_tax_rate_pct")
	if regime == nil || rate == nil || rate.edited {
		return
	}
	current, err := rate.Decimal()
	if err != nil {
		return
	}
	if !current.IsZero() && !current.Equal(domain.DefaultEntityTaxRatePct(previous)) {
		return
	}
	rate.input.SetValue(domain.DefaultEntityTaxRatePct(domain.EntityRegime(regime.Value())).String())
}

// Decimal parses a number field. Blank means zero; '$', ',' and '_' are
// ignored so amounts can be typed with separators.
func (f *formField) Decimal() (decimal.Decimal, error) {
	raw := strings.NewReplacer("$", "", ",", "", "_", "", " ", "").Replace(f.input.Value())
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", f.label, f.input.Value())
	}
	return d, nil
}

func boolOption(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func creditOption(c domain.CreditSource) string {
	if c.IsManual() {
		return "manual"
	}
	return "auto"
}

func afpOptions() []string {
	return append(domain.AFPNames(), customAFP)
}

func selectedAFP(cfg *domain.Configuration) string {
	if cfg.AFP != "" {
		if _, ok := domain.LookupAFPCommission(cfg.AFP); ok {
			return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cfg.AFP), " ", ""))
		}
	}
	for _, name := range domain.AFPNames() {
		if domain.AFPCommissions[name].Equal(cfg.Taxpayer.AFPCommissionPct) {
			return name
		}
	}
	return customAFP
}

// buildFields lays out the form in the order of the original calculator's
// tabs: income, entity, benefits, payments and parameters
func buildFields(cfg *domain.Configuration) []*formField {
	in := cfg.Taxpayer
	salaryCredit, _ := in.IncomeTaxCredit.ManualAmount()
	withholding, _ := in.FeeWithholding.ManualAmount()

	return []*formField{
		newNumberField("salary_income", "Taxable salaries", in.SalaryIncome),
		newNumberField("gross_fee_income", "Gross fees", in.GrossFeeIncome),
		newChoiceField("coverage_mode", "Coverage", []string{string(domain.PartialCoverage), string(domain.FullCoverage)}, string(in.CoverageMode)),
		newNumberField("partial_coverage_factor_pct", "Coverage factor %", in.PartialCoverageFactorPct),
		newChoiceField("afp", "AFP", afpOptions(), selectedAFP(cfg)),
		newNumberField("afp_commission_pct", "AFP commission % (custom)", in.AFPCommissionPct),
		newChoiceField("full_withholding", "Full withholding", []string{"yes", "no"}, boolOption(in.FullWithholding)),
		newChoiceField("expense_method", "Expenses", []string{string(domain.PresumedExpense), string(domain.ActualExpense)}, string(in.ExpenseMethod)),
		newNumberField("actual_expense_amount", "Actual expenses", in.ActualExpenseAmount),

		newNumberField("withdrawals", "Withdrawals", in.Withdrawals),
		newChoiceField("entity_regime", "Entity regime", []string{string(domain.SimplifiedRegime), string(domain.SemiIntegratedRegime)}, string(in.EntityRegime)),
		newNumberField("entity_tax_rate_pct", "Entity tax rate %", in.EntityTaxRatePct),
		newNumberField("other_income", "Other income", in.OtherIncome),

		newNumberField("mortgage_interest", "Mortgage interest", in.MortgageInterest),
		newNumberField("voluntary_savings", "Voluntary savings", in.VoluntarySavings),

		newChoiceField("income_tax_credit", "Salary tax credit", []string{"auto", "manual"}, creditOption(in.IncomeTaxCredit)),
		newNumberField("income_tax_credit_amount", "Manual salary credit", salaryCredit),
		newChoiceField("fee_withholding", "Fee withholding", []string{"auto", "manual"}, creditOption(in.FeeWithholding)),
		newNumberField("fee_withholding_amount", "Manual withholding", withholding),

		newNumberField("uta", "UTA value", in.MonthlyTaxUnitValue),
		newNumberField("uf", "UF value", in.InflationUnitValue),
		newNumberField("withholding_rate_pct", "Withholding rate %", in.WithholdingRatePct),
	}
}

// applyFields reads the form back into a copy of base
func applyFields(base domain.TaxInputs, fields []*formField) (domain.TaxInputs, error) {
	in := base
	values := make(map[string]string, len(fields))
	numbers := make(map[string]decimal.Decimal, len(fields))

	for _, f := range fields {
		values[f.key] = f.Value()
		if f.kind == numberField {
			d, err := f.Decimal()
			if err != nil {
				return base, err
			}
			numbers[f.key] = d
		}
	}

	in.SalaryIncome = numbers["salary_income"]
	in.GrossFeeIncome = numbers["gross_fee_income"]
	in.Withdrawals = numbers["withdrawals"]
	in.OtherIncome = numbers["other_income"]
	in.MortgageInterest = numbers["mortgage_interest"]
	in.VoluntarySavings = numbers["voluntary_savings"]
	in.MonthlyTaxUnitValue = numbers["uta"]
	in.InflationUnitValue = numbers["uf"]
	in.PartialCoverageFactorPct = numbers["partial_coverage_factor_pct"]
	in.WithholdingRatePct = numbers["withholding_rate_pct"]

	in.CoverageMode = domain.CoverageMode(values["coverage_mode"])
	in.EntityRegime = domain.EntityRegime(values["entity_regime"])
	in.EntityTaxRatePct = domain.EntityTaxRateOrDefault(in.EntityRegime, numbers["entity_tax_rate_pct"])
	in.FullWithholding = values["full_withholding"] == "yes"

	in.ExpenseMethod = domain.ExpenseMethod(values["expense_method"])
	in.ActualExpenseAmount = decimal.Zero
	if in.ExpenseMethod == domain.ActualExpense {
		in.ActualExpenseAmount = numbers["actual_expense_amount"]
	}

	in.AFPCommissionPct = numbers["afp_commission_pct"]
	if pct, ok := domain.LookupAFPCommission(values["afp"]); ok {
		in.AFPCommissionPct = pct
	}

	in.IncomeTaxCredit = domain.AutoCredit()
	if values["income_tax_credit"] == "manual" {
		in.IncomeTaxCredit = domain.ManualCredit(numbers["income_tax_credit_amount"])
	}
	in.FeeWithholding = domain.AutoCredit()
	if values["fee_withholding"] == "manual" {
		in.FeeWithholding = domain.ManualCredit(numbers["fee_withholding_amount"])
	}

	return in, nil
}
