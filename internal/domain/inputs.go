package domain

import (
	"github.com/shopspring/decimal"
)

// ExpenseMethod selects how fee-income expenses are deducted
type ExpenseMethod string

const (
	// PresumedExpense deducts a flat share of gross fees, capped in UTA
	PresumedExpense ExpenseMethod = "presumed"
	// ActualExpense deducts the caller-supplied ActualExpenseAmount
	ActualExpense ExpenseMethod = "actual"
)

// CoverageMode selects how much of the fee contribution base is charged for
// health and retirement contributions
type CoverageMode string

const (
	FullCoverage    CoverageMode = "full"
	PartialCoverage CoverageMode = "partial"
)

// EntityRegime is the tax regime of the company paying withdrawals
type EntityRegime string

const (
	// SimplifiedRegime (ProPyme) does not owe restitution on the gross-up
	SimplifiedRegime     EntityRegime = "simplified"
	SemiIntegratedRegime EntityRegime = "semi_integrated"
)

// TaxInputs is the complete input record for one annual settlement.
// All money fields share the same currency unit (CLP).
type TaxInputs struct {
	// Income sources
	SalaryIncome   decimal.Decimal `yaml:"salary_income" json:"salary_income"`
	GrossFeeIncome decimal.Decimal `yaml:"gross_fee_income" json:"gross_fee_income"`
	Withdrawals    decimal.Decimal `yaml:"withdrawals" json:"withdrawals"`
	OtherIncome    decimal.Decimal `yaml:"other_income" json:"other_income"`

	// Benefits
	MortgageInterest decimal.Decimal `yaml:"mortgage_interest" json:"mortgage_interest"`
	VoluntarySavings decimal.Decimal `yaml:"voluntary_savings" json:"voluntary_savings"`

	// Reference values
	MonthlyTaxUnitValue decimal.Decimal `yaml:"uta" json:"uta"`
	InflationUnitValue  decimal.Decimal `yaml:"uf" json:"uf"`

	// Regime flags
	ExpenseMethod            ExpenseMethod   `yaml:"expense_method" json:"expense_method"`
	ActualExpenseAmount      decimal.Decimal `yaml:"actual_expense_amount,omitempty" json:"actual_expense_amount,omitempty"`
	CoverageMode             CoverageMode    `yaml:"coverage_mode" json:"coverage_mode"`
	PartialCoverageFactorPct decimal.Decimal `yaml:"partial_coverage_factor_pct,omitempty" json:"partial_coverage_factor_pct,omitempty"`
	EntityRegime             EntityRegime    `yaml:"entity_regime" json:"entity_regime"`
	EntityTaxRatePct         decimal.Decimal `yaml:"entity_tax_rate_pct" json:"entity_tax_rate_pct"`

	// Credits and withholdings
	IncomeTaxCredit    CreditSource    `yaml:"income_tax_credit" json:"income_tax_credit"`
	FeeWithholding     CreditSource    `yaml:"fee_withholding" json:"fee_withholding"`
	WithholdingRatePct decimal.Decimal `yaml:"withholding_rate_pct" json:"withholding_rate_pct"`
	FullWithholding    bool            `yaml:"full_withholding" json:"full_withholding"`

	AFPCommissionPct decimal.Decimal `yaml:"afp_commission_pct" json:"afp_commission_pct"`
}

// Configuration is the content of a taxpayer input file
type Configuration struct {
	Taxpayer TaxInputs `yaml:"taxpayer" json:"taxpayer"`

	// AFP names a pension fund manager preset; when set it overrides
	// Taxpayer.AFPCommissionPct
	AFP string `yaml:"afp,omitempty" json:"afp,omitempty"`

	// Rules optionally embeds a rule set; a separate rules file takes precedence
	Rules *TaxYearRules `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Report bundles everything a presentation layer needs for one settlement
type Report struct {
	Inputs TaxInputs        `json:"inputs"`
	Rules  TaxYearRules     `json:"-"`
	Result SettlementResult `json:"result"`
}
