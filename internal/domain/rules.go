package domain

import (
	"github.com/shopspring/decimal"
)

// BracketSentinelUTA is the upper bound of the last bracket; it stands in for +∞
var BracketSentinelUTA = decimal.NewFromInt(999999)

// TaxBracket is one row of the progressive schedule, expressed in UTA
type TaxBracket struct {
	LowerUTA     decimal.Decimal `yaml:"lower" json:"lower"`
	UpperUTA     decimal.Decimal `yaml:"upper" json:"upper"`
	Rate         decimal.Decimal `yaml:"rate" json:"rate"`
	DeductionUTA decimal.Decimal `yaml:"deduction" json:"deduction"`
}

// Contains reports whether lower < units <= upper
func (b TaxBracket) Contains(units decimal.Decimal) bool {
	return b.LowerUTA.LessThan(units) && units.LessThanOrEqual(b.UpperUTA)
}

// BracketTable is an ascending, gap-free bracket schedule covering [0, +∞)
type BracketTable []TaxBracket

// Find returns the index of the row containing units. A base of zero or
// below belongs to no row.
func (t BracketTable) Find(units decimal.Decimal) (int, bool) {
	for i, b := range t {
		if b.Contains(units) {
			return i, true
		}
	}
	return -1, false
}

// TaxYearRules is the versioned configuration for one tax year. Swapping it
// changes the schedule and every fixed rate without touching the pipeline.
type TaxYearRules struct {
	Metadata    RulesMetadata    `yaml:"metadata" json:"metadata"`
	Brackets    BracketTable     `yaml:"brackets" json:"brackets"`
	Pension     PensionRules     `yaml:"pension" json:"pension"`
	FeeExpenses FeeExpenseRules  `yaml:"fee_expenses" json:"fee_expenses"`
	Mortgage    MortgageRules    `yaml:"mortgage_interest" json:"mortgage_interest"`
	Savings     SavingsRules     `yaml:"voluntary_savings" json:"voluntary_savings"`
	Restitution RestitutionRules `yaml:"restitution" json:"restitution"`
}

// RulesMetadata describes where a rule set comes from
type RulesMetadata struct {
	TaxYear     int    `yaml:"tax_year" json:"tax_year"`
	Description string `yaml:"description" json:"description"`
}

// PensionRules drive the social-security debt on fee income
type PensionRules struct {
	// NetSalaryFactor converts net taxable salary back to its contribution base
	NetSalaryFactor decimal.Decimal `yaml:"net_salary_factor" json:"net_salary_factor"`
	// CeilingUF is the monthly contribution ceiling in UF
	CeilingUF decimal.Decimal `yaml:"ceiling_uf" json:"ceiling_uf"`
	// FeeCreditableShare is the share of gross fees that counts toward the base
	FeeCreditableShare decimal.Decimal `yaml:"fee_creditable_share" json:"fee_creditable_share"`
	InsuranceRate      decimal.Decimal `yaml:"insurance_rate" json:"insurance_rate"`
	HealthRate         decimal.Decimal `yaml:"health_rate" json:"health_rate"`
	RetirementRate     decimal.Decimal `yaml:"retirement_rate" json:"retirement_rate"`
}

// FeeExpenseRules define the presumed-expense deduction
type FeeExpenseRules struct {
	PresumedRate   decimal.Decimal `yaml:"presumed_rate" json:"presumed_rate"`
	PresumedCapUTA decimal.Decimal `yaml:"presumed_cap_uta" json:"presumed_cap_uta"`
}

// MortgageRules define the mortgage-interest benefit and its taper
type MortgageRules struct {
	CapUTA         decimal.Decimal `yaml:"cap_uta" json:"cap_uta"`
	FullBenefitUTA decimal.Decimal `yaml:"full_benefit_uta" json:"full_benefit_uta"`
	PhaseOutUTA    decimal.Decimal `yaml:"phase_out_uta" json:"phase_out_uta"`
}

// SavingsRules cap the voluntary-savings benefit
type SavingsRules struct {
	CapUF decimal.Decimal `yaml:"cap_uf" json:"cap_uf"`
}

// RestitutionRules define the surtax owed outside the simplified regime
type RestitutionRules struct {
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// DefaultBrackets2026 is the annual global complementary tax schedule for AT 2026
func DefaultBrackets2026() BracketTable {
	return BracketTable{
		{decimal.Zero, decimal.NewFromFloat(13.5), decimal.Zero, decimal.Zero},
		{decimal.NewFromFloat(13.5), decimal.NewFromInt(30), decimal.NewFromFloat(0.04), decimal.NewFromFloat(0.54)},
		{decimal.NewFromInt(30), decimal.NewFromInt(50), decimal.NewFromFloat(0.08), decimal.NewFromFloat(1.74)},
		{decimal.NewFromInt(50), decimal.NewFromInt(70), decimal.NewFromFloat(0.135), decimal.NewFromFloat(4.49)},
		{decimal.NewFromInt(70), decimal.NewFromInt(90), decimal.NewFromFloat(0.23), decimal.NewFromFloat(11.14)},
		{decimal.NewFromInt(90), decimal.NewFromInt(120), decimal.NewFromFloat(0.304), decimal.NewFromFloat(17.8)},
		{decimal.NewFromInt(120), decimal.NewFromInt(310), decimal.NewFromFloat(0.35), decimal.NewFromFloat(23.32)},
		{decimal.NewFromInt(310), BracketSentinelUTA, decimal.NewFromFloat(0.40), decimal.NewFromFloat(38.82)},
	}
}

// DefaultRules2026 returns the rule set for tax year AT 2026
func DefaultRules2026() TaxYearRules {
	return TaxYearRules{
		Metadata: RulesMetadata{
			TaxYear:     2026,
			Description: "Chile personal income tax, AT 2026",
		},
		Brackets: DefaultBrackets2026(),
		Pension: PensionRules{
			NetSalaryFactor:    decimal.NewFromFloat(0.815),
			CeilingUF:          decimal.NewFromFloat(87.8),
			FeeCreditableShare: decimal.NewFromFloat(0.8),
			InsuranceRate:      decimal.NewFromFloat(0.03),
			HealthRate:         decimal.NewFromFloat(0.07),
			RetirementRate:     decimal.NewFromFloat(0.10),
		},
		FeeExpenses: FeeExpenseRules{
			PresumedRate:   decimal.NewFromFloat(0.30),
			PresumedCapUTA: decimal.NewFromInt(15),
		},
		Mortgage: MortgageRules{
			CapUTA:         decimal.NewFromInt(8),
			FullBenefitUTA: decimal.NewFromInt(90),
			PhaseOutUTA:    decimal.NewFromInt(150),
		},
		Savings: SavingsRules{
			CapUF: decimal.NewFromInt(600),
		},
		Restitution: RestitutionRules{
			Rate: decimal.NewFromFloat(0.35),
		},
	}
}
