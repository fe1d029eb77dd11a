package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeBreakdown lists gross income by source
type IncomeBreakdown struct {
	Salary      decimal.Decimal `json:"salary"`
	Fees        decimal.Decimal `json:"fees"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Other       decimal.Decimal `json:"other"`
}

// DeductionBreakdown lists everything subtracted on the way to the taxable base
type DeductionBreakdown struct {
	FeeExpense         decimal.Decimal `json:"fee_expense"`
	SocialSecurityDebt decimal.Decimal `json:"social_security_debt"`
	MortgageBenefit    decimal.Decimal `json:"mortgage_benefit"`
	SavingsBenefit     decimal.Decimal `json:"savings_benefit"`
}

// CreditBreakdown lists the amounts already paid toward the final tax
type CreditBreakdown struct {
	SalaryCredit decimal.Decimal `json:"salary_credit"`
	EntityCredit decimal.Decimal `json:"entity_credit"`
	// NetLiquidWithholding is fee withholding left after paying the
	// social-security debt; negative when withholding fell short
	NetLiquidWithholding decimal.Decimal `json:"net_liquid_withholding"`
}

// SettlementResult is the outcome of one settlement run
type SettlementResult struct {
	GrossIncome     decimal.Decimal `json:"gross_income"`
	IncomeBreakdown IncomeBreakdown `json:"income_breakdown"`

	TotalDeductions    decimal.Decimal    `json:"total_deductions"`
	DeductionBreakdown DeductionBreakdown `json:"deduction_breakdown"`

	FeeContributionBase decimal.Decimal `json:"fee_contribution_base"`
	NetFeeIncome        decimal.Decimal `json:"net_fee_income"`
	EntityIncrement     decimal.Decimal `json:"entity_increment"`
	GlobalBase          decimal.Decimal `json:"global_base"`
	TaxableBase         decimal.Decimal `json:"taxable_base"`

	DeterminedTax decimal.Decimal `json:"determined_tax"`
	Restitution   decimal.Decimal `json:"restitution"`
	FinalTax      decimal.Decimal `json:"final_tax"`
	MarginalRate  decimal.Decimal `json:"marginal_rate"`

	TotalCredits    decimal.Decimal `json:"total_credits"`
	CreditBreakdown CreditBreakdown `json:"credit_breakdown"`

	// PocketBalance is positive when tax is owed and zero or negative when a
	// refund is due
	PocketBalance decimal.Decimal `json:"pocket_balance"`

	GrossFeeWithholding decimal.Decimal `json:"gross_fee_withholding"`
	SocialSecurityDebt  decimal.Decimal `json:"social_security_debt"`
}

// IsRefund reports whether the settlement results in money back
func (r SettlementResult) IsRefund() bool {
	return r.PocketBalance.LessThanOrEqual(decimal.Zero)
}
