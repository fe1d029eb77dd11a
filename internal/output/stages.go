package output

import (
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// ItemKind controls how a line item's amount is signed and coloured
type ItemKind int

const (
	PlainItem ItemKind = iota
	// ChargeItem is a deduction the taxpayer pays for (expenses, pension debt)
	ChargeItem
	// BenefitItem is a deduction granted as a tax benefit
	BenefitItem
	// CreditItem is subtracted from the tax
	CreditItem
	// BalanceItem may go either way and is shown with an explicit sign
	BalanceItem
	TotalItem
)

// LineItem is one labelled amount of a report stage
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Kind   ItemKind        `json:"-"`
}

// Display renders the amount with the sign convention of its kind
func (li LineItem) Display() string {
	switch li.Kind {
	case ChargeItem, BenefitItem, CreditItem:
		return "-" + FormatPesos(li.Amount)
	case BalanceItem:
		return FormatSignedPesos(li.Amount)
	default:
		return FormatPesos(li.Amount)
	}
}

// Signed is the amount as it affects the running total
func (li LineItem) Signed() decimal.Decimal {
	switch li.Kind {
	case ChargeItem, BenefitItem, CreditItem:
		return li.Amount.Neg()
	default:
		return li.Amount
	}
}

// Stage is one of the four steps of the settlement story
type Stage struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	Question string     `json:"question"`
	Items    []LineItem `json:"items"`
	Note     string     `json:"note,omitempty"`
}

// LineItems groups a report into its four stages: gross income, deductions,
// tax against credits, and the final settlement
func LineItems(report *domain.Report) []Stage {
	r := &report.Result

	income := Stage{
		Number:   1,
		Title:    "YOUR FINANCIAL YEAR",
		Question: "How much did you earn in total?",
		Items: []LineItem{
			{Label: "Salaries", Amount: r.IncomeBreakdown.Salary},
			{Label: "Gross fees", Amount: r.IncomeBreakdown.Fees},
			{Label: "Withdrawals/dividends", Amount: r.IncomeBreakdown.Withdrawals},
			{Label: "Other income", Amount: r.IncomeBreakdown.Other},
			{Label: "TOTAL GROSS INCOME", Amount: r.GrossIncome, Kind: TotalItem},
		},
	}

	deductions := Stage{
		Number:   2,
		Title:    "CLEANING THE BASE",
		Question: "What is deducted to lower the tax?",
		Items: []LineItem{
			{Label: "(-) Fee expenses", Amount: r.DeductionBreakdown.FeeExpense, Kind: ChargeItem},
			{Label: "(-) Social security debt (AFP/health)", Amount: r.DeductionBreakdown.SocialSecurityDebt, Kind: ChargeItem},
			{Label: "(-) Mortgage interest benefit", Amount: r.DeductionBreakdown.MortgageBenefit, Kind: BenefitItem},
			{Label: "(-) Voluntary savings benefit", Amount: r.DeductionBreakdown.SavingsBenefit, Kind: BenefitItem},
			{Label: "TAXABLE BASE", Amount: r.TaxableBase, Kind: TotalItem},
		},
		Note: "Your tax is computed on this final amount.",
	}

	balance := Stage{
		Number:   3,
		Title:    "THE BALANCE",
		Question: "Tax versus what you already paid",
		Items: []LineItem{
			{Label: "ANNUAL DETERMINED TAX", Amount: r.FinalTax, Kind: TotalItem},
			{Label: "Salary tax credit", Amount: r.CreditBreakdown.SalaryCredit, Kind: CreditItem},
			{Label: "Entity credit", Amount: r.CreditBreakdown.EntityCredit, Kind: CreditItem},
			{Label: "Net withholding balance", Amount: r.CreditBreakdown.NetLiquidWithholding, Kind: BalanceItem},
		},
		Note: WithholdingNarrative(report.Inputs, r),
	}

	final := Stage{
		Number:   4,
		Title:    "FINAL RESULT",
		Question: OutcomeLabel(r),
		Items: []LineItem{
			{Label: OutcomeLabel(r), Amount: r.PocketBalance.Abs(), Kind: TotalItem},
		},
	}

	return []Stage{income, deductions, balance, final}
}
