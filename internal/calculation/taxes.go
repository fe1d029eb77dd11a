package calculation

import (
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX SCHEDULE ASSUMPTIONS:
//
// 1. Brackets are expressed in UTA and converted with the caller's UTA value.
//    A row matches when lower < base <= upper.
//
// 2. Each row carries a deduction factor ("rebaja") so the tax is computed
//    in one step as base*rate - deduction*UTA instead of summing slices.
//
// 3. The result is floored at zero. A base of zero (or below) matches no
//    row and is taxed at an explicit 0% with no deduction.

// BracketEvaluation is the outcome of evaluating a base against a schedule
type BracketEvaluation struct {
	Amount       decimal.Decimal
	MarginalRate decimal.Decimal
	// RowIndex is the matched row, or -1 when the base fell in no row
	RowIndex int
}

// EvaluateBracket computes the progressive tax on base. unitValue must be
// positive.
func EvaluateBracket(base, unitValue decimal.Decimal, table domain.BracketTable) BracketEvaluation {
	baseInUnits := base.Div(unitValue)

	rate := decimal.Zero
	deduction := decimal.Zero
	idx, ok := table.Find(baseInUnits)
	if ok {
		rate = table[idx].Rate
		deduction = table[idx].DeductionUTA.Mul(unitValue)
	}

	amount := base.Mul(rate).Sub(deduction)
	return BracketEvaluation{
		Amount:       decimal.Max(decimal.Zero, amount),
		MarginalRate: rate,
		RowIndex:     idx,
	}
}

// TaxCalculator evaluates a fixed schedule against a fixed UTA value
type TaxCalculator struct {
	Brackets domain.BracketTable
	UTA      decimal.Decimal
}

// NewTaxCalculator creates a calculator for one settlement run
func NewTaxCalculator(brackets domain.BracketTable, uta decimal.Decimal) *TaxCalculator {
	return &TaxCalculator{Brackets: brackets, UTA: uta}
}

// Tax returns the tax and marginal rate on base
func (tc *TaxCalculator) Tax(base decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	eval := EvaluateBracket(base, tc.UTA, tc.Brackets)
	return eval.Amount, eval.MarginalRate
}

// PresumedSalaryCredit estimates the single-income tax already withheld from
// salary by taxing the salary alone on the annual schedule
func (tc *TaxCalculator) PresumedSalaryCredit(salary decimal.Decimal) decimal.Decimal {
	return EvaluateBracket(salary, tc.UTA, tc.Brackets).Amount
}
