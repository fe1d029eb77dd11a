package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// feeEarnerInputs mirrors the default form of the calculator: a fee earner
// with 12M in gross fees, partial coverage and presumed expenses
func feeEarnerInputs() domain.TaxInputs {
	return domain.TaxInputs{
		GrossFeeIncome:           d("12000000"),
		MonthlyTaxUnitValue:      d("834000"),
		InflationUnitValue:       d("39720"),
		ExpenseMethod:            domain.PresumedExpense,
		CoverageMode:             domain.PartialCoverage,
		PartialCoverageFactorPct: d("67"),
		AFPCommissionPct:         d("0.58"),
		EntityRegime:             domain.SimplifiedRegime,
		EntityTaxRatePct:         d("12.5"),
		IncomeTaxCredit:          domain.AutoCredit(),
		FeeWithholding:           domain.AutoCredit(),
		WithholdingRatePct:       d("15.25"),
		FullWithholding:          true,
	}
}

// salaryInputs has only salary income at the given amount
func salaryInputs(salary decimal.Decimal) domain.TaxInputs {
	in := feeEarnerInputs()
	in.GrossFeeIncome = decimal.Zero
	in.SalaryIncome = salary
	return in
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !d(expected).Equal(actual) {
		assert.Fail(t, fmt.Sprintf("expected %s, got %s", expected, actual), msgAndArgs...)
	}
}

func TestNewSettlementEngine(t *testing.T) {
	engine := NewSettlementEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.Equal(t, 2026, engine.Rules.Metadata.TaxYear, "Should default to AT 2026 rules")
	assert.Len(t, engine.Rules.Brackets, 8, "Should carry the full bracket table")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should default to no-op logger")
}

func TestSettlementEngine_SetLogger(t *testing.T) {
	engine := NewSettlementEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.Settle(feeEarnerInputs())
	assert.NotEmpty(t, customLogger.messages, "Pipeline should emit debug output")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestSettle_FeeEarnerEndToEnd(t *testing.T) {
	r := NewSettlementEngine().Settle(feeEarnerInputs())

	assertDecimal(t, "12000000", r.GrossIncome)
	assertDecimal(t, "12000000", r.IncomeBreakdown.Fees)

	assertDecimal(t, "3600000", r.DeductionBreakdown.FeeExpense, "presumed expense is 30% under the 15 UTA cap")
	assertDecimal(t, "9600000", r.FeeContributionBase)
	assertDecimal(t, "1418745.6", r.SocialSecurityDebt)
	assertDecimal(t, "1418745.6", r.DeductionBreakdown.SocialSecurityDebt)
	assertDecimal(t, "6981254.4", r.NetFeeIncome)
	assertDecimal(t, "6981254.4", r.GlobalBase)
	assertDecimal(t, "6981254.4", r.TaxableBase)
	assertDecimal(t, "5018745.6", r.TotalDeductions)

	assertDecimal(t, "0", r.FinalTax, "base of about 8.37 UTA is exempt")
	assertDecimal(t, "0", r.MarginalRate)

	assertDecimal(t, "1830000", r.GrossFeeWithholding)
	assertDecimal(t, "0", r.CreditBreakdown.SalaryCredit)
	assertDecimal(t, "0", r.CreditBreakdown.EntityCredit)
	assertDecimal(t, "411254.4", r.CreditBreakdown.NetLiquidWithholding)
	assertDecimal(t, "411254.4", r.TotalCredits)
	assertDecimal(t, "-411254.4", r.PocketBalance)
	assert.True(t, r.IsRefund())
}

func TestSettle_IsDeterministic(t *testing.T) {
	engine := NewSettlementEngine()
	in := feeEarnerInputs()
	in.SalaryIncome = d("18500000")
	in.Withdrawals = d("6000000")
	in.EntityRegime = domain.SemiIntegratedRegime
	in.EntityTaxRatePct = d("27")
	in.MortgageInterest = d("2500000")

	first := engine.Settle(in)
	second := engine.Settle(in)
	assert.Equal(t, first, second, "identical inputs must give identical results")
}

func TestSettle_ConcurrentCallsAreIndependent(t *testing.T) {
	engine := NewSettlementEngine()
	expected := engine.Settle(feeEarnerInputs())

	var wg sync.WaitGroup
	results := make([]*domain.SettlementResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Settle(feeEarnerInputs())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, expected.PocketBalance.Equal(r.PocketBalance))
	}
}

func TestSettle_ZeroFeeIncome(t *testing.T) {
	engine := NewSettlementEngine()

	t.Run("presumed expense", func(t *testing.T) {
		r := engine.Settle(salaryInputs(d("10000000")))
		assertDecimal(t, "0", r.SocialSecurityDebt)
		assertDecimal(t, "0", r.DeductionBreakdown.FeeExpense)
		assertDecimal(t, "0", r.NetFeeIncome)
	})

	t.Run("actual expense is not floored", func(t *testing.T) {
		in := salaryInputs(d("10000000"))
		in.ExpenseMethod = domain.ActualExpense
		in.ActualExpenseAmount = d("500000")
		r := engine.Settle(in)
		assertDecimal(t, "0", r.SocialSecurityDebt)
		assertDecimal(t, "-500000", r.NetFeeIncome)
		assertDecimal(t, "9500000", r.GlobalBase)
	})
}

func TestSettle_PresumedExpenseCap(t *testing.T) {
	in := feeEarnerInputs()
	in.GrossFeeIncome = d("60000000")
	r := NewSettlementEngine().Settle(in)

	// 30% of 60M is 18M, above 15 UTA
	assertDecimal(t, "12510000", r.DeductionBreakdown.FeeExpense)
}

func TestSettle_FullCoverage(t *testing.T) {
	in := feeEarnerInputs()
	in.GrossFeeIncome = d("10000000")
	in.CoverageMode = domain.FullCoverage
	r := NewSettlementEngine().Settle(in)

	// base 8M: insurance 240,000 + 8M * 17.58%
	assertDecimal(t, "8000000", r.FeeContributionBase)
	assertDecimal(t, "1646400", r.SocialSecurityDebt)
}

func TestContributionBase_SalaryUsesCeiling(t *testing.T) {
	engine := NewSettlementEngine()

	t.Run("salary above ceiling leaves no room for fees", func(t *testing.T) {
		in := feeEarnerInputs()
		in.SalaryIncome = d("40000000")
		q := engine.ContributionBase(in)
		assertDecimal(t, "41848992", q.Ceiling)
		assertDecimal(t, "41848992", q.UsedQuota)
		assertDecimal(t, "0", q.Available)
		assertDecimal(t, "0", q.FeeBase)

		r := engine.Settle(in)
		assertDecimal(t, "0", r.SocialSecurityDebt)
	})

	t.Run("fees fill the remaining quota", func(t *testing.T) {
		in := feeEarnerInputs()
		in.SalaryIncome = d("30000000")
		in.GrossFeeIncome = d("10000000")
		q := engine.ContributionBase(in)

		expected := 41848992 - 30000000/0.815
		assert.InDelta(t, expected, q.FeeBase.InexactFloat64(), 0.01)
		assert.True(t, q.FeeBase.LessThan(d("8000000")))
	})
}

func TestSettle_EntityGrossUpAndRestitution(t *testing.T) {
	engine := NewSettlementEngine()

	in := salaryInputs(decimal.Zero)
	in.Withdrawals = d("10000000")
	in.EntityRegime = domain.SemiIntegratedRegime
	in.EntityTaxRatePct = d("27")

	r := engine.Settle(in)
	assert.Equal(t, "3698630.14", r.EntityIncrement.StringFixed(2))
	assert.Equal(t, "1294520.55", r.Restitution.StringFixed(2))
	assert.True(t, r.EntityIncrement.Equal(r.CreditBreakdown.EntityCredit), "entity tax is fully creditable")
	assert.True(t, r.FinalTax.Equal(r.DeterminedTax.Add(r.Restitution)))

	in.EntityRegime = domain.SimplifiedRegime
	r = engine.Settle(in)
	assertDecimal(t, "0", r.Restitution, "simplified regime owes no restitution")
	assert.True(t, r.EntityIncrement.IsPositive())

	in.Withdrawals = decimal.Zero
	r = engine.Settle(in)
	assertDecimal(t, "0", r.EntityIncrement)
}

func TestMortgageBenefit_Taper(t *testing.T) {
	engine := NewSettlementEngine()
	in := salaryInputs(decimal.Zero)
	in.MortgageInterest = d("10000000")
	fullBenefit := d("6672000") // 8 UTA

	at := func(units int64) decimal.Decimal {
		return engine.MortgageBenefit(in, testUTA.Mul(decimal.NewFromInt(units)))
	}

	assert.True(t, fullBenefit.Equal(at(50)), "below 90 UTA gets the capped benefit")
	assert.True(t, fullBenefit.Equal(at(90)), "exactly 90 UTA still gets the full benefit")
	assertDecimal(t, "3336000", at(120), "halfway through the taper")
	assertDecimal(t, "0", at(150))
	assertDecimal(t, "0", at(200))

	previous := at(90)
	for units := int64(91); units <= 150; units++ {
		current := at(units)
		assert.True(t, current.LessThan(previous), "benefit should fall strictly at %d UTA", units)
		previous = current
	}

	in.MortgageInterest = d("1000000")
	assertDecimal(t, "1000000", at(10), "interest below the cap is deducted in full")
}

func TestSettle_MortgageMeasuredBeforeSavings(t *testing.T) {
	// Global base 100 UTA; the savings benefit would bring it below 90 UTA,
	// but the mortgage taper still uses 100 UTA.
	in := salaryInputs(testUTA.Mul(decimal.NewFromInt(100)))
	in.MortgageInterest = d("10000000")
	in.VoluntarySavings = d("20000000")

	r := NewSettlementEngine().Settle(in)
	expectedMortgage := d("6672000").Mul(d("50")).Div(d("60"))
	assert.True(t, expectedMortgage.Equal(r.DeductionBreakdown.MortgageBenefit),
		"expected %s, got %s", expectedMortgage, r.DeductionBreakdown.MortgageBenefit)
	assertDecimal(t, "20000000", r.DeductionBreakdown.SavingsBenefit)
}

func TestSettle_SavingsCapAndTaxableFloor(t *testing.T) {
	in := salaryInputs(d("5000000"))
	in.VoluntarySavings = d("30000000")

	r := NewSettlementEngine().Settle(in)
	assertDecimal(t, "23832000", r.DeductionBreakdown.SavingsBenefit, "600 UF cap")
	assertDecimal(t, "0", r.TaxableBase, "taxable base never goes negative")
	assertDecimal(t, "0", r.FinalTax)
}

func TestSettle_SalaryCreditSources(t *testing.T) {
	engine := NewSettlementEngine()
	in := salaryInputs(d("20000000"))

	r := engine.Settle(in)
	assertDecimal(t, "349640", r.CreditBreakdown.SalaryCredit, "auto credit re-taxes salary alone")
	assertDecimal(t, "349640", r.FinalTax)
	assertDecimal(t, "0", r.PocketBalance, "salary-only taxpayer settles at zero")
	assert.True(t, r.IsRefund())

	in.IncomeTaxCredit = domain.ManualCredit(d("500000"))
	r = engine.Settle(in)
	assertDecimal(t, "500000", r.CreditBreakdown.SalaryCredit)
	assertDecimal(t, "-150360", r.PocketBalance)
}

func TestSettle_WithholdingSources(t *testing.T) {
	engine := NewSettlementEngine()

	in := feeEarnerInputs()
	in.FeeWithholding = domain.ManualCredit(d("1000000"))
	r := engine.Settle(in)
	assertDecimal(t, "1000000", r.GrossFeeWithholding)
	assertDecimal(t, "-418745.6", r.CreditBreakdown.NetLiquidWithholding, "withholding short of the debt")
	assertDecimal(t, "418745.6", r.PocketBalance)
	assert.False(t, r.IsRefund())

	in.FullWithholding = false
	r = engine.Settle(in)
	assertDecimal(t, "1000000", r.GrossFeeWithholding, "gross withholding is still reported")
	assertDecimal(t, "0", r.CreditBreakdown.NetLiquidWithholding)
	assertDecimal(t, "0", r.PocketBalance)
}

func TestSettle_CustomRules(t *testing.T) {
	rules := domain.DefaultRules2026()
	rules.Restitution.Rate = d("0.5")
	rules.FeeExpenses.PresumedRate = d("0.1")

	in := feeEarnerInputs()
	in.Withdrawals = d("7300000")
	in.EntityRegime = domain.SemiIntegratedRegime
	in.EntityTaxRatePct = d("27")

	r := NewSettlementEngineWithRules(rules).Settle(in)
	require.NotNil(t, r)
	assertDecimal(t, "1200000", r.DeductionBreakdown.FeeExpense)
	assert.True(t, r.EntityIncrement.Mul(d("0.5")).Equal(r.Restitution))
}

// TestLogger records messages for assertions
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}

func TestSettlementEngine_Report(t *testing.T) {
	engine := NewSettlementEngine()
	in := feeEarnerInputs()

	report := engine.Report(in)
	require.NotNil(t, report)
	assert.Equal(t, 2026, report.Rules.Metadata.TaxYear)
	assert.True(t, in.GrossFeeIncome.Equal(report.Inputs.GrossFeeIncome))
	assertDecimal(t, "-411254.4", report.Result.PocketBalance)
}
