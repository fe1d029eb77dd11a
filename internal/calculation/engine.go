package calculation

import (
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthsPerYear annualises the monthly pension ceiling
const MonthsPerYear = 12

var hundred = decimal.NewFromInt(100)

// SettlementEngine runs the annual settlement pipeline. It holds no
// per-run state, so one engine may serve concurrent callers.
type SettlementEngine struct {
	Rules  domain.TaxYearRules
	Logger Logger
}

// NewSettlementEngine creates an engine using the AT 2026 rules
func NewSettlementEngine() *SettlementEngine {
	return NewSettlementEngineWithRules(domain.DefaultRules2026())
}

// NewSettlementEngineWithRules creates an engine for a specific rule set
func NewSettlementEngineWithRules(rules domain.TaxYearRules) *SettlementEngine {
	return &SettlementEngine{
		Rules:  rules,
		Logger: NopLogger{},
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (se *SettlementEngine) SetLogger(l Logger) {
	if l == nil {
		se.Logger = NopLogger{}
		return
	}
	se.Logger = l
}

// Report settles in and bundles the result with the inputs and rules that
// produced it
func (se *SettlementEngine) Report(in domain.TaxInputs) *domain.Report {
	return &domain.Report{
		Inputs: in,
		Rules:  se.Rules,
		Result: *se.Settle(in),
	}
}

// ContributionQuota holds the outcome of the pension base derivation
type ContributionQuota struct {
	Ceiling   decimal.Decimal
	UsedQuota decimal.Decimal
	Available decimal.Decimal
	FeeBase   decimal.Decimal
}

// Settle computes the annual settlement for in. Inputs are assumed valid;
// see config.ValidateInputs for the preconditions.
func (se *SettlementEngine) Settle(in domain.TaxInputs) *domain.SettlementResult {
	log := se.logger()
	taxCalc := NewTaxCalculator(se.Rules.Brackets, in.MonthlyTaxUnitValue)

	// 1. Gross income
	income := domain.IncomeBreakdown{
		Salary:      in.SalaryIncome,
		Fees:        in.GrossFeeIncome,
		Withdrawals: in.Withdrawals,
		Other:       in.OtherIncome,
	}
	grossIncome := income.Salary.Add(income.Fees).Add(income.Withdrawals).Add(income.Other)
	log.Debugf("gross income %s", grossIncome)

	// 2-3. Contribution base and social-security debt on fees
	base := se.ContributionBase(in)
	debt := se.SocialSecurityDebt(in, base.FeeBase)
	log.Debugf("contribution ceiling %s, used %s, fee base %s, social security debt %s",
		base.Ceiling, base.UsedQuota, base.FeeBase, debt)

	// 4-5. Fee expenses and net fee income
	expense := se.FeeExpense(in)
	netFeeIncome := in.GrossFeeIncome.Sub(expense).Sub(debt)

	// 6-7. Entity gross-up and preliminary global base
	increment := se.EntityIncrement(in)
	globalBase := in.SalaryIncome.Add(netFeeIncome).Add(in.Withdrawals.Add(increment)).Add(in.OtherIncome)
	log.Debugf("net fee income %s, entity increment %s, global base %s", netFeeIncome, increment, globalBase)

	// 8-10. Benefits and taxable base. The mortgage taper is measured on the
	// global base before the savings benefit is taken.
	mortgage := se.MortgageBenefit(in, globalBase)
	savings := se.SavingsBenefit(in)
	taxableBase := decimal.Max(decimal.Zero, globalBase.Sub(mortgage).Sub(savings))

	// 11-12. Tax and restitution
	determinedTax, marginalRate := taxCalc.Tax(taxableBase)
	restitution := se.Restitution(in, increment)
	finalTax := determinedTax.Add(restitution)
	log.Debugf("taxable base %s, determined tax %s at %s, restitution %s",
		taxableBase, determinedTax, marginalRate, restitution)

	// 13. Credits
	salaryCredit := in.IncomeTaxCredit.Resolve(func() decimal.Decimal {
		return taxCalc.PresumedSalaryCredit(in.SalaryIncome)
	})
	withholding := se.FeeWithholding(in)
	netLiquid := decimal.Zero
	if in.FullWithholding {
		netLiquid = withholding.Sub(debt)
		if netLiquid.IsNegative() {
			log.Warnf("fee withholding %s does not cover social security debt %s", withholding, debt)
		}
	}
	credits := domain.CreditBreakdown{
		SalaryCredit:         salaryCredit,
		EntityCredit:         increment,
		NetLiquidWithholding: netLiquid,
	}
	totalCredits := credits.SalaryCredit.Add(credits.EntityCredit).Add(credits.NetLiquidWithholding)

	// 14. Settlement
	pocket := finalTax.Sub(totalCredits)
	log.Debugf("final tax %s, credits %s, balance %s", finalTax, totalCredits, pocket)

	deductions := domain.DeductionBreakdown{
		FeeExpense:         expense,
		SocialSecurityDebt: debt,
		MortgageBenefit:    mortgage,
		SavingsBenefit:     savings,
	}

	return &domain.SettlementResult{
		GrossIncome:         grossIncome,
		IncomeBreakdown:     income,
		TotalDeductions:     expense.Add(debt).Add(mortgage).Add(savings),
		DeductionBreakdown:  deductions,
		FeeContributionBase: base.FeeBase,
		NetFeeIncome:        netFeeIncome,
		EntityIncrement:     increment,
		GlobalBase:          globalBase,
		TaxableBase:         taxableBase,
		DeterminedTax:       determinedTax,
		Restitution:         restitution,
		FinalTax:            finalTax,
		MarginalRate:        marginalRate,
		TotalCredits:        totalCredits,
		CreditBreakdown:     credits,
		PocketBalance:       pocket,
		GrossFeeWithholding: withholding,
		SocialSecurityDebt:  debt,
	}
}

// ContributionBase derives the fee contribution base. Salary is grossed up
// from its net value to estimate how much of the annual ceiling it already
// used; fees may only fill what is left.
func (se *SettlementEngine) ContributionBase(in domain.TaxInputs) ContributionQuota {
	p := se.Rules.Pension
	ceiling := p.CeilingUF.Mul(decimal.NewFromInt(MonthsPerYear)).Mul(in.InflationUnitValue)
	estimatedGrossSalary := in.SalaryIncome.Div(p.NetSalaryFactor)
	used := decimal.Min(estimatedGrossSalary, ceiling)
	available := decimal.Max(decimal.Zero, ceiling.Sub(used))
	feeBase := decimal.Min(in.GrossFeeIncome.Mul(p.FeeCreditableShare), available)
	return ContributionQuota{
		Ceiling:   ceiling,
		UsedQuota: used,
		Available: available,
		FeeBase:   feeBase,
	}
}

// SocialSecurityDebt is the insurance plus health and retirement cost owed
// on the fee contribution base. Partial coverage charges health and
// retirement on a fraction of the base; insurance is always charged in full.
func (se *SettlementEngine) SocialSecurityDebt(in domain.TaxInputs, feeBase decimal.Decimal) decimal.Decimal {
	if in.GrossFeeIncome.IsZero() {
		return decimal.Zero
	}
	p := se.Rules.Pension
	insurance := feeBase.Mul(p.InsuranceRate)
	variableRate := p.HealthRate.Add(p.RetirementRate).Add(in.AFPCommissionPct.Div(hundred))

	variableBase := feeBase
	if in.CoverageMode == domain.PartialCoverage {
		variableBase = feeBase.Mul(in.PartialCoverageFactorPct.Div(hundred))
	}
	return insurance.Add(variableBase.Mul(variableRate))
}

// FeeExpense returns the deductible expense on fee income
func (se *SettlementEngine) FeeExpense(in domain.TaxInputs) decimal.Decimal {
	if in.ExpenseMethod == domain.ActualExpense {
		return in.ActualExpenseAmount
	}
	r := se.Rules.FeeExpenses
	return decimal.Min(in.GrossFeeIncome.Mul(r.PresumedRate), r.PresumedCapUTA.Mul(in.MonthlyTaxUnitValue))
}

// EntityIncrement grosses withdrawals up by the entity tax already paid.
// The entity rate must be below 100%.
func (se *SettlementEngine) EntityIncrement(in domain.TaxInputs) decimal.Decimal {
	if !in.Withdrawals.IsPositive() {
		return decimal.Zero
	}
	rate := in.EntityTaxRatePct.Div(hundred)
	return in.Withdrawals.Mul(rate.Div(decimal.NewFromInt(1).Sub(rate)))
}

// MortgageBenefit applies the mortgage-interest benefit with its linear
// taper between the full-benefit and phase-out thresholds
func (se *SettlementEngine) MortgageBenefit(in domain.TaxInputs, globalBase decimal.Decimal) decimal.Decimal {
	m := se.Rules.Mortgage
	units := globalBase.Div(in.MonthlyTaxUnitValue)
	capped := decimal.Min(in.MortgageInterest, m.CapUTA.Mul(in.MonthlyTaxUnitValue))

	switch {
	case units.LessThanOrEqual(m.FullBenefitUTA):
		return capped
	case units.LessThanOrEqual(m.PhaseOutUTA):
		span := m.PhaseOutUTA.Sub(m.FullBenefitUTA)
		return capped.Mul(m.PhaseOutUTA.Sub(units)).Div(span)
	default:
		return decimal.Zero
	}
}

// SavingsBenefit caps the voluntary-savings deduction
func (se *SettlementEngine) SavingsBenefit(in domain.TaxInputs) decimal.Decimal {
	return decimal.Min(in.VoluntarySavings, se.Rules.Savings.CapUF.Mul(in.InflationUnitValue))
}

// Restitution is owed on the gross-up by taxpayers outside the simplified regime
func (se *SettlementEngine) Restitution(in domain.TaxInputs, increment decimal.Decimal) decimal.Decimal {
	if in.EntityRegime == domain.SimplifiedRegime {
		return decimal.Zero
	}
	return increment.Mul(se.Rules.Restitution.Rate)
}

// FeeWithholding is the gross withholding on fee income
func (se *SettlementEngine) FeeWithholding(in domain.TaxInputs) decimal.Decimal {
	return in.FeeWithholding.Resolve(func() decimal.Decimal {
		return in.GrossFeeIncome.Mul(in.WithholdingRatePct.Div(hundred))
	})
}

func (se *SettlementEngine) logger() Logger {
	if se.Logger == nil {
		return NopLogger{}
	}
	return se.Logger
}
