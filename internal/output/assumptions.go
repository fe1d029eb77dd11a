package output

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
)

// Assumptions lists the rule values and reference units a settlement used,
// for the detailed outputs
func Assumptions(rules domain.TaxYearRules, in domain.TaxInputs) []string {
	p := rules.Pension
	m := rules.Mortgage
	return []string{
		fmt.Sprintf("UTA %s, UF %s", FormatPesos(in.MonthlyTaxUnitValue), FormatPesos(in.InflationUnitValue)),
		fmt.Sprintf("Pension ceiling %s UF per month; salary grossed up by a factor of %s", p.CeilingUF, p.NetSalaryFactor),
		fmt.Sprintf("%s of gross fees count toward the contribution base", FormatRate(p.FeeCreditableShare)),
		fmt.Sprintf("Insurance %s, health %s, retirement %s, AFP commission %s",
			FormatRate(p.InsuranceRate), FormatRate(p.HealthRate), FormatRate(p.RetirementRate), FormatPercent(in.AFPCommissionPct)),
		fmt.Sprintf("Presumed expenses %s of fees, capped at %s UTA", FormatRate(rules.FeeExpenses.PresumedRate), rules.FeeExpenses.PresumedCapUTA),
		fmt.Sprintf("Mortgage interest up to %s UTA, full below %s UTA, phased out at %s UTA", m.CapUTA, m.FullBenefitUTA, m.PhaseOutUTA),
		fmt.Sprintf("Voluntary savings up to %s UF", rules.Savings.CapUF),
		fmt.Sprintf("Restitution %s of the gross-up outside the simplified regime", FormatRate(rules.Restitution.Rate)),
	}
}
