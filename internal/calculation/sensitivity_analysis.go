package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// sweepField reads and writes one sweepable input
type sweepField struct {
	get func(in domain.TaxInputs) decimal.Decimal
	set func(in *domain.TaxInputs, v decimal.Decimal)
}

var sweepFields = map[string]sweepField{
	"salary": {
		func(in domain.TaxInputs) decimal.Decimal { return in.SalaryIncome },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.SalaryIncome = v },
	},
	"fees": {
		func(in domain.TaxInputs) decimal.Decimal { return in.GrossFeeIncome },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.GrossFeeIncome = v },
	},
	"withdrawals": {
		func(in domain.TaxInputs) decimal.Decimal { return in.Withdrawals },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.Withdrawals = v },
	},
	"other": {
		func(in domain.TaxInputs) decimal.Decimal { return in.OtherIncome },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.OtherIncome = v },
	},
	"mortgage": {
		func(in domain.TaxInputs) decimal.Decimal { return in.MortgageInterest },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.MortgageInterest = v },
	},
	"savings": {
		func(in domain.TaxInputs) decimal.Decimal { return in.VoluntarySavings },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.VoluntarySavings = v },
	},
	"actual_expense": {
		func(in domain.TaxInputs) decimal.Decimal { return in.ActualExpenseAmount },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.ActualExpenseAmount = v },
	},
	"withholding_rate": {
		func(in domain.TaxInputs) decimal.Decimal { return in.WithholdingRatePct },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.WithholdingRatePct = v },
	},
	"afp_commission": {
		func(in domain.TaxInputs) decimal.Decimal { return in.AFPCommissionPct },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.AFPCommissionPct = v },
	},
	"coverage_factor": {
		func(in domain.TaxInputs) decimal.Decimal { return in.PartialCoverageFactorPct },
		func(in *domain.TaxInputs, v decimal.Decimal) { in.PartialCoverageFactorPct = v },
	},
}

// SweepParameterNames lists the inputs a sweep can vary
func SweepParameterNames() []string {
	names := make([]string, 0, len(sweepFields))
	for n := range sweepFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InputValidator checks the preconditions Settle relies on
type InputValidator interface {
	ValidateInputs(in *domain.TaxInputs) error
}

// SweepAnalyzer re-runs the settlement across a range of one input
type SweepAnalyzer struct {
	engine    *SettlementEngine
	validator InputValidator
}

// NewSweepAnalyzer creates an analyzer on top of engine. Every swept point is
// checked with validator before it is settled.
func NewSweepAnalyzer(engine *SettlementEngine, validator InputValidator) *SweepAnalyzer {
	return &SweepAnalyzer{engine: engine, validator: validator}
}

// inertParameter explains why sweeping name cannot change the settlement of
// in, or returns "" when it can
func inertParameter(in domain.TaxInputs, name string) string {
	switch {
	case name == "actual_expense" && in.ExpenseMethod != domain.ActualExpense:
		return fmt.Sprintf("actual_expense has no effect with the %s expense method", in.ExpenseMethod)
	case name == "coverage_factor" && in.CoverageMode != domain.PartialCoverage:
		return fmt.Sprintf("coverage_factor has no effect with %s coverage", in.CoverageMode)
	}
	return ""
}

// Analyze settles base once per step of parameter. Steps counts intervals,
// so the result has Steps+1 points including both ends.
func (sa *SweepAnalyzer) Analyze(base domain.TaxInputs, parameter domain.SweepParameter) (*domain.SweepAnalysis, error) {
	field, ok := sweepFields[parameter.Name]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q", parameter.Name)
	}
	if parameter.Steps < 1 {
		return nil, fmt.Errorf("sweep steps must be at least 1, got %d", parameter.Steps)
	}
	if parameter.To.LessThan(parameter.From) {
		return nil, fmt.Errorf("sweep range is inverted: from %s to %s", parameter.From, parameter.To)
	}

	if reason := inertParameter(base, parameter.Name); reason != "" {
		return nil, fmt.Errorf("cannot sweep: %s", reason)
	}
	if err := sa.validate(base); err != nil {
		return nil, fmt.Errorf("base inputs are invalid: %w", err)
	}

	values := sa.generateValues(parameter)
	points := make([]domain.SweepPoint, 0, len(values))
	for _, v := range values {
		in := base
		field.set(&in, v)
		if err := sa.validate(in); err != nil {
			return nil, fmt.Errorf("%s = %s produces invalid inputs: %w", parameter.Name, v, err)
		}
		points = append(points, sa.point(v, sa.engine.Settle(in)))
	}

	return &domain.SweepAnalysis{
		Parameter: parameter,
		Baseline:  sa.point(field.get(base), sa.engine.Settle(base)),
		Points:    points,
	}, nil
}

func (sa *SweepAnalyzer) validate(in domain.TaxInputs) error {
	if sa.validator == nil {
		return nil
	}
	return sa.validator.ValidateInputs(&in)
}

func (sa *SweepAnalyzer) generateValues(p domain.SweepParameter) []decimal.Decimal {
	step := p.To.Sub(p.From).Div(decimal.NewFromInt(int64(p.Steps)))
	values := make([]decimal.Decimal, 0, p.Steps+1)
	for i := 0; i < p.Steps; i++ {
		values = append(values, p.From.Add(step.Mul(decimal.NewFromInt(int64(i)))))
	}
	// Land exactly on the upper bound regardless of division rounding
	return append(values, p.To)
}

func (sa *SweepAnalyzer) point(value decimal.Decimal, r *domain.SettlementResult) domain.SweepPoint {
	return domain.SweepPoint{
		Value:         value,
		TaxableBase:   r.TaxableBase,
		FinalTax:      r.FinalTax,
		MarginalRate:  r.MarginalRate,
		TotalCredits:  r.TotalCredits,
		PocketBalance: r.PocketBalance,
	}
}

// SweepParameterValue reads the named input from in
func SweepParameterValue(in domain.TaxInputs, name string) (decimal.Decimal, error) {
	field, ok := sweepFields[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown sweep parameter %q", name)
	}
	return field.get(in), nil
}

// WithSweepParameter returns a copy of in with the named input set to v
func WithSweepParameter(in domain.TaxInputs, name string, v decimal.Decimal) (domain.TaxInputs, error) {
	field, ok := sweepFields[name]
	if !ok {
		return in, fmt.Errorf("unknown sweep parameter %q", name)
	}
	field.set(&in, v)
	return in, nil
}
