package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two = decimal.NewFromInt(2)
	// minInterval stops the bisection once bounds are a cent apart
	minInterval = decimal.NewFromFloat(0.01)
)

// Solver searches one settlement input for the value that reaches a goal
type Solver struct {
	Engine    *calculation.SettlementEngine
	Validator *config.InputParser
	Options   SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.SettlementEngine, options SolverOptions) *Solver {
	return &Solver{
		Engine:    engine,
		Validator: config.NewInputParser(),
		Options:   options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.SettlementEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Bounds returns the natural search range of parameter: the legal range
// for percentages, the rule cap for deductions, and four times the current
// amount (at least 400 UTA) for income
func (s *Solver) Bounds(parameter string, base domain.TaxInputs) (decimal.Decimal, decimal.Decimal) {
	rules := s.Engine.Rules
	switch parameter {
	case "coverage_factor":
		return decimal.NewFromInt(47), decimal.NewFromInt(100)
	case "withholding_rate":
		return decimal.Zero, decimal.NewFromInt(100)
	case "afp_commission":
		return decimal.Zero, decimal.NewFromInt(3)
	case "savings":
		return decimal.Zero, rules.Savings.CapUF.Mul(base.InflationUnitValue)
	case "mortgage":
		return decimal.Zero, rules.Mortgage.CapUTA.Mul(base.MonthlyTaxUnitValue)
	}

	current, _ := calculation.SweepParameterValue(base, parameter)
	upper := decimal.Max(current.Mul(decimal.NewFromInt(4)), decimal.NewFromInt(400).Mul(base.MonthlyTaxUnitValue))
	return decimal.Zero, upper
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if _, err := calculation.SweepParameterValue(req.Base, req.Parameter); err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "invalid parameter", Cause: err}
	}
	if _, ok := req.Metric.Value(&domain.SettlementResult{}); !ok {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported metric: %s", req.Metric),
		}
	}
	if err := s.Validator.ValidateInputs(&req.Base); err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base inputs are invalid", Cause: err}
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Goal {
	case GoalMatchTarget:
		return s.matchTarget(ctx, req)
	case GoalMinimize:
		return s.minimize(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization goal: %s", req.Goal),
		}
	}
}

func (s *Solver) bounds(req OptimizationRequest) (decimal.Decimal, decimal.Decimal) {
	lo, hi := s.Bounds(req.Parameter, req.Base)
	if req.Constraints.Min != nil {
		lo = *req.Constraints.Min
	}
	if req.Constraints.Max != nil {
		hi = *req.Constraints.Max
	}
	return lo, hi
}

// matchTarget bisects the bounds for a value whose metric lies within
// tolerance of the target. The metric must cross the target between the
// bounds.
func (s *Solver) matchTarget(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Constraints.Target == nil {
		return nil, &BreakEvenError{
			Operation: "match_target",
			Message:   "a target value is required",
		}
	}
	target := *req.Constraints.Target
	lo, hi := s.bounds(req)
	if lo.GreaterThan(hi) {
		return nil, &BreakEvenError{
			Operation: "match_target",
			Message:   fmt.Sprintf("search range is inverted: %s to %s", lo, hi),
		}
	}

	loResult, err := s.evaluate(req, lo)
	if err != nil {
		return nil, err
	}
	hiResult, err := s.evaluate(req, hi)
	if err != nil {
		return nil, err
	}
	iterations := 2

	loMiss := s.metric(req, loResult).Sub(target)
	hiMiss := s.metric(req, hiResult).Sub(target)
	if loMiss.Abs().LessThanOrEqual(req.Tolerance) {
		return s.result(req, lo, loResult, iterations, true, "Target met at the lower bound"), nil
	}
	if hiMiss.Abs().LessThanOrEqual(req.Tolerance) {
		return s.result(req, hi, hiResult, iterations, true, "Target met at the upper bound"), nil
	}
	if loMiss.Sign() == hiMiss.Sign() {
		return nil, &BreakEvenError{
			Operation: "match_target",
			Message: fmt.Sprintf("%s never reaches %s for %s between %s and %s (runs from %s to %s)",
				req.Metric, target.StringFixed(0), req.Parameter, lo, hi,
				s.metric(req, loResult).StringFixed(0), s.metric(req, hiResult).StringFixed(0)),
		}
	}

	var last *OptimizationResult
	for iterations < req.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		mid := lo.Add(hi).Div(two).Round(2)
		midResult, err := s.evaluate(req, mid)
		if err != nil {
			return nil, err
		}
		miss := s.metric(req, midResult).Sub(target)
		if miss.Abs().LessThanOrEqual(req.Tolerance) {
			info := fmt.Sprintf("Converged to target within $%s", req.Tolerance.StringFixed(0))
			return s.result(req, mid, midResult, iterations, true, info), nil
		}

		if miss.Sign() == loMiss.Sign() {
			lo, loMiss = mid, miss
		} else {
			hi = mid
		}
		last = s.result(req, mid, midResult, iterations, false, "")

		// A jump in the metric (a bracket or cap edge) leaves the target
		// unreachable exactly; stop at the edge
		if hi.Sub(lo).LessThanOrEqual(minInterval) {
			last.Success = true
			last.ConvergenceInfo = fmt.Sprintf("Search interval narrowed to %s", mid)
			return last, nil
		}
	}

	if last == nil {
		return nil, &BreakEvenError{
			Operation: "match_target",
			Message:   fmt.Sprintf("optimization did not converge after %d iterations", req.MaxIterations),
		}
	}
	last.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	return last, nil
}

// minimize evaluates an evenly spaced grid over the bounds and keeps the
// lowest metric; ties go to the smaller value
func (s *Solver) minimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	lo, hi := s.bounds(req)
	if lo.GreaterThan(hi) {
		return nil, &BreakEvenError{
			Operation: "minimize",
			Message:   fmt.Sprintf("search range is inverted: %s to %s", lo, hi),
		}
	}

	resolution := s.Options.GridResolution
	if resolution < 1 {
		resolution = DefaultSolverOptions().GridResolution
	}
	step := hi.Sub(lo).Div(decimal.NewFromInt(int64(resolution)))

	var best *OptimizationResult
	iterations := 0
	for i := 0; i <= resolution && iterations < req.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++

		value := lo.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == resolution {
			value = hi
		}
		r, err := s.evaluate(req, value)
		if err != nil {
			return nil, err
		}

		candidate := s.result(req, value, r, iterations, false, "")
		if best == nil || candidate.MetricValue.LessThan(best.MetricValue) {
			best = candidate
		}
	}

	best.Iterations = iterations
	best.Success = true
	best.ConvergenceInfo = fmt.Sprintf("Evaluated %d values of %s", iterations, req.Parameter)
	return best, nil
}

// evaluate settles the base with parameter set to value
func (s *Solver) evaluate(req OptimizationRequest, value decimal.Decimal) (*domain.SettlementResult, error) {
	in, err := calculation.WithSweepParameter(req.Base, req.Parameter, value)
	if err != nil {
		return nil, &BreakEvenError{Operation: "evaluate", Message: "invalid parameter", Cause: err}
	}
	if err := s.Validator.ValidateInputs(&in); err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("%s = %s produces invalid inputs", req.Parameter, value),
			Cause:     err,
		}
	}
	return s.Engine.Settle(in), nil
}

func (s *Solver) metric(req OptimizationRequest, r *domain.SettlementResult) decimal.Decimal {
	v, _ := req.Metric.Value(r)
	return v
}

// result creates an optimization result and its comparison to the base
func (s *Solver) result(
	req OptimizationRequest,
	value decimal.Decimal,
	r *domain.SettlementResult,
	iterations int,
	success bool,
	info string,
) *OptimizationResult {
	baseValue, _ := calculation.SweepParameterValue(req.Base, req.Parameter)
	baseMetric := s.metric(req, s.Engine.Settle(req.Base))
	metric := s.metric(req, r)

	return &OptimizationResult{
		Request:            req,
		Success:            success,
		Iterations:         iterations,
		ConvergenceInfo:    info,
		OptimalValue:       value,
		Result:             r,
		MetricValue:        metric,
		FinalTax:           r.FinalTax,
		MarginalRate:       r.MarginalRate,
		PocketBalance:      r.PocketBalance,
		BaseValue:          baseValue,
		BaseMetricValue:    baseMetric,
		ValueDiffFromBase:  value.Sub(baseValue),
		MetricDiffFromBase: metric.Sub(baseMetric),
	}
}
