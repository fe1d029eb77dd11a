package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/output"
	"github.com/shopspring/decimal"
)

// OptimizeMultiDimensional runs the same goal over each lever in its natural
// range and compares the outcomes. Levers that cannot reach the goal are
// skipped.
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	base domain.TaxInputs,
	levers []string,
	metric Metric,
	goal OptimizationGoal,
	target *decimal.Decimal,
) (*MultiDimensionalResult, error) {
	if len(levers) == 0 {
		levers = DefaultLevers
	}

	var results []OptimizationResult
	for _, lever := range levers {
		req := OptimizationRequest{
			Base:          base,
			Parameter:     lever,
			Metric:        metric,
			Goal:          goal,
			Constraints:   Constraints{Target: target},
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Optimize(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if l := s.Engine.Logger; l != nil {
				l.Debugf("lever %s skipped: %v", lever, err)
			}
			continue
		}
		if result.Success {
			results = append(results, *result)
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
		}
	}

	mdResult := &MultiDimensionalResult{
		Metric:  metric,
		Goal:    goal,
		Results: results,
	}
	for i := range results {
		if mdResult.BestByMetric == nil || results[i].MetricValue.LessThan(mdResult.BestByMetric.MetricValue) {
			mdResult.BestByMetric = &results[i]
		}
		if mdResult.BestByTax == nil || results[i].FinalTax.LessThan(mdResult.BestByTax.FinalTax) {
			mdResult.BestByTax = &results[i]
		}
	}
	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

// generateMultiDimensionalRecommendations creates recommendations from multi-dimensional results
func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	for _, r := range result.Results {
		if r.ValueDiffFromBase.IsZero() {
			continue
		}
		p := r.Request.Parameter
		recommendations = append(recommendations, fmt.Sprintf("Set %s to %s (now %s): %s becomes %s",
			p,
			output.FormatParameterValue(p, r.OptimalValue),
			output.FormatParameterValue(p, r.BaseValue),
			result.Metric,
			output.FormatPesos(r.MetricValue)))
	}

	if best := result.BestByMetric; best != nil && result.Goal == GoalMinimize && best.MetricDiffFromBase.IsNegative() {
		recommendations = append(recommendations, fmt.Sprintf("⭐ %s is the strongest lever: %s lower by %s",
			best.Request.Parameter, result.Metric, output.FormatPesos(best.MetricDiffFromBase.Abs())))
	}

	return recommendations
}
