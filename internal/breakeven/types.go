package breakeven

import (
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// Metric names the settlement figure the solver steers
type Metric string

const (
	MetricPocketBalance Metric = "pocket_balance"
	MetricFinalTax      Metric = "final_tax"
	MetricTaxableBase   Metric = "taxable_base"
)

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalMatchTarget OptimizationGoal = "match_target" // Bring the metric to Constraints.Target
	GoalMinimize    OptimizationGoal = "minimize"     // Lowest metric inside the bounds
)

// DefaultLevers are the inputs a taxpayer can still act on after the year
// has closed its income
var DefaultLevers = []string{"savings", "mortgage", "coverage_factor", "afp_commission"}

// Constraints bound the searched parameter. Nil bounds fall back to the
// parameter's natural range.
type Constraints struct {
	Min    *decimal.Decimal `json:"min,omitempty"`
	Max    *decimal.Decimal `json:"max,omitempty"`
	Target *decimal.Decimal `json:"target,omitempty"`
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Base          domain.TaxInputs `json:"-"`
	Parameter     string           `json:"parameter"`
	Metric        Metric           `json:"metric"`
	Goal          OptimizationGoal `json:"goal"`
	Constraints   Constraints      `json:"constraints"`
	MaxIterations int              `json:"max_iterations"`
	Tolerance     decimal.Decimal  `json:"tolerance"` // pesos of metric error accepted as a match
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	OptimalValue  decimal.Decimal          `json:"optimal_value"`
	Result        *domain.SettlementResult `json:"-"`
	MetricValue   decimal.Decimal          `json:"metric_value"`
	FinalTax      decimal.Decimal          `json:"final_tax"`
	MarginalRate  decimal.Decimal          `json:"marginal_rate"`
	PocketBalance decimal.Decimal          `json:"pocket_balance"`

	BaseValue          decimal.Decimal `json:"base_value"`
	BaseMetricValue    decimal.Decimal `json:"base_metric_value"`
	ValueDiffFromBase  decimal.Decimal `json:"value_diff_from_base"`
	MetricDiffFromBase decimal.Decimal `json:"metric_diff_from_base"`
}

// MultiDimensionalResult contains results when solving over several levers
type MultiDimensionalResult struct {
	Metric          Metric               `json:"metric"`
	Goal            OptimizationGoal     `json:"goal"`
	Results         []OptimizationResult `json:"results"`
	BestByMetric    *OptimizationResult  `json:"best_by_metric,omitempty"`
	BestByTax       *OptimizationResult  `json:"best_by_tax,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	GridResolution int             // Intervals of the minimize grid
	Tolerance      decimal.Decimal // Convergence tolerance in pesos
	MaxIterations  int             // Settlements per run
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridResolution: 20,
		Tolerance:      decimal.NewFromInt(1),
		MaxIterations:  60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.Min != nil && c.Max != nil && c.Min.GreaterThan(*c.Max) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be greater than max",
		}
	}
	if c.Min != nil && c.Min.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be negative",
		}
	}
	return nil
}

// Value reads the metric from a settlement
func (m Metric) Value(r *domain.SettlementResult) (decimal.Decimal, bool) {
	switch m {
	case MetricPocketBalance:
		return r.PocketBalance, true
	case MetricFinalTax:
		return r.FinalTax, true
	case MetricTaxableBase:
		return r.TaxableBase, true
	default:
		return decimal.Zero, false
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
