package transform

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	minCoverageFactor = decimal.NewFromInt(47)
	maxCoverageFactor = decimal.NewFromInt(100)
)

// SetCoverage switches between full and partial social-security coverage
type SetCoverage struct {
	Mode      domain.CoverageMode
	FactorPct decimal.Decimal // only used with partial coverage
}

func (sc *SetCoverage) Name() string {
	return "set_coverage"
}

func (sc *SetCoverage) Description() string {
	if sc.Mode == domain.PartialCoverage {
		return fmt.Sprintf("Partial coverage at %s%%", sc.FactorPct)
	}
	return "Full coverage"
}

func (sc *SetCoverage) Validate(base domain.TaxInputs) error {
	switch sc.Mode {
	case domain.FullCoverage:
	case domain.PartialCoverage:
		if sc.FactorPct.LessThan(minCoverageFactor) || sc.FactorPct.GreaterThan(maxCoverageFactor) {
			return NewTransformError(sc.Name(), "validate", fmt.Sprintf("coverage factor must be between 47 and 100, got %s", sc.FactorPct), nil)
		}
	default:
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("unknown coverage mode %q", sc.Mode), nil)
	}
	return nil
}

func (sc *SetCoverage) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.CoverageMode = sc.Mode
	if sc.Mode == domain.PartialCoverage {
		modified.PartialCoverageFactorPct = sc.FactorPct
	}
	return modified, nil
}

// SetAFP moves the taxpayer to another pension fund manager
type SetAFP struct {
	AFP string
}

func (sa *SetAFP) Name() string {
	return "set_afp"
}

func (sa *SetAFP) Description() string {
	return fmt.Sprintf("Switch pension fund to AFP %s", sa.AFP)
}

func (sa *SetAFP) Validate(base domain.TaxInputs) error {
	if _, ok := domain.LookupAFPCommission(sa.AFP); !ok {
		return NewTransformError(sa.Name(), "validate", fmt.Sprintf("unknown AFP %q (known: %v)", sa.AFP, domain.AFPNames()), nil)
	}
	return nil
}

func (sa *SetAFP) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	pct, ok := domain.LookupAFPCommission(sa.AFP)
	if !ok {
		return base, NewTransformError(sa.Name(), "apply", fmt.Sprintf("unknown AFP %q", sa.AFP), nil)
	}
	modified := base
	modified.AFPCommissionPct = pct
	return modified, nil
}

// CheapestAFP returns the manager with the lowest commission
func CheapestAFP() string {
	names := domain.AFPNames()
	best := names[0]
	for _, n := range names[1:] {
		if domain.AFPCommissions[n].LessThan(domain.AFPCommissions[best]) {
			best = n
		}
	}
	return best
}

// SetFullWithholding toggles whether fee withholding is applied to the
// social-security debt
type SetFullWithholding struct {
	Enabled bool
}

func (sf *SetFullWithholding) Name() string {
	return "set_full_withholding"
}

func (sf *SetFullWithholding) Description() string {
	if sf.Enabled {
		return "Apply withholding to social security"
	}
	return "Keep withholding away from social security"
}

func (sf *SetFullWithholding) Validate(base domain.TaxInputs) error {
	return nil
}

func (sf *SetFullWithholding) Apply(base domain.TaxInputs) (domain.TaxInputs, error) {
	modified := base
	modified.FullWithholding = sf.Enabled
	return modified, nil
}
