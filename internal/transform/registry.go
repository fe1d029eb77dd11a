package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_coverage", createSetCoverage)
	registry.Register("set_afp", createSetAFP)
	registry.Register("set_full_withholding", createSetFullWithholding)
	registry.Register("set_expense_method", createSetExpenseMethod)
	registry.Register("set_voluntary_savings", createSetVoluntarySavings)
	registry.Register("max_voluntary_savings", createMaxVoluntarySavings)
	registry.Register("set_mortgage_interest", createSetMortgageInterest)
	registry.Register("set_income", createSetIncome)
	registry.Register("set_entity_regime", createSetEntityRegime)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_coverage:mode=partial,factor=80"
func (r *TransformRegistry) ParseTransformSpec(spec string) (InputTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	name := strings.TrimSpace(parts[0])

	params := make(map[string]string)
	if len(parts) == 2 {
		paramsStr := strings.TrimSpace(parts[1])
		if paramsStr != "" {
			for _, paramPair := range strings.Split(paramsStr, ",") {
				kv := strings.SplitN(paramPair, "=", 2)
				if len(kv) != 2 {
					return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
				}
				params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
			}
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func requireParam(transform string, params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	v, err := requireParam(transform, params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func createSetCoverage(params map[string]string) (InputTransform, error) {
	mode, err := requireParam("set_coverage", params, "mode")
	if err != nil {
		return nil, err
	}

	t := &SetCoverage{Mode: domain.CoverageMode(mode)}
	if t.Mode == domain.PartialCoverage {
		if t.FactorPct, err = decimalParam("set_coverage", params, "factor"); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func createSetAFP(params map[string]string) (InputTransform, error) {
	name, err := requireParam("set_afp", params, "name")
	if err != nil {
		return nil, err
	}
	return &SetAFP{AFP: name}, nil
}

func createSetFullWithholding(params map[string]string) (InputTransform, error) {
	v, err := requireParam("set_full_withholding", params, "enabled")
	if err != nil {
		return nil, err
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid enabled value: %w", err)
	}
	return &SetFullWithholding{Enabled: enabled}, nil
}

func createSetExpenseMethod(params map[string]string) (InputTransform, error) {
	method, err := requireParam("set_expense_method", params, "method")
	if err != nil {
		return nil, err
	}

	t := &SetExpenseMethod{Method: domain.ExpenseMethod(method)}
	if t.Method == domain.ActualExpense {
		if t.Amount, err = decimalParam("set_expense_method", params, "amount"); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func createSetVoluntarySavings(params map[string]string) (InputTransform, error) {
	amount, err := decimalParam("set_voluntary_savings", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetVoluntarySavings{Amount: amount}, nil
}

func createMaxVoluntarySavings(params map[string]string) (InputTransform, error) {
	if _, ok := params["cap_uf"]; !ok {
		return &MaxVoluntarySavings{CapUF: domain.DefaultRules2026().Savings.CapUF}, nil
	}
	capUF, err := decimalParam("max_voluntary_savings", params, "cap_uf")
	if err != nil {
		return nil, err
	}
	return &MaxVoluntarySavings{CapUF: capUF}, nil
}

func createSetMortgageInterest(params map[string]string) (InputTransform, error) {
	amount, err := decimalParam("set_mortgage_interest", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetMortgageInterest{Amount: amount}, nil
}

func createSetIncome(params map[string]string) (InputTransform, error) {
	source, err := requireParam("set_income", params, "source")
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("set_income", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetIncome{Source: source, Amount: amount}, nil
}

func createSetEntityRegime(params map[string]string) (InputTransform, error) {
	regime, err := requireParam("set_entity_regime", params, "regime")
	if err != nil {
		return nil, err
	}

	t := &SetEntityRegime{Regime: domain.EntityRegime(regime)}
	if _, ok := params["rate"]; ok {
		if t.RatePct, err = decimalParam("set_entity_regime", params, "rate"); err != nil {
			return nil, err
		}
	}
	return t, nil
}
