package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/calculation"
	"github.com/rgehrsitz/taxpro/internal/config"
	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/rgehrsitz/taxpro/internal/transform"
)

// DefaultBaseScenarioName labels the unmodified inputs
const DefaultBaseScenarioName = "Base"

// CustomScenarioName labels the scenario built from ad-hoc transform specs
const CustomScenarioName = "custom"

// CompareEngine orchestrates what-if comparisons
type CompareEngine struct {
	Settlement        *calculation.SettlementEngine
	Validator         *config.InputParser
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(settlement *calculation.SettlementEngine) *CompareEngine {
	return &CompareEngine{
		Settlement:        settlement,
		Validator:         config.NewInputParser(),
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Label for the unmodified inputs
	Templates        []string // Template names, one alternative each
	Transforms       []string // Transform specs composed into one custom alternative
}

// Compare settles base and every alternative built from the options
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base domain.TaxInputs,
	options CompareOptions,
) (*ComparisonSet, error) {
	if len(options.Templates) == 0 && len(options.Transforms) == 0 {
		return nil, fmt.Errorf("no alternatives to compare: give at least one template or transform")
	}

	if err := ce.Validator.ValidateInputs(&base); err != nil {
		return nil, fmt.Errorf("base inputs are invalid: %w", err)
	}

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = DefaultBaseScenarioName
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, ce.Settlement.Settle(base))
	baseResult.Description = "Inputs as filed"

	alternatives := []ComparisonResult{}

	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found (known: %s)", templateName, strings.Join(ce.TemplateRegistry.List(), ", "))
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}

		alt, err := ce.settle(template.Name, template.Description, modified, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	if len(options.Transforms) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		transforms := make([]transform.InputTransform, 0, len(options.Transforms))
		descriptions := make([]string, 0, len(options.Transforms))
		for _, spec := range options.Transforms {
			t, err := ce.TransformRegistry.ParseTransformSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
			}
			transforms = append(transforms, t)
			descriptions = append(descriptions, t.Description())
		}

		modified, err := transform.ApplyTransforms(base, transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to apply transforms: %w", err)
		}

		alt, err := ce.settle(CustomScenarioName, strings.Join(descriptions, " + "), modified, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// settle validates a modified input record and compares its settlement to the base
func (ce *CompareEngine) settle(name, description string, in domain.TaxInputs, base ComparisonResult) (ComparisonResult, error) {
	if err := ce.Validator.ValidateInputs(&in); err != nil {
		return ComparisonResult{}, fmt.Errorf("scenario %s produces invalid inputs: %w", name, err)
	}

	result := ce.MetricsCalculator.CalculateMetrics(name, ce.Settlement.Settle(in))
	result.Description = description
	return ce.MetricsCalculator.CalculateComparison(result, base), nil
}
