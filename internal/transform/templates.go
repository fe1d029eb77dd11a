package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/taxpro/internal/domain"
	"github.com/shopspring/decimal"
)

// Template categories, in the order GetTemplateHelp lists them
const (
	CategorySocialSecurity = "Social Security"
	CategoryDeductions     = "Deductions"
	CategoryWithdrawals    = "Withdrawals"
	CategoryCombination    = "Combination Strategies"
)

var categoryOrder = []string{CategorySocialSecurity, CategoryDeductions, CategoryWithdrawals, CategoryCombination}

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common
// choices a fee earner can make before filing
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()
	cheapest := CheapestAFP()
	savingsCap := domain.DefaultRules2026().Savings.CapUF

	registry.Register(Template{
		Name:        "full_coverage",
		Description: "Pay health and retirement on the whole contribution base",
		Category:    CategorySocialSecurity,
		Transforms:  []InputTransform{&SetCoverage{Mode: domain.FullCoverage}},
	})

	registry.Register(Template{
		Name:        "minimum_coverage",
		Description: "Partial coverage at the 47% minimum",
		Category:    CategorySocialSecurity,
		Transforms: []InputTransform{
			&SetCoverage{Mode: domain.PartialCoverage, FactorPct: decimal.NewFromInt(47)},
		},
	})

	registry.Register(Template{
		Name:        "cheapest_afp",
		Description: fmt.Sprintf("Switch to AFP %s, the lowest commission", cheapest),
		Category:    CategorySocialSecurity,
		Transforms:  []InputTransform{&SetAFP{AFP: cheapest}},
	})

	registry.Register(Template{
		Name:        "no_full_withholding",
		Description: "Do not apply fee withholding to social security",
		Category:    CategorySocialSecurity,
		Transforms:  []InputTransform{&SetFullWithholding{Enabled: false}},
	})

	registry.Register(Template{
		Name:        "max_savings",
		Description: fmt.Sprintf("Deposit the %s UF voluntary savings cap", savingsCap),
		Category:    CategoryDeductions,
		Transforms:  []InputTransform{&MaxVoluntarySavings{CapUF: savingsCap}},
	})

	registry.Register(Template{
		Name:        "presumed_expenses",
		Description: "Deduct presumed expenses instead of actual ones",
		Category:    CategoryDeductions,
		Transforms:  []InputTransform{&SetExpenseMethod{Method: domain.PresumedExpense}},
	})

	registry.Register(Template{
		Name:        "semi_integrated",
		Description: "Withdrawals from a semi-integrated entity at 27%",
		Category:    CategoryWithdrawals,
		Transforms:  []InputTransform{&SetEntityRegime{Regime: domain.SemiIntegratedRegime}},
	})

	registry.Register(Template{
		Name:        "simplified",
		Description: "Withdrawals from a simplified (ProPyme) entity at 12.5%",
		Category:    CategoryWithdrawals,
		Transforms:  []InputTransform{&SetEntityRegime{Regime: domain.SimplifiedRegime}},
	})

	registry.Register(Template{
		Name:        "minimum_contributions",
		Description: fmt.Sprintf("Minimum coverage + AFP %s", cheapest),
		Category:    CategoryCombination,
		Transforms: []InputTransform{
			&SetCoverage{Mode: domain.PartialCoverage, FactorPct: decimal.NewFromInt(47)},
			&SetAFP{AFP: cheapest},
		},
	})

	registry.Register(Template{
		Name:        "full_coverage_max_savings",
		Description: "Full coverage + voluntary savings cap",
		Category:    CategoryCombination,
		Transforms: []InputTransform{
			&SetCoverage{Mode: domain.FullCoverage},
			&MaxVoluntarySavings{CapUF: savingsCap},
		},
	})

	return registry
}

// ApplyTemplate applies a template to base
func ApplyTemplate(base domain.TaxInputs, template Template) (domain.TaxInputs, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = CategoryCombination
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range categoryOrder {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-28s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  ./taxpro compare input.yaml --with full_coverage,max_savings\n")
	sb.WriteString("  ./taxpro compare input.yaml --transform set_income:source=fees,amount=20000000\n")

	return sb.String()
}
