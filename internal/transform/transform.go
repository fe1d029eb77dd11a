package transform

import (
	"fmt"

	"github.com/rgehrsitz/taxpro/internal/domain"
)

// InputTransform is one what-if change to a taxpayer's inputs. Transforms
// compose: each receives the output of the previous one.
type InputTransform interface {
	// Apply returns a modified copy of base
	Apply(base domain.TaxInputs) (domain.TaxInputs, error)

	// Name returns a short identifier for this transform (e.g., "set_coverage")
	Name() string

	// Description returns a human-readable description of what this transform does
	Description() string

	// Validate checks the transform parameters against base without applying it
	Validate(base domain.TaxInputs) error
}

// ApplyTransforms applies transforms to base in order. TaxInputs is a value
// type, so base itself is never modified.
func ApplyTransforms(base domain.TaxInputs, transforms []InputTransform) (domain.TaxInputs, error) {
	current := base

	for i, transform := range transforms {
		if transform == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
