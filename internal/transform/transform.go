package transform

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
)

// RequestTransform defines the interface for all what-if changes to a request.
// Transforms are composable and never modify the request they are given.
type RequestTransform interface {
	// Apply returns a modified copy of base.
	Apply(base domain.TaxRequest) (domain.TaxRequest, error)

	// Name returns a short identifier such as "add_deduction".
	Name() string

	// Description returns a human-readable description of the change.
	Description() string

	// Validate checks the parameters against base without applying them.
	Validate(base domain.TaxRequest) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one.
func ApplyTransforms(base domain.TaxRequest, transforms []RequestTransform) (domain.TaxRequest, error) {
	current := Clone(base)

	for i, transform := range transforms {
		if transform == nil {
			return domain.TaxRequest{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.TaxRequest{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.TaxRequest{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	return current, nil
}

// Describe lists the descriptions of transforms in order.
func Describe(transforms []RequestTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		out = append(out, t.Description())
	}
	return out
}

// Clone copies req including its transaction slices.
func Clone(req domain.TaxRequest) domain.TaxRequest {
	req.CapitalGains.STCG = append([]domain.Transaction(nil), req.CapitalGains.STCG...)
	req.CapitalGains.LTCG = append([]domain.Transaction(nil), req.CapitalGains.LTCG...)
	return req
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
func NewTransformError(name, operation, reason string, err error) *TransformError {
	return &TransformError{
		TransformName: name,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
