package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/itax/internal/config"
	"github.com/rgehrsitz/itax/internal/domain"
)

// TransformRegistry creates transforms from string parameters for the CLI
// and the HTTP API.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (RequestTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("adjust_income", createAdjustIncome)
	registry.Register("add_deduction", createAddDeduction)
	registry.Register("set_fiscal_year", createSetFiscalYear)
	registry.Register("set_residency", createSetResidency)
	registry.Register("set_age_band", createSetAgeBand)
	registry.Register("add_capital_gain", createAddCapitalGain)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (RequestTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
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
// Example: "add_deduction:section=sec_80c,amount=50000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (RequestTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses each spec in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]RequestTransform, error) {
	out := make([]RequestTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func requireParams(params map[string]string, transform string, keys ...string) error {
	for _, key := range keys {
		if _, ok := params[key]; !ok {
			return fmt.Errorf("%s requires '%s' parameter", transform, key)
		}
	}
	return nil
}

// Factory functions for each transform

func createAdjustIncome(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "adjust_income", "head", "delta"); err != nil {
		return nil, err
	}
	delta, err := config.ParseAmountStrict(params["delta"])
	if err != nil {
		return nil, fmt.Errorf("invalid delta value: %w", err)
	}
	return &AdjustIncome{Head: params["head"], Delta: delta}, nil
}

func createAddDeduction(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "add_deduction", "section", "amount"); err != nil {
		return nil, err
	}
	amount, err := config.ParseAmountStrict(params["amount"])
	if err != nil {
		return nil, fmt.Errorf("invalid amount value: %w", err)
	}
	return &AddDeduction{Section: params["section"], Amount: amount}, nil
}

func createSetFiscalYear(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "set_fiscal_year", "fy"); err != nil {
		return nil, err
	}
	return &SetFiscalYear{FiscalYear: domain.FiscalYear(params["fy"])}, nil
}

func createSetResidency(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "set_residency", "status"); err != nil {
		return nil, err
	}
	status, err := domain.ParseResidencyStatus(params["status"])
	if err != nil {
		return nil, err
	}
	return &SetResidency{Status: status}, nil
}

func createSetAgeBand(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "set_age_band", "band"); err != nil {
		return nil, err
	}
	band, err := domain.ParseAgeBand(params["band"])
	if err != nil {
		return nil, err
	}
	return &SetAgeBand{Band: band}, nil
}

func createAddCapitalGain(params map[string]string) (RequestTransform, error) {
	if err := requireParams(params, "add_capital_gain", "term", "amount"); err != nil {
		return nil, err
	}
	term, err := domain.ParseTerm(params["term"])
	if err != nil {
		return nil, err
	}
	bucket, err := domain.ParseDateBucket(params["bucket"])
	if err != nil {
		return nil, err
	}
	amount, err := config.ParseAmountStrict(params["amount"])
	if err != nil {
		return nil, fmt.Errorf("invalid amount value: %w", err)
	}
	return &AddCapitalGain{Term: term, Amount: amount, Bucket: bucket}, nil
}
