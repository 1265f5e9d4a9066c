package rules

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rgehrsitz/itax/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultOverrideFile is picked up from the working directory when no explicit
// rules file is given.
const DefaultOverrideFile = "itax-rules.yaml"

//go:embed fiscal_years.yaml
var embeddedRules []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

type rulesFile struct {
	FiscalYears map[domain.FiscalYear]*domain.RuleTable `yaml:"fiscal_years"`
}

// Registry holds validated rule tables keyed by fiscal year.
// It is read-only after construction and safe for concurrent use. Tables
// returned by Lookup must not be modified.
type Registry struct {
	tables      map[domain.FiscalYear]*domain.RuleTable
	fingerprint string
}

// Default returns the registry built from the embedded rule tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Parse(embeddedRules)
		if err != nil {
			panic(fmt.Sprintf("embedded rule tables are invalid: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Parse builds a registry from YAML and validates every table.
func Parse(data []byte) (*Registry, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if len(f.FiscalYears) == 0 {
		return nil, fmt.Errorf("rules file defines no fiscal years")
	}

	reg := &Registry{tables: make(map[domain.FiscalYear]*domain.RuleTable, len(f.FiscalYears))}
	for fy, table := range f.FiscalYears {
		if table == nil {
			return nil, fmt.Errorf("fiscal year %s: empty rule table", fy)
		}
		table.FiscalYear = fy
		if err := Validate(table); err != nil {
			return nil, fmt.Errorf("fiscal year %s: %w", fy, err)
		}
		reg.tables[fy] = table
	}

	sum := sha256.Sum256(data)
	reg.fingerprint = hex.EncodeToString(sum[:8])
	return reg, nil
}

// LoadFile reads and parses a rules file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return reg, nil
}

// Resolve returns the registry from path, else from DefaultOverrideFile when it
// exists, else the embedded defaults. The second value names the source used.
func Resolve(path string) (*Registry, string, error) {
	if path != "" {
		reg, err := LoadFile(path)
		return reg, path, err
	}
	if _, err := os.Stat(DefaultOverrideFile); err == nil {
		reg, err := LoadFile(DefaultOverrideFile)
		return reg, DefaultOverrideFile, err
	}
	return Default(), "embedded", nil
}

// Lookup returns the rule table for fy.
func (r *Registry) Lookup(fy domain.FiscalYear) (*domain.RuleTable, error) {
	table, ok := r.tables[fy]
	if !ok {
		return nil, domain.NewConfigError("fiscal_year", string(fy), domain.ErrUnknownFiscalYear)
	}
	return table, nil
}

// FiscalYears returns the known fiscal years in ascending order.
func (r *Registry) FiscalYears() []domain.FiscalYear {
	years := make([]domain.FiscalYear, 0, len(r.tables))
	for fy := range r.tables {
		years = append(years, fy)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}

// Latest returns the most recent fiscal year.
func (r *Registry) Latest() domain.FiscalYear {
	years := r.FiscalYears()
	return years[len(years)-1]
}

// Fingerprint identifies the source bytes the registry was built from.
func (r *Registry) Fingerprint() string { return r.fingerprint }
