package transform

import (
	"testing"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()

	assert.Equal(t, []string{
		"add_capital_gain",
		"add_deduction",
		"adjust_income",
		"set_age_band",
		"set_fiscal_year",
		"set_residency",
	}, names)
}

func TestParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec string
		name string
	}{
		{"add_deduction:section=sec_80c,amount=50000", "add_deduction"},
		{"adjust_income:head=gross_salary,delta=-100000", "adjust_income"},
		{"set_fiscal_year:fy=2024-25", "set_fiscal_year"},
		{"set_residency:status=NRI", "set_residency"},
		{"set_age_band:band=above80", "set_age_band"},
		{"add_capital_gain:term=long,amount=300000,bucket=before", "add_capital_gain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.name, tr.Name())
		})
	}
}

func TestParseTransformSpec_Values(t *testing.T) {
	tr, err := NewTransformRegistry().ParseTransformSpec("add_capital_gain:term=short,amount=₹75000")
	require.NoError(t, err)

	acg, ok := tr.(*AddCapitalGain)
	require.True(t, ok)
	assert.Equal(t, domain.ShortTerm, acg.Term)
	assert.Equal(t, domain.BucketAfterCutoff, acg.Bucket)
	assert.True(t, acg.Amount.Equal(d(75000)))
}

func TestParseTransformSpec_Errors(t *testing.T) {
	registry := NewTransformRegistry()

	bad := []string{
		"add_deduction",
		"no_such_transform:x=1",
		"add_deduction:section=sec_80c",
		"add_deduction:section=sec_80c,amount=lots",
		"add_deduction:section",
		"set_residency:status=martian",
		"set_age_band:band=teen",
		"add_capital_gain:term=long,amount=1,bucket=someday",
	}
	for _, spec := range bad {
		_, err := registry.ParseTransformSpec(spec)
		assert.Error(t, err, spec)
	}
}

func TestParseTransformSpecs(t *testing.T) {
	trs, err := NewTransformRegistry().ParseTransformSpecs([]string{
		"set_fiscal_year:fy=2024-25",
		"add_deduction:section=sec_80d,amount=25000",
	})
	require.NoError(t, err)
	assert.Len(t, trs, 2)

	_, err = NewTransformRegistry().ParseTransformSpecs([]string{"oops"})
	assert.Error(t, err)
}
