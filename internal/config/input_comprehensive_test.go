package config

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"   ", "0"},
		{"1500000", "1500000"},
		{"15,00,000", "1500000"},
		{"1_500_000", "1500000"},
		{"₹12,50,000.50", "1250000.5"},
		{"Rs. 2500", "2500"},
		{"INR 100", "100"},
		{"-75000", "-75000"},
		{"1e5", "100000"},
		{"abc", "0"},
		{"12abc", "0"},
		{"--5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var doc struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
		E Amount `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a": 1200.5, "b": "3,00,000", "c": null, "d": "oops", "e": true}`), &doc)
	require.NoError(t, err)

	assert.True(t, doc.A.Equal(decimal.RequireFromString("1200.5")))
	assert.True(t, doc.B.Equal(decimal.NewFromInt(300000)))
	assert.True(t, doc.C.IsZero())
	assert.True(t, doc.D.IsZero())
	assert.True(t, doc.E.IsZero())
}

func TestAmount_MarshalJSONRoundTrip(t *testing.T) {
	in := IncomeProfile{GrossSalary: NewAmount(1800000)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gross_salary":"1800000"`)

	var out IncomeProfile
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.GrossSalary.Equal(decimal.NewFromInt(1800000)))
}

func TestParseAmountStrict(t *testing.T) {
	v, err := ParseAmountStrict("₹1,25,000")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(125000)))

	v, err = ParseAmountStrict("")
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = ParseAmountStrict("12abc")
	assert.Error(t, err)
}
