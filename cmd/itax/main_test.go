package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salaryProfile = `fiscal_year: "2025-26"
age_band: below60
residency:
  status: ROR
income:
  gross_salary: 15,00,000
`

// execute runs the root command with args and resets every flag afterwards
// so tests do not leak state through the package-level commands.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd
	require.NotNil(t, cmd)

	assert.Equal(t, "itax", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Flag("help"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("rules"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestRootCommand_Execute(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "itax")
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "compute")
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, err := execute(t, "no-such-command")
	assert.Error(t, err)
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"compute",
		"validate",
		"compare-years",
		"breakeven",
		"residency",
		"rules",
		"serve",
		"version",
	}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expectedCommands {
		assert.True(t, registered[name], "expected command %q to be registered", name)
	}
}

func TestComputeCommand_Console(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	out, err := execute(t, "compute", path)
	require.NoError(t, err)
	assert.Contains(t, out, "INCOME TAX REGIME COMPARISON")
	assert.Contains(t, out, "2025-26")
}

func TestComputeCommand_JSON(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	out, err := execute(t, "compute", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"97500"`)
	assert.Contains(t, out, `"257400"`)
}

func TestComputeCommand_WhatIf(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	out, err := execute(t, "compute", path, "-f", "json",
		"--what-if", "set_fiscal_year:fy=2024-25")
	require.NoError(t, err)
	assert.Contains(t, out, `"130000"`)

	out, err = execute(t, "compute", path, "--what-if", "add_deduction:section=sec_80c,amount=150000")
	require.NoError(t, err)
	assert.Contains(t, out, "What-if: Claim")

	_, err = execute(t, "compute", path, "--what-if", "bogus")
	assert.Error(t, err)
}

func TestComputeCommand_OutFile(t *testing.T) {
	path := writeProfile(t, salaryProfile)
	outFile := filepath.Join(t.TempDir(), "report.csv")

	out, err := execute(t, "compute", path, "-f", "csv", "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Regime,Section,Kind,Label,Amount")
}

func TestComputeCommand_Errors(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	_, err := execute(t, "compute", path, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = execute(t, "compute", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "compute")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", writeProfile(t, salaryProfile))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := writeProfile(t, `fiscal_year: "1999-00"
age_band: below60
residency:
  status: ROR
`)
	_, err = execute(t, "validate", bad)
	assert.Error(t, err)
}

func TestCompareYearsCommand(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	out, err := execute(t, "compare-years", path, "--base", "2024-25")
	require.NoError(t, err)
	assert.Contains(t, out, "FISCAL YEAR TAX COMPARISON")
	assert.Contains(t, out, "2025-26")

	out, err = execute(t, "compare-years", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Fiscal Year,Type")

	_, err = execute(t, "compare-years", path, "--format", "yaml")
	assert.Error(t, err)
}

func TestBreakevenCommand(t *testing.T) {
	path := writeProfile(t, salaryProfile)

	out, err := execute(t, "breakeven", path)
	require.NoError(t, err)
	assert.Contains(t, out, "REGIME BREAK-EVEN")
	assert.Contains(t, out, "BREAK-EVEN POINT")

	out, err = execute(t, "breakeven", path, "--all-years", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"recommendations"`)
	assert.Contains(t, out, `"543750"`)
}

func TestResidencyCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non-resident", []string{"--days-current", "30"}, "NRI"},
		{"ordinary", []string{"--days-current", "200", "--days-prev7", "800", "--resident-2-of-10"}, "ROR"},
		{"not ordinary", []string{"--days-current", "200"}, "RNOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"residency"}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	out, err := execute(t, "residency", "--days-current", "400")
	require.NoError(t, err)
	assert.Contains(t, out, "RNOR")

	out, err = execute(t, "residency", "--days-current=-5")
	require.NoError(t, err)
	assert.Contains(t, out, "NRI")
}

func TestRulesCommands(t *testing.T) {
	out, err := execute(t, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-25")
	assert.Contains(t, out, "2025-26")
	assert.Contains(t, out, "fingerprint")

	out, err = execute(t, "rules", "show", "2025-26")
	require.NoError(t, err)
	assert.Contains(t, out, "new_slabs")
	assert.Contains(t, out, "cess_rate")

	_, err = execute(t, "rules", "show", "1999-00")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "itax dev")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ITAX_TEST_VALUE", "set")
	assert.Equal(t, "set", envOr("ITAX_TEST_VALUE", "default"))
	assert.Equal(t, "default", envOr("ITAX_TEST_UNSET_VALUE", "default"))
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	store := newStore(t.Context(), "", cliLogger{})
	assert.NotNil(t, store)

	store = newStore(t.Context(), "127.0.0.1:1", cliLogger{})
	assert.NotNil(t, store)
	_, ok, err := store.Get(t.Context(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
