package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/itax/internal/domain"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the statutory rule tables",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available fiscal years",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rules fingerprint: %s\n", engine.Rules.Fingerprint())
		for _, fy := range engine.Rules.FiscalYears() {
			rt, err := engine.Rules.Lookup(fy)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-10s %s\n", fy, rt.Description)
		}
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [fiscal-year]",
	Short: "Print the rule table for a fiscal year as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		rt, err := engine.Rules.Lookup(domain.FiscalYear(args[0]))
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(map[domain.FiscalYear]*domain.RuleTable{rt.FiscalYear: rt})
		if err != nil {
			return fmt.Errorf("failed to encode rule table: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
}
