package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/itax/internal/breakeven"
	"github.com/rgehrsitz/itax/internal/config"
)

var breakevenCmd = &cobra.Command{
	Use:   "breakeven [profile-file]",
	Short: "Find the old-regime deductions needed to match the new regime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		profile, err := config.NewInputParserWithRules(engine.Rules).LoadFromFile(args[0])
		if err != nil {
			return err
		}
		req, err := profile.ToRequest()
		if err != nil {
			return err
		}

		transforms, err := whatIfTransforms(cmd)
		if err != nil {
			return err
		}
		beReq := breakeven.Request{Base: req, Transforms: transforms}

		solver := breakeven.NewDefaultSolver(engine)
		allYears, _ := cmd.Flags().GetBool("all-years")
		outputFormat, _ := cmd.Flags().GetString("format")

		var result any
		var table string
		if allYears {
			yr, err := solver.SolveYears(cmd.Context(), beReq, nil)
			if err != nil {
				return err
			}
			result, table = yr, (&breakeven.TableFormatter{}).FormatYears(yr)
		} else {
			res, err := solver.Solve(cmd.Context(), beReq)
			if err != nil {
				return err
			}
			result, table = res, (&breakeven.TableFormatter{}).Format(res)
		}

		switch strings.ToLower(outputFormat) {
		case "table", "console":
			fmt.Fprint(cmd.OutOrStdout(), table)
		case "json":
			out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		default:
			return fmt.Errorf("unsupported format %q (table, json)", outputFormat)
		}
		return nil
	},
}

func init() {
	breakevenCmd.Flags().Bool("all-years", false, "Solve for every fiscal year in the rule tables")
	breakevenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	addWhatIfFlag(breakevenCmd)
}
