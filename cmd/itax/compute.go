package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/itax/internal/compare"
	"github.com/rgehrsitz/itax/internal/config"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/output"
	"github.com/rgehrsitz/itax/internal/transform"
)

var computeCmd = &cobra.Command{
	Use:   "compute [profile-file]",
	Short: "Compare the old and new regimes for a profile",
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
		req, err = transform.ApplyTransforms(req, transforms)
		if err != nil {
			return err
		}
		result, err := engine.Compute(req)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", outputFormat,
				strings.Join(output.AvailableFormatterNames(), ", "),
				strings.Join(output.AvailableFormatAliases(), ", "))
		}

		outFile, _ := cmd.Flags().GetString("out")
		switch {
		case outFile != "":
			data, err := f.Format(result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outFile)
		case f.Name() == "pdf":
			filename, err := output.WriteFormatted(f, result, output.Extension(f))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		default:
			data, err := f.Format(result)
			if err != nil {
				return err
			}
			if f.Name() == "console" {
				for _, desc := range transform.Describe(transforms) {
					fmt.Fprintf(cmd.OutOrStdout(), "What-if: %s\n", desc)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a profile file",
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
		status, err := profile.ResidencyStatus()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile %s is valid (FY %s, %s)\n", args[0], profile.FiscalYear, status.Description())
		return nil
	},
}

var compareYearsCmd = &cobra.Command{
	Use:   "compare-years [profile-file]",
	Short: "Compare a profile's tax across fiscal years",
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

		base, _ := cmd.Flags().GetString("base")
		yearsStr, _ := cmd.Flags().GetString("years")
		options := compare.CompareOptions{
			BaseFiscalYear: domain.FiscalYear(base),
			ProfilePath:    args[0],
			Transforms:     transforms,
		}
		if yearsStr != "" {
			for _, y := range strings.Split(yearsStr, ",") {
				options.FiscalYears = append(options.FiscalYears, domain.FiscalYear(strings.TrimSpace(y)))
			}
		}

		compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), req, options)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		var out string
		switch strings.ToLower(outputFormat) {
		case "table", "console":
			out = (&compare.TableFormatter{}).Format(compSet)
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(compSet)
		case "json":
			out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		default:
			return fmt.Errorf("unsupported format %q (table, csv, json)", outputFormat)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	computeCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, pdf)")
	computeCmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout")
	addWhatIfFlag(computeCmd)

	compareYearsCmd.Flags().String("base", "", "Base fiscal year (default: the profile's fiscal year)")
	compareYearsCmd.Flags().String("years", "", "Comma-separated fiscal years to compare (default: all)")
	compareYearsCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	addWhatIfFlag(compareYearsCmd)
}
