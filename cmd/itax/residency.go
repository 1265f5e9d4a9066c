package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/domain"
)

var residencyCmd = &cobra.Command{
	Use:   "residency",
	Short: "Classify residential status from days of stay",
	RunE: func(cmd *cobra.Command, args []string) error {
		var in domain.ResidencyInput
		in.DaysCurrentFY, _ = cmd.Flags().GetInt("days-current")
		in.DaysPrev4FY, _ = cmd.Flags().GetInt("days-prev4")
		in.DaysPrev7FY, _ = cmd.Flags().GetInt("days-prev7")
		in.ResidentIn2Of10, _ = cmd.Flags().GetBool("resident-2-of-10")

		status := calculation.ClassifyResidency(in)
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", status, status.Description())
		return nil
	},
}

func init() {
	residencyCmd.Flags().Int("days-current", 0, "Days in India during the fiscal year")
	residencyCmd.Flags().Int("days-prev4", 0, "Days in India during the preceding four fiscal years")
	residencyCmd.Flags().Int("days-prev7", 0, "Days in India during the preceding seven fiscal years")
	residencyCmd.Flags().Bool("resident-2-of-10", false, "Resident in at least two of the preceding ten fiscal years")
}
