package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/rules"
	"github.com/rgehrsitz/itax/internal/transform"
)

// cliLogger implements calculation.Logger using the standard log package
type cliLogger struct {
	debug bool
}

func (l cliLogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf("DEBUG: "+format, args...)
	}
}
func (cliLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (cliLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (cliLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "itax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "itax",
	Short: "Indian income tax regime comparator",
	Long: "Computes income tax under the old and new regimes for a taxpayer profile, " +
		"including residency, deductions, capital gains, the 87A rebate, surcharge and cess.",
	SilenceUsage: true,
}

// newEngine resolves the rule tables from --rules, ./itax-rules.yaml or the
// embedded defaults and returns an engine over them.
func newEngine(cmd *cobra.Command) (*calculation.Engine, error) {
	rulesFile, _ := cmd.Flags().GetString("rules")
	reg, source, err := rules.Resolve(rulesFile)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine(reg)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(cliLogger{debug: true})
		log.Printf("DEBUG: rules loaded from %s (fingerprint %s)", source, reg.Fingerprint())
	}
	return engine, nil
}

// whatIfTransforms parses the repeatable --what-if flag.
func whatIfTransforms(cmd *cobra.Command) ([]transform.RequestTransform, error) {
	specs, _ := cmd.Flags().GetStringArray("what-if")
	if len(specs) == 0 {
		return nil, nil
	}
	return transform.NewTransformRegistry().ParseTransformSpecs(specs)
}

func addWhatIfFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("what-if", nil,
		"Apply a change before computing, e.g. add_deduction:section=sec_80c,amount=50000 (repeatable; one of "+
			strings.Join(transform.NewTransformRegistry().List(), ", ")+")")
}

// envOr returns the environment variable key or def when it is unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	rootCmd.PersistentFlags().String("rules", "", "Path to a rule table file (default: "+rules.DefaultOverrideFile+" if it exists, else built-in)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compareYearsCmd)
	rootCmd.AddCommand(breakevenCmd)
	rootCmd.AddCommand(residencyCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
