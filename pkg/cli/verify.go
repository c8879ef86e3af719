package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/results"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var passRateThreshold float64
	var scoreThreshold float64

	cmd := &cobra.Command{
		Use:   "verify <results-file>",
		Short: "Verify grading results meet thresholds",
		Long: `Verify that saved grading results meet minimum thresholds.

Exits with code 0 if all thresholds are met, code 1 otherwise.
Use 'swaigcheck view' to inspect the results in detail.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsFile := args[0]

			gradingResults, err := results.Load(resultsFile)
			if err != nil {
				return fmt.Errorf("failed to load results file: %w", err)
			}

			stats := results.CalculateStats(resultsFile, gradingResults)

			passRateMet := stats.PassRate >= passRateThreshold
			scoreMet := stats.ScoreRate >= scoreThreshold
			passed := passRateMet && scoreMet

			outputVerifyResults(stats, passRateThreshold, scoreThreshold, passRateMet, scoreMet, passed)

			if !passed {
				// silent error (SilenceErrors: true), sets exit code 1
				return fmt.Errorf("thresholds not met")
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&passRateThreshold, "pass-rate", 0.0, "Minimum fraction of submissions that must pass (0.0-1.0)")
	cmd.Flags().Float64Var(&scoreThreshold, "score", 0.0, "Minimum overall score rate across all submissions (0.0-1.0)")

	return cmd
}

func outputVerifyResults(stats results.Stats, passRateThreshold, scoreThreshold float64, passRateMet, scoreMet, passed bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	_, _ = bold.Println("=== Threshold Verification ===")
	fmt.Println()

	if passRateMet {
		_, _ = green.Printf("Submission Pass Rate: %.2f%% >= %.2f%% ✓\n",
			stats.PassRate*100, passRateThreshold*100)
	} else {
		_, _ = red.Printf("Submission Pass Rate: %.2f%% < %.2f%% ✗\n",
			stats.PassRate*100, passRateThreshold*100)
	}

	if scoreMet {
		_, _ = green.Printf("Overall Score Rate:   %.2f%% >= %.2f%% ✓\n",
			stats.ScoreRate*100, scoreThreshold*100)
	} else {
		_, _ = red.Printf("Overall Score Rate:   %.2f%% < %.2f%% ✗\n",
			stats.ScoreRate*100, scoreThreshold*100)
	}

	fmt.Println()
	if passed {
		_, _ = green.Println("Result: PASSED")
	} else {
		_, _ = red.Println("Result: FAILED")
	}
}
