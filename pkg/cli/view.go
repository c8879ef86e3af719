// Package cli provides the swaigcheck commands for grading submissions and
// inspecting results.
package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/results"
	"github.com/swaigcheck/swaigcheck/pkg/rubric"
)

// NewViewCmd creates the view command for rendering saved grading results.
func NewViewCmd() *cobra.Command {
	var submissionFilter string

	cmd := &cobra.Command{
		Use:   "view <results-file>",
		Short: "Pretty-print grading results from a JSON file",
		Long: `Render the JSON output produced by "swaigcheck grade" in a human-friendly
format.

Examples:
  swaigcheck view swaigcheck-receptionist-lab-out.json
  swaigcheck view --submission alice results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gradingResults, err := results.Load(args[0])
			if err != nil {
				return err
			}

			filtered := results.Filter(gradingResults, submissionFilter)
			if len(filtered) == 0 {
				if submissionFilter == "" {
					return errors.New("no submissions found in results")
				}
				return fmt.Errorf("no submissions matched filter %q", submissionFilter)
			}

			for idx, result := range filtered {
				if idx > 0 {
					fmt.Println()
				}
				printGradingResult(result)
			}

			fmt.Println()
			printStats(results.CalculateStats(args[0], filtered))

			return nil
		},
	}

	cmd.Flags().StringVar(&submissionFilter, "submission", "", "Only show results for submissions whose name contains this value")

	return cmd
}

func printGradingResult(result *rubric.GradingResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	bold.Printf("Submission: %s\n", result.Submission)
	fmt.Printf("  Rubric: %s\n", result.Rubric)

	for _, item := range result.Items {
		if item.Passed {
			green.Printf("  ✓ %-40s %3d pts\n", item.Name, item.Points)
		} else {
			red.Printf("  ✗ %-40s 0/%d pts\n", item.Name, item.Points)
			if item.Reason != "" {
				fmt.Printf("      %s\n", item.Reason)
			}
			for _, detail := range item.Details {
				fmt.Printf("        %s\n", detail)
			}
		}
	}

	if result.Passed {
		green.Printf("  Score: %d/%d (%.0f%%) PASSED\n",
			result.Total, result.MaxPoints, result.ScorePercent*100)
	} else {
		red.Printf("  Score: %d/%d (%.0f%%) FAILED\n",
			result.Total, result.MaxPoints, result.ScorePercent*100)
	}
}

func printStats(stats results.Stats) {
	bold := color.New(color.Bold)

	bold.Println("=== Statistics ===")
	fmt.Printf("Submissions: %d (passed %d, %.1f%%)\n",
		stats.SubmissionsTotal, stats.SubmissionsPassed, stats.PassRate*100)
	fmt.Printf("Points:      %d/%d (%.1f%%)\n",
		stats.PointsEarned, stats.PointsTotal, stats.ScoreRate*100)
	fmt.Printf("Items:       %d/%d passed (%.1f%%)\n",
		stats.ItemsPassed, stats.ItemsTotal, stats.ItemPassRate*100)
}
