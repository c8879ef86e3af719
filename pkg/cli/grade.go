package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/swaigcheck/swaigcheck/pkg/gradebook"
	"github.com/swaigcheck/swaigcheck/pkg/results"
	"github.com/swaigcheck/swaigcheck/pkg/rubric"
	"github.com/swaigcheck/swaigcheck/pkg/submission"
	"github.com/swaigcheck/swaigcheck/pkg/util"
)

// NewGradeCmd creates the grade command
func NewGradeCmd() *cobra.Command {
	var rubricPath string
	var outputFormat string
	var recordDB string
	var parallel int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "grade [submission...]",
		Short: "Grade one or more submissions against a rubric",
		Long: `Grade submissions against a rubric and report scores.

Each submission is either a Submission spec (YAML), a pre-rendered SWML
document (JSON), or an executable implementing the invoker contract.
Without --rubric, the builtin receptionist-lab rubric is used.

A submission below the pass threshold is reported as a failing score, not
as a command error: the report is the outcome.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grading, err := rubric.Load(rubricPath)
			if err != nil {
				return fmt.Errorf("failed to load rubric: %w", err)
			}

			ctx := util.WithVerbose(context.Background(), verbose)

			gradingResults, err := gradeAll(ctx, grading, args, parallel)
			if err != nil {
				return err
			}

			outputFile := fmt.Sprintf("swaigcheck-%s-out.json", grading.Name)
			if err := results.Save(gradingResults, outputFile); err != nil {
				return fmt.Errorf("failed to save results to file: %w", err)
			}
			fmt.Printf("Results saved to: %s\n\n", outputFile)

			if recordDB != "" {
				if err := recordResults(ctx, recordDB, gradingResults); err != nil {
					return fmt.Errorf("failed to record results: %w", err)
				}
			}

			return displayResults(gradingResults, grading.Threshold, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&rubricPath, "rubric", "r", "", "Rubric spec file (default: builtin receptionist-lab rubric)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&recordDB, "record", "", "Record results into the gradebook at this path")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "Maximum submissions graded concurrently")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// gradeAll grades every submission, fanning out across submissions while
// each individual evaluation stays sequential.
func gradeAll(ctx context.Context, grading *rubric.Rubric, paths []string, parallel int) ([]*rubric.GradingResult, error) {
	gradingResults := make([]*rubric.GradingResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if parallel < 1 {
		parallel = 1
	}
	g.SetLimit(parallel)

	for i, path := range paths {
		g.Go(func() error {
			sub, err := submission.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load submission '%s': %w", path, err)
			}

			gradingResults[i] = grading.Evaluate(gctx, sub)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return gradingResults, nil
}

func recordResults(ctx context.Context, dbPath string, gradingResults []*rubric.GradingResult) error {
	store, err := gradebook.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, result := range gradingResults {
		id, err := store.Record(ctx, result)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded run %s for %s\n", id, result.Submission)
	}

	return nil
}

func displayResults(gradingResults []*rubric.GradingResult, threshold float64, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(gradingResults)

	case "text":
		displayTextResults(gradingResults, threshold)
		return nil

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func displayTextResults(gradingResults []*rubric.GradingResult, threshold float64) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	bold.Println("=== Grading Report ===")

	passedCount := 0
	for _, result := range gradingResults {
		fmt.Println()
		cyan.Printf("Submission: %s\n", result.Submission)
		fmt.Printf("  Rubric: %s\n", result.Rubric)

		for _, item := range result.Items {
			if item.Passed {
				green.Printf("  ✓ %s (%d pts)\n", item.Name, item.Points)
			} else {
				red.Printf("  ✗ %s (0/%d pts)\n", item.Name, item.Points)
				if item.Reason != "" {
					fmt.Printf("    %s\n", item.Reason)
				}
				for _, detail := range item.Details {
					fmt.Printf("      %s\n", detail)
				}
			}
		}

		if result.Passed {
			passedCount++
			green.Printf("  Score: %d/%d (%.0f%%) PASSED\n",
				result.Total, result.MaxPoints, result.ScorePercent*100)
		} else {
			red.Printf("  Score: %d/%d (%.0f%%) FAILED (need %.0f%%)\n",
				result.Total, result.MaxPoints, result.ScorePercent*100, threshold*100)
		}
	}

	fmt.Println()
	bold.Println("=== Overall ===")
	if passedCount == len(gradingResults) {
		green.Printf("Submissions Passed: %d/%d\n", passedCount, len(gradingResults))
	} else {
		fmt.Printf("Submissions Passed: %d/%d\n", passedCount, len(gradingResults))
	}
}
