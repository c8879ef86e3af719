package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root swaigcheck command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swaigcheck",
		Short: "Grading harness for SWML voice-agent submissions",
		Long: `swaigcheck grades SWML voice-agent submissions against weighted rubrics.
It inspects the document a submission renders, exercises its declared SWAIG
functions, and scores the outcome against a pass threshold.`,
	}

	rootCmd.AddCommand(NewGradeCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewViewCmd())
	rootCmd.AddCommand(NewToolsCmd())
	rootCmd.AddCommand(NewDumpCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
